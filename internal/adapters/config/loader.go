// Package config provides the recipe loader for kiln.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/joho/godotenv"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Defaults applied when the recipe omits optional fields. They match the
// conventional layout of the images this tool was written for.
const (
	defaultWorkDir  = "/app"
	defaultSource   = "."
	defaultEnvPath  = "/opt/venv"
	defaultPort     = 8000
	defaultUserName = "appuser"
)

var _ ports.RecipeLoader = (*Loader)(nil)

// Loader implements ports.RecipeLoader using a YAML file plus an optional
// .env file for build-time arguments.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads and validates the recipe at the given path.
func (l *Loader) Load(path string) (*domain.Recipe, error) {
	return Load(path)
}

// BuildArgs resolves build-time arguments for the given build root. Values
// from a .env file in the root are the base; the process environment wins.
func (l *Loader) BuildArgs(root string) (map[string]string, error) {
	args := make(map[string]string)

	envPath := filepath.Join(root, ".env")
	fileArgs, err := godotenv.Read(envPath)
	switch {
	case err == nil:
		for k, v := range fileArgs {
			args[k] = v
		}
	case errors.Is(err, fs.ErrNotExist):
		// No .env file is the common case.
	default:
		return nil, zerr.With(zerr.Wrap(err, "failed to read build args file"), "path", envPath)
	}

	if dev, ok := os.LookupEnv("DEV"); ok {
		args["DEV"] = dev
	}

	return args, nil
}

// Load reads a recipe file from the given path and returns a validated
// domain.Recipe.
func Load(path string) (*domain.Recipe, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read recipe file")
	}

	var rf Recipefile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, zerr.Wrap(err, "failed to parse recipe file")
	}

	recipe := &domain.Recipe{
		Image:     rf.Image,
		BaseImage: rf.Base,
		Port:      rf.Port,
		WorkDir:   rf.WorkDir,
		SourceDir: rf.Source,
		EnvPath:   rf.Environment,
		Variant:   domain.Variant(rf.Variant),
		Manifests: domain.Manifests{
			Base: rf.Manifests.Base,
			Dev:  rf.Manifests.Dev,
		},
		Packages: domain.PackageSets{
			Runtime:   canonicalizeStrings(rf.Packages.Runtime),
			Build:     canonicalizeStrings(rf.Packages.Build),
			Rendering: canonicalizeStrings(rf.Packages.Rendering),
		},
		User:     domain.UserSpec{Name: domain.NewInternedString(rf.User.Name)},
		Env:      rf.Env,
		CacheDir: rf.CacheDir,
	}
	applyDefaults(recipe)

	if err := recipe.Validate(); err != nil {
		return nil, zerr.With(err, "path", path)
	}

	return recipe, nil
}

func applyDefaults(r *domain.Recipe) {
	if r.WorkDir == "" {
		r.WorkDir = defaultWorkDir
	}
	if r.SourceDir == "" {
		r.SourceDir = defaultSource
	}
	if r.EnvPath == "" {
		r.EnvPath = defaultEnvPath
	}
	if r.Port == 0 {
		r.Port = defaultPort
	}
	if r.Variant == "" {
		r.Variant = domain.VariantStandard
	}
	if r.User.Name.String() == "" {
		r.User.Name = domain.NewInternedString(defaultUserName)
	}
}

func canonicalizeStrings(strs []string) []domain.InternedString {
	if len(strs) == 0 {
		return nil
	}

	sorted := make([]string, len(strs))
	copy(sorted, strs)
	slices.Sort(sorted)

	unique := slices.Compact(sorted)
	res := make([]domain.InternedString, len(unique))
	for i, s := range unique {
		res[i] = domain.NewInternedString(s)
	}
	return res
}
