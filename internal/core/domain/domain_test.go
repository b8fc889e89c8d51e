package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/core/domain"
)

func weasyprintRecipe() *domain.Recipe {
	return &domain.Recipe{
		Image:     "school-portal",
		BaseImage: "python:3.12-slim",
		Port:      8000,
		WorkDir:   "/app",
		SourceDir: ".",
		EnvPath:   "/opt/venv",
		Variant:   domain.VariantWeasyprint,
		Manifests: domain.Manifests{Base: "requirements.txt", Dev: "requirements-dev.txt"},
		Packages: domain.PackageSets{
			Runtime:   domain.NewInternedStrings([]string{"libpq5"}),
			Build:     domain.NewInternedStrings([]string{"build-essential", "libpq-dev", "libpq5"}),
			Rendering: domain.NewInternedStrings([]string{"libpango-1.0-0", "libcairo2", "fonts-dejavu-core"}),
		},
		User:     domain.UserSpec{Name: domain.NewInternedString("appuser")},
		Env:      map[string]string{"PYTHONUNBUFFERED": "1"},
		CacheDir: "/var/cache/app",
	}
}

func TestRecipeValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *domain.Recipe)
		wantErr error
	}{
		{
			name:   "valid weasyprint recipe",
			mutate: func(_ *domain.Recipe) {},
		},
		{
			name: "valid standard recipe",
			mutate: func(r *domain.Recipe) {
				r.Variant = domain.VariantStandard
				r.CacheDir = ""
				r.Packages.Rendering = nil
			},
		},
		{
			name:    "missing base image",
			mutate:  func(r *domain.Recipe) { r.BaseImage = "" },
			wantErr: domain.ErrInvalidRecipe,
		},
		{
			name:    "missing base manifest",
			mutate:  func(r *domain.Recipe) { r.Manifests.Base = "" },
			wantErr: domain.ErrInvalidRecipe,
		},
		{
			name:    "port out of range",
			mutate:  func(r *domain.Recipe) { r.Port = 70000 },
			wantErr: domain.ErrInvalidRecipe,
		},
		{
			name:    "missing runtime user",
			mutate:  func(r *domain.Recipe) { r.User = domain.UserSpec{} },
			wantErr: domain.ErrInvalidRecipe,
		},
		{
			name:    "weasyprint without cache dir",
			mutate:  func(r *domain.Recipe) { r.CacheDir = "" },
			wantErr: domain.ErrInvalidRecipe,
		},
		{
			name:    "weasyprint without rendering packages",
			mutate:  func(r *domain.Recipe) { r.Packages.Rendering = nil },
			wantErr: domain.ErrInvalidRecipe,
		},
		{
			name:    "unknown variant",
			mutate:  func(r *domain.Recipe) { r.Variant = "alpine" },
			wantErr: domain.ErrUnknownVariant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := weasyprintRecipe()
			tt.mutate(r)

			err := r.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
		})
	}
}

func TestRecipeBuildOnlyPackages(t *testing.T) {
	r := weasyprintRecipe()

	purge := r.BuildOnlyPackages()

	// libpq5 is both a build and a runtime package; it must be retained.
	names := make([]string, len(purge))
	for i, p := range purge {
		names[i] = p.String()
	}
	assert.Equal(t, []string{"build-essential", "libpq-dev"}, names)

	// The purge set never intersects the retained runtime set.
	for _, kept := range r.RuntimePackages() {
		assert.NotContains(t, purge, kept)
	}
}

func TestRecipeBuildOnlyPackages_StandardIgnoresRendering(t *testing.T) {
	r := weasyprintRecipe()
	r.Variant = domain.VariantStandard

	// In the standard variant rendering packages are not retained, but they
	// are not in the build set either, so the purge set is unchanged.
	purge := r.BuildOnlyPackages()
	names := make([]string, len(purge))
	for i, p := range purge {
		names[i] = p.String()
	}
	assert.Equal(t, []string{"build-essential", "libpq-dev"}, names)

	retained := r.RuntimePackages()
	assert.Len(t, retained, 1)
	assert.Equal(t, "libpq5", retained[0].String())
}

func TestParseBuildFlag(t *testing.T) {
	tests := []struct {
		raw  string
		want domain.BuildFlag
	}{
		{"true", true},
		{" true ", true},
		{"false", false},
		{"", false},
		{"1", false},
		{"TRUE", false},
		{"yes", false},
	}

	for _, tt := range tests {
		t.Run("raw="+tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ParseBuildFlag(tt.raw))
		})
	}

	assert.Equal(t, "true", domain.BuildFlag(true).String())
	assert.Equal(t, "false", domain.BuildFlag(false).String())
}

func TestImageConfigApplyMutation(t *testing.T) {
	cfg := domain.NewImageConfig()

	cfg.ApplyMutation(domain.ImageMutation{BaseImage: "python:3.12-slim"})
	cfg.ApplyMutation(domain.ImageMutation{Env: map[string]string{"PYTHONUNBUFFERED": "1"}})
	cfg.ApplyMutation(domain.ImageMutation{WorkDir: "/app", Port: 8000})
	cfg.ApplyMutation(domain.ImageMutation{PathPrefix: "/opt/venv/bin"})
	cfg.ApplyMutation(domain.ImageMutation{User: "appuser"})

	assert.Equal(t, "python:3.12-slim", cfg.BaseImage)
	assert.Equal(t, "/app", cfg.WorkDir)
	assert.Equal(t, 8000, cfg.ExposedPort)
	assert.Equal(t, "appuser", cfg.User)
	assert.Equal(t, "1", cfg.Env["PYTHONUNBUFFERED"])
	assert.Equal(t, "/opt/venv/bin:"+domain.DefaultSearchPath, cfg.Env["PATH"])
}

func TestImageConfigEnvSlice(t *testing.T) {
	cfg := domain.NewImageConfig()
	cfg.ApplyMutation(domain.ImageMutation{Env: map[string]string{
		"PYTHONUNBUFFERED": "1",
		"XDG_CACHE_HOME":   "/var/cache/app",
	}})

	env := cfg.EnvSlice()

	// Sorted, KEY=VALUE form.
	require.Len(t, env, 3)
	assert.Equal(t, "PATH="+domain.DefaultSearchPath, env[0])
	assert.Equal(t, "PYTHONUNBUFFERED=1", env[1])
	assert.Equal(t, "XDG_CACHE_HOME=/var/cache/app", env[2])
}

func TestStepStatusIsTerminal(t *testing.T) {
	terminal := []domain.StepStatus{
		domain.StepStatusCompleted,
		domain.StepStatusFailed,
		domain.StepStatusCached,
	}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), "expected %s to be terminal", s)
	}

	assert.False(t, domain.StepStatusPending.IsTerminal())
	assert.False(t, domain.StepStatusRunning.IsTerminal())
}

func TestStepKindRank(t *testing.T) {
	assert.Equal(t, 1, domain.StepBase.Rank())
	assert.Equal(t, 12, domain.StepSwitchUser.Rank())
	assert.Equal(t, 0, domain.StepKind("bogus").Rank())
	assert.Less(t, domain.StepEnvironment.Rank(), domain.StepDevPackages.Rank())
	assert.Less(t, domain.StepDevPackages.Rank(), domain.StepPurge.Rank())
}
