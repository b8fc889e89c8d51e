// Package app implements the application layer for kiln.
package app

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/planner"
	"go.trai.ch/kiln/internal/engine/runner"
	"go.trai.ch/zerr"
)

// BuildOptions are the per-invocation parameters of a build.
type BuildOptions struct {
	// RecipePath is the path of the recipe file.
	RecipePath string

	// Root is the build context directory.
	Root string

	// DevFlag is the raw flag value from the command line. Empty means the
	// flag was not passed and the environment decides.
	DevFlag string

	// NoCache forces every step to execute.
	NoCache bool
}

// App drives a build end to end: load the recipe, resolve the build flag,
// expand the plan, run it, snapshot the image configuration.
type App struct {
	recipeLoader ports.RecipeLoader
	planner      *planner.Planner
	runner       *runner.Runner
	imageWriter  ports.ImageWriter
	verifier     ports.Verifier
	logger       ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.RecipeLoader,
	plnr *planner.Planner,
	rnr *runner.Runner,
	imageWriter ports.ImageWriter,
	verifier ports.Verifier,
	logger ports.Logger,
) *App {
	return &App{
		recipeLoader: loader,
		planner:      plnr,
		runner:       rnr,
		imageWriter:  imageWriter,
		verifier:     verifier,
		logger:       logger,
	}
}

// Run executes a full build.
func (a *App) Run(ctx context.Context, opts BuildOptions) error {
	recipe, err := a.recipeLoader.Load(opts.RecipePath)
	if err != nil {
		return zerr.Wrap(err, "failed to load recipe")
	}

	flag, err := a.resolveFlag(opts)
	if err != nil {
		return err
	}

	plan, err := a.planner.Expand(recipe, flag)
	if err != nil {
		return zerr.Wrap(err, "failed to expand plan")
	}

	cfg, err := a.runner.Run(ctx, plan, opts.Root, flag, runner.Options{NoCache: opts.NoCache})
	if err != nil {
		return err
	}

	// The snapshot is only written for a completed build; a failed build
	// leaves the previous snapshot untouched.
	if err := a.imageWriter.WriteImage(cfg); err != nil {
		return zerr.Wrap(err, "failed to write image configuration")
	}

	a.checkContract(recipe, opts.Root)

	a.logger.Info("build completed: " + recipe.Image)
	return nil
}

// Describe expands the plan without executing anything. Used by the plan
// command.
func (a *App) Describe(opts BuildOptions) (*domain.Plan, error) {
	recipe, err := a.recipeLoader.Load(opts.RecipePath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load recipe")
	}

	flag, err := a.resolveFlag(opts)
	if err != nil {
		return nil, err
	}

	return a.planner.Expand(recipe, flag)
}

// resolveFlag determines the DEV flag: an explicit command-line value wins,
// otherwise the build arguments (process environment over .env) decide.
func (a *App) resolveFlag(opts BuildOptions) (domain.BuildFlag, error) {
	if opts.DevFlag != "" {
		return domain.ParseBuildFlag(opts.DevFlag), nil
	}

	args, err := a.recipeLoader.BuildArgs(opts.Root)
	if err != nil {
		return false, zerr.Wrap(err, "failed to resolve build arguments")
	}
	return domain.ParseBuildFlag(args["DEV"]), nil
}

// checkContract verifies the filesystem contract of the finished image:
// the isolated environment and, for the rendering variant, the cache
// directory. Steps run with absolute target paths, so under a plain local
// root the paths may legitimately live outside it; a miss is reported, not
// fatal.
func (a *App) checkContract(recipe *domain.Recipe, root string) {
	paths := []string{recipe.EnvPath}
	if recipe.Weasyprint() {
		paths = append(paths, recipe.CacheDir)
	}

	ok, err := a.verifier.VerifyImage(root, paths)
	if err != nil {
		a.logger.Error(zerr.Wrap(err, "image contract check failed"))
		return
	}
	if !ok {
		a.logger.Warn("image contract check: expected paths missing under build root")
	}
}
