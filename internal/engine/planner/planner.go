// Package planner expands a validated recipe into the ordered step plan of
// the build procedure.
package planner

import (
	"fmt"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

// Planner turns a recipe and a build flag into an executable plan. The
// package manager and environment tool render the concrete commands; the
// planner owns the ordering, the branching, and the purge set.
type Planner struct {
	packages ports.PackageManager
	envTool  ports.EnvironmentTool
}

// NewPlanner creates a new Planner.
func NewPlanner(packages ports.PackageManager, envTool ports.EnvironmentTool) *Planner {
	return &Planner{
		packages: packages,
		envTool:  envTool,
	}
}

// Expand produces the full step plan for the recipe. The plan is validated
// before it is returned; a plan that fails its own ordering invariants is a
// planner bug and surfaces as an error rather than a bad build.
func (p *Planner) Expand(recipe *domain.Recipe, flag domain.BuildFlag) (*domain.Plan, error) {
	if err := recipe.Validate(); err != nil {
		return nil, err
	}

	plan := domain.NewPlan()

	steps := []*domain.Step{
		p.baseStep(recipe),
		p.envStep(recipe),
		p.copyStep(recipe, flag),
		p.metaStep(recipe),
		p.systemPackagesStep(recipe),
		p.environmentStep(recipe),
	}

	if flag {
		steps = append(steps, p.devPackagesStep(recipe))
	}
	if recipe.Weasyprint() {
		steps = append(steps, p.fontCacheStep())
	}

	steps = append(steps,
		p.purgeStep(recipe),
		p.userStep(recipe),
		p.pathStep(recipe),
		p.switchUserStep(recipe),
	)

	for _, step := range steps {
		if err := plan.Append(step); err != nil {
			return nil, err
		}
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

// baseStep records the pinned base image reference.
func (p *Planner) baseStep(recipe *domain.Recipe) *domain.Step {
	return &domain.Step{
		Name:     domain.NewInternedString("base"),
		Kind:     domain.StepBase,
		Mutation: domain.ImageMutation{BaseImage: recipe.BaseImage},
	}
}

// envStep records the recipe-level environment variables.
func (p *Planner) envStep(recipe *domain.Recipe) *domain.Step {
	return &domain.Step{
		Name:     domain.NewInternedString("env"),
		Kind:     domain.StepEnv,
		Mutation: domain.ImageMutation{Env: recipe.Env},
	}
}

// copyStep declares the build context contents as layer inputs: the
// dependency manifests and the source tree. The development manifest only
// participates when the flag is set, so production builds do not invalidate
// on dev-only dependency changes.
func (p *Planner) copyStep(recipe *domain.Recipe, flag domain.BuildFlag) *domain.Step {
	inputs := []domain.InternedString{
		domain.NewInternedString(recipe.Manifests.Base),
	}
	if bool(flag) && recipe.Manifests.Dev != "" {
		inputs = append(inputs, domain.NewInternedString(recipe.Manifests.Dev))
	}
	inputs = append(inputs, domain.NewInternedString(recipe.SourceDir))

	return &domain.Step{
		Name:   domain.NewInternedString("copy"),
		Kind:   domain.StepCopy,
		Inputs: inputs,
	}
}

// metaStep records the working directory and the exposed port. Declarative
// only; nothing listens on the port during the build.
func (p *Planner) metaStep(recipe *domain.Recipe) *domain.Step {
	return &domain.Step{
		Name: domain.NewInternedString("meta"),
		Kind: domain.StepMeta,
		Mutation: domain.ImageMutation{
			WorkDir: recipe.WorkDir,
			Port:    recipe.Port,
		},
	}
}

// systemPackagesStep installs every system package the build needs in one
// transaction: runtime libraries, the build-only toolchain, and the variant
// rendering set. The index caches are dropped in the same step so they never
// reach a layer.
func (p *Planner) systemPackagesStep(recipe *domain.Recipe) *domain.Step {
	packages := internedToStrings(recipe.Packages.Runtime)
	packages = append(packages, internedToStrings(recipe.Packages.Build)...)
	if recipe.Weasyprint() {
		packages = append(packages, internedToStrings(recipe.Packages.Rendering)...)
	}

	return &domain.Step{
		Name: domain.NewInternedString("system-packages"),
		Kind: domain.StepSystemPackages,
		Commands: [][]string{
			p.packages.UpdateCommand(),
			p.packages.InstallCommand(packages),
			p.packages.CleanCommand(),
		},
	}
}

// environmentStep creates the isolated environment and installs the base
// manifest. The manifest is a layer input, so a changed manifest rebuilds
// this layer and everything after it.
func (p *Planner) environmentStep(recipe *domain.Recipe) *domain.Step {
	return &domain.Step{
		Name: domain.NewInternedString("environment"),
		Kind: domain.StepEnvironment,
		Commands: [][]string{
			p.envTool.CreateCommand(recipe.EnvPath),
			p.envTool.BootstrapCommand(recipe.EnvPath),
			p.envTool.InstallCommand(recipe.EnvPath, recipe.Manifests.Base),
		},
		Inputs: []domain.InternedString{
			domain.NewInternedString(recipe.Manifests.Base),
		},
	}
}

// devPackagesStep installs the development manifest. Only planned when the
// build flag is truthy.
func (p *Planner) devPackagesStep(recipe *domain.Recipe) *domain.Step {
	return &domain.Step{
		Name: domain.NewInternedString("dev-packages"),
		Kind: domain.StepDevPackages,
		Commands: [][]string{
			p.envTool.InstallCommand(recipe.EnvPath, recipe.Manifests.Dev),
		},
		Inputs: []domain.InternedString{
			domain.NewInternedString(recipe.Manifests.Dev),
		},
	}
}

// fontCacheStep pre-warms the font metadata cache so the first PDF render
// does not pay the scan cost.
func (p *Planner) fontCacheStep() *domain.Step {
	return &domain.Step{
		Name: domain.NewInternedString("font-cache"),
		Kind: domain.StepFontCache,
		Commands: [][]string{
			{"fc-cache", "-f"},
		},
	}
}

// purgeStep removes the build-only packages. The purge set is computed from
// the recipe's retain semantics: anything the runtime (or the variant) still
// needs is never listed. An empty purge set still plans the step so the
// clean runs.
func (p *Planner) purgeStep(recipe *domain.Recipe) *domain.Step {
	purge := internedToStrings(recipe.BuildOnlyPackages())

	commands := [][]string{}
	if len(purge) > 0 {
		commands = append(commands, p.packages.PurgeCommand(purge))
	}
	commands = append(commands, p.packages.CleanCommand())

	return &domain.Step{
		Name:     domain.NewInternedString("purge"),
		Kind:     domain.StepPurge,
		Commands: commands,
	}
}

// userStep creates the non-privileged identity with no home directory and
// no login shell. The weasyprint variant also provisions the cache
// directory and hands it to that identity, since the runtime user cannot
// create it later.
func (p *Planner) userStep(recipe *domain.Recipe) *domain.Step {
	user := recipe.User.Name.String()

	commands := [][]string{
		{"useradd", "--system", "--no-create-home", "--shell", "/usr/sbin/nologin", user},
	}
	if recipe.Weasyprint() {
		commands = append(commands,
			[]string{"mkdir", "-p", recipe.CacheDir},
			[]string{"chown", fmt.Sprintf("%s:%s", user, user), recipe.CacheDir},
		)
	}

	return &domain.Step{
		Name:     domain.NewInternedString("user"),
		Kind:     domain.StepUser,
		Commands: commands,
	}
}

// pathStep fixes the executable search path to prefer the isolated
// environment, and points the cache env var at the provisioned directory
// for the rendering variant.
func (p *Planner) pathStep(recipe *domain.Recipe) *domain.Step {
	mutation := domain.ImageMutation{
		PathPrefix: p.envTool.BinDir(recipe.EnvPath),
	}
	if recipe.Weasyprint() {
		mutation.Env = map[string]string{"XDG_CACHE_HOME": recipe.CacheDir}
	}

	return &domain.Step{
		Name:     domain.NewInternedString("path"),
		Kind:     domain.StepPath,
		Mutation: mutation,
	}
}

// switchUserStep records the non-privileged identity as the image's default
// execution identity. Terminal; nothing after it runs as root.
func (p *Planner) switchUserStep(recipe *domain.Recipe) *domain.Step {
	return &domain.Step{
		Name:     domain.NewInternedString("switch-user"),
		Kind:     domain.StepSwitchUser,
		Mutation: domain.ImageMutation{User: recipe.User.Name.String()},
	}
}

func internedToStrings(in []domain.InternedString) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, s.String())
	}
	return out
}
