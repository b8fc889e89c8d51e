package domain

// StepKind identifies the position of a step within the build procedure.
// Kinds carry a fixed rank; a valid plan lists its steps in strictly
// increasing rank order.
type StepKind string

const (
	// StepBase selects and records the pinned base image reference.
	StepBase StepKind = "base"
	// StepEnv records the recipe-level environment variables.
	StepEnv StepKind = "env"
	// StepCopy copies the dependency manifests and the source tree into the
	// build root.
	StepCopy StepKind = "copy"
	// StepMeta records the working directory and the exposed port.
	StepMeta StepKind = "meta"
	// StepSystemPackages installs the system-level shared libraries and the
	// build toolchain.
	StepSystemPackages StepKind = "system-packages"
	// StepEnvironment creates the isolated package environment and installs
	// the base manifest into it.
	StepEnvironment StepKind = "environment"
	// StepDevPackages installs the development manifest. Present only when
	// the DEV flag is truthy.
	StepDevPackages StepKind = "dev-packages"
	// StepFontCache pre-warms the font metadata cache (weasyprint only).
	StepFontCache StepKind = "font-cache"
	// StepPurge removes the build-only packages.
	StepPurge StepKind = "purge"
	// StepUser provisions the non-privileged execution identity.
	StepUser StepKind = "user"
	// StepPath fixes the executable search path and the cache env var.
	StepPath StepKind = "path"
	// StepSwitchUser records the non-privileged identity as the default
	// execution identity of the image.
	StepSwitchUser StepKind = "switch-user"
)

// stepRank fixes the mandatory ordering of the build procedure.
var stepRank = map[StepKind]int{
	StepBase:           1,
	StepEnv:            2,
	StepCopy:           3,
	StepMeta:           4,
	StepSystemPackages: 5,
	StepEnvironment:    6,
	StepDevPackages:    7,
	StepFontCache:      8,
	StepPurge:          9,
	StepUser:           10,
	StepPath:           11,
	StepSwitchUser:     12,
}

// Rank returns the ordinal position of the kind in the build procedure, or 0
// for an unknown kind.
func (k StepKind) Rank() int {
	return stepRank[k]
}

// ImageMutation describes the change a step applies to the accumulating
// image configuration. Zero-valued fields leave the configuration untouched.
type ImageMutation struct {
	BaseImage string
	WorkDir   string
	Port      int
	User      string

	// Env entries are merged into the image environment.
	Env map[string]string

	// PathPrefix is prepended to the image's executable search path.
	PathPrefix string
}

// Step is one ordered unit of the build procedure. Commands run in order
// through the executor; Inputs name the files whose content feeds the layer
// hash; Mutation is applied to the image configuration after the commands
// succeed (or on a cache hit).
type Step struct {
	Name     InternedString
	Kind     StepKind
	Commands [][]string
	Inputs   []InternedString
	Mutation ImageMutation
}
