package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidRecipe is returned when a loaded recipe violates a structural invariant.
	ErrInvalidRecipe = zerr.New("invalid recipe")

	// ErrUnknownVariant is returned when a recipe names a variant the planner does not know.
	ErrUnknownVariant = zerr.New("unknown variant")

	// ErrStepAlreadyExists is returned when appending a step whose name is already taken.
	ErrStepAlreadyExists = zerr.New("step already exists")

	// ErrStepNotFound is returned when a requested step is not part of the plan.
	ErrStepNotFound = zerr.New("step not found")

	// ErrInvalidStepOrder is returned when a plan violates the mandatory step ordering.
	ErrInvalidStepOrder = zerr.New("invalid step order")

	// ErrManifestEmpty is returned when a dependency manifest exists but has no content.
	ErrManifestEmpty = zerr.New("dependency manifest is empty")

	// ErrInputNotFound is returned when a step input file is missing from the build root.
	ErrInputNotFound = zerr.New("input not found")

	// ErrBuildExecutionFailed is returned when a step aborts the build.
	ErrBuildExecutionFailed = zerr.New("build execution failed")
)
