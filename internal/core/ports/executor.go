package ports

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
)

// Executor defines the interface for executing a build step.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the step's commands in order inside the build root.
	//
	// The env parameter contains the accumulated image environment in
	// "KEY=VALUE" format; it is merged over the process environment so that
	// the isolated environment's search path takes effect for later steps.
	//
	// The first failing command aborts the step and returns its error.
	Execute(ctx context.Context, step *domain.Step, root string, env []string) error
}
