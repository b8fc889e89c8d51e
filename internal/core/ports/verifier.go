package ports

import "go.trai.ch/kiln/internal/core/domain"

// Verifier defines the interface for checking build inputs and the final
// filesystem contract of the image.
//
//go:generate go run go.uber.org/mock/mockgen -source=verifier.go -destination=mocks/mock_verifier.go -package=mocks
type Verifier interface {
	// VerifyInputs checks that every input of the step exists under the
	// build root and is non-empty. A zero-byte dependency manifest is an
	// error: installing from it would silently produce a partial
	// environment.
	VerifyInputs(root string, step *domain.Step) error

	// VerifyImage checks that the listed paths exist under the build root
	// after the build completed (isolated environment, cache directory).
	VerifyImage(root string, paths []string) (bool, error)
}
