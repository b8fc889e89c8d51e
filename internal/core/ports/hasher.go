package ports

import "go.trai.ch/kiln/internal/core/domain"

// LayerHasher defines the interface for computing layer input hashes.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type LayerHasher interface {
	// ComputeStepHash computes a single hash covering the step definition,
	// the build flag, and the content of the step's input files resolved
	// against the build root.
	ComputeStepHash(step *domain.Step, flag domain.BuildFlag, root string) (string, error)
}
