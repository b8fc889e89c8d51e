package ports

import "go.trai.ch/kiln/internal/core/domain"

// LayerStore defines the interface for the persistent layer cache.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type LayerStore interface {
	// Get retrieves the layer info for a given step name.
	// Returns nil, nil if not found.
	Get(stepName string) (*domain.LayerInfo, error)

	// Put stores the layer info.
	Put(info domain.LayerInfo) error
}

// ImageWriter persists the final image configuration snapshot.
type ImageWriter interface {
	// WriteImage writes the immutable image configuration produced by a
	// completed build.
	WriteImage(cfg *domain.ImageConfig) error
}
