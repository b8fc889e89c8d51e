// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/kiln/internal/core/domain"

// RecipeLoader defines the interface for loading the build recipe and the
// build-time arguments that accompany it.
//
//go:generate go run go.uber.org/mock/mockgen -source=recipe_loader.go -destination=mocks/mock_recipe_loader.go -package=mocks
type RecipeLoader interface {
	// Load reads and validates the recipe at the given path.
	Load(path string) (*domain.Recipe, error)

	// BuildArgs resolves build-time arguments (e.g. the DEV flag) for the
	// given build root, merging a .env file with the process environment.
	// The process environment wins.
	BuildArgs(root string) (map[string]string, error)
}
