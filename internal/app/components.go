package app

import (
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/planner"
	"go.trai.ch/kiln/internal/engine/runner"
)

// Components bundles the resolved application graph for consumers that need
// more than the App itself (the CLI, tests).
type Components struct {
	App          *App
	Logger       ports.Logger
	RecipeLoader ports.RecipeLoader
	Executor     ports.Executor
	Store        ports.LayerStore
	Hasher       ports.LayerHasher
	Verifier     ports.Verifier
	Planner      *planner.Planner
	Runner       *runner.Runner
}
