package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/cas"    //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/config" //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/fs"     //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/logger" //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/planner"
	"go.trai.ch/kiln/internal/engine/runner"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			planner.NodeID,
			runner.NodeID,
			cas.ImageNodeID,
			fs.VerifierNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			loader, err := graft.Dep[ports.RecipeLoader](ctx)
			if err != nil {
				return nil, err
			}

			plnr, err := graft.Dep[*planner.Planner](ctx)
			if err != nil {
				return nil, err
			}

			rnr, err := graft.Dep[*runner.Runner](ctx)
			if err != nil {
				return nil, err
			}

			imageWriter, err := graft.Dep[ports.ImageWriter](ctx)
			if err != nil {
				return nil, err
			}

			verifier, err := graft.Dep[ports.Verifier](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(loader, plnr, rnr, imageWriter, verifier, log), nil
		},
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	application, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	loader, err := graft.Dep[ports.RecipeLoader](ctx)
	if err != nil {
		return nil, err
	}

	executor, err := graft.Dep[ports.Executor](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.LayerStore](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.LayerHasher](ctx)
	if err != nil {
		return nil, err
	}

	verifier, err := graft.Dep[ports.Verifier](ctx)
	if err != nil {
		return nil, err
	}

	plnr, err := graft.Dep[*planner.Planner](ctx)
	if err != nil {
		return nil, err
	}

	rnr, err := graft.Dep[*runner.Runner](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:          application,
		Logger:       log,
		RecipeLoader: loader,
		Executor:     executor,
		Store:        store,
		Hasher:       hasher,
		Verifier:     verifier,
		Planner:      plnr,
		Runner:       rnr,
	}, nil
}
