package planner

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/apt"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kiln/internal/adapters/venv" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kiln/internal/core/ports"
)

// NodeID is the unique identifier for the planner Graft node.
const NodeID graft.ID = "engine.planner"

func init() {
	graft.Register(graft.Node[*Planner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			apt.NodeID,
			venv.NodeID,
		},
		Run: func(ctx context.Context) (*Planner, error) {
			packages, err := graft.Dep[ports.PackageManager](ctx)
			if err != nil {
				return nil, err
			}

			envTool, err := graft.Dep[ports.EnvironmentTool](ctx)
			if err != nil {
				return nil, err
			}

			return NewPlanner(packages, envTool), nil
		},
	})
}
