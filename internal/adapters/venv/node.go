package venv

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/core/ports"
)

const NodeID graft.ID = "adapter.environment_tool"

func init() {
	graft.Register(graft.Node[ports.EnvironmentTool]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.EnvironmentTool, error) {
			return NewTool(), nil
		},
	})
}
