package apt

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/core/ports"
)

const NodeID graft.ID = "adapter.package_manager"

func init() {
	graft.Register(graft.Node[ports.PackageManager]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.PackageManager, error) {
			return NewManager(), nil
		},
	})
}
