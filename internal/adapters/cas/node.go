package cas

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/core/ports"
)

const (
	NodeID      graft.ID = "adapter.layer_store"
	ImageNodeID graft.ID = "adapter.image_writer"

	stateDirEnv = "KILN_STATE_DIR"
)

// StateDir returns the active state directory: the KILN_STATE_DIR override
// when set, DefaultStateDir otherwise. Exposed so the hasher can keep the
// store's own files out of the build context walk.
func StateDir() string {
	if dir := os.Getenv(stateDirEnv); dir != "" {
		return dir
	}
	return DefaultStateDir
}

func init() {
	graft.Register(graft.Node[ports.LayerStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.LayerStore, error) {
			return NewStore(StateDir())
		},
	})

	// The image writer shares the store's state directory but is resolved
	// as its own dependency so consumers only see the port they need.
	graft.Register(graft.Node[ports.ImageWriter]{
		ID:        ImageNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.ImageWriter, error) {
			return NewStore(StateDir())
		},
	})
}
