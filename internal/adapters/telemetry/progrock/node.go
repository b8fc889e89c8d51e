package progrock

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/telemetry"
	"go.trai.ch/kiln/internal/core/ports"
	"golang.org/x/term"
)

// NodeID is the unique identifier for the telemetry adapter node.
const NodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Telemetry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Telemetry, error) {
			// The live tape needs a terminal; fall back to discarding
			// progress when output is piped.
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return telemetry.NewNoop(), nil
			}
			return New(), nil
		},
	})
}
