package progrock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/telemetry/progrock"
	"go.trai.ch/kiln/internal/core/ports"
)

func TestNew(t *testing.T) {
	recorder := progrock.New()
	assert.NotNil(t, recorder)
}

func TestRecord_AttachesVertexToContext(t *testing.T) {
	recorder := progrock.New()

	ctx, vtx := recorder.Record(context.Background(), "system-packages")
	require.NotNil(t, vtx)
	assert.Same(t, vtx, ports.VertexFromContext(ctx))

	vtx.Complete(nil)
	require.NoError(t, recorder.Close())
}
