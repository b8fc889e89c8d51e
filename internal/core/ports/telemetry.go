package ports

import (
	"context"
	"io"

	"go.trai.ch/kiln/internal/core/domain"
)

// Telemetry is the entry point for recording build progress.
type Telemetry interface {
	// Record starts recording a new vertex for the named step.
	Record(ctx context.Context, name string, opts ...VertexOption) (context.Context, Vertex)

	// Close flushes and closes the recording session.
	Close() error
}

// Vertex represents one step's progress surface.
type Vertex interface {
	// Stdout returns a writer capturing the step's standard output.
	Stdout() io.Writer

	// Stderr returns a writer capturing the step's error output.
	Stderr() io.Writer

	// Log records a structured log message associated with this vertex.
	Log(level domain.LogLevel, msg string)

	// Complete marks the vertex as finished, successfully or with an error.
	Complete(err error)

	// Cached marks the vertex as a layer-cache hit.
	Cached()
}

// VertexConfig holds configuration for a starting vertex.
type VertexConfig struct {
	// Placeholder to support the option pattern.
}

// VertexOption is a functional option for configuring a vertex.
type VertexOption func(*VertexConfig)

type vertexCtxKey struct{}

// ContextWithVertex attaches a vertex to the context so that nested
// operations can write to the active step's progress surface.
func ContextWithVertex(ctx context.Context, v Vertex) context.Context {
	return context.WithValue(ctx, vertexCtxKey{}, v)
}

// VertexFromContext returns the vertex attached to the context, or nil.
func VertexFromContext(ctx context.Context) Vertex {
	v, _ := ctx.Value(vertexCtxKey{}).(Vertex)
	return v
}
