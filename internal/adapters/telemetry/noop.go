// Package telemetry provides build progress recording implementations.
package telemetry

import (
	"context"
	"io"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

// NoopTelemetry discards all progress events. Used when no interactive
// surface is attached, and by tests.
type NoopTelemetry struct{}

// NewNoop creates a new NoopTelemetry.
func NewNoop() *NoopTelemetry {
	return &NoopTelemetry{}
}

// Record returns a vertex that swallows everything.
func (t *NoopTelemetry) Record(ctx context.Context, _ string, _ ...ports.VertexOption) (context.Context, ports.Vertex) {
	return ctx, &NoopVertex{}
}

// Close does nothing.
func (t *NoopTelemetry) Close() error { return nil }

// NoopVertex is a no-op implementation of ports.Vertex.
type NoopVertex struct{}

// Stdout returns a writer that discards its input.
func (v *NoopVertex) Stdout() io.Writer { return io.Discard }

// Stderr returns a writer that discards its input.
func (v *NoopVertex) Stderr() io.Writer { return io.Discard }

// Log does nothing.
func (v *NoopVertex) Log(_ domain.LogLevel, _ string) {}

// Complete does nothing.
func (v *NoopVertex) Complete(_ error) {}

// Cached does nothing.
func (v *NoopVertex) Cached() {}

var _ ports.Telemetry = (*NoopTelemetry)(nil)
