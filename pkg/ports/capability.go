package ports

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// Capability is an external operation invoked by a processing or llm
// node: transcription, redaction, lookup, inference. Implementations may
// be slow and may block; the engine bounds every invocation with a
// context deadline. Inputs are drawn from the run context plus the
// node's static params; the output is a single value.
type Capability interface {
	Invoke(ctx context.Context, values domain.Context, params map[string]any) (any, error)
}

// CapabilityFunc adapts a plain function to the Capability interface.
type CapabilityFunc func(ctx context.Context, values domain.Context, params map[string]any) (any, error)

// Invoke calls fn.
func (fn CapabilityFunc) Invoke(ctx context.Context, values domain.Context, params map[string]any) (any, error) {
	return fn(ctx, values, params)
}

// Resolver maps (service, action) to an invocable capability.
// Implementations must be safe for concurrent use: the resolver is
// process-wide shared state read by many simultaneous runs.
type Resolver interface {
	// Resolve returns the capability registered under service/action, or
	// an error wrapping domain.ErrUnknownCapability.
	Resolve(service, action string) (Capability, error)
}
