package arbor

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/arbor/internal/capabilities"
	"github.com/aretw0/arbor/internal/loader"
	"github.com/aretw0/arbor/internal/runtime"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/registry"
)

// Engine is the high-level entry point for the Arbor library. It wraps
// the internal runtime and provides a simplified API for consumers.
type Engine struct {
	tree    *domain.Tree
	runtime *runtime.Engine
}

// Option configures the engine.
type Option func(*options)

type options struct {
	runtimeOpts []runtime.Option
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(o *options) {
		o.runtimeOpts = append(o.runtimeOpts, runtime.WithHooks(hooks))
	}
}

// WithLogger sets a structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.runtimeOpts = append(o.runtimeOpts, runtime.WithLogger(logger))
	}
}

// WithMaxSteps overrides the traversal step limit (cycle guard).
func WithMaxSteps(n int) Option {
	return func(o *options) {
		o.runtimeOpts = append(o.runtimeOpts, runtime.WithMaxSteps(n))
	}
}

// WithCallTimeout overrides the per-capability-call timeout.
func WithCallTimeout(d time.Duration) Option {
	return func(o *options) {
		o.runtimeOpts = append(o.runtimeOpts, runtime.WithCallTimeout(d))
	}
}

// New creates an engine for a validated tree and a capability resolver.
// The tree and resolver are shared read-only across all runs.
func New(tree *domain.Tree, caps ports.Resolver, opts ...Option) *Engine {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine{
		tree:    tree,
		runtime: runtime.New(tree, caps, o.runtimeOpts...),
	}
}

// Run executes the tree from its start node with the given seed values.
// Every run yields a Record; see the runtime package for the error
// contract.
func (e *Engine) Run(ctx context.Context, seed map[string]any) (*domain.Record, error) {
	return e.runtime.Run(ctx, seed)
}

// Tree returns the loaded decision tree for introspection.
func (e *Engine) Tree() *domain.Tree {
	return e.tree
}

// Parse decodes and validates a tree document.
func Parse(data []byte) (*domain.Tree, error) {
	return loader.Parse(data)
}

// LoadFile loads and validates a tree document from a local file.
func LoadFile(path string) (*domain.Tree, error) {
	src := &loader.FileSource{Path: path}
	return loader.Load(context.Background(), src, "")
}

// LoadURL loads and validates a tree document from an HTTP source. The
// URL may contain a "{version}" placeholder; fetches are cached per
// version by the source, so prefer constructing one HTTPSource and
// reusing it when loading repeatedly.
func LoadURL(ctx context.Context, url, version string) (*domain.Tree, error) {
	return loader.Load(ctx, loader.NewHTTPSource(url), version)
}

// DefaultRegistry builds a capability registry with the built-in
// transcription, redaction, lookup, and inference providers.
func DefaultRegistry() *registry.Registry {
	return capabilities.DefaultRegistry()
}
