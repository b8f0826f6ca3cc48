// Package runtime implements the decision tree traversal engine.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

const (
	// DefaultMaxSteps bounds traversal so that cyclic trees cannot loop
	// forever. Exceeding it aborts the run rather than failing it.
	DefaultMaxSteps = 100

	// DefaultCallTimeout bounds each capability invocation. A provider
	// exceeding it produces a CapabilityError, not a hang.
	DefaultCallTimeout = 30 * time.Second
)

// Engine drives traversal of one tree. It holds only read-only shared
// state (tree, resolver) and is safe for concurrent use by many
// simultaneous runs; all per-run state lives in the Run call.
type Engine struct {
	tree        *domain.Tree
	caps        ports.Resolver
	hooks       domain.Hooks
	logger      *slog.Logger
	maxSteps    int
	callTimeout time.Duration
}

// Option configures the engine.
type Option func(*Engine)

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(e *Engine) { e.hooks = hooks }
}

// WithLogger sets a structured logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMaxSteps overrides the traversal step limit.
func WithMaxSteps(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxSteps = n
		}
	}
}

// WithCallTimeout overrides the per-capability-call timeout.
func WithCallTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.callTimeout = d
		}
	}
}

// New creates an engine for a validated tree and a capability resolver.
func New(tree *domain.Tree, caps ports.Resolver, opts ...Option) *Engine {
	e := &Engine{
		tree:        tree,
		caps:        caps,
		logger:      logging.NewNop(),
		maxSteps:    DefaultMaxSteps,
		callTimeout: DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the tree from its start node with the given seed values.
//
// The returned error is non-nil only for pre-flight problems (nil tree
// or resolver). Node-level failures never surface as a Go error: every
// run, successful or not, yields a Record carrying the status, the exact
// path up to and including the failing node, and the error descriptor.
func (e *Engine) Run(ctx context.Context, seed map[string]any) (*domain.Record, error) {
	if e.tree == nil {
		return nil, errors.New("runtime: no tree configured")
	}
	if e.caps == nil {
		return nil, errors.New("runtime: no capability resolver configured")
	}

	started := time.Now()
	values := domain.NewContext(seed)
	rec := &domain.Record{
		TreeName:  e.tree.Name,
		StartedAt: started,
	}

	e.logger.Info("run started", "tree", e.tree.Name, "start_node", e.tree.StartNode)

	current := e.tree.StartNode
	for {
		if len(rec.Path) >= e.maxSteps {
			rec.Status = domain.StatusAborted
			rec.Failure = &domain.Failure{
				Node:    current,
				Kind:    domain.FailureStepLimit,
				Message: fmt.Sprintf("%v after %d steps", domain.ErrStepLimit, e.maxSteps),
			}
			e.logger.Warn("run aborted", "tree", e.tree.Name, "steps", len(rec.Path))
			break
		}

		node, ok := e.tree.Node(current)
		if !ok {
			// Unreachable with loader-validated trees; hand-built trees
			// can still trip it.
			rec.Status = domain.StatusFailed
			rec.Failure = &domain.Failure{
				Node:    current,
				Kind:    domain.FailureCapability,
				Message: fmt.Sprintf("node %q not found in tree", current),
			}
			break
		}

		rec.Path = append(rec.Path, current)
		e.emitNodeEnter(ctx, &node, len(rec.Path))

		next, done, err := e.step(ctx, &node, values)
		e.emitNodeLeave(ctx, &node, len(rec.Path))

		if err != nil {
			rec.Status = domain.StatusFailed
			rec.Failure = failureFor(current, err)
			e.logger.Error("node failed", "node", current, "kind", node.Kind, "error", err)
			break
		}
		if done {
			rec.Status = domain.StatusSuccess
			rec.FinalValues = values.Project(node.ResultKeys)
			rec.Outcome = node.Outcome
			e.logger.Info("run completed", "tree", e.tree.Name, "exit_node", current, "steps", len(rec.Path))
			break
		}
		current = next
	}

	rec.Duration = time.Since(started)
	return rec, nil
}

// step applies one node's semantics and returns the continuation:
// either the next node ID or done=true for an exit node. The switch is
// exhaustive over the four kinds; the loader rejects anything else.
func (e *Engine) step(ctx context.Context, node *domain.Node, values domain.Context) (next string, done bool, err error) {
	switch node.Kind {
	case domain.KindProcessing:
		if err := e.invoke(ctx, node, node.Service, node.Action, node.Params, values); err != nil {
			return "", false, err
		}
		return node.NextNode, false, nil

	case domain.KindLLM:
		params := map[string]any{
			domain.ParamPrompt:   node.Prompt,
			domain.ParamInputKey: node.InputKey,
		}
		if err := e.invoke(ctx, node, domain.InferenceService, domain.InferenceAction, params, values); err != nil {
			return "", false, err
		}
		return node.NextNode, false, nil

	case domain.KindCondition:
		ok, err := Evaluate(node, values)
		if err != nil {
			return "", false, err
		}
		if ok {
			return node.IfTrue, false, nil
		}
		return node.IfFalse, false, nil

	case domain.KindExit:
		return "", true, nil
	}

	return "", false, fmt.Errorf("unhandled node kind %q", node.Kind)
}

// invoke resolves and calls a capability, bounding it with the call
// timeout and storing the result under the node's output key.
func (e *Engine) invoke(ctx context.Context, node *domain.Node, service, action string, params map[string]any, values domain.Context) error {
	capability, err := e.caps.Resolve(service, action)
	if err != nil {
		return err
	}

	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	startedAt := time.Now()
	e.emitCapabilityCall(ctx, node.ID, service, action)

	out, err := capability.Invoke(callCtx, values, params)
	e.emitCapabilityReturn(ctx, node.ID, service, action, time.Since(startedAt), err)

	if err != nil {
		return &domain.CapabilityError{Service: service, Action: action, Err: err}
	}

	values.Set(node.OutputKey, out)
	return nil
}

// failureFor classifies a node-level error into the record taxonomy.
func failureFor(nodeID string, err error) *domain.Failure {
	kind := domain.FailureCapability
	var condErr *domain.ConditionError

	switch {
	case errors.Is(err, domain.ErrUnknownCapability):
		kind = domain.FailureUnknownCapability
	case errors.As(err, &condErr):
		kind = domain.FailureCondition
	}

	return &domain.Failure{
		Node:    nodeID,
		Kind:    kind,
		Message: err.Error(),
	}
}

func (e *Engine) emitNodeEnter(ctx context.Context, node *domain.Node, step int) {
	if e.hooks.OnNodeEnter == nil {
		return
	}
	e.hooks.OnNodeEnter(ctx, &domain.NodeEvent{
		Timestamp: time.Now(),
		Tree:      e.tree.Name,
		NodeID:    node.ID,
		Kind:      node.Kind,
		Step:      step,
	})
}

func (e *Engine) emitNodeLeave(ctx context.Context, node *domain.Node, step int) {
	if e.hooks.OnNodeLeave == nil {
		return
	}
	e.hooks.OnNodeLeave(ctx, &domain.NodeEvent{
		Timestamp: time.Now(),
		Tree:      e.tree.Name,
		NodeID:    node.ID,
		Kind:      node.Kind,
		Step:      step,
	})
}

func (e *Engine) emitCapabilityCall(ctx context.Context, nodeID, service, action string) {
	if e.hooks.OnCapabilityCall == nil {
		return
	}
	e.hooks.OnCapabilityCall(ctx, &domain.CapabilityEvent{
		Timestamp: time.Now(),
		NodeID:    nodeID,
		Service:   service,
		Action:    action,
	})
}

func (e *Engine) emitCapabilityReturn(ctx context.Context, nodeID, service, action string, d time.Duration, err error) {
	if e.hooks.OnCapabilityReturn == nil {
		return
	}
	e.hooks.OnCapabilityReturn(ctx, &domain.CapabilityEvent{
		Timestamp: time.Now(),
		NodeID:    nodeID,
		Service:   service,
		Action:    action,
		Duration:  d,
		Err:       err,
	})
}
