package runtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/internal/runtime"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/registry"
)

// scenarioTree is the reference graph: lookup, branch on metadata.flag,
// two distinct exits.
func scenarioTree() *domain.Tree {
	return &domain.Tree{
		Name:      "scenario",
		StartNode: "n1",
		Nodes: map[string]domain.Node{
			"n1": {
				ID: "n1", Kind: domain.KindProcessing,
				Service: "lookup", Action: "get_metadata",
				OutputKey: "metadata", NextNode: "n2",
			},
			"n2": {
				ID: "n2", Kind: domain.KindCondition,
				Predicate: &domain.Predicate{Key: "metadata.flag", Op: domain.OpEq, Value: "urgent"},
				IfTrue:    "n3", IfFalse: "n4",
			},
			"n3": {ID: "n3", Kind: domain.KindExit, Outcome: "escalated", ResultKeys: []string{"metadata"}},
			"n4": {ID: "n4", Kind: domain.KindExit, Outcome: "routine", ResultKeys: []string{"call_id"}},
		},
	}
}

func lookupRegistry(flag string) *registry.Registry {
	r := registry.New()
	r.RegisterFunc("lookup", "get_metadata", func(ctx context.Context, values domain.Context, params map[string]any) (any, error) {
		return map[string]any{"flag": flag}, nil
	})
	return r
}

func TestRun_SuccessPath(t *testing.T) {
	engine := runtime.New(scenarioTree(), lookupRegistry("urgent"))

	rec, err := engine.Run(context.Background(), map[string]any{"call_id": "c1"})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusSuccess, rec.Status)
	assert.Equal(t, []string{"n1", "n2", "n3"}, rec.Path)
	assert.Equal(t, "escalated", rec.Outcome)
	assert.Nil(t, rec.Failure)

	meta, ok := rec.FinalValues["metadata"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "urgent", meta["flag"])
	assert.NotContains(t, rec.FinalValues, "call_id", "result_keys projection must filter")
}

func TestRun_FalseBranch(t *testing.T) {
	engine := runtime.New(scenarioTree(), lookupRegistry("routine"))

	rec, err := engine.Run(context.Background(), map[string]any{"call_id": "c1"})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusSuccess, rec.Status)
	assert.Equal(t, []string{"n1", "n2", "n4"}, rec.Path)
	assert.Equal(t, "routine", rec.Outcome)
	assert.Equal(t, map[string]any{"call_id": "c1"}, rec.FinalValues)
}

func TestRun_UnknownCapability(t *testing.T) {
	engine := runtime.New(scenarioTree(), registry.New())

	rec, err := engine.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusFailed, rec.Status)
	assert.Equal(t, []string{"n1"}, rec.Path, "path must stop at the failing node")
	require.NotNil(t, rec.Failure)
	assert.Equal(t, domain.FailureUnknownCapability, rec.Failure.Kind)
	assert.Equal(t, "n1", rec.Failure.Node)
}

func TestRun_CapabilityError(t *testing.T) {
	r := registry.New()
	r.RegisterFunc("lookup", "get_metadata", func(ctx context.Context, values domain.Context, params map[string]any) (any, error) {
		return nil, assert.AnError
	})
	engine := runtime.New(scenarioTree(), r)

	rec, err := engine.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusFailed, rec.Status)
	assert.Equal(t, []string{"n1"}, rec.Path)
	require.NotNil(t, rec.Failure)
	assert.Equal(t, domain.FailureCapability, rec.Failure.Kind)
}

func TestRun_CapabilityTimeout(t *testing.T) {
	r := registry.New()
	r.RegisterFunc("lookup", "get_metadata", func(ctx context.Context, values domain.Context, params map[string]any) (any, error) {
		select {
		case <-time.After(5 * time.Second):
			return map[string]any{}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
	engine := runtime.New(scenarioTree(), r, runtime.WithCallTimeout(20*time.Millisecond))

	rec, err := engine.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusFailed, rec.Status)
	require.NotNil(t, rec.Failure)
	assert.Equal(t, domain.FailureCapability, rec.Failure.Kind)
	assert.Contains(t, rec.Failure.Message, "deadline")
}

func TestRun_ConditionMissingKey(t *testing.T) {
	tree := &domain.Tree{
		Name:      "missing-key",
		StartNode: "branch",
		Nodes: map[string]domain.Node{
			"branch": {
				ID: "branch", Kind: domain.KindCondition,
				Predicate: &domain.Predicate{Key: "never_written", Op: domain.OpEq, Value: "x"},
				IfTrue:    "done", IfFalse: "done",
			},
			"done": {ID: "done", Kind: domain.KindExit},
		},
	}
	engine := runtime.New(tree, registry.New())

	rec, err := engine.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusFailed, rec.Status)
	assert.Equal(t, []string{"branch"}, rec.Path)
	require.NotNil(t, rec.Failure)
	assert.Equal(t, domain.FailureCondition, rec.Failure.Kind)
}

func TestRun_StepLimitAbortsCycle(t *testing.T) {
	writes := 0
	r := registry.New()
	r.RegisterFunc("noop", "spin", func(ctx context.Context, values domain.Context, params map[string]any) (any, error) {
		writes++
		return writes, nil
	})

	tree := &domain.Tree{
		Name:      "cycle",
		StartNode: "n1",
		Nodes: map[string]domain.Node{
			"n1": {ID: "n1", Kind: domain.KindProcessing, Service: "noop", Action: "spin", OutputKey: "a", NextNode: "n2"},
			"n2": {ID: "n2", Kind: domain.KindProcessing, Service: "noop", Action: "spin", OutputKey: "b", NextNode: "n1"},
		},
	}
	engine := runtime.New(tree, r, runtime.WithMaxSteps(10))

	rec, err := engine.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusAborted, rec.Status)
	assert.Len(t, rec.Path, 10)
	require.NotNil(t, rec.Failure)
	assert.Equal(t, domain.FailureStepLimit, rec.Failure.Kind)
}

func TestRun_MonotonicContextOverwrites(t *testing.T) {
	r := registry.New()
	r.RegisterFunc("emit", "first", func(ctx context.Context, values domain.Context, params map[string]any) (any, error) {
		return "first", nil
	})
	r.RegisterFunc("emit", "second", func(ctx context.Context, values domain.Context, params map[string]any) (any, error) {
		// The later node must observe the earlier write.
		v, ok := values.Lookup("label")
		if !ok || v != "first" {
			t.Errorf("expected to observe earlier write, got %v", v)
		}
		return "second", nil
	})

	tree := &domain.Tree{
		Name:      "overwrite",
		StartNode: "n1",
		Nodes: map[string]domain.Node{
			"n1": {ID: "n1", Kind: domain.KindProcessing, Service: "emit", Action: "first", OutputKey: "label", NextNode: "n2"},
			"n2": {ID: "n2", Kind: domain.KindProcessing, Service: "emit", Action: "second", OutputKey: "label", NextNode: "n3"},
			"n3": {ID: "n3", Kind: domain.KindExit, ResultKeys: []string{"label"}},
		},
	}
	engine := runtime.New(tree, r)

	rec, err := engine.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusSuccess, rec.Status)
	assert.Equal(t, "second", rec.FinalValues["label"], "later writes win")
}

func TestRun_Idempotent(t *testing.T) {
	engine := runtime.New(scenarioTree(), lookupRegistry("urgent"))
	seed := map[string]any{"call_id": "c1"}

	first, err := engine.Run(context.Background(), seed)
	require.NoError(t, err)
	second, err := engine.Run(context.Background(), seed)
	require.NoError(t, err)

	assert.Equal(t, first.Path, second.Path)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.FinalValues, second.FinalValues)
}

func TestRun_ExitWithoutResultKeysProjectsAll(t *testing.T) {
	tree := &domain.Tree{
		Name:      "project-all",
		StartNode: "done",
		Nodes: map[string]domain.Node{
			"done": {ID: "done", Kind: domain.KindExit},
		},
	}
	engine := runtime.New(tree, registry.New())

	rec, err := engine.Run(context.Background(), map[string]any{"a": 1, "b": "two"})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusSuccess, rec.Status)
	assert.Equal(t, map[string]any{"a": 1, "b": "two"}, rec.FinalValues)
}

func TestRun_SeedDoesNotLeakBetweenRuns(t *testing.T) {
	engine := runtime.New(scenarioTree(), lookupRegistry("urgent"))

	_, err := engine.Run(context.Background(), map[string]any{"call_id": "c1"})
	require.NoError(t, err)

	rec, err := engine.Run(context.Background(), map[string]any{"other": true})
	require.NoError(t, err)
	assert.NotContains(t, rec.FinalValues, "call_id")
}

func TestRun_PreflightErrors(t *testing.T) {
	_, err := runtime.New(nil, registry.New()).Run(context.Background(), nil)
	assert.Error(t, err)

	_, err = runtime.New(scenarioTree(), nil).Run(context.Background(), nil)
	assert.Error(t, err)
}

func TestRun_Hooks(t *testing.T) {
	var entered, left []string
	var calls int

	hooks := domain.Hooks{
		OnNodeEnter: func(_ context.Context, e *domain.NodeEvent) {
			entered = append(entered, e.NodeID)
		},
		OnNodeLeave: func(_ context.Context, e *domain.NodeEvent) {
			left = append(left, e.NodeID)
		},
		OnCapabilityReturn: func(_ context.Context, e *domain.CapabilityEvent) {
			calls++
			assert.Equal(t, "lookup", e.Service)
		},
	}

	engine := runtime.New(scenarioTree(), lookupRegistry("urgent"), runtime.WithHooks(hooks))

	rec, err := engine.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, rec.Path, entered)
	assert.Equal(t, rec.Path, left)
	assert.Equal(t, 1, calls)
}

// Compile-time check: the registry satisfies the resolver port.
var _ ports.Resolver = (*registry.Registry)(nil)
