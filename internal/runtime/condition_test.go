package runtime_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/internal/runtime"
	"github.com/aretw0/arbor/pkg/domain"
)

func condNode(key string, op domain.Operator, value any) *domain.Node {
	return &domain.Node{
		ID:        "branch",
		Kind:      domain.KindCondition,
		Predicate: &domain.Predicate{Key: key, Op: op, Value: value},
	}
}

func TestEvaluate(t *testing.T) {
	values := domain.Context{
		"recommendation": "yes",
		"count":          3,
		"metadata": map[string]any{
			"flag": "urgent",
			"team": "nursing",
		},
		"transcript": "patient requested a home visit tomorrow",
	}

	cases := []struct {
		name string
		key  string
		op   domain.Operator
		val  any
		want bool
	}{
		{"eq match", "recommendation", domain.OpEq, "yes", true},
		{"eq mismatch", "recommendation", domain.OpEq, "no", false},
		{"eq numeric against string literal", "count", domain.OpEq, "3", true},
		{"eq dotted path", "metadata.flag", domain.OpEq, "urgent", true},
		{"eq dotted path mismatch", "metadata.team", domain.OpEq, "support", false},
		{"neq", "recommendation", domain.OpNeq, "no", true},
		{"neq mismatch", "recommendation", domain.OpNeq, "yes", false},
		{"contains", "transcript", domain.OpContains, "home visit", true},
		{"contains mismatch", "transcript", domain.OpContains, "discharge", false},
		{"exists present", "metadata.flag", domain.OpExists, nil, true},
		{"exists absent", "metadata.ghost", domain.OpExists, nil, false},
		{"exists absent top-level", "nope", domain.OpExists, nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := runtime.Evaluate(condNode(tc.key, tc.op, tc.val), values)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluate_MissingKeyFailsRatherThanFalse(t *testing.T) {
	_, err := runtime.Evaluate(condNode("missing", domain.OpEq, "x"), domain.Context{})
	require.Error(t, err)

	var condErr *domain.ConditionError
	require.True(t, errors.As(err, &condErr))
	assert.Equal(t, "branch", condErr.Node)
	assert.Equal(t, "missing", condErr.Key)
}

func TestEvaluate_NoPredicate(t *testing.T) {
	node := &domain.Node{ID: "branch", Kind: domain.KindCondition}
	_, err := runtime.Evaluate(node, domain.Context{})
	assert.Error(t, err)
}

func TestEvaluate_DottedPathThroughNonMap(t *testing.T) {
	values := domain.Context{"transcript": "plain text"}
	_, err := runtime.Evaluate(condNode("transcript.flag", domain.OpEq, "x"), values)
	assert.Error(t, err, "descending into a scalar is a missing key")
}
