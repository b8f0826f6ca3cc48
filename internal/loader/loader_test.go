package loader_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/internal/loader"
	"github.com/aretw0/arbor/pkg/domain"
)

const validDoc = `
tree_name: test-tree
start_node: n1
nodes:
  n1:
    display_name: Fetch metadata
    kind: processing
    service: lookup
    action: get_call_metadata
    output_key: metadata
    next_node: n2
  n2:
    kind: condition
    predicate:
      key: metadata.flag
      op: eq
      value: urgent
    next_node_if_true: n3
    next_node_if_false: n4
  n3:
    kind: exit
    outcome: escalated
    result_keys: [metadata]
  n4:
    kind: exit
`

func TestParse_ValidDocument(t *testing.T) {
	tree, err := loader.Parse([]byte(validDoc))
	require.NoError(t, err)

	assert.Equal(t, "test-tree", tree.Name)
	assert.Equal(t, "n1", tree.StartNode)
	assert.Len(t, tree.Nodes, 4)

	n1, ok := tree.Node("n1")
	require.True(t, ok)
	assert.Equal(t, domain.KindProcessing, n1.Kind)
	assert.Equal(t, "n1", n1.ID)
	assert.Equal(t, "lookup", n1.Service)
	assert.Equal(t, "metadata", n1.OutputKey)

	n2, _ := tree.Node("n2")
	require.NotNil(t, n2.Predicate)
	assert.Equal(t, "metadata.flag", n2.Predicate.Key)
	assert.Equal(t, domain.OpEq, n2.Predicate.Op)
	assert.Equal(t, "urgent", n2.Predicate.Value)

	n3, _ := tree.Node("n3")
	assert.Equal(t, "escalated", n3.Outcome)
	assert.Equal(t, []string{"metadata"}, n3.ResultKeys)
}

func configErr(t *testing.T, err error) *domain.ConfigError {
	t.Helper()
	var ce *domain.ConfigError
	require.True(t, errors.As(err, &ce), "expected *domain.ConfigError, got %v", err)
	return ce
}

func TestParse_ConfigErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		kind domain.ConfigErrorKind
	}{
		{
			name: "unknown node kind",
			doc: `
start_node: n1
nodes:
  n1:
    kind: teleport
    next_node: n1
`,
			kind: domain.ConfigUnknownNodeKind,
		},
		{
			name: "dangling next_node",
			doc: `
start_node: n1
nodes:
  n1:
    kind: processing
    service: lookup
    action: get_call_metadata
    output_key: metadata
    next_node: ghost
`,
			kind: domain.ConfigDanglingReference,
		},
		{
			name: "dangling condition branch",
			doc: `
start_node: n1
nodes:
  n1:
    kind: condition
    predicate: {key: k, op: eq, value: v}
    next_node_if_true: ghost
    next_node_if_false: n2
  n2:
    kind: exit
`,
			kind: domain.ConfigDanglingReference,
		},
		{
			name: "dangling start node",
			doc: `
start_node: ghost
nodes:
  n1:
    kind: exit
`,
			kind: domain.ConfigDanglingReference,
		},
		{
			name: "missing start node",
			doc: `
nodes:
  n1:
    kind: exit
`,
			kind: domain.ConfigMissingField,
		},
		{
			name: "missing output_key on processing",
			doc: `
start_node: n1
nodes:
  n1:
    kind: processing
    service: lookup
    action: get_call_metadata
    next_node: n2
  n2:
    kind: exit
`,
			kind: domain.ConfigMissingField,
		},
		{
			name: "missing prompt on llm",
			doc: `
start_node: n1
nodes:
  n1:
    kind: llm
    output_key: summary
    next_node: n2
  n2:
    kind: exit
`,
			kind: domain.ConfigMissingField,
		},
		{
			name: "missing false branch on condition",
			doc: `
start_node: n1
nodes:
  n1:
    kind: condition
    predicate: {key: k, op: eq, value: v}
    next_node_if_true: n2
  n2:
    kind: exit
`,
			kind: domain.ConfigMissingField,
		},
		{
			name: "unsupported predicate operator",
			doc: `
start_node: n1
nodes:
  n1:
    kind: condition
    predicate: {key: k, op: matches, value: v}
    next_node_if_true: n2
    next_node_if_false: n2
  n2:
    kind: exit
`,
			kind: domain.ConfigMissingField,
		},
		{
			name: "exit node with outgoing edge",
			doc: `
start_node: n1
nodes:
  n1:
    kind: exit
    next_node: n1
`,
			kind: domain.ConfigMissingField,
		},
		{
			name: "no nodes",
			doc: `
start_node: n1
`,
			kind: domain.ConfigMissingField,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tree, err := loader.Parse([]byte(tc.doc))
			require.Error(t, err)
			assert.Nil(t, tree, "loading must be atomic")
			assert.Equal(t, tc.kind, configErr(t, err).Kind)
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := loader.Parse([]byte("nodes: [unbalanced"))
	require.Error(t, err)

	var ce *domain.ConfigError
	assert.False(t, errors.As(err, &ce), "syntax errors are not ConfigErrors")
}
