package domain

// Tree is the parsed, validated decision tree. It is built once by the
// loader, immutable thereafter, and shared read-only across all runs.
// Hot reload must swap the whole reference, never mutate in place.
type Tree struct {
	Name      string          `json:"tree_name" yaml:"tree_name"`
	StartNode string          `json:"start_node" yaml:"start_node"`
	Nodes     map[string]Node `json:"nodes" yaml:"nodes"`
}

// Node returns the node with the given ID.
func (t *Tree) Node(id string) (Node, bool) {
	n, ok := t.Nodes[id]
	return n, ok
}
