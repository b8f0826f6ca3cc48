// Package loader parses and validates decision tree configuration
// documents into immutable domain.Tree values.
package loader

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// rawTree mirrors the top-level document shape. Node bodies stay generic
// until the kind discriminator has been inspected.
type rawTree struct {
	TreeName  string                    `yaml:"tree_name"`
	StartNode string                    `yaml:"start_node"`
	Nodes     map[string]map[string]any `yaml:"nodes"`
}

// Parse decodes and validates a tree document. It is atomic: any
// violation returns a *domain.ConfigError and no Tree.
func Parse(data []byte) (*domain.Tree, error) {
	var raw rawTree
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse tree document: %w", err)
	}

	if len(raw.Nodes) == 0 {
		return nil, &domain.ConfigError{Kind: domain.ConfigMissingField, Field: "nodes"}
	}
	if raw.StartNode == "" {
		return nil, &domain.ConfigError{Kind: domain.ConfigMissingField, Field: "start_node"}
	}

	tree := &domain.Tree{
		Name:      raw.TreeName,
		StartNode: raw.StartNode,
		Nodes:     make(map[string]domain.Node, len(raw.Nodes)),
	}

	for id, body := range raw.Nodes {
		node, err := decodeNode(id, body)
		if err != nil {
			return nil, err
		}
		tree.Nodes[id] = node
	}

	if err := validate(tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// Load fetches a document from a source and parses it.
func Load(ctx context.Context, src ports.TreeSource, version string) (*domain.Tree, error) {
	data, err := src.Fetch(ctx, version)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tree configuration: %w", err)
	}
	return Parse(data)
}

func decodeNode(id string, body map[string]any) (domain.Node, error) {
	kind, _ := body["kind"].(string)
	if !domain.Kind(kind).Known() {
		return domain.Node{}, &domain.ConfigError{
			Kind: domain.ConfigUnknownNodeKind,
			Node: id,
			Msg:  kind,
		}
	}

	var node domain.Node
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &node,
		TagName: "mapstructure",
	})
	if err != nil {
		return domain.Node{}, fmt.Errorf("decoder setup for node %s: %w", id, err)
	}
	if err := dec.Decode(body); err != nil {
		return domain.Node{}, fmt.Errorf("failed to decode node %s: %w", id, err)
	}
	node.ID = id
	return node, nil
}

// validate enforces the structural invariants: per-kind required fields
// and referential integrity of every transition target.
func validate(t *domain.Tree) error {
	if _, ok := t.Nodes[t.StartNode]; !ok {
		return &domain.ConfigError{Kind: domain.ConfigDanglingReference, Ref: t.StartNode}
	}

	for id, node := range t.Nodes {
		if err := validateNode(id, node); err != nil {
			return err
		}
		for _, target := range node.Targets() {
			if _, ok := t.Nodes[target]; !ok {
				return &domain.ConfigError{
					Kind: domain.ConfigDanglingReference,
					Node: id,
					Ref:  target,
				}
			}
		}
	}
	return nil
}

func validateNode(id string, node domain.Node) error {
	missing := func(field string) error {
		return &domain.ConfigError{Kind: domain.ConfigMissingField, Node: id, Field: field}
	}

	switch node.Kind {
	case domain.KindProcessing:
		if node.Service == "" {
			return missing("service")
		}
		if node.Action == "" {
			return missing("action")
		}
		if node.OutputKey == "" {
			return missing("output_key")
		}
		if node.NextNode == "" {
			return missing("next_node")
		}

	case domain.KindLLM:
		if node.Prompt == "" {
			return missing("prompt")
		}
		if node.OutputKey == "" {
			return missing("output_key")
		}
		if node.NextNode == "" {
			return missing("next_node")
		}

	case domain.KindCondition:
		if node.Predicate == nil || node.Predicate.Key == "" {
			return missing("predicate")
		}
		if !node.Predicate.Op.Known() {
			return &domain.ConfigError{
				Kind:  domain.ConfigMissingField,
				Node:  id,
				Field: "predicate.op",
				Msg:   fmt.Sprintf("unsupported predicate operator %q", node.Predicate.Op),
			}
		}
		if node.IfTrue == "" {
			return missing("next_node_if_true")
		}
		if node.IfFalse == "" {
			return missing("next_node_if_false")
		}

	case domain.KindExit:
		if node.NextNode != "" {
			return &domain.ConfigError{
				Kind:  domain.ConfigMissingField,
				Node:  id,
				Field: "next_node",
				Msg:   "exit node must not declare next_node",
			}
		}
	}
	return nil
}
