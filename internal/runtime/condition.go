package runtime

import (
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

// Evaluate applies a condition node's predicate against the run context.
// It is read-only: condition nodes never write values.
//
// A missing key is an error for every operator except "exists". Values
// are compared by their string form, which matches how tree authors
// write literals in YAML ("yes", "urgent", "3").
func Evaluate(node *domain.Node, values domain.Context) (bool, error) {
	p := node.Predicate
	if p == nil {
		return false, &domain.ConditionError{Node: node.ID, Reason: "no predicate configured"}
	}

	val, ok := values.Lookup(p.Key)

	if p.Op == domain.OpExists {
		return ok, nil
	}
	if !ok {
		return false, &domain.ConditionError{Node: node.ID, Key: p.Key, Reason: "not present in context"}
	}

	switch p.Op {
	case domain.OpEq:
		return stringify(val) == stringify(p.Value), nil
	case domain.OpNeq:
		return stringify(val) != stringify(p.Value), nil
	case domain.OpContains:
		return strings.Contains(stringify(val), stringify(p.Value)), nil
	}

	return false, &domain.ConditionError{
		Node:   node.ID,
		Key:    p.Key,
		Reason: fmt.Sprintf("unsupported operator %q", p.Op),
	}
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
