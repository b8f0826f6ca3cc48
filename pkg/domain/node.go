package domain

// Kind discriminates the node variants. The string values are part of the
// configuration contract; renaming them breaks existing tree documents.
type Kind string

const (
	// KindProcessing invokes a named capability and stores its result.
	KindProcessing Kind = "processing"
	// KindLLM invokes the inference provider with a prompt. A specialization
	// of processing kept distinct because its invocation shape (text in,
	// text out, prompt-driven) differs.
	KindLLM Kind = "llm"
	// KindCondition branches on a predicate over the run context.
	KindCondition Kind = "condition"
	// KindExit terminates the run and projects the final output.
	KindExit Kind = "exit"
)

// LLM nodes always resolve through the fixed inference provider; the
// prompt and input key travel as static params under these names.
const (
	InferenceService = "inference"
	InferenceAction  = "generate"

	ParamPrompt   = "prompt"
	ParamInputKey = "input_key"
)

// Known reports whether k is one of the four node kinds.
func (k Kind) Known() bool {
	switch k {
	case KindProcessing, KindLLM, KindCondition, KindExit:
		return true
	}
	return false
}

// Node represents a single step in the decision tree. It is a tagged
// variant: Kind selects which of the optional field groups is meaningful.
// The engine dispatches on Kind with an exhaustive switch, so adding a
// kind is a deliberate, checked change.
type Node struct {
	ID   string `json:"id" yaml:"id" mapstructure:"id"`
	Name string `json:"display_name,omitempty" yaml:"display_name,omitempty" mapstructure:"display_name"`
	Kind Kind   `json:"kind" yaml:"kind" mapstructure:"kind"`

	// Processing configuration.
	Service   string         `json:"service,omitempty" yaml:"service,omitempty" mapstructure:"service"`
	Action    string         `json:"action,omitempty" yaml:"action,omitempty" mapstructure:"action"`
	Params    map[string]any `json:"params,omitempty" yaml:"params,omitempty" mapstructure:"params"`
	OutputKey string         `json:"output_key,omitempty" yaml:"output_key,omitempty" mapstructure:"output_key"`
	NextNode  string         `json:"next_node,omitempty" yaml:"next_node,omitempty" mapstructure:"next_node"`

	// LLM configuration (also uses OutputKey and NextNode).
	Prompt   string `json:"prompt,omitempty" yaml:"prompt,omitempty" mapstructure:"prompt"`
	InputKey string `json:"input_key,omitempty" yaml:"input_key,omitempty" mapstructure:"input_key"`

	// Condition configuration.
	Predicate *Predicate `json:"predicate,omitempty" yaml:"predicate,omitempty" mapstructure:"predicate"`
	IfTrue    string     `json:"next_node_if_true,omitempty" yaml:"next_node_if_true,omitempty" mapstructure:"next_node_if_true"`
	IfFalse   string     `json:"next_node_if_false,omitempty" yaml:"next_node_if_false,omitempty" mapstructure:"next_node_if_false"`

	// Exit configuration. ResultKeys selects which context entries become
	// the final output; empty means all of them. Outcome is an optional
	// label copied onto the record (e.g. "needs_review").
	ResultKeys []string `json:"result_keys,omitempty" yaml:"result_keys,omitempty" mapstructure:"result_keys"`
	Outcome    string   `json:"outcome,omitempty" yaml:"outcome,omitempty" mapstructure:"outcome"`
}

// Targets returns every node ID this node can transition to. Exit nodes
// return none.
func (n *Node) Targets() []string {
	switch n.Kind {
	case KindProcessing, KindLLM:
		return []string{n.NextNode}
	case KindCondition:
		return []string{n.IfTrue, n.IfFalse}
	}
	return nil
}

// Operator is the comparison applied by a condition predicate.
type Operator string

const (
	OpEq       Operator = "eq"
	OpNeq      Operator = "neq"
	OpContains Operator = "contains"
	OpExists   Operator = "exists"
)

// Known reports whether op is a supported comparison.
func (op Operator) Known() bool {
	switch op {
	case OpEq, OpNeq, OpContains, OpExists:
		return true
	}
	return false
}

// Predicate is a structured comparison against one context entry.
// Key may be a dotted path into nested map values ("metadata.flag").
// Represented as data rather than a free-form expression string so that
// validation and testing stay exhaustive.
type Predicate struct {
	Key   string   `json:"key" yaml:"key" mapstructure:"key"`
	Op    Operator `json:"op" yaml:"op" mapstructure:"op"`
	Value any      `json:"value,omitempty" yaml:"value,omitempty" mapstructure:"value"`
}
