package domain

import "time"

// Status is the terminal state of a run.
type Status string

const (
	// StatusSuccess means an exit node was reached.
	StatusSuccess Status = "success"
	// StatusFailed means a node-level error stopped the run.
	StatusFailed Status = "failed"
	// StatusAborted means the step-limit guard fired (cycle protection),
	// distinct from failed so callers can tell loop protection apart from
	// genuine errors.
	StatusAborted Status = "aborted"
)

// Failure describes why a run did not succeed: the node where it stopped,
// the error kind, and a human-readable message.
type Failure struct {
	Node    string `json:"node"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Failure kind labels. These classify the error taxonomy for callers
// that render records over a transport.
const (
	FailureUnknownCapability = "unknown_capability"
	FailureCapability        = "capability_error"
	FailureCondition         = "condition_error"
	FailureStepLimit         = "step_limit_exceeded"
)

// Record is the audit trail produced by every run, success or not.
type Record struct {
	TreeName string `json:"tree_name,omitempty"`

	// Path is the ordered list of visited node IDs, one entry per step.
	// Duplicates appear when the tree cycles.
	Path []string `json:"execution_path"`

	Status Status `json:"status"`

	// FinalValues is the exit node's projection of the context on success.
	FinalValues map[string]any `json:"final_values,omitempty"`

	// Outcome is the optional label declared by the exit node reached.
	Outcome string `json:"outcome,omitempty"`

	// Failure is set when Status is failed or aborted.
	Failure *Failure `json:"error,omitempty"`

	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}
