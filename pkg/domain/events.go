package domain

import (
	"context"
	"time"
)

// NodeEvent represents entry to or exit from a node during a run.
type NodeEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Tree      string    `json:"tree"`
	NodeID    string    `json:"node_id"`
	Kind      Kind      `json:"kind"`
	Step      int       `json:"step"`
}

// CapabilityEvent represents a capability invocation.
type CapabilityEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	NodeID    string        `json:"node_id"`
	Service   string        `json:"service"`
	Action    string        `json:"action"`
	Duration  time.Duration `json:"duration,omitempty"`
	Err       error         `json:"-"`
}

// Hooks defines callbacks for engine observability. All fields are
// optional; nil hooks are skipped. Hooks run synchronously on the run's
// goroutine and must not block.
type Hooks struct {
	OnNodeEnter        func(context.Context, *NodeEvent)
	OnNodeLeave        func(context.Context, *NodeEvent)
	OnCapabilityCall   func(context.Context, *CapabilityEvent)
	OnCapabilityReturn func(context.Context, *CapabilityEvent)
}
