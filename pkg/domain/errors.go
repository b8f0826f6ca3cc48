package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownCapability is returned when a node references a service or
// action the registry cannot resolve.
var ErrUnknownCapability = errors.New("unknown capability")

// ErrStepLimit is returned when traversal exceeds the configured step
// limit, the guard against unbounded loops.
var ErrStepLimit = errors.New("step limit exceeded")

// ErrRecordNotFound is returned when a call ID cannot be found in the
// record store.
var ErrRecordNotFound = errors.New("record not found")

// ConfigErrorKind classifies configuration failures.
type ConfigErrorKind string

const (
	ConfigUnknownNodeKind   ConfigErrorKind = "unknown_node_kind"
	ConfigDanglingReference ConfigErrorKind = "dangling_reference"
	ConfigMissingField      ConfigErrorKind = "missing_field"
)

// ConfigError is raised at load time only. Loading fails atomically: a
// ConfigError means no Tree was produced.
type ConfigError struct {
	Kind  ConfigErrorKind
	Node  string // node the problem was found in ("" for tree-level)
	Field string // offending field, for missing_field
	Ref   string // dangling target, for dangling_reference
	Msg   string
}

func (e *ConfigError) Error() string {
	where := "tree"
	if e.Node != "" {
		where = "node " + e.Node
	}
	switch e.Kind {
	case ConfigUnknownNodeKind:
		return fmt.Sprintf("%s: unknown node kind %q", where, e.Msg)
	case ConfigDanglingReference:
		return fmt.Sprintf("%s: reference to nonexistent node %q", where, e.Ref)
	case ConfigMissingField:
		if e.Msg != "" {
			return fmt.Sprintf("%s: %s", where, e.Msg)
		}
		return fmt.Sprintf("%s: missing required field %q", where, e.Field)
	}
	return fmt.Sprintf("%s: invalid configuration", where)
}

// CapabilityError wraps a failure raised by a provider during invocation
// (timeout, invalid input, provider-internal failure).
type CapabilityError struct {
	Service string
	Action  string
	Err     error
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("capability %s/%s: %v", e.Service, e.Action, e.Err)
}

func (e *CapabilityError) Unwrap() error { return e.Err }

// ConditionError means a condition node's predicate could not be
// evaluated, typically because the referenced context key is missing.
// A missing key fails the run rather than defaulting to the false
// branch: silently taking a branch on a configuration typo is worse
// than an explicit failure, and presence checks are expressible with
// the "exists" operator.
type ConditionError struct {
	Node   string
	Key    string
	Reason string
}

func (e *ConditionError) Error() string {
	return fmt.Sprintf("condition node %s: key %q: %s", e.Node, e.Key, e.Reason)
}
