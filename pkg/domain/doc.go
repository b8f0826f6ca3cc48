/*
Package domain contains the core domain models for the Arbor engine.

It defines the decision tree (Tree, Node, Predicate), the per-run
accumulator (Context), the result of a run (Record), the error taxonomy,
and the lifecycle hooks used for observability. This package is kept pure
and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - Tree: The immutable, validated decision tree shared by all runs.
  - Node: A single step: Processing, LLM, Condition, or Exit.
  - Context: The key-value store accumulated across one run.
  - Record: The audit trail of one run (path, status, final values).
*/
package domain
