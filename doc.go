/*
Package arbor is a decision tree execution engine for processing call
recordings through external capabilities: speech-to-text, redaction,
structured lookup, and language-model inference.

A tree is a directed graph of typed nodes declared in YAML. Processing
and llm nodes invoke capabilities and accumulate their outputs in the
run context, condition nodes branch on structured predicates over that
context, and exit nodes terminate the run and project the final output.
The engine walks the graph sequentially, records the exact path taken,
and guards against cycles with a step limit.

# Architecture

The core consumes a small capability-provider interface (ports.Resolver)
and produces a structured execution record (domain.Record). How providers
are implemented and how records reach a caller (HTTP, CLI, batch) are
adapter concerns; see pkg/adapters.

# Usage

	tree, err := arbor.LoadFile("call-tree.yaml")
	if err != nil {
		log.Fatal(err)
	}

	engine := arbor.New(tree, arbor.DefaultRegistry())

	rec, err := engine.Run(ctx, map[string]any{
		"call_id": "call_123",
		"audio":   audioBytes,
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(rec.Status, rec.Path)
*/
package arbor
