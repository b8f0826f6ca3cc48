/*
Package capabilities has the built-in mock capability providers:
transcription, redaction, structured lookup, and language-model
inference. They are deterministic stand-ins with realistic shapes,
registered behind the ports.Capability contract so that real providers
can replace them without touching the engine.
*/
package capabilities
