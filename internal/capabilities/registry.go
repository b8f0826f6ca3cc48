package capabilities

import (
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/registry"
)

// Stable provider and action names. Tree documents reference these, so
// renaming them is a breaking change.
const (
	ServiceTranscription = "transcription"
	ActionTranscribe     = "transcribe"

	ServiceRedaction = "redaction"
	ActionRedact     = "redact"

	ServiceLookup         = "lookup"
	ActionGetCallMetadata = "get_call_metadata"
)

// DefaultRegistry builds a registry with the four built-in providers.
func DefaultRegistry() *registry.Registry {
	r := registry.New()
	r.RegisterFunc(ServiceTranscription, ActionTranscribe, Transcribe)
	r.RegisterFunc(ServiceRedaction, ActionRedact, Redact)
	r.RegisterFunc(ServiceLookup, ActionGetCallMetadata, GetCallMetadata)
	r.RegisterFunc(domain.InferenceService, domain.InferenceAction, Generate)
	return r
}
