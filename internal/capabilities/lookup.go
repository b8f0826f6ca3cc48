package capabilities

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// callMetadata is the in-memory stand-in for the call database.
var callMetadata = map[string]map[string]any{
	"call_123": {
		"call_id":          "call_123",
		"call_type":        "patient_followup",
		"calling_team":     "nursing",
		"patient_id":       "patient_456",
		"timestamp":        "2024-01-15T10:30:00Z",
		"duration_seconds": 180,
	},
	"default": {
		"call_id":          "default_call",
		"call_type":        "general_inquiry",
		"calling_team":     "support",
		"patient_id":       "patient_000",
		"timestamp":        "2024-01-15T10:00:00Z",
		"duration_seconds": 120,
	},
}

// GetCallMetadata retrieves call metadata by the seeded call_id,
// falling back to the default row for unknown calls.
func GetCallMetadata(ctx context.Context, values domain.Context, params map[string]any) (any, error) {
	callID := "default"
	if v, ok := values.Lookup("call_id"); ok {
		if s, isStr := v.(string); isStr && s != "" {
			callID = s
		}
	}

	row, ok := callMetadata[callID]
	if !ok {
		row = callMetadata["default"]
	}

	// Copy to keep the table immutable across runs.
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out, nil
}
