package capabilities

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

const redactedMark = "[REDACTED]"

// Simple pattern matching for common PII shapes. A real provider would
// use NER models; the patterns here cover the obvious formats.
var (
	phonePattern = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	ssnPattern   = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)

	commonNames = []string{"John Doe", "Jane Smith", "Jonathan Hale", "John", "Jane"}
)

// Redact strips PII-like patterns from a text context entry.
func Redact(ctx context.Context, values domain.Context, params map[string]any) (any, error) {
	inputKey := "transcript"
	if k, ok := params[domain.ParamInputKey].(string); ok && k != "" {
		inputKey = k
	}

	raw, ok := values.Lookup(inputKey)
	if !ok {
		return nil, fmt.Errorf("redaction requires %q in the run context", inputKey)
	}
	text, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("redaction input %q must be text, got %T", inputKey, raw)
	}

	text = ssnPattern.ReplaceAllString(text, redactedMark)
	text = phonePattern.ReplaceAllString(text, redactedMark)
	text = emailPattern.ReplaceAllString(text, redactedMark)
	for _, name := range commonNames {
		text = strings.ReplaceAll(text, name, redactedMark)
	}
	return text, nil
}
