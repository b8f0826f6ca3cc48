package capabilities

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

var (
	positiveWords = []string{"good", "great", "excellent", "thank", "appreciate", "helpful"}
	negativeWords = []string{"bad", "terrible", "worried", "concerned", "problem", "issue"}
)

// Generate is the mock language-model provider. It routes on keywords in
// the prompt and input text instead of calling a model, which keeps runs
// deterministic for the same inputs.
func Generate(ctx context.Context, values domain.Context, params map[string]any) (any, error) {
	prompt, _ := params[domain.ParamPrompt].(string)
	if prompt == "" {
		return nil, fmt.Errorf("inference requires a prompt")
	}

	inputKey := "transcript"
	if k, ok := params[domain.ParamInputKey].(string); ok && k != "" {
		inputKey = k
	}
	raw, ok := values.Lookup(inputKey)
	if !ok {
		return nil, fmt.Errorf("inference requires %q in the run context", inputKey)
	}
	text, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("inference input %q must be text, got %T", inputKey, raw)
	}

	promptLower := strings.ToLower(prompt)
	textLower := strings.ToLower(text)

	switch {
	case strings.Contains(promptLower, "home visit") || strings.Contains(promptLower, "visit needed"):
		if containsAny(textLower, "home visit", "house call", "visit home", "visit would be good") {
			return "yes", nil
		}
		if containsAny(textLower, "no visit", "not needed", "unnecessary") {
			return "no", nil
		}
		return "unclear", nil

	case strings.Contains(promptLower, "sentiment"):
		pos := countMatches(textLower, positiveWords)
		neg := countMatches(textLower, negativeWords)
		switch {
		case pos > neg:
			return "positive", nil
		case neg > pos:
			return "negative", nil
		}
		return "neutral", nil

	case strings.Contains(promptLower, "care plan") || strings.Contains(promptLower, "recommendations"):
		return "Based on the call, recommend scheduling a home visit within 48 hours. " +
			"Patient requires follow-up monitoring. Update medication schedule as discussed.", nil

	case strings.Contains(promptLower, "summar"):
		return summarize(text), nil
	}

	if len(prompt) > 50 {
		prompt = prompt[:50]
	}
	return fmt.Sprintf("Processed text based on prompt: %s...", prompt), nil
}

func containsAny(text string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func countMatches(text string, words []string) int {
	count := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			count++
		}
	}
	return count
}

// summarize keeps the first two lines of the text as a crude digest.
func summarize(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) > 2 {
		lines = lines[:2]
	}
	return strings.TrimSpace(strings.Join(lines, " "))
}
