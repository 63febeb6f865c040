package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/litmap/internal/extract"
	"github.com/ppiankov/litmap/internal/model"
)

// Suggester proposes setting locations for books whose prose yielded no
// heuristic matches. Optional: a nil Suggester is valid and means the
// feature is off.
type Suggester struct {
	provider  Provider
	maxTokens int
}

// NewSuggester creates a suggester, or nil when no provider is
// configured.
func NewSuggester(cfg model.LLMConfig) (*Suggester, error) {
	if cfg.Provider == "" {
		return nil, nil
	}

	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}

	return &Suggester{
		provider:  provider,
		maxTokens: cfg.MaxTokens,
	}, nil
}

// listMarkerRe strips bullets and numbering from completion lines.
var listMarkerRe = regexp.MustCompile(`^(?:[-*•]|\d+[.)])\s*`)

// SuggestLocations asks the provider for the book's real-world
// settings. Responses pass through the same filters as heuristic
// extractions: noise phrases, bare years, length bounds and the
// five-entry cap.
func (s *Suggester) SuggestLocations(ctx context.Context, title, author string) ([]string, error) {
	prompt := fmt.Sprintf("List the real-world locations where the book %q", title)
	if author != "" {
		prompt += fmt.Sprintf(" by %s", author)
	}
	prompt += " is set. Answer with at most five place names, one per line. " +
		"Prefer \"City, Region\" forms. If the settings are fictional or unknown, answer NONE."

	completion, err := s.provider.Complete(ctx, prompt, s.maxTokens)
	if err != nil {
		return nil, err
	}

	return ParseSuggestions(completion), nil
}

// ParseSuggestions turns a completion into sanitized location names
func ParseSuggestions(completion string) []string {
	var candidates []string
	for _, line := range strings.Split(completion, "\n") {
		line = strings.TrimSpace(line)
		line = listMarkerRe.ReplaceAllString(line, "")
		line = strings.Trim(line, `"'`)
		line = strings.TrimSpace(line)

		if line == "" || strings.EqualFold(line, "none") {
			continue
		}
		candidates = append(candidates, line)
	}

	return extract.Sanitize(candidates)
}
