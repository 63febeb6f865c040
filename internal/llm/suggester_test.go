package llm

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/ppiankov/litmap/internal/model"
)

type fakeProvider struct {
	completion string
	prompt     string
}

func (f *fakeProvider) Name() string                     { return "fake" }
func (f *fakeProvider) IsAvailable(context.Context) bool { return true }
func (f *fakeProvider) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	f.prompt = prompt
	return f.completion, nil
}

func TestNewSuggester_DisabledWithoutProvider(t *testing.T) {
	s, err := NewSuggester(model.LLMConfig{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if s != nil {
		t.Error("expected nil suggester when no provider configured")
	}
}

func TestNewSuggester_RequiresAPIKey(t *testing.T) {
	if _, err := NewSuggester(model.LLMConfig{Provider: "openai"}); err == nil {
		t.Error("expected error for openai provider without API key")
	}
}

func TestNewSuggester_UnknownProvider(t *testing.T) {
	if _, err := NewSuggester(model.LLMConfig{Provider: "haiku-machine"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestSuggestLocations_PromptAndParsing(t *testing.T) {
	provider := &fakeProvider{completion: "- Lisbon, Portugal\n- Porto, Portugal\n"}
	s := &Suggester{provider: provider}

	got, err := s.SuggestLocations(context.Background(), "The High Mountains of Portugal", "Yann Martel")
	if err != nil {
		t.Fatalf("SuggestLocations failed: %v", err)
	}

	want := []string{"Lisbon, Portugal", "Porto, Portugal"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if !strings.Contains(provider.prompt, "The High Mountains of Portugal") {
		t.Errorf("expected prompt to mention the title, got %q", provider.prompt)
	}
	if !strings.Contains(provider.prompt, "Yann Martel") {
		t.Errorf("expected prompt to mention the author, got %q", provider.prompt)
	}
}

func TestParseSuggestions_FiltersAndCaps(t *testing.T) {
	completion := "1. Paris, France\n2) \"Rome, Italy\"\n* 1960s\n- the United States\nNONE\n" +
		"Berlin\nMadrid\nLisbon\nOslo again and again"

	got := ParseSuggestions(completion)

	if len(got) > 5 {
		t.Fatalf("expected at most 5 suggestions, got %d: %v", len(got), got)
	}
	want := []string{"Paris, France", "Rome, Italy", "Berlin", "Madrid", "Lisbon"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseSuggestions_AllNone(t *testing.T) {
	if got := ParseSuggestions("NONE"); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}
