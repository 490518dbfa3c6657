package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/worawit/newslens/internal/model"
)

// MockProvider implements the Provider interface for testing
type MockProvider struct {
	name     string
	response *SummarizeResponse
	err      error
	calls    int
}

func (m *MockProvider) Name() string { return m.name }

func (m *MockProvider) Summarize(_ context.Context, _ SummarizeRequest) (*SummarizeResponse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *MockProvider) IsAvailable(_ context.Context) bool { return true }

func TestNewSummarizer_Disabled(t *testing.T) {
	summarizer, err := NewSummarizer(Config{Provider: ""})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if summarizer.IsEnabled() {
		t.Error("Expected summarizer to be disabled")
	}
}

func TestNewSummarizer_UnknownProvider(t *testing.T) {
	if _, err := NewSummarizer(Config{Provider: "clippy"}); err == nil {
		t.Fatal("Expected error for unknown provider")
	}
}

func TestNewSummarizer_OpenAIWithoutKey(t *testing.T) {
	if _, err := NewSummarizer(Config{Provider: "openai"}); err == nil {
		t.Fatal("Expected error for openai provider without API key")
	}
}

func TestSummarizer_IsEnabled_NilReceiver(t *testing.T) {
	var s *Summarizer
	if s.IsEnabled() {
		t.Error("Expected nil summarizer to report disabled")
	}
}

func TestEnrichTimeline_RewritesDescriptions(t *testing.T) {
	provider := &MockProvider{
		name:     "mock",
		response: &SummarizeResponse{Summary: "Generated summary.", Model: "mock-model"},
	}
	s := &Summarizer{provider: provider}

	timeline := &model.Timeline{
		Events: []model.Event{
			{ID: 1, Date: "2026-03-01", Description: "template one"},
			{ID: 2, Date: "2026-03-02", Description: "template two"},
		},
	}

	s.EnrichTimeline(context.Background(), timeline)

	if provider.calls != 2 {
		t.Errorf("Expected one call per event, got %d", provider.calls)
	}
	for _, ev := range timeline.Events {
		if ev.Description != "Generated summary." {
			t.Errorf("Event %d description not rewritten: %q", ev.ID, ev.Description)
		}
	}
}

func TestEnrichTimeline_FailureKeepsTemplate(t *testing.T) {
	s := &Summarizer{provider: &MockProvider{name: "mock", err: errors.New("rate limit")}}

	timeline := &model.Timeline{
		Events: []model.Event{{ID: 1, Date: "2026-03-01", Description: "template"}},
	}

	s.EnrichTimeline(context.Background(), timeline)

	if timeline.Events[0].Description != "template" {
		t.Errorf("Failed summary should keep the template, got %q", timeline.Events[0].Description)
	}
}

func TestEnrichTimeline_EmptySummaryKeepsTemplate(t *testing.T) {
	s := &Summarizer{provider: &MockProvider{name: "mock", response: &SummarizeResponse{Summary: ""}}}

	timeline := &model.Timeline{
		Events: []model.Event{{ID: 1, Date: "2026-03-01", Description: "template"}},
	}

	s.EnrichTimeline(context.Background(), timeline)

	if timeline.Events[0].Description != "template" {
		t.Errorf("Empty summary should keep the template, got %q", timeline.Events[0].Description)
	}
}

func TestEnrichTimeline_Disabled(t *testing.T) {
	s, err := NewSummarizer(Config{})
	if err != nil {
		t.Fatalf("NewSummarizer failed: %v", err)
	}

	timeline := &model.Timeline{
		Events: []model.Event{{ID: 1, Description: "template"}},
	}
	s.EnrichTimeline(context.Background(), timeline)

	if timeline.Events[0].Description != "template" {
		t.Error("Disabled summarizer must not touch descriptions")
	}
}

func TestBuildPrompt_ConstrainedToEvent(t *testing.T) {
	event := model.Event{
		Date:         "2026-03-01",
		ArticleCount: 2,
		Sources:      []string{"Thairath", "Khaosod"},
		Entities:     []string{"Bangkok", "สมชาย"},
		Keywords:     []model.Keyword{{Term: "flood", Weight: 0.6}, {Term: "rain", Weight: 0.4}},
	}

	prompt := BuildPrompt(event)

	for _, element := range []string{
		"2026-03-01",
		"Thairath, Khaosod",
		"Bangkok, สมชาย",
		"flood, rain",
		"ONLY the entities and topics listed",
	} {
		if !strings.Contains(prompt, element) {
			t.Errorf("Expected prompt to contain %q", element)
		}
	}
}
