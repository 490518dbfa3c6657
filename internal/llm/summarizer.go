package llm

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/worawit/newslens/internal/model"
)

// Summarizer replaces the templated timeline event descriptions with
// provider-generated prose. Entirely optional: timelines are complete
// without it, and a failed summary leaves the template in place.
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer builds a summarizer for the configured provider.
// Returns an error for unknown providers or missing credentials.
func NewSummarizer(config Config) (*Summarizer, error) {
	switch config.Provider {
	case "":
		return &Summarizer{config: config}, nil
	case "openai":
		p, err := NewOpenAIProvider(config)
		if err != nil {
			return nil, err
		}
		return &Summarizer{provider: p, config: config}, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", config.Provider)
	}
}

// IsEnabled reports whether a provider is configured.
func (s *Summarizer) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// EnrichTimeline rewrites each event's description in place. Scores,
// grouping, and ordering are already final and never change here.
func (s *Summarizer) EnrichTimeline(ctx context.Context, timeline *model.Timeline) {
	if !s.IsEnabled() || timeline == nil {
		return
	}
	for i := range timeline.Events {
		resp, err := s.provider.Summarize(ctx, SummarizeRequest{Event: timeline.Events[i]})
		if err != nil {
			log.Warn("event summary failed", "date", timeline.Events[i].Date, "err", err)
			continue
		}
		if resp.Summary != "" {
			timeline.Events[i].Description = resp.Summary
		}
	}
}
