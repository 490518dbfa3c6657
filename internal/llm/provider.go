package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/worawit/newslens/internal/model"
)

// Provider generates natural-language summaries for timeline events.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Summarize generates a short event summary.
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks that the provider is configured and reachable.
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest is the input for one event summary.
type SummarizeRequest struct {
	// Event is the timeline event to describe.
	Event model.Event

	// Prompt overrides the default prompt when non-empty.
	Prompt string

	// Model selects a provider-specific model.
	Model string

	// MaxTokens limits the response length.
	MaxTokens int
}

// SummarizeResponse is the generated summary.
type SummarizeResponse struct {
	Summary    string
	Model      string
	TokensUsed int
}

// Config holds provider configuration.
type Config struct {
	// Provider name: "openai" or "" for disabled.
	Provider string

	// Model name, provider-specific.
	Model string

	APIKey  string
	BaseURL string

	// Timeout for API requests, in seconds.
	Timeout int

	MaxTokens int
}

// ConfigFromModel maps the service configuration onto provider config.
func ConfigFromModel(cfg model.LLMConfig) Config {
	return Config{
		Provider:  cfg.Provider,
		Model:     cfg.Model,
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		MaxTokens: cfg.MaxTokens,
	}
}

// BuildPrompt constructs the default event-summary prompt. The model
// is constrained to the entities and keywords the grouping stage
// already extracted so the summary never introduces new facts.
func BuildPrompt(event model.Event) string {
	return fmt.Sprintf(`Summarize one day of news coverage in 2-3 sentences.

RULES:
1. Mention ONLY the entities and topics listed below. Do not add facts,
   causes, or outcomes that are not implied by the lists.
2. Write in a neutral, wire-service register.
3. Thai entity names stay in Thai.

Date: %s
Articles: %d from %s
Entities: %s
Key topics: %s`,
		event.Date,
		event.ArticleCount,
		strings.Join(event.Sources, ", "),
		strings.Join(event.Entities, ", "),
		strings.Join(keywordTerms(event.Keywords), ", "))
}

func keywordTerms(keywords []model.Keyword) []string {
	terms := make([]string, len(keywords))
	for i, k := range keywords {
		terms[i] = k.Term
	}
	return terms
}
