package model

import "time"

// Language identifies the dominant language of an article body.
type Language string

const (
	LanguageThai    Language = "th"
	LanguageEnglish Language = "en"
	LanguageMixed   Language = "mixed"
)

// EntityType classifies a named entity mention.
type EntityType string

const (
	EntityPerson       EntityType = "person"
	EntityOrganization EntityType = "organization"
	EntityLocation     EntityType = "location"
)

// Entity is a named mention normalized to a canonical form.
// Cross-article matching always uses the canonical form, never the
// surface text.
type Entity struct {
	Surface   string     `json:"surface"`
	Canonical string     `json:"canonical"`
	Type      EntityType `json:"type"`
}

// Keyword is a normalized salient term with a relevance weight.
// Comparison is presence-based; the weight is used only for ranking.
type Keyword struct {
	Term   string  `json:"keyword"`
	Weight float64 `json:"score"`
}

// Sentiment is a three-way polarity distribution. The components sum
// to 1.0 within 1e-6.
type Sentiment struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

// Article is the canonical extracted representation of one ingested
// news page. Articles are immutable once created; re-ingesting a URL
// produces a superseding record under the same id.
type Article struct {
	ID           string     `json:"id"`
	URL          string     `json:"url"`
	Source       string     `json:"source"`
	Title        string     `json:"title"`
	Author       string     `json:"author,omitempty"`
	Body         string     `json:"content"`
	Tags         []string   `json:"tags,omitempty"`
	PublishedAt  *time.Time `json:"published_date,omitempty"` // nil when unparseable
	Language     Language   `json:"language"`
	Tokens       []string   `json:"-"` // token stream, not serialized
	Entities     []Entity   `json:"entities"`
	Keywords     []Keyword  `json:"keywords"`
	Sentiment    Sentiment  `json:"sentiment"`
	WordCount    int        `json:"word_count"`
	IngestedAt   time.Time  `json:"ingested_at"`
	IngestionSeq int        `json:"-"` // position in the batch, used only for tie-breaks
}

// CanonicalEntities returns the deduplicated canonical entity set.
func (a *Article) CanonicalEntities() map[string]Entity {
	set := make(map[string]Entity, len(a.Entities))
	for _, e := range a.Entities {
		if _, ok := set[e.Canonical]; !ok {
			set[e.Canonical] = e
		}
	}
	return set
}

// KeywordSet returns the keyword terms as a set.
func (a *Article) KeywordSet() map[string]struct{} {
	set := make(map[string]struct{}, len(a.Keywords))
	for _, k := range a.Keywords {
		set[k.Term] = struct{}{}
	}
	return set
}
