package model

import "time"

// DifferenceSide identifies which article a content difference belongs to.
type DifferenceSide int

const (
	SideArticle1 DifferenceSide = 1
	SideArticle2 DifferenceSide = 2
)

// ContentDifference is a paragraph present in one article with no
// sufficiently similar counterpart in the other.
type ContentDifference struct {
	Type    string         `json:"type"` // always "added" for the owning side
	Text    string         `json:"text"`
	Article DifferenceSide `json:"article"`
}

// SideSets holds the per-article halves of a set partition.
type SideSets struct {
	Article1 []string `json:"article1"`
	Article2 []string `json:"article2"`
}

// SentimentPair holds both articles' sentiment and the per-component deltas.
type SentimentPair struct {
	Article1   Sentiment `json:"article1"`
	Article2   Sentiment `json:"article2"`
	Difference Sentiment `json:"sentiment_difference"`
}

// Comparison is the similarity/difference report between exactly two
// articles. common ∪ unique_1 ∪ unique_2 always covers exactly the
// union of both sides with no overlap between the unique halves.
type Comparison struct {
	ID                string              `json:"comparison_id,omitempty"`
	Article1ID        string              `json:"article_id_1"`
	Article2ID        string              `json:"article_id_2"`
	SimilarityScore   float64             `json:"similarity_score"` // [0,1]
	ContentSimilarity float64             `json:"content_similarity"`
	CommonEntities    []string            `json:"common_entities"`
	DifferentEntities SideSets            `json:"different_entities"`
	CommonKeywords    []string            `json:"common_keywords"`
	DifferentKeywords SideSets            `json:"different_keywords"`
	Sentiment         SentimentPair       `json:"sentiment_analysis"`
	ContentDiffs      []ContentDifference `json:"content_differences"`
	ComparedAt        time.Time           `json:"compared_at"`
}
