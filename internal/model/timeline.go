package model

import "time"

// ArticleRef is a lightweight pointer to a contributing article.
type ArticleRef struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Source string `json:"source"`
	URL    string `json:"url"`
}

// Event is a timeline node aggregating one or more articles that share
// a date bucket and overlapping canonical entities.
type Event struct {
	ID           int          `json:"id"`
	Date         string       `json:"date"` // YYYY-MM-DD
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Intensity    float64      `json:"intensity"` // 0-10
	Entities     []string     `json:"entities"`  // canonical forms, ranked by frequency
	Keywords     []Keyword    `json:"keywords"`
	Sources      []string     `json:"sources"`
	ArticleCount int          `json:"article_count"`
	Articles     []ArticleRef `json:"articles"`
}

// ChartDataset is one denormalized series for the timeline chart.
type ChartDataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// ChartData is the derived date→intensity series. It is computed from
// the event sequence and never stored as a source of truth.
type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

// EntityCount is a ranked entity tally for timeline statistics.
type EntityCount struct {
	Entity string `json:"entity"`
	Count  int    `json:"count"`
}

// Statistics summarizes a timeline's inputs.
type Statistics struct {
	TotalEvents        int            `json:"total_events"`
	TotalArticles      int            `json:"total_articles"`
	UniqueSources      int            `json:"unique_sources"`
	TopEntities        []EntityCount  `json:"top_entities"`
	TopKeywords        []Keyword      `json:"top_keywords"`
	SourceDistribution map[string]int `json:"source_distribution"`
	AverageIntensity   float64        `json:"average_intensity"`
}

// DateRange bounds the dated articles in a timeline.
type DateRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// Timeline is the ordered event sequence for one analysis, sorted
// ascending by date with ties broken by earliest ingestion order.
type Timeline struct {
	Events        []Event    `json:"events"`
	ChartData     ChartData  `json:"chart_data"`
	Statistics    Statistics `json:"statistics"`
	DateRange     DateRange  `json:"date_range"`
	TotalArticles int        `json:"total_articles"`
	GeneratedAt   time.Time  `json:"generated_at"`
}

// URLFailure records a per-URL error inside an otherwise successful batch.
type URLFailure struct {
	URL    string `json:"url"`
	Stage  string `json:"stage"`  // fetch, extract, process
	Reason string `json:"reason"` // human-readable
}

// Analysis is one persisted analyze-news run: the processed articles
// plus the timeline built from them.
type Analysis struct {
	ID        string       `json:"analysis_id"`
	InputType string       `json:"input_type"`
	URLs      []string     `json:"urls"`
	Articles  []Article    `json:"articles"`
	Timeline  Timeline     `json:"timeline"`
	Failures  []URLFailure `json:"failures,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}
