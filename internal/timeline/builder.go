package timeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/worawit/newslens/internal/model"
)

// Weight factors for event intensity, matching the reference generator.
const (
	weightEntityCount   = 0.3
	weightKeywordCount  = 0.2
	weightContentLength = 0.2
	weightCredibility   = 0.3
)

// sourceCredibility holds per-outlet weights used only for intensity.
// Unknown sources get 0.5.
var sourceCredibility = map[string]float64{
	"Bangkok Post":        0.9,
	"The Nation Thailand": 0.9,
	"Thai PBS":            0.95,
	"Thairath":            0.8,
	"Khaosod":             0.8,
	"Matichon":            0.85,
	"Manager":             0.7,
	"Sanook":              0.6,
	"Kapook":              0.6,
	"Daily News":          0.7,
}

// Builder clusters processed articles into a chronological event
// sequence. Grouping decisions use only commutative set operations, so
// permuting the input changes tie-break ordering at most, never the
// groups themselves.
type Builder struct {
	window     time.Duration
	minOverlap int
}

// NewBuilder creates a builder. window is the date bucket size
// (default one calendar day); minOverlap is the number of shared
// canonical entities required to merge two same-bucket articles.
func NewBuilder(window time.Duration, minOverlap int) *Builder {
	if window <= 0 {
		window = 24 * time.Hour
	}
	if minOverlap <= 0 {
		minOverlap = 1
	}
	return &Builder{window: window, minOverlap: minOverlap}
}

// Build produces the ordered event sequence plus the derived chart
// series and summary statistics for one batch of articles.
func (b *Builder) Build(articles []model.Article) *model.Timeline {
	buckets := make(map[string][]*model.Article)
	for i := range articles {
		key := b.bucketKey(&articles[i])
		buckets[key] = append(buckets[key], &articles[i])
	}

	var events []model.Event
	for date, group := range buckets {
		for _, cluster := range clusterByEntities(group, b.minOverlap) {
			events = append(events, b.buildEvent(date, cluster))
		}
	}

	// Ascending by date; same-date events ordered by the earliest
	// contributing article's position in the batch.
	seqByID := make(map[string]int, len(articles))
	for i := range articles {
		seqByID[articles[i].ID] = articles[i].IngestionSeq
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		return eventSeq(events[i], seqByID) < eventSeq(events[j], seqByID)
	})
	for i := range events {
		events[i].ID = i + 1
	}

	return &model.Timeline{
		Events:        events,
		ChartData:     chartData(events),
		Statistics:    statistics(articles, events),
		DateRange:     dateRange(events),
		TotalArticles: len(articles),
		GeneratedAt:   time.Now().UTC(),
	}
}

// bucketKey formats the article's timeline date truncated to the
// grouping window. Articles without a parseable publish date fall back
// to their ingestion time.
func (b *Builder) bucketKey(a *model.Article) string {
	t := a.IngestedAt
	if a.PublishedAt != nil {
		t = *a.PublishedAt
	}
	return t.UTC().Truncate(b.window).Format("2006-01-02")
}

// clusterByEntities partitions a bucket into connected components of
// the entity-overlap graph. Transitive closure keeps the result
// independent of article order.
func clusterByEntities(group []*model.Article, minOverlap int) [][]*model.Article {
	n := len(group)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	sets := make([]map[string]model.Entity, n)
	for i, a := range group {
		sets[i] = a.CanonicalEntities()
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if entityOverlap(sets[i], sets[j]) >= minOverlap {
				union(i, j)
			}
		}
	}

	components := make(map[int][]*model.Article)
	for i, a := range group {
		root := find(i)
		components[root] = append(components[root], a)
	}

	clusters := make([][]*model.Article, 0, len(components))
	for _, c := range components {
		// Stable internal order by batch position.
		sort.Slice(c, func(i, j int) bool { return c[i].IngestionSeq < c[j].IngestionSeq })
		clusters = append(clusters, c)
	}
	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i][0].IngestionSeq < clusters[j][0].IngestionSeq
	})
	return clusters
}

func entityOverlap(s1, s2 map[string]model.Entity) int {
	count := 0
	for k := range s1 {
		if _, ok := s2[k]; ok {
			count++
		}
	}
	return count
}

func (b *Builder) buildEvent(date string, cluster []*model.Article) model.Event {
	entities := mergeEntities(cluster)
	keywords := mergeKeywords(cluster)
	sources := distinctSources(cluster)

	refs := make([]model.ArticleRef, len(cluster))
	for i, a := range cluster {
		refs[i] = model.ArticleRef{ID: a.ID, Title: a.Title, Source: a.Source, URL: a.URL}
	}

	kwLimit := keywords
	if len(kwLimit) > 10 {
		kwLimit = kwLimit[:10]
	}

	return model.Event{
		Date:         date,
		Title:        eventTitle(cluster, entities),
		Description:  eventDescription(cluster, keywords, sources),
		Intensity:    intensity(cluster),
		Entities:     entities,
		Keywords:     kwLimit,
		Sources:      sources,
		ArticleCount: len(cluster),
		Articles:     refs,
	}
}

// mergeEntities unions the canonical entity sets, ranked by how many
// articles mention each, capped at 15.
func mergeEntities(cluster []*model.Article) []string {
	counts := make(map[string]int)
	for _, a := range cluster {
		for canonical := range a.CanonicalEntities() {
			counts[canonical]++
		}
	}

	ranked := make([]string, 0, len(counts))
	for e := range counts {
		ranked = append(ranked, e)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	if len(ranked) > 15 {
		ranked = ranked[:15]
	}
	return ranked
}

func mergeKeywords(cluster []*model.Article) []model.Keyword {
	scores := make(map[string]float64)
	for _, a := range cluster {
		for _, k := range a.Keywords {
			scores[k.Term] += k.Weight
		}
	}

	merged := make([]model.Keyword, 0, len(scores))
	for term, score := range scores {
		merged = append(merged, model.Keyword{Term: term, Weight: score})
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Weight != merged[j].Weight {
			return merged[i].Weight > merged[j].Weight
		}
		return merged[i].Term < merged[j].Term
	})
	return merged
}

func distinctSources(cluster []*model.Article) []string {
	seen := make(map[string]struct{})
	var sources []string
	for _, a := range cluster {
		if _, ok := seen[a.Source]; !ok {
			seen[a.Source] = struct{}{}
			sources = append(sources, a.Source)
		}
	}
	sort.Strings(sources)
	return sources
}

func eventTitle(cluster []*model.Article, entities []string) string {
	if len(cluster) == 1 {
		return cluster[0].Title
	}
	if len(entities) > 0 {
		return fmt.Sprintf("News about %s (%d articles)", entities[0], len(cluster))
	}
	return fmt.Sprintf("Multiple news events (%d articles)", len(cluster))
}

func eventDescription(cluster []*model.Article, keywords []model.Keyword, sources []string) string {
	var parts []string
	if len(cluster) > 1 {
		parts = append(parts, fmt.Sprintf("%d articles from %d source(s)", len(cluster), len(sources)))
	}
	if len(keywords) > 0 {
		top := keywords
		if len(top) > 5 {
			top = top[:5]
		}
		terms := make([]string, len(top))
		for i, k := range top {
			terms[i] = k.Term
		}
		parts = append(parts, "Key topics: "+strings.Join(terms, ", "))
	}
	if len(sources) > 0 {
		parts = append(parts, "Sources: "+strings.Join(sources, ", "))
	}
	return strings.Join(parts, ". ")
}

// intensity averages per-article significance on a 0-10 scale.
func intensity(cluster []*model.Article) float64 {
	if len(cluster) == 0 {
		return 0
	}
	total := 0.0
	for _, a := range cluster {
		score := float64(len(a.Entities)) * weightEntityCount
		score += float64(len(a.Keywords)) * weightKeywordCount
		normLen := float64(a.WordCount) / 1000
		if normLen > 1 {
			normLen = 1
		}
		score += normLen * weightContentLength
		cred, ok := sourceCredibility[a.Source]
		if !ok {
			cred = 0.5
		}
		score += cred * weightCredibility
		total += score
	}
	avg := total / float64(len(cluster)) * 2
	if avg > 10 {
		avg = 10
	}
	return avg
}

// chartData derives the date→intensity series from the event sequence.
func chartData(events []model.Event) model.ChartData {
	if len(events) == 0 {
		return model.ChartData{Labels: []string{}, Datasets: []model.ChartDataset{}}
	}

	var labels []string
	intensityByDate := make(map[string]float64)
	countByDate := make(map[string]float64)
	for _, ev := range events {
		if _, ok := countByDate[ev.Date]; !ok {
			labels = append(labels, ev.Date) // events are already date-sorted
		}
		intensityByDate[ev.Date] += ev.Intensity
		countByDate[ev.Date] += float64(ev.ArticleCount)
	}

	intensities := make([]float64, len(labels))
	counts := make([]float64, len(labels))
	for i, d := range labels {
		intensities[i] = intensityByDate[d]
		counts[i] = countByDate[d]
	}

	return model.ChartData{
		Labels: labels,
		Datasets: []model.ChartDataset{
			{Label: "Event Intensity", Data: intensities},
			{Label: "Article Count", Data: counts},
		},
	}
}

func statistics(articles []model.Article, events []model.Event) model.Statistics {
	entityCounts := make(map[string]int)
	keywordScores := make(map[string]float64)
	sourceDist := make(map[string]int)

	for i := range articles {
		a := &articles[i]
		for canonical := range a.CanonicalEntities() {
			entityCounts[canonical]++
		}
		for _, k := range a.Keywords {
			keywordScores[k.Term] += k.Weight
		}
		sourceDist[a.Source]++
	}

	topEntities := make([]model.EntityCount, 0, len(entityCounts))
	for e, c := range entityCounts {
		topEntities = append(topEntities, model.EntityCount{Entity: e, Count: c})
	}
	sort.Slice(topEntities, func(i, j int) bool {
		if topEntities[i].Count != topEntities[j].Count {
			return topEntities[i].Count > topEntities[j].Count
		}
		return topEntities[i].Entity < topEntities[j].Entity
	})
	if len(topEntities) > 10 {
		topEntities = topEntities[:10]
	}

	topKeywords := make([]model.Keyword, 0, len(keywordScores))
	for term, score := range keywordScores {
		topKeywords = append(topKeywords, model.Keyword{Term: term, Weight: score})
	}
	sort.Slice(topKeywords, func(i, j int) bool {
		if topKeywords[i].Weight != topKeywords[j].Weight {
			return topKeywords[i].Weight > topKeywords[j].Weight
		}
		return topKeywords[i].Term < topKeywords[j].Term
	})
	if len(topKeywords) > 10 {
		topKeywords = topKeywords[:10]
	}

	avgIntensity := 0.0
	if len(events) > 0 {
		for _, ev := range events {
			avgIntensity += ev.Intensity
		}
		avgIntensity /= float64(len(events))
	}

	return model.Statistics{
		TotalEvents:        len(events),
		TotalArticles:      len(articles),
		UniqueSources:      len(sourceDist),
		TopEntities:        topEntities,
		TopKeywords:        topKeywords,
		SourceDistribution: sourceDist,
		AverageIntensity:   avgIntensity,
	}
}

func dateRange(events []model.Event) model.DateRange {
	if len(events) == 0 {
		return model.DateRange{}
	}
	return model.DateRange{Start: events[0].Date, End: events[len(events)-1].Date}
}

// eventSeq returns the smallest ingestion sequence among an event's
// contributing articles, used only as the same-date tie-break.
func eventSeq(ev model.Event, seqByID map[string]int) int {
	min := int(^uint(0) >> 1)
	for _, ref := range ev.Articles {
		if s, ok := seqByID[ref.ID]; ok && s < min {
			min = s
		}
	}
	return min
}
