package similarity

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/worawit/newslens/internal/lang"
	"github.com/worawit/newslens/internal/model"
)

// Component weights for the overall similarity score, matching the
// reference analyzer: content carries half the weight, entities and
// keywords the rest.
const (
	weightContent  = 0.5
	weightEntities = 0.3
	weightKeywords = 0.2
)

// Engine computes pairwise article comparisons. Stateless and safe for
// concurrent use.
type Engine struct {
	diffThreshold float64
}

// NewEngine creates an engine. diffThreshold is the paragraph-match
// cosine cutoff below which a paragraph counts as unique to its side.
func NewEngine(diffThreshold float64) *Engine {
	if diffThreshold <= 0 {
		diffThreshold = 0.3
	}
	return &Engine{diffThreshold: diffThreshold}
}

// Compare builds the full comparison record for two articles. The
// operation is symmetric up to the article1/article2 labeling:
// Compare(a, b) and Compare(b, a) carry the same similarity score.
func (e *Engine) Compare(a1, a2 *model.Article) *model.Comparison {
	contentSim := e.contentSimilarity(a1, a2)

	commonEnt, only1Ent, only2Ent, entDice := partitionSets(canonicalSet(a1), canonicalSet(a2))
	commonKw, only1Kw, only2Kw, kwDice := partitionSets(a1.KeywordSet(), a2.KeywordSet())

	score := weightContent*contentSim + weightEntities*entDice + weightKeywords*kwDice
	// Fully identical components must produce exactly 1.0, not a
	// float-summation neighbor of it.
	if contentSim == 1 && entDice == 1 && kwDice == 1 {
		score = 1
	}
	score = clamp01(score)

	s1, s2 := a1.Sentiment, a2.Sentiment

	return &model.Comparison{
		Article1ID:        a1.ID,
		Article2ID:        a2.ID,
		SimilarityScore:   score,
		ContentSimilarity: contentSim,
		CommonEntities:    commonEnt,
		DifferentEntities: model.SideSets{Article1: only1Ent, Article2: only2Ent},
		CommonKeywords:    commonKw,
		DifferentKeywords: model.SideSets{Article1: only1Kw, Article2: only2Kw},
		Sentiment: model.SentimentPair{
			Article1: s1,
			Article2: s2,
			Difference: model.Sentiment{
				Positive: math.Abs(s1.Positive - s2.Positive),
				Neutral:  math.Abs(s1.Neutral - s2.Neutral),
				Negative: math.Abs(s1.Negative - s2.Negative),
			},
		},
		ContentDiffs: e.contentDifferences(a1, a2),
		ComparedAt:   time.Now().UTC(),
	}
}

// contentSimilarity is the cosine between TF-IDF vectors built from the
// two token streams. Identical streams score exactly 1.0; disjoint
// vocabularies score 0.0.
func (e *Engine) contentSimilarity(a1, a2 *model.Article) float64 {
	t1, t2 := a1.Tokens, a2.Tokens
	if len(t1) == 0 || len(t2) == 0 {
		return 0
	}
	if tokensEqual(t1, t2) {
		return 1
	}

	df := make(map[string]int)
	for _, counts := range []map[string]int{termCounts(t1), termCounts(t2)} {
		for term := range counts {
			df[term]++
		}
	}

	v1 := tfidfVector(t1, df)
	v2 := tfidfVector(t2, df)
	return clamp01(cosine(v1, v2))
}

// clamp01 keeps float-summation noise out of the [0,1] contract.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func termCounts(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	return counts
}

func tfidfVector(tokens []string, df map[string]int) map[string]float64 {
	counts := termCounts(tokens)
	vec := make(map[string]float64, len(counts))
	for term, n := range counts {
		tf := float64(n) / float64(len(tokens))
		idf := math.Log(3.0/float64(1+df[term])) + 1
		vec[term] = tf * idf
	}
	return vec
}

func cosine(v1, v2 map[string]float64) float64 {
	var dot, n1, n2 float64
	for term, w := range v1 {
		n1 += w * w
		if w2, ok := v2[term]; ok {
			dot += w * w2
		}
	}
	for _, w := range v2 {
		n2 += w * w
	}
	if n1 == 0 || n2 == 0 || dot == 0 {
		return 0
	}
	return dot / (math.Sqrt(n1) * math.Sqrt(n2))
}

func tokensEqual(t1, t2 []string) bool {
	if len(t1) != len(t2) {
		return false
	}
	for i := range t1 {
		if t1[i] != t2[i] {
			return false
		}
	}
	return true
}

func canonicalSet(a *model.Article) map[string]struct{} {
	set := make(map[string]struct{}, len(a.Entities))
	for _, e := range a.Entities {
		set[e.Canonical] = struct{}{}
	}
	return set
}

// partitionSets splits two sets into common/only-left/only-right and
// returns the Dice coefficient. The three slices always form a strict
// partition of the union. Two empty sets are trivially identical and
// score 1.0 so self-comparison stays exact.
func partitionSets(s1, s2 map[string]struct{}) (common, only1, only2 []string, dice float64) {
	for v := range s1 {
		if _, ok := s2[v]; ok {
			common = append(common, v)
		} else {
			only1 = append(only1, v)
		}
	}
	for v := range s2 {
		if _, ok := s1[v]; !ok {
			only2 = append(only2, v)
		}
	}

	sort.Strings(common)
	sort.Strings(only1)
	sort.Strings(only2)

	total := len(s1) + len(s2)
	if total == 0 {
		return []string{}, []string{}, []string{}, 1.0
	}
	dice = float64(2*len(common)) / float64(total)
	if common == nil {
		common = []string{}
	}
	if only1 == nil {
		only1 = []string{}
	}
	if only2 == nil {
		only2 = []string{}
	}
	return common, only1, only2, dice
}

// contentDifferences aligns the two bodies at paragraph level. A
// paragraph whose best cross-article cosine stays below the threshold
// is reported as unique to its side.
func (e *Engine) contentDifferences(a1, a2 *model.Article) []model.ContentDifference {
	p1 := splitParagraphs(a1.Body)
	p2 := splitParagraphs(a2.Body)

	vecs1 := paragraphVectors(p1, a1.Language)
	vecs2 := paragraphVectors(p2, a2.Language)

	diffs := []model.ContentDifference{}
	for i, para := range p1 {
		if bestMatch(vecs1[i], vecs2) < e.diffThreshold {
			diffs = append(diffs, model.ContentDifference{
				Type:    "added",
				Text:    para,
				Article: model.SideArticle1,
			})
		}
	}
	for i, para := range p2 {
		if bestMatch(vecs2[i], vecs1) < e.diffThreshold {
			diffs = append(diffs, model.ContentDifference{
				Type:    "added",
				Text:    para,
				Article: model.SideArticle2,
			})
		}
	}
	return diffs
}

func paragraphVectors(paragraphs []string, language model.Language) []map[string]float64 {
	vecs := make([]map[string]float64, len(paragraphs))
	for i, p := range paragraphs {
		counts := termCounts(lang.Tokenize(p, language))
		vec := make(map[string]float64, len(counts))
		for term, n := range counts {
			vec[term] = float64(n)
		}
		vecs[i] = vec
	}
	return vecs
}

func bestMatch(vec map[string]float64, others []map[string]float64) float64 {
	best := 0.0
	for _, o := range others {
		if sim := cosine(vec, o); sim > best {
			best = sim
		}
	}
	return best
}

// splitParagraphs breaks a body into paragraph units on blank lines,
// falling back to single newlines, then sentence boundaries, so every
// body yields at least one unit.
func splitParagraphs(body string) []string {
	units := splitNonEmpty(body, "\n\n")
	if len(units) <= 1 {
		units = splitNonEmpty(body, "\n")
	}
	if len(units) <= 1 {
		units = splitSentenceGroups(body)
	}
	return units
}

func splitNonEmpty(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// splitSentenceGroups chunks sentence-terminated spans so wall-of-text
// bodies still diff at a useful granularity.
func splitSentenceGroups(s string) []string {
	var out []string
	var current strings.Builder
	for _, r := range s {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if part := strings.TrimSpace(current.String()); len(part) > 10 {
				out = append(out, part)
			}
			current.Reset()
		}
	}
	if part := strings.TrimSpace(current.String()); len(part) > 10 {
		out = append(out, part)
	}
	if len(out) == 0 && strings.TrimSpace(s) != "" {
		out = []string{strings.TrimSpace(s)}
	}
	return out
}
