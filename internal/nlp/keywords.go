package nlp

import (
	"math"
	"sort"

	"github.com/worawit/newslens/internal/model"
)

// Corpus holds document frequencies for TF-IDF weighting across one
// analysis batch.
type Corpus struct {
	docCount int
	docFreq  map[string]int
}

// NewCorpus builds a corpus from the token streams of a batch.
func NewCorpus(docs [][]string) *Corpus {
	c := &Corpus{
		docCount: len(docs),
		docFreq:  make(map[string]int),
	}
	for _, tokens := range docs {
		seen := make(map[string]struct{}, len(tokens))
		for _, t := range tokens {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			c.docFreq[t]++
		}
	}
	return c
}

// idf uses the smoothed formula ln((1+N)/(1+df)) + 1 so terms present
// in every document still carry a small positive weight.
func (c *Corpus) idf(term string) float64 {
	df := c.docFreq[term]
	return math.Log(float64(1+c.docCount)/float64(1+df)) + 1
}

// Keywords ranks a document's tokens by TF-IDF against the corpus and
// returns the top K. With fewer than two corpus documents the IDF term
// is meaningless, so ranking degrades to plain term frequency
// (stopwords were already filtered by the tokenizer).
func Keywords(tokens []string, corpus *Corpus, topK int) []model.Keyword {
	if len(tokens) == 0 || topK <= 0 {
		return nil
	}

	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}

	useIDF := corpus != nil && corpus.docCount >= 2
	keywords := make([]model.Keyword, 0, len(counts))
	for term, n := range counts {
		tf := float64(n) / float64(len(tokens))
		w := tf
		if useIDF {
			w = tf * corpus.idf(term)
		}
		keywords = append(keywords, model.Keyword{Term: term, Weight: w})
	}

	// Deterministic order: weight descending, then term.
	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Weight != keywords[j].Weight {
			return keywords[i].Weight > keywords[j].Weight
		}
		return keywords[i].Term < keywords[j].Term
	})

	if len(keywords) > topK {
		keywords = keywords[:topK]
	}
	return keywords
}
