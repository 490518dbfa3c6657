package nlp

import (
	"testing"
)

func TestKeywords_FrequencyFallback(t *testing.T) {
	tokens := []string{"economy", "economy", "economy", "budget", "budget", "policy"}

	keywords := Keywords(tokens, nil, 10)
	if len(keywords) != 3 {
		t.Fatalf("expected 3 keywords, got %d", len(keywords))
	}
	if keywords[0].Term != "economy" {
		t.Errorf("expected economy first, got %s", keywords[0].Term)
	}
	if keywords[1].Term != "budget" {
		t.Errorf("expected budget second, got %s", keywords[1].Term)
	}
	if keywords[0].Weight <= keywords[1].Weight || keywords[1].Weight <= keywords[2].Weight {
		t.Errorf("weights not descending: %v", keywords)
	}
}

func TestKeywords_TopKLimit(t *testing.T) {
	tokens := []string{"a1", "b2", "c3", "d4", "e5"}

	keywords := Keywords(tokens, nil, 3)
	if len(keywords) != 3 {
		t.Errorf("expected 3 keywords, got %d", len(keywords))
	}
}

func TestKeywords_IDFDemotesSharedTerms(t *testing.T) {
	doc1 := []string{"flood", "bangkok"}
	doc2 := []string{"bangkok", "election"}
	corpus := NewCorpus([][]string{doc1, doc2})

	keywords := Keywords(doc1, corpus, 10)
	if len(keywords) != 2 {
		t.Fatalf("expected 2 keywords, got %d", len(keywords))
	}
	// Same term frequency, but flood appears in one document and
	// bangkok in both, so flood must rank higher.
	if keywords[0].Term != "flood" {
		t.Errorf("expected flood first, got %v", keywords)
	}
	if keywords[0].Weight <= keywords[1].Weight {
		t.Errorf("expected flood to outweigh bangkok: %v", keywords)
	}
}

func TestKeywords_SingleDocCorpusUsesFrequency(t *testing.T) {
	tokens := []string{"economy", "economy", "budget"}
	corpus := NewCorpus([][]string{tokens})

	withCorpus := Keywords(tokens, corpus, 10)
	plain := Keywords(tokens, nil, 10)

	if len(withCorpus) != len(plain) {
		t.Fatalf("length mismatch: %d vs %d", len(withCorpus), len(plain))
	}
	for i := range plain {
		if withCorpus[i].Term != plain[i].Term || withCorpus[i].Weight != plain[i].Weight {
			t.Errorf("single-doc corpus changed ranking: %v vs %v", withCorpus, plain)
		}
	}
}

func TestKeywords_DeterministicTieBreak(t *testing.T) {
	tokens := []string{"beta", "alpha"}

	for i := 0; i < 5; i++ {
		keywords := Keywords(tokens, nil, 10)
		if keywords[0].Term != "alpha" || keywords[1].Term != "beta" {
			t.Fatalf("run %d: expected alphabetical tie-break, got %v", i, keywords)
		}
	}
}

func TestKeywords_Empty(t *testing.T) {
	if got := Keywords(nil, nil, 10); got != nil {
		t.Errorf("expected nil for empty tokens, got %v", got)
	}
	if got := Keywords([]string{"x1"}, nil, 0); got != nil {
		t.Errorf("expected nil for topK 0, got %v", got)
	}
}
