package similarity

import (
	"math"
	"testing"

	"github.com/worawit/newslens/internal/model"
)

func testArticle(id string, tokens []string, entities []string, keywords []string) *model.Article {
	a := &model.Article{
		ID:       id,
		Language: model.LanguageEnglish,
		Tokens:   tokens,
	}
	for _, e := range entities {
		a.Entities = append(a.Entities, model.Entity{Surface: e, Canonical: e, Type: model.EntityPerson})
	}
	for _, k := range keywords {
		a.Keywords = append(a.Keywords, model.Keyword{Term: k, Weight: 1})
	}
	return a
}

func TestCompare_SelfIsExactlyOne(t *testing.T) {
	e := NewEngine(0.3)
	a := testArticle("a1",
		[]string{"flood", "bangkok", "rescue"},
		[]string{"Bangkok"},
		[]string{"flood", "rescue"})
	a.Body = "Flood hit the city.\n\nRescue teams arrived."
	a.Sentiment = model.Sentiment{Positive: 0.2, Neutral: 0.5, Negative: 0.3}

	cmp := e.Compare(a, a)

	if cmp.SimilarityScore != 1.0 {
		t.Errorf("self similarity = %v, want exactly 1.0", cmp.SimilarityScore)
	}
	if cmp.ContentSimilarity != 1.0 {
		t.Errorf("self content similarity = %v, want exactly 1.0", cmp.ContentSimilarity)
	}
	if len(cmp.DifferentEntities.Article1) != 0 || len(cmp.DifferentEntities.Article2) != 0 {
		t.Errorf("self comparison has different entities: %+v", cmp.DifferentEntities)
	}
	if len(cmp.ContentDiffs) != 0 {
		t.Errorf("self comparison has content diffs: %v", cmp.ContentDiffs)
	}
	if cmp.Sentiment.Difference.Positive != 0 || cmp.Sentiment.Difference.Negative != 0 {
		t.Errorf("self comparison has sentiment difference: %+v", cmp.Sentiment.Difference)
	}
}

func TestCompare_SelfWithEmptySets(t *testing.T) {
	e := NewEngine(0.3)
	// No entities, no keywords: empty sets are identical, so the score
	// must still be exactly 1.0.
	a := testArticle("a1", []string{"quiet", "day"}, nil, nil)
	a.Body = "A quiet day."

	cmp := e.Compare(a, a)
	if cmp.SimilarityScore != 1.0 {
		t.Errorf("self similarity with empty sets = %v, want 1.0", cmp.SimilarityScore)
	}
}

func TestCompare_Symmetric(t *testing.T) {
	e := NewEngine(0.3)
	a1 := testArticle("a1",
		[]string{"flood", "bangkok", "rescue", "rain"},
		[]string{"Bangkok", "สมชาย"},
		[]string{"flood", "rain"})
	a1.Body = "Flood hit Bangkok.\n\nRescue teams arrived."
	a2 := testArticle("a2",
		[]string{"flood", "bangkok", "damage"},
		[]string{"Bangkok"},
		[]string{"flood", "damage"})
	a2.Body = "Flood hit Bangkok.\n\nDamage is extensive."

	fwd := e.Compare(a1, a2)
	rev := e.Compare(a2, a1)

	if math.Abs(fwd.SimilarityScore-rev.SimilarityScore) > 1e-12 {
		t.Errorf("asymmetric score: %v vs %v", fwd.SimilarityScore, rev.SimilarityScore)
	}
	if math.Abs(fwd.ContentSimilarity-rev.ContentSimilarity) > 1e-12 {
		t.Errorf("asymmetric content similarity: %v vs %v", fwd.ContentSimilarity, rev.ContentSimilarity)
	}
	// Side sets swap with the argument order.
	if len(fwd.DifferentEntities.Article1) != len(rev.DifferentEntities.Article2) {
		t.Errorf("side sets did not swap: %+v vs %+v", fwd.DifferentEntities, rev.DifferentEntities)
	}
}

func TestCompare_DisjointIsZero(t *testing.T) {
	e := NewEngine(0.3)
	a1 := testArticle("a1",
		[]string{"flood", "bangkok"},
		[]string{"Bangkok"},
		[]string{"flood"})
	a1.Body = "Flood hit Bangkok."
	a2 := testArticle("a2",
		[]string{"election", "results"},
		[]string{"สมชาย"},
		[]string{"election"})
	a2.Body = "Election results announced."

	cmp := e.Compare(a1, a2)

	if cmp.SimilarityScore != 0 {
		t.Errorf("disjoint similarity = %v, want 0", cmp.SimilarityScore)
	}
	if len(cmp.CommonEntities) != 0 {
		t.Errorf("unexpected common entities: %v", cmp.CommonEntities)
	}
	if len(cmp.DifferentEntities.Article1) != 1 || len(cmp.DifferentEntities.Article2) != 1 {
		t.Errorf("expected full entity difference, got %+v", cmp.DifferentEntities)
	}
	if len(cmp.DifferentKeywords.Article1) != 1 || len(cmp.DifferentKeywords.Article2) != 1 {
		t.Errorf("expected full keyword difference, got %+v", cmp.DifferentKeywords)
	}
}

func TestCompare_EntityPartition(t *testing.T) {
	e := NewEngine(0.3)
	a1 := testArticle("a1", []string{"news"}, []string{"Bangkok", "สมชาย", "ASEAN"}, nil)
	a1.Body = "News."
	a2 := testArticle("a2", []string{"news"}, []string{"Bangkok", "WHO"}, nil)
	a2.Body = "News."

	cmp := e.Compare(a1, a2)

	// common + only1 must reconstruct set1; common + only2 set2.
	if len(cmp.CommonEntities)+len(cmp.DifferentEntities.Article1) != 3 {
		t.Errorf("partition broken for article1: common=%v only=%v",
			cmp.CommonEntities, cmp.DifferentEntities.Article1)
	}
	if len(cmp.CommonEntities)+len(cmp.DifferentEntities.Article2) != 2 {
		t.Errorf("partition broken for article2: common=%v only=%v",
			cmp.CommonEntities, cmp.DifferentEntities.Article2)
	}
	if len(cmp.CommonEntities) != 1 || cmp.CommonEntities[0] != "Bangkok" {
		t.Errorf("expected common [Bangkok], got %v", cmp.CommonEntities)
	}

	// Dice: 2*1 / (3+2) = 0.4.
	wantScore := 0.3 * 0.4
	gotEntityPart := cmp.SimilarityScore - 0.5*cmp.ContentSimilarity - 0.2*1.0
	if math.Abs(gotEntityPart-wantScore) > 1e-9 {
		t.Errorf("entity component = %v, want %v", gotEntityPart, wantScore)
	}
}

func TestCompare_ContentDifferences(t *testing.T) {
	e := NewEngine(0.3)
	shared := "Flood waters rose across central Bangkok districts on Monday."
	a1 := testArticle("a1", []string{"flood"}, nil, nil)
	a1.Body = shared + "\n\nRescue volunteers distributed supplies to stranded residents."
	a2 := testArticle("a2", []string{"flood"}, nil, nil)
	a2.Body = shared + "\n\nThe stock exchange suspended afternoon trading sessions entirely."

	cmp := e.Compare(a1, a2)

	var side1, side2 int
	for _, d := range cmp.ContentDiffs {
		if d.Type != "added" {
			t.Errorf("unexpected diff type %q", d.Type)
		}
		switch d.Article {
		case model.SideArticle1:
			side1++
		case model.SideArticle2:
			side2++
		}
	}
	if side1 != 1 || side2 != 1 {
		t.Errorf("expected one unique paragraph per side, got %d/%d: %v", side1, side2, cmp.ContentDiffs)
	}
}

func TestCompare_ScoreBounds(t *testing.T) {
	e := NewEngine(0.3)
	a1 := testArticle("a1", []string{"flood", "bangkok", "rain"}, []string{"Bangkok"}, []string{"flood"})
	a1.Body = "Flood in Bangkok."
	a2 := testArticle("a2", []string{"flood", "chiangmai"}, []string{"Chiang Mai", "Bangkok"}, []string{"flood", "north"})
	a2.Body = "Flood in the north."

	cmp := e.Compare(a1, a2)
	if cmp.SimilarityScore < 0 || cmp.SimilarityScore > 1 {
		t.Errorf("score out of range: %v", cmp.SimilarityScore)
	}
	if cmp.SimilarityScore == 0 || cmp.SimilarityScore == 1 {
		t.Errorf("partial overlap should be strictly between 0 and 1, got %v", cmp.SimilarityScore)
	}
}

func TestClamp01(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{-0.1, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{1.0000000000000002, 1},
	}
	for _, c := range cases {
		if got := clamp01(c.in); got != c.want {
			t.Errorf("clamp01(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestSplitParagraphs(t *testing.T) {
	blank := splitParagraphs("one\n\ntwo\n\nthree")
	if len(blank) != 3 {
		t.Errorf("blank-line split: got %d units", len(blank))
	}

	single := splitParagraphs("one\ntwo\nthree")
	if len(single) != 3 {
		t.Errorf("newline split: got %d units", len(single))
	}

	sentences := splitParagraphs("This is the first sentence here. And now the second sentence follows. Then a third one arrives.")
	if len(sentences) != 3 {
		t.Errorf("sentence split: got %d units: %v", len(sentences), sentences)
	}

	wall := splitParagraphs("no terminators at all just words")
	if len(wall) != 1 {
		t.Errorf("wall of text: got %d units", len(wall))
	}
}
