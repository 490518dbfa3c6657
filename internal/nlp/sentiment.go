package nlp

import "github.com/worawit/newslens/internal/model"

// Polarity lexicons. Scoring is a pure counting pass over the token
// stream, so the same lexicon version always produces the same
// distribution for the same input.
var (
	positiveLexicon = map[string]struct{}{}
	negativeLexicon = map[string]struct{}{}
	neutralLexicon  = map[string]struct{}{}
)

func init() {
	for _, w := range []string{
		// Thai
		"ดี", "สำเร็จ", "ประสบผลสำเร็จ", "ก้าวหน้า", "พัฒนา", "เจริญ", "ยินดี", "ชื่นชม",
		// English
		"good", "great", "excellent", "successful", "positive", "progress",
		"development", "achievement",
	} {
		positiveLexicon[w] = struct{}{}
	}
	for _, w := range []string{
		"แย่", "ล้มเหลว", "เสียหาย", "วิกฤต", "ปัญหา", "อันตราย", "เสียใจ", "โกรธ",
		"bad", "terrible", "failed", "crisis", "problem", "danger", "sad",
		"angry", "negative",
	} {
		negativeLexicon[w] = struct{}{}
	}
	for _, w := range []string{
		"ปกติ", "ธรรมดา", "เฉยๆ", "คงที่",
		"normal", "ordinary", "neutral", "stable", "unchanged",
	} {
		neutralLexicon[w] = struct{}{}
	}
}

// defaultSentiment is returned when no lexicon token appears in the body.
var defaultSentiment = model.Sentiment{Positive: 0.3, Neutral: 0.4, Negative: 0.3}

// ScoreSentiment produces the three-way polarity distribution for a
// token stream. Each matched token contributes one count to its
// polarity; unmatched tokens contribute nothing. The result is
// normalized so the components sum to 1.
func ScoreSentiment(tokens []string) model.Sentiment {
	var pos, neg, neu int
	for _, t := range tokens {
		if _, ok := positiveLexicon[t]; ok {
			pos++
			continue
		}
		if _, ok := negativeLexicon[t]; ok {
			neg++
			continue
		}
		if _, ok := neutralLexicon[t]; ok {
			neu++
		}
	}

	total := pos + neg + neu
	if total == 0 {
		return defaultSentiment
	}
	return model.Sentiment{
		Positive: float64(pos) / float64(total),
		Neutral:  float64(neu) / float64(total),
		Negative: float64(neg) / float64(total),
	}
}
