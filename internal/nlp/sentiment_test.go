package nlp

import (
	"math"
	"testing"
)

func TestScoreSentiment_Default(t *testing.T) {
	s := ScoreSentiment([]string{"meeting", "report", "งบประมาณ"})

	if s.Positive != 0.3 || s.Neutral != 0.4 || s.Negative != 0.3 {
		t.Errorf("expected default distribution, got %+v", s)
	}
}

func TestScoreSentiment_Counts(t *testing.T) {
	s := ScoreSentiment([]string{"good", "bad", "bad", "normal"})

	if s.Positive != 0.25 {
		t.Errorf("expected positive 0.25, got %f", s.Positive)
	}
	if s.Negative != 0.5 {
		t.Errorf("expected negative 0.5, got %f", s.Negative)
	}
	if s.Neutral != 0.25 {
		t.Errorf("expected neutral 0.25, got %f", s.Neutral)
	}
}

func TestScoreSentiment_Thai(t *testing.T) {
	s := ScoreSentiment([]string{"ดี", "สำเร็จ", "วิกฤต"})

	if s.Positive <= s.Negative {
		t.Errorf("expected positive-leaning distribution, got %+v", s)
	}
	if s.Neutral != 0 {
		t.Errorf("expected zero neutral, got %f", s.Neutral)
	}
}

func TestScoreSentiment_SumsToOne(t *testing.T) {
	inputs := [][]string{
		{"good"},
		{"bad", "crisis", "ดี"},
		{"normal", "stable", "great", "terrible"},
		{"nothing", "matches", "here"},
		{},
	}

	for _, tokens := range inputs {
		s := ScoreSentiment(tokens)
		sum := s.Positive + s.Neutral + s.Negative
		if math.Abs(sum-1.0) > 1e-6 {
			t.Errorf("ScoreSentiment(%v) components sum to %f", tokens, sum)
		}
	}
}

func TestScoreSentiment_Deterministic(t *testing.T) {
	tokens := []string{"good", "crisis", "ปัญหา", "พัฒนา", "normal"}
	first := ScoreSentiment(tokens)
	for i := 0; i < 5; i++ {
		if got := ScoreSentiment(tokens); got != first {
			t.Fatalf("run %d differs: %+v vs %+v", i, got, first)
		}
	}
}
