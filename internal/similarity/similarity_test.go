package similarity

import (
	"math"
	"testing"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		reference string
		want      float64
	}{
		{"identical", "the red house", "the red house", 1},
		{"case and padding", "  The Red HOUSE ", "the red house", 1},
		{"reordered", "house red the", "the red house", 1},
		{"duplicates collapse", "cat cat cat", "cat", 1},
		{"half overlap", "red house", "red car", 1.0 / 3.0},
		{"disjoint", "dog", "cat", 0},
		{"empty candidate", "", "cat", 0},
		{"empty reference", "cat", "", 0},
		{"whitespace only", "   ", "cat", 0},
		{"both empty", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.candidate, tt.reference)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score(%q, %q) = %v, want %v", tt.candidate, tt.reference, got, tt.want)
			}
		})
	}
}

func TestScore_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"good morning", "morning"},
		{"i am here now", "here i am"},
		{"", "x"},
		{"a b c d", "c d e f g"},
	}
	for _, p := range pairs {
		ab := Score(p[0], p[1])
		ba := Score(p[1], p[0])
		if ab != ba {
			t.Errorf("Score(%q,%q)=%v but Score(%q,%q)=%v", p[0], p[1], ab, p[1], p[0], ba)
		}
	}
}

func TestScore_SelfIsOne(t *testing.T) {
	for _, s := range []string{"hola", "buenos días", "a b a b"} {
		if got := Score(s, s); got != 1 {
			t.Errorf("Score(%q, %q) = %v, want 1", s, s, got)
		}
	}
}

func TestScore_Range(t *testing.T) {
	inputs := []string{"", "a", "a b", "b c d", "x y z a"}
	for _, a := range inputs {
		for _, b := range inputs {
			s := Score(a, b)
			if s < 0 || s > 1 {
				t.Errorf("Score(%q, %q) = %v out of range", a, b, s)
			}
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		score float64
		want  Tier
	}{
		{1, TierStrong},
		{0.7, TierStrong},
		{0.69, TierPartial},
		{0.4, TierPartial},
		{0.39, TierFail},
		{0, TierFail},
	}
	for _, tt := range tests {
		if got := Classify(tt.score); got != tt.want {
			t.Errorf("Classify(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestTierMessages(t *testing.T) {
	seen := make(map[string]bool)
	for _, tier := range []Tier{TierFail, TierPartial, TierStrong} {
		msg := tier.Message()
		if msg == "" {
			t.Errorf("tier %v has empty message", tier)
		}
		if seen[msg] {
			t.Errorf("tier %v message %q not distinct", tier, msg)
		}
		seen[msg] = true
	}
	if !TierStrong.Passed() || TierPartial.Passed() || TierFail.Passed() {
		t.Error("only the strong tier should pass")
	}
}
