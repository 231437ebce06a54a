package match

import (
	"math"
	"testing"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{
			name: "identical descriptions",
			a:    "AMAZON PURCHASE 12345",
			b:    "AMAZON PURCHASE 12345",
			want: 1.0,
		},
		{
			name: "case insensitive",
			a:    "Amazon Purchase",
			b:    "AMAZON PURCHASE",
			want: 1.0,
		},
		{
			name: "whitespace collapsed",
			a:    "AMAZON   PURCHASE",
			b:    "amazon purchase",
			want: 1.0,
		},
		{
			name: "leading and trailing whitespace ignored",
			a:    "  COFFEE SHOP  ",
			b:    "coffee shop",
			want: 1.0,
		},
		{
			name: "first empty",
			a:    "",
			b:    "AMAZON",
			want: 0.0,
		},
		{
			name: "second empty",
			a:    "AMAZON",
			b:    "",
			want: 0.0,
		},
		{
			name: "both empty",
			a:    "",
			b:    "",
			want: 0.0,
		},
		{
			name: "whitespace only counts as empty",
			a:    "   ",
			b:    "AMAZON",
			want: 0.0,
		},
		{
			name: "single substitution",
			a:    "abcd",
			b:    "abxd",
			want: 0.75,
		},
		{
			name: "completely different",
			a:    "aaaa",
			b:    "zzzz",
			want: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestScoreSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"AMAZON PURCHASE", "AMAZON PRIME"},
		{"STARBUCKS #1234", "STARBUCKS #5678"},
		{"payroll deposit", "PAYROLL"},
	}

	for _, pair := range pairs {
		forward := Score(pair[0], pair[1])
		backward := Score(pair[1], pair[0])
		if forward != backward {
			t.Errorf("Score(%q, %q) = %v but reversed = %v", pair[0], pair[1], forward, backward)
		}
	}
}

func TestScoreRange(t *testing.T) {
	inputs := []string{"", "a", "AMAZON", "WHOLE FOODS MARKET", "x y z"}
	for _, a := range inputs {
		for _, b := range inputs {
			got := Score(a, b)
			if got < 0.0 || got > 1.0 {
				t.Errorf("Score(%q, %q) = %v, outside [0, 1]", a, b, got)
			}
		}
	}
}

func TestScoreSimilarDescriptionsClearThreshold(t *testing.T) {
	// Recurring transactions usually differ only in a trailing reference
	// number. Those pairs must clear the default matching threshold.
	got := Score("AMAZON MKTP US*1A2B3C", "AMAZON MKTP US*9Z8Y7X")
	if got < DefaultThreshold {
		t.Errorf("Score = %v, want >= %v", got, DefaultThreshold)
	}
}

func TestScoreTrailingReference(t *testing.T) {
	// A description extended with a trailing reference number must still
	// score well against its bare form, or recurring vendors with per
	// statement references never match history.
	got := Score("AMAZON PURCHASE REF123", "AMAZON PURCHASE")
	want := 2.0 * 15.0 / (22.0 + 15.0)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Score = %v, want %v", got, want)
	}
	if got < DefaultThreshold {
		t.Errorf("Score = %v, below default threshold %v", got, DefaultThreshold)
	}
}

func TestScoreMultibyteRunes(t *testing.T) {
	// Non-ASCII vendor names are scored per rune, not per byte.
	got := Score("MÜNCHEN", "MÜNCHEE")
	want := 2.0 * 6.0 / (7.0 + 7.0)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Score(%q, %q) = %v, want %v", "MÜNCHEN", "MÜNCHEE", got, want)
	}
}

func TestLongestCommonBlock(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		wantA    int
		wantB    int
		wantSize int
	}{
		{"kitten", "sitting", 1, 1, 3},
		{"banana", "anan", 1, 0, 4},
		{"same", "same", 0, 0, 4},
		{"abc", "xyz", 0, 0, 0},
		{"", "abc", 0, 0, 0},
	}

	for _, tt := range tests {
		ai, bi, size := longestCommonBlock([]rune(tt.a), []rune(tt.b))
		if ai != tt.wantA || bi != tt.wantB || size != tt.wantSize {
			t.Errorf("longestCommonBlock(%q, %q) = (%d, %d, %d), want (%d, %d, %d)",
				tt.a, tt.b, ai, bi, size, tt.wantA, tt.wantB, tt.wantSize)
		}
	}
}
