package engine

import (
	"strings"
	"testing"
)

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		length   int
		gaps     int
		expected string
	}{
		{"short text, one gap", 199, 1, "easy"},
		{"long text, no gaps", 601, 0, "hard"},
		{"middling text and gaps", 300, 2, "medium"},
		{"length exactly at easy boundary", 200, 1, "medium"},
		{"length exactly at hard boundary", 600, 0, "medium"},
		{"short text, many gaps", 100, 4, "hard"},
		{"short text, two gaps", 100, 2, "medium"},
		{"empty text, no gaps", 0, 0, "easy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := strings.Repeat("a", tt.length)
			gaps := make([]string, tt.gaps)
			for i := range gaps {
				gaps[i] = "gap"
			}

			got := Classify(text, gaps)
			if got != tt.expected {
				t.Errorf("Classify(len=%d, gaps=%d) = %s, want %s", tt.length, tt.gaps, got, tt.expected)
			}
		})
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	text := strings.Repeat("requirements ", 30)
	gaps := []string{"a", "b"}

	first := Classify(text, gaps)
	for i := 0; i < 5; i++ {
		if got := Classify(text, gaps); got != first {
			t.Fatalf("classification changed on recomputation: %s != %s", got, first)
		}
	}
}
