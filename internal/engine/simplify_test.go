package engine

import (
	"strings"
	"testing"
)

func TestSimplifyEmptyInput(t *testing.T) {
	if got := Simplify(""); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestSimplifyPassesUnmatchedTextThrough(t *testing.T) {
	in := "Tell us about your bakery."
	if got := Simplify(in); got != in {
		t.Fatalf("unmatched text was altered: %q", got)
	}
}

func TestSimplifyRewritesKnownPhrases(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		contains string
	}{
		{"articulate", "Please articulate your plan.", "Explain clearly in words."},
		{"value proposition", "Describe your value proposition.", "Why people choose you instead of someone else."},
		{"milestones case-insensitive", "List your MILESTONES here.", "Important checkpoints or dates."},
		{"financial sustainability alternate", "Show financial sustainability.", "keep enough money coming in"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Simplify(tt.in)
			if !strings.Contains(got, tt.contains) {
				t.Errorf("Simplify(%q) = %q, want it to contain %q", tt.in, got, tt.contains)
			}
		})
	}
}

func TestSimplifyLongerPhraseWinsOverContainedTerm(t *testing.T) {
	// "fiscal sustainability" sits above "sustainability" in the rule
	// order, so the compound phrase must be rewritten as a whole.
	got := Simplify("fiscal sustainability")
	want := "How you will keep enough money coming in to pay your bills and stay open."
	if got != want {
		t.Fatalf("Simplify(fiscal sustainability) = %q, want %q", got, want)
	}
}

func TestSimplifyAppliesEachRuleOnce(t *testing.T) {
	got := Simplify("Describe your scope. Then describe your scope again.")
	if strings.Count(got, "What is included.") != 1 {
		t.Fatalf("expected a single rewrite of the first occurrence, got %q", got)
	}
	if !strings.Contains(got, "scope again") {
		t.Fatalf("second occurrence should pass through, got %q", got)
	}
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		in       string
		expected int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"we help small farmers", 4},
		{"  spaced \t out\nwords  ", 3},
	}

	for _, tt := range tests {
		if got := WordCount(tt.in); got != tt.expected {
			t.Errorf("WordCount(%q) = %d, want %d", tt.in, got, tt.expected)
		}
	}
}
