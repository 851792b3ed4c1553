package engine

import (
	"reflect"
	"strings"
	"testing"

	"github.com/david/funding-applicator/internal/models"
)

func testOpportunity() models.Opportunity {
	min := 10000.0
	max := 25000.0
	return models.Opportunity{
		Index:      0,
		SourceName: "Rural Business Fund",
		MinAmount:  &min,
		MaxAmount:  &max,
	}
}

func TestSegmentEmptyTextUsesDefaultCurriculum(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t  \n"} {
		sections := Segment(text, testOpportunity(), models.Profile{})
		if len(sections) != 8 {
			t.Fatalf("Segment(%q) returned %d sections, want the 8-section curriculum", text, len(sections))
		}
		if sections[0].Title != "Business Description" {
			t.Errorf("first curriculum section is %q", sections[0].Title)
		}
		if sections[7].Title != "Summary" {
			t.Errorf("last curriculum section is %q", sections[7].Title)
		}
	}
}

func TestSegmentCurriculumSubstitutesProfileAndAmount(t *testing.T) {
	profile := models.Profile{BusinessName: "Maria's Bakery"}
	sections := Segment("", testOpportunity(), profile)

	summary := sections[7]
	if !strings.Contains(summary.Template, "Maria's Bakery") {
		t.Errorf("summary template missing business name: %q", summary.Template)
	}
	if !strings.Contains(summary.Template, "$10,000 – $25,000") {
		t.Errorf("summary template missing amount range: %q", summary.Template)
	}
}

func TestSegmentCurriculumPlaceholdersWhenProfileEmpty(t *testing.T) {
	sections := Segment("", models.Opportunity{}, models.Profile{})
	if !strings.Contains(sections[0].Template, "[Your Business Name]") {
		t.Errorf("expected business name placeholder, got %q", sections[0].Template)
	}
	if !strings.Contains(sections[7].Template, "[amount]") {
		t.Errorf("expected amount placeholder, got %q", sections[7].Template)
	}
}

func TestSegmentChunkCounts(t *testing.T) {
	tests := []struct {
		name     string
		units    int
		expected int
	}{
		{"single sentence", 1, 1},
		{"four sentences", 4, 4},
		{"six sentences", 6, 6},
		{"seven sentences", 7, 4},
		{"twelve sentences", 12, 6},
		{"forty sentences", 40, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b strings.Builder
			for i := 0; i < tt.units; i++ {
				b.WriteString("This is a requirement. ")
			}
			sections := Segment(b.String(), testOpportunity(), models.Profile{})
			if len(sections) != tt.expected {
				t.Fatalf("%d units produced %d sections, want %d", tt.units, len(sections), tt.expected)
			}
		})
	}
}

func TestSegmentBounds(t *testing.T) {
	inputs := []string{
		"",
		"One short requirement.",
		"No terminator at all",
		strings.Repeat("Sentence here. ", 100),
		"Line one\nLine two\nLine three",
	}

	for _, in := range inputs {
		sections := Segment(in, testOpportunity(), models.Profile{})
		if len(sections) < 1 || len(sections) > 8 {
			t.Fatalf("Segment(%q) returned %d sections, want 1..8", in, len(sections))
		}
		for _, sec := range sections {
			if sec.ID == "" || sec.Title == "" || sec.Template == "" {
				t.Fatalf("section missing id/title/template: %+v", sec)
			}
		}
	}
}

func TestSegmentPreservesOrderAndPositions(t *testing.T) {
	text := "First requirement. Second requirement. Third requirement."
	sections := Segment(text, testOpportunity(), models.Profile{})
	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(sections))
	}
	for i, sec := range sections {
		if sec.Position != i {
			t.Errorf("section %d has position %d", i, sec.Position)
		}
		if sec.Total != 3 {
			t.Errorf("section %d has total %d, want 3", i, sec.Total)
		}
	}
	if !strings.Contains(sections[0].GrantSpeak, "First") {
		t.Errorf("chunk order lost: %q", sections[0].GrantSpeak)
	}
	if !strings.Contains(sections[2].GrantSpeak, "Third") {
		t.Errorf("chunk order lost: %q", sections[2].GrantSpeak)
	}
}

func TestSegmentGrantSpeakIsVerbatimAndPlainSpeakSimplified(t *testing.T) {
	text := "Please articulate your plan."
	sections := Segment(text, testOpportunity(), models.Profile{})
	if sections[0].GrantSpeak != text {
		t.Errorf("grant speak altered: %q", sections[0].GrantSpeak)
	}
	if !strings.Contains(sections[0].PlainSpeak, "Explain clearly in words.") {
		t.Errorf("plain speak not simplified: %q", sections[0].PlainSpeak)
	}
}

func TestSegmentSplitsOnNewlines(t *testing.T) {
	text := "Bullet one\nBullet two\nBullet three\nBullet four"
	sections := Segment(text, testOpportunity(), models.Profile{})
	if len(sections) != 4 {
		t.Fatalf("expected 4 sections from newline-separated units, got %d", len(sections))
	}
}

func TestSegmentIsDeterministic(t *testing.T) {
	text := strings.Repeat("We require a detailed sustainability plan. ", 9)
	opp := testOpportunity()
	profile := models.Profile{BusinessName: "Acme"}

	first := Segment(text, opp, profile)
	second := Segment(text, opp, profile)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical inputs produced different sections")
	}
}
