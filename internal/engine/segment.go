package engine

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/david/funding-applicator/internal/models"
)

// maxChunks caps how many sections a requirements text can produce.
const maxChunks = 6

const defaultWhyAsking = "They want to understand your project and whether you are a good fit. Answer in short, clear sentences."

const (
	genericGoodExample = "We help small farmers sell online. Our customers are in rural areas. We are different because we focus on local delivery. They choose us because we are affordable and reliable."
	genericBadExample  = "We leverage synergies and optimize deliverables to maximize stakeholder value."
)

// Segment splits requirements text into ordered application sections.
// Empty or unsplittable text falls back to the default curriculum, so the
// caller always gets at least one section. Identical inputs always yield
// identical sections.
func Segment(requirementsText string, opp models.Opportunity, profile models.Profile) []models.Section {
	text := strings.TrimSpace(requirementsText)
	if text == "" {
		return DefaultCurriculum(opp, profile)
	}

	units := splitUnits(text)
	chunkSize := (len(units) + maxChunks - 1) / maxChunks
	if chunkSize < 1 {
		chunkSize = 1
	}

	var sections []models.Section
	for i := 0; i < len(units); i += chunkSize {
		end := i + chunkSize
		if end > len(units) {
			end = len(units)
		}
		chunk := strings.TrimSpace(strings.Join(units[i:end], " "))
		if chunk == "" {
			continue
		}
		n := len(sections) + 1
		sections = append(sections, models.Section{
			ID:          "sec-" + strconv.Itoa(n),
			Title:       "Section " + strconv.Itoa(n),
			GrantSpeak:  chunk,
			PlainSpeak:  Simplify(chunk),
			WhyAsking:   defaultWhyAsking,
			Template:    BuildTemplate(chunk, profile, opp),
			WordMin:     100,
			WordMax:     500,
			GoodExample: genericGoodExample,
			BadExample:  genericBadExample,
		})
	}
	if len(sections) == 0 {
		return DefaultCurriculum(opp, profile)
	}

	for i := range sections {
		sections[i].Position = i
		sections[i].Total = len(sections)
	}
	return sections
}

// splitUnits breaks text into sentence-like units. A unit ends at a
// sentence terminator followed by whitespace, or at a line break.
// Known edge case: abbreviations like "U.S." split mid-sentence; the
// boundary rule is kept as-is pending product input.
func splitUnits(text string) []string {
	var units []string
	var cur strings.Builder
	flush := func() {
		if u := strings.TrimSpace(cur.String()); u != "" {
			units = append(units, u)
		}
		cur.Reset()
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c == '\n' || c == '\r' {
			flush()
			continue
		}
		cur.WriteRune(c)
		if (c == '.' || c == '!' || c == '?') && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			flush()
		}
	}
	flush()
	return units
}
