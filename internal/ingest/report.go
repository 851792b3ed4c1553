// Package ingest parses uploaded funding-finder report documents into
// normalized opportunity records.
package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/david/funding-applicator/internal/engine"
	"github.com/david/funding-applicator/internal/models"
)

var (
	// ErrUnreadableInput means the raw bytes are not parseable JSON at all.
	ErrUnreadableInput = errors.New("could not read the file: not a valid JSON report")
	// ErrInvalidReport means the JSON parsed but is not a funding-finder report.
	ErrInvalidReport = errors.New("not a funding finder report")
)

const reportType = "funding_finder"

type rawReport struct {
	ReportType    string          `json:"reportType"`
	Opportunities json.RawMessage `json:"opportunities"`
}

type rawOpportunity struct {
	SourceName            string   `json:"source_name"`
	ProviderName          string   `json:"provider_name"`
	ApplicationURL        string   `json:"application_url"`
	SourceType            string   `json:"source_type"`
	MinAmount             *float64 `json:"min_amount"`
	MaxAmount             *float64 `json:"max_amount"`
	DeadlineType          string   `json:"deadline_type"`
	RequirementsText      string   `json:"requirements_text"`
	MatchScore            *float64 `json:"match_score"`
	MatchReasons          []string `json:"match_reasons"`
	EligibilityGaps       []string `json:"eligibility_gaps"`
	CompetitiveAdvantages []string `json:"competitive_advantages"`
}

var stripPolicy = bluemonday.StrictPolicy()

// ParseReport validates and normalizes a report document. The two error
// cases are distinct so callers can tell a format problem from a content
// problem: ErrUnreadableInput for malformed JSON, ErrInvalidReport for a
// document that is not a funding-finder report. No partial state is
// returned on either.
func ParseReport(raw []byte) (*models.Report, error) {
	var doc rawReport
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableInput, err)
	}
	if doc.ReportType != reportType {
		return nil, ErrInvalidReport
	}

	var raws []rawOpportunity
	if err := json.Unmarshal(doc.Opportunities, &raws); err != nil {
		return nil, ErrInvalidReport
	}

	opps := make([]models.Opportunity, 0, len(raws))
	for i, r := range raws {
		opps = append(opps, normalize(r, i))
	}
	return &models.Report{Opportunities: opps}, nil
}

// normalize converts a raw entry into a canonical Opportunity, applying
// documented defaults and computing the difficulty class once.
func normalize(r rawOpportunity, index int) models.Opportunity {
	opp := models.Opportunity{
		Index:                 index,
		SourceName:            cleanName(r.SourceName),
		ProviderName:          cleanName(r.ProviderName),
		ApplicationURL:        strings.TrimSpace(r.ApplicationURL),
		SourceType:            strings.TrimSpace(r.SourceType),
		MinAmount:             r.MinAmount,
		MaxAmount:             r.MaxAmount,
		DeadlineType:          strings.TrimSpace(r.DeadlineType),
		RequirementsText:      cleanRequirements(r.RequirementsText),
		MatchScore:            r.MatchScore,
		MatchReasons:          emptyIfNil(r.MatchReasons),
		EligibilityGaps:       emptyIfNil(r.EligibilityGaps),
		CompetitiveAdvantages: emptyIfNil(r.CompetitiveAdvantages),
	}

	if opp.SourceName == "" {
		opp.SourceName = fmt.Sprintf("Opportunity %d", index+1)
	}
	if opp.SourceType == "" {
		opp.SourceType = "grant"
	}
	if opp.DeadlineType == "" {
		opp.DeadlineType = "rolling"
	}
	opp.Difficulty = engine.Classify(opp.RequirementsText, opp.EligibilityGaps)
	return opp
}

// cleanRequirements reduces markup-bearing requirement text to plain
// text and collapses whitespace per line, preserving line breaks because
// segmentation treats them as unit boundaries.
func cleanRequirements(text string) string {
	if strings.Contains(text, "<") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(text)); err == nil {
			text = doc.Text()
		}
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// cleanName strips any markup from a display name.
func cleanName(s string) string {
	s = stripPolicy.Sanitize(s)
	return strings.TrimSpace(html.UnescapeString(s))
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Sort orders for the opportunity list view.
const (
	SortEasiest  = "easiest"
	SortAmount   = "amount"
	SortDeadline = "deadline"
)

// SortOpportunities returns a sorted copy; the report's own ordering is
// never mutated because index is the stable identity.
func SortOpportunities(list []models.Opportunity, sortBy string) []models.Opportunity {
	out := make([]models.Opportunity, len(list))
	copy(out, list)

	switch sortBy {
	case SortAmount:
		sort.SliceStable(out, func(i, j int) bool {
			return upperBound(out[i]) > upperBound(out[j])
		})
	case SortDeadline:
		// Dated deadlines ahead of rolling ones.
		sort.SliceStable(out, func(i, j int) bool {
			return !isRolling(out[i]) && isRolling(out[j])
		})
	default:
		order := map[string]int{
			models.DifficultyEasy:   0,
			models.DifficultyMedium: 1,
			models.DifficultyHard:   2,
		}
		rank := func(o models.Opportunity) int {
			if r, ok := order[o.Difficulty]; ok {
				return r
			}
			return 1
		}
		sort.SliceStable(out, func(i, j int) bool {
			return rank(out[i]) < rank(out[j])
		})
	}
	return out
}

func upperBound(o models.Opportunity) float64 {
	if o.MaxAmount != nil {
		return *o.MaxAmount
	}
	if o.MinAmount != nil {
		return *o.MinAmount
	}
	return 0
}

func isRolling(o models.Opportunity) bool {
	return strings.EqualFold(o.DeadlineType, "rolling")
}
