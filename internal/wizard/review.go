package wizard

import (
	"strings"

	"github.com/david/funding-applicator/internal/engine"
)

// exportDelimiter separates section blocks in the flattened export
// document. External renderers consume the document unmodified, so the
// format is a contract: "<title>\n\n<answer>" blocks joined by this.
const exportDelimiter = "\n\n---\n\n"

// minutesPerSection feeds the "this usually takes about N minutes"
// estimate on the overview.
const minutesPerSection = 5

// Overview is the pre-start summary for the selected opportunity.
type Overview struct {
	SourceName       string `json:"source_name"`
	ProviderName     string `json:"provider_name"`
	AmountRange      string `json:"amount_range"`
	TotalSections    int    `json:"total_sections"`
	EstimatedMinutes int    `json:"estimated_minutes"`
	PercentComplete  int    `json:"percent_complete"`
}

// ReviewSection is one row of the review checklist.
type ReviewSection struct {
	Title     string `json:"title"`
	Answer    string `json:"answer"`
	WordCount int    `json:"word_count"`
	Complete  bool   `json:"complete"`
}

// Review collates every section's answer for the final check before
// submission.
type Review struct {
	SourceName     string          `json:"source_name"`
	Sections       []ReviewSection `json:"sections"`
	CompleteCount  int             `json:"complete_count"`
	Total          int             `json:"total"`
	TotalWords     int             `json:"total_words"`
	WordRangeMin   int             `json:"word_range_min"`
	WordRangeMax   int             `json:"word_range_max"`
	StillNeeded    []string        `json:"still_needed"`
	ApplicationURL string          `json:"application_url,omitempty"`
}

// Funders routinely ask for these outside the written application.
var attachmentReminders = []string{
	"Tax returns (upload to portal)",
	"Business license copy",
	"2 reference letters",
}

// Overview builds the pre-start summary. Returns false when no
// opportunity is selected.
func (c *Controller) Overview() (Overview, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.report == nil || c.state.Stage == StageIdle {
		return Overview{}, false
	}
	opp := c.report.Opportunities[c.state.OpportunityIndex]
	sections := c.sectionsLocked()

	filled := 0
	for _, sec := range sections {
		if strings.TrimSpace(c.answerLocked(sec.ID)) != "" {
			filled++
		}
	}
	percent := 0
	if len(sections) > 0 {
		percent = int(float64(filled)/float64(len(sections))*100 + 0.5)
	}

	return Overview{
		SourceName:       opp.SourceName,
		ProviderName:     opp.ProviderName,
		AmountRange:      engine.FormatAmountRange(opp),
		TotalSections:    len(sections),
		EstimatedMinutes: len(sections) * minutesPerSection,
		PercentComplete:  percent,
	}, true
}

// Review collates answers for the selected opportunity. Returns false
// when nothing is selected.
func (c *Controller) Review() (Review, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.report == nil || c.state.Stage == StageIdle {
		return Review{}, false
	}
	opp := c.report.Opportunities[c.state.OpportunityIndex]
	sections := c.sectionsLocked()

	r := Review{
		SourceName:     opp.SourceName,
		Total:          len(sections),
		WordRangeMin:   len(sections) * 100,
		WordRangeMax:   len(sections) * 500,
		StillNeeded:    attachmentReminders,
		ApplicationURL: opp.ApplicationURL,
	}
	for _, sec := range sections {
		answer := c.answerLocked(sec.ID)
		wc := engine.WordCount(answer)
		complete := strings.TrimSpace(answer) != ""
		if complete {
			r.CompleteCount++
		}
		r.TotalWords += wc
		r.Sections = append(r.Sections, ReviewSection{
			Title:     sec.Title,
			Answer:    answer,
			WordCount: wc,
			Complete:  complete,
		})
	}
	return r, true
}

// Export flattens the application into the plain-text document external
// renderers consume.
func (c *Controller) Export() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.report == nil || c.state.Stage == StageIdle {
		return "", false
	}
	var blocks []string
	for _, sec := range c.sectionsLocked() {
		blocks = append(blocks, sec.Title+"\n\n"+c.answerLocked(sec.ID))
	}
	return strings.Join(blocks, exportDelimiter), true
}
