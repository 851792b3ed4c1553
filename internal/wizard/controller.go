package wizard

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/david/funding-applicator/internal/engine"
	"github.com/david/funding-applicator/internal/models"
)

// Controller owns the session's mutable state: profile, answers, and the
// wizard position. All reads and writes of those go through it. A store
// failure never fails the flow; the in-memory state stays authoritative
// for the session.
type Controller struct {
	mu      sync.Mutex
	store   Store
	report  *models.Report
	profile models.Profile
	answers models.AnswerMap
	state   State
}

// NewController builds a session, loading the persisted profile and
// answers. Read failures fall back to empty defaults.
func NewController(ctx context.Context, store Store) *Controller {
	c := &Controller{
		store:   store,
		answers: models.AnswerMap{},
		state:   State{Stage: StageIdle},
	}

	if raw, ok, err := store.Get(ctx, ProfileKey); err != nil {
		log.Printf("profile read failed, starting empty: %v", err)
	} else if ok {
		if err := json.Unmarshal([]byte(raw), &c.profile); err != nil {
			log.Printf("profile record unreadable, starting empty: %v", err)
		}
	}

	if raw, ok, err := store.Get(ctx, AnswersKey); err != nil {
		log.Printf("answers read failed, starting empty: %v", err)
	} else if ok {
		var answers models.AnswerMap
		if err := json.Unmarshal([]byte(raw), &answers); err != nil {
			log.Printf("answers record unreadable, starting empty: %v", err)
		} else if answers != nil {
			c.answers = answers
		}
	}

	return c
}

// LoadReport adopts a freshly ingested report and returns the wizard to
// the opportunity list. Saved answers are keyed by opportunity index, so
// they apply to whichever report is current.
func (c *Controller) LoadReport(report *models.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.report = report
	c.state = State{Stage: StageIdle}
}

func (c *Controller) Report() *models.Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.report
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Profile() models.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profile
}

// SetProfile overwrites the whole profile and persists it.
func (c *Controller) SetProfile(ctx context.Context, p models.Profile) {
	c.mu.Lock()
	c.profile = p
	c.mu.Unlock()
	c.persist(ctx, ProfileKey, p)
}

// Select transitions Idle -> Overview for the given opportunity.
func (c *Controller) Select(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.report == nil {
		return ErrNoReport
	}
	if index < 0 || index >= len(c.report.Opportunities) {
		return ErrBadIndex
	}
	c.state = State{Stage: StageOverview, OpportunityIndex: index}
	return nil
}

// Start transitions Overview -> Section(0), or straight to Review when
// the segmentation is empty.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Stage != StageOverview {
		return ErrInvalidTransition
	}
	if len(c.sectionsLocked()) == 0 {
		c.state.Stage = StageReview
		return nil
	}
	c.state.Stage = StageSection
	c.state.SectionPosition = 0
	return nil
}

// Next advances Section(i) -> Section(i+1), or to Review from the last
// section. The in-progress answer (nil means unchanged) is flushed to
// the store before the transition so resuming never loses typed text.
func (c *Controller) Next(ctx context.Context, answer *string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Stage != StageSection {
		return ErrInvalidTransition
	}
	c.flushLocked(ctx, answer)
	if c.state.SectionPosition+1 < len(c.sectionsLocked()) {
		c.state.SectionPosition++
	} else {
		c.state.Stage = StageReview
		c.state.SectionPosition = 0
	}
	return nil
}

// Previous steps Section(i) -> Section(i-1), or back to Overview from
// the first section. Flushes first, like Next.
func (c *Controller) Previous(ctx context.Context, answer *string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Stage != StageSection {
		return ErrInvalidTransition
	}
	c.flushLocked(ctx, answer)
	if c.state.SectionPosition > 0 {
		c.state.SectionPosition--
	} else {
		c.state.Stage = StageOverview
		c.state.SectionPosition = 0
	}
	return nil
}

// Pause ("take a break") returns to the opportunity list from any
// section, flushing the in-progress answer first.
func (c *Controller) Pause(ctx context.Context, answer *string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Stage != StageSection {
		return ErrInvalidTransition
	}
	c.flushLocked(ctx, answer)
	c.state = State{Stage: StageIdle}
	return nil
}

// ReviewBack returns Review -> Section(total-1).
func (c *Controller) ReviewBack() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Stage != StageReview {
		return ErrInvalidTransition
	}
	total := len(c.sectionsLocked())
	if total == 0 {
		c.state = State{Stage: StageOverview, OpportunityIndex: c.state.OpportunityIndex}
		return nil
	}
	c.state.Stage = StageSection
	c.state.SectionPosition = total - 1
	return nil
}

// NewSelection leaves Review for the opportunity list.
func (c *Controller) NewSelection() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Stage != StageReview {
		return ErrInvalidTransition
	}
	c.state = State{Stage: StageIdle}
	return nil
}

// Sections recomputes the section sequence for the selected opportunity
// from the current profile. Nil when nothing is selected.
func (c *Controller) Sections() []models.Section {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sectionsLocked()
}

func (c *Controller) sectionsLocked() []models.Section {
	if c.report == nil || c.state.Stage == StageIdle {
		return nil
	}
	opp := c.report.Opportunities[c.state.OpportunityIndex]
	return engine.Segment(opp.RequirementsText, opp, c.profile)
}

// CurrentSection returns the section at the wizard position.
func (c *Controller) CurrentSection() (models.Section, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Stage != StageSection {
		return models.Section{}, false
	}
	sections := c.sectionsLocked()
	if c.state.SectionPosition >= len(sections) {
		return models.Section{}, false
	}
	return sections[c.state.SectionPosition], true
}

// Answer returns the persisted answer for a section of the selected
// opportunity. Unset answers read as empty string.
func (c *Controller) Answer(sectionID string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.answerLocked(sectionID)
}

func (c *Controller) answerLocked(sectionID string) string {
	byOpp, ok := c.answers[strconv.Itoa(c.state.OpportunityIndex)]
	if !ok {
		return ""
	}
	return byOpp[sectionID]
}

// SetAnswer records an answer for a section of the selected opportunity
// and persists the whole answer map. The section must exist in the
// current segmentation.
func (c *Controller) SetAnswer(ctx context.Context, sectionID, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Stage == StageIdle {
		return ErrInvalidTransition
	}
	found := false
	for _, sec := range c.sectionsLocked() {
		if sec.ID == sectionID {
			found = true
			break
		}
	}
	if !found {
		return ErrUnknownSection
	}
	c.setAnswerLocked(sectionID, text)
	c.persist(ctx, AnswersKey, c.answers)
	return nil
}

func (c *Controller) setAnswerLocked(sectionID, text string) {
	key := strconv.Itoa(c.state.OpportunityIndex)
	if c.answers[key] == nil {
		c.answers[key] = map[string]string{}
	}
	c.answers[key][sectionID] = text
}

// flushLocked saves the current section's in-progress answer, then
// writes the answer map through the store. Called before every
// transition out of a Section state.
func (c *Controller) flushLocked(ctx context.Context, answer *string) {
	sections := c.sectionsLocked()
	if answer != nil && c.state.SectionPosition < len(sections) {
		c.setAnswerLocked(sections[c.state.SectionPosition].ID, *answer)
	}
	c.persist(ctx, AnswersKey, c.answers)
}

// persist writes a record as JSON. Failures are logged and swallowed so
// a broken store degrades the session instead of crashing it.
func (c *Controller) persist(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("failed to encode %s: %v", key, err)
		return
	}
	if err := c.store.Set(ctx, key, string(data)); err != nil {
		log.Printf("failed to persist %s: %v", key, err)
	}
}

// Progress reports how many sections have a non-empty trimmed answer.
// Recomputed on every call, never cached.
func (c *Controller) Progress() (filled, total, percent int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sections := c.sectionsLocked()
	total = len(sections)
	for _, sec := range sections {
		if strings.TrimSpace(c.answerLocked(sec.ID)) != "" {
			filled++
		}
	}
	if total > 0 {
		percent = int(float64(filled)/float64(total)*100 + 0.5)
	}
	return filled, total, percent
}
