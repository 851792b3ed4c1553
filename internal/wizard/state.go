// Package wizard drives the resumable application flow for one chosen
// opportunity: Overview, then each section in order, then Review.
// Profile and answers are persisted through a key-value Store; the
// wizard position itself is transient and resets to Idle whenever the
// user returns to the opportunity list.
package wizard

import (
	"context"
	"errors"
)

// Store is the persistence collaborator. Get reports absence with a
// false second return; Set fully overwrites the value for its key.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Persisted record keys.
const (
	ProfileKey = "funding-applicator:profile"
	AnswersKey = "funding-applicator:answers"
)

// Stage is the wizard's position in the flow.
type Stage string

const (
	StageIdle     Stage = "idle"
	StageOverview Stage = "overview"
	StageSection  Stage = "section"
	StageReview   Stage = "review"
)

// State is the transient wizard position. OpportunityIndex is meaningful
// outside Idle; SectionPosition only in the Section stage.
type State struct {
	Stage            Stage `json:"stage"`
	OpportunityIndex int   `json:"opportunity_index"`
	SectionPosition  int   `json:"section_position"`
}

var (
	ErrNoReport          = errors.New("no report loaded")
	ErrBadIndex          = errors.New("opportunity index out of range")
	ErrUnknownSection    = errors.New("section not in current segmentation")
	ErrInvalidTransition = errors.New("transition not allowed from current stage")
)
