package engine

import "github.com/david/funding-applicator/internal/models"

// Classify scores an opportunity's relative application effort from the
// length of its requirements text and its eligibility gap count.
// Rule order is load-bearing: easy is checked before hard so boundary
// tuning never changes which rule wins.
func Classify(requirementsText string, eligibilityGaps []string) string {
	length := len(requirementsText)
	gaps := len(eligibilityGaps)
	if length < 200 && gaps <= 1 {
		return models.DifficultyEasy
	}
	if length > 600 || gaps > 3 {
		return models.DifficultyHard
	}
	return models.DifficultyMedium
}
