package engine

import (
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/david/funding-applicator/internal/models"
)

type curriculumSection struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	GrantSpeak  string `yaml:"grant_speak"`
	PlainSpeak  string `yaml:"plain_speak"`
	WhyAsking   string `yaml:"why_asking"`
	Template    string `yaml:"template"`
	WordMin     int    `yaml:"word_min"`
	WordMax     int    `yaml:"word_max"`
	GoodExample string `yaml:"good_example"`
	BadExample  string `yaml:"bad_example"`
}

type curriculumFile struct {
	Sections []curriculumSection `yaml:"sections"`
}

var (
	curriculumOnce sync.Once
	curriculumErr  error
	curriculum     []curriculumSection
)

func loadCurriculum() error {
	curriculumOnce.Do(func() {
		data, err := configFS.ReadFile("config/curriculum.yaml")
		if err != nil {
			curriculumErr = fmt.Errorf("failed to read embedded curriculum: %w", err)
			return
		}
		var f curriculumFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			curriculumErr = fmt.Errorf("failed to parse curriculum: %w", err)
			return
		}
		curriculum = f.Sections
	})
	return curriculumErr
}

// DefaultCurriculum returns the hand-authored eight-section application
// flow, with the business name and funding range substituted into each
// template.
func DefaultCurriculum(opp models.Opportunity, profile models.Profile) []models.Section {
	if err := loadCurriculum(); err != nil {
		return nil
	}

	biz := businessName(profile)
	amount := FormatAmountRange(opp)
	replacer := strings.NewReplacer("{business}", biz, "{amount}", amount)

	sections := make([]models.Section, 0, len(curriculum))
	for i, cs := range curriculum {
		sections = append(sections, models.Section{
			ID:          cs.ID,
			Title:       cs.Title,
			GrantSpeak:  cs.GrantSpeak,
			PlainSpeak:  cs.PlainSpeak,
			WhyAsking:   cs.WhyAsking,
			Template:    replacer.Replace(cs.Template),
			WordMin:     cs.WordMin,
			WordMax:     cs.WordMax,
			GoodExample: cs.GoodExample,
			BadExample:  cs.BadExample,
			Position:    i,
			Total:       len(curriculum),
		})
	}
	return sections
}
