package models

// Profile holds what we know about the applicant. All fields are optional
// free text; the whole record is overwritten on every edit.
type Profile struct {
	BusinessName       string `json:"business_name"`
	Location           string `json:"location"`
	ProjectDescription string `json:"project_description"`
}

// Opportunity is a normalized funding source from an uploaded report.
// Index is the stable ordinal within the report and is the identity used
// by sections and answers. Records are immutable after ingestion;
// Difficulty is derived once at parse time.
type Opportunity struct {
	Index                 int      `json:"index"`
	SourceName            string   `json:"source_name"`
	ProviderName          string   `json:"provider_name"`
	ApplicationURL        string   `json:"application_url,omitempty"`
	SourceType            string   `json:"source_type"`
	MinAmount             *float64 `json:"min_amount,omitempty"`
	MaxAmount             *float64 `json:"max_amount,omitempty"`
	DeadlineType          string   `json:"deadline_type"`
	RequirementsText      string   `json:"requirements_text"`
	MatchScore            *float64 `json:"match_score,omitempty"`
	MatchReasons          []string `json:"match_reasons"`
	EligibilityGaps       []string `json:"eligibility_gaps"`
	CompetitiveAdvantages []string `json:"competitive_advantages"`
	Difficulty            string   `json:"difficulty"`
}

// Report is a parsed funding-finder report document.
type Report struct {
	ID            string        `json:"id"`
	Opportunities []Opportunity `json:"opportunities"`
}

// Section is one unit of the application derived from an opportunity's
// requirements text (or the default curriculum). Sections are recomputed
// on demand from the opportunity and current profile; only the user's
// answer text is ever persisted.
type Section struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	GrantSpeak  string `json:"grant_speak"`
	PlainSpeak  string `json:"plain_speak"`
	WhyAsking   string `json:"why_asking"`
	Template    string `json:"template"`
	WordMin     int    `json:"word_min"`
	WordMax     int    `json:"word_max"`
	GoodExample string `json:"good_example"`
	BadExample  string `json:"bad_example"`
	Position    int    `json:"position"`
	Total       int    `json:"total"`
}

// AnswerMap maps opportunity index -> section id -> answer text.
// Absence of a key means no answer yet. Keys are stable strings so the
// map survives JSON round-trips through the persistence store.
type AnswerMap map[string]map[string]string

// Difficulty classes in ascending order of effort.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)
