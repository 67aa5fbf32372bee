package domain

import "time"

// Confidence tiers how much metadata backed a score.
type Confidence string

// Confidence levels.
const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Upgrade bumps the confidence one tier. Used when structured DNA
// backed the score.
func (c Confidence) Upgrade() Confidence {
	switch c {
	case ConfidenceLow:
		return ConfidenceMedium
	case ConfidenceMedium:
		return ConfidenceHigh
	}
	return c
}

// ScoreBreakdown carries per-dimension score contributions for
// transparency and for the match-percent computation.
type ScoreBreakdown struct {
	Mood   float64 `json:"mood"`
	Pace   float64 `json:"pace"`
	Weight float64 `json:"weight"`
	World  float64 `json:"world"`
	Length float64 `json:"length"`
	Theme  float64 `json:"theme"`
	Trope  float64 `json:"trope"`
}

// MoodScore is a book's raw score against a session, recomputed per
// scoring pass and never persisted standalone.
type MoodScore struct {
	Total              float64        `json:"total"`
	Breakdown          ScoreBreakdown `json:"breakdown"`
	IsPrimaryMoodMatch bool           `json:"is_primary_mood_match"`
}

// ScoredBook wraps a library item with its score against the active
// session. BoostedScore orders results and is never shown to the user.
type ScoredBook struct {
	Item            *LibraryItem `json:"item"`
	Score           MoodScore    `json:"score"`
	MatchPercent    int          `json:"match_percent"` // clamped to [0, 100]
	Confidence      Confidence   `json:"confidence"`
	PreferenceBoost float64      `json:"preference_boost"`
	SeedBoost       float64      `json:"seed_boost"`
	BoostedScore    float64      `json:"boosted_score"`
	MatchReasons    []string     `json:"match_reasons,omitempty"`
	UsedDNA         bool         `json:"used_dna"`
	HasDNA          bool         `json:"has_dna"`
}

// DNAStats reports structured-tag coverage across the candidate set the
// scoring loop visited, for client transparency about data quality.
type DNAStats struct {
	TotalWithDNA    int     `json:"total_with_dna"`
	TotalWithoutDNA int     `json:"total_without_dna"`
	DNAPercentage   float64 `json:"dna_percentage"`
}

// RecommendationResult is the full output of one scoring pass.
type RecommendationResult struct {
	Scored      []ScoredBook   `json:"scored"`
	Unscored    []*LibraryItem `json:"unscored,omitempty"`
	TotalCount  int            `json:"total_count"`
	DNAStats    DNAStats       `json:"dna_stats"`
	GeneratedAt time.Time      `json:"generated_at"`
}
