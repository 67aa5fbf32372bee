package mood

import "github.com/moodshelf/moodshelf-server/internal/domain"

// Mismatch is a detected tonal conflict and its score multiplier.
// A zero-value Mismatch (Penalty 1.0 via Multiplier) means no conflict.
type Mismatch struct {
	HasMismatch bool
	Penalty     float64
}

// Multiplier returns the score multiplier for the mismatch: the penalty
// when one was detected, otherwise 1.
func (m Mismatch) Multiplier() float64 {
	if m.HasMismatch {
		return m.Penalty
	}
	return 1
}

// DetectWeightMismatch detects a book whose inferred tone is the
// opposite of an explicit weight preference. Only strict directional
// choices engage: WeightAny and WeightBalanced never penalize.
func DetectWeightMismatch(genres []string, description string, w domain.Weight) Mismatch {
	switch w {
	case domain.WeightLight:
		if matchesAny(genres, description, weightKeywords[domain.WeightHeavy]) {
			return Mismatch{HasMismatch: true, Penalty: PenaltyHeavyForLight}
		}
	case domain.WeightHeavy:
		if matchesAny(genres, description, weightKeywords[domain.WeightLight]) {
			return Mismatch{HasMismatch: true, Penalty: PenaltyLightForHeavy}
		}
	}
	return Mismatch{}
}

// DetectPaceMismatch detects a book whose inferred pace is the opposite
// of an explicit pace preference. PaceAny and PaceSteady never penalize.
func DetectPaceMismatch(genres []string, description string, p domain.Pace) Mismatch {
	switch p {
	case domain.PaceSlow:
		if matchesAny(genres, description, paceKeywords[domain.PaceFast]) {
			return Mismatch{HasMismatch: true, Penalty: PenaltyFastForSlow}
		}
	case domain.PaceFast:
		if matchesAny(genres, description, paceKeywords[domain.PaceSlow]) {
			return Mismatch{HasMismatch: true, Penalty: PenaltySlowForFast}
		}
	}
	return Mismatch{}
}
