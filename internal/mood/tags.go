package mood

import (
	"slices"

	"github.com/moodshelf/moodshelf-server/internal/domain"
	"github.com/moodshelf/moodshelf-server/internal/normalize"
)

// TagScore is the result of scoring a book's tag list against a session.
type TagScore struct {
	// Score is the summed tag score, capped at MaxTagScore.
	Score float64
	// MatchedTags lists the normalized tags that contributed, in input order.
	MatchedTags []string
	// IsPrimaryMoodMatch is set by a primary mood-table match, or by a
	// primary romance-trope match when nothing stronger fired.
	IsPrimaryMoodMatch bool
	// Breakdown splits the capped total's raw contributions per dimension.
	Breakdown domain.ScoreBreakdown
}

// ScoreTags scores every tag against the fixed lookup tables. Lookup is
// exact-match after normalization; substring matching is deliberately
// not used here - "war" must never fire inside "heartwarming".
func ScoreTags(tags []string, session *domain.MoodSession) TagScore {
	var result TagScore

	flavor := normalize.Tag(session.Flavor)

	for _, raw := range tags {
		tag := normalize.Tag(raw)
		if tag == "" {
			continue
		}
		matched := false

		if moods, ok := moodTags[tag]; ok && len(moods) > 0 {
			if moods[0] == session.Mood {
				result.Breakdown.Mood += tagMoodPrimary
				result.IsPrimaryMoodMatch = true
				matched = true
			} else if slices.Contains(moods[1:], session.Mood) {
				result.Breakdown.Mood += tagMoodSecondary
				matched = true
			}
		}

		if session.Pace != domain.PaceAny {
			if paces, ok := paceTags[tag]; ok && slices.Contains(paces, session.Pace) {
				result.Breakdown.Pace += tagPace
				matched = true
			}
		}

		if session.Weight != domain.WeightAny {
			if weights, ok := weightTags[tag]; ok && slices.Contains(weights, session.Weight) {
				result.Breakdown.Weight += tagWeight
				matched = true
			}
		}

		if session.World != domain.WorldAny {
			if worlds, ok := worldTags[tag]; ok && slices.Contains(worlds, session.World) {
				result.Breakdown.World += tagWorld
				matched = true
			}
		}

		if session.Length != domain.LengthAny {
			if lengths, ok := lengthTags[tag]; ok && slices.Contains(lengths, session.Length) {
				result.Breakdown.Length += tagLength
				matched = true
			}
		}

		if flavor != "" {
			if flavors, ok := tropeTags[tag]; ok && len(flavors) > 0 {
				if flavors[0] == flavor {
					result.Breakdown.Trope += tagTropePrimary
					// A primary trope match can carry the mood when no
					// mood tag has.
					result.IsPrimaryMoodMatch = true
					matched = true
				} else if slices.Contains(flavors[1:], flavor) {
					result.Breakdown.Trope += tagTropeSecondary
					matched = true
				}
			}
		}

		if matched {
			result.MatchedTags = append(result.MatchedTags, tag)
		}
	}

	result.Score = result.Breakdown.Mood + result.Breakdown.Pace +
		result.Breakdown.Weight + result.Breakdown.World +
		result.Breakdown.Length + result.Breakdown.Trope
	if result.Score > MaxTagScore {
		result.Score = MaxTagScore
	}

	return result
}
