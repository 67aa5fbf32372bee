package mood

import (
	"strings"

	"github.com/moodshelf/moodshelf-server/internal/domain"
	"github.com/moodshelf/moodshelf-server/internal/normalize"
)

// Genre/keyword inference: the fallback signal source when structured
// DNA and tag matches are absent or weak. Genre matching is a
// bidirectional substring check (genre contains keyword OR keyword
// contains genre); description matching is plain substring containment.

// MatchesMood reports whether the genres or description signal the mood.
func MatchesMood(genres []string, description string, m domain.Mood) bool {
	return matchesAny(genres, description, moodKeywords[m])
}

// MatchesPace reports whether the genres or description signal the pace.
// PaceAny and PaceSteady never match.
func MatchesPace(genres []string, description string, p domain.Pace) bool {
	return matchesAny(genres, description, paceKeywords[p])
}

// MatchesWeight reports whether the genres or description signal the weight.
func MatchesWeight(genres []string, description string, w domain.Weight) bool {
	return matchesAny(genres, description, weightKeywords[w])
}

// MatchesWorld reports whether the genres or description signal the world.
func MatchesWorld(genres []string, description string, w domain.World) bool {
	return matchesAny(genres, description, worldKeywords[w])
}

// IsChildrens reports whether the genres flag juvenile material.
func IsChildrens(genres []string) bool {
	return matchesAny(genres, "", childrensKeywords)
}

// LengthScore awards GenreLength for a duration inside the requested
// band and half credit for a near miss within LengthNearMissHours of
// either bound. LengthAny always scores zero.
func LengthScore(hours float64, l domain.Length) float64 {
	minH, maxH, ok := l.HourBounds()
	if !ok || hours <= 0 {
		return 0
	}
	if hours >= minH && hours <= maxH {
		return GenreLength
	}
	if hours >= minH-LengthNearMissHours && hours <= maxH+LengthNearMissHours {
		return GenreLength / 2
	}
	return 0
}

// matchesAny checks every keyword against the normalized genres
// (bidirectional containment) and the normalized description.
// Containment is word-boundary based: the keyword "war" must not fire
// inside the genre "Heartwarming".
func matchesAny(genres []string, description string, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}

	normGenres := normalize.Tags(genres)
	normDesc := normalize.Tag(description)

	for _, kw := range keywords {
		for _, g := range normGenres {
			if containsTokens(g, kw) || containsTokens(kw, g) {
				return true
			}
		}
		if normDesc != "" && containsTokens(normDesc, kw) {
			return true
		}
	}
	return false
}

// containsTokens reports whether needle's space-separated token sequence
// appears contiguously in haystack's tokens. Both inputs must already be
// normalized.
func containsTokens(haystack, needle string) bool {
	if haystack == needle {
		return true
	}
	hay := strings.Fields(haystack)
	want := strings.Fields(needle)
	if len(want) == 0 || len(want) > len(hay) {
		return false
	}
	for i := 0; i+len(want) <= len(hay); i++ {
		match := true
		for j, w := range want {
			if hay[i+j] != w {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
