package recs

import (
	"strconv"
	"strings"

	"github.com/moodshelf/moodshelf-server/internal/domain"
)

// Fingerprint derives a deterministic cache key from every session
// field that affects scoring, plus CreatedAt so two sessions with
// identical preferences committed at different times stay distinct.
// The session ID is deliberately excluded: it carries no scoring signal.
func Fingerprint(s *domain.MoodSession) string {
	var b strings.Builder
	b.WriteString(string(s.Mood))
	b.WriteByte('|')
	b.WriteString(string(s.Pace))
	b.WriteByte('|')
	b.WriteString(string(s.Weight))
	b.WriteByte('|')
	b.WriteString(string(s.World))
	b.WriteByte('|')
	b.WriteString(string(s.Length))
	b.WriteByte('|')
	b.WriteString(s.Flavor)
	b.WriteByte('|')
	b.WriteString(s.SeedBookID)
	b.WriteByte('|')
	b.WriteString(strconv.FormatBool(s.ExcludeChildrens))
	b.WriteByte('|')
	b.WriteString(strconv.FormatInt(s.CreatedAt.UnixMilli(), 10))
	return b.String()
}
