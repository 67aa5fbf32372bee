package recs

import (
	"strings"

	"github.com/moodshelf/moodshelf-server/internal/domain"
	"github.com/moodshelf/moodshelf-server/internal/normalize"
)

// Seed similarity weights. The total similarity boost is capped at
// MaxSeedBoost regardless of how many signals fire.
const (
	MaxSeedBoost    = 40.0
	seedAuthorBoost = 25.0
	seedSeriesBoost = 30.0
	seedGenreBoost  = 8.0
	seedTagBoost    = 5.0
)

// SeedData is the seed book's signal set, pre-computed once per scoring
// pass so each candidate comparison stays cheap.
type SeedData struct {
	ID     string
	Author string
	Series string
	Genres []string
	Tags   map[string]bool
}

// BuildSeed normalizes the seed book's author, series, genres, and tags.
func BuildSeed(item *domain.LibraryItem) *SeedData {
	tags := make(map[string]bool, len(item.Tags))
	for _, t := range normalize.Tags(item.Tags) {
		tags[t] = true
	}
	return &SeedData{
		ID:     item.ID,
		Author: normalize.Tag(item.AuthorName),
		Series: normalize.Tag(item.SeriesName),
		Genres: normalize.Tags(item.Genres),
		Tags:   tags,
	}
}

// Similarity scores how much a candidate resembles the seed book:
// same author +25, same series +30, +8 per shared genre and +5 per
// shared tag, with the genre and tag loops short-circuiting once the
// running total reaches the cap.
func (s *SeedData) Similarity(item *domain.LibraryItem) (float64, string) {
	var score float64
	var parts []string

	if s.Author != "" {
		author := normalize.Tag(item.AuthorName)
		if author != "" && (strings.Contains(author, s.Author) || strings.Contains(s.Author, author)) {
			score += seedAuthorBoost
			parts = append(parts, "same author")
		}
	}

	if s.Series != "" {
		series := normalize.Tag(item.SeriesName)
		if series != "" && (strings.Contains(series, s.Series) || strings.Contains(s.Series, series)) {
			score += seedSeriesBoost
			parts = append(parts, "same series")
		}
	}

	if len(s.Genres) > 0 {
		for _, g := range normalize.Tags(item.Genres) {
			if score >= MaxSeedBoost {
				break
			}
			for _, sg := range s.Genres {
				if g == sg {
					score += seedGenreBoost
					if len(parts) == 0 || parts[len(parts)-1] != "shared genres" {
						parts = append(parts, "shared genres")
					}
					break
				}
			}
		}
	}

	if len(s.Tags) > 0 {
		for _, t := range normalize.Tags(item.Tags) {
			if score >= MaxSeedBoost {
				break
			}
			if s.Tags[t] {
				score += seedTagBoost
				if len(parts) == 0 || parts[len(parts)-1] != "shared tags" {
					parts = append(parts, "shared tags")
				}
			}
		}
	}

	if score > MaxSeedBoost {
		score = MaxSeedBoost
	}

	return score, capitalizeReason(strings.Join(parts, ", "))
}

// capitalizeReason upper-cases the first letter of a joined reason
// string: "same author, same series" -> "Same author, same series".
func capitalizeReason(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
