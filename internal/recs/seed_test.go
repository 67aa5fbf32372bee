package recs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/moodshelf/moodshelf-server/internal/domain"
)

func seedBook() *domain.LibraryItem {
	return &domain.LibraryItem{
		ID:         "seed",
		MediaType:  domain.MediaTypeBook,
		AuthorName: "Jane Doe",
		SeriesName: "Saga",
		Genres:     []string{"Fantasy", "Adventure"},
		Tags:       []string{"found-family", "quest", "cozy"},
	}
}

func TestSeedSimilarity_SameAuthorOnly(t *testing.T) {
	seed := BuildSeed(seedBook())
	candidate := &domain.LibraryItem{
		ID:         "c1",
		AuthorName: "Jane Doe",
	}

	score, reason := seed.Similarity(candidate)
	assert.Equal(t, 25.0, score)
	assert.Equal(t, "Same author", reason)
}

func TestSeedSimilarity_AuthorAndSeries(t *testing.T) {
	seed := BuildSeed(seedBook())
	candidate := &domain.LibraryItem{
		ID:         "c1",
		AuthorName: "Jane Doe",
		SeriesName: "Saga",
	}

	score, reason := seed.Similarity(candidate)
	assert.Equal(t, 40.0, score) // 25 + 30, capped at 40
	assert.Equal(t, "Same author, same series", reason)
}

func TestSeedSimilarity_GenreAndTagOverlap(t *testing.T) {
	seed := BuildSeed(seedBook())
	candidate := &domain.LibraryItem{
		ID:     "c1",
		Genres: []string{"Fantasy"},
		Tags:   []string{"Found Family"},
	}

	score, reason := seed.Similarity(candidate)
	assert.Equal(t, 13.0, score) // 8 + 5
	assert.Equal(t, "Shared genres, shared tags", reason)
}

func TestSeedSimilarity_CapAt40(t *testing.T) {
	seed := BuildSeed(&domain.LibraryItem{
		ID:     "seed",
		Genres: []string{"a", "b", "c", "d", "e", "f", "g"},
	})
	candidate := &domain.LibraryItem{
		ID:     "c1",
		Genres: []string{"a", "b", "c", "d", "e", "f", "g"},
	}

	score, _ := seed.Similarity(candidate)
	assert.Equal(t, MaxSeedBoost, score)
}

func TestSeedSimilarity_NoOverlap(t *testing.T) {
	seed := BuildSeed(seedBook())
	candidate := &domain.LibraryItem{
		ID:         "c1",
		AuthorName: "Someone Else",
		Genres:     []string{"True Crime"},
	}

	score, reason := seed.Similarity(candidate)
	assert.Zero(t, score)
	assert.Empty(t, reason)
}

func TestSeedSimilarity_AuthorSubstringMatch(t *testing.T) {
	seed := BuildSeed(&domain.LibraryItem{ID: "seed", AuthorName: "Jane Doe"})
	candidate := &domain.LibraryItem{ID: "c1", AuthorName: "Jane Doe, John Smith"}

	score, _ := seed.Similarity(candidate)
	assert.Equal(t, 25.0, score)
}
