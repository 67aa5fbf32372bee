package recs

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodshelf/moodshelf-server/internal/domain"
)

type fakeHistory struct {
	finished map[string]bool
	started  map[string]bool
	boosts   map[string]float64
	history  bool
}

func (h *fakeHistory) IsFinished(id string) bool     { return h.finished[id] }
func (h *fakeHistory) HasBeenStarted(id string) bool { return h.started[id] }
func (h *fakeHistory) HasHistory() bool              { return h.history }
func (h *fakeHistory) PreferenceBoost(item *domain.LibraryItem) float64 {
	return h.boosts[item.ID]
}

func emptyHistory() *fakeHistory {
	return &fakeHistory{
		finished: map[string]bool{},
		started:  map[string]bool{},
		boosts:   map[string]float64{},
	}
}

func newScorer() *Scorer {
	return NewScorer(slog.New(slog.DiscardHandler))
}

func session(m domain.Mood) *domain.MoodSession {
	return domain.NewMoodSession("ms-test", m, time.Now())
}

func book(id string, genres []string, tags []string) *domain.LibraryItem {
	return &domain.LibraryItem{
		ID:        id,
		MediaType: domain.MediaTypeBook,
		Title:     "Book " + id,
		Genres:    genres,
		Tags:      tags,
		Duration:  10 * 3600,
	}
}

func looseOptions() Options {
	opts := DefaultOptions()
	opts.MinMatchPercent = 0
	return opts
}

func TestRun_ScenarioA_GenreBeatsIrrelevantDNA(t *testing.T) {
	// Session {mood: comfort, everything else any}. A thrills-scored
	// DNA book has no comfort signal; a cozy romance scores a primary
	// mood match via genre inference.
	items := []*domain.LibraryItem{
		book("thrills", nil, []string{"dna:mood:thrills:9"}),
		book("cozy", []string{"Romance"}, []string{"cozy", "found-family"}),
	}

	result := newScorer().Run(items, session(domain.MoodComfort), emptyHistory(), DefaultOptions())

	require.Len(t, result.Scored, 1)
	top := result.Scored[0]
	assert.Equal(t, "cozy", top.Item.ID)
	assert.True(t, top.Score.IsPrimaryMoodMatch)
	assert.False(t, top.UsedDNA)

	// The thrills book earns nothing for comfort and falls below the
	// default threshold.
	require.Len(t, result.Unscored, 1)
	assert.Equal(t, "thrills", result.Unscored[0].ID)
}

func TestRun_ScenarioB_SeedAuthorBoost(t *testing.T) {
	seed := book("x", []string{"Mystery"}, nil)
	seed.AuthorName = "Jane Doe"
	seed.SeriesName = "Saga"
	candidate := book("y", []string{"Thriller"}, nil)
	candidate.AuthorName = "Jane Doe"

	sess := session(domain.MoodThrills)
	sess.SeedBookID = "x"

	result := newScorer().Run([]*domain.LibraryItem{seed, candidate}, sess, emptyHistory(), looseOptions())

	require.Len(t, result.Scored, 1)
	got := result.Scored[0]
	assert.Equal(t, "y", got.Item.ID)
	assert.Equal(t, 25.0, got.SeedBoost)
	assert.Contains(t, got.MatchReasons, "Same author")
}

func TestRun_SeedBookNeverRecommended(t *testing.T) {
	seed := book("x", []string{"Thriller"}, nil)
	sess := session(domain.MoodThrills)
	sess.SeedBookID = "x"

	result := newScorer().Run([]*domain.LibraryItem{seed}, sess, emptyHistory(), looseOptions())

	assert.Empty(t, result.Scored)
	assert.Empty(t, result.Unscored)
}

func TestRun_Deterministic(t *testing.T) {
	items := []*domain.LibraryItem{
		book("a", []string{"Romance"}, []string{"cozy"}),
		book("b", []string{"Cozy Mystery"}, []string{"heartwarming", "dna:mood:comfort:8"}),
		book("c", []string{"Fantasy"}, []string{"found family"}),
	}
	sess := session(domain.MoodComfort)
	h := emptyHistory()

	first := newScorer().Run(items, sess, h, looseOptions())
	second := newScorer().Run(items, sess, h, looseOptions())

	require.Equal(t, len(first.Scored), len(second.Scored))
	for i := range first.Scored {
		assert.Equal(t, first.Scored[i].Item.ID, second.Scored[i].Item.ID)
		assert.Equal(t, first.Scored[i].MatchPercent, second.Scored[i].MatchPercent)
	}
}

func TestRun_PercentBounds(t *testing.T) {
	items := []*domain.LibraryItem{
		book("a", []string{"Romance", "Cozy Mystery", "Feel Good"}, []string{
			"cozy", "heartwarming", "found family", "wholesome", "sweet",
			"dna:mood:comfort:10", "dna:spectrum:darkness:-8",
		}),
		book("b", nil, []string{"grimdark"}),
	}
	sess := session(domain.MoodComfort)
	sess.Weight = domain.WeightLight

	result := newScorer().Run(items, sess, emptyHistory(), looseOptions())

	for _, sb := range result.Scored {
		assert.GreaterOrEqual(t, sb.MatchPercent, 0)
		assert.LessOrEqual(t, sb.MatchPercent, 100)
	}
}

func TestRun_DNAPreferredSortContract(t *testing.T) {
	// A weak DNA book must still sort ahead of a strong non-DNA book in
	// dna-preferred mode.
	items := []*domain.LibraryItem{
		book("plain", []string{"Romance", "Feel Good"}, []string{"cozy", "heartwarming", "found family"}),
		book("dna", []string{"Fiction"}, []string{"dna:mood:comfort:6", "dna:pacing:fast"}),
	}

	result := newScorer().Run(items, session(domain.MoodComfort), emptyHistory(), looseOptions())

	require.Len(t, result.Scored, 2)
	assert.Equal(t, "dna", result.Scored[0].Item.ID)
	assert.Equal(t, "plain", result.Scored[1].Item.ID)
	// And the plain book genuinely outscored it.
	assert.Greater(t, result.Scored[1].BoostedScore, result.Scored[0].BoostedScore)
}

func TestRun_DNAOffSortsByScoreAlone(t *testing.T) {
	items := []*domain.LibraryItem{
		book("plain", []string{"Romance", "Feel Good"}, []string{"cozy", "heartwarming", "found family"}),
		book("dna", []string{"Fiction"}, []string{"dna:mood:comfort:6", "dna:pacing:fast"}),
	}
	opts := looseOptions()
	opts.DNAFilterMode = DNAFilterOff

	result := newScorer().Run(items, session(domain.MoodComfort), emptyHistory(), opts)

	require.Len(t, result.Scored, 2)
	assert.Equal(t, "plain", result.Scored[0].Item.ID)
}

func TestRun_DNAPrecedenceOverGenre(t *testing.T) {
	// Genres alone would score comfort via inference (40). With strong
	// DNA mood scores present the mood contribution must come from the
	// DNA path instead.
	item := book("a", []string{"Cozy Mystery"}, []string{"dna:mood:comfort:9"})

	result := newScorer().Run([]*domain.LibraryItem{item}, session(domain.MoodComfort), emptyHistory(), looseOptions())

	require.Len(t, result.Scored, 1)
	got := result.Scored[0]
	assert.True(t, got.UsedDNA)
	assert.True(t, got.Score.IsPrimaryMoodMatch)
	// 50 * 0.9 = 45: the DNA value, not the genre inference weight.
	assert.InDelta(t, 45.0, got.Score.Breakdown.Mood, 1e-9)
}

func TestRun_WeakDNASupplementedByGenre(t *testing.T) {
	item := book("a", []string{"Cozy Mystery"}, []string{"dna:mood:comfort:3"})

	result := newScorer().Run([]*domain.LibraryItem{item}, session(domain.MoodComfort), emptyHistory(), looseOptions())

	require.Len(t, result.Scored, 1)
	got := result.Scored[0]
	assert.True(t, got.UsedDNA)
	// 50*0.3 + secondary genre supplement 20.
	assert.InDelta(t, 35.0, got.Score.Breakdown.Mood, 1e-9)
	assert.False(t, got.Score.IsPrimaryMoodMatch)
}

func TestRun_MismatchPenaltyAsymmetry(t *testing.T) {
	heavyBook := book("a", []string{"Grimdark Fantasy"}, []string{"dna:mood:comfort:8"})

	lightSession := session(domain.MoodComfort)
	lightSession.Weight = domain.WeightLight
	anySession := session(domain.MoodComfort)

	scorer := newScorer()
	withPenalty := scorer.Run([]*domain.LibraryItem{heavyBook}, lightSession, emptyHistory(), looseOptions())
	withoutPenalty := scorer.Run([]*domain.LibraryItem{heavyBook}, anySession, emptyHistory(), looseOptions())

	require.Len(t, withPenalty.Scored, 1)
	require.Len(t, withoutPenalty.Scored, 1)
	assert.Less(t,
		withPenalty.Scored[0].Score.Total,
		withoutPenalty.Scored[0].Score.Total,
		"heavy book must score strictly lower under an explicit light preference")
}

func TestRun_TagScoreCapInvariant(t *testing.T) {
	tags := []string{
		"cozy", "heartwarming", "found family", "wholesome", "comfort read",
		"sweet", "gentle", "small town", "feel good", "low stakes",
	}
	item := book("a", nil, tags)

	result := newScorer().Run([]*domain.LibraryItem{item}, session(domain.MoodComfort), emptyHistory(), looseOptions())

	require.Len(t, result.Scored, 1)
	// Tag-only mood contributions stay under the tag cap.
	assert.LessOrEqual(t, result.Scored[0].Score.Breakdown.Mood, 40.0)
}

func TestRun_ExcludeFinished(t *testing.T) {
	item := book("a", []string{"Romance"}, []string{"cozy"})
	h := emptyHistory()
	h.finished["a"] = true

	opts := looseOptions()
	opts.ExcludeFinished = true
	result := newScorer().Run([]*domain.LibraryItem{item}, session(domain.MoodComfort), h, opts)
	assert.Empty(t, result.Scored)

	opts.ExcludeFinished = false
	result = newScorer().Run([]*domain.LibraryItem{item}, session(domain.MoodComfort), h, opts)
	assert.Len(t, result.Scored, 1)
}

func TestRun_NonBookMediaSkipped(t *testing.T) {
	podcast := book("p", []string{"Romance"}, []string{"cozy"})
	podcast.MediaType = "podcast"

	result := newScorer().Run([]*domain.LibraryItem{podcast}, session(domain.MoodComfort), emptyHistory(), looseOptions())

	assert.Empty(t, result.Scored)
	assert.Empty(t, result.Unscored)
	// Skipped before the DNA-parsing step: not part of dnaStats either.
	assert.Zero(t, result.DNAStats.TotalWithDNA+result.DNAStats.TotalWithoutDNA)
}

func TestRun_DNAOnlyModeRoutesBareBooks(t *testing.T) {
	items := []*domain.LibraryItem{
		book("dna", []string{"Romance"}, []string{"dna:mood:comfort:9"}),
		book("bare", []string{"Romance"}, []string{"cozy"}),
	}
	opts := looseOptions()
	opts.DNAFilterMode = DNAFilterOnly

	result := newScorer().Run(items, session(domain.MoodComfort), emptyHistory(), opts)

	require.Len(t, result.Scored, 1)
	assert.Equal(t, "dna", result.Scored[0].Item.ID)
	require.Len(t, result.Unscored, 1)
	assert.Equal(t, "bare", result.Unscored[0].ID)
}

func TestRun_UntaggedRoutedUnlessIncluded(t *testing.T) {
	bare := book("bare", nil, nil)
	bare.Description = "A cozy story."

	opts := looseOptions()
	result := newScorer().Run([]*domain.LibraryItem{bare}, session(domain.MoodComfort), emptyHistory(), opts)
	require.Len(t, result.Unscored, 1)

	opts.IncludeUntagged = true
	result = newScorer().Run([]*domain.LibraryItem{bare}, session(domain.MoodComfort), emptyHistory(), opts)
	assert.Len(t, result.Scored, 1)
}

func TestRun_ExcludeChildrens(t *testing.T) {
	kids := book("kids", []string{"Middle Grade", "Romance"}, []string{"cozy"})
	sess := session(domain.MoodComfort)
	sess.ExcludeChildrens = true

	result := newScorer().Run([]*domain.LibraryItem{kids}, sess, emptyHistory(), looseOptions())
	assert.Empty(t, result.Scored)
}

func TestRun_PreferenceBoostOrdersResults(t *testing.T) {
	items := []*domain.LibraryItem{
		book("a", []string{"Romance"}, []string{"cozy"}),
		book("b", []string{"Romance"}, []string{"cozy"}),
	}
	h := emptyHistory()
	h.history = true
	h.boosts["b"] = 10

	result := newScorer().Run(items, session(domain.MoodComfort), h, looseOptions())

	require.Len(t, result.Scored, 2)
	assert.Equal(t, "b", result.Scored[0].Item.ID)
	assert.Equal(t, 10.0, result.Scored[0].PreferenceBoost)
	assert.Equal(t, result.Scored[0].Score.Total+10, result.Scored[0].BoostedScore)
}

func TestRun_DNAStatsCoverVisitedCandidates(t *testing.T) {
	items := []*domain.LibraryItem{
		book("dna", []string{"Romance"}, []string{"dna:mood:comfort:9"}),
		book("bare", []string{"True Crime"}, []string{"gritty"}), // scores ~0, below threshold
	}

	result := newScorer().Run(items, session(domain.MoodComfort), emptyHistory(), DefaultOptions())

	// The below-threshold book still counts toward the stats.
	assert.Equal(t, 1, result.DNAStats.TotalWithDNA)
	assert.Equal(t, 1, result.DNAStats.TotalWithoutDNA)
	assert.InDelta(t, 50.0, result.DNAStats.DNAPercentage, 0.1)
}

func TestRun_ConfidenceUpgradeWithDNA(t *testing.T) {
	rich := book("rich", []string{"Romance", "Cozy Mystery"}, []string{
		"cozy", "dna:mood:comfort:9", "dna:spectrum:darkness:-8", "dna:pacing:slow",
	})
	rich.Description = "A warm, cozy story of found family."
	rich.NarratorName = "A Narrator"
	rich.Publisher = "A Publisher"

	sparse := book("sparse", []string{"Romance"}, []string{"cozy"})

	result := newScorer().Run([]*domain.LibraryItem{rich, sparse}, session(domain.MoodComfort), emptyHistory(), looseOptions())

	require.Len(t, result.Scored, 2)
	byID := map[string]domain.ScoredBook{}
	for _, sb := range result.Scored {
		byID[sb.Item.ID] = sb
	}
	assert.Equal(t, domain.ConfidenceHigh, byID["rich"].Confidence)
	assert.Equal(t, domain.ConfidenceLow, byID["sparse"].Confidence)
}
