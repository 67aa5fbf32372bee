package recs

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/moodshelf/moodshelf-server/internal/dna"
	"github.com/moodshelf/moodshelf-server/internal/domain"
	"github.com/moodshelf/moodshelf-server/internal/mood"
)

// DNAFilterMode controls how structured DNA steers candidate selection
// and ordering.
type DNAFilterMode string

// DNA filter modes.
const (
	// DNAFilterOff ignores DNA presence for filtering and ordering.
	DNAFilterOff DNAFilterMode = "off"
	// DNAFilterPreferred sorts DNA-bearing books ahead of non-DNA books
	// regardless of score.
	DNAFilterPreferred DNAFilterMode = "dna-preferred"
	// DNAFilterOnly routes books without DNA to the unscored bucket.
	DNAFilterOnly DNAFilterMode = "dna-only"
)

// Match-percent dimension maxima. Dimensions the user left at "any" do
// not count toward the denominator, so selecting fewer preferences can
// never lower the achievable match percentage.
const (
	maxMoodPercent   = 50.0
	maxPacePercent   = 15.0
	maxWeightPercent = 15.0
	maxWorldPercent  = 20.0
	maxLengthPercent = 15.0

	// maxBonusPercent caps the theme/trope contribution added on top of
	// the dimension ratio.
	maxBonusPercent = 15.0
)

// Options tune a scoring pass.
type Options struct {
	DNAFilterMode         DNAFilterMode
	ExcludeFinished       bool
	IncludeUntagged       bool
	ApplyPreferenceBoosts bool
	MinMatchPercent       int
}

// DefaultOptions returns the options the client uses unless told
// otherwise.
func DefaultOptions() Options {
	return Options{
		DNAFilterMode:         DNAFilterPreferred,
		ExcludeFinished:       true,
		IncludeUntagged:       false,
		ApplyPreferenceBoosts: true,
		MinMatchPercent:       20,
	}
}

// History is the reading-history signal surface the scorer consumes.
// PreferenceBoost is a bounded, previously-computed affinity score
// treated as an opaque numeric input here.
type History interface {
	IsFinished(id string) bool
	HasBeenStarted(id string) bool
	PreferenceBoost(item *domain.LibraryItem) float64
	HasHistory() bool
}

// Scorer runs the full per-book scoring pipeline over a library
// snapshot. It is stateless; one Scorer may serve concurrent passes.
type Scorer struct {
	logger *slog.Logger
}

// NewScorer creates a scorer.
func NewScorer(logger *slog.Logger) *Scorer {
	return &Scorer{logger: logger}
}

// Run scores every candidate book against the session, sorts, and
// returns the ranked result. For a fixed (items, session, history)
// input the output is fully deterministic.
func (s *Scorer) Run(items []*domain.LibraryItem, session *domain.MoodSession, hist History, opts Options) *domain.RecommendationResult {
	started := time.Now()

	filter := NewSeriesFilter(items, hist.IsFinished, hist.HasBeenStarted)

	var seed *SeedData
	if session.SeedBookID != "" {
		for _, item := range items {
			if item.ID == session.SeedBookID {
				seed = BuildSeed(item)
				break
			}
		}
	}

	result := &domain.RecommendationResult{TotalCount: len(items)}
	var withDNA, withoutDNA int

	for _, item := range items {
		// Gates 1-4: wrong media, the seed itself, already finished,
		// or mid-series.
		if !item.IsBook() {
			continue
		}
		if seed != nil && item.ID == seed.ID {
			continue
		}
		if opts.ExcludeFinished && hist.IsFinished(item.ID) {
			continue
		}
		if !filter.Appropriate(item) {
			continue
		}
		if session.ExcludeChildrens && mood.IsChildrens(item.Genres) {
			continue
		}

		// Extract signal once; every sub-scorer below reuses it.
		bookDNA := dna.Parse(item.Tags)
		hours := item.DurationHours()

		// dnaStats covers every candidate the loop visits from here on,
		// including books later dropped by the threshold.
		if bookDNA.HasDNA {
			withDNA++
		} else {
			withoutDNA++
		}

		if opts.DNAFilterMode == DNAFilterOnly && !bookDNA.HasDNA {
			result.Unscored = append(result.Unscored, item)
			continue
		}
		if !item.HasMetadata() && !opts.IncludeUntagged {
			result.Unscored = append(result.Unscored, item)
			continue
		}

		scored, ok := s.scoreBook(item, bookDNA, hours, session, hist, seed, opts)
		if !ok {
			result.Unscored = append(result.Unscored, item)
			continue
		}
		result.Scored = append(result.Scored, scored)
	}

	// Primary key in dna-preferred mode: DNA-bearing books first,
	// regardless of score. Tie-break: boosted score descending. The
	// stable sort keeps input order for full ties, which keeps passes
	// reproducible.
	slices.SortStableFunc(result.Scored, func(a, b domain.ScoredBook) int {
		if opts.DNAFilterMode == DNAFilterPreferred && a.HasDNA != b.HasDNA {
			if a.HasDNA {
				return -1
			}
			return 1
		}
		switch {
		case a.BoostedScore > b.BoostedScore:
			return -1
		case a.BoostedScore < b.BoostedScore:
			return 1
		}
		return 0
	})

	total := withDNA + withoutDNA
	result.DNAStats = domain.DNAStats{TotalWithDNA: withDNA, TotalWithoutDNA: withoutDNA}
	if total > 0 {
		result.DNAStats.DNAPercentage = math.Round(float64(withDNA)/float64(total)*1000) / 10
	}
	result.GeneratedAt = time.Now()

	s.logger.Info("scoring pass complete",
		"candidates", total,
		"scored", len(result.Scored),
		"unscored", len(result.Unscored),
		"with_dna", withDNA,
		"duration_ms", time.Since(started).Milliseconds(),
	)

	return result
}

// scoreBook runs steps 8-14 of the pipeline for one candidate. ok=false
// routes the book to the unscored bucket.
func (s *Scorer) scoreBook(
	item *domain.LibraryItem,
	bookDNA *domain.BookDNA,
	hours float64,
	session *domain.MoodSession,
	hist History,
	seed *SeedData,
	opts Options,
) (domain.ScoredBook, bool) {
	var bd domain.ScoreBreakdown
	var reasons []string
	primary := false
	usedDNA := false

	tagScore := mood.ScoreTags(item.Tags, session)

	// Mood dimension. The DNA mood path takes precedence whenever mood
	// scores exist, even when genre keywords would also match.
	if bookDNA.HasDNA && bookDNA.HasMoodScores() {
		usedDNA = true
		moodValue := bookDNA.MoodScores[session.Mood]
		bd.Mood = dnaMoodWeight * moodValue
		if moodValue >= dnaPrimaryThreshold {
			primary = true
			reasons = append(reasons, fmt.Sprintf("Strong %s match", session.Mood))
		}
		if pref, ok := moodSpectrumPrefs[session.Mood]; ok {
			if v, ok := bookDNA.Spectrums[pref.Spectrum]; ok {
				alignment := 1 - math.Abs(pref.Value-v)/2
				bd.Mood += dnaSpectrumWeight * alignment
			}
		}
		if style, ok := moodNarratorStyles[session.Mood]; ok && bookDNA.NarratorStyle != "" {
			if slices.Contains(style, bookDNA.NarratorStyle) {
				bd.Mood += dnaNarratorBonus
				reasons = append(reasons, "Narration suits the mood")
			}
		}
		// Genre inference may still supplement a weak DNA signal, at
		// the secondary weight only.
		if moodValue < dnaWeakThreshold && mood.MatchesMood(item.Genres, item.Description, session.Mood) {
			bd.Mood += mood.GenreMoodSecondary
		}
	} else if mood.MatchesMood(item.Genres, item.Description, session.Mood) {
		bd.Mood = mood.GenreMoodPrimary
		primary = true
		reasons = append(reasons, fmt.Sprintf("Matches your %s mood", session.Mood))
	}

	// Tag mood scoring can independently establish the primary match
	// when neither DNA nor genre did.
	bd.Mood += tagScore.Breakdown.Mood
	if tagScore.IsPrimaryMoodMatch && !primary {
		primary = true
		reasons = append(reasons, fmt.Sprintf("Tagged for %s", session.Mood))
	}

	// Pace: maximum of the DNA pacing signal and the tag+genre signal.
	// The remaining dimensions are additive.
	if session.Pace != domain.PaceAny {
		tagGenrePace := tagScore.Breakdown.Pace
		if mood.MatchesPace(item.Genres, item.Description, session.Pace) {
			tagGenrePace += mood.GenrePace
		}
		var dnaPace float64
		if usedDNA && bookDNA.Pacing != "" && bookDNA.Pacing == moodPacing[session.Pace] {
			dnaPace = dnaPacingWeight
		}
		bd.Pace = math.Max(dnaPace, tagGenrePace)
		if bd.Pace > 0 {
			reasons = append(reasons, "Right pace")
		}
	}

	if session.Weight != domain.WeightAny {
		bd.Weight = tagScore.Breakdown.Weight
		if mood.MatchesWeight(item.Genres, item.Description, session.Weight) {
			bd.Weight += mood.GenreWeight
		}
	}

	if session.World != domain.WorldAny {
		bd.World = tagScore.Breakdown.World
		if mood.MatchesWorld(item.Genres, item.Description, session.World) {
			bd.World += mood.GenreWorld
		}
		if bd.World > 0 {
			reasons = append(reasons, "The world you asked for")
		}
	}

	if session.Length != domain.LengthAny {
		bd.Length = tagScore.Breakdown.Length + mood.LengthScore(hours, session.Length)
	}

	bd.Trope = tagScore.Breakdown.Trope
	if bookDNA.HasDNA {
		bd.Theme = themeBonus(bookDNA, session.Mood)
	}

	// Mismatch penalties hit the whole additive subtotal: a tonal
	// conflict degrades an otherwise-good match instead of merely not
	// helping it.
	weightMismatch := mood.DetectWeightMismatch(item.Genres, item.Description, session.Weight)
	paceMismatch := mood.DetectPaceMismatch(item.Genres, item.Description, session.Pace)
	penalty := weightMismatch.Multiplier() * paceMismatch.Multiplier()

	additive := bd.Mood + bd.Pace + bd.Weight + bd.World + bd.Length + bd.Theme + bd.Trope
	total := additive * penalty

	if weightMismatch.HasMismatch {
		reasons = append(reasons, "Tone runs against your weight pick")
	}
	if paceMismatch.HasMismatch {
		reasons = append(reasons, "Pacing runs against your pick")
	}

	matchPercent := s.matchPercent(bd, session, penalty)
	if matchPercent < opts.MinMatchPercent {
		return domain.ScoredBook{}, false
	}

	var prefBoost float64
	if opts.ApplyPreferenceBoosts && hist.HasHistory() {
		prefBoost = hist.PreferenceBoost(item)
		if prefBoost > 0 {
			reasons = append(reasons, "You tend to finish books like this")
		}
	}

	var seedBoost float64
	if seed != nil {
		var seedReason string
		seedBoost, seedReason = seed.Similarity(item)
		if seedReason != "" {
			reasons = append(reasons, seedReason)
		}
	}

	confidence := metadataConfidence(item, bookDNA)
	if usedDNA {
		confidence = confidence.Upgrade()
	}

	return domain.ScoredBook{
		Item: item,
		Score: domain.MoodScore{
			Total:              total,
			Breakdown:          bd,
			IsPrimaryMoodMatch: primary,
		},
		MatchPercent:    matchPercent,
		Confidence:      confidence,
		PreferenceBoost: prefBoost,
		SeedBoost:       seedBoost,
		BoostedScore:    total + prefBoost + seedBoost,
		MatchReasons:    reasons,
		UsedDNA:         usedDNA,
		HasDNA:          bookDNA.HasDNA,
	}, true
}

// matchPercent computes the additive-dimension ratio against the
// session's maximum achievable score, applies the mismatch penalty, and
// adds the independently-capped theme/trope bonus. Always clamped to
// [0, 100].
func (s *Scorer) matchPercent(bd domain.ScoreBreakdown, session *domain.MoodSession, penalty float64) int {
	denom := maxMoodPercent
	earned := math.Min(bd.Mood, maxMoodPercent)

	if session.Pace != domain.PaceAny {
		denom += maxPacePercent
		earned += math.Min(bd.Pace, maxPacePercent)
	}
	if session.Weight != domain.WeightAny {
		denom += maxWeightPercent
		earned += math.Min(bd.Weight, maxWeightPercent)
	}
	if session.World != domain.WorldAny {
		denom += maxWorldPercent
		earned += math.Min(bd.World, maxWorldPercent)
	}
	if session.Length != domain.LengthAny {
		denom += maxLengthPercent
		earned += math.Min(bd.Length, maxLengthPercent)
	}

	percent := earned * penalty / denom * 100
	percent += math.Min(bd.Theme+bd.Trope, maxBonusPercent)

	rounded := int(math.Round(percent))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

// metadataConfidence buckets metadata richness. Structured DNA upgrades
// the result one tier at the call site.
func metadataConfidence(item *domain.LibraryItem, bookDNA *domain.BookDNA) domain.Confidence {
	richness := len(item.Tags) + len(item.Genres) + bookDNA.TagCount
	if len(item.Description) > 0 {
		richness += 2
	}
	if item.NarratorName != "" {
		richness++
	}
	if item.Publisher != "" {
		richness++
	}

	switch {
	case richness > 9:
		return domain.ConfidenceHigh
	case richness >= 4:
		return domain.ConfidenceMedium
	}
	return domain.ConfidenceLow
}
