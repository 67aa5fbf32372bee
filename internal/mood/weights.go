// Package mood scores books against a mood session from two independent
// signal sources: exact-match tag lookups and genre/description keyword
// inference. It also detects hard tonal conflicts and computes the
// multiplicative penalties for them.
package mood

// Tag scoring weights. These are empirically tuned constants; changing
// any of them is a behavior change, not a refactor.
const (
	// MaxTagScore caps the total a book can earn from tag matches.
	MaxTagScore = 40.0

	tagMoodPrimary    = 15.0
	tagMoodSecondary  = 7.0
	tagPace           = 10.0
	tagWeight         = 10.0
	tagWorld          = 12.0
	tagLength         = 8.0
	tagTropePrimary   = 8.0
	tagTropeSecondary = 4.0
)

// Genre/keyword inference weights.
const (
	// GenreMoodPrimary applies when genre inference is the first signal
	// establishing a primary mood match; GenreMoodSecondary otherwise.
	GenreMoodPrimary   = 40.0
	GenreMoodSecondary = 20.0

	GenrePace   = 15.0
	GenreWeight = 15.0
	GenreWorld  = 20.0

	// GenreLength is full credit for a duration inside the requested
	// band; half credit applies within LengthNearMissHours of a bound.
	GenreLength         = 15.0
	LengthNearMissHours = 2.0
)

// Mismatch penalty multipliers, applied to the additive subtotal.
// Wrong tone is penalized harder than right tone is rewarded; that
// asymmetry is deliberate.
const (
	PenaltyHeavyForLight = 0.5
	PenaltyLightForHeavy = 0.75
	PenaltyFastForSlow   = 0.65
	PenaltySlowForFast   = 0.7
)
