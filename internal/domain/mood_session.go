// Package domain contains the core business entities and domain logic for the MoodShelf recommendation server.
package domain

import "time"

// Session lifetime bounds. A committed session is logically ephemeral:
// it stops driving recommendations at SoftTTL ("stale", the client should
// prompt for a re-tune) and is deleted outright at TTL.
const (
	SessionTTL     = 12 * time.Hour
	SessionSoftTTL = 4 * time.Hour
)

// Mood is the primary dimension of a mood session. Unlike the other
// dimensions there is no "any" sentinel - a session without a mood is
// not a valid session.
type Mood string

// The six moods a session can ask for.
const (
	MoodComfort Mood = "comfort"
	MoodThrills Mood = "thrills"
	MoodEscape  Mood = "escape"
	MoodGrowth  Mood = "growth"
	MoodLaughs  Mood = "laughs"
	MoodFeels   Mood = "feels"
)

// Moods lists all valid moods in a stable order.
var Moods = []Mood{MoodComfort, MoodThrills, MoodEscape, MoodGrowth, MoodLaughs, MoodFeels}

// Valid reports whether m is a known mood.
func (m Mood) Valid() bool {
	for _, v := range Moods {
		if m == v {
			return true
		}
	}
	return false
}

// Pace is the desired narrative pace.
type Pace string

// Pace values. PaceAny means the user expressed no preference.
const (
	PaceAny    Pace = "any"
	PaceSlow   Pace = "slow"
	PaceSteady Pace = "steady"
	PaceFast   Pace = "fast"
)

// Valid reports whether p is a known pace.
func (p Pace) Valid() bool {
	switch p {
	case PaceAny, PaceSlow, PaceSteady, PaceFast:
		return true
	}
	return false
}

// Weight is the desired emotional weight.
type Weight string

// Weight values. WeightAny means the user expressed no preference.
const (
	WeightAny      Weight = "any"
	WeightLight    Weight = "light"
	WeightBalanced Weight = "balanced"
	WeightHeavy    Weight = "heavy"
)

// Valid reports whether w is a known weight.
func (w Weight) Valid() bool {
	switch w {
	case WeightAny, WeightLight, WeightBalanced, WeightHeavy:
		return true
	}
	return false
}

// World is the desired setting: the real world or somewhere else entirely.
type World string

// World values. WorldAny means the user expressed no preference.
const (
	WorldAny          World = "any"
	WorldGrounded     World = "grounded"
	WorldOtherworldly World = "otherworldly"
)

// Valid reports whether w is a known world.
func (w World) Valid() bool {
	switch w {
	case WorldAny, WorldGrounded, WorldOtherworldly:
		return true
	}
	return false
}

// Length is the desired book length band.
type Length string

// Length values. LengthAny means the user expressed no preference.
const (
	LengthAny    Length = "any"
	LengthShort  Length = "short"  // under 8 hours
	LengthMedium Length = "medium" // 8-15 hours
	LengthLong   Length = "long"   // 15-25 hours
	LengthEpic   Length = "epic"   // over 25 hours
)

// Valid reports whether l is a known length.
func (l Length) Valid() bool {
	switch l {
	case LengthAny, LengthShort, LengthMedium, LengthLong, LengthEpic:
		return true
	}
	return false
}

// HourBounds returns the inclusive hour band for a length preference.
// LengthAny has no band and returns ok=false.
func (l Length) HourBounds() (minH, maxH float64, ok bool) {
	switch l {
	case LengthShort:
		return 0, 8, true
	case LengthMedium:
		return 8, 15, true
	case LengthLong:
		return 15, 25, true
	case LengthEpic:
		return 25, 1000, true
	}
	return 0, 0, false
}

// MoodSession is the user's ephemeral recommendation request. It is created
// by committing a multi-step draft and is read-only afterwards, except for
// QuickTune which replaces individual fields and refreshes the TTL.
type MoodSession struct {
	ID               string    `json:"id"`
	Mood             Mood      `json:"mood"`
	Pace             Pace      `json:"pace"`
	Weight           Weight    `json:"weight"`
	World            World     `json:"world"`
	Length           Length    `json:"length"`
	Flavor           string    `json:"flavor,omitempty"`
	SeedBookID       string    `json:"seed_book_id,omitempty"`
	ExcludeChildrens bool      `json:"exclude_childrens"`
	CreatedAt        time.Time `json:"created_at"`
	ExpiresAt        time.Time `json:"expires_at"`
	SoftExpiresAt    time.Time `json:"soft_expires_at"`
}

// NewMoodSession creates a committed session with TTLs anchored at now.
// Unset optional dimensions default to their "any" sentinel.
func NewMoodSession(id string, mood Mood, now time.Time) *MoodSession {
	return &MoodSession{
		ID:            id,
		Mood:          mood,
		Pace:          PaceAny,
		Weight:        WeightAny,
		World:         WorldAny,
		Length:        LengthAny,
		CreatedAt:     now,
		ExpiresAt:     now.Add(SessionTTL),
		SoftExpiresAt: now.Add(SessionSoftTTL),
	}
}

// Valid reports whether the session is structurally valid. A session
// without a valid mood is not a session at all.
func (s *MoodSession) Valid() bool {
	return s != nil && s.Mood.Valid() &&
		s.Pace.Valid() && s.Weight.Valid() && s.World.Valid() && s.Length.Valid()
}

// Expired reports whether the session has passed its hard TTL.
func (s *MoodSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Stale reports whether the session has passed its soft TTL but not yet
// its hard TTL. A stale session still scores, but clients should offer
// a re-tune.
func (s *MoodSession) Stale(now time.Time) bool {
	return now.After(s.SoftExpiresAt) && !s.Expired(now)
}

// TunePatch holds the fields QuickTune may replace. Nil fields are left
// untouched (PATCH semantics, matching the API layer).
type TunePatch struct {
	Mood             *Mood   `json:"mood,omitempty"`
	Pace             *Pace   `json:"pace,omitempty"`
	Weight           *Weight `json:"weight,omitempty"`
	World            *World  `json:"world,omitempty"`
	Length           *Length `json:"length,omitempty"`
	Flavor           *string `json:"flavor,omitempty"`
	SeedBookID       *string `json:"seed_book_id,omitempty"`
	ExcludeChildrens *bool   `json:"exclude_childrens,omitempty"`
}

// QuickTune applies a partial field replace and refreshes both TTLs
// forward from now. CreatedAt is deliberately left alone: the tuned
// session keeps its identity but produces a different fingerprint via
// the changed fields.
func (s *MoodSession) QuickTune(patch TunePatch, now time.Time) {
	if patch.Mood != nil {
		s.Mood = *patch.Mood
	}
	if patch.Pace != nil {
		s.Pace = *patch.Pace
	}
	if patch.Weight != nil {
		s.Weight = *patch.Weight
	}
	if patch.World != nil {
		s.World = *patch.World
	}
	if patch.Length != nil {
		s.Length = *patch.Length
	}
	if patch.Flavor != nil {
		s.Flavor = *patch.Flavor
	}
	if patch.SeedBookID != nil {
		s.SeedBookID = *patch.SeedBookID
	}
	if patch.ExcludeChildrens != nil {
		s.ExcludeChildrens = *patch.ExcludeChildrens
	}
	s.ExpiresAt = now.Add(SessionTTL)
	s.SoftExpiresAt = now.Add(SessionSoftTTL)
}
