package domain

import "time"

// ReadingProgress is one book's listening progress row, mirrored from
// the player. It drives the finished/started gates and the preference
// boost.
type ReadingProgress struct {
	BookID       string     `json:"book_id"`
	Progress     float64    `json:"progress"` // 0.0 - 1.0
	Finished     bool       `json:"finished"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	LastPlayedAt time.Time  `json:"last_played_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
