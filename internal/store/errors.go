package store

import "errors"

// Sentinel errors. Services translate these into coded API errors.
var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrSessionExpired is returned when the persisted mood session has
	// passed its hard TTL.
	ErrSessionExpired = errors.New("store: session expired")
)
