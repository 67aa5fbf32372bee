// Package id generates prefixed NanoID identifiers. NanoIDs are
// URL-friendly and shorter than UUIDs (21 characters vs 36).
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Entity prefixes. The prefix makes an ID self-describing in logs.
const (
	PrefixSession = "ms"
	PrefixItem    = "itm"
)

// Generate creates a prefixed unique ID, e.g. "ms-V1StGXR8_Z5jdHi6B-myT".
// Returns an error only when the system entropy source fails.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics on failure. Reserved for
// initialization paths where a dead entropy source should crash.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// Session generates a mood-session ID.
func Session() (string, error) {
	return Generate(PrefixSession)
}
