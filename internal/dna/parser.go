// Package dna parses a book's free-form tag list into structured BookDNA.
//
// Librarians opt in by adding tags with a "dna:" prefix:
//
//	dna:pacing:fast
//	dna:spectrum:darkness:-7
//	dna:mood:comfort:9
//	dna:trope:found-family
//
// Books without such tags parse to the canonical empty DNA with
// HasDNA=false, which downstream code must read as "no structured
// signal", never as "no appeal".
package dna

import (
	"strconv"
	"strings"

	"github.com/moodshelf/moodshelf-server/internal/domain"
	"github.com/moodshelf/moodshelf-server/internal/normalize"
)

const prefix = "dna:"

// Spectrum tag integers span -10..10 and normalize to [-1, 1].
// Mood tag integers span 0..10 and normalize to [0, 1].
const (
	spectrumRange = 10
	moodRange     = 10
)

// Parse extracts BookDNA from a raw tag list. Only tags carrying a
// case-insensitive "dna:" prefix contribute; malformed values inside a
// dna: tag are recovered locally and never abort parsing of the rest.
func Parse(tags []string) *domain.BookDNA {
	d := &domain.BookDNA{}

	for _, raw := range tags {
		trimmed := strings.TrimSpace(raw)
		if len(trimmed) < len(prefix) || !strings.EqualFold(trimmed[:len(prefix)], prefix) {
			continue
		}
		d.TagCount++
		parseTag(d, trimmed[len(prefix):])
	}

	d.HasDNA = d.TagCount > 0
	return d
}

// parseTag handles a single tag body (everything after "dna:").
func parseTag(d *domain.BookDNA, body string) {
	category, rest, ok := strings.Cut(body, ":")
	if !ok {
		return // bare "dna:foo" carries no value
	}

	switch normalize.Tag(category) {
	case "spectrum":
		name, value, ok := strings.Cut(rest, ":")
		if !ok {
			return
		}
		spectrum := domain.Spectrum(normalize.Tag(name))
		if !domain.ValidSpectrum(spectrum) {
			return
		}
		if v, ok := parseScaled(value, -spectrumRange, spectrumRange); ok {
			if d.Spectrums == nil {
				d.Spectrums = make(map[domain.Spectrum]float64)
			}
			if _, exists := d.Spectrums[spectrum]; !exists {
				d.Spectrums[spectrum] = v
			}
		}
	case "mood":
		name, value, ok := strings.Cut(rest, ":")
		if !ok {
			return
		}
		mood := domain.Mood(normalize.Tag(name))
		if !mood.Valid() {
			return
		}
		if v, ok := parseScaled(value, 0, moodRange); ok {
			if d.MoodScores == nil {
				d.MoodScores = make(map[domain.Mood]float64)
			}
			if _, exists := d.MoodScores[mood]; !exists {
				d.MoodScores[mood] = v
			}
		}
	case "trope":
		d.Tropes = append(d.Tropes, normalize.Tag(rest))
	case "theme":
		d.Themes = append(d.Themes, normalize.Tag(rest))
	case "setting":
		d.Settings = append(d.Settings, normalize.Tag(rest))
	case "comparable":
		d.ComparableTitles = append(d.ComparableTitles, normalize.Tag(rest))
	case "length":
		setFirst(&d.Length, rest)
	case "pacing":
		setFirst(&d.Pacing, rest)
	case "structure":
		setFirst(&d.Structure, rest)
	case "pov":
		setFirst(&d.POV, rest)
	case "series position", "seriesposition":
		setFirst(&d.SeriesPosition, rest)
	case "pub era", "pubera", "era":
		setFirst(&d.PubEra, rest)
	case "narrator", "narrator style":
		setFirst(&d.NarratorStyle, rest)
	case "production":
		setFirst(&d.Production, rest)
	case "vibe":
		setFirst(&d.Vibe, rest)
	}
}

// setFirst applies first-wins semantics for simple categorical tags: a
// duplicate category never overwrites the earlier value.
func setFirst(dst *string, value string) {
	if *dst == "" {
		*dst = normalize.Tag(value)
	}
}

// parseScaled parses an integer in [lo, hi] and normalizes it by the
// range maximum. Out-of-range values clamp to the bounds; non-numeric
// values are treated as absent.
func parseScaled(s string, lo, hi int) (float64, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	if n < lo {
		n = lo
	}
	if n > hi {
		n = hi
	}
	return float64(n) / float64(hi), true
}
