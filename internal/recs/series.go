// Package recs implements the mood-based recommendation engine: the
// per-book scoring pipeline, series-appropriateness filtering, seed-book
// similarity, and the session-scoped result cache.
package recs

import (
	"sort"
	"strconv"
	"strings"

	"github.com/moodshelf/moodshelf-server/internal/domain"
	"github.com/moodshelf/moodshelf-server/internal/normalize"
)

// SeriesFilter decides whether a book is a valid recommendation
// candidate with respect to series position: only the first unread
// installment, the next installment after the last finished one, or an
// installment the user has already started is eligible. Construction is
// O(library size); each membership check is O(1).
//
// The filter is stateless with respect to the session - mood and pace
// play no role here.
type SeriesFilter struct {
	eligible map[string]bool // item ID -> eligible, series items only
}

// NewSeriesFilter groups the library by series, orders each series by
// sequence, and marks the eligible installments.
func NewSeriesFilter(items []*domain.LibraryItem, isFinished, hasStarted func(id string) bool) *SeriesFilter {
	bySeries := make(map[string][]*domain.LibraryItem)
	for _, item := range items {
		if !item.InSeries() {
			continue
		}
		key := normalize.Tag(item.SeriesName)
		bySeries[key] = append(bySeries[key], item)
	}

	f := &SeriesFilter{eligible: make(map[string]bool)}

	for _, series := range bySeries {
		sort.SliceStable(series, func(i, j int) bool {
			a, b := series[i], series[j]
			an, aok := sequenceNumber(a.Sequence)
			bn, bok := sequenceNumber(b.Sequence)
			switch {
			case aok && bok && an != bn:
				return an < bn
			case aok != bok:
				return aok // numbered installments before unnumbered
			}
			if a.Sequence != b.Sequence {
				return a.Sequence < b.Sequence
			}
			if a.Title != b.Title {
				return a.Title < b.Title
			}
			return a.ID < b.ID
		})

		// The "next" installment is the one after the last finished
		// book, or the first book when nothing is finished yet.
		next := 0
		for i, item := range series {
			if isFinished(item.ID) {
				next = i + 1
			}
		}
		if next < len(series) {
			f.eligible[series[next].ID] = true
		}

		// An installment the user is mid-way through stays eligible;
		// they have already progressed into it.
		for _, item := range series {
			if !isFinished(item.ID) && hasStarted(item.ID) {
				f.eligible[item.ID] = true
			}
		}
	}

	return f
}

// Appropriate reports whether the item may be recommended. Books
// outside any series are always appropriate.
func (f *SeriesFilter) Appropriate(item *domain.LibraryItem) bool {
	if !item.InSeries() {
		return true
	}
	return f.eligible[item.ID]
}

// sequenceNumber parses the leading number of a flexible sequence
// string ("1", "1.5", "Book 3" is not parsed - only a leading number).
func sequenceNumber(seq string) (float64, bool) {
	seq = strings.TrimSpace(seq)
	if seq == "" {
		return 0, false
	}
	end := 0
	for end < len(seq) && (seq[end] == '.' || (seq[end] >= '0' && seq[end] <= '9')) {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.ParseFloat(seq[:end], 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
