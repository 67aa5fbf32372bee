package domain

// MediaTypeBook is the only media type the scorer considers. Podcasts
// and other media in the mirror are skipped by the scoring pipeline.
const MediaTypeBook = "book"

// LibraryItem is the scorer's read-only projection of a library entry
// as mirrored from the media server. The scorer never mutates it.
type LibraryItem struct {
	ID           string   `json:"id"`
	MediaType    string   `json:"media_type"`
	Title        string   `json:"title"`
	AuthorName   string   `json:"author_name,omitempty"`
	NarratorName string   `json:"narrator_name,omitempty"`
	Publisher    string   `json:"publisher,omitempty"`
	SeriesName   string   `json:"series_name,omitempty"`
	Sequence     string   `json:"sequence,omitempty"` // "1", "1.5", "Book Zero" - flexible for edge cases
	Genres       []string `json:"genres,omitempty"`
	Description  string   `json:"description,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Duration     float64  `json:"duration"` // seconds

	// User progress snapshot, mirrored alongside the item.
	Progress float64 `json:"progress"` // 0.0 - 1.0
	Finished bool    `json:"finished"`
}

// IsBook reports whether the item is scoreable book media.
func (i *LibraryItem) IsBook() bool {
	return i.MediaType == MediaTypeBook
}

// DurationHours returns the item duration in hours.
func (i *LibraryItem) DurationHours() float64 {
	return i.Duration / 3600
}

// HasMetadata reports whether the item carries any signal the scorer can
// work with. Items with neither genres nor tags are routed to the
// unscored bucket unless untagged items are explicitly included.
func (i *LibraryItem) HasMetadata() bool {
	return len(i.Genres) > 0 || len(i.Tags) > 0
}

// InSeries reports whether the item belongs to a series.
func (i *LibraryItem) InSeries() bool {
	return i.SeriesName != ""
}
