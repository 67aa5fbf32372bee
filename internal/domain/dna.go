package domain

// Spectrum names one of the six tonal axes a book can carry as
// structured DNA, each a float in [-1, 1].
type Spectrum string

// The six DNA spectrums.
const (
	SpectrumDarkness   Spectrum = "darkness"   // -1 light, +1 dark
	SpectrumHumor      Spectrum = "humor"      // -1 dry, +1 laugh-out-loud
	SpectrumTension    Spectrum = "tension"    // -1 gentle, +1 edge-of-seat
	SpectrumEmotion    Spectrum = "emotion"    // -1 detached, +1 devastating
	SpectrumRomance    Spectrum = "romance"    // -1 none, +1 central
	SpectrumComplexity Spectrum = "complexity" // -1 breezy, +1 dense
)

// Spectrums lists all valid spectrum names in a stable order.
var Spectrums = []Spectrum{
	SpectrumDarkness, SpectrumHumor, SpectrumTension,
	SpectrumEmotion, SpectrumRomance, SpectrumComplexity,
}

// ValidSpectrum reports whether s is a known spectrum name.
func ValidSpectrum(s Spectrum) bool {
	for _, v := range Spectrums {
		if s == v {
			return true
		}
	}
	return false
}

// DNAQuality tiers a book's structured-tag coverage. Used downstream as
// a confidence signal, never as an appeal signal.
type DNAQuality string

// Quality tiers by dna: tag count.
const (
	DNAQualityNone      DNAQuality = "none"      // fewer than 3 tags
	DNAQualityMinimal   DNAQuality = "minimal"   // 3 or more
	DNAQualityGood      DNAQuality = "good"      // 8 or more
	DNAQualityExcellent DNAQuality = "excellent" // 15 or more
)

// BookDNA is the structured signal parsed from a book's dna:-prefixed
// tags. It is derived on demand and never persisted. Absence of dna:
// tags yields HasDNA=false with every field empty - which means "no
// structured signal available", never "book has no appeal".
type BookDNA struct {
	// Simple categorical attributes. Empty string means absent.
	Length         string `json:"length,omitempty"`
	Pacing         string `json:"pacing,omitempty"` // "slow", "moderate", "fast"
	Structure      string `json:"structure,omitempty"`
	POV            string `json:"pov,omitempty"`
	SeriesPosition string `json:"series_position,omitempty"`
	PubEra         string `json:"pub_era,omitempty"`
	NarratorStyle  string `json:"narrator_style,omitempty"`
	Production     string `json:"production,omitempty"`
	Vibe           string `json:"vibe,omitempty"`

	// Spectrums in [-1, 1]; key absent means that axis was never tagged.
	Spectrums map[Spectrum]float64 `json:"spectrums,omitempty"`

	// Mood scores in [0, 1]; key absent means that mood was never tagged.
	MoodScores map[Mood]float64 `json:"mood_scores,omitempty"`

	// Array categories collect every matching tag, lower-cased.
	Tropes           []string `json:"tropes,omitempty"`
	Themes           []string `json:"themes,omitempty"`
	Settings         []string `json:"settings,omitempty"`
	ComparableTitles []string `json:"comparable_titles,omitempty"`

	HasDNA   bool `json:"has_dna"`
	TagCount int  `json:"tag_count"`
}

// HasMoodScores reports whether any mood score was tagged. The DNA mood
// path only takes precedence over genre inference when this is true.
func (d *BookDNA) HasMoodScores() bool {
	return len(d.MoodScores) > 0
}

// Quality buckets the structured-tag coverage into tiers.
func (d *BookDNA) Quality() DNAQuality {
	switch {
	case d.TagCount >= 15:
		return DNAQualityExcellent
	case d.TagCount >= 8:
		return DNAQualityGood
	case d.TagCount >= 3:
		return DNAQualityMinimal
	}
	return DNAQualityNone
}
