package recs

import "github.com/moodshelf/moodshelf-server/internal/domain"

// DNA scoring weights. When a book carries structured mood scores the
// DNA path takes precedence over genre inference for the mood dimension.
const (
	dnaMoodWeight     = 50.0 // times the book's [0,1] mood score
	dnaSpectrumWeight = 15.0 // times the spectrum alignment in [0,1]
	dnaPacingWeight   = 12.0
	dnaNarratorBonus  = 8.0

	// dnaPrimaryThreshold is the mood score above which the DNA path
	// establishes the primary mood match on its own.
	dnaPrimaryThreshold = 0.7

	// dnaWeakThreshold marks a DNA mood score weak enough that genre
	// inference may still supplement it (at the secondary weight).
	dnaWeakThreshold = 0.5
)

// spectrumPref is the spectrum value a mood prefers.
type spectrumPref struct {
	Spectrum domain.Spectrum
	Value    float64
}

// moodSpectrumPrefs maps each mood to its preferred spectrum reading.
// Alignment is 1 - |preferred - actual| / 2, so a perfect match earns
// the full spectrum weight and the opposite extreme earns nothing.
var moodSpectrumPrefs = map[domain.Mood]spectrumPref{
	domain.MoodComfort: {domain.SpectrumDarkness, -0.8},
	domain.MoodThrills: {domain.SpectrumTension, 0.9},
	domain.MoodEscape:  {domain.SpectrumComplexity, 0.5},
	domain.MoodGrowth:  {domain.SpectrumComplexity, 0.6},
	domain.MoodLaughs:  {domain.SpectrumHumor, 0.9},
	domain.MoodFeels:   {domain.SpectrumEmotion, 0.9},
}

// moodPacing maps a session pace to the DNA pacing value it matches.
var moodPacing = map[domain.Pace]string{
	domain.PaceSlow:   "slow",
	domain.PaceSteady: "moderate",
	domain.PaceFast:   "fast",
}

// moodNarratorStyles lists DNA narrator styles that earn the narrator
// bonus for each mood.
var moodNarratorStyles = map[domain.Mood][]string{
	domain.MoodComfort: {"warm", "soothing", "gentle"},
	domain.MoodThrills: {"intense", "gravelly", "urgent"},
	domain.MoodEscape:  {"full cast", "dramatic", "immersive"},
	domain.MoodGrowth:  {"measured", "authoritative", "thoughtful"},
	domain.MoodLaughs:  {"deadpan", "playful", "energetic"},
	domain.MoodFeels:   {"emotive", "tender", "raw"},
}

// moodThemes lists DNA theme/setting values with an affinity for each
// mood; matches feed the theme bonus dimension.
var moodThemes = map[domain.Mood][]string{
	domain.MoodComfort: {"found family", "small town", "friendship", "healing", "home"},
	domain.MoodThrills: {"revenge", "conspiracy", "survival", "betrayal", "obsession"},
	domain.MoodEscape:  {"quest", "exploration", "chosen one", "war of kingdoms", "first contact"},
	domain.MoodGrowth:  {"identity", "ambition", "forgiveness", "legacy", "faith"},
	domain.MoodLaughs:  {"mistaken identity", "fish out of water", "workplace", "road trip"},
	domain.MoodFeels:   {"grief", "first love", "sacrifice", "memory", "family secrets"},
}

// Theme bonus weights.
const (
	themeMatchBonus = 4.0
	maxThemeBonus   = 12.0
)

// themeBonus scores DNA theme and setting overlap with the mood's
// affinity list.
func themeBonus(d *domain.BookDNA, m domain.Mood) float64 {
	affinities := moodThemes[m]
	if len(affinities) == 0 {
		return 0
	}
	var bonus float64
	for _, lists := range [][]string{d.Themes, d.Settings} {
		for _, v := range lists {
			for _, a := range affinities {
				if v == a {
					bonus += themeMatchBonus
					break
				}
			}
			if bonus >= maxThemeBonus {
				return maxThemeBonus
			}
		}
	}
	return bonus
}
