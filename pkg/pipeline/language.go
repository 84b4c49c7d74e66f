package pipeline

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// languageSampleBytes bounds how much text the detector sees. Detection
// accuracy plateaus well below this.
const languageSampleBytes = 2048

// LinguaDetector annotates results with an ISO 639-1 language code.
type LinguaDetector struct {
	detector lingua.LanguageDetector
}

// NewLinguaDetector builds a detector over the languages documents in a
// typical corpus turn up in.
func NewLinguaDetector() *LinguaDetector {
	languages := []lingua.Language{
		lingua.English,
		lingua.Spanish,
		lingua.French,
		lingua.German,
		lingua.Portuguese,
		lingua.Italian,
		lingua.Dutch,
		lingua.Chinese,
		lingua.Japanese,
	}
	return &LinguaDetector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(languages...).
			Build(),
	}
}

// Detect returns the ISO 639-1 code of the dominant language, lowercased.
func (d *LinguaDetector) Detect(text string) (string, bool) {
	sample := text
	if len(sample) > languageSampleBytes {
		sample = sample[:languageSampleBytes]
	}
	sample = strings.TrimSpace(sample)
	if sample == "" {
		return "", false
	}

	lang, ok := d.detector.DetectLanguageOf(sample)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
