// Package language guesses the natural language of a text with lingua-go.
package language

import (
	"strings"
	"unicode/utf8"

	"github.com/pemistahl/lingua-go"
)

// maxSampleRunes caps how much text is handed to the detector.
const maxSampleRunes = 8000

// Detector wraps a lingua language detector.
type Detector struct {
	detector lingua.LanguageDetector
}

// NewDetector builds a low accuracy mode detector over all languages lingua knows.
func NewDetector() *Detector {
	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			WithLowAccuracyMode().
			Build(),
	}
}

// Detect returns the ISO-639-1 code (e.g. "en") of the text's language and
// the detector's confidence in it (0-1). The code is empty when the language
// cannot be determined.
func (d *Detector) Detect(text string) (string, float64) {
	sample := strings.TrimSpace(truncate(text, maxSampleRunes))
	if sample == "" {
		return "", 0
	}

	lang, ok := d.detector.DetectLanguageOf(sample)
	if !ok {
		return "", 0
	}

	confidence := d.detector.ComputeLanguageConfidence(sample, lang)
	return strings.ToLower(lang.IsoCode639_1().String()), confidence
}

func truncate(text string, maxRunes int) string {
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	n := 0
	for i := range text {
		if n == maxRunes {
			return text[:i]
		}
		n++
	}
	return text
}
