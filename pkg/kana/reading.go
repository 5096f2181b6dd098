package kana

import "unicode/utf8"

// DefaultMinReading is the shortest reading, in runes, worth a lookup.
const DefaultMinReading = 2

// Extractor finds the reading to look up from a text buffer.
type Extractor struct {
	// MinLength is the minimum reading length in runes; values below 1
	// are treated as 1.
	MinLength int
}

// NewExtractor returns an Extractor with the given minimum length.
func NewExtractor(minLength int) Extractor {
	return Extractor{MinLength: minLength}
}

// Extract returns the reading for a lookup. A non-empty explicit reading is
// used verbatim; otherwise the maximal trailing kana run of text is taken
// and folded to hiragana. ok is false when the result is shorter than
// MinLength.
func (e Extractor) Extract(text, explicit string) (reading string, ok bool) {
	if explicit != "" {
		reading = explicit
	} else {
		reading = ToHiragana(TrailingKana(text))
	}
	if utf8.RuneCountInString(reading) < e.min() {
		return "", false
	}
	return reading, true
}

func (e Extractor) min() int {
	if e.MinLength < 1 {
		return 1
	}
	return e.MinLength
}

// TrailingKana returns the longest suffix of text made only of IsKana runes.
func TrailingKana(text string) string {
	end := len(text)
	start := end
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if !IsKana(r) {
			break
		}
		start -= size
	}
	return text[start:end]
}
