// Package kana converts romaji input to hiragana or katakana and extracts
// kana readings from free text.
package kana

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Mode selects the output script of a conversion.
type Mode int

const (
	Hiragana Mode = iota
	Katakana
)

func (m Mode) String() string {
	switch m {
	case Katakana:
		return "katakana"
	default:
		return "hiragana"
	}
}

// ParseMode accepts "hiragana"/"katakana" (and "" as hiragana).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hiragana", "hira":
		return Hiragana, nil
	case "katakana", "kata":
		return Katakana, nil
	}
	return Hiragana, fmt.Errorf("kana: unknown mode %q", s)
}

const (
	nasalHiragana    = "ん"
	nasalKatakana    = "ン"
	geminateHiragana = "っ"
	geminateKatakana = "ッ"
)

// longVowels are applied in order, each over the whole string.
var longVowels = [][2]string{
	{"アア", "アー"},
	{"イイ", "イー"},
	{"ウウ", "ウー"},
	{"エエ", "エー"},
	{"オオ", "オー"},
	{"オウ", "オー"},
}

// Transliterator converts romaji to kana using a RuleTable.
type Transliterator struct {
	table *RuleTable
}

// NewTransliterator returns a transliterator over table, or over the
// default table when table is nil.
func NewTransliterator(table *RuleTable) *Transliterator {
	if table == nil {
		table = DefaultTable()
	}
	return &Transliterator{table: table}
}

var defaultTransliterator = NewTransliterator(nil)

// Convert transliterates input with the default rule table.
func Convert(input string, mode Mode) string {
	return defaultTransliterator.Convert(input, mode)
}

// Convert transliterates input left to right. Every step consumes at least
// one rune, so it terminates for any finite input. Runes that match no rule
// are copied through unchanged.
//
// "nn" always yields the nasal mora, so "konna" becomes こんあ rather than
// こんな; a lone "n" before a consonant or at the end is passed through.
func (t *Transliterator) Convert(input string, mode Mode) string {
	s := []rune(strings.ToLower(norm.NFKC.String(input)))
	kata := mode == Katakana

	var out strings.Builder
	out.Grow(len(input) * 3)

	for i := 0; i < len(s); {
		ch := s[i]
		var next rune
		if i+1 < len(s) {
			next = s[i+1]
		}

		if ch == 'n' && (next == 'n' || next == '\'') {
			out.WriteString(pick(kata, nasalKatakana, nasalHiragana))
			i += 2
			continue
		}

		if ch != 'n' && isConsonant(ch) && next == ch {
			out.WriteString(pick(kata, geminateKatakana, geminateHiragana))
			i++
			continue
		}

		if v, n := t.table.Match(s[i:]); n > 0 {
			if kata {
				v = ToKatakana(v)
			}
			out.WriteString(v)
			i += n
			continue
		}

		out.WriteRune(ch)
		i++
	}

	result := out.String()
	if kata {
		result = collapseLongVowels(result)
	}
	return result
}

func collapseLongVowels(s string) string {
	for _, p := range longVowels {
		s = strings.ReplaceAll(s, p[0], p[1])
	}
	return s
}

func isConsonant(r rune) bool {
	return strings.ContainsRune("bcdfghjklmnpqrstvwxyz", r)
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
