package kana

import "strings"

// Fixed code point ranges used for classification.
// Katakana stops at U+30F6 so every classified katakana rune folds back
// to a hiragana rune.
const (
	HiraganaFirst rune = 0x3041 // ぁ
	HiraganaLast  rune = 0x3096 // ゖ
	KatakanaFirst rune = 0x30A1 // ァ
	KatakanaLast  rune = 0x30F6 // ヶ
	ProlongedMark rune = 0x30FC // ー

	katakanaShift = KatakanaFirst - HiraganaFirst
)

// IsHiragana reports whether r is in the hiragana block range.
func IsHiragana(r rune) bool {
	return r >= HiraganaFirst && r <= HiraganaLast
}

// IsKatakana reports whether r is in the foldable katakana range.
func IsKatakana(r rune) bool {
	return r >= KatakanaFirst && r <= KatakanaLast
}

// IsKana reports whether r belongs to the reading character set:
// hiragana, katakana or the prolonged-sound mark.
func IsKana(r rune) bool {
	return IsHiragana(r) || IsKatakana(r) || r == ProlongedMark
}

// ToHiragana folds katakana runes to hiragana. Other runes are kept.
func ToHiragana(s string) string {
	return strings.Map(func(r rune) rune {
		if IsKatakana(r) {
			return r - katakanaShift
		}
		return r
	}, s)
}

// ToKatakana shifts hiragana runes to katakana. Other runes are kept.
func ToKatakana(s string) string {
	return strings.Map(func(r rune) rune {
		if IsHiragana(r) {
			return r + katakanaShift
		}
		return r
	}, s)
}
