package kana

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassification(t *testing.T) {
	assert.True(t, IsKana('あ'))
	assert.True(t, IsKana('ゖ'))
	assert.True(t, IsKana('カ'))
	assert.True(t, IsKana('ー'))
	assert.False(t, IsKana('ヷ'))
	assert.False(t, IsKana('漢'))
	assert.False(t, IsKana('a'))
	assert.False(t, IsKana('・'))
}

func TestFolding(t *testing.T) {
	assert.Equal(t, "らーめん", ToHiragana("ラーメン"))
	assert.Equal(t, "ラーメン", ToKatakana("らーめん"))
	assert.Equal(t, "漢字かな", ToHiragana("漢字カナ"))
	assert.Equal(t, "ゔ", ToHiragana("ヴ"))
}

func TestExtract(t *testing.T) {
	e := NewExtractor(DefaultMinReading)

	tests := []struct {
		name     string
		text     string
		explicit string
		want     string
		ok       bool
	}{
		{"trailing hiragana", "漢字かんじ", "", "かんじ", true},
		{"katakana folded", "麺ラーメン", "", "らーめん", true},
		{"mixed run", "abcカんジ", "", "かんじ", true},
		{"explicit wins", "ignored かな", "かんじ", "かんじ", true},
		{"explicit verbatim", "", "カンジ", "カンジ", true},
		{"no kana", "漢字", "", "", false},
		{"too short", "漢字か", "", "", false},
		{"empty", "", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.Extract(tt.text, tt.explicit)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractMinimumOne(t *testing.T) {
	e := NewExtractor(0)
	got, ok := e.Extract("漢字か", "")
	assert.True(t, ok)
	assert.Equal(t, "か", got)
}
