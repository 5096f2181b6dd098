// Package segment wraps the kagome morphological analyzer for sentence
// segmentation at the host boundary. The suggest core never depends on it.
package segment

import (
	"fmt"
	"strings"

	"github.com/bastiangx/kanaserve/pkg/kana"
	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Token is one morpheme with its hiragana reading, when the analyzer
// knows one.
type Token struct {
	Surface string `msgpack:"surface"`
	Reading string `msgpack:"reading,omitempty"`
	POS     string `msgpack:"pos,omitempty"`
	Start   int    `msgpack:"start"`
	End     int    `msgpack:"end"`
}

// Segmenter splits text into morphemes with the IPA dictionary.
type Segmenter struct {
	t *tokenizer.Tokenizer
}

// New builds a Segmenter. Loading the IPA dictionary takes a moment, so
// callers should build one and share it.
func New() (*Segmenter, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("segment: building tokenizer: %w", err)
	}
	return &Segmenter{t: t}, nil
}

// Segment tokenizes text. Whitespace-only tokens are dropped.
func (s *Segmenter) Segment(text string) []Token {
	if text == "" {
		return nil
	}
	ktoks := s.t.Tokenize(text)
	out := make([]Token, 0, len(ktoks))
	for _, kt := range ktoks {
		if strings.TrimSpace(kt.Surface) == "" {
			continue
		}
		tok := Token{
			Surface: kt.Surface,
			Start:   kt.Start,
			End:     kt.End,
		}
		if pos := kt.POS(); len(pos) > 0 {
			tok.POS = pos[0]
		}
		if r, ok := kt.Reading(); ok && r != "*" {
			tok.Reading = kana.ToHiragana(r)
		} else if isAllKana(kt.Surface) {
			tok.Reading = kana.ToHiragana(kt.Surface)
		}
		out = append(out, tok)
	}
	return out
}

// TrailingReading returns the reading of the last token of text, which
// covers trailing words typed in kanji, not just kana.
func (s *Segmenter) TrailingReading(text string) (string, bool) {
	toks := s.Segment(text)
	if len(toks) == 0 {
		return "", false
	}
	last := toks[len(toks)-1]
	return last.Reading, last.Reading != ""
}

func isAllKana(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !kana.IsKana(r) {
			return false
		}
	}
	return true
}
