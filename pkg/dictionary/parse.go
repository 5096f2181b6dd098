package dictionary

import (
	"strings"
	"unicode"

	"github.com/bastiangx/kanaserve/pkg/kana"
	"github.com/charmbracelet/log"
)

const (
	commentMarker    = ';'
	candidateSep     = "/"
	annotationMarker = ";"

	// maxLineLen bounds a single data line; longer lines are skipped.
	maxLineLen = 1 << 20
)

// Build validates source and parses it into a Dictionary. It fails with a
// *FormatError when the header convention does not hold; malformed data
// lines are skipped.
func Build(source string) (*Dictionary, error) {
	if err := Validate(source); err != nil {
		return nil, err
	}

	b := NewBuilder()
	lineNum, skipped := 0, 0
	for rest := source; rest != ""; {
		var line string
		line, rest, _ = strings.Cut(rest, "\n")
		line = strings.TrimSuffix(line, "\r")
		lineNum++
		if line == "" || line[0] == commentMarker {
			continue
		}
		if len(line) > maxLineLen {
			skipped++
			log.Warnf("Skipping dictionary line %d: %d bytes exceeds %d", lineNum, len(line), maxLineLen)
			continue
		}
		reading, cands, ok := ParseLine(line)
		if !ok {
			skipped++
			log.Debugf("Skipping malformed dictionary line %d", lineNum)
			continue
		}
		b.Add(reading, cands...)
	}

	d := b.Build()
	log.Debugf("Parsed %d lines: %d readings, %d skipped", lineNum, d.Len(), skipped)
	return d, nil
}

// ParseLine parses one data line `<reading><ws>/<c1>/<c2>;note/.../`.
// The reading is folded to hiragana and annotations are stripped. ok is
// false when the line does not match the grammar or yields no candidate.
func ParseLine(line string) (reading string, candidates []string, ok bool) {
	line = strings.TrimRightFunc(line, unicode.IsSpace)
	sep := strings.IndexFunc(line, unicode.IsSpace)
	if sep <= 0 {
		return "", nil, false
	}
	reading = line[:sep]
	rest := strings.TrimLeftFunc(line[sep:], unicode.IsSpace)

	// at least "/x/"
	if len(rest) < 3 || !strings.HasPrefix(rest, candidateSep) || !strings.HasSuffix(rest, candidateSep) {
		return "", nil, false
	}

	for _, seg := range strings.Split(rest[1:len(rest)-1], candidateSep) {
		text, _, _ := strings.Cut(seg, annotationMarker)
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		candidates = append(candidates, text)
	}
	if len(candidates) == 0 {
		return "", nil, false
	}
	return kana.ToHiragana(reading), candidates, true
}
