package dictionary

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrFormat marks a dictionary payload that failed fetch, decode or
// validation. Use errors.Is to test for it.
var ErrFormat = errors.New("dictionary: bad dictionary payload")

// Stages reported by FormatError.
const (
	StageFetch    = "fetch"
	StageDecode   = "decode"
	StageValidate = "validate"
)

const previewLen = 32

// FormatError describes why a payload was rejected and what it looked like.
type FormatError struct {
	Stage   string
	Reason  string
	Preview string
}

func (e *FormatError) Error() string {
	if e.Preview == "" {
		return fmt.Sprintf("dictionary: %s: %s", e.Stage, e.Reason)
	}
	return fmt.Sprintf("dictionary: %s: %s (preview %q)", e.Stage, e.Reason, e.Preview)
}

// Is makes errors.Is(err, ErrFormat) true for every FormatError.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

func newFormatError(stage, reason string, payload []byte) *FormatError {
	return &FormatError{Stage: stage, Reason: reason, Preview: preview(payload)}
}

// preview returns the first runes of payload on one line.
func preview(payload []byte) string {
	if len(payload) == 0 {
		return ""
	}
	var b strings.Builder
	for n := 0; len(payload) > 0 && n < previewLen; n++ {
		r, size := utf8.DecodeRune(payload)
		payload = payload[size:]
		switch {
		case r == '\n' || r == '\r':
			b.WriteByte(' ')
		case r == utf8.RuneError && size == 1:
			b.WriteByte('?')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
