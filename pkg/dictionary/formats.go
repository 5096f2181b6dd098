package dictionary

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"golang.org/x/text/encoding/japanese"
)

// Encoding is the character encoding of a dictionary payload.
type Encoding int

const (
	EncodingAuto  Encoding = iota // UTF-8, falling back to EUC-JP
	EncodingUTF8                  // UTF-8 only
	EncodingEUCJP                 // EUC-JP only (SKK-JISYO default)
)

func (e Encoding) String() string {
	switch e {
	case EncodingUTF8:
		return "utf-8"
	case EncodingEUCJP:
		return "euc-jp"
	default:
		return "auto"
	}
}

// ParseEncoding maps a config value to an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return EncodingAuto, nil
	case "utf-8", "utf8":
		return EncodingUTF8, nil
	case "euc-jp", "eucjp", "euc_jp":
		return EncodingEUCJP, nil
	}
	return EncodingAuto, fmt.Errorf("dictionary: unknown encoding %q", s)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode turns a raw payload into text and validates it. With EncodingAuto
// the payload is tried as UTF-8 first and decoded as EUC-JP when that fails
// validation. The returned error is a *FormatError.
func Decode(payload []byte, enc Encoding) (string, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return "", newFormatError(StageDecode, "empty payload", payload)
	}

	var err error
	if enc == EncodingAuto || enc == EncodingUTF8 {
		var text string
		if text, err = decodeUTF8(payload); err == nil {
			return text, nil
		}
		if enc == EncodingUTF8 {
			return "", err
		}
		log.Debugf("UTF-8 decode rejected (%v), trying EUC-JP", err)
	}

	raw, derr := japanese.EUCJP.NewDecoder().Bytes(payload)
	if derr != nil {
		return "", newFormatError(StageDecode, fmt.Sprintf("euc-jp: %v", derr), payload)
	}
	text := string(raw)
	if verr := Validate(text); verr != nil {
		return "", verr
	}
	return text, nil
}

func decodeUTF8(payload []byte) (string, error) {
	payload = bytes.TrimPrefix(payload, utf8BOM)
	if !utf8.Valid(payload) {
		return "", newFormatError(StageDecode, "not valid utf-8", payload)
	}
	text := string(payload)
	if err := Validate(text); err != nil {
		return "", err
	}
	return text, nil
}

// Validate checks the header convention of decoded dictionary text: it must
// not be an HTML page and its first line must be a `;` comment.
func Validate(text string) error {
	trimmed := strings.TrimLeft(text, "\ufeff \t\r\n")
	if trimmed == "" {
		return newFormatError(StageValidate, "empty dictionary", nil)
	}
	if looksLikeHTML(trimmed) {
		return newFormatError(StageValidate, "payload looks like HTML", []byte(trimmed))
	}
	if trimmed[0] != commentMarker {
		return newFormatError(StageValidate, "missing leading ';' comment marker", []byte(trimmed))
	}
	return nil
}

func looksLikeHTML(s string) bool {
	head := s
	if len(head) > 512 {
		head = head[:512]
	}
	head = strings.ToLower(head)
	return strings.HasPrefix(head, "<!doctype html") ||
		strings.HasPrefix(head, "<html") ||
		strings.Contains(head, "<!doctype html>")
}
