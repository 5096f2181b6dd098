package dictionary

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
)

const sample = ";; -*- coding: euc-jp -*-\nかんじ /漢字/幹事/\nあめ /雨/飴/\n"

func eucJP(t *testing.T, s string) []byte {
	t.Helper()
	b, err := japanese.EUCJP.NewEncoder().Bytes([]byte(s))
	require.NoError(t, err)
	return b
}

func TestDecodeAutoFallsBackToEUCJP(t *testing.T) {
	text, err := Decode(eucJP(t, sample), EncodingAuto)
	require.NoError(t, err)
	assert.Equal(t, sample, text)
}

func TestDecodeUTF8WithBOM(t *testing.T) {
	payload := append([]byte{0xEF, 0xBB, 0xBF}, sample...)
	text, err := Decode(payload, EncodingAuto)
	require.NoError(t, err)
	assert.Equal(t, sample, text)
}

func TestDecodeStrictUTF8RejectsEUCJP(t *testing.T) {
	_, err := Decode(eucJP(t, sample), EncodingUTF8)
	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, StageDecode, fe.Stage)
}

func TestDecodeRejectsHTML(t *testing.T) {
	_, err := Decode([]byte("<!DOCTYPE html>\n<html><head></head></html>"), EncodingAuto)
	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, StageValidate, fe.Stage)
	assert.Contains(t, fe.Preview, "<!DOCTYPE html>")
	assert.NotContains(t, fe.Preview, "\n")
}

func TestDecodeEmpty(t *testing.T) {
	_, err := Decode([]byte("  \n"), EncodingAuto)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestParseEncoding(t *testing.T) {
	enc, err := ParseEncoding("EUC-JP")
	require.NoError(t, err)
	assert.Equal(t, EncodingEUCJP, enc)

	_, err = ParseEncoding("shift_jis")
	assert.Error(t, err)
}

func TestLoaderFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SKK-JISYO.test")
	require.NoError(t, os.WriteFile(path, eucJP(t, sample), 0o644))

	d, err := NewLoader(EncodingAuto).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())
	assert.Equal(t, []string{"雨", "飴"}, d.Lookup("あめ"))
}

func TestLoaderMissingFile(t *testing.T) {
	_, err := NewLoader(EncodingAuto).Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrFormat))
}

func TestLoaderHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/dict":
			w.Write([]byte(sample))
		case "/html":
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<!DOCTYPE html><html></html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := NewLoader(EncodingAuto)

	d, err := l.Load(context.Background(), srv.URL+"/dict")
	require.NoError(t, err)
	assert.Equal(t, []string{"漢字", "幹事"}, d.Lookup("かんじ"))

	_, err = l.Load(context.Background(), srv.URL+"/missing")
	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, StageFetch, fe.Stage)

	_, err = l.Load(context.Background(), srv.URL+"/html")
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, StageValidate, fe.Stage)
}

func TestLoaderRejectsOversizedPayload(t *testing.T) {
	defer func(n int64) { maxPayloadSize = n }(maxPayloadSize)
	maxPayloadSize = int64(len(sample)) - 1

	path := filepath.Join(t.TempDir(), "SKK-JISYO.big")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	_, err := NewLoader(EncodingUTF8).Load(context.Background(), path)
	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, StageFetch, fe.Stage)
	assert.Contains(t, fe.Reason, "exceeds")

	maxPayloadSize = int64(len(sample))
	d, err := NewLoader(EncodingUTF8).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())
}
