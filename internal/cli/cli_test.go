package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/bastiangx/kanaserve/pkg/dictionary"
	"github.com/bastiangx/kanaserve/pkg/kana"
	"github.com/bastiangx/kanaserve/pkg/learning"
	"github.com/bastiangx/kanaserve/pkg/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *suggest.Service {
	t.Helper()
	d, err := dictionary.Build(";;\nかんじ /漢字/幹事/\nかみ /紙/神/\n")
	require.NoError(t, err)
	svc := suggest.NewService(suggest.Options{})
	require.NoError(t, svc.Install(d))
	return svc
}

func TestInputHandlerCommit(t *testing.T) {
	svc := newService(t)
	in := strings.NewReader("kannji\n/2\nkannji\n/q\nkami\n")
	var out bytes.Buffer

	require.NoError(t, NewInputHandler(svc, kana.Hiragana, 10, in, &out).Start(context.Background()))

	assert.Equal(t, 1, svc.Count("かんじ", "幹事"))
	text := out.String()
	assert.Contains(t, text, "かんじ")
	assert.Contains(t, text, "2 candidates for かんじ")
	// after the commit 幹事 is listed first
	second := text[strings.LastIndex(text, "2 candidates for かんじ"):]
	assert.Less(t, strings.Index(second, "幹事"), strings.Index(second, "漢字"))
	assert.NotContains(t, text, "紙")
}

func TestInputHandlerKatakanaAndPredict(t *testing.T) {
	svc := newService(t)
	in := strings.NewReader("/k\nkami\n/p ka\n/s\n")
	var out bytes.Buffer

	require.NoError(t, NewInputHandler(svc, kana.Hiragana, 10, in, &out).Start(context.Background()))
	text := out.String()
	assert.Contains(t, text, "カミ")
	assert.Contains(t, text, "紙")
	assert.Contains(t, text, "かみ かんじ")
	assert.Contains(t, text, "entries=2")
}

func TestInputHandlerBadCommit(t *testing.T) {
	svc := newService(t)
	in := strings.NewReader("/1\nxyz\n/1\n/bogus\n")
	var out bytes.Buffer

	require.NoError(t, NewInputHandler(svc, kana.Hiragana, 10, in, &out).Start(context.Background()))
	assert.Equal(t, 0, svc.Stats().Learned)
	assert.Contains(t, out.String(), "no reading")
}

func TestInputHandlerPersists(t *testing.T) {
	svc := newService(t)
	p, err := learning.OpenSQL(context.Background(), ":memory:")
	require.NoError(t, err)
	defer p.Close()

	in := strings.NewReader("kami\n/2\n")
	var out bytes.Buffer
	h := NewInputHandler(svc, kana.Hiragana, 1, in, &out).WithPersister(p)
	require.NoError(t, h.Start(context.Background()))

	// limit 1 hides the second candidate, so /2 commits nothing
	snap, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap)

	in = strings.NewReader("kami\n/1\n")
	h = NewInputHandler(svc, kana.Hiragana, 1, in, &out).WithPersister(p)
	require.NoError(t, h.Start(context.Background()))
	snap, err = p.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, learning.Snapshot{{Reading: "かみ", Candidate: "紙", Count: 1}}, snap)
}

func TestFormatWithCommas(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{160342, "160,342"},
		{-1234567, "-1,234,567"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatWithCommas(tt.in))
	}
}

func TestBanner(t *testing.T) {
	b := Banner("kanaserve", "v0.1.0")
	assert.Contains(t, b, "kanaserve")
	assert.Contains(t, b, "v0.1.0")
}
