package suggest

import (
	"testing"

	"github.com/bastiangx/kanaserve/pkg/learning"
	"github.com/stretchr/testify/assert"
)

func TestRerank(t *testing.T) {
	base := []string{"紙", "神", "髪", "上"}

	tests := []struct {
		name    string
		commits []string
		want    []string
	}{
		{"no counts keeps order", nil, []string{"紙", "神", "髪", "上"}},
		{"single commit moves to front", []string{"髪"}, []string{"髪", "紙", "神", "上"}},
		{"higher count wins", []string{"上", "神", "上"}, []string{"上", "神", "紙", "髪"}},
		{"ties keep input order", []string{"上", "神"}, []string{"神", "上", "紙", "髪"}},
		{"unknown candidate ignored", []string{"守"}, []string{"紙", "神", "髪", "上"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := learning.NewStore()
			for _, c := range tt.commits {
				s.Increment("かみ", c)
			}
			got := Rerank(s, "かみ", base)
			assert.Equal(t, tt.want, got)
			assert.ElementsMatch(t, base, got)
		})
	}
}

func TestRerankIdempotent(t *testing.T) {
	s := learning.NewStore()
	s.Increment("かみ", "上")
	s.Increment("かみ", "髪")
	base := []string{"紙", "神", "髪", "上"}

	first := Rerank(s, "かみ", base)
	second := Rerank(s, "かみ", base)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"紙", "神", "髪", "上"}, base)
}

func TestRerankCountsAreScopedByReading(t *testing.T) {
	s := learning.NewStore()
	s.Increment("かみさま", "上")
	assert.Equal(t, []string{"紙", "上"}, Rerank(s, "かみ", []string{"紙", "上"}))
}

func TestRerankNilCounter(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Rerank(nil, "x", []string{"a", "b"}))
	assert.Empty(t, Rerank(nil, "x", nil))
}
