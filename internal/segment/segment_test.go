package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegment(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	toks := s.Segment("私は学生です")
	var surfaces, readings []string
	for _, tok := range toks {
		surfaces = append(surfaces, tok.Surface)
		readings = append(readings, tok.Reading)
	}
	assert.Equal(t, []string{"私", "は", "学生", "です"}, surfaces)
	assert.Equal(t, []string{"わたし", "は", "がくせい", "です"}, readings)
	assert.Equal(t, "名詞", toks[0].POS)
	assert.Equal(t, 0, toks[0].Start)
	assert.Equal(t, 1, toks[0].End)
}

func TestSegmentEmpty(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	assert.Empty(t, s.Segment(""))
	assert.Empty(t, s.Segment("   "))
}

func TestTrailingReading(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	r, ok := s.TrailingReading("私は学生")
	assert.True(t, ok)
	assert.Equal(t, "がくせい", r)

	_, ok = s.TrailingReading("")
	assert.False(t, ok)
}
