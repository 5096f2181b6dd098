package learning

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreIncrement(t *testing.T) {
	s := NewStore()
	assert.Equal(t, 0, s.Count("かんじ", "幹事"))
	assert.Equal(t, 1, s.Increment("かんじ", "幹事"))
	assert.Equal(t, 2, s.Increment("かんじ", "幹事"))
	assert.Equal(t, 2, s.Count("かんじ", "幹事"))
	assert.Equal(t, 0, s.Count("かんじ", "漢字"))
	assert.Equal(t, 1, s.Len())
}

func TestStoreIgnoresEmpty(t *testing.T) {
	s := NewStore()
	assert.Equal(t, 0, s.Increment("", "漢字"))
	assert.Equal(t, 0, s.Increment("かんじ", ""))
	assert.Equal(t, 0, s.Len())
}

func TestStoreConcurrentIncrements(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				s.Increment("あめ", "雨")
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1000, s.Count("あめ", "雨"))
}

func TestSnapshotRestore(t *testing.T) {
	s := NewStore()
	s.Increment("かんじ", "幹事")
	s.Increment("かんじ", "幹事")
	s.Increment("あめ", "飴")

	var buf bytes.Buffer
	require.NoError(t, EncodeSnapshot(&buf, s.Snapshot()))
	snap, err := DecodeSnapshot(&buf)
	require.NoError(t, err)
	assert.Equal(t, Snapshot{
		{Reading: "あめ", Candidate: "飴", Count: 1},
		{Reading: "かんじ", Candidate: "幹事", Count: 2},
	}, snap)

	other := NewStore()
	other.Increment("かんじ", "幹事")
	other.Increment("かんじ", "幹事")
	other.Increment("かんじ", "幹事")
	other.Restore(snap)
	// restore never lowers a count
	assert.Equal(t, 3, other.Count("かんじ", "幹事"))
	assert.Equal(t, 1, other.Count("あめ", "飴"))
}

func TestSplitPairKey(t *testing.T) {
	r, c, ok := splitPairKey(PairKey("かんじ", "漢字"))
	assert.True(t, ok)
	assert.Equal(t, "かんじ", r)
	assert.Equal(t, "漢字", c)

	_, _, ok = splitPairKey("かんじ")
	assert.False(t, ok)
	_, _, ok = splitPairKey("|漢字")
	assert.False(t, ok)
}
