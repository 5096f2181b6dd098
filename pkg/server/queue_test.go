package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue(3)
	for _, id := range []string{"a", "b", "c"} {
		assert.Nil(t, q.Push(Request{ID: id}))
	}
	assert.Equal(t, 3, q.Len())

	dropped := q.Push(Request{ID: "d"})
	require.NotNil(t, dropped)
	assert.Equal(t, "a", dropped.ID)

	var ids []string
	for _, r := range q.Drain() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"b", "c", "d"}, ids)
	assert.Equal(t, 0, q.Len())
	assert.Empty(t, q.Drain())
}

func TestQueueDefaultSize(t *testing.T) {
	assert.Equal(t, DefaultQueueSize, NewQueue(0).max)
	assert.Equal(t, DefaultQueueSize, NewQueue(-3).max)
}
