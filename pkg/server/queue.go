package server

// Queue holds requests that arrive before the dictionary is ready. It is
// a bounded FIFO; pushing onto a full queue evicts the oldest request.
// Only the server loop touches it.
type Queue struct {
	items []Request
	max   int
}

// DefaultQueueSize bounds the queue when no size is configured.
const DefaultQueueSize = 256

func NewQueue(max int) *Queue {
	if max <= 0 {
		max = DefaultQueueSize
	}
	return &Queue{max: max}
}

// Push appends r. It returns the evicted request, if any.
func (q *Queue) Push(r Request) (dropped *Request) {
	if len(q.items) >= q.max {
		old := q.items[0]
		q.items = q.items[1:]
		dropped = &old
	}
	q.items = append(q.items, r)
	return dropped
}

// Drain returns all queued requests in arrival order and empties the queue.
func (q *Queue) Drain() []Request {
	items := q.items
	q.items = nil
	return items
}

func (q *Queue) Len() int {
	return len(q.items)
}
