package suggest

import (
	"sort"

	"github.com/bastiangx/kanaserve/pkg/learning"
)

type scored struct {
	candidate string
	count     int
}

// Rerank returns a copy of candidates stably sorted by descending learned
// count for reading. Equal counts keep their input order, and the result
// holds exactly the input candidates.
func Rerank(c learning.Counter, reading string, candidates []string) []string {
	out := make([]string, len(candidates))
	copy(out, candidates)
	if c == nil || len(out) < 2 {
		return out
	}

	items := make([]scored, len(out))
	learned := false
	for i, cand := range out {
		items[i] = scored{cand, c.Count(reading, cand)}
		if items[i].count > 0 {
			learned = true
		}
	}
	if !learned {
		return out
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].count > items[j].count
	})
	for i := range items {
		out[i] = items[i].candidate
	}
	return out
}
