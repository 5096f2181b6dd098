/*
Package dictionary builds and queries the reading -> candidates index.

The source is an SKK-style text file: `;` comment lines and data lines of
the form

	かんじ /漢字/幹事;secretary/

Readings are folded to hiragana; candidates keep first-seen order and are
never duplicated. A built Dictionary is immutable and safe for concurrent
readers.
*/
package dictionary

import (
	"sort"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Dictionary is an immutable reading -> candidate list mapping.
type Dictionary struct {
	trie    *patricia.Trie
	entries int
}

// entry accumulates candidates for one reading while building.
type entry struct {
	candidates []string
	candSet    map[string]struct{}
}

func newEntry() *entry {
	return &entry{candSet: make(map[string]struct{})}
}

func (e *entry) add(text string) bool {
	if _, ok := e.candSet[text]; ok {
		return false
	}
	e.candSet[text] = struct{}{}
	e.candidates = append(e.candidates, text)
	return true
}

// Builder collects entries before freezing them into a Dictionary.
// A Builder is not safe for concurrent use.
type Builder struct {
	entries map[string]*entry
	order   []string
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{entries: make(map[string]*entry)}
}

// Add appends the not-yet-present candidates to reading's list, creating
// the entry when absent. Empty readings and candidates are ignored.
func (b *Builder) Add(reading string, candidates ...string) {
	if reading == "" {
		return
	}
	e, ok := b.entries[reading]
	if !ok {
		e = newEntry()
		b.entries[reading] = e
		b.order = append(b.order, reading)
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		e.add(c)
	}
}

// Build freezes the collected entries. Readings that ended up with no
// candidates are dropped.
func (b *Builder) Build() *Dictionary {
	d := &Dictionary{trie: patricia.NewTrie()}
	for _, reading := range b.order {
		e := b.entries[reading]
		if len(e.candidates) == 0 {
			continue
		}
		d.trie.Insert(patricia.Prefix(reading), e.candidates)
		d.entries++
	}
	log.Debugf("Dictionary built: %d readings", d.entries)
	return d
}

// Len returns the number of readings.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return d.entries
}

// Lookup returns a copy of the candidate list for reading, or nil.
func (d *Dictionary) Lookup(reading string) []string {
	if d == nil || reading == "" {
		return nil
	}
	item := d.trie.Get(patricia.Prefix(reading))
	if item == nil {
		return nil
	}
	cands := item.([]string)
	out := make([]string, len(cands))
	copy(out, cands)
	return out
}

// ReadingsWithPrefix lists readings starting with prefix in lexicographic
// order, truncated to limit results (limit <= 0 means no limit).
func (d *Dictionary) ReadingsWithPrefix(prefix string, limit int) []string {
	if d == nil || prefix == "" {
		return nil
	}
	var out []string
	err := d.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, _ patricia.Item) error {
		out = append(out, string(p))
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting dictionary subtree: %v", err)
	}
	sort.Strings(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
