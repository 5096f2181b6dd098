package learning

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/bastiangx/kanaserve/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Entry is one learned pair with its count.
type Entry struct {
	Reading   string `msgpack:"r"`
	Candidate string `msgpack:"c"`
	Count     int    `msgpack:"n"`
}

// Snapshot is an opaque, serializable copy of a Store.
type Snapshot []Entry

func (s Snapshot) sort() {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Reading != s[j].Reading {
			return s[i].Reading < s[j].Reading
		}
		return s[i].Candidate < s[j].Candidate
	})
}

// EncodeSnapshot writes snap as msgpack.
func EncodeSnapshot(w io.Writer, snap Snapshot) error {
	return msgpack.NewEncoder(w).Encode(snap)
}

// DecodeSnapshot reads a msgpack snapshot.
func DecodeSnapshot(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// FilePersister keeps learned counts in a msgpack snapshot file. Every
// Record rewrites the snapshot, so a killed process loses nothing that was
// acknowledged.
type FilePersister struct {
	path  string
	store *Store
	dirty bool
	mu    sync.Mutex
}

var _ Persister = (*FilePersister)(nil)

// NewFilePersister returns a persister for path. The file is created on the
// first record.
func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path, store: NewStore()}
}

func (p *FilePersister) Load(ctx context.Context) (Snapshot, error) {
	f, err := os.Open(p.path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debugf("No learning snapshot at %s yet", p.path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("learning: opening snapshot: %w", err)
	}
	defer f.Close()

	snap, err := DecodeSnapshot(f)
	if err != nil {
		return nil, fmt.Errorf("learning: decoding snapshot %s: %w", p.path, err)
	}
	p.store.Restore(snap)
	return snap, nil
}

// Record counts the pair and writes the snapshot. When the write fails the
// count stays pending and goes out with the next successful write.
func (p *FilePersister) Record(ctx context.Context, reading, candidate string) error {
	if p.store.Increment(reading, candidate) == 0 {
		return nil
	}
	p.mu.Lock()
	p.dirty = true
	p.mu.Unlock()
	return p.Flush()
}

// Flush writes the snapshot atomically when there are unsaved records.
func (p *FilePersister) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.dirty {
		return nil
	}

	err := utils.WriteFileAtomic(p.path, func(w io.Writer) error {
		return EncodeSnapshot(w, p.store.Snapshot())
	})
	if err != nil {
		return fmt.Errorf("learning: writing snapshot %s: %w", p.path, err)
	}
	p.dirty = false
	log.Debugf("Learning snapshot written to %s", p.path)
	return nil
}

func (p *FilePersister) Close() error {
	return p.Flush()
}

// PairKey joins a pair into one flat key. Readings are kana and never
// contain the separator.
func PairKey(reading, candidate string) string {
	return reading + "|" + candidate
}

func splitPairKey(key string) (reading, candidate string, ok bool) {
	reading, candidate, ok = strings.Cut(key, "|")
	if !ok || reading == "" || candidate == "" {
		return "", "", false
	}
	return reading, candidate, true
}
