package learning

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownBackend is returned by Open for an unrecognized backend name.
var ErrUnknownBackend = errors.New("learning: unknown backend")

// Persister mirrors commits outside the process so counts survive restarts.
// The suggest core never calls it; the host records each commit and replays
// Load into a Store at startup.
type Persister interface {
	Load(ctx context.Context) (Snapshot, error)
	Record(ctx context.Context, reading, candidate string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Options selects and configures a Persister.
type Options struct {
	Backend   string
	Path      string
	RedisAddr string
	RedisKey  string
}

// Open returns the Persister named by opts.Backend. The memory backend (or
// an empty name) persists nothing.
func Open(ctx context.Context, opts Options) (Persister, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendMemory:
		return nopPersister{}, nil
	case BackendFile:
		if opts.Path == "" {
			return nil, fmt.Errorf("learning: file backend needs a path")
		}
		return NewFilePersister(opts.Path), nil
	case BackendSQLite:
		if opts.Path == "" {
			return nil, fmt.Errorf("learning: sqlite backend needs a path")
		}
		return OpenSQL(ctx, opts.Path)
	case BackendRedis:
		return OpenRedis(ctx, opts.RedisAddr, opts.RedisKey)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// Replay loads p's snapshot into s.
func Replay(ctx context.Context, p Persister, s *Store) (int, error) {
	snap, err := p.Load(ctx)
	if err != nil {
		return 0, err
	}
	s.Restore(snap)
	return len(snap), nil
}

type nopPersister struct{}

func (nopPersister) Load(context.Context) (Snapshot, error)       { return nil, nil }
func (nopPersister) Record(context.Context, string, string) error { return nil }
func (nopPersister) Close() error                                 { return nil }
