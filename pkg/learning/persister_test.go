package learning

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Options{Backend: "etcd"})
	assert.True(t, errors.Is(err, ErrUnknownBackend))
}

func TestOpenMemory(t *testing.T) {
	p, err := Open(context.Background(), Options{})
	require.NoError(t, err)
	require.NoError(t, p.Record(context.Background(), "かんじ", "漢字"))
	snap, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap)
	assert.NoError(t, p.Close())
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), Options{Backend: BackendFile})
	assert.Error(t, err)
	_, err = Open(context.Background(), Options{Backend: BackendSQLite})
	assert.Error(t, err)
	_, err = Open(context.Background(), Options{Backend: BackendRedis})
	assert.Error(t, err)
}

func TestFilePersisterRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "learning.msgpack")

	p := NewFilePersister(path)
	snap, err := p.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap)

	require.NoError(t, p.Record(ctx, "かんじ", "幹事"))
	require.NoError(t, p.Record(ctx, "かんじ", "幹事"))
	require.NoError(t, p.Record(ctx, "", "幹事"))
	require.NoError(t, p.Close())

	_, err = os.Stat(path)
	require.NoError(t, err)

	s := NewStore()
	n, err := Replay(ctx, NewFilePersister(path), s)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, s.Count("かんじ", "幹事"))
}

func TestFilePersisterContinuesCounts(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "learning.msgpack")

	p := NewFilePersister(path)
	require.NoError(t, p.Record(ctx, "あめ", "雨"))
	require.NoError(t, p.Close())

	p = NewFilePersister(path)
	_, err := p.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, p.Record(ctx, "あめ", "雨"))
	require.NoError(t, p.Close())

	snap, err := NewFilePersister(path).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Snapshot{{Reading: "あめ", Candidate: "雨", Count: 2}}, snap)
}

func TestFilePersisterWritesOnRecord(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "learning.msgpack")

	p := NewFilePersister(path)
	require.NoError(t, p.Record(ctx, "かんじ", "漢字"))

	// no Close: the snapshot must already be on disk
	snap, err := NewFilePersister(path).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Snapshot{{Reading: "かんじ", Candidate: "漢字", Count: 1}}, snap)

	require.NoError(t, p.Record(ctx, "かんじ", "漢字"))
	snap, err = NewFilePersister(path).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, snap[0].Count)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFilePersisterCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "learning.msgpack")
	require.NoError(t, os.WriteFile(path, []byte{0xc1}, 0o644))
	_, err := NewFilePersister(path).Load(context.Background())
	assert.Error(t, err)
}

func TestSQLPersister(t *testing.T) {
	ctx := context.Background()
	p, err := OpenSQL(ctx, ":memory:")
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.Record(ctx, "かんじ", "幹事"))
	require.NoError(t, p.Record(ctx, "かんじ", "幹事"))
	require.NoError(t, p.Record(ctx, "かんじ", "漢字"))
	require.NoError(t, p.Record(ctx, "かんじ", ""))

	snap, err := p.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Snapshot{
		{Reading: "かんじ", Candidate: "幹事", Count: 2},
		{Reading: "かんじ", Candidate: "漢字", Count: 1},
	}, snap)
}

func TestSQLPersisterFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db", "learning.db")

	p, err := Open(ctx, Options{Backend: "SQLite", Path: path})
	require.NoError(t, err)
	require.NoError(t, p.Record(ctx, "あめ", "飴"))
	require.NoError(t, p.Close())

	p, err = OpenSQL(ctx, path)
	require.NoError(t, err)
	defer p.Close()
	s := NewStore()
	_, err = Replay(ctx, p, s)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Count("あめ", "飴"))
}

func TestRedisPersister(t *testing.T) {
	addr := os.Getenv("KANASERVE_REDIS_ADDR")
	if addr == "" {
		t.Skip("KANASERVE_REDIS_ADDR not set")
	}
	ctx := context.Background()
	p, err := OpenRedis(ctx, addr, "kanaserve:test:"+t.Name())
	require.NoError(t, err)
	defer p.Close()
	require.NoError(t, p.rdb.Del(ctx, p.key).Err())
	defer p.rdb.Del(ctx, p.key)

	require.NoError(t, p.Record(ctx, "かんじ", "幹事"))
	require.NoError(t, p.Record(ctx, "かんじ", "幹事"))

	snap, err := p.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Snapshot{{Reading: "かんじ", Candidate: "幹事", Count: 2}}, snap)
}
