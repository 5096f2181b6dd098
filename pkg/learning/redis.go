package learning

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash that holds learned counts.
const DefaultRedisKey = "kanaserve:learning"

// RedisPersister keeps counts in one Redis hash keyed by "reading|candidate".
type RedisPersister struct {
	rdb *redis.Client
	key string
}

var _ Persister = (*RedisPersister)(nil)

// OpenRedis connects to addr and verifies the connection with a PING.
func OpenRedis(ctx context.Context, addr, key string) (*RedisPersister, error) {
	if addr == "" {
		return nil, fmt.Errorf("learning: redis backend needs an address")
	}
	if key == "" {
		key = DefaultRedisKey
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("learning: redis ping failed: %w", err)
	}
	return &RedisPersister{rdb: rdb, key: key}, nil
}

func (p *RedisPersister) Load(ctx context.Context) (Snapshot, error) {
	fields, err := p.rdb.HGetAll(ctx, p.key).Result()
	if err != nil {
		return nil, fmt.Errorf("learning: reading %s: %w", p.key, err)
	}

	snap := make(Snapshot, 0, len(fields))
	for field, raw := range fields {
		reading, candidate, ok := splitPairKey(field)
		if !ok {
			log.Warnf("Skipping malformed learning field %q", field)
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			log.Warnf("Skipping learning field %q with count %q", field, raw)
			continue
		}
		snap = append(snap, Entry{Reading: reading, Candidate: candidate, Count: n})
	}
	snap.sort()
	return snap, nil
}

func (p *RedisPersister) Record(ctx context.Context, reading, candidate string) error {
	if reading == "" || candidate == "" {
		return nil
	}
	return p.rdb.HIncrBy(ctx, p.key, PairKey(reading, candidate), 1).Err()
}

func (p *RedisPersister) Close() error {
	return p.rdb.Close()
}
