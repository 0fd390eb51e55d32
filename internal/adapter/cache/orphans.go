package cache

import (
	"context"
	"fmt"
	"strconv"

	"studentloan-backend/internal/domain/application"

	"github.com/redis/go-redis/v9"
)

const defaultOrphanKey = "loan:orphans"

// RedisOrphanLedger keeps orphaned application ids in a redis set, so a
// repeated failure for the same id is stored once.
type RedisOrphanLedger struct {
	rdb *redis.Client
	key string
}

var _ application.OrphanLedger = (*RedisOrphanLedger)(nil)

func NewRedisOrphanLedger(rdb *redis.Client) *RedisOrphanLedger {
	return &RedisOrphanLedger{rdb: rdb, key: defaultOrphanKey}
}

func (l *RedisOrphanLedger) Record(ctx context.Context, applicationID uint64) error {
	return l.rdb.SAdd(ctx, l.key, strconv.FormatUint(applicationID, 10)).Err()
}

// Drain removes and returns up to max ids.
func (l *RedisOrphanLedger) Drain(ctx context.Context, max int) ([]uint64, error) {
	if max <= 0 {
		return []uint64{}, nil
	}
	raw, err := l.rdb.SPopN(ctx, l.key, int64(max)).Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}
	out := make([]uint64, 0, len(raw))
	for _, s := range raw {
		id, perr := strconv.ParseUint(s, 10, 64)
		if perr != nil {
			return out, fmt.Errorf("orphan ledger: bad member %q: %w", s, perr)
		}
		out = append(out, id)
	}
	return out, nil
}

// Size is the number of ids waiting to be swept.
func (l *RedisOrphanLedger) Size(ctx context.Context) (int64, error) {
	return l.rdb.SCard(ctx, l.key).Result()
}
