package repo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"server/internal/domain"
)

const (
	cacheKeyPrefix  = "itinerary:job:"
	defaultCacheTTL = 24 * time.Hour
)

// CachedStore decorates a JobStore with a redis cache for terminal
// records. Terminal records never change, so a hit can always be served
// without touching the store; processing jobs are never cached.
type CachedStore struct {
	domain.JobStore
	rdb *redis.Client
	ttl time.Duration
}

// NewCachedStore wraps store with a terminal-record cache.
func NewCachedStore(store domain.JobStore, rdb *redis.Client) *CachedStore {
	return &CachedStore{JobStore: store, rdb: rdb, ttl: defaultCacheTTL}
}

// Get serves terminal records from the cache when possible, falling back
// to the underlying store. Cache failures degrade to store reads.
func (c *CachedStore) Get(ctx context.Context, id string) (*domain.Job, error) {
	key := cacheKeyPrefix + id
	if raw, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var job domain.Job
		if err := json.Unmarshal(raw, &job); err == nil {
			return &job, nil
		}
	}

	job, err := c.JobStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status.Terminal() {
		if raw, err := json.Marshal(job); err == nil {
			_ = c.rdb.Set(ctx, key, raw, c.ttl).Err()
		}
	}
	return job, nil
}

var _ domain.JobStore = (*CachedStore)(nil)
