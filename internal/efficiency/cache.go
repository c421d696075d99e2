package efficiency

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/angelmondragon/spendwise-backend/pkg/redis"
)

// ResultCache stores computed metrics per filter. Invalidate makes every cached
// result of an organization unreachable.
//
// Load resolves the slot a result for filter belongs to at the moment of the call.
// Callers compute on a miss and Store into that same slot, so a result computed
// from data older than an Invalidate lands under the retired generation.
type ResultCache interface {
	Load(ctx context.Context, filter Filter) (CacheSlot, []EfficiencyMetric, bool, error)
	Store(ctx context.Context, slot CacheSlot, metrics []EfficiencyMetric) error
	Invalidate(ctx context.Context, organizationID string) (int64, error)
}

// CacheSlot addresses one cached result. The zero slot is never written.
type CacheSlot struct {
	Key string
}

// IsZero reports whether the slot was never resolved.
func (s CacheSlot) IsZero() bool {
	return s.Key == ""
}

type generationStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	GetInt(ctx context.Context, key string) (int64, error)
	Incr(ctx context.Context, key string) (int64, error)
	EfficiencyGenerationKey(organizationID string) string
	EfficiencyResultKey(organizationID string, generation int64, fingerprint string) string
}

// RedisCache keys results by organization generation and filter fingerprint.
// Bumping the generation orphans old entries, which then age out by TTL.
type RedisCache struct {
	store generationStore
	ttl   time.Duration
}

// NewRedisCache builds a cache over the shared redis client.
func NewRedisCache(store generationStore, ttl time.Duration) (*RedisCache, error) {
	if store == nil {
		return nil, fmt.Errorf("redis store required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive")
	}
	return &RedisCache{store: store, ttl: ttl}, nil
}

func (c *RedisCache) slot(ctx context.Context, filter Filter) (CacheSlot, error) {
	generation, err := c.store.GetInt(ctx, c.store.EfficiencyGenerationKey(filter.OrganizationID))
	if err != nil {
		return CacheSlot{}, fmt.Errorf("read cache generation: %w", err)
	}
	return CacheSlot{Key: c.store.EfficiencyResultKey(filter.OrganizationID, generation, filter.Fingerprint())}, nil
}

// Load pins the current generation. A miss still returns the slot to Store into.
func (c *RedisCache) Load(ctx context.Context, filter Filter) (CacheSlot, []EfficiencyMetric, bool, error) {
	slot, err := c.slot(ctx, filter)
	if err != nil {
		return CacheSlot{}, nil, false, err
	}
	raw, err := c.store.Get(ctx, slot.Key)
	if redis.IsMiss(err) {
		return slot, nil, false, nil
	}
	if err != nil {
		return slot, nil, false, fmt.Errorf("read cached metrics: %w", err)
	}
	var metrics []EfficiencyMetric
	if err := json.Unmarshal([]byte(raw), &metrics); err != nil {
		return slot, nil, false, fmt.Errorf("decode cached metrics: %w", err)
	}
	return slot, metrics, true, nil
}

func (c *RedisCache) Store(ctx context.Context, slot CacheSlot, metrics []EfficiencyMetric) error {
	if slot.IsZero() {
		return fmt.Errorf("cache slot not resolved")
	}
	payload, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}
	if err := c.store.Set(ctx, slot.Key, string(payload), c.ttl); err != nil {
		return fmt.Errorf("write cached metrics: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, organizationID string) (int64, error) {
	if organizationID == "" {
		return 0, fmt.Errorf("organization id required")
	}
	generation, err := c.store.Incr(ctx, c.store.EfficiencyGenerationKey(organizationID))
	if err != nil {
		return 0, fmt.Errorf("bump cache generation: %w", err)
	}
	return generation, nil
}
