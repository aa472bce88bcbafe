package capacity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/tokenserve/capacity-planner/internal/shared/models"
)

// ProfileStore provides the immutable reference data the derivation reads.
type ProfileStore interface {
	GetModelPerformance(ctx context.Context, modelKey, hardwareName string) (*models.ModelPerformance, error)
	GetServiceLevel(ctx context.Context, level string) (*models.ServiceLevel, error)
}

// Store is the persistent memo table keyed by the full capacity tuple.
// Upserts must be atomic per row (single-statement upsert).
type Store interface {
	GetCapacity(ctx context.Context, key models.CapacityKey) (*models.CapacityResult, error)
	UpsertCapacity(ctx context.Context, key models.CapacityKey, res *models.CapacityResult) error
}

// HotLayer is an optional volatile cache in front of the persistent memo.
// Entries there may expire; the persistent memo never does.
type HotLayer interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// Cache implements cache-aside memoization of derived capacity results.
// A stored result is returned verbatim on repeat lookups; it is never
// silently recomputed, only replaced by an explicit re-derivation.
type Cache struct {
	store    Store
	profiles ProfileStore
	hot      HotLayer // may be nil
	hotTTL   time.Duration
}

// NewCache creates a capacity cache. hot may be nil to disable the volatile
// layer.
func NewCache(store Store, profiles ProfileStore, hot HotLayer, hotTTL time.Duration) *Cache {
	return &Cache{
		store:    store,
		profiles: profiles,
		hot:      hot,
		hotTTL:   hotTTL,
	}
}

// GetOrCompute returns the capacity result for key, deriving and persisting
// it on first use. The returned bool reports whether the result came from
// the memo. Derivation failures (models.ErrNotFound for a missing benchmark
// or unknown service level, models.ErrInvalidConfiguration for unusable
// reference data) are surfaced to the caller and never cached, so an
// incomplete configuration can become valid later once data is added.
func (c *Cache) GetOrCompute(ctx context.Context, key models.CapacityKey) (*models.CapacityResult, bool, error) {
	hotKey := hotCacheKey(key)

	if c.hot != nil {
		if val, err := c.hot.Get(ctx, hotKey); err == nil {
			var res models.CapacityResult
			if err := json.Unmarshal([]byte(val), &res); err == nil {
				return &res, true, nil
			}
			// Corrupt hot entry; fall through to the persistent memo.
			slog.Debug("discarding unreadable hot cache entry", "key", hotKey)
		}
	}

	if res, err := c.store.GetCapacity(ctx, key); err == nil {
		c.fillHotLayer(ctx, hotKey, res)
		return res, true, nil
	} else if !models.IsNotFound(err) {
		return nil, false, err
	}

	perf, err := c.profiles.GetModelPerformance(ctx, key.ModelKey, key.HardwareName)
	if err != nil {
		return nil, false, err
	}
	level, err := c.profiles.GetServiceLevel(ctx, key.ServiceLevel)
	if err != nil {
		return nil, false, err
	}

	res, err := Derive(perf, level, key.InputTokens, key.OutputTokens)
	if err != nil {
		return nil, false, err
	}

	if err := c.store.UpsertCapacity(ctx, key, res); err != nil {
		return nil, false, fmt.Errorf("persist capacity: %w", err)
	}
	c.fillHotLayer(ctx, hotKey, res)

	slog.Debug("capacity derived",
		"hardware", key.HardwareName, "model", key.ModelKey, "level", key.ServiceLevel,
		"concurrency", res.EffectiveConcurrency)

	return res, false, nil
}

func (c *Cache) fillHotLayer(ctx context.Context, hotKey string, res *models.CapacityResult) {
	if c.hot == nil {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := c.hot.Set(ctx, hotKey, string(data), c.hotTTL); err != nil {
		slog.Debug("hot cache set failed", "key", hotKey, "error", err)
	}
}

func hotCacheKey(key models.CapacityKey) string {
	return fmt.Sprintf("capacity:%s:%s:%s:%d:%d",
		key.HardwareName, key.ModelKey, key.ServiceLevel, key.InputTokens, key.OutputTokens)
}
