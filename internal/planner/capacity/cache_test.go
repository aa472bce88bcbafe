package capacity

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenserve/capacity-planner/internal/shared/models"
)

// fakeStore is an in-memory capacity memo.
type fakeStore struct {
	mu      sync.Mutex
	results map[models.CapacityKey]models.CapacityResult
	upserts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{results: make(map[models.CapacityKey]models.CapacityResult)}
}

func (s *fakeStore) GetCapacity(_ context.Context, key models.CapacityKey) (*models.CapacityResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.results[key]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &res, nil
}

func (s *fakeStore) UpsertCapacity(_ context.Context, key models.CapacityKey, res *models.CapacityResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[key] = *res
	s.upserts++
	return nil
}

// fakeProfiles serves fixed reference data.
type fakeProfiles struct {
	perfs  map[[2]string]models.ModelPerformance
	levels map[string]models.ServiceLevel
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{
		perfs: map[[2]string]models.ModelPerformance{
			{"moonshotai-kimi-k2-thinking", "RTX4090x4"}: *benchKimiRTX(),
		},
		levels: map[string]models.ServiceLevel{
			"standard": *levelStandard(),
		},
	}
}

func (p *fakeProfiles) GetModelPerformance(_ context.Context, modelKey, hardwareName string) (*models.ModelPerformance, error) {
	perf, ok := p.perfs[[2]string{modelKey, hardwareName}]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &perf, nil
}

func (p *fakeProfiles) GetServiceLevel(_ context.Context, level string) (*models.ServiceLevel, error) {
	sl, ok := p.levels[level]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &sl, nil
}

// fakeHot is an in-memory HotLayer without expiry.
type fakeHot struct {
	mu   sync.Mutex
	data map[string]string
}

func (h *fakeHot) Get(_ context.Context, key string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	val, ok := h.data[key]
	if !ok {
		return "", models.ErrNotFound
	}
	return val, nil
}

func (h *fakeHot) Set(_ context.Context, key, value string, _ time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.data[key] = value
	return nil
}

func kimiKey(in, out int) models.CapacityKey {
	return models.CapacityKey{
		HardwareName: "RTX4090x4",
		ModelKey:     "moonshotai-kimi-k2-thinking",
		ServiceLevel: "standard",
		InputTokens:  in,
		OutputTokens: out,
	}
}

func TestGetOrComputeDeterministic(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	cache := NewCache(store, newFakeProfiles(), nil, 0)

	first, hit, err := cache.GetOrCompute(ctx, kimiKey(1000, 500))
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 159, first.EffectiveConcurrency)

	second, hit, err := cache.GetOrCompute(ctx, kimiKey(1000, 500))
	require.NoError(t, err)
	assert.True(t, hit)

	// Field-for-field identical: the stored value is returned, not a
	// recomputation.
	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.upserts)
}

func TestGetOrComputeNotFoundNeverCached(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	profiles := newFakeProfiles()
	cache := NewCache(store, profiles, nil, 0)

	key := models.CapacityKey{
		HardwareName: "RTX4090x4",
		ModelKey:     "unknown-model",
		ServiceLevel: "standard",
		InputTokens:  1000,
		OutputTokens: 500,
	}

	res, _, err := cache.GetOrCompute(ctx, key)
	assert.Nil(t, res)
	assert.True(t, models.IsNotFound(err))
	assert.Empty(t, store.results)

	// Once a benchmark lands, the same key becomes derivable.
	profiles.perfs[[2]string{"unknown-model", "RTX4090x4"}] = models.ModelPerformance{
		ModelKey:          "unknown-model",
		HardwareName:      "RTX4090x4",
		MaxConcurrent:     100,
		AvgResponseTimeMs: 2000,
	}
	res, hit, err := cache.GetOrCompute(ctx, key)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 79, res.EffectiveConcurrency)
}

func TestGetOrComputeUnknownServiceLevel(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	cache := NewCache(store, newFakeProfiles(), nil, 0)

	key := kimiKey(1000, 500)
	key.ServiceLevel = "platinum"

	_, _, err := cache.GetOrCompute(ctx, key)
	assert.True(t, models.IsNotFound(err))
	assert.Empty(t, store.results)
}

func TestGetOrComputeKeyIsolation(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	cache := NewCache(store, newFakeProfiles(), nil, 0)

	light, _, err := cache.GetOrCompute(ctx, kimiKey(1000, 500))
	require.NoError(t, err)
	heavy, _, err := cache.GetOrCompute(ctx, kimiKey(50000, 10000))
	require.NoError(t, err)

	assert.Equal(t, 159, light.EffectiveConcurrency)
	assert.Equal(t, 52, heavy.EffectiveConcurrency)
	assert.Len(t, store.results, 2)

	// Overwriting one key leaves the other untouched.
	require.NoError(t, store.UpsertCapacity(ctx, kimiKey(1000, 500), &models.CapacityResult{EffectiveConcurrency: 1}))
	heavyAgain, hit, err := cache.GetOrCompute(ctx, kimiKey(50000, 10000))
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, heavy, heavyAgain)
}

func TestGetOrComputeStaleMemoIsTrusted(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	profiles := newFakeProfiles()
	cache := NewCache(store, profiles, nil, 0)

	key := kimiKey(1000, 500)
	_, _, err := cache.GetOrCompute(ctx, key)
	require.NoError(t, err)

	// Benchmark changes under the memo; the stored value still wins until
	// an explicit re-derivation replaces it.
	perf := profiles.perfs[[2]string{"moonshotai-kimi-k2-thinking", "RTX4090x4"}]
	perf.MaxConcurrent = 400
	profiles.perfs[[2]string{"moonshotai-kimi-k2-thinking", "RTX4090x4"}] = perf

	res, hit, err := cache.GetOrCompute(ctx, key)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 159, res.EffectiveConcurrency)
}

func TestGetOrComputeHotLayer(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	hot := &fakeHot{data: make(map[string]string)}
	cache := NewCache(store, newFakeProfiles(), hot, time.Hour)

	first, hit, err := cache.GetOrCompute(ctx, kimiKey(1000, 500))
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, hot.data, 1)

	second, hit, err := cache.GetOrCompute(ctx, kimiKey(1000, 500))
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)

	// A corrupt hot entry falls back to the persistent memo.
	for k := range hot.data {
		hot.data[k] = "{not json"
	}
	third, hit, err := cache.GetOrCompute(ctx, kimiKey(1000, 500))
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, third)
}
