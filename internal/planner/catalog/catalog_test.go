package catalog

import (
	"context"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenserve/capacity-planner/internal/shared/models"
)

type fakeCatalogStore struct {
	hardware   map[string]models.HardwareProfile
	benchmarks map[[2]string]models.ModelPerformance
	levels     map[string]models.ServiceLevel
	pricing    map[string]models.PricingRecord
}

func newFakeCatalogStore() *fakeCatalogStore {
	return &fakeCatalogStore{
		hardware:   make(map[string]models.HardwareProfile),
		benchmarks: make(map[[2]string]models.ModelPerformance),
		levels:     make(map[string]models.ServiceLevel),
		pricing:    make(map[string]models.PricingRecord),
	}
}

func (s *fakeCatalogStore) UpsertHardware(_ context.Context, hw *models.HardwareProfile) error {
	s.hardware[hw.Name] = *hw
	return nil
}

func (s *fakeCatalogStore) UpsertModelPerformance(_ context.Context, perf *models.ModelPerformance) error {
	s.benchmarks[[2]string{perf.ModelKey, perf.HardwareName}] = *perf
	return nil
}

func (s *fakeCatalogStore) UpsertServiceLevel(_ context.Context, sl *models.ServiceLevel) error {
	s.levels[sl.Level] = *sl
	return nil
}

func (s *fakeCatalogStore) UpsertModelPricing(_ context.Context, p *models.PricingRecord) error {
	s.pricing[p.ModelKey] = *p
	return nil
}

func (s *fakeCatalogStore) GetModelPricing(_ context.Context, modelKey string) (*models.PricingRecord, error) {
	p, ok := s.pricing[modelKey]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &p, nil
}

type fakeLister struct {
	models []openai.Model
}

func (f *fakeLister) ListModels(context.Context) (openai.ModelsList, error) {
	return openai.ModelsList{Models: f.models}, nil
}

func TestModelKey(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"moonshotai/Kimi-K2-Thinking", "moonshotai-kimi-k2-thinking"},
		{"Qwen/Qwen2.5-14B-Instruct", "qwen-qwen2-5-14b-instruct"},
		{"gpt-4o", "gpt-4o"},
		{"--weird__name--", "weird-name"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ModelKey(tt.name), tt.name)
	}
}

func TestSeedDefaults(t *testing.T) {
	store := newFakeCatalogStore()
	require.NoError(t, SeedDefaults(context.Background(), store))

	assert.Len(t, store.levels, 4)
	assert.Len(t, store.hardware, 2)
	assert.Len(t, store.benchmarks, 3)

	standard := store.levels["standard"]
	assert.Equal(t, 0.995, standard.AvailabilityTarget)
	assert.Equal(t, 0.8, standard.MaxConcurrentRatio)

	// Seeding twice replaces rather than duplicating.
	require.NoError(t, SeedDefaults(context.Background(), store))
	assert.Len(t, store.levels, 4)
}

func TestSyncRegistersNewModels(t *testing.T) {
	store := newFakeCatalogStore()
	lister := &fakeLister{models: []openai.Model{
		{ID: "moonshotai/Kimi-K2-Thinking", OwnedBy: "moonshotai"},
		{ID: "Qwen/Qwen2.5-Coder-7B"},
	}}

	added, err := Sync(context.Background(), store, lister)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	kimi := store.pricing["moonshotai-kimi-k2-thinking"]
	assert.Equal(t, models.CategoryFree, kimi.Category)
	assert.Equal(t, "moonshotai", kimi.Provider)
	assert.Equal(t, "Thinking", kimi.ModelType)

	coder := store.pricing["qwen-qwen2-5-coder-7b"]
	assert.Equal(t, "Code", coder.ModelType)
}

func TestSyncNeverOverwritesExistingPricing(t *testing.T) {
	store := newFakeCatalogStore()
	store.pricing["gpt-4o"] = models.PricingRecord{
		ModelKey: "gpt-4o", Category: models.CategoryPaid, InputPricePerM: 2.5,
	}
	lister := &fakeLister{models: []openai.Model{{ID: "gpt-4o"}}}

	added, err := Sync(context.Background(), store, lister)
	require.NoError(t, err)
	assert.Equal(t, 0, added)
	assert.Equal(t, 2.5, store.pricing["gpt-4o"].InputPricePerM)
}
