package capacity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenserve/capacity-planner/internal/shared/models"
)

func benchKimiRTX() *models.ModelPerformance {
	return &models.ModelPerformance{
		ModelKey:          "moonshotai-kimi-k2-thinking",
		HardwareName:      "RTX4090x4",
		MaxConcurrent:     200,
		MemoryUsageGB:     80,
		AvgResponseTimeMs: 5500,
	}
}

func levelStandard() *models.ServiceLevel {
	return &models.ServiceLevel{
		Level:              "standard",
		Name:               "Standard",
		AvailabilityTarget: 0.995,
		MaxConcurrentRatio: 0.8,
	}
}

func TestDeriveLightTokenLoad(t *testing.T) {
	// Below baseline the token adjustment floors at 1.0 and the raw
	// benchmark concurrency passes through undegraded.
	res, err := Derive(benchKimiRTX(), levelStandard(), 1000, 500)
	require.NoError(t, err)

	assert.Equal(t, 159, res.EffectiveConcurrency)
	assert.InDelta(t, float64(159)/5.5*0.995, res.EffectiveQPS, 1e-9)
	assert.InDelta(t, 79.5, res.MemoryUsagePercent, 1e-9)
	assert.InDelta(t, 79.1025, res.CPUUsagePercent, 1e-9)
}

func TestDeriveHeavyTokenLoad(t *testing.T) {
	// 60k tokens is 6x baseline: concurrency degrades to 200/3 before the
	// service-level discounts apply.
	res, err := Derive(benchKimiRTX(), levelStandard(), 50000, 10000)
	require.NoError(t, err)

	assert.Equal(t, 52, res.EffectiveConcurrency)
}

func TestDeriveBaselineRatioOnly(t *testing.T) {
	res, err := DeriveBaseline(benchKimiRTX(), levelStandard())
	require.NoError(t, err)

	// No token adjustment: floor(200 * 0.8 * 0.995).
	assert.Equal(t, 159, res.EffectiveConcurrency)
}

func TestDeriveBoundedByBenchmark(t *testing.T) {
	perf := benchKimiRTX()
	levels := []*models.ServiceLevel{
		{Level: "basic", AvailabilityTarget: 0.99, MaxConcurrentRatio: 1.0},
		{Level: "standard", AvailabilityTarget: 0.995, MaxConcurrentRatio: 0.8},
		{Level: "premium", AvailabilityTarget: 0.999, MaxConcurrentRatio: 0.6},
		{Level: "enterprise", AvailabilityTarget: 0.9999, MaxConcurrentRatio: 0.4},
	}

	for _, level := range levels {
		for _, tokens := range []int{100, 1000, 10000, 100000} {
			res, err := Derive(perf, level, tokens, tokens)
			require.NoError(t, err)
			assert.LessOrEqual(t, res.EffectiveConcurrency, perf.MaxConcurrent,
				"level %s at %d tokens", level.Level, tokens)
		}
	}
}

func TestDeriveMonotoneInTokenVolume(t *testing.T) {
	perf := benchKimiRTX()
	level := levelStandard()

	prev := perf.MaxConcurrent + 1
	for tokens := 500; tokens <= 200000; tokens += 500 {
		res, err := Derive(perf, level, tokens, tokens)
		require.NoError(t, err)
		assert.LessOrEqual(t, res.EffectiveConcurrency, prev,
			"concurrency increased at %d tokens", tokens)
		prev = res.EffectiveConcurrency
	}
}

func TestDeriveCPUClamp(t *testing.T) {
	// basic tier keeps the full benchmarked concurrency; utilization would
	// exceed the ceiling without the clamp.
	perf := benchKimiRTX()
	level := &models.ServiceLevel{Level: "basic", AvailabilityTarget: 1.0, MaxConcurrentRatio: 1.0}

	res, err := Derive(perf, level, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, 95.0, res.CPUUsagePercent)
	assert.Equal(t, perf.MaxConcurrent, res.EffectiveConcurrency)
}

func TestDeriveInvalidConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(perf *models.ModelPerformance, level *models.ServiceLevel)
		in     int
		out    int
	}{
		{"zero input tokens", func(*models.ModelPerformance, *models.ServiceLevel) {}, 0, 500},
		{"negative output tokens", func(*models.ModelPerformance, *models.ServiceLevel) {}, 1000, -1},
		{"zero max concurrent", func(p *models.ModelPerformance, _ *models.ServiceLevel) { p.MaxConcurrent = 0 }, 1000, 500},
		{"zero response time", func(p *models.ModelPerformance, _ *models.ServiceLevel) { p.AvgResponseTimeMs = 0 }, 1000, 500},
		{"ratio above one", func(_ *models.ModelPerformance, l *models.ServiceLevel) { l.MaxConcurrentRatio = 1.5 }, 1000, 500},
		{"zero availability", func(_ *models.ModelPerformance, l *models.ServiceLevel) { l.AvailabilityTarget = 0 }, 1000, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perf := benchKimiRTX()
			level := levelStandard()
			tt.mutate(perf, level)

			res, err := Derive(perf, level, tt.in, tt.out)
			assert.Nil(t, res)
			assert.True(t, models.IsInvalidConfiguration(err), "got %v", err)
		})
	}
}

func TestDeriveDeterministic(t *testing.T) {
	a, err := Derive(benchKimiRTX(), levelStandard(), 1234, 567)
	require.NoError(t, err)
	b, err := Derive(benchKimiRTX(), levelStandard(), 1234, 567)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}
