package capacity

import (
	"fmt"
	"math"

	"github.com/tokenserve/capacity-planner/internal/shared/models"
)

// BaselineTokens is the token volume (input + output) the benchmark figures
// in model_performance were measured at. Token profiles are normalized
// against it before degrading concurrency.
const BaselineTokens = 10000

// cpuCeiling is the saturation ceiling for reported CPU usage. Values above
// it are clamped, never reported.
const cpuCeiling = 95.0

// Derive computes the effective capacity of a (model, hardware) benchmark
// under a service level and a token profile. It is a pure function: the same
// inputs always produce the same result.
//
// Concurrency degrades as the token volume grows past BaselineTokens and is
// then discounted by the service level's concurrency ratio and availability
// target, modeling headroom reserved for failure tolerance. It never exceeds
// the benchmarked maximum.
func Derive(perf *models.ModelPerformance, level *models.ServiceLevel, inputTokens, outputTokens int) (*models.CapacityResult, error) {
	if inputTokens <= 0 || outputTokens <= 0 {
		return nil, fmt.Errorf("token counts must be positive (got %d/%d): %w",
			inputTokens, outputTokens, models.ErrInvalidConfiguration)
	}
	if err := validateInputs(perf, level); err != nil {
		return nil, err
	}

	tokenRatio := float64(inputTokens+outputTokens) / BaselineTokens
	adjusted := int(float64(perf.MaxConcurrent) / math.Max(1.0, tokenRatio*0.5))

	return finish(perf, level, adjusted), nil
}

// DeriveBaseline is the ratio-only variant used when no token profile is
// supplied: the service level discounts the raw benchmarked concurrency
// without any token-volume adjustment. Derive is the canonical path; callers
// with a token profile should not use this.
func DeriveBaseline(perf *models.ModelPerformance, level *models.ServiceLevel) (*models.CapacityResult, error) {
	if err := validateInputs(perf, level); err != nil {
		return nil, err
	}
	return finish(perf, level, perf.MaxConcurrent), nil
}

func validateInputs(perf *models.ModelPerformance, level *models.ServiceLevel) error {
	if perf.MaxConcurrent <= 0 {
		return fmt.Errorf("benchmark %s/%s has non-positive max_concurrent: %w",
			perf.ModelKey, perf.HardwareName, models.ErrInvalidConfiguration)
	}
	if perf.AvgResponseTimeMs <= 0 {
		return fmt.Errorf("benchmark %s/%s has non-positive avg_response_time_ms: %w",
			perf.ModelKey, perf.HardwareName, models.ErrInvalidConfiguration)
	}
	if level.MaxConcurrentRatio <= 0 || level.MaxConcurrentRatio > 1 {
		return fmt.Errorf("service level %s has max_concurrent_ratio outside (0,1]: %w",
			level.Level, models.ErrInvalidConfiguration)
	}
	if level.AvailabilityTarget <= 0 || level.AvailabilityTarget > 1 {
		return fmt.Errorf("service level %s has availability_target outside (0,1]: %w",
			level.Level, models.ErrInvalidConfiguration)
	}
	return nil
}

func finish(perf *models.ModelPerformance, level *models.ServiceLevel, adjusted int) *models.CapacityResult {
	effective := int(float64(adjusted) * level.MaxConcurrentRatio * level.AvailabilityTarget)

	responseTimeSec := perf.AvgResponseTimeMs / 1000.0
	maxConcurrent := float64(perf.MaxConcurrent)

	return &models.CapacityResult{
		EffectiveConcurrency: effective,
		EffectiveQPS:         float64(effective) / responseTimeSec * level.AvailabilityTarget,
		MemoryUsagePercent:   float64(effective) / maxConcurrent * 100,
		CPUUsagePercent:      math.Min(cpuCeiling, float64(effective)/maxConcurrent*level.AvailabilityTarget*100),
	}
}
