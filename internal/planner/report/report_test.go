package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tokenserve/capacity-planner/internal/shared/models"
)

func TestRender(t *testing.T) {
	in := Input{
		Pricing: &models.PricingRecord{
			ModelKey:        "qwen2-7b",
			ModelName:       "Qwen2 7B",
			Category:        models.CategoryPaid,
			InputPricePerM:  1.0,
			OutputPricePerM: 2.0,
		},
		Profile: models.ServiceProfile{InputTokens: 1000, OutputTokens: 500, ResponseTime: 3.5},
		Hardware: models.HardwareProfile{
			Name: "RTX4090x4", GPUType: "RTX4090", GPUCount: 4,
			PrefillTPS: 16000, DecodeTPS: 400, MaxConcurrentRequests: 200,
		},
		Params: models.ServiceParameters{
			LifecycleYears: 3, AverageLoadFactor: 0.3, ServiceLevel: "standard",
		},
		Projection: &models.LifecycleProjection{
			ConcurrentCapacity: 159,
			EffectiveQPS:       13.6,
			DailyRevenue:       1200.5,
			LifecycleRevenue:   100000,
			LifecycleNetRevenue: 70000,
			UtilizationRate:    0.3,
			HardwareCost:       models.HardwareCost{MonthlyCost: 8000, Mode: models.CostModeRental},
		},
	}

	out := Render(in)

	assert.Contains(t, out, "Qwen2 7B")
	assert.Contains(t, out, "RTX4090x4")
	assert.Contains(t, out, "159 requests")
	assert.Contains(t, out, "Margin: 70.0%")
	assert.NotContains(t, out, "approximated")
	assert.NotContains(t, out, "fine_tune prices")
}

func TestRenderApproximatedAndFineTune(t *testing.T) {
	in := Input{
		Pricing: &models.PricingRecord{
			ModelName: "Tuned", Category: models.CategoryFineTune,
		},
		Profile:  models.ServiceProfile{InputTokens: 100, OutputTokens: 100, ResponseTime: 1},
		Hardware: models.HardwareProfile{Name: "A100x8"},
		Params:   models.ServiceParameters{LifecycleYears: 1, AverageLoadFactor: 0.5, ServiceLevel: "basic"},
		Projection: &models.LifecycleProjection{
			Approximated: true,
			HardwareCost: models.HardwareCost{Mode: models.CostModePurchase},
		},
	}

	out := Render(in)
	assert.Contains(t, out, "approximated")
	assert.Contains(t, out, "fine_tune prices")
}
