package catalog

import (
	"context"
	"fmt"

	"github.com/tokenserve/capacity-planner/internal/shared/models"
)

// defaultServiceLevels are the built-in SLA tiers: higher availability
// targets trade away a larger share of the raw concurrency.
var defaultServiceLevels = []models.ServiceLevel{
	{Level: "basic", Name: "Basic", Description: "Standard availability, 99%", AvailabilityTarget: 0.99, MaxConcurrentRatio: 1.0},
	{Level: "standard", Name: "Standard", Description: "High availability, 99.5%", AvailabilityTarget: 0.995, MaxConcurrentRatio: 0.8},
	{Level: "premium", Name: "Premium", Description: "Very high availability, 99.9%", AvailabilityTarget: 0.999, MaxConcurrentRatio: 0.6},
	{Level: "enterprise", Name: "Enterprise", Description: "Highest availability, 99.99%", AvailabilityTarget: 0.9999, MaxConcurrentRatio: 0.4},
}

var defaultHardware = []models.HardwareProfile{
	{
		Name: "RTX4090x4", GPUType: "RTX4090", GPUCount: 4, GPUMemoryGB: 24,
		CPUCores: 32, MemoryGB: 128, StorageGB: 2000,
		PrefillTPS: 16000, DecodeTPS: 400, MaxConcurrentRequests: 200,
		PurchaseCost: 80000, MonthlyRentalCost: 8000, PowerConsumptionW: 1500,
		MonthlyMaintenance: 500, DepreciationYears: 5,
	},
	{
		Name: "A100x8", GPUType: "A100", GPUCount: 8, GPUMemoryGB: 80,
		CPUCores: 64, MemoryGB: 512, StorageGB: 4000,
		PrefillTPS: 32000, DecodeTPS: 800, MaxConcurrentRequests: 400,
		PurchaseCost: 320000, MonthlyRentalCost: 32000, PowerConsumptionW: 3000,
		MonthlyMaintenance: 2000, DepreciationYears: 5,
	},
}

// defaultBenchmarks are measured baselines for the built-in hardware.
var defaultBenchmarks = []models.ModelPerformance{
	{ModelKey: "moonshotai-kimi-k2-thinking", HardwareName: "RTX4090x4", MaxConcurrent: 200, MemoryUsageGB: 80, AvgResponseTimeMs: 5500},
	{ModelKey: "moonshotai-kimi-k2-thinking", HardwareName: "A100x8", MaxConcurrent: 400, MemoryUsageGB: 160, AvgResponseTimeMs: 2750},
	{ModelKey: "qwen2-7b", HardwareName: "RTX4090x4", MaxConcurrent: 250, MemoryUsageGB: 60, AvgResponseTimeMs: 4400},
}

// SeedDefaults registers the built-in service levels, hardware profiles, and
// benchmarks. Safe to run repeatedly: all writes are upserts.
func SeedDefaults(ctx context.Context, store Store) error {
	for i := range defaultServiceLevels {
		if err := store.UpsertServiceLevel(ctx, &defaultServiceLevels[i]); err != nil {
			return fmt.Errorf("seed service levels: %w", err)
		}
	}
	for i := range defaultHardware {
		if err := store.UpsertHardware(ctx, &defaultHardware[i]); err != nil {
			return fmt.Errorf("seed hardware: %w", err)
		}
	}
	for i := range defaultBenchmarks {
		if err := store.UpsertModelPerformance(ctx, &defaultBenchmarks[i]); err != nil {
			return fmt.Errorf("seed benchmarks: %w", err)
		}
	}
	return nil
}
