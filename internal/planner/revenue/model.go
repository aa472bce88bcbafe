package revenue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tokenserve/capacity-planner/internal/shared/models"
)

// Default cost constants used when the named hardware has no stored record.
const (
	defaultMonthlyRental      = 8000.0
	defaultPurchaseCost       = 80000.0
	defaultDepreciationYears  = 5
	defaultMonthlyMaintenance = 500.0
)

// fallbackRatio maps a service level to the discount factor applied to the
// hardware concurrency ceiling when no derived capacity is available. The
// projection degrades gracefully instead of failing, but is flagged as
// approximated.
var fallbackRatio = map[string]float64{
	"basic":      1.0,
	"standard":   0.8,
	"premium":    0.6,
	"enterprise": 0.4,
}

const defaultFallbackRatio = 0.8

const (
	secondsPerDay = 86400
	daysPerYear   = 365
)

// CapacityProvider is the memoized capacity lookup (capacity.Cache).
type CapacityProvider interface {
	GetOrCompute(ctx context.Context, key models.CapacityKey) (*models.CapacityResult, bool, error)
}

// HardwareStore resolves stored hardware cost attributes by name.
type HardwareStore interface {
	GetHardware(ctx context.Context, name string) (*models.HardwareProfile, error)
}

// Model projects lifecycle revenue and cost for a deployment. It is pure
// arithmetic over its inputs; any failure is a missing-input error surfaced
// immediately, never retried.
type Model struct {
	capacity        CapacityProvider
	hardware        HardwareStore
	electricityRate float64 // per kWh
}

// NewModel creates a revenue model. electricityRate is the configured price
// per kWh used for the purchase cost mode's power term.
func NewModel(capacity CapacityProvider, hardware HardwareStore, electricityRate float64) *Model {
	return &Model{
		capacity:        capacity,
		hardware:        hardware,
		electricityRate: electricityRate,
	}
}

// ProjectionInput bundles the inputs of a lifecycle projection. Hardware
// carries the caller-supplied performance figures; its cost attributes are
// resolved from the store by name, falling back to default constants when
// no record exists.
type ProjectionInput struct {
	Pricing  *models.PricingRecord
	Profile  models.ServiceProfile
	Hardware models.HardwareProfile
	Params   models.ServiceParameters
}

// Project computes the per-request, daily, annual, and lifecycle revenue,
// cost, and net figures for one deployment.
func (m *Model) Project(ctx context.Context, in ProjectionInput) (*models.LifecycleProjection, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	revenuePerRequest := float64(in.Profile.InputTokens)/1e6*in.Pricing.InputPricePerM +
		float64(in.Profile.OutputTokens)/1e6*in.Pricing.OutputPricePerM

	processingTime := float64(in.Profile.InputTokens)/in.Hardware.PrefillTPS +
		float64(in.Profile.OutputTokens)/in.Hardware.DecodeTPS

	concurrency, approximated, err := m.effectiveConcurrency(ctx, in)
	if err != nil {
		return nil, err
	}

	totalQPS := float64(concurrency) / in.Profile.ResponseTime
	effectiveQPS := totalQPS * in.Params.AverageLoadFactor

	dailyRequests := effectiveQPS * secondsPerDay
	dailyRevenue := dailyRequests * revenuePerRequest
	annualRevenue := dailyRevenue * daysPerYear
	lifecycleRevenue := annualRevenue * float64(in.Params.LifecycleYears)

	cost, err := m.hardwareCost(ctx, in)
	if err != nil {
		return nil, err
	}

	return &models.LifecycleProjection{
		ModelKey:            in.Pricing.ModelKey,
		HardwareName:        in.Hardware.Name,
		ServiceLevel:        in.Params.ServiceLevel,
		RevenuePerRequest:   revenuePerRequest,
		ProcessingTime:      processingTime,
		ConcurrentCapacity:  concurrency,
		EffectiveQPS:        effectiveQPS,
		DailyRequests:       dailyRequests,
		DailyRevenue:        dailyRevenue,
		DailyNetRevenue:     dailyRevenue - cost.MonthlyCost/30,
		AnnualRevenue:       annualRevenue,
		AnnualNetRevenue:    annualRevenue - cost.MonthlyCost*12,
		LifecycleRevenue:    lifecycleRevenue,
		LifecycleNetRevenue: lifecycleRevenue - cost.LifecycleCost,
		UtilizationRate:     in.Params.AverageLoadFactor,
		HardwareCost:        *cost,
		Approximated:        approximated,
		PricingCategory:     in.Pricing.Category,
	}, nil
}

// effectiveConcurrency resolves concurrency through the capacity cache,
// falling back to the static service-level ratio table when no benchmark or
// service level definition exists. The bool reports the fallback path.
func (m *Model) effectiveConcurrency(ctx context.Context, in ProjectionInput) (int, bool, error) {
	key := models.CapacityKey{
		HardwareName: in.Hardware.Name,
		ModelKey:     in.Pricing.ModelKey,
		ServiceLevel: in.Params.ServiceLevel,
		InputTokens:  in.Profile.InputTokens,
		OutputTokens: in.Profile.OutputTokens,
	}

	res, _, err := m.capacity.GetOrCompute(ctx, key)
	if err == nil {
		return res.EffectiveConcurrency, false, nil
	}
	if !models.IsNotFound(err) {
		return 0, false, err
	}

	ratio, ok := fallbackRatio[in.Params.ServiceLevel]
	if !ok {
		ratio = defaultFallbackRatio
	}

	slog.Debug("no derived capacity, using static ratio fallback",
		"model", key.ModelKey, "hardware", key.HardwareName, "level", key.ServiceLevel, "ratio", ratio)

	return int(float64(in.Hardware.MaxConcurrentRequests) * ratio), true, nil
}

// hardwareCost computes the monthly-equivalent and lifecycle hardware cost.
// Rental mode charges the stored monthly rate; purchase mode amortizes the
// purchase price linearly over the depreciation period and adds maintenance
// and power. A missing hardware record falls back to default constants.
func (m *Model) hardwareCost(ctx context.Context, in ProjectionInput) (*models.HardwareCost, error) {
	mode := in.Params.CostMode
	if mode == "" {
		mode = models.CostModeRental
	}

	var monthly float64
	stored, err := m.hardware.GetHardware(ctx, in.Hardware.Name)
	switch {
	case err == nil:
		if mode == models.CostModeRental {
			monthly = stored.MonthlyRentalCost
		} else {
			years := stored.DepreciationYears
			if years <= 0 {
				years = defaultDepreciationYears
			}
			monthly = stored.PurchaseCost/float64(years)/12 +
				stored.MonthlyMaintenance +
				powerCost(stored.PowerConsumptionW, m.electricityRate)
		}
	case models.IsNotFound(err):
		if mode == models.CostModeRental {
			monthly = defaultMonthlyRental
		} else {
			monthly = defaultPurchaseCost/defaultDepreciationYears/12 +
				defaultMonthlyMaintenance +
				powerCost(in.Hardware.PowerConsumptionW, m.electricityRate)
		}
	default:
		return nil, err
	}

	return &models.HardwareCost{
		MonthlyCost:   monthly,
		LifecycleCost: monthly * 12 * float64(in.Params.LifecycleYears),
		Mode:          mode,
		HardwareName:  in.Hardware.Name,
		GPUCount:      in.Hardware.GPUCount,
	}, nil
}

// powerCost is the monthly electricity cost of a continuous draw in watts.
func powerCost(watts int, ratePerKWh float64) float64 {
	return float64(watts) * 24 * 30 / 1000 * ratePerKWh
}

func validateInput(in ProjectionInput) error {
	if in.Pricing == nil {
		return fmt.Errorf("pricing record is required: %w", models.ErrNotFound)
	}
	if in.Profile.InputTokens <= 0 || in.Profile.OutputTokens <= 0 {
		return fmt.Errorf("token profile must be positive: %w", models.ErrInvalidConfiguration)
	}
	if in.Profile.ResponseTime <= 0 {
		return fmt.Errorf("response time must be positive: %w", models.ErrInvalidConfiguration)
	}
	if in.Hardware.PrefillTPS <= 0 || in.Hardware.DecodeTPS <= 0 {
		return fmt.Errorf("hardware throughput must be positive: %w", models.ErrInvalidConfiguration)
	}
	if in.Params.AverageLoadFactor <= 0 || in.Params.AverageLoadFactor > 1 {
		return fmt.Errorf("average load factor must be in (0,1]: %w", models.ErrInvalidConfiguration)
	}
	if in.Params.LifecycleYears <= 0 {
		return fmt.Errorf("lifecycle years must be positive: %w", models.ErrInvalidConfiguration)
	}
	if mode := in.Params.CostMode; mode != "" && mode != models.CostModeRental && mode != models.CostModePurchase {
		return fmt.Errorf("unknown cost mode %q: %w", mode, models.ErrInvalidConfiguration)
	}
	return nil
}
