package models

import "time"

// Pricing categories. FineTune prices are tied to a tuning run and may not
// represent serving economics; projection callers surface a warning for them.
const (
	CategoryFree     = "free"
	CategoryPaid     = "paid"
	CategoryFineTune = "fine_tune"
)

// Hardware cost modes.
const (
	CostModeRental   = "rental"
	CostModePurchase = "purchase"
)

// HardwareProfile describes a serving box. Identity is Name; re-registering
// the same name replaces the whole row (upsert, not patch).
type HardwareProfile struct {
	Name                  string    `json:"name"`
	GPUType               string    `json:"gpu_type"`
	GPUCount              int       `json:"gpu_count"`
	GPUMemoryGB           int       `json:"gpu_memory_gb"`
	CPUCores              int       `json:"cpu_cores"`
	MemoryGB              int       `json:"memory_gb"`
	StorageGB             int       `json:"storage_gb"`
	PrefillTPS            float64   `json:"prefill_tps"`
	DecodeTPS             float64   `json:"decode_tps"`
	MaxConcurrentRequests int       `json:"max_concurrent_requests"`
	PurchaseCost          float64   `json:"purchase_cost"`
	MonthlyRentalCost     float64   `json:"monthly_rental_cost"`
	PowerConsumptionW     int       `json:"power_consumption_w"`
	MonthlyMaintenance    float64   `json:"monthly_maintenance_cost"`
	DepreciationYears     int       `json:"depreciation_years"`
	CreatedAt             time.Time `json:"created_at,omitempty"`
	UpdatedAt             time.Time `json:"updated_at,omitempty"`
}

// ModelPerformance is a measured benchmark of a model on a specific hardware
// profile. It is an empirical fact, not a formula: capacity for a
// (model, hardware) pair cannot be derived without it.
type ModelPerformance struct {
	ModelKey          string    `json:"model_key"`
	HardwareName      string    `json:"hardware_name"`
	MaxConcurrent     int       `json:"max_concurrent"`
	MemoryUsageGB     float64   `json:"memory_usage_gb"`
	AvgResponseTimeMs float64   `json:"avg_response_time_ms"`
	CreatedAt         time.Time `json:"created_at,omitempty"`
	UpdatedAt         time.Time `json:"updated_at,omitempty"`
}

// ServiceLevel is an SLA tier trading raw concurrency for reliability
// headroom. MaxConcurrentRatio and AvailabilityTarget are fractions in (0,1].
type ServiceLevel struct {
	Level              string  `json:"level"`
	Name               string  `json:"name"`
	Description        string  `json:"description,omitempty"`
	AvailabilityTarget float64 `json:"availability_target"`
	MaxConcurrentRatio float64 `json:"max_concurrent_ratio"`
}

// CapacityKey is the full memo key for a derived capacity result. The token
// profile is part of the key because processing time scales with token count.
type CapacityKey struct {
	HardwareName string `json:"hardware_name"`
	ModelKey     string `json:"model_key"`
	ServiceLevel string `json:"service_level"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
}

// CapacityResult is the derived capacity for one CapacityKey. Once stored it
// is returned verbatim on repeat lookups; it is only replaced by an explicit
// re-derivation.
type CapacityResult struct {
	EffectiveConcurrency int     `json:"effective_concurrency"`
	EffectiveQPS         float64 `json:"effective_qps"`
	MemoryUsagePercent   float64 `json:"memory_usage_percent"`
	CPUUsagePercent      float64 `json:"cpu_usage_percent"`
}

// PricingRecord holds per-million-token rates for a model. A superseded
// record is archived to an append-only history table on overwrite.
type PricingRecord struct {
	ModelKey        string    `json:"model_key"`
	ModelName       string    `json:"model_name"`
	Category        string    `json:"category"`
	InputPricePerM  float64   `json:"input_price_per_m"`
	OutputPricePerM float64   `json:"output_price_per_m"`
	Description     string    `json:"description,omitempty"`
	Provider        string    `json:"provider,omitempty"`
	ParameterSize   string    `json:"parameter_size,omitempty"`
	ModelType       string    `json:"model_type,omitempty"`
	LastUpdated     time.Time `json:"last_updated,omitempty"`
}

// PricingStats summarizes the catalog; price aggregates cover paid models
// with a non-zero input price.
type PricingStats struct {
	TotalModels    int            `json:"total_models"`
	CategoryCount  map[string]int `json:"category_count"`
	AvgInputPrice  float64        `json:"avg_input_price"`
	AvgOutputPrice float64        `json:"avg_output_price"`
	MinInputPrice  float64       `json:"min_input_price"`
	MaxInputPrice  float64       `json:"max_input_price"`
}

// ServiceProfile characterizes the representative request shape of a
// use-case: the token profile plus the end-to-end response time budget.
type ServiceProfile struct {
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	ResponseTime float64 `json:"response_time"` // seconds
}

// ServiceParameters are the operating assumptions of a deployment.
type ServiceParameters struct {
	LifecycleYears    int     `json:"lifecycle_years"`
	AverageLoadFactor float64 `json:"average_load_factor"`
	UptimePercentage  float64 `json:"uptime_percentage"`
	ServiceLevel      string  `json:"service_level"`
	CostMode          string  `json:"cost_mode"`
}

// HardwareCost is the monthly-equivalent and lifecycle hardware cost.
type HardwareCost struct {
	MonthlyCost   float64 `json:"monthly_cost"`
	LifecycleCost float64 `json:"lifecycle_cost"`
	Mode          string  `json:"mode"`
	HardwareName  string  `json:"hardware_name"`
	GPUCount      int     `json:"gpu_count"`
}

// LifecycleProjection is the full revenue/cost projection for one
// (model, hardware, service level, token profile) combination.
//
// Approximated is true when effective concurrency came from the static
// service-level ratio table instead of a derived capacity result.
type LifecycleProjection struct {
	ModelKey            string       `json:"model_key"`
	HardwareName        string       `json:"hardware_name"`
	ServiceLevel        string       `json:"service_level"`
	RevenuePerRequest   float64      `json:"revenue_per_request"`
	ProcessingTime      float64      `json:"processing_time"`
	ConcurrentCapacity  int          `json:"concurrent_capacity"`
	EffectiveQPS        float64      `json:"effective_qps"`
	DailyRequests       float64      `json:"daily_requests"`
	DailyRevenue        float64      `json:"daily_revenue"`
	DailyNetRevenue     float64      `json:"daily_net_revenue"`
	AnnualRevenue       float64      `json:"annual_revenue"`
	AnnualNetRevenue    float64      `json:"annual_net_revenue"`
	LifecycleRevenue    float64      `json:"lifecycle_revenue"`
	LifecycleNetRevenue float64      `json:"lifecycle_net_revenue"`
	UtilizationRate     float64      `json:"utilization_rate"`
	HardwareCost        HardwareCost `json:"hardware_cost"`
	Approximated        bool         `json:"approximated"`
	PricingCategory     string       `json:"pricing_category"`
}
