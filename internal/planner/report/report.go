// Package report renders a lifecycle projection as a plain-text analysis
// block for CLI output.
package report

import (
	"fmt"
	"strings"

	"github.com/tokenserve/capacity-planner/internal/shared/models"
)

// Input bundles everything the report shows alongside the projection.
type Input struct {
	Pricing    *models.PricingRecord
	Profile    models.ServiceProfile
	Hardware   models.HardwareProfile
	Params     models.ServiceParameters
	Projection *models.LifecycleProjection
}

// Render formats a projection report.
func Render(in Input) string {
	var b strings.Builder
	p := in.Projection

	fmt.Fprintf(&b, "LLM Token Service Revenue Analysis\n")
	fmt.Fprintf(&b, "%s\n\n", strings.Repeat("=", 50))

	fmt.Fprintf(&b, "Model:\n")
	fmt.Fprintf(&b, "- Name: %s (%s)\n", in.Pricing.ModelName, in.Pricing.Category)
	fmt.Fprintf(&b, "- Input tokens: %d\n", in.Profile.InputTokens)
	fmt.Fprintf(&b, "- Output tokens: %d\n", in.Profile.OutputTokens)
	fmt.Fprintf(&b, "- Response time: %.3fs\n\n", in.Profile.ResponseTime)

	fmt.Fprintf(&b, "Hardware:\n")
	fmt.Fprintf(&b, "- Profile: %s (%s x%d)\n", in.Hardware.Name, in.Hardware.GPUType, in.Hardware.GPUCount)
	fmt.Fprintf(&b, "- Prefill TPS: %.0f\n", in.Hardware.PrefillTPS)
	fmt.Fprintf(&b, "- Decode TPS: %.0f\n", in.Hardware.DecodeTPS)
	fmt.Fprintf(&b, "- Max concurrent requests: %d\n", in.Hardware.MaxConcurrentRequests)
	fmt.Fprintf(&b, "- Cost mode: %s\n\n", p.HardwareCost.Mode)

	fmt.Fprintf(&b, "Pricing:\n")
	fmt.Fprintf(&b, "- Input: %.2f/M tokens\n", in.Pricing.InputPricePerM)
	fmt.Fprintf(&b, "- Output: %.2f/M tokens\n", in.Pricing.OutputPricePerM)
	fmt.Fprintf(&b, "- Revenue per request: %.6f\n", p.RevenuePerRequest)
	if in.Pricing.Category == models.CategoryFineTune {
		fmt.Fprintf(&b, "- Warning: fine_tune prices may not represent serving economics\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Service parameters:\n")
	fmt.Fprintf(&b, "- Service level: %s\n", in.Params.ServiceLevel)
	fmt.Fprintf(&b, "- Lifecycle: %d years\n", in.Params.LifecycleYears)
	fmt.Fprintf(&b, "- Average load factor: %.1f%%\n\n", in.Params.AverageLoadFactor*100)

	fmt.Fprintf(&b, "Cost:\n")
	fmt.Fprintf(&b, "- Monthly hardware cost: %.2f\n", p.HardwareCost.MonthlyCost)
	fmt.Fprintf(&b, "- Lifecycle hardware cost: %.2f\n\n", p.HardwareCost.LifecycleCost)

	fmt.Fprintf(&b, "Revenue:\n")
	fmt.Fprintf(&b, "- Concurrent capacity: %d requests", p.ConcurrentCapacity)
	if p.Approximated {
		fmt.Fprintf(&b, " (approximated: no benchmark for this combination)")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "- Effective QPS: %.1f\n", p.EffectiveQPS)
	fmt.Fprintf(&b, "- Daily requests: %.0f\n", p.DailyRequests)
	fmt.Fprintf(&b, "- Daily revenue: %.2f (net %.2f)\n", p.DailyRevenue, p.DailyNetRevenue)
	fmt.Fprintf(&b, "- Annual revenue: %.2f (net %.2f)\n", p.AnnualRevenue, p.AnnualNetRevenue)
	fmt.Fprintf(&b, "- %d-year revenue: %.2f (net %.2f)\n\n", in.Params.LifecycleYears, p.LifecycleRevenue, p.LifecycleNetRevenue)

	fmt.Fprintf(&b, "Utilization:\n")
	fmt.Fprintf(&b, "- Hardware utilization: %.1f%%\n", p.UtilizationRate*100)
	fmt.Fprintf(&b, "- Peak QPS: %.1f\n", p.EffectiveQPS/in.Params.AverageLoadFactor)
	if p.LifecycleRevenue > 0 {
		fmt.Fprintf(&b, "- Margin: %.1f%%\n", p.LifecycleNetRevenue/p.LifecycleRevenue*100)
	}

	return b.String()
}
