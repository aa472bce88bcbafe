package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tokenserve/capacity-planner/internal/planner/capacity"
	"github.com/tokenserve/capacity-planner/internal/planner/report"
	"github.com/tokenserve/capacity-planner/internal/planner/revenue"
	"github.com/tokenserve/capacity-planner/internal/shared/config"
	"github.com/tokenserve/capacity-planner/internal/shared/database"
	"github.com/tokenserve/capacity-planner/internal/shared/models"
)

var reportFlags struct {
	modelKey     string
	hardwareName string
	serviceLevel string
	inputTokens  int
	outputTokens int
	responseTime float64
	years        int
	loadFactor   float64
	costMode     string
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run a lifecycle revenue projection and print the analysis report",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		db, err := database.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.InitSchema(ctx); err != nil {
			return err
		}

		pricing, err := db.GetModelPricing(ctx, reportFlags.modelKey)
		if err != nil {
			return err
		}
		hardware, err := db.GetHardware(ctx, reportFlags.hardwareName)
		if err != nil {
			return err
		}

		// No hot layer for a one-shot calculation; the persistent memo
		// still records the derivation.
		capacityCache := capacity.NewCache(db, db, nil, 0)
		model := revenue.NewModel(capacityCache, db, cfg.ElectricityRatePerKWh)

		in := revenue.ProjectionInput{
			Pricing:  pricing,
			Profile:  models.ServiceProfile{InputTokens: reportFlags.inputTokens, OutputTokens: reportFlags.outputTokens, ResponseTime: reportFlags.responseTime},
			Hardware: *hardware,
			Params: models.ServiceParameters{
				LifecycleYears:    reportFlags.years,
				AverageLoadFactor: reportFlags.loadFactor,
				ServiceLevel:      reportFlags.serviceLevel,
				CostMode:          reportFlags.costMode,
			},
		}

		projection, err := model.Project(ctx, in)
		if err != nil {
			return err
		}

		fmt.Println(report.Render(report.Input{
			Pricing:    pricing,
			Profile:    in.Profile,
			Hardware:   *hardware,
			Params:     in.Params,
			Projection: projection,
		}))
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportFlags.modelKey, "model", "", "model key (required)")
	reportCmd.Flags().StringVar(&reportFlags.hardwareName, "hardware", "", "hardware profile name (required)")
	reportCmd.Flags().StringVar(&reportFlags.serviceLevel, "level", "standard", "service level")
	reportCmd.Flags().IntVar(&reportFlags.inputTokens, "input-tokens", 1000, "average input tokens per request")
	reportCmd.Flags().IntVar(&reportFlags.outputTokens, "output-tokens", 500, "average output tokens per request")
	reportCmd.Flags().Float64Var(&reportFlags.responseTime, "response-time", 3.5, "average response time in seconds")
	reportCmd.Flags().IntVar(&reportFlags.years, "years", 3, "lifecycle in years")
	reportCmd.Flags().Float64Var(&reportFlags.loadFactor, "load", 0.3, "average load factor (0-1]")
	reportCmd.Flags().StringVar(&reportFlags.costMode, "cost-mode", models.CostModeRental, "rental or purchase")
	reportCmd.MarkFlagRequired("model")
	reportCmd.MarkFlagRequired("hardware")
}
