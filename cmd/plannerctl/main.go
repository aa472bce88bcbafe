package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tokenserve/capacity-planner/internal/planner/catalog"
	"github.com/tokenserve/capacity-planner/internal/shared/config"
	"github.com/tokenserve/capacity-planner/internal/shared/database"
)

var rootCmd = &cobra.Command{
	Use:   "plannerctl",
	Short: "Inspect and manage the LLM capacity planner's reference data",
}

// openDB loads config, connects, and ensures the schema exists.
func openDB(ctx context.Context) (*database.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.InitSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Register the built-in service levels, hardware, and benchmarks",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := catalog.SeedDefaults(ctx, db); err != nil {
			return err
		}
		fmt.Println("✓ Default reference data seeded")
		return nil
	},
}

var modelsCategory string

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models in the pricing catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		records, err := db.ListModelPricing(ctx, modelsCategory)
		if err != nil {
			return err
		}

		fmt.Printf("Models (%d):\n", len(records))
		for _, p := range records {
			fmt.Printf("- %-40s %-10s in %8.2f/M  out %8.2f/M\n",
				p.ModelKey, p.Category, p.InputPricePerM, p.OutputPricePerM)
		}
		return nil
	},
}

var hardwareCmd = &cobra.Command{
	Use:   "hardware",
	Short: "List registered hardware profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		profiles, err := db.ListHardware(ctx)
		if err != nil {
			return err
		}

		for _, hw := range profiles {
			fmt.Printf("- %s: %sx%d, prefill %.0f tps, decode %.0f tps, max %d concurrent, rent %.0f/mo\n",
				hw.Name, hw.GPUType, hw.GPUCount, hw.PrefillTPS, hw.DecodeTPS,
				hw.MaxConcurrentRequests, hw.MonthlyRentalCost)
		}
		return nil
	},
}

var serviceLevelsCmd = &cobra.Command{
	Use:   "service-levels",
	Short: "List SLA tiers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		levels, err := db.ListServiceLevels(ctx)
		if err != nil {
			return err
		}

		for _, sl := range levels {
			fmt.Printf("- %s: %s, availability %.2f%%, concurrency ratio %.0f%%\n",
				sl.Level, sl.Name, sl.AvailabilityTarget*100, sl.MaxConcurrentRatio*100)
		}
		return nil
	},
}

func main() {
	modelsCmd.Flags().StringVar(&modelsCategory, "category", "", "filter by category (free, paid, fine_tune)")

	rootCmd.AddCommand(seedCmd, modelsCmd, hardwareCmd, serviceLevelsCmd, reportCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
