package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tokenserve/capacity-planner/internal/shared/models"
)

// UpsertHardware registers or replaces a hardware profile
func (db *DB) UpsertHardware(ctx context.Context, hw *models.HardwareProfile) error {
	query := `
		INSERT INTO hardware_profiles (
			name, gpu_type, gpu_count, gpu_memory_gb, cpu_cores, memory_gb, storage_gb,
			prefill_tps, decode_tps, max_concurrent_requests,
			purchase_cost, monthly_rental_cost, power_consumption_w,
			monthly_maintenance_cost, depreciation_years
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (name) DO UPDATE SET
			gpu_type = EXCLUDED.gpu_type,
			gpu_count = EXCLUDED.gpu_count,
			gpu_memory_gb = EXCLUDED.gpu_memory_gb,
			cpu_cores = EXCLUDED.cpu_cores,
			memory_gb = EXCLUDED.memory_gb,
			storage_gb = EXCLUDED.storage_gb,
			prefill_tps = EXCLUDED.prefill_tps,
			decode_tps = EXCLUDED.decode_tps,
			max_concurrent_requests = EXCLUDED.max_concurrent_requests,
			purchase_cost = EXCLUDED.purchase_cost,
			monthly_rental_cost = EXCLUDED.monthly_rental_cost,
			power_consumption_w = EXCLUDED.power_consumption_w,
			monthly_maintenance_cost = EXCLUDED.monthly_maintenance_cost,
			depreciation_years = EXCLUDED.depreciation_years,
			updated_at = NOW()
	`

	_, err := db.conn.ExecContext(ctx, query,
		hw.Name, hw.GPUType, hw.GPUCount, hw.GPUMemoryGB, hw.CPUCores,
		hw.MemoryGB, hw.StorageGB, hw.PrefillTPS, hw.DecodeTPS,
		hw.MaxConcurrentRequests, hw.PurchaseCost, hw.MonthlyRentalCost,
		hw.PowerConsumptionW, hw.MonthlyMaintenance, hw.DepreciationYears,
	)
	if err != nil {
		return fmt.Errorf("upsert hardware %s: %w", hw.Name, err)
	}
	return nil
}

// GetHardware retrieves a hardware profile by name
func (db *DB) GetHardware(ctx context.Context, name string) (*models.HardwareProfile, error) {
	query := `
		SELECT name, gpu_type, gpu_count, gpu_memory_gb, cpu_cores, memory_gb, storage_gb,
		       prefill_tps, decode_tps, max_concurrent_requests,
		       purchase_cost, monthly_rental_cost, power_consumption_w,
		       monthly_maintenance_cost, depreciation_years, created_at, updated_at
		FROM hardware_profiles
		WHERE name = $1
	`

	var hw models.HardwareProfile
	err := db.conn.QueryRowContext(ctx, query, name).Scan(
		&hw.Name, &hw.GPUType, &hw.GPUCount, &hw.GPUMemoryGB, &hw.CPUCores,
		&hw.MemoryGB, &hw.StorageGB, &hw.PrefillTPS, &hw.DecodeTPS,
		&hw.MaxConcurrentRequests, &hw.PurchaseCost, &hw.MonthlyRentalCost,
		&hw.PowerConsumptionW, &hw.MonthlyMaintenance, &hw.DepreciationYears,
		&hw.CreatedAt, &hw.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("hardware %s: %w", name, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &hw, nil
}

// ListHardware returns all registered hardware profiles
func (db *DB) ListHardware(ctx context.Context) ([]models.HardwareProfile, error) {
	query := `
		SELECT name, gpu_type, gpu_count, gpu_memory_gb, cpu_cores, memory_gb, storage_gb,
		       prefill_tps, decode_tps, max_concurrent_requests,
		       purchase_cost, monthly_rental_cost, power_consumption_w,
		       monthly_maintenance_cost, depreciation_years, created_at, updated_at
		FROM hardware_profiles
		ORDER BY name
	`

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var profiles []models.HardwareProfile
	for rows.Next() {
		var hw models.HardwareProfile
		if err := rows.Scan(
			&hw.Name, &hw.GPUType, &hw.GPUCount, &hw.GPUMemoryGB, &hw.CPUCores,
			&hw.MemoryGB, &hw.StorageGB, &hw.PrefillTPS, &hw.DecodeTPS,
			&hw.MaxConcurrentRequests, &hw.PurchaseCost, &hw.MonthlyRentalCost,
			&hw.PowerConsumptionW, &hw.MonthlyMaintenance, &hw.DepreciationYears,
			&hw.CreatedAt, &hw.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan hardware row: %w", err)
		}
		profiles = append(profiles, hw)
	}

	return profiles, rows.Err()
}

// UpsertModelPerformance registers or replaces a measured benchmark for a
// (model, hardware) pair
func (db *DB) UpsertModelPerformance(ctx context.Context, perf *models.ModelPerformance) error {
	query := `
		INSERT INTO model_performance (
			model_key, hardware_name, max_concurrent, memory_usage_gb, avg_response_time_ms
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (model_key, hardware_name) DO UPDATE SET
			max_concurrent = EXCLUDED.max_concurrent,
			memory_usage_gb = EXCLUDED.memory_usage_gb,
			avg_response_time_ms = EXCLUDED.avg_response_time_ms,
			updated_at = NOW()
	`

	_, err := db.conn.ExecContext(ctx, query,
		perf.ModelKey, perf.HardwareName, perf.MaxConcurrent,
		perf.MemoryUsageGB, perf.AvgResponseTimeMs,
	)
	if err != nil {
		return fmt.Errorf("upsert benchmark %s/%s: %w", perf.ModelKey, perf.HardwareName, err)
	}
	return nil
}

// GetModelPerformance retrieves the benchmark for a (model, hardware) pair.
// Absence of a benchmark is a models.ErrNotFound outcome, not a failure.
func (db *DB) GetModelPerformance(ctx context.Context, modelKey, hardwareName string) (*models.ModelPerformance, error) {
	query := `
		SELECT model_key, hardware_name, max_concurrent, memory_usage_gb,
		       avg_response_time_ms, created_at, updated_at
		FROM model_performance
		WHERE model_key = $1 AND hardware_name = $2
	`

	var perf models.ModelPerformance
	err := db.conn.QueryRowContext(ctx, query, modelKey, hardwareName).Scan(
		&perf.ModelKey, &perf.HardwareName, &perf.MaxConcurrent,
		&perf.MemoryUsageGB, &perf.AvgResponseTimeMs, &perf.CreatedAt, &perf.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("benchmark %s/%s: %w", modelKey, hardwareName, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &perf, nil
}

// UpsertServiceLevel registers or replaces an SLA tier
func (db *DB) UpsertServiceLevel(ctx context.Context, sl *models.ServiceLevel) error {
	query := `
		INSERT INTO service_levels (level, name, description, availability_target, max_concurrent_ratio)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (level) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			availability_target = EXCLUDED.availability_target,
			max_concurrent_ratio = EXCLUDED.max_concurrent_ratio
	`

	_, err := db.conn.ExecContext(ctx, query,
		sl.Level, sl.Name, sl.Description, sl.AvailabilityTarget, sl.MaxConcurrentRatio,
	)
	if err != nil {
		return fmt.Errorf("upsert service level %s: %w", sl.Level, err)
	}
	return nil
}

// GetServiceLevel retrieves an SLA tier by its level key
func (db *DB) GetServiceLevel(ctx context.Context, level string) (*models.ServiceLevel, error) {
	query := `
		SELECT level, name, description, availability_target, max_concurrent_ratio
		FROM service_levels
		WHERE level = $1
	`

	var sl models.ServiceLevel
	err := db.conn.QueryRowContext(ctx, query, level).Scan(
		&sl.Level, &sl.Name, &sl.Description, &sl.AvailabilityTarget, &sl.MaxConcurrentRatio,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("service level %s: %w", level, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &sl, nil
}

// ListServiceLevels returns all SLA tiers
func (db *DB) ListServiceLevels(ctx context.Context) ([]models.ServiceLevel, error) {
	query := `
		SELECT level, name, description, availability_target, max_concurrent_ratio
		FROM service_levels
		ORDER BY availability_target
	`

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var levels []models.ServiceLevel
	for rows.Next() {
		var sl models.ServiceLevel
		if err := rows.Scan(&sl.Level, &sl.Name, &sl.Description, &sl.AvailabilityTarget, &sl.MaxConcurrentRatio); err != nil {
			return nil, fmt.Errorf("scan service level row: %w", err)
		}
		levels = append(levels, sl)
	}

	return levels, rows.Err()
}
