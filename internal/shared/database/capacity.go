package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tokenserve/capacity-planner/internal/shared/models"
)

// GetCapacity looks up the stored capacity result for a full memo key.
// Returns models.ErrNotFound when the key has never been derived.
func (db *DB) GetCapacity(ctx context.Context, key models.CapacityKey) (*models.CapacityResult, error) {
	query := `
		SELECT effective_concurrency, effective_qps, memory_usage_percent, cpu_usage_percent
		FROM capacity_results
		WHERE hardware_name = $1 AND model_key = $2 AND service_level = $3
		  AND input_tokens = $4 AND output_tokens = $5
	`

	var res models.CapacityResult
	err := db.conn.QueryRowContext(ctx, query,
		key.HardwareName, key.ModelKey, key.ServiceLevel, key.InputTokens, key.OutputTokens,
	).Scan(
		&res.EffectiveConcurrency, &res.EffectiveQPS,
		&res.MemoryUsagePercent, &res.CPUUsagePercent,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("capacity %s/%s/%s: %w", key.HardwareName, key.ModelKey, key.ServiceLevel, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &res, nil
}

// UpsertCapacity stores a derived capacity result under its full key. The
// single-statement upsert is atomic: concurrent derivations of the same key
// race safely with last-writer-wins, which is acceptable because the
// derivation is a pure function of the same inputs.
func (db *DB) UpsertCapacity(ctx context.Context, key models.CapacityKey, res *models.CapacityResult) error {
	query := `
		INSERT INTO capacity_results (
			hardware_name, model_key, service_level, input_tokens, output_tokens,
			effective_concurrency, effective_qps, memory_usage_percent, cpu_usage_percent
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (hardware_name, model_key, service_level, input_tokens, output_tokens)
		DO UPDATE SET
			effective_concurrency = EXCLUDED.effective_concurrency,
			effective_qps = EXCLUDED.effective_qps,
			memory_usage_percent = EXCLUDED.memory_usage_percent,
			cpu_usage_percent = EXCLUDED.cpu_usage_percent,
			updated_at = NOW()
	`

	_, err := db.conn.ExecContext(ctx, query,
		key.HardwareName, key.ModelKey, key.ServiceLevel, key.InputTokens, key.OutputTokens,
		res.EffectiveConcurrency, res.EffectiveQPS, res.MemoryUsagePercent, res.CPUUsagePercent,
	)
	if err != nil {
		return fmt.Errorf("upsert capacity %s/%s/%s: %w", key.HardwareName, key.ModelKey, key.ServiceLevel, err)
	}
	return nil
}
