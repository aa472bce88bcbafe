package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/tokenserve/capacity-planner/internal/shared/models"
)

// UpsertModelPricing registers or replaces a pricing record. If a record for
// the same model already exists it is first copied into the append-only
// history table, so price changes leave an audit trail. The history is never
// read by any computation.
func (db *DB) UpsertModelPricing(ctx context.Context, p *models.PricingRecord) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin pricing upsert: %w", err)
	}
	defer tx.Rollback()

	archive := `
		INSERT INTO model_pricing_history (
			model_key, model_name, category, input_price_per_m, output_price_per_m,
			description, provider, parameter_size, model_type
		)
		SELECT model_key, model_name, category, input_price_per_m, output_price_per_m,
		       description, provider, parameter_size, model_type
		FROM model_pricing
		WHERE model_key = $1
	`
	if _, err := tx.ExecContext(ctx, archive, p.ModelKey); err != nil {
		return fmt.Errorf("archive pricing %s: %w", p.ModelKey, err)
	}

	upsert := `
		INSERT INTO model_pricing (
			model_key, model_name, category, input_price_per_m, output_price_per_m,
			description, provider, parameter_size, model_type, last_updated
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (model_key) DO UPDATE SET
			model_name = EXCLUDED.model_name,
			category = EXCLUDED.category,
			input_price_per_m = EXCLUDED.input_price_per_m,
			output_price_per_m = EXCLUDED.output_price_per_m,
			description = EXCLUDED.description,
			provider = EXCLUDED.provider,
			parameter_size = EXCLUDED.parameter_size,
			model_type = EXCLUDED.model_type,
			last_updated = NOW()
	`
	if _, err := tx.ExecContext(ctx, upsert,
		p.ModelKey, p.ModelName, p.Category, p.InputPricePerM, p.OutputPricePerM,
		p.Description, p.Provider, p.ParameterSize, p.ModelType,
	); err != nil {
		return fmt.Errorf("upsert pricing %s: %w", p.ModelKey, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit pricing upsert: %w", err)
	}

	slog.Debug("pricing upserted", "model", p.ModelKey, "category", p.Category)
	return nil
}

// GetModelPricing retrieves the current pricing record for a model
func (db *DB) GetModelPricing(ctx context.Context, modelKey string) (*models.PricingRecord, error) {
	query := `
		SELECT model_key, model_name, category, input_price_per_m, output_price_per_m,
		       description, provider, parameter_size, model_type, last_updated
		FROM model_pricing
		WHERE model_key = $1
	`

	var p models.PricingRecord
	err := db.conn.QueryRowContext(ctx, query, modelKey).Scan(
		&p.ModelKey, &p.ModelName, &p.Category, &p.InputPricePerM, &p.OutputPricePerM,
		&p.Description, &p.Provider, &p.ParameterSize, &p.ModelType, &p.LastUpdated,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("pricing %s: %w", modelKey, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &p, nil
}

// ListModelPricing returns pricing records, optionally filtered by category.
// An empty category returns everything.
func (db *DB) ListModelPricing(ctx context.Context, category string) ([]models.PricingRecord, error) {
	query := `
		SELECT model_key, model_name, category, input_price_per_m, output_price_per_m,
		       description, provider, parameter_size, model_type, last_updated
		FROM model_pricing
	`
	var args []interface{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY model_name`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var records []models.PricingRecord
	for rows.Next() {
		var p models.PricingRecord
		if err := rows.Scan(
			&p.ModelKey, &p.ModelName, &p.Category, &p.InputPricePerM, &p.OutputPricePerM,
			&p.Description, &p.Provider, &p.ParameterSize, &p.ModelType, &p.LastUpdated,
		); err != nil {
			return nil, fmt.Errorf("scan pricing row: %w", err)
		}
		records = append(records, p)
	}

	return records, rows.Err()
}

// GetPricingStats returns catalog-wide pricing statistics. Price aggregates
// only consider paid models with a non-zero input price.
func (db *DB) GetPricingStats(ctx context.Context) (*models.PricingStats, error) {
	stats := &models.PricingStats{CategoryCount: make(map[string]int)}

	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM model_pricing`).Scan(&stats.TotalModels); err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx, `SELECT category, COUNT(*) FROM model_pricing GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		stats.CategoryCount[category] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	aggregates := `
		SELECT COALESCE(AVG(input_price_per_m), 0), COALESCE(AVG(output_price_per_m), 0),
		       COALESCE(MIN(input_price_per_m), 0), COALESCE(MAX(input_price_per_m), 0)
		FROM model_pricing
		WHERE category = 'paid' AND input_price_per_m > 0
	`
	if err := db.conn.QueryRowContext(ctx, aggregates).Scan(
		&stats.AvgInputPrice, &stats.AvgOutputPrice, &stats.MinInputPrice, &stats.MaxInputPrice,
	); err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return stats, nil
}
