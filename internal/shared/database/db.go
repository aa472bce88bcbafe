package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

type DB struct {
	conn *sql.DB
}

// New creates a new database connection
func New(databaseURL string) (*DB, error) {
	conn, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool
	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(10)
	conn.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// InitSchema creates all tables if they do not exist yet. It is safe to run
// on every startup.
func (db *DB) InitSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS hardware_profiles (
			name TEXT PRIMARY KEY,
			gpu_type TEXT NOT NULL,
			gpu_count INT NOT NULL,
			gpu_memory_gb INT NOT NULL,
			cpu_cores INT NOT NULL,
			memory_gb INT NOT NULL,
			storage_gb INT NOT NULL,
			prefill_tps DOUBLE PRECISION NOT NULL,
			decode_tps DOUBLE PRECISION NOT NULL,
			max_concurrent_requests INT NOT NULL,
			purchase_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
			monthly_rental_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
			power_consumption_w INT NOT NULL DEFAULT 0,
			monthly_maintenance_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
			depreciation_years INT NOT NULL DEFAULT 5,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS model_performance (
			model_key TEXT NOT NULL,
			hardware_name TEXT NOT NULL REFERENCES hardware_profiles(name),
			max_concurrent INT NOT NULL,
			memory_usage_gb DOUBLE PRECISION NOT NULL,
			avg_response_time_ms DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (model_key, hardware_name)
		)`,
		`CREATE TABLE IF NOT EXISTS service_levels (
			level TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			availability_target DOUBLE PRECISION NOT NULL,
			max_concurrent_ratio DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS model_pricing (
			model_key TEXT PRIMARY KEY,
			model_name TEXT NOT NULL,
			category TEXT NOT NULL CHECK (category IN ('free', 'paid', 'fine_tune')),
			input_price_per_m DOUBLE PRECISION NOT NULL DEFAULT 0,
			output_price_per_m DOUBLE PRECISION NOT NULL DEFAULT 0,
			description TEXT NOT NULL DEFAULT '',
			provider TEXT NOT NULL DEFAULT '',
			parameter_size TEXT NOT NULL DEFAULT '',
			model_type TEXT NOT NULL DEFAULT '',
			last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS model_pricing_history (
			id BIGSERIAL PRIMARY KEY,
			model_key TEXT NOT NULL,
			model_name TEXT NOT NULL,
			category TEXT NOT NULL,
			input_price_per_m DOUBLE PRECISION NOT NULL,
			output_price_per_m DOUBLE PRECISION NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			provider TEXT NOT NULL DEFAULT '',
			parameter_size TEXT NOT NULL DEFAULT '',
			model_type TEXT NOT NULL DEFAULT '',
			archived_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS capacity_results (
			hardware_name TEXT NOT NULL,
			model_key TEXT NOT NULL,
			service_level TEXT NOT NULL,
			input_tokens INT NOT NULL,
			output_tokens INT NOT NULL,
			effective_concurrency INT NOT NULL,
			effective_qps DOUBLE PRECISION NOT NULL,
			memory_usage_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
			cpu_usage_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (hardware_name, model_key, service_level, input_tokens, output_tokens)
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema init failed: %w", err)
		}
	}

	return nil
}
