package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps the connection pool
type DB struct {
	Pool *pgxpool.Pool
}

// Connect creates a new database connection pool
func Connect(databaseURL string) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database URL: %w", err)
	}

	// Configure pool
	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	log.Println("Database connected successfully")
	return &DB{Pool: pool}, nil
}

// Close closes the database connection pool
func (db *DB) Close() {
	db.Pool.Close()
}

// RunMigrations runs all database migrations
func RunMigrations(db *DB) error {
	ctx := context.Background()

	// Create migrations table if it doesn't exist
	_, err := db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	// Run each migration
	for version, migration := range migrations {
		// Check if migration already applied
		var exists bool
		err := db.Pool.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)",
			version,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check migration %d: %w", version, err)
		}

		if exists {
			continue
		}

		// Apply migration
		log.Printf("Applying migration %d...", version)
		_, err = db.Pool.Exec(ctx, migration)
		if err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", version, err)
		}

		// Record migration
		_, err = db.Pool.Exec(ctx,
			"INSERT INTO schema_migrations (version) VALUES ($1)",
			version,
		)
		if err != nil {
			return fmt.Errorf("failed to record migration %d: %w", version, err)
		}

		log.Printf("Migration %d applied successfully", version)
	}

	return nil
}

// migrations is an ordered map of migration version to SQL
var migrations = map[int]string{
	1: migration001,
	2: migration002,
}

const migration001 = `
-- Reference data: catalog, aliases, recipe graph, expense classification

CREATE TABLE IF NOT EXISTS catalog_entries (
    sku VARCHAR(50) PRIMARY KEY,
    canonical_name VARCHAR(255) NOT NULL,
    category VARCHAR(20) NOT NULL DEFAULT 'other',
    composition VARCHAR(10) NOT NULL DEFAULT 'none',
    patties_per_unit INT NOT NULL DEFAULT 0,
    grams_per_unit DECIMAL(10, 2) NOT NULL DEFAULT 0,
    rolls_per_unit INT NOT NULL DEFAULT 0,
    is_meal_set BOOLEAN NOT NULL DEFAULT FALSE,
    base_sku VARCHAR(50) REFERENCES catalog_entries(sku),
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS catalog_aliases (
    alias VARCHAR(255) PRIMARY KEY,
    sku VARCHAR(50) NOT NULL REFERENCES catalog_entries(sku) ON DELETE CASCADE,
    created_at TIMESTAMP DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS recipes (
    id SERIAL PRIMARY KEY,
    name VARCHAR(255) UNIQUE NOT NULL,
    is_final BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS ingredients (
    id SERIAL PRIMARY KEY,
    name VARCHAR(255) UNIQUE NOT NULL,
    unit VARCHAR(20) NOT NULL DEFAULT 'g',
    created_at TIMESTAMP DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS recipe_ingredients (
    recipe_id INT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
    ingredient_id INT NOT NULL REFERENCES ingredients(id),
    quantity DECIMAL(12, 4) NOT NULL,
    unit VARCHAR(20) NOT NULL,
    PRIMARY KEY (recipe_id, ingredient_id)
);

CREATE TABLE IF NOT EXISTS expense_categories (
    keyword VARCHAR(100) PRIMARY KEY,
    category VARCHAR(50) NOT NULL
);

-- Observation sources

CREATE TABLE IF NOT EXISTS staff_shift_forms (
    shift_date DATE PRIMARY KEY,
    total_sales DECIMAL(12, 2) NOT NULL DEFAULT 0,
    cash_banked DECIMAL(12, 2) NOT NULL DEFAULT 0,
    qr_banked DECIMAL(12, 2) NOT NULL DEFAULT 0,
    starting_cash DECIMAL(12, 2) NOT NULL DEFAULT 0,
    closing_cash DECIMAL(12, 2) NOT NULL DEFAULT 0,
    submitted_at TIMESTAMP DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS shift_payments (
    shift_date DATE NOT NULL,
    method VARCHAR(20) NOT NULL,
    amount DECIMAL(12, 2) NOT NULL,
    PRIMARY KEY (shift_date, method)
);

CREATE TABLE IF NOT EXISTS stock_ledger (
    shift_date DATE NOT NULL,
    item VARCHAR(20) NOT NULL,
    prev_end DECIMAL(12, 2) NOT NULL DEFAULT 0,
    purchased DECIMAL(12, 2) NOT NULL DEFAULT 0,
    actual DECIMAL(12, 2) NOT NULL DEFAULT 0,
    PRIMARY KEY (shift_date, item)
);

CREATE TABLE IF NOT EXISTS expenses (
    id SERIAL PRIMARY KEY,
    shift_date DATE NOT NULL,
    description TEXT NOT NULL,
    amount DECIMAL(12, 2) NOT NULL,
    created_at TIMESTAMP DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(shift_date);
`

const migration002 = `
-- Derived tables. Single writer: the aggregator and the cascade engine
-- own these; every other code path reads.

CREATE TABLE IF NOT EXISTS shift_item_aggregates (
    shift_date DATE NOT NULL,
    resolved_key VARCHAR(255) NOT NULL,
    canonical_name VARCHAR(255) NOT NULL,
    category VARCHAR(20) NOT NULL,
    quantity INT NOT NULL,
    patties INT NOT NULL DEFAULT 0,
    red_meat_grams DECIMAL(12, 2) NOT NULL DEFAULT 0,
    chicken_grams DECIMAL(12, 2) NOT NULL DEFAULT 0,
    rolls_consumed INT NOT NULL DEFAULT 0,
    raw_hits JSONB NOT NULL DEFAULT '[]',
    created_at TIMESTAMP DEFAULT NOW(),
    PRIMARY KEY (shift_date, resolved_key)
);

CREATE TABLE IF NOT EXISTS shift_modifier_aggregates (
    shift_date DATE NOT NULL,
    resolved_key VARCHAR(255) NOT NULL,
    name VARCHAR(255) NOT NULL,
    quantity INT NOT NULL,
    created_at TIMESTAMP DEFAULT NOW(),
    PRIMARY KEY (shift_date, resolved_key)
);

CREATE TABLE IF NOT EXISTS sold_item_recipes (
    shift_date DATE NOT NULL,
    sold_item_key VARCHAR(255) NOT NULL,
    recipe_id INT NOT NULL,
    recipe_name VARCHAR(255) NOT NULL,
    quantity INT NOT NULL,
    PRIMARY KEY (shift_date, sold_item_key)
);

CREATE TABLE IF NOT EXISTS sold_item_ingredient_usage (
    shift_date DATE NOT NULL,
    sold_item_key VARCHAR(255) NOT NULL,
    ingredient_name VARCHAR(255) NOT NULL,
    quantity DECIMAL(14, 4) NOT NULL,
    unit VARCHAR(20) NOT NULL,
    PRIMARY KEY (shift_date, sold_item_key, ingredient_name, unit)
);

CREATE TABLE IF NOT EXISTS reconciliation_results (
    shift_date DATE PRIMARY KEY,
    record JSONB NOT NULL,
    generated_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_item_aggregates_category ON shift_item_aggregates(shift_date, category);
CREATE INDEX IF NOT EXISTS idx_usage_date ON sold_item_ingredient_usage(shift_date);
`
