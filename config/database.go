package config

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

func InitDB() (*sql.DB, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			totp_secret VARCHAR(255),
			totp_enabled BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS sessions (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			refresh_token VARCHAR(500) UNIQUE NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS buckets (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			name VARCHAR(100) UNIQUE NOT NULL,
			allocation_pct NUMERIC(5,2) NOT NULL DEFAULT 0,
			limiter_light NUMERIC(6,2) NOT NULL DEFAULT 1,
			limiter_intermediate NUMERIC(6,2) NOT NULL DEFAULT 1,
			limiter_strict NUMERIC(6,2) NOT NULL DEFAULT 1,
			limiter_desperate NUMERIC(6,2),
			color VARCHAR(20) DEFAULT '',
			display_order INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		// Balance rows are keyed by the (user, bucket, currency) triple and only
		// ever mutated by additive deltas. They may go negative: deficits carry
		// forward instead of blocking at zero.
		`CREATE TABLE IF NOT EXISTS balances (
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			bucket_id UUID REFERENCES buckets(id) ON DELETE CASCADE,
			currency_code VARCHAR(10) NOT NULL,
			balance NUMERIC(14,2) NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ DEFAULT NOW(),
			PRIMARY KEY (user_id, bucket_id, currency_code)
		)`,

		`CREATE TABLE IF NOT EXISTS transactions (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			type VARCHAR(20) NOT NULL,
			amount NUMERIC(14,2) NOT NULL,
			currency_code VARCHAR(10) NOT NULL,
			bucket_id UUID REFERENCES buckets(id),
			item_name VARCHAR(255) DEFAULT '',
			category VARCHAR(100) DEFAULT '',
			note TEXT DEFAULT '',
			date TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS expenses (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			amount NUMERIC(14,2) NOT NULL,
			paid_amount NUMERIC(14,2),
			active BOOLEAN NOT NULL DEFAULT TRUE,
			currency_code VARCHAR(10) NOT NULL,
			category VARCHAR(100) DEFAULT '',
			due_date TIMESTAMPTZ,
			priority INTEGER DEFAULT 2,
			note TEXT DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS wishlist_items (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			amount NUMERIC(14,2) NOT NULL,
			bucket_id UUID REFERENCES buckets(id),
			currency_code VARCHAR(10) NOT NULL,
			priority INTEGER NOT NULL DEFAULT 2,
			note TEXT DEFAULT '',
			purchased_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS settings (
			user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			default_mode VARCHAR(20) NOT NULL DEFAULT 'intermediate',
			default_currency VARCHAR(10) NOT NULL DEFAULT 'USD',
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_transactions_user_currency ON transactions(user_id, currency_code)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_bucket ON transactions(bucket_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_user_active ON expenses(user_id, active)`,
		`CREATE INDEX IF NOT EXISTS idx_wishlist_user ON wishlist_items(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return SeedBuckets(db)
}

// SeedBuckets inserts the default bucket catalog on first boot. Names are
// unique, so reruns are no-ops. Limiter values per discipline mode:
//
//	              light  intermediate  strict  desperate
//	Necessity       2         3           6       1.5
//	Investment      2         3           5       1.5
//	Learning        2         3           5       1.5
//	Emergency       2         3           5       1.2
//	Fun            10        10          10       5
//
// Savings takes the allocation remainder and is never purchase-gated, so its
// limiters stay at 1. The Expenses bucket is not seeded here: it is
// materialized on demand by the bucket service.
func SeedBuckets(db *sql.DB) error {
	seed := []struct {
		name                             string
		pct                              float64
		light, intermediate, strict      float64
		desperate                        sql.NullFloat64
		color                            string
		order                            int
	}{
		{"Necessity", 60, 2, 3, 6, sql.NullFloat64{Float64: 1.5, Valid: true}, "#0891b2", 1},
		{"Investment", 10, 2, 3, 5, sql.NullFloat64{Float64: 1.5, Valid: true}, "#14b8a6", 2},
		{"Learning", 10, 2, 3, 5, sql.NullFloat64{Float64: 1.5, Valid: true}, "#0ea5e9", 3},
		{"Emergency", 10, 2, 3, 5, sql.NullFloat64{Float64: 1.2, Valid: true}, "#ef4444", 4},
		{"Fun", 10, 10, 10, 10, sql.NullFloat64{Float64: 5, Valid: true}, "#f59e0b", 5},
		{"Savings", 0, 1, 1, 1, sql.NullFloat64{}, "#64748b", 6},
	}

	for _, b := range seed {
		_, err := db.Exec(`
			INSERT INTO buckets (name, allocation_pct, limiter_light, limiter_intermediate, limiter_strict, limiter_desperate, color, display_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (name) DO NOTHING
		`, b.name, b.pct, b.light, b.intermediate, b.strict, b.desperate, b.color, b.order)
		if err != nil {
			return fmt.Errorf("failed to seed bucket %s: %w", b.name, err)
		}
	}

	return nil
}
