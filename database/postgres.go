// database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"

	"bmeams/config"
)

var SQL *sql.DB

func ConnectPostgres() error {
	db, err := sql.Open("postgres", config.PostgresDSN)
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	SQL = db
	log.Println("Successfully connected to PostgreSQL")
	return nil
}

// Migrate creates the relational tables when they do not exist yet. The
// asset_id columns are plain TEXT holding the document-store asset's external
// id: a weak reference, never a foreign key, so deleting an asset leaves its
// complaints and work orders untouched.
func Migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            SERIAL PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL DEFAULT 'viewer',
			department    TEXT NOT NULL DEFAULT '',
			phone         TEXT,
			active        BOOLEAN NOT NULL DEFAULT TRUE,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS complaints (
			id            SERIAL PRIMARY KEY,
			asset_id      TEXT NOT NULL,
			title         TEXT NOT NULL,
			description   TEXT NOT NULL DEFAULT '',
			status        TEXT NOT NULL DEFAULT 'Open',
			priority      TEXT NOT NULL DEFAULT 'Medium',
			reported_by   INTEGER,
			assigned_to   INTEGER,
			department    TEXT NOT NULL DEFAULT '',
			sla_due_at    TIMESTAMPTZ,
			resolved_at   TIMESTAMPTZ,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS work_orders (
			id            SERIAL PRIMARY KEY,
			asset_id      TEXT NOT NULL,
			complaint_id  INTEGER,
			title         TEXT NOT NULL,
			description   TEXT NOT NULL DEFAULT '',
			status        TEXT NOT NULL DEFAULT 'Open',
			priority      TEXT NOT NULL DEFAULT 'Medium',
			assigned_to   INTEGER,
			labor_hours   DOUBLE PRECISION NOT NULL DEFAULT 0,
			parts_cost    DOUBLE PRECISION NOT NULL DEFAULT 0,
			scheduled_for TIMESTAMPTZ,
			completed_at  TIMESTAMPTZ,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS preventive_maintenance (
			id            SERIAL PRIMARY KEY,
			asset_id      TEXT NOT NULL,
			title         TEXT NOT NULL,
			description   TEXT NOT NULL DEFAULT '',
			status        TEXT NOT NULL DEFAULT 'Scheduled',
			frequency     TEXT NOT NULL DEFAULT 'Monthly',
			assigned_to   INTEGER,
			scheduled_for TIMESTAMPTZ NOT NULL,
			completed_at  TIMESTAMPTZ,
			checklist     JSONB,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_complaints_asset ON complaints (asset_id)`,
		`CREATE INDEX IF NOT EXISTS idx_complaints_status ON complaints (status)`,
		`CREATE INDEX IF NOT EXISTS idx_work_orders_asset ON work_orders (asset_id)`,
		`CREATE INDEX IF NOT EXISTS idx_pm_schedule ON preventive_maintenance (scheduled_for, status)`,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, stmt := range stmts {
		if _, err := SQL.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

func DisconnectPostgres() {
	if SQL == nil {
		return
	}
	if err := SQL.Close(); err != nil {
		log.Printf("PostgreSQL disconnect warning: %v", err)
	}
}
