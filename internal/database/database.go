// internal/database/database.go

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"GuardianAngelAPI/internal/config"

	_ "github.com/lib/pq"
)

type Database struct {
	DB  *sql.DB
	cfg *config.DatabaseConfig
}

func New(cfg *config.DatabaseConfig) (*Database, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Database,
		cfg.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{
		DB:  db,
		cfg: cfg,
	}, nil
}

func (d *Database) Health(ctx context.Context) error {
	return d.DB.PingContext(ctx)
}

func (d *Database) Close() error {
	return d.DB.Close()
}

// Migrate creates the alerts table when it does not exist yet.
func (d *Database) Migrate(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS alerts (
			id            TEXT PRIMARY KEY,
			type          TEXT NOT NULL,
			title         TEXT NOT NULL,
			description   TEXT NOT NULL DEFAULT '',
			severity      DOUBLE PRECISION,
			status        TEXT NOT NULL DEFAULT 'active',
			explanation   TEXT NOT NULL DEFAULT '',
			original_text TEXT NOT NULL DEFAULT '',
			metric_value  DOUBLE PRECISION,
			created_at    TIMESTAMPTZ NOT NULL,
			resolved_at   TIMESTAMPTZ
		);
		CREATE INDEX IF NOT EXISTS idx_alerts_created_at ON alerts (created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_alerts_type_status ON alerts (type, status);
	`

	if _, err := d.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
