package repository

import (
	"context"
	"database/sql"
	"fmt"

	"GuardianAngelAPI/internal/models"
)

// AlertPostgresRepository is the database-backed variant of the alert store.
// Same contract as the snapshot file, different persistence mechanism.
type AlertPostgresRepository struct {
	db *sql.DB
}

func NewAlertPostgresRepository(db *sql.DB) *AlertPostgresRepository {
	return &AlertPostgresRepository{db: db}
}

func (r *AlertPostgresRepository) Append(ctx context.Context, alert *models.Alert) error {
	query := `
		INSERT INTO alerts (
			id, type, title, description, severity, status,
			explanation, original_text, metric_value, created_at, resolved_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(
		ctx, query,
		alert.ID,
		alert.Type,
		alert.Title,
		alert.Description,
		alert.Severity,
		alert.Status,
		alert.Explanation,
		alert.OriginalText,
		alert.MetricValue,
		alert.Timestamp,
		alert.ResolvedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}

	return nil
}

func (r *AlertPostgresRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	var query string
	if status == models.StatusResolved {
		query = `UPDATE alerts SET status = $1, resolved_at = NOW() WHERE id = $2`
	} else {
		query = `UPDATE alerts SET status = $1, resolved_at = NULL WHERE id = $2`
	}

	// A missing ID simply affects zero rows, matching the silent no-op
	// contract of the snapshot store.
	if _, err := r.db.ExecContext(ctx, query, status, id); err != nil {
		return fmt.Errorf("failed to update alert status: %w", err)
	}

	return nil
}

func (r *AlertPostgresRepository) LoadAll(ctx context.Context) ([]models.Alert, error) {
	query := `
		SELECT id, type, title, description, severity, status,
		       explanation, original_text, metric_value, created_at, resolved_at
		FROM alerts
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		var a models.Alert
		err := rows.Scan(
			&a.ID, &a.Type, &a.Title, &a.Description, &a.Severity, &a.Status,
			&a.Explanation, &a.OriginalText, &a.MetricValue, &a.Timestamp, &a.ResolvedAt,
		)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}

	return alerts, rows.Err()
}

func (r *AlertPostgresRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM alerts`); err != nil {
		return fmt.Errorf("failed to clear alerts: %w", err)
	}
	return nil
}
