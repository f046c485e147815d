package repository

import (
	"context"
	"errors"

	"GuardianAngelAPI/internal/models"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// AlertRepository is the persistence boundary of the alert pipeline. The
// pipeline never cares whether alerts land in a snapshot file or a database.
type AlertRepository interface {
	// Append inserts a new alert at the head of the collection
	// (most-recent-first ordering).
	Append(ctx context.Context, alert *models.Alert) error

	// UpdateStatus transitions an alert between active and resolved,
	// setting or clearing ResolvedAt to match. Unknown IDs are a silent
	// no-op.
	UpdateStatus(ctx context.Context, id string, status string) error

	// LoadAll returns every alert, most recent first.
	LoadAll(ctx context.Context) ([]models.Alert, error)

	// Clear deletes the entire collection (account logout).
	Clear(ctx context.Context) error
}

// UserRepository stores parent accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// ActivityRepository stores imported daily activity records.
type ActivityRepository interface {
	// Upsert replaces records sharing a date and inserts the rest.
	Upsert(ctx context.Context, records []models.ActivityRecord) error

	// LoadAll returns records sorted by date descending.
	LoadAll(ctx context.Context) ([]models.ActivityRecord, error)
}
