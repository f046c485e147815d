package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"GuardianAngelAPI/internal/logger"
	"GuardianAngelAPI/internal/models"
)

// AlertFileRepository keeps the alert collection in memory and writes the
// full serialized array to a JSON file on every mutation. There is no
// incremental format: each Append/UpdateStatus/Clear rewrites the snapshot.
//
// This is only safe with a single writer process; concurrent processes
// sharing the file would race on the overwrite.
type AlertFileRepository struct {
	path   string
	log    *logger.Logger
	mu     sync.RWMutex
	alerts []models.Alert
}

func NewAlertFileRepository(path string, log *logger.Logger) (*AlertFileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	r := &AlertFileRepository{
		path: path,
		log:  log,
	}
	r.load()
	return r, nil
}

// load reads the snapshot from disk. A malformed snapshot is discarded
// wholesale: the store resets to empty rather than attempting partial
// recovery.
func (r *AlertFileRepository) load() {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.log.Warn("Failed to read alert snapshot %s: %v", r.path, err)
		}
		r.alerts = nil
		return
	}

	var alerts []models.Alert
	if err := json.Unmarshal(data, &alerts); err != nil {
		r.log.Warn("Alert snapshot %s is corrupted, discarding: %v", r.path, err)
		r.alerts = nil
		return
	}

	r.alerts = alerts
	r.log.Info("Loaded %d alerts from snapshot", len(alerts))
}

// save writes the entire collection back to disk.
func (r *AlertFileRepository) save() error {
	data, err := json.MarshalIndent(r.alerts, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0644)
}

func (r *AlertFileRepository) Append(ctx context.Context, alert *models.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.alerts = append([]models.Alert{*alert}, r.alerts...)
	return r.save()
}

func (r *AlertFileRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.alerts {
		if r.alerts[i].ID != id {
			continue
		}

		r.alerts[i].Status = status
		if status == models.StatusResolved {
			now := time.Now()
			r.alerts[i].ResolvedAt = &now
		} else {
			r.alerts[i].ResolvedAt = nil
		}
		return r.save()
	}

	// Unknown ID: deliberate no-op.
	return nil
}

func (r *AlertFileRepository) LoadAll(ctx context.Context) ([]models.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Alert, len(r.alerts))
	copy(out, r.alerts)
	return out, nil
}

func (r *AlertFileRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.alerts = nil
	return r.save()
}
