package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"GuardianAngelAPI/internal/logger"
	"GuardianAngelAPI/internal/models"
)

// ActivityFileRepository stores imported activity records in a JSON snapshot
// file, one record per day.
type ActivityFileRepository struct {
	path    string
	log     *logger.Logger
	mu      sync.RWMutex
	records map[string]models.ActivityRecord // keyed by date
}

func NewActivityFileRepository(path string, log *logger.Logger) (*ActivityFileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	r := &ActivityFileRepository{
		path:    path,
		log:     log,
		records: make(map[string]models.ActivityRecord),
	}
	r.load()
	return r, nil
}

func (r *ActivityFileRepository) load() {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.log.Warn("Failed to read activity snapshot %s: %v", r.path, err)
		}
		return
	}

	var records []models.ActivityRecord
	if err := json.Unmarshal(data, &records); err != nil {
		r.log.Warn("Activity snapshot %s is corrupted, discarding: %v", r.path, err)
		return
	}

	for _, rec := range records {
		r.records[rec.Date] = rec
	}
}

func (r *ActivityFileRepository) save() error {
	records := r.sorted()
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0644)
}

func (r *ActivityFileRepository) sorted() []models.ActivityRecord {
	records := make([]models.ActivityRecord, 0, len(r.records))
	for _, rec := range r.records {
		records = append(records, rec)
	}
	// Date strings are yyyy-MM-dd, so lexicographic order is date order.
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date > records[j].Date
	})
	return records
}

func (r *ActivityFileRepository) Upsert(ctx context.Context, records []models.ActivityRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range records {
		r.records[rec.Date] = rec
	}
	return r.save()
}

func (r *ActivityFileRepository) LoadAll(ctx context.Context) ([]models.ActivityRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sorted(), nil
}
