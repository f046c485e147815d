package alerting

import (
	"fmt"
	"strings"
	"time"

	"GuardianAngelAPI/internal/models"

	"github.com/google/uuid"
)

// DefaultDedupWindow is the recency window during which a second candidate
// of an already-active alert type is suppressed.
const DefaultDedupWindow = time.Hour

// Deduplicator decides whether a candidate becomes a new alert or is
// dropped as a near-duplicate. It holds no state of its own; the caller
// supplies the current alert history on every call.
type Deduplicator struct {
	window time.Duration
}

func NewDeduplicator(window time.Duration) *Deduplicator {
	if window <= 0 {
		window = DefaultDedupWindow
	}
	return &Deduplicator{window: window}
}

// Admit returns a fresh active alert for the candidate, or nil when an
// active alert of the same type already exists within the window.
//
// Only active alerts suppress: a resolved alert of the same type inside the
// window does not block a new one. The original behaves the same way, so a
// user who resolves an alert while the condition persists will get a
// duplicate on the next evaluation.
func (d *Deduplicator) Admit(candidate models.Candidate, history []models.Alert, now time.Time) *models.Alert {
	for i := range history {
		a := &history[i]
		if a.Type != candidate.Type || a.Status != models.StatusActive {
			continue
		}
		if now.Sub(a.Timestamp) < d.window {
			return nil
		}
	}

	return &models.Alert{
		ID:           NewAlertID(now, candidate.Type),
		Type:         candidate.Type,
		Title:        candidate.Title,
		Description:  candidate.Description,
		Severity:     candidate.Severity,
		Status:       models.StatusActive,
		Timestamp:    now,
		Explanation:  candidate.Explanation,
		OriginalText: candidate.OriginalText,
		MetricValue:  candidate.MetricValue,
	}
}

// NewAlertID builds a unique identifier from the creation time plus a random
// suffix. AI-sourced alerts additionally carry their sub-type so the two
// alerts produced from one classification never collide.
func NewAlertID(t time.Time, alertType string) string {
	id := fmt.Sprintf("%s-%s", t.UTC().Format("20060102T150405.000Z0700"), shortUUID())

	switch alertType {
	case models.AlertTypeBullying:
		id += "-bullying"
	case models.AlertTypeDepressive:
		id += "-depressive"
	}

	return id
}

func shortUUID() string {
	return strings.Split(uuid.NewString(), "-")[0]
}
