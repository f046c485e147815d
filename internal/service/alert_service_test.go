package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"GuardianAngelAPI/internal/alerting"
	"GuardianAngelAPI/internal/logger"
	"GuardianAngelAPI/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(logger.Config{Level: logger.ERROR})
	require.NoError(t, err)
	return log
}

// fakeAlertRepo is an in-memory AlertRepository for exercising the service
// without touching disk.
type fakeAlertRepo struct {
	mu     sync.Mutex
	alerts []models.Alert
}

func (r *fakeAlertRepo) Append(_ context.Context, alert *models.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append([]models.Alert{*alert}, r.alerts...)
	return nil
}

func (r *fakeAlertRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.alerts {
		if r.alerts[i].ID == id {
			r.alerts[i].Status = status
			if status == models.StatusResolved {
				now := time.Now()
				r.alerts[i].ResolvedAt = &now
			} else {
				r.alerts[i].ResolvedAt = nil
			}
		}
	}
	return nil
}

func (r *fakeAlertRepo) LoadAll(_ context.Context) ([]models.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Alert, len(r.alerts))
	copy(out, r.alerts)
	return out, nil
}

func (r *fakeAlertRepo) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = nil
	return nil
}

// fakeNotifier records broadcasts.
type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *fakeNotifier) Broadcast(msgType string, _ interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msgType)
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

func newTestAlertService(t *testing.T) (*AlertService, *fakeAlertRepo, *fakeNotifier) {
	t.Helper()
	repo := &fakeAlertRepo{}
	hub := &fakeNotifier{}
	svc := NewAlertService(repo, alerting.NewDeduplicator(time.Hour), hub, testLogger(t))
	return svc, repo, hub
}

func hrCandidate() models.Candidate {
	v := 130.0
	return models.Candidate{
		Type:        models.AlertTypeHRHigh,
		Title:       "High Heart Rate Detected",
		Description: "Heart rate reading of 130 BPM exceeds the configured threshold.",
		MetricValue: &v,
	}
}

func TestAdmitCreatesAndBroadcasts(t *testing.T) {
	svc, repo, hub := newTestAlertService(t)
	ctx := context.Background()

	alert, err := svc.Admit(ctx, hrCandidate())
	require.NoError(t, err)
	require.NotNil(t, alert)

	assert.Equal(t, models.AlertTypeHRHigh, alert.Type)
	assert.Equal(t, models.StatusActive, alert.Status)

	stored, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, alert.ID, stored[0].ID)

	assert.Equal(t, 1, hub.count())
}

func TestAdmitSuppressesActiveDuplicate(t *testing.T) {
	svc, _, hub := newTestAlertService(t)
	ctx := context.Background()

	first, err := svc.Admit(ctx, hrCandidate())
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := svc.Admit(ctx, hrCandidate())
	require.NoError(t, err)
	assert.Nil(t, second, "second candidate within the window should be suppressed")

	all, err := svc.GetAlerts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, 1, hub.count(), "suppressed candidates must not broadcast")
}

func TestAdmitAfterResolveCreatesAgain(t *testing.T) {
	svc, _, _ := newTestAlertService(t)
	ctx := context.Background()

	first, err := svc.Admit(ctx, hrCandidate())
	require.NoError(t, err)
	require.NotNil(t, first)

	require.NoError(t, svc.Resolve(ctx, first.ID))

	// A resolved alert no longer suppresses its type.
	second, err := svc.Admit(ctx, hrCandidate())
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestPartitionsByStatus(t *testing.T) {
	svc, _, _ := newTestAlertService(t)
	ctx := context.Background()

	hr, err := svc.Admit(ctx, hrCandidate())
	require.NoError(t, err)

	low := 40.0
	_, err = svc.Admit(ctx, models.Candidate{
		Type:        models.AlertTypeHRLow,
		Title:       "Low Heart Rate Detected",
		MetricValue: &low,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Resolve(ctx, hr.ID))

	active, err := svc.GetActiveAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, models.AlertTypeHRLow, active[0].Type)

	resolved, err := svc.GetResolvedAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, hr.ID, resolved[0].ID)
	assert.NotNil(t, resolved[0].ResolvedAt)
}

func TestReactivateClearsResolvedAt(t *testing.T) {
	svc, repo, _ := newTestAlertService(t)
	ctx := context.Background()

	alert, err := svc.Admit(ctx, hrCandidate())
	require.NoError(t, err)

	require.NoError(t, svc.Resolve(ctx, alert.ID))
	require.NoError(t, svc.Reactivate(ctx, alert.ID))

	stored, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, models.StatusActive, stored[0].Status)
	assert.Nil(t, stored[0].ResolvedAt)
}

func TestClearAllEmptiesStore(t *testing.T) {
	svc, _, _ := newTestAlertService(t)
	ctx := context.Background()

	_, err := svc.Admit(ctx, hrCandidate())
	require.NoError(t, err)

	require.NoError(t, svc.ClearAll(ctx))

	all, err := svc.GetAlerts(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
