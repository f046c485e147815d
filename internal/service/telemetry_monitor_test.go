package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"GuardianAngelAPI/internal/alerting"
	"GuardianAngelAPI/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves a fixed sample and tracks lifecycle calls.
type fakeSource struct {
	mu      sync.Mutex
	sample  models.TelemetrySample
	err     error
	started int
	stopped int
}

func (s *fakeSource) Latest(_ context.Context) (models.TelemetrySample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return models.TelemetrySample{}, s.err
	}
	return s.sample, nil
}

func (s *fakeSource) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started++
}

func (s *fakeSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped++
}

func sampleWithHR(hr int) models.TelemetrySample {
	return models.TelemetrySample{
		LiveHeartRate: &hr,
		LastUpdated:   time.Now(),
	}
}

func newTestMonitor(t *testing.T, source *fakeSource, interval time.Duration) (*TelemetryMonitor, *fakeAlertRepo) {
	t.Helper()
	alerts, repo, _ := newTestAlertService(t)
	evaluator := alerting.NewEvaluator(alerting.DefaultThresholds())
	return NewTelemetryMonitor(source, evaluator, alerts, interval, testLogger(t)), repo
}

func TestMonitorCreatesAlertFromThresholdCrossing(t *testing.T) {
	source := &fakeSource{sample: sampleWithHR(130)}
	monitor, repo := newTestMonitor(t, source, 10*time.Millisecond)

	monitor.Start()
	defer monitor.Stop()

	require.Eventually(t, func() bool {
		alerts, err := repo.LoadAll(context.Background())
		return err == nil && len(alerts) == 1
	}, 2*time.Second, 5*time.Millisecond)

	alerts, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.AlertTypeHRHigh, alerts[0].Type)

	// Repeated polls of the same condition stay deduplicated.
	time.Sleep(50 * time.Millisecond)
	alerts, err = repo.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, alerts, 1)
}

func TestMonitorNormalSampleCreatesNothing(t *testing.T) {
	source := &fakeSource{sample: sampleWithHR(75)}
	monitor, repo := newTestMonitor(t, source, 10*time.Millisecond)

	monitor.Start()
	defer monitor.Stop()

	time.Sleep(50 * time.Millisecond)

	alerts, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestMonitorTracksLatestSample(t *testing.T) {
	source := &fakeSource{sample: sampleWithHR(82)}
	monitor, _ := newTestMonitor(t, source, 10*time.Millisecond)

	monitor.Start()
	defer monitor.Stop()

	require.Eventually(t, func() bool {
		latest := monitor.Latest()
		return latest.LiveHeartRate != nil && *latest.LiveHeartRate == 82
	}, 2*time.Second, 5*time.Millisecond)
}

func TestMonitorSurvivesSourceFailure(t *testing.T) {
	source := &fakeSource{err: errors.New("device unreachable")}
	monitor, repo := newTestMonitor(t, source, 10*time.Millisecond)

	monitor.Start()
	time.Sleep(50 * time.Millisecond)
	monitor.Stop()

	alerts, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestMonitorLifecycle(t *testing.T) {
	source := &fakeSource{sample: sampleWithHR(70)}
	monitor, _ := newTestMonitor(t, source, 10*time.Millisecond)

	monitor.Start()
	monitor.Start() // second Start is a no-op
	monitor.Stop()

	source.mu.Lock()
	defer source.mu.Unlock()
	assert.Equal(t, 1, source.started)
	assert.Equal(t, 1, source.stopped)
}

func TestMonitorIngestEvaluatesDirectly(t *testing.T) {
	source := &fakeSource{sample: sampleWithHR(70)}
	monitor, repo := newTestMonitor(t, source, time.Hour)

	spo2 := 88
	monitor.Ingest(context.Background(), models.TelemetrySample{
		SpO2:        &spo2,
		LastUpdated: time.Now(),
	})

	alerts, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertTypeSpO2Low, alerts[0].Type)

	latest := monitor.Latest()
	require.NotNil(t, latest.SpO2)
	assert.Equal(t, 88, *latest.SpO2)
}
