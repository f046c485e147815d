package alerting

import (
	"strings"
	"testing"
	"time"

	"GuardianAngelAPI/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hrHighCandidate() models.Candidate {
	v := 130.0
	return models.Candidate{
		Type:        models.AlertTypeHRHigh,
		Title:       "High Heart Rate Detected",
		Description: "Live heart rate of 130 BPM is above the 120 BPM limit.",
		MetricValue: &v,
	}
}

func TestAdmitFirstCandidate(t *testing.T) {
	d := NewDeduplicator(time.Hour)
	now := time.Now()

	alert := d.Admit(hrHighCandidate(), nil, now)
	require.NotNil(t, alert)
	assert.Equal(t, models.StatusActive, alert.Status)
	assert.Equal(t, now, alert.Timestamp)
	assert.NotEmpty(t, alert.ID)
	assert.Nil(t, alert.ResolvedAt)
}

func TestAdmitWindowBoundary(t *testing.T) {
	d := NewDeduplicator(time.Hour)
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := d.Admit(hrHighCandidate(), nil, start)
	require.NotNil(t, first)
	history := []models.Alert{*first}

	// 3599s after the first: still inside the window, suppressed.
	assert.Nil(t, d.Admit(hrHighCandidate(), history, start.Add(3599*time.Second)))

	// 3601s after: window elapsed, a second alert is created.
	second := d.Admit(hrHighCandidate(), history, start.Add(3601*time.Second))
	require.NotNil(t, second)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestAdmitDifferentTypeNotSuppressed(t *testing.T) {
	d := NewDeduplicator(time.Hour)
	now := time.Now()

	first := d.Admit(hrHighCandidate(), nil, now)
	require.NotNil(t, first)

	v := 88.0
	spo2 := models.Candidate{
		Type:        models.AlertTypeSpO2Low,
		Title:       "Low Blood Oxygen Detected",
		MetricValue: &v,
	}
	assert.NotNil(t, d.Admit(spo2, []models.Alert{*first}, now.Add(time.Second)))
}

func TestAdmitResolvedAlertDoesNotSuppress(t *testing.T) {
	d := NewDeduplicator(time.Hour)
	now := time.Now()

	first := d.Admit(hrHighCandidate(), nil, now)
	require.NotNil(t, first)

	resolvedAt := now.Add(time.Minute)
	first.Status = models.StatusResolved
	first.ResolvedAt = &resolvedAt

	// Same type, inside the window, but resolved: a new alert is admitted.
	second := d.Admit(hrHighCandidate(), []models.Alert{*first}, now.Add(2*time.Minute))
	assert.NotNil(t, second)
}

func TestAdmitOnlyOneActivePerTypeInWindow(t *testing.T) {
	d := NewDeduplicator(time.Hour)
	now := time.Now()

	var history []models.Alert
	admitted := 0
	for i := 0; i < 5; i++ {
		if a := d.Admit(hrHighCandidate(), history, now.Add(time.Duration(i)*time.Minute)); a != nil {
			history = append(history, *a)
			admitted++
		}
	}

	assert.Equal(t, 1, admitted)
}

func TestNewAlertIDUniqueAndTyped(t *testing.T) {
	now := time.Now()

	a := NewAlertID(now, models.AlertTypeBullying)
	b := NewAlertID(now, models.AlertTypeBullying)
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, "-bullying"))

	c := NewAlertID(now, models.AlertTypeDepressive)
	assert.True(t, strings.HasSuffix(c, "-depressive"))

	d := NewAlertID(now, models.AlertTypeHRHigh)
	assert.False(t, strings.HasSuffix(d, "-bullying"))
	assert.False(t, strings.HasSuffix(d, "-depressive"))
}
