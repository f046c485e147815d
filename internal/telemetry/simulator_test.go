package telemetry

import (
	"context"
	"testing"
	"time"

	"GuardianAngelAPI/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSimulator(t *testing.T, interval time.Duration) *Simulator {
	t.Helper()
	log, err := logger.New(logger.Config{Level: logger.ERROR})
	require.NoError(t, err)
	return NewSimulator(interval, log)
}

func TestSimulatorInitialSampleInRange(t *testing.T) {
	s := newTestSimulator(t, time.Second)

	sample, err := s.Latest(context.Background())
	require.NoError(t, err)

	require.NotNil(t, sample.LiveHeartRate)
	assert.GreaterOrEqual(t, *sample.LiveHeartRate, 60)
	assert.LessOrEqual(t, *sample.LiveHeartRate, 100)

	require.NotNil(t, sample.SpO2)
	assert.GreaterOrEqual(t, *sample.SpO2, 94)
	assert.LessOrEqual(t, *sample.SpO2, 100)

	require.NotNil(t, sample.BodyTemperature)
	assert.GreaterOrEqual(t, *sample.BodyTemperature, 36.0)
	assert.LessOrEqual(t, *sample.BodyTemperature, 37.5)

	assert.NotEmpty(t, sample.SleepStages)
	assert.False(t, sample.LastUpdated.IsZero())
}

func TestSimulatorMutatesWhileStarted(t *testing.T) {
	s := newTestSimulator(t, 10*time.Millisecond)

	before, _ := s.Latest(context.Background())

	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool {
		after, _ := s.Latest(context.Background())
		return after.LastUpdated.After(before.LastUpdated)
	}, time.Second, 5*time.Millisecond)
}

func TestSimulatorStepsNeverDecrease(t *testing.T) {
	s := newTestSimulator(t, 5*time.Millisecond)
	s.Start()
	defer s.Stop()

	first, _ := s.Latest(context.Background())
	time.Sleep(50 * time.Millisecond)
	last, _ := s.Latest(context.Background())

	require.NotNil(t, first.DailySteps)
	require.NotNil(t, last.DailySteps)
	assert.GreaterOrEqual(t, *last.DailySteps, *first.DailySteps)
}

func TestSimulatorStopIsIdempotent(t *testing.T) {
	s := newTestSimulator(t, time.Millisecond)
	s.Start()
	s.Stop()
	s.Stop()
}

func TestGenerateSleepStagesAccountsForAllMinutes(t *testing.T) {
	total := 480
	stages := generateSleepStages(total)
	require.NotEmpty(t, stages)

	sum := 0
	for _, st := range stages {
		sum += st.DurationMinutes
	}
	assert.Equal(t, total, sum)
}
