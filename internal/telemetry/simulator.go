package telemetry

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"GuardianAngelAPI/internal/logger"
	"GuardianAngelAPI/internal/models"
)

// Simulator produces a random-walk telemetry stream mimicking a child's
// wearable. The sample mutates on a fixed interval while started; Latest
// always returns the current snapshot.
type Simulator struct {
	interval time.Duration
	log      *logger.Logger

	mu      sync.RWMutex
	current models.TelemetrySample

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

func NewSimulator(interval time.Duration, log *logger.Logger) *Simulator {
	if interval <= 0 {
		interval = 15 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Simulator{
		interval: interval,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
	s.current = s.initialSample()
	return s
}

func (s *Simulator) Latest(ctx context.Context) (models.TelemetrySample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, nil
}

func (s *Simulator) Start() {
	s.once.Do(func() {
		s.wg.Add(1)
		go s.run()
		s.log.Info("Telemetry simulator started (interval: %s)", s.interval)
	})
}

func (s *Simulator) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Simulator) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			s.log.Info("Telemetry simulator stopped")
			return
		case <-ticker.C:
			s.mu.Lock()
			s.current = s.mutate(s.current)
			s.mu.Unlock()
		}
	}
}

func (s *Simulator) initialSample() models.TelemetrySample {
	liveHR := randIntInRange(60, 100)
	restingHR := randIntInRange(55, 75)
	steps := randIntInRange(3000, 10000)
	sleepHours := roundTo1(randFloatInRange(5, 9))
	temp := roundTo1(randFloatInRange(36.0, 37.5))
	spo2 := randIntInRange(94, 100)

	return models.TelemetrySample{
		LiveHeartRate:     &liveHR,
		RestingHeartRate:  &restingHR,
		DailySteps:        &steps,
		LastSleepDuration: &sleepHours,
		SleepStages:       generateSleepStages(int(sleepHours * 60)),
		BodyTemperature:   &temp,
		SpO2:              &spo2,
		LastUpdated:       time.Now(),
	}
}

// mutate produces the next step of the walk. Live ranges are wider than the
// initial ones so threshold crossings actually happen now and then.
func (s *Simulator) mutate(prev models.TelemetrySample) models.TelemetrySample {
	liveHR := randIntInRange(55, 120)
	restingHR := randIntInRange(55, 75)

	steps := 0
	if prev.DailySteps != nil {
		steps = *prev.DailySteps
	}
	steps += randIntInRange(0, 200)

	sleepHours := roundTo1(randFloatInRange(5, 9))
	temp := roundTo1(randFloatInRange(35.8, 37.8))
	spo2 := randIntInRange(92, 100)

	return models.TelemetrySample{
		LiveHeartRate:     &liveHR,
		RestingHeartRate:  &restingHR,
		DailySteps:        &steps,
		LastSleepDuration: &sleepHours,
		SleepStages:       generateSleepStages(int(sleepHours * 60)),
		BodyTemperature:   &temp,
		SpO2:              &spo2,
		LastUpdated:       time.Now(),
	}
}

// generateSleepStages splits a night of sleep into staged chunks: roughly
// 10-25% deep, 45-65% light, 15-25% REM, remainder awake/restless.
func generateSleepStages(totalMinutes int) []models.SleepStage {
	var stages []models.SleepStage
	remaining := totalMinutes

	deep := int(float64(remaining) * randFloatInRange(0.10, 0.25))
	if deep > 0 {
		stages = append(stages, models.SleepStage{Stage: "deep", DurationMinutes: deep})
		remaining -= deep
	}

	light := int(float64(remaining) * randFloatInRange(0.45, 0.65))
	if light > 0 {
		stages = append(stages, models.SleepStage{Stage: "light", DurationMinutes: light})
		remaining -= light
	}

	rem := int(float64(remaining) * randFloatInRange(0.15, 0.25))
	if rem > 0 {
		stages = append(stages, models.SleepStage{Stage: "rem", DurationMinutes: rem})
		remaining -= rem
	}

	if remaining > 0 {
		stages = append(stages, models.SleepStage{Stage: "awake", DurationMinutes: remaining})
	}

	rand.Shuffle(len(stages), func(i, j int) {
		stages[i], stages[j] = stages[j], stages[i]
	})

	return stages
}

func randIntInRange(min, max int) int {
	return rand.Intn(max-min+1) + min
}

func randFloatInRange(min, max float64) float64 {
	return rand.Float64()*(max-min) + min
}

func roundTo1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
