package service

import (
	"context"
	"sync"
	"time"

	"GuardianAngelAPI/internal/alerting"
	"GuardianAngelAPI/internal/logger"
	"GuardianAngelAPI/internal/models"
	"GuardianAngelAPI/internal/telemetry"
)

// TelemetryMonitor polls the telemetry source on a fixed interval and runs
// each sample through the evaluate-admit-persist cycle. Ticks execute
// sequentially: a tick that runs long simply delays the next one.
type TelemetryMonitor struct {
	source    telemetry.Source
	evaluator *alerting.Evaluator
	alerts    IAlertService
	interval  time.Duration
	log       *logger.Logger

	mu     sync.RWMutex
	latest models.TelemetrySample

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

func NewTelemetryMonitor(
	source telemetry.Source,
	evaluator *alerting.Evaluator,
	alerts IAlertService,
	interval time.Duration,
	log *logger.Logger,
) *TelemetryMonitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &TelemetryMonitor{
		source:    source,
		evaluator: evaluator,
		alerts:    alerts,
		interval:  interval,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (m *TelemetryMonitor) Start() {
	m.once.Do(func() {
		m.source.Start()
		m.wg.Add(1)
		go m.run()
		m.log.Info("Telemetry monitor started (poll interval: %s)", m.interval)
	})
}

func (m *TelemetryMonitor) Stop() {
	m.cancel()
	m.wg.Wait()
	m.source.Stop()
	m.log.Info("Telemetry monitor stopped")
}

// Latest returns the most recently polled or ingested sample.
func (m *TelemetryMonitor) Latest() models.TelemetrySample {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest
}

// Ingest feeds an externally delivered sample (MQTT bridge) through the
// same evaluation cycle the poller uses.
func (m *TelemetryMonitor) Ingest(ctx context.Context, sample models.TelemetrySample) {
	m.mu.Lock()
	m.latest = sample
	m.mu.Unlock()

	m.evaluate(ctx, sample)
}

func (m *TelemetryMonitor) run() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	// Prime immediately instead of waiting a full interval.
	m.tick()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.tick()
		}
	}
}

func (m *TelemetryMonitor) tick() {
	ctx, cancel := context.WithTimeout(m.ctx, m.interval)
	defer cancel()

	sample, err := m.source.Latest(ctx)
	if err != nil {
		m.log.Error("Telemetry poll failed: %v", err)
		return
	}

	m.mu.Lock()
	m.latest = sample
	m.mu.Unlock()

	m.evaluate(ctx, sample)
}

func (m *TelemetryMonitor) evaluate(ctx context.Context, sample models.TelemetrySample) {
	for _, candidate := range m.evaluator.Evaluate(sample) {
		if _, err := m.alerts.Admit(ctx, candidate); err != nil {
			m.log.Error("Failed to admit %s candidate: %v", candidate.Type, err)
		}
	}
}
