package alerting

import (
	"fmt"

	"GuardianAngelAPI/internal/config"
	"GuardianAngelAPI/internal/models"
)

// Thresholds are the static limits a telemetry sample is checked against.
// All comparisons are strict: a reading exactly at a limit does not trigger.
type Thresholds struct {
	HeartRateHigh float64
	HeartRateLow  float64
	SpO2Low       float64
	TempHigh      float64
	TempLow       float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		HeartRateHigh: 120,
		HeartRateLow:  50,
		SpO2Low:       92,
		TempHigh:      38.0,
		TempLow:       35.0,
	}
}

func ThresholdsFromConfig(cfg config.AlertingConfig) Thresholds {
	return Thresholds{
		HeartRateHigh: cfg.HeartRateHigh,
		HeartRateLow:  cfg.HeartRateLow,
		SpO2Low:       cfg.SpO2Low,
		TempHigh:      cfg.TempHigh,
		TempLow:       cfg.TempLow,
	}
}

// Evaluator maps a telemetry sample to zero or more alert candidates. It is
// stateless: every call is independent, and flood control is the
// deduplicator's job.
type Evaluator struct {
	thresholds Thresholds
}

func NewEvaluator(t Thresholds) *Evaluator {
	return &Evaluator{thresholds: t}
}

// Evaluate checks each present sensor reading against its thresholds.
// Absent readings are skipped. Multiple simultaneous crossings produce
// multiple independent candidates.
func (e *Evaluator) Evaluate(sample models.TelemetrySample) []models.Candidate {
	var candidates []models.Candidate

	if sample.LiveHeartRate != nil {
		hr := float64(*sample.LiveHeartRate)
		if hr > e.thresholds.HeartRateHigh {
			candidates = append(candidates, models.Candidate{
				Type:  models.AlertTypeHRHigh,
				Title: "High Heart Rate Detected",
				Description: fmt.Sprintf("Live heart rate of %.0f BPM is above the %.0f BPM limit.",
					hr, e.thresholds.HeartRateHigh),
				MetricValue: &hr,
			})
		}
		if hr < e.thresholds.HeartRateLow {
			candidates = append(candidates, models.Candidate{
				Type:  models.AlertTypeHRLow,
				Title: "Low Heart Rate Detected",
				Description: fmt.Sprintf("Live heart rate of %.0f BPM is below the %.0f BPM limit.",
					hr, e.thresholds.HeartRateLow),
				MetricValue: &hr,
			})
		}
	}

	if sample.SpO2 != nil {
		spo2 := float64(*sample.SpO2)
		if spo2 < e.thresholds.SpO2Low {
			candidates = append(candidates, models.Candidate{
				Type:  models.AlertTypeSpO2Low,
				Title: "Low Blood Oxygen Detected",
				Description: fmt.Sprintf("SpO2 of %.0f%% is below the %.0f%% limit.",
					spo2, e.thresholds.SpO2Low),
				MetricValue: &spo2,
			})
		}
	}

	if sample.BodyTemperature != nil {
		temp := *sample.BodyTemperature
		if temp > e.thresholds.TempHigh {
			candidates = append(candidates, models.Candidate{
				Type:  models.AlertTypeTempHigh,
				Title: "High Body Temperature Detected",
				Description: fmt.Sprintf("Body temperature of %.1f°C is above the %.1f°C limit.",
					temp, e.thresholds.TempHigh),
				MetricValue: &temp,
			})
		}
		if temp < e.thresholds.TempLow {
			candidates = append(candidates, models.Candidate{
				Type:  models.AlertTypeTempLow,
				Title: "Low Body Temperature Detected",
				Description: fmt.Sprintf("Body temperature of %.1f°C is below the %.1f°C limit.",
					temp, e.thresholds.TempLow),
				MetricValue: &temp,
			})
		}
	}

	return candidates
}
