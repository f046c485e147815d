package models

import "time"

// Alert type constants. AI types come from text analysis, fitbit types
// from telemetry threshold crossings.
const (
	AlertTypeBullying   = "ai_bullying"
	AlertTypeDepressive = "ai_depressive"
	AlertTypeHRHigh     = "fitbit_hr_high"
	AlertTypeHRLow      = "fitbit_hr_low"
	AlertTypeSpO2Low    = "fitbit_spo2_low"
	AlertTypeTempHigh   = "fitbit_temp_high"
	AlertTypeTempLow    = "fitbit_temp_low"
)

const (
	StatusActive   = "active"
	StatusResolved = "resolved"
)

// Alert is the persistent record of a detected condition. Only Status and
// ResolvedAt change after creation; everything else is written once.
type Alert struct {
	ID          string     `json:"id" db:"id"`
	Type        string     `json:"type" db:"type"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Severity    *float64   `json:"severity,omitempty" db:"severity"`
	Status      string     `json:"status" db:"status"`
	Timestamp   time.Time  `json:"timestamp" db:"created_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty" db:"resolved_at"`

	// Detail fields, populated by alert kind: AI alerts carry the model's
	// explanation and the analyzed text, threshold alerts carry the
	// offending metric reading.
	Explanation  string   `json:"explanation,omitempty" db:"explanation"`
	OriginalText string   `json:"original_text,omitempty" db:"original_text"`
	MetricValue  *float64 `json:"metric_value,omitempty" db:"metric_value"`
}

// IsAI reports whether the alert came from text analysis.
func (a *Alert) IsAI() bool {
	return a.Type == AlertTypeBullying || a.Type == AlertTypeDepressive
}

// Candidate is a potential alert produced by the threshold evaluator or the
// text analysis pipeline. It has no identity or status until the
// deduplicator admits it.
type Candidate struct {
	Type         string
	Title        string
	Description  string
	Severity     *float64
	Explanation  string
	OriginalText string
	MetricValue  *float64
}

// ClassificationResult is the structured output of one classifier call.
// It is consumed immediately and never persisted.
type ClassificationResult struct {
	IsBullying         bool     `json:"isBullying"`
	BullyingSeverity   *float64 `json:"bullyingSeverity,omitempty"`
	IsDepressive       bool     `json:"isDepressive"`
	DepressiveSeverity *float64 `json:"depressiveSeverity,omitempty"`
	Explanation        string   `json:"explanation"`
}

// AnalysisResponse is returned by the analyze endpoint: the raw
// classification plus whatever alerts the deduplicator admitted.
type AnalysisResponse struct {
	Result ClassificationResult `json:"result"`
	Alerts []Alert              `json:"alerts"`
}
