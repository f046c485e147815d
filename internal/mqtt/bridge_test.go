package mqtt

import (
	"context"
	"testing"

	"GuardianAngelAPI/internal/logger"
	"GuardianAngelAPI/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingIngestor struct {
	samples []models.TelemetrySample
}

func (r *recordingIngestor) Ingest(_ context.Context, sample models.TelemetrySample) {
	r.samples = append(r.samples, sample)
}

func TestBridgeDecodesSample(t *testing.T) {
	log, err := logger.New(logger.Config{Level: logger.ERROR})
	require.NoError(t, err)

	ingestor := &recordingIngestor{}
	bridge := NewTelemetryBridge(nil, ingestor, "guardian/telemetry", log)

	payload := []byte(`{"liveHeartRate":130,"spo2":95,"lastUpdated":"2024-03-01T10:00:00Z"}`)
	require.NoError(t, bridge.handleSample("guardian/telemetry", payload))

	require.Len(t, ingestor.samples, 1)
	require.NotNil(t, ingestor.samples[0].LiveHeartRate)
	assert.Equal(t, 130, *ingestor.samples[0].LiveHeartRate)
}

func TestBridgeRejectsMalformedPayload(t *testing.T) {
	log, err := logger.New(logger.Config{Level: logger.ERROR})
	require.NoError(t, err)

	ingestor := &recordingIngestor{}
	bridge := NewTelemetryBridge(nil, ingestor, "guardian/telemetry", log)

	require.Error(t, bridge.handleSample("guardian/telemetry", []byte("{not json")))
	assert.Empty(t, ingestor.samples)
}

func TestMatchTopic(t *testing.T) {
	tests := []struct {
		pattern string
		topic   string
		want    bool
	}{
		{"guardian/telemetry", "guardian/telemetry", true},
		{"guardian/+", "guardian/telemetry", true},
		{"guardian/#", "guardian/telemetry/child1", true},
		{"guardian/+", "guardian/telemetry/child1", false},
		{"guardian/telemetry", "guardian/alerts", false},
		{"other/#", "guardian/telemetry", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchTopic(tt.pattern, tt.topic), "pattern=%s topic=%s", tt.pattern, tt.topic)
	}
}
