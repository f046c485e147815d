package mqtt

import (
	"context"
	"encoding/json"
	"fmt"

	"GuardianAngelAPI/internal/logger"
	"GuardianAngelAPI/internal/models"
)

// Ingestor receives decoded samples. Satisfied by the telemetry monitor.
type Ingestor interface {
	Ingest(ctx context.Context, sample models.TelemetrySample)
}

// TelemetryBridge subscribes to the telemetry topic and feeds each decoded
// sample into the monitoring pipeline. Malformed payloads are logged and
// dropped; they never reach the evaluator.
type TelemetryBridge struct {
	client  *Client
	monitor Ingestor
	topic   string
	log     *logger.Logger
}

func NewTelemetryBridge(client *Client, monitor Ingestor, topic string, log *logger.Logger) *TelemetryBridge {
	return &TelemetryBridge{
		client:  client,
		monitor: monitor,
		topic:   topic,
		log:     log,
	}
}

func (b *TelemetryBridge) Start() error {
	if err := b.client.Subscribe(b.topic, b.handleSample); err != nil {
		return fmt.Errorf("failed to subscribe to telemetry topic: %w", err)
	}
	b.log.Info("Telemetry bridge listening on %s", b.topic)
	return nil
}

func (b *TelemetryBridge) handleSample(topic string, payload []byte) error {
	var sample models.TelemetrySample
	if err := json.Unmarshal(payload, &sample); err != nil {
		return fmt.Errorf("malformed telemetry payload on %s: %w", topic, err)
	}

	b.monitor.Ingest(context.Background(), sample)
	return nil
}
