// The agent simulates a wearable device: it generates telemetry samples and
// publishes them to the MQTT telemetry topic for an API server running with
// TELEMETRY_SOURCE=mqtt.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"GuardianAngelAPI/internal/config"
	"GuardianAngelAPI/internal/logger"
	"GuardianAngelAPI/internal/mqtt"
	"GuardianAngelAPI/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:     cfg.Logging.Level,
		UseColors: cfg.Logging.UseColors,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer log.Close()

	log.Info("Starting telemetry agent")

	client, err := mqtt.NewClient(&cfg.MQTT, log)
	if err != nil {
		log.Fatal("Failed to create MQTT client: %v", err)
	}
	if err := client.Connect(); err != nil {
		log.Fatal("Failed to connect to MQTT broker: %v", err)
	}
	defer client.Disconnect()

	sim := telemetry.NewSimulator(cfg.Telemetry.SimulatorInterval, log)
	sim.Start()
	defer sim.Stop()

	ticker := time.NewTicker(cfg.Telemetry.PollInterval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Info("Publishing samples to %s every %s", cfg.MQTT.TelemetryTopic, cfg.Telemetry.PollInterval)

	for {
		select {
		case <-quit:
			log.Info("Agent stopped")
			return
		case <-ticker.C:
			publishSample(client, sim, cfg.MQTT.TelemetryTopic, log)
		}
	}
}

func publishSample(client *mqtt.Client, sim *telemetry.Simulator, topic string, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sample, err := sim.Latest(ctx)
	if err != nil {
		log.Error("Failed to read sample: %v", err)
		return
	}

	if err := client.PublishJSON(topic, sample); err != nil {
		log.Error("Failed to publish sample: %v", err)
	}
}
