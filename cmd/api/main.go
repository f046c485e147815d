package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"GuardianAngelAPI/internal/alerting"
	"GuardianAngelAPI/internal/classifier"
	"GuardianAngelAPI/internal/config"
	"GuardianAngelAPI/internal/database"
	"GuardianAngelAPI/internal/handler"
	"GuardianAngelAPI/internal/logger"
	"GuardianAngelAPI/internal/mqtt"
	"GuardianAngelAPI/internal/repository"
	"GuardianAngelAPI/internal/server"
	"GuardianAngelAPI/internal/service"
	"GuardianAngelAPI/internal/telemetry"
	"GuardianAngelAPI/internal/websocket"
)

func main() {
	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		// Fallback logger since main logger isn't ready
		panic("Failed to load configuration: " + err.Error())
	}

	// 2. Initialize Logger
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		LogFilePath: cfg.Logging.FilePath,
		UseColors:   cfg.Logging.UseColors,
		ShowCaller:  cfg.Logging.ShowCaller,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer log.Close()

	if err := cfg.Validate(); err != nil {
		log.Fatal("Configuration validation failed: %v", err)
	}

	cfg.Print()
	log.Info("Starting Guardian Angel API Server")

	ctx := context.Background()

	// 3. Alert Store (file snapshot or Postgres)
	var alertRepo repository.AlertRepository
	var checkStore handler.StoreChecker

	switch cfg.Storage.Backend {
	case "postgres":
		db, err := database.New(&cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			log.Fatal("Database migration failed: %v", err)
		}

		alertRepo = repository.NewAlertPostgresRepository(db.DB)
		checkStore = db.Health
		log.Info("Database connected successfully")
	default:
		fileRepo, err := repository.NewAlertFileRepository(filepath.Join(cfg.Storage.DataDir, "alerts.json"), log)
		if err != nil {
			log.Fatal("Failed to open alert store: %v", err)
		}
		alertRepo = fileRepo
		checkStore = func(context.Context) error { return nil }
	}

	userRepo, err := repository.NewUserFileRepository(filepath.Join(cfg.Storage.DataDir, "users.json"), log)
	if err != nil {
		log.Fatal("Failed to open user store: %v", err)
	}

	activityRepo, err := repository.NewActivityFileRepository(filepath.Join(cfg.Storage.DataDir, "activity.json"), log)
	if err != nil {
		log.Fatal("Failed to open activity store: %v", err)
	}

	// 4. Classifier
	aiClient, err := classifier.NewOpenAIClient(cfg.AI, log)
	if err != nil {
		log.Fatal("Failed to initialize classifier: %v", err)
	}

	// 5. WebSocket Hub
	hub := websocket.NewHub(log)
	hubCtx, hubCancel := context.WithCancel(ctx)
	defer hubCancel()
	go hub.Run(hubCtx)

	// 6. Core Services
	dedup := alerting.NewDeduplicator(cfg.Alerting.DedupWindow)
	evaluator := alerting.NewEvaluator(alerting.ThresholdsFromConfig(cfg.Alerting))

	alertService := service.NewAlertService(alertRepo, dedup, hub, log)
	analysisService := service.NewAnalysisService(aiClient, alertService, log)
	authService := service.NewAuthService(userRepo, alertService, cfg.Security, log)
	activityService := service.NewActivityService(activityRepo, log)
	reportService := service.NewReportService(alertService, activityService, log)

	// 7. Telemetry Source
	var source telemetry.Source
	switch cfg.Telemetry.Source {
	case "fitbit":
		source, err = telemetry.NewFitbitSource(cfg.Telemetry.Fitbit, log)
		if err != nil {
			log.Fatal("Failed to initialize Fitbit source: %v", err)
		}
	default:
		source = telemetry.NewSimulator(cfg.Telemetry.SimulatorInterval, log)
	}

	monitor := service.NewTelemetryMonitor(source, evaluator, alertService, cfg.Telemetry.PollInterval, log)

	telemetryHealthy := func() bool { return true }

	// 8. MQTT Bridge (optional: samples published by an external agent)
	if cfg.Telemetry.Source == "mqtt" {
		mqttClient, err := mqtt.NewClient(&cfg.MQTT, log)
		if err != nil {
			log.Fatal("Failed to create MQTT client: %v", err)
		}
		if err := mqttClient.Connect(); err != nil {
			log.Fatal("Failed to connect to MQTT broker: %v", err)
		}
		defer mqttClient.Disconnect()

		bridge := mqtt.NewTelemetryBridge(mqttClient, monitor, cfg.MQTT.TelemetryTopic, log)
		if err := bridge.Start(); err != nil {
			log.Fatal("Failed to start telemetry bridge: %v", err)
		}

		telemetryHealthy = mqttClient.IsConnected
	} else {
		monitor.Start()
		defer monitor.Stop()
	}

	// 9. Initialize Handlers
	authHandler := handler.NewAuthHandler(authService, log)
	alertHandler := handler.NewAlertHandler(alertService, analysisService, log)
	telemetryHandler := handler.NewTelemetryHandler(monitor, log)
	activityHandler := handler.NewActivityHandler(activityService, log)
	reportHandler := handler.NewReportHandler(reportService, authService, log)
	healthHandler := handler.NewHealthHandler(checkStore, aiClient, telemetryHealthy, log)

	// 10. Start HTTP Server
	srv := server.New(cfg, log)
	srv.RegisterHandlers(authHandler, alertHandler, telemetryHandler, activityHandler, reportHandler, healthHandler, authService, hub)

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal("Server failed: %v", err)
		}
	}()

	log.Info("API server ready on http://%s:%d", cfg.Server.Host, cfg.Server.Port)

	// 11. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Warn("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error: %v", err)
	}

	log.Info("Shutdown complete")
}
