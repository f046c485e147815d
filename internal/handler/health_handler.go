package handler

import (
	"context"
	"net/http"
	"time"

	"GuardianAngelAPI/internal/classifier"
	"GuardianAngelAPI/internal/logger"
	"GuardianAngelAPI/internal/models"

	"github.com/gorilla/mux"
)

// StoreChecker reports whether the alert store is reachable. The file
// backend always is; the Postgres backend pings the pool.
type StoreChecker func(ctx context.Context) error

type HealthHandler struct {
	checkStore StoreChecker
	classifier classifier.Client
	telemetry  func() bool
	log        *logger.Logger
}

func NewHealthHandler(checkStore StoreChecker, c classifier.Client, telemetryHealthy func() bool, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		checkStore: checkStore,
		classifier: c,
		telemetry:  telemetryHealthy,
		log:        log,
	}
}

func (h *HealthHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/health/live", h.Liveness).Methods("GET")
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	response := models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
	}

	response.Services.Store = (h.checkStore(ctx) == nil)
	response.Services.Classifier = h.classifier.IsConfigured()
	response.Services.Telemetry = h.telemetry()

	if !response.Services.Store || !response.Services.Classifier || !response.Services.Telemetry {
		response.Status = "degraded"
		h.log.Warn("Health check degraded - store: %v, classifier: %v, telemetry: %v",
			response.Services.Store, response.Services.Classifier, response.Services.Telemetry)
	}

	statusCode := http.StatusOK
	if response.Status == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	respondJSON(w, statusCode, response)
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "alive",
	})
}
