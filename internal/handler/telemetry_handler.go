package handler

import (
	"net/http"

	"GuardianAngelAPI/internal/logger"
	"GuardianAngelAPI/internal/service"

	"github.com/gorilla/mux"
)

type TelemetryHandler struct {
	monitor *service.TelemetryMonitor
	log     *logger.Logger
}

func NewTelemetryHandler(monitor *service.TelemetryMonitor, log *logger.Logger) *TelemetryHandler {
	return &TelemetryHandler{
		monitor: monitor,
		log:     log,
	}
}

func (h *TelemetryHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/telemetry/latest", h.GetLatest).Methods("GET")
}

// GetLatest returns the most recent wearable snapshot.
func (h *TelemetryHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.monitor.Latest())
}
