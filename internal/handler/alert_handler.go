package handler

import (
	"net/http"

	"GuardianAngelAPI/internal/logger"
	"GuardianAngelAPI/internal/models"
	"GuardianAngelAPI/internal/service"

	"github.com/gorilla/mux"
)

type AlertHandler struct {
	alertService    service.IAlertService
	analysisService *service.AnalysisService
	log             *logger.Logger
}

func NewAlertHandler(alertService service.IAlertService, analysisService *service.AnalysisService, log *logger.Logger) *AlertHandler {
	return &AlertHandler{
		alertService:    alertService,
		analysisService: analysisService,
		log:             log,
	}
}

func (h *AlertHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/alerts", h.GetAlerts).Methods("GET")
	r.HandleFunc("/alerts/active", h.GetActiveAlerts).Methods("GET")
	r.HandleFunc("/alerts/resolved", h.GetResolvedAlerts).Methods("GET")
	r.HandleFunc("/alerts/{id}/resolve", h.Resolve).Methods("PUT")
	r.HandleFunc("/alerts/{id}/reactivate", h.Reactivate).Methods("PUT")
	r.HandleFunc("/alerts", h.ClearAll).Methods("DELETE")
	r.HandleFunc("/analyze", h.Analyze).Methods("POST")
}

func (h *AlertHandler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.alertService.GetAlerts(r.Context())
	if err != nil {
		h.log.Error("Failed to get alerts: %v", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, alerts)
}

func (h *AlertHandler) GetActiveAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.alertService.GetActiveAlerts(r.Context())
	if err != nil {
		h.log.Error("Failed to get active alerts: %v", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, alerts)
}

func (h *AlertHandler) GetResolvedAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.alertService.GetResolvedAlerts(r.Context())
	if err != nil {
		h.log.Error("Failed to get resolved alerts: %v", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, alerts)
}

func (h *AlertHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.alertService.Resolve(r.Context(), id); err != nil {
		h.log.Error("Failed to resolve alert %s: %v", id, err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "alert resolved"})
}

func (h *AlertHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.alertService.Reactivate(r.Context(), id); err != nil {
		h.log.Error("Failed to reactivate alert %s: %v", id, err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "alert reactivated"})
}

func (h *AlertHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	if err := h.alertService.ClearAll(r.Context()); err != nil {
		h.log.Error("Failed to clear alerts: %v", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "alerts cleared"})
}

func (h *AlertHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeTextRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.analysisService.Analyze(r.Context(), req.Text)
	if err != nil {
		if service.IsValidationError(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error("Text analysis failed: %v", err)
		respondError(w, http.StatusBadGateway, "Analysis is temporarily unavailable")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
