package handler

import (
	"io"
	"net/http"

	"GuardianAngelAPI/internal/logger"
	"GuardianAngelAPI/internal/service"

	"github.com/gorilla/mux"
)

// maxImportBytes caps CSV uploads.
const maxImportBytes = 5 << 20

type ActivityHandler struct {
	activityService *service.ActivityService
	log             *logger.Logger
}

func NewActivityHandler(activityService *service.ActivityService, log *logger.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		log:             log,
	}
}

func (h *ActivityHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/activity", h.GetRecords).Methods("GET")
	r.HandleFunc("/activity/summary", h.GetSummary).Methods("GET")
	r.HandleFunc("/activity/import", h.Import).Methods("POST")
}

func (h *ActivityHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.activityService.GetRecords(r.Context())
	if err != nil {
		h.log.Error("Failed to get activity records: %v", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, records)
}

func (h *ActivityHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.activityService.GetSummary(r.Context())
	if err != nil {
		h.log.Error("Failed to get activity summary: %v", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// Import accepts a CSV upload, either as a multipart "file" field or as a
// raw request body.
func (h *ActivityHandler) Import(w http.ResponseWriter, r *http.Request) {
	var reader io.Reader = http.MaxBytesReader(w, r.Body, maxImportBytes)

	if file, _, err := r.FormFile("file"); err == nil {
		defer file.Close()
		reader = file
	}

	result, err := h.activityService.ImportCSV(r.Context(), reader)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}
