package handler

import (
	"net/http"

	"GuardianAngelAPI/internal/logger"
	"GuardianAngelAPI/internal/middleware"
	"GuardianAngelAPI/internal/service"

	"github.com/gorilla/mux"
)

type ReportHandler struct {
	reportService *service.ReportService
	authService   *service.AuthService
	log           *logger.Logger
}

func NewReportHandler(reportService *service.ReportService, authService *service.AuthService, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		authService:   authService,
		log:           log,
	}
}

func (h *ReportHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/reports/wellbeing", h.Generate).Methods("GET")
}

// Generate streams the wellbeing report PDF.
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	childName := ""
	if userID, ok := middleware.UserID(r.Context()); ok {
		if user, err := h.authService.GetProfile(r.Context(), userID); err == nil {
			childName = user.ChildName
		}
	}

	pdf, err := h.reportService.Generate(r.Context(), childName)
	if err != nil {
		h.log.Error("Report generation failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to generate report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="wellbeing-report.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
