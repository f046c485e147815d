package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"GuardianAngelAPI/internal/logger"
	"GuardianAngelAPI/internal/models"

	"github.com/jung-kurt/gofpdf"
)

// maximum rows rendered in each report table
const reportMaxRows = 30

// ReportService renders a weekly wellbeing report as a PDF: recent activity
// against goals plus the alert history.
type ReportService struct {
	alerts   IAlertService
	activity *ActivityService
	log      *logger.Logger
}

func NewReportService(alerts IAlertService, activity *ActivityService, log *logger.Logger) *ReportService {
	return &ReportService{
		alerts:   alerts,
		activity: activity,
		log:      log,
	}
}

// Generate builds the PDF for the given child and returns the raw bytes.
func (s *ReportService) Generate(ctx context.Context, childName string) ([]byte, error) {
	alerts, err := s.alerts.GetAlerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load alerts for report: %w", err)
	}

	records, err := s.activity.GetRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity for report: %w", err)
	}
	goals := s.activity.GetGoals()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Wellbeing Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Wellbeing Report")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	if childName != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Child: %s", childName))
		pdf.Ln(6)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04")))
	pdf.Ln(12)

	s.writeActivitySection(pdf, records, goals)
	s.writeAlertSection(pdf, alerts)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	s.log.Info("Generated wellbeing report (%d alerts, %d activity days)", len(alerts), len(records))
	return buf.Bytes(), nil
}

func (s *ReportService) writeActivitySection(pdf *gofpdf.Fpdf, records []models.ActivityRecord, goals models.ActivityGoals) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, "Activity")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Daily goals: %d steps, %d kcal, %.1f km, %d active minutes",
		goals.Steps, goals.Calories, goals.Distance, goals.ActiveMinutes))
	pdf.Ln(8)

	if len(records) == 0 {
		pdf.Cell(0, 6, "No activity data imported.")
		pdf.Ln(10)
		return
	}

	header := []string{"Date", "Steps", "Calories", "Distance (km)", "Active min"}
	widths := []float64{30, 30, 30, 35, 30}

	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range header {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	rows := records
	if len(rows) > reportMaxRows {
		rows = rows[:reportMaxRows]
	}
	for _, r := range rows {
		pdf.CellFormat(widths[0], 6, r.Date, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, fmtIntPtr(r.Steps), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 6, fmtIntPtr(r.Calories), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, fmtFloatPtr(r.Distance), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, fmtIntPtr(r.ActiveMinutes), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(6)
}

func (s *ReportService) writeAlertSection(pdf *gofpdf.Fpdf, alerts []models.Alert) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, "Alerts")
	pdf.Ln(8)

	active := 0
	for _, a := range alerts {
		if a.Status == models.StatusActive {
			active++
		}
	}

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("%d total, %d active", len(alerts), active))
	pdf.Ln(8)

	if len(alerts) == 0 {
		return
	}

	header := []string{"Time", "Type", "Title", "Status"}
	widths := []float64{40, 35, 75, 25}

	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range header {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	rows := alerts
	if len(rows) > reportMaxRows {
		rows = rows[:reportMaxRows]
	}
	for _, a := range rows {
		pdf.CellFormat(widths[0], 6, a.Timestamp.Format("2006-01-02 15:04"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, a.Type, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, a.Title, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, a.Status, "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}
}

func fmtIntPtr(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func fmtFloatPtr(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}
