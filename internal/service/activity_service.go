package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"GuardianAngelAPI/internal/logger"
	"GuardianAngelAPI/internal/models"
	"GuardianAngelAPI/internal/repository"
)

// csvDateFormats are tried in order when parsing the Date column.
var csvDateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"02-01-2006",
	"2006/01/02",
}

// ImportResult summarizes one CSV upload.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ActivityService manages imported daily activity data and the dashboard
// summary derived from it.
type ActivityService struct {
	repo  repository.ActivityRepository
	goals models.ActivityGoals
	log   *logger.Logger
}

func NewActivityService(repo repository.ActivityRepository, log *logger.Logger) *ActivityService {
	return &ActivityService{
		repo:  repo,
		goals: models.DefaultActivityGoals(),
		log:   log,
	}
}

// ImportCSV parses an activity export with a
// Date,Steps,Calories,Distance,ActiveMinutes header. Rows with missing or
// unparseable dates are skipped, not fatal; unparseable numbers leave the
// field unset.
func (s *ActivityService) ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	records, skipped, err := parseActivityCSV(r)
	if err != nil {
		return nil, err
	}

	if len(records) > 0 {
		if err := s.repo.Upsert(ctx, records); err != nil {
			return nil, fmt.Errorf("failed to store activity records: %w", err)
		}
	}

	s.log.Info("Activity import: %d records stored, %d rows skipped", len(records), skipped)
	return &ImportResult{Imported: len(records), Skipped: skipped}, nil
}

func (s *ActivityService) GetGoals() models.ActivityGoals {
	return s.goals
}

// GetRecords returns all stored records, newest first.
func (s *ActivityService) GetRecords(ctx context.Context) ([]models.ActivityRecord, error) {
	return s.repo.LoadAll(ctx)
}

// GetSummary builds the dashboard view: the latest record plus averages
// against the daily goals.
func (s *ActivityService) GetSummary(ctx context.Context) (*models.ActivitySummary, error) {
	records, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	summary := &models.ActivitySummary{
		Goals: s.goals,
		Days:  len(records),
	}

	if len(records) == 0 {
		return summary, nil
	}

	summary.Latest = &records[0]

	totalSteps := 0
	counted := 0
	for _, rec := range records {
		if rec.Steps != nil {
			totalSteps += *rec.Steps
			counted++
		}
	}
	if counted > 0 {
		summary.AvgSteps = float64(totalSteps) / float64(counted)
	}

	return summary, nil
}

func parseActivityCSV(r io.Reader) ([]models.ActivityRecord, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := make(map[string]int)
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}

	dateIdx, ok := cols["Date"]
	if !ok {
		return nil, 0, fmt.Errorf("CSV must contain a 'Date' column")
	}

	var records []models.ActivityRecord
	skipped := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		if dateIdx >= len(row) {
			skipped++
			continue
		}

		date, ok := parseCSVDate(strings.TrimSpace(row[dateIdx]))
		if !ok {
			skipped++
			continue
		}

		rec := models.ActivityRecord{Date: date}
		rec.Steps = intField(row, cols, "Steps")
		rec.Calories = intField(row, cols, "Calories")
		rec.Distance = floatField(row, cols, "Distance")
		rec.ActiveMinutes = intField(row, cols, "ActiveMinutes")

		records = append(records, rec)
	}

	return records, skipped, nil
}

// parseCSVDate normalizes any accepted format to yyyy-MM-dd.
func parseCSVDate(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	for _, layout := range csvDateFormats {
		if d, err := time.Parse(layout, s); err == nil {
			return d.Format("2006-01-02"), true
		}
	}
	return "", false
}

func intField(row []string, cols map[string]int, name string) *int {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(row[idx]))
	if err != nil {
		return nil
	}
	return &v
}

func floatField(row []string, cols map[string]int, name string) *float64 {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
	if err != nil {
		return nil
	}
	return &v
}
