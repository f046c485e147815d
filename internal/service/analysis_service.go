package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"GuardianAngelAPI/internal/classifier"
	"GuardianAngelAPI/internal/logger"
	"GuardianAngelAPI/internal/models"
)

const (
	minAnalysisChars = 10
	maxAnalysisChars = 1000
)

// ErrTextOutOfBounds marks input rejected before the classifier is ever
// invoked.
var ErrTextOutOfBounds = fmt.Errorf("text must be between %d and %d characters", minAnalysisChars, maxAnalysisChars)

// AnalysisService runs the text analysis pipeline: validate, classify,
// build candidates, admit through the deduplicator.
type AnalysisService struct {
	classifier classifier.Client
	alerts     IAlertService
	log        *logger.Logger
}

func NewAnalysisService(c classifier.Client, alerts IAlertService, log *logger.Logger) *AnalysisService {
	return &AnalysisService{
		classifier: c,
		alerts:     alerts,
		log:        log,
	}
}

// Analyze classifies the text and materializes up to two alerts, one per
// positive flag. A classifier failure creates no alert and surfaces to the
// caller; the original text is theirs to resubmit.
func (s *AnalysisService) Analyze(ctx context.Context, text string) (*models.AnalysisResponse, error) {
	if n := utf8.RuneCountInString(text); n < minAnalysisChars || n > maxAnalysisChars {
		return nil, ErrTextOutOfBounds
	}

	result, err := s.classifier.Classify(ctx, text)
	if err != nil {
		return nil, err
	}

	response := &models.AnalysisResponse{Result: result, Alerts: []models.Alert{}}

	for _, candidate := range candidatesFrom(result, text) {
		alert, err := s.alerts.Admit(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if alert != nil {
			response.Alerts = append(response.Alerts, *alert)
		}
	}

	return response, nil
}

// IsValidationError reports whether err is an input rejection rather than a
// pipeline failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrTextOutOfBounds)
}

// candidatesFrom maps one classification to zero, one, or two candidates.
// The flags are independent: text can be both bullying and depressive.
func candidatesFrom(result models.ClassificationResult, text string) []models.Candidate {
	var candidates []models.Candidate

	if result.IsBullying {
		candidates = append(candidates, models.Candidate{
			Type:         models.AlertTypeBullying,
			Title:        "Potential Bullying Detected",
			Description:  text,
			Severity:     result.BullyingSeverity,
			Explanation:  result.Explanation,
			OriginalText: text,
		})
	}

	if result.IsDepressive {
		candidates = append(candidates, models.Candidate{
			Type:         models.AlertTypeDepressive,
			Title:        "Potential Depressive Content Detected",
			Description:  text,
			Severity:     result.DepressiveSeverity,
			Explanation:  result.Explanation,
			OriginalText: text,
		})
	}

	return candidates
}
