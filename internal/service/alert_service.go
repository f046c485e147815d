package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"GuardianAngelAPI/internal/alerting"
	"GuardianAngelAPI/internal/logger"
	"GuardianAngelAPI/internal/models"
	"GuardianAngelAPI/internal/repository"
)

// Notifier pushes events to connected dashboards. Satisfied by the
// websocket hub; tests plug in a recorder.
type Notifier interface {
	Broadcast(msgType string, payload interface{})
}

// IAlertService is the business surface of the alert pipeline.
type IAlertService interface {
	// Admit runs a candidate through the deduplicator. It returns the
	// materialized alert, or nil when the candidate was suppressed.
	Admit(ctx context.Context, candidate models.Candidate) (*models.Alert, error)

	GetAlerts(ctx context.Context) ([]models.Alert, error)
	GetActiveAlerts(ctx context.Context) ([]models.Alert, error)
	GetResolvedAlerts(ctx context.Context) ([]models.Alert, error)

	Resolve(ctx context.Context, id string) error
	Reactivate(ctx context.Context, id string) error

	// ClearAll wipes the store. Called on account logout.
	ClearAll(ctx context.Context) error
}

type AlertService struct {
	repo  repository.AlertRepository
	dedup *alerting.Deduplicator
	hub   Notifier
	log   *logger.Logger
	now   func() time.Time
}

func NewAlertService(repo repository.AlertRepository, dedup *alerting.Deduplicator, hub Notifier, log *logger.Logger) *AlertService {
	return &AlertService{
		repo:  repo,
		dedup: dedup,
		hub:   hub,
		log:   log,
		now:   time.Now,
	}
}

func (s *AlertService) Admit(ctx context.Context, candidate models.Candidate) (*models.Alert, error) {
	history, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load alert history: %w", err)
	}

	alert := s.dedup.Admit(candidate, history, s.now())
	if alert == nil {
		s.log.Debug("Candidate %s suppressed as near-duplicate", candidate.Type)
		return nil, nil
	}

	if err := s.repo.Append(ctx, alert); err != nil {
		return nil, fmt.Errorf("failed to persist alert: %w", err)
	}

	s.notify(alert)
	s.log.Info("Alert created: id=%s type=%s", alert.ID, alert.Type)
	return alert, nil
}

func (s *AlertService) GetAlerts(ctx context.Context) ([]models.Alert, error) {
	return s.repo.LoadAll(ctx)
}

// GetActiveAlerts returns the active partition, newest first.
func (s *AlertService) GetActiveAlerts(ctx context.Context) ([]models.Alert, error) {
	return s.partition(ctx, models.StatusActive)
}

// GetResolvedAlerts returns the resolved partition, newest first.
func (s *AlertService) GetResolvedAlerts(ctx context.Context) ([]models.Alert, error) {
	return s.partition(ctx, models.StatusResolved)
}

func (s *AlertService) partition(ctx context.Context, status string) ([]models.Alert, error) {
	all, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]models.Alert, 0, len(all))
	for _, a := range all {
		if a.Status == status {
			filtered = append(filtered, a)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Timestamp.After(filtered[j].Timestamp)
	})

	return filtered, nil
}

func (s *AlertService) Resolve(ctx context.Context, id string) error {
	if err := s.repo.UpdateStatus(ctx, id, models.StatusResolved); err != nil {
		return fmt.Errorf("failed to resolve alert %s: %w", id, err)
	}
	s.log.Info("Alert resolved: %s", id)
	return nil
}

func (s *AlertService) Reactivate(ctx context.Context, id string) error {
	if err := s.repo.UpdateStatus(ctx, id, models.StatusActive); err != nil {
		return fmt.Errorf("failed to reactivate alert %s: %w", id, err)
	}
	s.log.Info("Alert reactivated: %s", id)
	return nil
}

func (s *AlertService) ClearAll(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear alerts: %w", err)
	}
	s.log.Info("Alert store cleared")
	return nil
}

func (s *AlertService) notify(alert *models.Alert) {
	if s.hub != nil {
		s.hub.Broadcast("ALERT", alert)
	}
}
