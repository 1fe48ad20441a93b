package service

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/SiphiweRadebe/WeatherApp/internal/metrics"
	"github.com/SiphiweRadebe/WeatherApp/internal/models"
	"github.com/SiphiweRadebe/WeatherApp/internal/store"
)

var validSeverities = []string{models.SeverityLow, models.SeverityMedium, models.SeverityHigh, models.SeverityExtreme}

var validAlertTypes = []string{
	models.AlertTypeTemperature, models.AlertTypeStorm, models.AlertTypeWind,
	models.AlertTypeFlood, models.AlertTypeSnow, models.AlertTypeOther,
}

type AlertService struct {
	store *store.Store
	clock clockwork.Clock
}

func NewAlertService(st *store.Store, clock clockwork.Clock) *AlertService {
	return &AlertService{store: st, clock: clock}
}

type CreateAlertInput struct {
	Title       string
	Description string
	Severity    string
	AlertType   string
	StartTime   *time.Time
	EndTime     *time.Time
	CityIDs     []int64
}

// UpdateAlertInput carries partial fields. Blank or whitespace-only strings
// mean "not provided", matching the city update convention.
type UpdateAlertInput struct {
	Title       string
	Description string
	Severity    string
	EndTime     *time.Time
	IsActive    *bool
}

func (s *AlertService) Create(in CreateAlertInput) (*models.Alert, error) {
	if !contains(validSeverities, in.Severity) {
		return nil, fmt.Errorf("%w: severity must be one of: %s", ErrValidation, strings.Join(validSeverities, ", "))
	}
	if !contains(validAlertTypes, in.AlertType) {
		return nil, fmt.Errorf("%w: alert type must be one of: %s", ErrValidation, strings.Join(validAlertTypes, ", "))
	}

	now := s.clock.Now().UTC()
	alert := &models.Alert{
		Title:       in.Title,
		Description: in.Description,
		Severity:    in.Severity,
		AlertType:   in.AlertType,
		StartTime:   now,
		IsActive:    true,
		CreatedAt:   now,
	}
	if in.StartTime != nil {
		alert.StartTime = *in.StartTime
	}
	if in.EndTime != nil {
		alert.EndTime = sql.NullTime{Time: *in.EndTime, Valid: true}
	}

	if err := s.store.InsertAlert(alert); err != nil {
		return nil, fmt.Errorf("insert alert: %w", err)
	}

	log.Printf("alert: created %q (id %d)", alert.Title, alert.ID)
	metrics.AlertsCreated.WithLabelValues(alert.AlertType, alert.Severity).Inc()

	// Unresolvable city ids are skipped, not fatal.
	for _, cityID := range in.CityIDs {
		city, err := s.store.GetCity(cityID)
		if err != nil {
			return nil, fmt.Errorf("lookup city %d: %w", cityID, err)
		}
		if city == nil {
			log.Printf("alert: city %d not found, skipping association", cityID)
			continue
		}
		if err := s.store.AssociateAlertWithCity(cityID, alert.ID, now); err != nil {
			return nil, fmt.Errorf("associate city %d: %w", cityID, err)
		}
	}

	return s.Get(alert.ID)
}

func (s *AlertService) Get(id int64) (*models.Alert, error) {
	alert, err := s.store.GetAlertWithCities(id)
	if err != nil {
		return nil, fmt.Errorf("get alert: %w", err)
	}
	if alert == nil {
		return nil, fmt.Errorf("%w: alert %d", ErrNotFound, id)
	}
	return alert, nil
}

// ListActive returns active alerts ordered by severity rank descending
// (Extreme first), then most recent start time.
func (s *AlertService) ListActive() ([]models.Alert, error) {
	return s.store.GetActiveAlerts()
}

func (s *AlertService) ListByCity(cityID int64) ([]models.Alert, error) {
	return s.store.GetAlertsByCity(cityID)
}

func (s *AlertService) ListByType(alertType string) ([]models.Alert, error) {
	if !contains(validAlertTypes, alertType) {
		return nil, fmt.Errorf("%w: alert type must be one of: %s", ErrValidation, strings.Join(validAlertTypes, ", "))
	}
	return s.store.GetAlertsByType(alertType)
}

func (s *AlertService) Update(id int64, in UpdateAlertInput) (*models.Alert, error) {
	alert, err := s.store.GetAlert(id)
	if err != nil {
		return nil, fmt.Errorf("get alert: %w", err)
	}
	if alert == nil {
		return nil, fmt.Errorf("%w: alert %d", ErrNotFound, id)
	}

	if strings.TrimSpace(in.Title) != "" {
		alert.Title = in.Title
	}
	if strings.TrimSpace(in.Description) != "" {
		alert.Description = in.Description
	}
	if strings.TrimSpace(in.Severity) != "" {
		if !contains(validSeverities, in.Severity) {
			return nil, fmt.Errorf("%w: severity must be one of: %s", ErrValidation, strings.Join(validSeverities, ", "))
		}
		alert.Severity = in.Severity
	}
	if in.EndTime != nil {
		alert.EndTime = sql.NullTime{Time: *in.EndTime, Valid: true}
	}
	if in.IsActive != nil {
		alert.IsActive = *in.IsActive
	}

	alert.UpdatedAt = sql.NullTime{Time: s.clock.Now().UTC(), Valid: true}

	if err := s.store.UpdateAlert(alert); err != nil {
		return nil, fmt.Errorf("update alert: %w", err)
	}

	log.Printf("alert: updated %d", id)
	return alert, nil
}

func (s *AlertService) Delete(id int64) (bool, error) {
	existed, err := s.store.DeleteAlert(id)
	if err != nil {
		return false, fmt.Errorf("delete alert: %w", err)
	}
	if existed {
		log.Printf("alert: deleted %d", id)
	}
	return existed, nil
}

// AssociateCity links an existing alert to an existing city.
func (s *AlertService) AssociateCity(alertID, cityID int64) error {
	alert, err := s.store.GetAlert(alertID)
	if err != nil {
		return fmt.Errorf("get alert: %w", err)
	}
	if alert == nil {
		return fmt.Errorf("%w: alert %d", ErrNotFound, alertID)
	}

	city, err := s.store.GetCity(cityID)
	if err != nil {
		return fmt.Errorf("get city: %w", err)
	}
	if city == nil {
		return fmt.Errorf("%w: city %d", ErrNotFound, cityID)
	}

	return s.store.AssociateAlertWithCity(cityID, alertID, s.clock.Now().UTC())
}

func (s *AlertService) RemoveCityAssociation(alertID, cityID int64) (bool, error) {
	return s.store.RemoveCityAlert(cityID, alertID)
}

func contains(vals []string, v string) bool {
	for _, candidate := range vals {
		if candidate == v {
			return true
		}
	}
	return false
}
