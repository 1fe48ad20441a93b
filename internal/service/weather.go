package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/SiphiweRadebe/WeatherApp/internal/metrics"
	"github.com/SiphiweRadebe/WeatherApp/internal/models"
	"github.com/SiphiweRadebe/WeatherApp/internal/openweather"
	"github.com/SiphiweRadebe/WeatherApp/internal/store"
)

// WeatherProvider fetches current conditions for coordinates. A nil snapshot
// or an error both mean the provider had no usable data.
type WeatherProvider interface {
	FetchCurrent(ctx context.Context, lat, lon float64) (*openweather.Snapshot, error)
}

type WeatherService struct {
	store    *store.Store
	alerts   *AlertService
	provider WeatherProvider
	clock    clockwork.Clock
}

func NewWeatherService(st *store.Store, alerts *AlertService, provider WeatherProvider, clock clockwork.Clock) *WeatherService {
	return &WeatherService{store: st, alerts: alerts, provider: provider, clock: clock}
}

type CreateWeatherRecordInput struct {
	CityID          int64
	ObservationTime *time.Time
	Temperature     float64
	FeelsLike       *float64
	Humidity        int64
	WindSpeed       *float64
	WindDirection   *string
	Pressure        *float64
	Condition       *string
	Description     *string
}

// CreateRecord validates and persists an observation, then runs alert
// evaluation against it before returning. An alert-creation failure fails
// the whole ingestion.
func (s *WeatherService) CreateRecord(in CreateWeatherRecordInput) (*models.WeatherRecord, error) {
	city, err := s.store.GetCity(in.CityID)
	if err != nil {
		return nil, fmt.Errorf("get city: %w", err)
	}
	if city == nil {
		return nil, fmt.Errorf("%w: city %d", ErrNotFound, in.CityID)
	}

	if in.Temperature < -100 || in.Temperature > 60 {
		return nil, fmt.Errorf("%w: temperature must be between -100 and 60", ErrValidation)
	}
	if in.Humidity < 0 || in.Humidity > 100 {
		return nil, fmt.Errorf("%w: humidity must be between 0 and 100", ErrValidation)
	}

	now := s.clock.Now().UTC()
	record := &models.WeatherRecord{
		CityID:          in.CityID,
		ObservationTime: now,
		Temperature:     in.Temperature,
		Humidity:        in.Humidity,
		CreatedAt:       now,
	}
	if in.ObservationTime != nil {
		record.ObservationTime = *in.ObservationTime
	}
	if in.FeelsLike != nil {
		record.FeelsLike = sql.NullFloat64{Float64: *in.FeelsLike, Valid: true}
	}
	if in.WindSpeed != nil {
		record.WindSpeed = sql.NullFloat64{Float64: *in.WindSpeed, Valid: true}
	}
	if in.WindDirection != nil {
		record.WindDirection = sql.NullString{String: *in.WindDirection, Valid: true}
	}
	if in.Pressure != nil {
		record.Pressure = sql.NullFloat64{Float64: *in.Pressure, Valid: true}
	}
	if in.Condition != nil {
		record.Condition = sql.NullString{String: *in.Condition, Valid: true}
	}
	if in.Description != nil {
		record.Description = sql.NullString{String: *in.Description, Valid: true}
	}

	if err := s.store.InsertWeatherRecord(record); err != nil {
		return nil, fmt.Errorf("insert weather record: %w", err)
	}

	log.Printf("weather: recorded %.1f°C for city %d (record %d)", record.Temperature, record.CityID, record.ID)
	metrics.WeatherRecordsIngested.WithLabelValues("manual").Inc()

	if err := s.evaluateAlerts(city, record); err != nil {
		return nil, fmt.Errorf("evaluate alerts: %w", err)
	}

	return record, nil
}

// FetchFromProvider pulls current conditions for the city's coordinates and
// ingests them through CreateRecord, so threshold evaluation runs for
// fetched data too.
func (s *WeatherService) FetchFromProvider(ctx context.Context, cityID int64) (*models.WeatherRecord, error) {
	city, err := s.store.GetCity(cityID)
	if err != nil {
		return nil, fmt.Errorf("get city: %w", err)
	}
	if city == nil {
		return nil, fmt.Errorf("%w: city %d", ErrNotFound, cityID)
	}

	snap, err := s.provider.FetchCurrent(ctx, city.Latitude, city.Longitude)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if snap == nil {
		return nil, fmt.Errorf("%w: provider returned no data for %s", ErrUnavailable, city.Name)
	}

	windDirection := "Unknown"
	if snap.WindDegrees != nil {
		windDirection = WindDirectionFromDegrees(*snap.WindDegrees)
	}

	now := s.clock.Now().UTC()
	record, err := s.CreateRecord(CreateWeatherRecordInput{
		CityID:          cityID,
		ObservationTime: &now,
		Temperature:     snap.Temperature,
		FeelsLike:       &snap.FeelsLike,
		Humidity:        snap.Humidity,
		WindSpeed:       &snap.WindSpeed,
		WindDirection:   &windDirection,
		Pressure:        &snap.Pressure,
		Condition:       &snap.Condition,
		Description:     &snap.Description,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("weather: fetched current conditions for %s", city.Name)
	metrics.WeatherRecordsIngested.WithLabelValues("provider").Inc()
	return record, nil
}

func (s *WeatherService) GetRecord(id int64) (*models.WeatherRecord, error) {
	record, err := s.store.GetWeatherRecord(id)
	if err != nil {
		return nil, fmt.Errorf("get weather record: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("%w: weather record %d", ErrNotFound, id)
	}
	return record, nil
}

func (s *WeatherService) ListByCity(cityID int64) ([]models.WeatherRecord, error) {
	return s.store.GetWeatherRecordsByCity(cityID)
}

func (s *WeatherService) LatestByCity(cityID int64) (*models.WeatherRecord, error) {
	return s.store.GetLatestWeatherRecord(cityID)
}

func (s *WeatherService) ListByDateRange(cityID int64, start, end time.Time) ([]models.WeatherRecord, error) {
	return s.store.GetWeatherRecordsByDateRange(cityID, start, end)
}

func (s *WeatherService) DeleteRecord(id int64) (bool, error) {
	existed, err := s.store.DeleteWeatherRecord(id)
	if err != nil {
		return false, fmt.Errorf("delete weather record: %w", err)
	}
	if existed {
		log.Printf("weather: deleted record %d", id)
	}
	return existed, nil
}

// Threshold temperatures for automatic alerts. Strict inequalities: exactly
// 35 or exactly -20 does not fire.
const (
	extremeHeatThreshold = 35.0
	extremeColdThreshold = -20.0
)

func (s *WeatherService) evaluateAlerts(city *models.City, record *models.WeatherRecord) error {
	endTime := record.ObservationTime.Add(24 * time.Hour)

	switch {
	case record.Temperature > extremeHeatThreshold:
		_, err := s.alerts.Create(CreateAlertInput{
			Title:       fmt.Sprintf("Extreme Heat in %s", city.Name),
			Description: fmt.Sprintf("Temperature has reached %g°C. Stay hydrated and avoid outdoor activities.", record.Temperature),
			Severity:    models.SeverityHigh,
			AlertType:   models.AlertTypeTemperature,
			StartTime:   &record.ObservationTime,
			EndTime:     &endTime,
			CityIDs:     []int64{city.ID},
		})
		if err != nil {
			return err
		}
		log.Printf("weather: extreme heat alert for %s (%.1f°C)", city.Name, record.Temperature)

	case record.Temperature < extremeColdThreshold:
		_, err := s.alerts.Create(CreateAlertInput{
			Title:       fmt.Sprintf("Extreme Cold in %s", city.Name),
			Description: fmt.Sprintf("Temperature has dropped to %g°C. Take precautions against frostbite.", record.Temperature),
			Severity:    models.SeverityHigh,
			AlertType:   models.AlertTypeTemperature,
			StartTime:   &record.ObservationTime,
			EndTime:     &endTime,
			CityIDs:     []int64{city.ID},
		})
		if err != nil {
			return err
		}
		log.Printf("weather: extreme cold alert for %s (%.1f°C)", city.Name, record.Temperature)
	}

	return nil
}
