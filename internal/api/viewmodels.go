package api

import (
	"time"

	"github.com/SiphiweRadebe/WeatherApp/internal/models"
)

// JSON views of the domain models. sql.Null* fields flatten to pointers so
// absent values serialize as null.

type cityJSON struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Country   string     `json:"country"`
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	TimeZone  *string    `json:"timeZone"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`

	WeatherRecords []weatherRecordJSON `json:"weatherRecords,omitempty"`
}

type weatherRecordJSON struct {
	ID              int64     `json:"id"`
	CityID          int64     `json:"cityId"`
	ObservationTime time.Time `json:"observationTime"`
	Temperature     float64   `json:"temperature"`
	FeelsLike       *float64  `json:"feelsLike"`
	Humidity        int64     `json:"humidity"`
	WindSpeed       *float64  `json:"windSpeed"`
	WindDirection   *string   `json:"windDirection"`
	Pressure        *float64  `json:"pressure"`
	Condition       *string   `json:"condition"`
	Description     *string   `json:"description"`
	CreatedAt       time.Time `json:"createdAt"`
}

type alertJSON struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Severity       string     `json:"severity"`
	AlertType      string     `json:"alertType"`
	StartTime      time.Time  `json:"startTime"`
	EndTime        *time.Time `json:"endTime"`
	IsActive       bool       `json:"isActive"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      *time.Time `json:"updatedAt"`
	AffectedCities []string   `json:"affectedCities,omitempty"`
}

func toCityJSON(c *models.City) cityJSON {
	out := cityJSON{
		ID:        c.ID,
		Name:      c.Name,
		Country:   c.Country,
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
		CreatedAt: c.CreatedAt,
	}
	if c.TimeZone.Valid {
		out.TimeZone = &c.TimeZone.String
	}
	if c.UpdatedAt.Valid {
		out.UpdatedAt = &c.UpdatedAt.Time
	}
	return out
}

func toWeatherRecordJSON(r *models.WeatherRecord) weatherRecordJSON {
	out := weatherRecordJSON{
		ID:              r.ID,
		CityID:          r.CityID,
		ObservationTime: r.ObservationTime,
		Temperature:     r.Temperature,
		Humidity:        r.Humidity,
		CreatedAt:       r.CreatedAt,
	}
	if r.FeelsLike.Valid {
		out.FeelsLike = &r.FeelsLike.Float64
	}
	if r.WindSpeed.Valid {
		out.WindSpeed = &r.WindSpeed.Float64
	}
	if r.WindDirection.Valid {
		out.WindDirection = &r.WindDirection.String
	}
	if r.Pressure.Valid {
		out.Pressure = &r.Pressure.Float64
	}
	if r.Condition.Valid {
		out.Condition = &r.Condition.String
	}
	if r.Description.Valid {
		out.Description = &r.Description.String
	}
	return out
}

func toAlertJSON(a *models.Alert) alertJSON {
	out := alertJSON{
		ID:             a.ID,
		Title:          a.Title,
		Description:    a.Description,
		Severity:       a.Severity,
		AlertType:      a.AlertType,
		StartTime:      a.StartTime,
		IsActive:       a.IsActive,
		CreatedAt:      a.CreatedAt,
		AffectedCities: a.AffectedCities,
	}
	if a.EndTime.Valid {
		out.EndTime = &a.EndTime.Time
	}
	if a.UpdatedAt.Valid {
		out.UpdatedAt = &a.UpdatedAt.Time
	}
	return out
}

func toWeatherRecordList(records []models.WeatherRecord) []weatherRecordJSON {
	out := make([]weatherRecordJSON, 0, len(records))
	for i := range records {
		out = append(out, toWeatherRecordJSON(&records[i]))
	}
	return out
}

func toAlertList(alerts []models.Alert) []alertJSON {
	out := make([]alertJSON, 0, len(alerts))
	for i := range alerts {
		out = append(out, toAlertJSON(&alerts[i]))
	}
	return out
}
