package models

import (
	"database/sql"
	"time"
)

// City is a location weather records are collected for.
// (Name, Country) is unique across the table.
type City struct {
	ID        int64
	Name      string
	Country   string
	Latitude  float64
	Longitude float64
	TimeZone  sql.NullString
	CreatedAt time.Time
	UpdatedAt sql.NullTime
}

// WeatherRecord is a single observation for a city. Records are immutable
// after creation; they are only ever inserted or deleted.
type WeatherRecord struct {
	ID              int64
	CityID          int64
	ObservationTime time.Time
	Temperature     float64
	FeelsLike       sql.NullFloat64
	Humidity        int64
	WindSpeed       sql.NullFloat64
	WindDirection   sql.NullString
	Pressure        sql.NullFloat64
	Condition       sql.NullString
	Description     sql.NullString
	CreatedAt       time.Time
}

// Alert severities, ranked Low < Medium < High < Extreme.
const (
	SeverityLow     = "Low"
	SeverityMedium  = "Medium"
	SeverityHigh    = "High"
	SeverityExtreme = "Extreme"
)

// Alert types.
const (
	AlertTypeTemperature = "Temperature"
	AlertTypeStorm       = "Storm"
	AlertTypeWind        = "Wind"
	AlertTypeFlood       = "Flood"
	AlertTypeSnow        = "Snow"
	AlertTypeOther       = "Other"
)

type Alert struct {
	ID          int64
	Title       string
	Description string
	Severity    string
	AlertType   string
	StartTime   time.Time
	EndTime     sql.NullTime
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   sql.NullTime

	// AffectedCities holds the names of associated cities when the alert
	// was loaded with its city associations.
	AffectedCities []string
}

// CityAlert links an alert to a city. NotificationSent is recorded but no
// delivery mechanism exists yet.
type CityAlert struct {
	CityID           int64
	AlertID          int64
	AssociatedAt     time.Time
	NotificationSent bool
}

// SeverityRank maps a severity to its ordering weight. Unknown severities
// rank below Low so they sort last in active-alert listings.
func SeverityRank(severity string) int {
	switch severity {
	case SeverityExtreme:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}
