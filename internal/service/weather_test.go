package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SiphiweRadebe/WeatherApp/internal/models"
	"github.com/SiphiweRadebe/WeatherApp/internal/openweather"
	"github.com/SiphiweRadebe/WeatherApp/internal/service"
	"github.com/SiphiweRadebe/WeatherApp/internal/store"
)

type stubProvider struct {
	snap *openweather.Snapshot
	err  error
}

func (p *stubProvider) FetchCurrent(ctx context.Context, lat, lon float64) (*openweather.Snapshot, error) {
	return p.snap, p.err
}

type weatherFixture struct {
	weather *service.WeatherService
	alerts  *service.AlertService
	city    *models.City
	store   *store.Store
}

func newWeatherFixture(t *testing.T, provider service.WeatherProvider) *weatherFixture {
	t.Helper()
	st := newTestStore(t)
	clock := clockwork.NewFakeClockAt(testNow)
	cities := service.NewCityService(st, clock)
	alerts := service.NewAlertService(st, clock)
	weather := service.NewWeatherService(st, alerts, provider, clock)

	city, err := cities.Create(service.CreateCityInput{
		Name: "Helsinki", Country: "Finland", Latitude: 60.1699, Longitude: 24.9384,
	})
	require.NoError(t, err)

	return &weatherFixture{weather: weather, alerts: alerts, city: city, store: st}
}

func TestCreateRecord_Defaults(t *testing.T) {
	f := newWeatherFixture(t, nil)

	record, err := f.weather.CreateRecord(service.CreateWeatherRecordInput{
		CityID: f.city.ID, Temperature: 18.5, Humidity: 70,
	})
	require.NoError(t, err)
	assert.NotZero(t, record.ID)
	assert.Equal(t, testNow, record.ObservationTime)
	assert.Equal(t, testNow, record.CreatedAt)
	assert.False(t, record.FeelsLike.Valid)
	assert.False(t, record.WindDirection.Valid)

	// Moderate temperature fires no alert.
	active, err := f.alerts.ListActive()
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestCreateRecord_CityNotFound(t *testing.T) {
	f := newWeatherFixture(t, nil)

	_, err := f.weather.CreateRecord(service.CreateWeatherRecordInput{
		CityID: 9999, Temperature: 20, Humidity: 50,
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCreateRecord_Validation(t *testing.T) {
	f := newWeatherFixture(t, nil)

	cases := []struct {
		name        string
		temperature float64
		humidity    int64
	}{
		{"temperature too low", -100.5, 50},
		{"temperature too high", 60.5, 50},
		{"humidity negative", 20, -1},
		{"humidity too high", 20, 101},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.weather.CreateRecord(service.CreateWeatherRecordInput{
				CityID: f.city.ID, Temperature: tc.temperature, Humidity: tc.humidity,
			})
			assert.ErrorIs(t, err, service.ErrValidation)
		})
	}

	// Rejected inputs leave no trace.
	records, err := f.weather.ListByCity(f.city.ID)
	require.NoError(t, err)
	assert.Empty(t, records)

	// Range boundaries are valid.
	_, err = f.weather.CreateRecord(service.CreateWeatherRecordInput{
		CityID: f.city.ID, Temperature: 60, Humidity: 100,
	})
	assert.NoError(t, err)
	_, err = f.weather.CreateRecord(service.CreateWeatherRecordInput{
		CityID: f.city.ID, Temperature: -100, Humidity: 0,
	})
	assert.NoError(t, err)
}

func TestCreateRecord_ExtremeHeatAlert(t *testing.T) {
	f := newWeatherFixture(t, nil)

	obs := time.Date(2026, 7, 1, 14, 0, 0, 0, time.UTC)
	_, err := f.weather.CreateRecord(service.CreateWeatherRecordInput{
		CityID: f.city.ID, ObservationTime: &obs, Temperature: 38.5, Humidity: 30,
	})
	require.NoError(t, err)

	active, err := f.alerts.ListActive()
	require.NoError(t, err)
	require.Len(t, active, 1)

	alert := active[0]
	assert.Equal(t, "Extreme Heat in Helsinki", alert.Title)
	assert.Contains(t, alert.Description, "38.5°C")
	assert.Equal(t, models.SeverityHigh, alert.Severity)
	assert.Equal(t, models.AlertTypeTemperature, alert.AlertType)
	assert.True(t, alert.StartTime.Equal(obs), "StartTime = %v", alert.StartTime)
	require.True(t, alert.EndTime.Valid)
	assert.True(t, alert.EndTime.Time.Equal(obs.Add(24*time.Hour)), "EndTime = %v", alert.EndTime.Time)

	full, err := f.alerts.Get(alert.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Helsinki"}, full.AffectedCities)
}

func TestCreateRecord_ExtremeColdAlert(t *testing.T) {
	f := newWeatherFixture(t, nil)

	_, err := f.weather.CreateRecord(service.CreateWeatherRecordInput{
		CityID: f.city.ID, Temperature: -25, Humidity: 80,
	})
	require.NoError(t, err)

	active, err := f.alerts.ListActive()
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Extreme Cold in Helsinki", active[0].Title)
	assert.Contains(t, active[0].Description, "-25°C")
}

func TestCreateRecord_ThresholdsAreStrict(t *testing.T) {
	f := newWeatherFixture(t, nil)

	// Exactly at a threshold does not fire.
	for _, temp := range []float64{35, -20, 0, 34.9, -19.9} {
		_, err := f.weather.CreateRecord(service.CreateWeatherRecordInput{
			CityID: f.city.ID, Temperature: temp, Humidity: 50,
		})
		require.NoError(t, err)
	}

	active, err := f.alerts.ListActive()
	require.NoError(t, err)
	assert.Empty(t, active)

	// Just past the threshold does.
	_, err = f.weather.CreateRecord(service.CreateWeatherRecordInput{
		CityID: f.city.ID, Temperature: 35.1, Humidity: 50,
	})
	require.NoError(t, err)

	active, err = f.alerts.ListActive()
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestFetchFromProvider(t *testing.T) {
	deg := 90.0
	provider := &stubProvider{snap: &openweather.Snapshot{
		Temperature: 12.3,
		FeelsLike:   10.1,
		Humidity:    65,
		Pressure:    1013,
		WindSpeed:   18,
		WindDegrees: &deg,
		Condition:   "Clouds",
		Description: "scattered clouds",
	}}
	f := newWeatherFixture(t, provider)

	record, err := f.weather.FetchFromProvider(context.Background(), f.city.ID)
	require.NoError(t, err)
	assert.Equal(t, 12.3, record.Temperature)
	assert.Equal(t, int64(65), record.Humidity)
	assert.Equal(t, "E", record.WindDirection.String)
	assert.Equal(t, "Clouds", record.Condition.String)
	assert.Equal(t, testNow, record.ObservationTime)

	stored, err := f.weather.LatestByCity(f.city.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, record.ID, stored.ID)
}

func TestFetchFromProvider_MissingWindDegrees(t *testing.T) {
	provider := &stubProvider{snap: &openweather.Snapshot{
		Temperature: 5, Humidity: 50, Condition: "Clear", Description: "clear sky",
	}}
	f := newWeatherFixture(t, provider)

	record, err := f.weather.FetchFromProvider(context.Background(), f.city.ID)
	require.NoError(t, err)
	assert.Equal(t, "Unknown", record.WindDirection.String)
}

func TestFetchFromProvider_TriggersAlert(t *testing.T) {
	provider := &stubProvider{snap: &openweather.Snapshot{
		Temperature: 41, Humidity: 20, Condition: "Clear", Description: "clear sky",
	}}
	f := newWeatherFixture(t, provider)

	_, err := f.weather.FetchFromProvider(context.Background(), f.city.ID)
	require.NoError(t, err)

	active, err := f.alerts.ListActive()
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Extreme Heat in Helsinki", active[0].Title)
}

func TestFetchFromProvider_Unavailable(t *testing.T) {
	f := newWeatherFixture(t, &stubProvider{err: errors.New("connection refused")})

	_, err := f.weather.FetchFromProvider(context.Background(), f.city.ID)
	assert.ErrorIs(t, err, service.ErrUnavailable)

	// A nil snapshot without an error is treated the same way.
	f2 := newWeatherFixture(t, &stubProvider{})
	_, err = f2.weather.FetchFromProvider(context.Background(), f2.city.ID)
	assert.ErrorIs(t, err, service.ErrUnavailable)

	// No partial record is left behind.
	records, err := f.weather.ListByCity(f.city.ID)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFetchFromProvider_CityNotFound(t *testing.T) {
	f := newWeatherFixture(t, &stubProvider{})

	_, err := f.weather.FetchFromProvider(context.Background(), 9999)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestWeatherRecordLifecycle(t *testing.T) {
	f := newWeatherFixture(t, nil)

	obs := testNow.Add(-time.Hour)
	record, err := f.weather.CreateRecord(service.CreateWeatherRecordInput{
		CityID: f.city.ID, ObservationTime: &obs, Temperature: 10, Humidity: 40,
	})
	require.NoError(t, err)

	got, err := f.weather.GetRecord(record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)

	ranged, err := f.weather.ListByDateRange(f.city.ID, obs.Add(-time.Minute), obs.Add(time.Minute))
	require.NoError(t, err)
	assert.Len(t, ranged, 1)

	existed, err := f.weather.DeleteRecord(record.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	_, err = f.weather.GetRecord(record.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	existed, err = f.weather.DeleteRecord(record.ID)
	require.NoError(t, err)
	assert.False(t, existed)
}
