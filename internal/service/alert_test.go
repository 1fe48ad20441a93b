package service_test

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SiphiweRadebe/WeatherApp/internal/models"
	"github.com/SiphiweRadebe/WeatherApp/internal/service"
	"github.com/SiphiweRadebe/WeatherApp/internal/store"
)

func newAlertService(t *testing.T) (*service.AlertService, *service.CityService, *store.Store) {
	t.Helper()
	st := newTestStore(t)
	clock := clockwork.NewFakeClockAt(testNow)
	return service.NewAlertService(st, clock), service.NewCityService(st, clock), st
}

func TestAlertCreate_Defaults(t *testing.T) {
	alerts, _, _ := newAlertService(t)

	alert, err := alerts.Create(service.CreateAlertInput{
		Title:       "Flood warning",
		Description: "River levels rising",
		Severity:    models.SeverityMedium,
		AlertType:   models.AlertTypeFlood,
	})
	require.NoError(t, err)
	assert.NotZero(t, alert.ID)
	assert.True(t, alert.IsActive)
	assert.True(t, alert.StartTime.Equal(testNow), "StartTime = %v", alert.StartTime)
	assert.False(t, alert.EndTime.Valid)
	assert.Empty(t, alert.AffectedCities)
}

func TestAlertCreate_InvalidEnums(t *testing.T) {
	alerts, _, _ := newAlertService(t)

	_, err := alerts.Create(service.CreateAlertInput{
		Title: "Bad", Description: "bad", Severity: "Catastrophic", AlertType: models.AlertTypeStorm,
	})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = alerts.Create(service.CreateAlertInput{
		Title: "Bad", Description: "bad", Severity: models.SeverityLow, AlertType: "Earthquake",
	})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestAlertCreate_SkipsUnknownCities(t *testing.T) {
	alerts, cities, _ := newAlertService(t)

	city, err := cities.Create(service.CreateCityInput{
		Name: "Berlin", Country: "Germany", Latitude: 52.52, Longitude: 13.405,
	})
	require.NoError(t, err)

	alert, err := alerts.Create(service.CreateAlertInput{
		Title:       "Storm warning",
		Description: "High winds expected",
		Severity:    models.SeverityHigh,
		AlertType:   models.AlertTypeStorm,
		CityIDs:     []int64{city.ID, 9999},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Berlin"}, alert.AffectedCities)
}

func TestAlertListActive_Ordering(t *testing.T) {
	alerts, _, _ := newAlertService(t)

	for _, sev := range []string{models.SeverityLow, models.SeverityExtreme, models.SeverityMedium, models.SeverityHigh} {
		_, err := alerts.Create(service.CreateAlertInput{
			Title: sev + " alert", Description: "test", Severity: sev, AlertType: models.AlertTypeOther,
		})
		require.NoError(t, err)
	}

	inactive, err := alerts.Create(service.CreateAlertInput{
		Title: "resolved", Description: "test", Severity: models.SeverityExtreme, AlertType: models.AlertTypeOther,
	})
	require.NoError(t, err)
	_, err = alerts.Update(inactive.ID, service.UpdateAlertInput{IsActive: ptr(false)})
	require.NoError(t, err)

	active, err := alerts.ListActive()
	require.NoError(t, err)
	require.Len(t, active, 4)

	got := make([]string, len(active))
	for i, a := range active {
		got[i] = a.Severity
	}
	assert.Equal(t, []string{models.SeverityExtreme, models.SeverityHigh, models.SeverityMedium, models.SeverityLow}, got)
}

func TestAlertListByType(t *testing.T) {
	alerts, _, _ := newAlertService(t)

	for _, at := range []string{models.AlertTypeStorm, models.AlertTypeFlood, models.AlertTypeStorm} {
		_, err := alerts.Create(service.CreateAlertInput{
			Title: at + " alert", Description: "test", Severity: models.SeverityMedium, AlertType: at,
		})
		require.NoError(t, err)
	}

	storms, err := alerts.ListByType(models.AlertTypeStorm)
	require.NoError(t, err)
	assert.Len(t, storms, 2)

	_, err = alerts.ListByType("Earthquake")
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestAlertUpdate_PartialFields(t *testing.T) {
	alerts, _, _ := newAlertService(t)

	alert, err := alerts.Create(service.CreateAlertInput{
		Title: "Snowfall", Description: "Heavy snow", Severity: models.SeverityMedium, AlertType: models.AlertTypeSnow,
	})
	require.NoError(t, err)

	end := testNow.Add(12 * time.Hour)
	updated, err := alerts.Update(alert.ID, service.UpdateAlertInput{
		Title:    "  ",
		Severity: models.SeverityHigh,
		EndTime:  &end,
		IsActive: ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "Snowfall", updated.Title)
	assert.Equal(t, models.SeverityHigh, updated.Severity)
	assert.True(t, updated.EndTime.Valid)
	assert.Equal(t, end, updated.EndTime.Time)
	assert.False(t, updated.IsActive)
	assert.True(t, updated.UpdatedAt.Valid)

	_, err = alerts.Update(alert.ID, service.UpdateAlertInput{Severity: "Apocalyptic"})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = alerts.Update(9999, service.UpdateAlertInput{Title: "Ghost"})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestAlertAssociateAndRemoveCity(t *testing.T) {
	alerts, cities, _ := newAlertService(t)

	city, err := cities.Create(service.CreateCityInput{
		Name: "Munich", Country: "Germany", Latitude: 48.1351, Longitude: 11.582,
	})
	require.NoError(t, err)

	alert, err := alerts.Create(service.CreateAlertInput{
		Title: "Wind advisory", Description: "Gusts up to 90 km/h", Severity: models.SeverityLow, AlertType: models.AlertTypeWind,
	})
	require.NoError(t, err)

	require.NoError(t, alerts.AssociateCity(alert.ID, city.ID))
	// Associating twice is a no-op.
	require.NoError(t, alerts.AssociateCity(alert.ID, city.ID))

	got, err := alerts.Get(alert.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Munich"}, got.AffectedCities)

	byCity, err := alerts.ListByCity(city.ID)
	require.NoError(t, err)
	require.Len(t, byCity, 1)
	assert.Equal(t, alert.ID, byCity[0].ID)

	err = alerts.AssociateCity(alert.ID, 9999)
	assert.ErrorIs(t, err, service.ErrNotFound)
	err = alerts.AssociateCity(9999, city.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	existed, err := alerts.RemoveCityAssociation(alert.ID, city.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = alerts.RemoveCityAssociation(alert.ID, city.ID)
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestAlertDelete(t *testing.T) {
	alerts, _, _ := newAlertService(t)

	alert, err := alerts.Create(service.CreateAlertInput{
		Title: "Old alert", Description: "stale", Severity: models.SeverityLow, AlertType: models.AlertTypeOther,
	})
	require.NoError(t, err)

	existed, err := alerts.Delete(alert.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = alerts.Delete(alert.ID)
	require.NoError(t, err)
	assert.False(t, existed)

	_, err = alerts.Get(alert.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
