package store

import (
	"database/sql"
	"time"

	"github.com/SiphiweRadebe/WeatherApp/internal/models"
)

const alertColumns = `id, title, description, severity, alert_type, start_time, end_time, is_active, created_at, updated_at`

// severityRankSQL orders alerts Extreme > High > Medium > Low. The raw
// string values do not sort meaningfully, so ranking happens in SQL.
const severityRankSQL = `CASE severity
	WHEN 'Extreme' THEN 4
	WHEN 'High' THEN 3
	WHEN 'Medium' THEN 2
	WHEN 'Low' THEN 1
	ELSE 0 END`

func (s *Store) InsertAlert(a *models.Alert) error {
	res, err := s.db.Exec(`
		INSERT INTO alerts (title, description, severity, alert_type, start_time, end_time, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.Title, a.Description, a.Severity, a.AlertType, a.StartTime, a.EndTime, a.IsActive, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return err
	}
	a.ID, err = res.LastInsertId()
	return err
}

func (s *Store) GetAlert(id int64) (*models.Alert, error) {
	row := s.db.QueryRow(`SELECT `+alertColumns+` FROM alerts WHERE id = ?`, id)
	var a models.Alert
	err := row.Scan(&a.ID, &a.Title, &a.Description, &a.Severity, &a.AlertType, &a.StartTime, &a.EndTime, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAlertWithCities loads an alert along with the names of its
// associated cities.
func (s *Store) GetAlertWithCities(id int64) (*models.Alert, error) {
	alert, err := s.GetAlert(id)
	if err != nil || alert == nil {
		return alert, err
	}

	rows, err := s.db.Query(`
		SELECT c.name
		FROM city_alerts ca
		JOIN cities c ON ca.city_id = c.id
		WHERE ca.alert_id = ?
		ORDER BY c.name ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		alert.AffectedCities = append(alert.AffectedCities, name)
	}
	return alert, rows.Err()
}

func (s *Store) GetActiveAlerts() ([]models.Alert, error) {
	rows, err := s.db.Query(`
		SELECT ` + alertColumns + `
		FROM alerts
		WHERE is_active = TRUE
		ORDER BY ` + severityRankSQL + ` DESC, start_time DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAlerts(rows)
}

func (s *Store) GetAlertsByCity(cityID int64) ([]models.Alert, error) {
	rows, err := s.db.Query(`
		SELECT a.id, a.title, a.description, a.severity, a.alert_type, a.start_time, a.end_time, a.is_active, a.created_at, a.updated_at
		FROM alerts a
		JOIN city_alerts ca ON ca.alert_id = a.id
		WHERE ca.city_id = ?
		ORDER BY a.start_time DESC
	`, cityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAlerts(rows)
}

func (s *Store) GetAlertsByType(alertType string) ([]models.Alert, error) {
	rows, err := s.db.Query(`
		SELECT `+alertColumns+`
		FROM alerts
		WHERE alert_type = ?
		ORDER BY start_time DESC
	`, alertType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAlerts(rows)
}

func (s *Store) UpdateAlert(a *models.Alert) error {
	_, err := s.db.Exec(`
		UPDATE alerts
		SET title = ?, description = ?, severity = ?, alert_type = ?, start_time = ?, end_time = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`, a.Title, a.Description, a.Severity, a.AlertType, a.StartTime, a.EndTime, a.IsActive, a.UpdatedAt, a.ID)
	return err
}

// DeleteAlert removes an alert; city associations cascade. Returns whether
// a row existed.
func (s *Store) DeleteAlert(id int64) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM alerts WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *Store) AssociateAlertWithCity(cityID, alertID int64, now time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO city_alerts (city_id, alert_id, associated_at, notification_sent)
		VALUES (?, ?, ?, FALSE)
		ON CONFLICT(city_id, alert_id) DO NOTHING
	`, cityID, alertID, now)
	return err
}

func (s *Store) RemoveCityAlert(cityID, alertID int64) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM city_alerts WHERE city_id = ? AND alert_id = ?`, cityID, alertID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *Store) GetCityAlerts(alertID int64) ([]models.CityAlert, error) {
	rows, err := s.db.Query(`
		SELECT city_id, alert_id, associated_at, notification_sent
		FROM city_alerts
		WHERE alert_id = ?
	`, alertID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []models.CityAlert
	for rows.Next() {
		var ca models.CityAlert
		if err := rows.Scan(&ca.CityID, &ca.AlertID, &ca.AssociatedAt, &ca.NotificationSent); err != nil {
			return nil, err
		}
		links = append(links, ca)
	}
	return links, rows.Err()
}

func scanAlerts(rows *sql.Rows) ([]models.Alert, error) {
	var alerts []models.Alert
	for rows.Next() {
		var a models.Alert
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.Severity, &a.AlertType, &a.StartTime, &a.EndTime, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}
