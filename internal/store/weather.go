package store

import (
	"database/sql"
	"time"

	"github.com/SiphiweRadebe/WeatherApp/internal/models"
)

const recordColumns = `id, city_id, observation_time, temperature, feels_like, humidity, wind_speed, wind_direction, pressure, condition, description, created_at`

func (s *Store) InsertWeatherRecord(r *models.WeatherRecord) error {
	res, err := s.db.Exec(`
		INSERT INTO weather_records (city_id, observation_time, temperature, feels_like, humidity, wind_speed, wind_direction, pressure, condition, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.CityID, r.ObservationTime, r.Temperature, r.FeelsLike, r.Humidity, r.WindSpeed, r.WindDirection, r.Pressure, r.Condition, r.Description, r.CreatedAt)
	if err != nil {
		return err
	}
	r.ID, err = res.LastInsertId()
	return err
}

func (s *Store) GetWeatherRecord(id int64) (*models.WeatherRecord, error) {
	row := s.db.QueryRow(`SELECT `+recordColumns+` FROM weather_records WHERE id = ?`, id)
	var r models.WeatherRecord
	err := row.Scan(&r.ID, &r.CityID, &r.ObservationTime, &r.Temperature, &r.FeelsLike, &r.Humidity, &r.WindSpeed, &r.WindDirection, &r.Pressure, &r.Condition, &r.Description, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) GetWeatherRecordsByCity(cityID int64) ([]models.WeatherRecord, error) {
	rows, err := s.db.Query(`
		SELECT `+recordColumns+`
		FROM weather_records
		WHERE city_id = ?
		ORDER BY observation_time DESC
	`, cityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWeatherRecords(rows)
}

func (s *Store) GetLatestWeatherRecord(cityID int64) (*models.WeatherRecord, error) {
	row := s.db.QueryRow(`
		SELECT `+recordColumns+`
		FROM weather_records
		WHERE city_id = ?
		ORDER BY observation_time DESC
		LIMIT 1
	`, cityID)
	var r models.WeatherRecord
	err := row.Scan(&r.ID, &r.CityID, &r.ObservationTime, &r.Temperature, &r.FeelsLike, &r.Humidity, &r.WindSpeed, &r.WindDirection, &r.Pressure, &r.Condition, &r.Description, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) GetWeatherRecordsByDateRange(cityID int64, start, end time.Time) ([]models.WeatherRecord, error) {
	rows, err := s.db.Query(`
		SELECT `+recordColumns+`
		FROM weather_records
		WHERE city_id = ? AND observation_time >= ? AND observation_time <= ?
		ORDER BY observation_time ASC
	`, cityID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWeatherRecords(rows)
}

func (s *Store) DeleteWeatherRecord(id int64) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM weather_records WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func scanWeatherRecords(rows *sql.Rows) ([]models.WeatherRecord, error) {
	var records []models.WeatherRecord
	for rows.Next() {
		var r models.WeatherRecord
		if err := rows.Scan(&r.ID, &r.CityID, &r.ObservationTime, &r.Temperature, &r.FeelsLike, &r.Humidity, &r.WindSpeed, &r.WindDirection, &r.Pressure, &r.Condition, &r.Description, &r.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
