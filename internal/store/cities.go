package store

import (
	"database/sql"

	"github.com/SiphiweRadebe/WeatherApp/internal/models"
)

const cityColumns = `id, name, country, latitude, longitude, time_zone, created_at, updated_at`

func (s *Store) InsertCity(c *models.City) error {
	res, err := s.db.Exec(`
		INSERT INTO cities (name, country, latitude, longitude, time_zone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.Name, c.Country, c.Latitude, c.Longitude, c.TimeZone, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return err
	}
	c.ID, err = res.LastInsertId()
	return err
}

func (s *Store) GetCity(id int64) (*models.City, error) {
	row := s.db.QueryRow(`SELECT `+cityColumns+` FROM cities WHERE id = ?`, id)
	return scanCity(row)
}

func (s *Store) GetCityByNameAndCountry(name, country string) (*models.City, error) {
	row := s.db.QueryRow(`SELECT `+cityColumns+` FROM cities WHERE name = ? AND country = ?`, name, country)
	return scanCity(row)
}

func (s *Store) GetAllCities() ([]models.City, error) {
	rows, err := s.db.Query(`SELECT ` + cityColumns + ` FROM cities ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cities []models.City
	for rows.Next() {
		var c models.City
		if err := rows.Scan(&c.ID, &c.Name, &c.Country, &c.Latitude, &c.Longitude, &c.TimeZone, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}

func (s *Store) UpdateCity(c *models.City) error {
	_, err := s.db.Exec(`
		UPDATE cities
		SET name = ?, country = ?, latitude = ?, longitude = ?, time_zone = ?, updated_at = ?
		WHERE id = ?
	`, c.Name, c.Country, c.Latitude, c.Longitude, c.TimeZone, c.UpdatedAt, c.ID)
	return err
}

// DeleteCity removes a city. Weather records and city-alert associations
// cascade via foreign keys. Returns whether a row existed.
func (s *Store) DeleteCity(id int64) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM cities WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func scanCity(row *sql.Row) (*models.City, error) {
	var c models.City
	err := row.Scan(&c.ID, &c.Name, &c.Country, &c.Latitude, &c.Longitude, &c.TimeZone, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
