package service

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/SiphiweRadebe/WeatherApp/internal/models"
	"github.com/SiphiweRadebe/WeatherApp/internal/store"
)

type CityService struct {
	store *store.Store
	clock clockwork.Clock
}

func NewCityService(st *store.Store, clock clockwork.Clock) *CityService {
	return &CityService{store: st, clock: clock}
}

type CreateCityInput struct {
	Name      string
	Country   string
	Latitude  float64
	Longitude float64
	TimeZone  *string
}

// UpdateCityInput carries partial fields. Blank or whitespace-only Name and
// Country are treated as "not provided", so neither can be cleared via
// update. TimeZone uses a nil pointer for "not provided" instead.
type UpdateCityInput struct {
	Name      string
	Country   string
	Latitude  *float64
	Longitude *float64
	TimeZone  *string
}

func (s *CityService) Create(in CreateCityInput) (*models.City, error) {
	// Advisory pre-check; the UNIQUE(name, country) constraint is the real
	// enforcement under concurrent creates.
	existing, err := s.store.GetCityByNameAndCountry(in.Name, in.Country)
	if err != nil {
		return nil, fmt.Errorf("lookup city: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: city '%s, %s'", ErrDuplicate, in.Name, in.Country)
	}

	if err := validateCoordinates(in.Latitude, in.Longitude); err != nil {
		return nil, err
	}

	city := &models.City{
		Name:      in.Name,
		Country:   in.Country,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		CreatedAt: s.clock.Now().UTC(),
	}
	if in.TimeZone != nil {
		city.TimeZone = sql.NullString{String: *in.TimeZone, Valid: true}
	}

	if err := s.store.InsertCity(city); err != nil {
		return nil, fmt.Errorf("insert city: %w", err)
	}

	log.Printf("city: created %s, %s (id %d)", city.Name, city.Country, city.ID)
	return city, nil
}

func (s *CityService) Get(id int64) (*models.City, error) {
	city, err := s.store.GetCity(id)
	if err != nil {
		return nil, fmt.Errorf("get city: %w", err)
	}
	if city == nil {
		return nil, fmt.Errorf("%w: city %d", ErrNotFound, id)
	}
	return city, nil
}

func (s *CityService) List() ([]models.City, error) {
	return s.store.GetAllCities()
}

func (s *CityService) Update(id int64, in UpdateCityInput) (*models.City, error) {
	city, err := s.store.GetCity(id)
	if err != nil {
		return nil, fmt.Errorf("get city: %w", err)
	}
	if city == nil {
		return nil, fmt.Errorf("%w: city %d", ErrNotFound, id)
	}

	if strings.TrimSpace(in.Name) != "" {
		city.Name = in.Name
	}
	if strings.TrimSpace(in.Country) != "" {
		city.Country = in.Country
	}
	if in.Latitude != nil {
		if *in.Latitude < -90 || *in.Latitude > 90 {
			return nil, fmt.Errorf("%w: latitude must be between -90 and 90", ErrValidation)
		}
		city.Latitude = *in.Latitude
	}
	if in.Longitude != nil {
		if *in.Longitude < -180 || *in.Longitude > 180 {
			return nil, fmt.Errorf("%w: longitude must be between -180 and 180", ErrValidation)
		}
		city.Longitude = *in.Longitude
	}
	if in.TimeZone != nil {
		city.TimeZone = sql.NullString{String: *in.TimeZone, Valid: true}
	}

	city.UpdatedAt = sql.NullTime{Time: s.clock.Now().UTC(), Valid: true}

	if err := s.store.UpdateCity(city); err != nil {
		return nil, fmt.Errorf("update city: %w", err)
	}

	log.Printf("city: updated %d", id)
	return city, nil
}

// Delete removes a city and, via cascade, its weather records and alert
// associations. Returns false without error when the id does not exist.
func (s *CityService) Delete(id int64) (bool, error) {
	existed, err := s.store.DeleteCity(id)
	if err != nil {
		return false, fmt.Errorf("delete city: %w", err)
	}
	if existed {
		log.Printf("city: deleted %d", id)
	}
	return existed, nil
}

// GetWithWeather returns a city along with all of its weather records.
func (s *CityService) GetWithWeather(id int64) (*models.City, []models.WeatherRecord, error) {
	city, err := s.store.GetCity(id)
	if err != nil {
		return nil, nil, fmt.Errorf("get city: %w", err)
	}
	if city == nil {
		return nil, nil, fmt.Errorf("%w: city %d", ErrNotFound, id)
	}

	records, err := s.store.GetWeatherRecordsByCity(id)
	if err != nil {
		return nil, nil, fmt.Errorf("get weather records: %w", err)
	}
	return city, records, nil
}

func validateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", ErrValidation)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", ErrValidation)
	}
	return nil
}
