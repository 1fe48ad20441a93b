package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/SiphiweRadebe/WeatherApp/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors to HTTP statuses. Anything outside the
// domain taxonomy is logged and surfaced as an opaque 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrUnavailable):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrDuplicate):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		log.Printf("api: internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- cities ---

type createCityRequest struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	TimeZone  *string `json:"timeZone"`
}

type updateCityRequest struct {
	Name      string   `json:"name"`
	Country   string   `json:"country"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	TimeZone  *string  `json:"timeZone"`
}

func (s *Server) handleListCities(w http.ResponseWriter, r *http.Request) {
	cities, err := s.cities.List()
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]cityJSON, 0, len(cities))
	for i := range cities {
		out = append(out, toCityJSON(&cities[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCity(w http.ResponseWriter, r *http.Request) {
	var req createCityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	city, err := s.cities.Create(service.CreateCityInput{
		Name:      req.Name,
		Country:   req.Country,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		TimeZone:  req.TimeZone,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCityJSON(city))
}

func (s *Server) handleGetCity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid city id"})
		return
	}
	city, err := s.cities.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCityJSON(city))
}

func (s *Server) handleUpdateCity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid city id"})
		return
	}
	var req updateCityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	city, err := s.cities.Update(id, service.UpdateCityInput{
		Name:      req.Name,
		Country:   req.Country,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		TimeZone:  req.TimeZone,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCityJSON(city))
}

func (s *Server) handleDeleteCity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid city id"})
		return
	}
	existed, err := s.cities.Delete(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !existed {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "city not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCityWeather(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid city id"})
		return
	}
	city, records, err := s.cities.GetWithWeather(id)
	if err != nil {
		writeError(w, err)
		return
	}
	out := toCityJSON(city)
	out.WeatherRecords = toWeatherRecordList(records)
	writeJSON(w, http.StatusOK, out)
}

// --- weather records ---

type createWeatherRecordRequest struct {
	CityID          int64      `json:"cityId"`
	ObservationTime *time.Time `json:"observationTime"`
	Temperature     float64    `json:"temperature"`
	FeelsLike       *float64   `json:"feelsLike"`
	Humidity        int64      `json:"humidity"`
	WindSpeed       *float64   `json:"windSpeed"`
	WindDirection   *string    `json:"windDirection"`
	Pressure        *float64   `json:"pressure"`
	Condition       *string    `json:"condition"`
	Description     *string    `json:"description"`
}

func (s *Server) handleCreateWeatherRecord(w http.ResponseWriter, r *http.Request) {
	var req createWeatherRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	record, err := s.weather.CreateRecord(service.CreateWeatherRecordInput{
		CityID:          req.CityID,
		ObservationTime: req.ObservationTime,
		Temperature:     req.Temperature,
		FeelsLike:       req.FeelsLike,
		Humidity:        req.Humidity,
		WindSpeed:       req.WindSpeed,
		WindDirection:   req.WindDirection,
		Pressure:        req.Pressure,
		Condition:       req.Condition,
		Description:     req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWeatherRecordJSON(record))
}

func (s *Server) handleListWeatherRecords(w http.ResponseWriter, r *http.Request) {
	cityID, err := strconv.ParseInt(r.URL.Query().Get("city"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "city query parameter required"})
		return
	}

	if r.URL.Query().Get("latest") == "true" {
		record, err := s.weather.LatestByCity(cityID)
		if err != nil {
			writeError(w, err)
			return
		}
		if record == nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "no weather records for city"})
			return
		}
		writeJSON(w, http.StatusOK, toWeatherRecordJSON(record))
		return
	}

	startStr, endStr := r.URL.Query().Get("start"), r.URL.Query().Get("end")
	if startStr != "" && endStr != "" {
		start, err1 := time.Parse(time.RFC3339, startStr)
		end, err2 := time.Parse(time.RFC3339, endStr)
		if err1 != nil || err2 != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "start and end must be RFC 3339 timestamps"})
			return
		}
		records, err := s.weather.ListByDateRange(cityID, start, end)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toWeatherRecordList(records))
		return
	}

	records, err := s.weather.ListByCity(cityID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWeatherRecordList(records))
}

func (s *Server) handleGetWeatherRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid record id"})
		return
	}
	record, err := s.weather.GetRecord(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWeatherRecordJSON(record))
}

func (s *Server) handleDeleteWeatherRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid record id"})
		return
	}
	existed, err := s.weather.DeleteRecord(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !existed {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "weather record not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFetchWeather(w http.ResponseWriter, r *http.Request) {
	cityID, ok := pathID(r, "cityID")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid city id"})
		return
	}
	record, err := s.weather.FetchFromProvider(r.Context(), cityID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWeatherRecordJSON(record))
}

// --- alerts ---

type createAlertRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Severity    string     `json:"severity"`
	AlertType   string     `json:"alertType"`
	StartTime   *time.Time `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
	CityIDs     []int64    `json:"cityIds"`
}

type updateAlertRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Severity    string     `json:"severity"`
	EndTime     *time.Time `json:"endTime"`
	IsActive    *bool      `json:"isActive"`
}

func (s *Server) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	var req createAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	alert, err := s.alerts.Create(service.CreateAlertInput{
		Title:       req.Title,
		Description: req.Description,
		Severity:    req.Severity,
		AlertType:   req.AlertType,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		CityIDs:     req.CityIDs,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAlertJSON(alert))
}

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	if alertType := r.URL.Query().Get("type"); alertType != "" {
		alerts, err := s.alerts.ListByType(alertType)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAlertList(alerts))
		return
	}

	cityID, err := strconv.ParseInt(r.URL.Query().Get("city"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "city or type query parameter required"})
		return
	}
	alerts, err := s.alerts.ListByCity(cityID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAlertList(alerts))
}

func (s *Server) handleActiveAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := s.alerts.ListActive()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAlertList(alerts))
}

func (s *Server) handleGetAlert(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid alert id"})
		return
	}
	alert, err := s.alerts.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAlertJSON(alert))
}

func (s *Server) handleUpdateAlert(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid alert id"})
		return
	}
	var req updateAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	alert, err := s.alerts.Update(id, service.UpdateAlertInput{
		Title:       req.Title,
		Description: req.Description,
		Severity:    req.Severity,
		EndTime:     req.EndTime,
		IsActive:    req.IsActive,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAlertJSON(alert))
}

func (s *Server) handleDeleteAlert(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid alert id"})
		return
	}
	existed, err := s.alerts.Delete(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !existed {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "alert not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAssociateCity(w http.ResponseWriter, r *http.Request) {
	alertID, ok1 := pathID(r, "id")
	cityID, ok2 := pathID(r, "cityID")
	if !ok1 || !ok2 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	if err := s.alerts.AssociateCity(alertID, cityID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveCityAssociation(w http.ResponseWriter, r *http.Request) {
	alertID, ok1 := pathID(r, "id")
	cityID, ok2 := pathID(r, "cityID")
	if !ok1 || !ok2 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	existed, err := s.alerts.RemoveCityAssociation(alertID, cityID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !existed {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "association not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
