package api

import (
	"log"
	"net/http"
	"time"

	"github.com/SiphiweRadebe/WeatherApp/internal/models"
)

type cityRow struct {
	City   models.City
	Latest *models.WeatherRecord
}

type indexData struct {
	Cities      []cityRow
	Alerts      []models.Alert
	GeneratedAt time.Time
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	cities, err := s.cities.List()
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	data := indexData{GeneratedAt: time.Now().UTC()}
	for _, city := range cities {
		latest, err := s.weather.LatestByCity(city.ID)
		if err != nil {
			log.Printf("api: latest record for city %d: %v", city.ID, err)
			continue
		}
		data.Cities = append(data.Cities, cityRow{City: city, Latest: latest})
	}

	alerts, err := s.alerts.ListActive()
	if err != nil {
		log.Printf("api: list active alerts: %v", err)
	} else {
		data.Alerts = alerts
	}

	if err := s.tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		log.Printf("api: render index: %v", err)
	}
}
