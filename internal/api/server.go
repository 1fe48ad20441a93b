package api

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SiphiweRadebe/WeatherApp/internal/service"
)

//go:embed templates/*
var templateFS embed.FS

type Server struct {
	cities  *service.CityService
	weather *service.WeatherService
	alerts  *service.AlertService
	port    string
	tmpl    *template.Template
}

func NewServer(cities *service.CityService, weather *service.WeatherService, alerts *service.AlertService, port string) *Server {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/*.html"))
	return &Server{
		cities:  cities,
		weather: weather,
		alerts:  alerts,
		port:    port,
		tmpl:    tmpl,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/cities", s.handleListCities)
	mux.HandleFunc("POST /api/cities", s.handleCreateCity)
	mux.HandleFunc("GET /api/cities/{id}", s.handleGetCity)
	mux.HandleFunc("PUT /api/cities/{id}", s.handleUpdateCity)
	mux.HandleFunc("DELETE /api/cities/{id}", s.handleDeleteCity)
	mux.HandleFunc("GET /api/cities/{id}/weather", s.handleCityWeather)

	mux.HandleFunc("POST /api/weather-records", s.handleCreateWeatherRecord)
	mux.HandleFunc("GET /api/weather-records", s.handleListWeatherRecords)
	mux.HandleFunc("GET /api/weather-records/{id}", s.handleGetWeatherRecord)
	mux.HandleFunc("DELETE /api/weather-records/{id}", s.handleDeleteWeatherRecord)
	mux.HandleFunc("POST /api/weather/fetch/{cityID}", s.handleFetchWeather)

	mux.HandleFunc("GET /api/alerts", s.handleListAlerts)
	mux.HandleFunc("POST /api/alerts", s.handleCreateAlert)
	mux.HandleFunc("GET /api/alerts/active", s.handleActiveAlerts)
	mux.HandleFunc("GET /api/alerts/{id}", s.handleGetAlert)
	mux.HandleFunc("PATCH /api/alerts/{id}", s.handleUpdateAlert)
	mux.HandleFunc("DELETE /api/alerts/{id}", s.handleDeleteAlert)
	mux.HandleFunc("POST /api/alerts/{id}/cities/{cityID}", s.handleAssociateCity)
	mux.HandleFunc("DELETE /api/alerts/{id}/cities/{cityID}", s.handleRemoveCityAssociation)

	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
