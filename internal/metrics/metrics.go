package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProviderAPICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherapp_provider_api_calls_total",
			Help: "Total OpenWeather API calls",
		},
		[]string{"status"},
	)

	WeatherRecordsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherapp_weather_records_ingested_total",
			Help: "Total weather records successfully ingested",
		},
		[]string{"source"},
	)

	AlertsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherapp_alerts_created_total",
			Help: "Total alerts created, manual and threshold-derived",
		},
		[]string{"type", "severity"},
	)
)
