package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/jonboulle/clockwork"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/SiphiweRadebe/WeatherApp/internal/api"
	"github.com/SiphiweRadebe/WeatherApp/internal/openweather"
	"github.com/SiphiweRadebe/WeatherApp/internal/service"
	"github.com/SiphiweRadebe/WeatherApp/internal/store"
)

var cli struct {
	DB     string `help:"Path to SQLite database." env:"WEATHERAPP_DB" default:"data/weatherapp.db"`
	Port   string `help:"HTTP server port." env:"PORT" default:"8080"`
	APIKey string `name:"api-key" help:"OpenWeatherMap API key." env:"OPENWEATHER_API_KEY" required:""`
	Seed   bool   `help:"Seed the default city set on startup."`
}

type seedCity struct {
	Name      string
	Country   string
	Latitude  float64
	Longitude float64
	TimeZone  string
}

var defaultCities = []seedCity{
	{"London", "United Kingdom", 51.5074, -0.1278, "Europe/London"},
	{"New York", "United States", 40.7128, -74.0060, "America/New_York"},
	{"Tokyo", "Japan", 35.6762, 139.6503, "Asia/Tokyo"},
	{"Sydney", "Australia", -33.8688, 151.2093, "Australia/Sydney"},
	{"Paris", "France", 48.8566, 2.3522, "Europe/Paris"},
}

func main() {
	kong.Parse(&cli,
		kong.Name("weatherapp"),
		kong.Description("City weather tracking with threshold-based alerting."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)

	// Pragmas go in the DSN so every pooled connection gets them; cascade
	// deletes depend on foreign_keys being on.
	dsn := cli.DB + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("database migrated")

	clock := clockwork.NewRealClock()
	cities := service.NewCityService(st, clock)
	alerts := service.NewAlertService(st, clock)
	provider := openweather.NewClient(cli.APIKey)
	weather := service.NewWeatherService(st, alerts, provider, clock)

	if cli.Seed {
		for _, c := range defaultCities {
			tz := c.TimeZone
			_, err := cities.Create(service.CreateCityInput{
				Name:      c.Name,
				Country:   c.Country,
				Latitude:  c.Latitude,
				Longitude: c.Longitude,
				TimeZone:  &tz,
			})
			if err != nil && !errors.Is(err, service.ErrDuplicate) {
				log.Fatalf("seed city %s: %v", c.Name, err)
			}
		}
		log.Println("cities seeded")
	}

	server := api.NewServer(cities, weather, alerts, cli.Port)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Printf("starting server on :%s", cli.Port)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
