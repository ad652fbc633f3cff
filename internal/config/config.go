package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/neexbeast/skitrip/internal/forecast"
	"github.com/neexbeast/skitrip/internal/trip"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Port          string `validate:"required,numeric"`
	RedisURL      string `validate:"required,url"`
	DatabaseURL   string `validate:"omitempty,url"`
	MigrationsDir string `validate:"required"`
	CronSecret    string `validate:"required"`

	VAPIDPublicKey  string `validate:"required"`
	VAPIDPrivateKey string `validate:"required"`
	VAPIDSubject    string `validate:"required"`

	ForecastURL     string `validate:"required,url"`
	ResortName      string `validate:"required"`
	TripStart       string `validate:"required,datetime=2006-01-02"`
	TripEnd         string `validate:"required,datetime=2006-01-02"`
	TripTimezone    string `validate:"required,timezone"`
	HTTPTimeout     time.Duration
	RestaurantsFile string `validate:"omitempty,file"`
	AppBasePath     string

	SchedulerEnabled   bool
	WeatherNotifyAt    string `validate:"required,datetime=15:04"`
	RestaurantNotifyAt string `validate:"required,datetime=15:04"`
}

// Load reads .env when present, then the environment, and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := &Config{
		Port:               getenvDefault("PORT", "8080"),
		RedisURL:           os.Getenv("REDIS_URL"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		MigrationsDir:      getenvDefault("MIGRATIONS_DIR", "migrations"),
		CronSecret:         os.Getenv("CRON_SECRET"),
		VAPIDPublicKey:     os.Getenv("VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey:    os.Getenv("VAPID_PRIVATE_KEY"),
		VAPIDSubject:       getenvDefault("VAPID_SUBJECT", "mailto:admin@example.com"),
		ForecastURL:        getenvDefault("FORECAST_URL", forecast.DefaultURL),
		ResortName:         getenvDefault("RESORT_NAME", "Avoriaz"),
		TripStart:          getenvDefault("TRIP_START", "2026-01-17"),
		TripEnd:            getenvDefault("TRIP_END", "2026-01-24"),
		TripTimezone:       getenvDefault("TRIP_TIMEZONE", "UTC"),
		RestaurantsFile:    os.Getenv("RESTAURANTS_FILE"),
		AppBasePath:        getenvDefault("APP_BASE_PATH", "/avoriaz"),
		WeatherNotifyAt:    getenvDefault("WEATHER_NOTIFY_AT", "07:00"),
		RestaurantNotifyAt: getenvDefault("RESTAURANT_NOTIFY_AT", "16:00"),
	}

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	if v := os.Getenv("SCHEDULER_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SCHEDULER_ENABLED: %w", err)
		}
		cfg.SchedulerEnabled = enabled
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Location returns the trip time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TripTimezone)
	if err != nil {
		return nil, fmt.Errorf("loading TRIP_TIMEZONE %q: %w", c.TripTimezone, err)
	}
	return loc, nil
}

// Dates returns the trip calendar in the trip time zone.
func (c *Config) Dates() (trip.Dates, error) {
	loc, err := c.Location()
	if err != nil {
		return trip.Dates{}, err
	}
	return trip.NewDates(c.TripStart, c.TripEnd, loc)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
