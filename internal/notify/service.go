package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/neexbeast/skitrip/internal/forecast"
	"github.com/neexbeast/skitrip/internal/push"
	"github.com/neexbeast/skitrip/internal/trip"
)

// Outcome types reported by the scheduled routes.
const (
	TypeOutsidePeriod = "outside_period"
	TypeNoBooking     = "no_booking"
	TypeBookingFound  = "booking_found"
)

// ErrEmptyForecast is returned when the fetched page holds no forecast days.
var ErrEmptyForecast = errors.New("forecast has no days")

// ForecastSource fetches a fresh forecast report.
type ForecastSource interface {
	Fetch(ctx context.Context) (*forecast.Report, error)
}

// Broadcaster delivers a payload to every subscriber.
type Broadcaster interface {
	Broadcast(ctx context.Context, payload push.Payload) (push.Result, error)
}

// Config holds the trip facts that end up in notification text and links.
type Config struct {
	Resort   string
	BasePath string
	Dates    trip.Dates
}

// WeatherOutcome describes one daily weather run.
// Skipped is set when now fell outside the weather window; nothing was fetched or sent then.
type WeatherOutcome struct {
	Skipped bool
	Window  trip.Window
	Summary forecast.Summary
	Result  push.Result
}

// RestaurantOutcome describes one daily restaurant run. Type is one of the Type* constants.
type RestaurantOutcome struct {
	Type    string
	Booking *trip.Booking
	Result  push.Result
}

// Service runs the scheduled notifications.
type Service struct {
	cfg         Config
	forecasts   ForecastSource
	bookings    []trip.Booking
	broadcaster Broadcaster
	log         *slog.Logger
}

// NewService constructs a Service.
func NewService(cfg Config, forecasts ForecastSource, bookings []trip.Booking, broadcaster Broadcaster, log *slog.Logger) *Service {
	return &Service{
		cfg:         cfg,
		forecasts:   forecasts,
		bookings:    bookings,
		broadcaster: broadcaster,
		log:         log,
	}
}

// WeatherWindow returns the window the daily weather notification is active in.
func (s *Service) WeatherWindow() trip.Window {
	return s.cfg.Dates.WeatherWindow()
}

// DailyWeather fetches today's forecast and broadcasts its summary.
func (s *Service) DailyWeather(ctx context.Context, now time.Time) (WeatherOutcome, error) {
	window := s.cfg.Dates.WeatherWindow()
	if !window.Contains(now) {
		s.log.Info("daily weather skipped: outside notification window",
			"now", now, "window_start", window.Start, "window_end", window.End)
		return WeatherOutcome{Skipped: true, Window: window}, nil
	}

	report, err := s.forecasts.Fetch(ctx)
	if err != nil {
		return WeatherOutcome{}, fmt.Errorf("fetching forecast: %w", err)
	}
	if len(report.Days) == 0 {
		return WeatherOutcome{}, ErrEmptyForecast
	}

	out := WeatherOutcome{Window: window, Summary: forecast.Summarize(report.Days[0])}
	res, err := s.broadcaster.Broadcast(ctx, s.weatherPayload(out.Summary))
	out.Result = res
	if err != nil {
		return out, fmt.Errorf("broadcasting weather summary: %w", err)
	}

	s.log.Info("daily weather sent", "date", out.Summary.Date, "delivered", res.Delivered, "pruned", res.Pruned)
	return out, nil
}

// DailyRestaurant broadcasts tonight's booking, or a no-booking notice when there is none.
func (s *Service) DailyRestaurant(ctx context.Context, now time.Time) (RestaurantOutcome, error) {
	if !s.cfg.Dates.RestaurantWindow().Contains(now) {
		s.log.Info("daily restaurant skipped: outside notification window", "now", now)
		return RestaurantOutcome{Type: TypeOutsidePeriod}, nil
	}

	local := now.In(s.location())
	booking, ok := trip.FindBooking(local, s.bookings)

	out := RestaurantOutcome{Type: TypeNoBooking}
	payload := s.noBookingPayload()
	if ok {
		out = RestaurantOutcome{Type: TypeBookingFound, Booking: &booking}
		payload = s.bookingPayload(booking)
	}

	res, err := s.broadcaster.Broadcast(ctx, payload)
	out.Result = res
	if err != nil {
		return out, fmt.Errorf("broadcasting restaurant notification: %w", err)
	}

	s.log.Info("daily restaurant sent", "type", out.Type, "day", trip.DayMonthKey(local), "delivered", res.Delivered)
	return out, nil
}

// Test broadcasts the fixed test notification.
func (s *Service) Test(ctx context.Context) (push.Result, error) {
	res, err := s.broadcaster.Broadcast(ctx, s.testPayload())
	if err != nil {
		return res, fmt.Errorf("broadcasting test notification: %w", err)
	}
	return res, nil
}

func (s *Service) location() *time.Location {
	if s.cfg.Dates.Location == nil {
		return time.UTC
	}
	return s.cfg.Dates.Location
}
