package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/neexbeast/skitrip/internal/notify"
)

const jobTimeout = 30 * time.Second

// Notifier is the subset of notify.Service the daily jobs call.
type Notifier interface {
	DailyWeather(ctx context.Context, now time.Time) (notify.WeatherOutcome, error)
	DailyRestaurant(ctx context.Context, now time.Time) (notify.RestaurantOutcome, error)
}

// Times holds the HH:MM wall-clock times of the daily jobs.
type Times struct {
	Weather    string
	Restaurant string
}

// Scheduler runs the daily notifications in-process.
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	times     Times
	now       func() time.Time
	log       *slog.Logger
}

// New creates a Scheduler whose job times are read in loc.
func New(notifier Notifier, times Times, loc *time.Location, log *slog.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(loc),
		notifier:  notifier,
		times:     times,
		now:       time.Now,
		log:       log,
	}
}

// Start registers both daily jobs and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(1).Day().At(s.times.Weather).Do(s.runWeather); err != nil {
		return fmt.Errorf("scheduling daily weather at %q: %w", s.times.Weather, err)
	}
	if _, err := s.scheduler.Every(1).Day().At(s.times.Restaurant).Do(s.runRestaurant); err != nil {
		return fmt.Errorf("scheduling daily restaurant at %q: %w", s.times.Restaurant, err)
	}

	s.scheduler.StartAsync()
	s.log.Info("scheduler started", "weather_at", s.times.Weather, "restaurant_at", s.times.Restaurant)
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) runWeather() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	out, err := s.notifier.DailyWeather(ctx, s.now())
	if err != nil {
		s.log.Error("scheduled daily weather failed", "err", err)
		return
	}
	s.log.Info("scheduled daily weather finished", "skipped", out.Skipped, "delivered", out.Result.Delivered)
}

func (s *Scheduler) runRestaurant() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	out, err := s.notifier.DailyRestaurant(ctx, s.now())
	if err != nil {
		s.log.Error("scheduled daily restaurant failed", "err", err)
		return
	}
	s.log.Info("scheduled daily restaurant finished", "type", out.Type, "delivered", out.Result.Delivered)
}
