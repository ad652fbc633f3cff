package api

import (
	"context"
	"time"

	"github.com/neexbeast/skitrip/internal/forecast"
	"github.com/neexbeast/skitrip/internal/notify"
	"github.com/neexbeast/skitrip/internal/push"
)

// ForecastCache defines the cache operations needed by handlers.
type ForecastCache interface {
	Get(ctx context.Context, resort string) (*forecast.Report, error)
	Set(ctx context.Context, resort string, report *forecast.Report) error
	Delete(ctx context.Context, resort string) error
}

// ForecastFetcher downloads and parses the forecast page.
type ForecastFetcher interface {
	Fetch(ctx context.Context) (*forecast.Report, error)
}

// SubscriptionStore defines the storage operations needed by handlers.
type SubscriptionStore interface {
	Save(ctx context.Context, sub push.Subscription) error
}

// Notifier runs the push notifications the routes trigger.
type Notifier interface {
	DailyWeather(ctx context.Context, now time.Time) (notify.WeatherOutcome, error)
	DailyRestaurant(ctx context.Context, now time.Time) (notify.RestaurantOutcome, error)
	Test(ctx context.Context) (push.Result, error)
}

// Pinger is a dependency the health check probes.
type Pinger interface {
	Ping(ctx context.Context) error
}
