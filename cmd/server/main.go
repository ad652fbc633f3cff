package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neexbeast/skitrip/internal/api"
	"github.com/neexbeast/skitrip/internal/cache"
	"github.com/neexbeast/skitrip/internal/config"
	"github.com/neexbeast/skitrip/internal/forecast"
	"github.com/neexbeast/skitrip/internal/notify"
	"github.com/neexbeast/skitrip/internal/push"
	"github.com/neexbeast/skitrip/internal/scheduler"
	"github.com/neexbeast/skitrip/internal/storage"
	"github.com/neexbeast/skitrip/internal/trip"
)

// subscriptionStore is satisfied by both storage backends.
type subscriptionStore interface {
	api.SubscriptionStore
	push.SubscriptionStore
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(log); err != nil {
		log.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

// writeMargin covers JSON encoding and the Redis round trips of a scheduled run.
const writeMargin = 10 * time.Second

// newServer builds the HTTP server. The write timeout leaves room for the slowest route,
// a scheduled run that fetches the forecast and then waits on push delivery.
func newServer(port string, handler http.Handler, fetchTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: fetchTimeout + push.DeliveryTimeout + writeMargin,
		IdleTimeout:  60 * time.Second,
	}
}

func run(log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	dates, err := cfg.Dates()
	if err != nil {
		return fmt.Errorf("trip dates: %w", err)
	}
	restaurants, err := trip.LoadRestaurants(cfg.RestaurantsFile)
	if err != nil {
		return fmt.Errorf("loading restaurants: %w", err)
	}

	ctx := context.Background()

	// Connect to Redis.
	redisClient, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer func() { _ = redisClient.Close() }()

	checks := map[string]api.Pinger{"redis": cache.Pinger{Client: redisClient}}

	// Subscriptions live in Redis unless a database is configured.
	var subs subscriptionStore = storage.NewRedisStore(redisClient, log)
	if cfg.DatabaseURL != "" {
		pool, err := storage.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pool.Close()

		if err := storage.RunMigrations(ctx, pool, cfg.MigrationsDir); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		log.Info("migrations applied")

		subs = storage.NewPostgresStore(pool)
		checks["db"] = storage.Pinger{Pool: pool}
	}

	// Wire dependencies.
	sender := push.NewWebPushSender(push.VAPID{
		PublicKey:  cfg.VAPIDPublicKey,
		PrivateKey: cfg.VAPIDPrivateKey,
		Subject:    cfg.VAPIDSubject,
	})
	broadcaster := push.NewBroadcaster(subs, sender, log)
	forecasts := forecast.NewClient(cfg.ForecastURL, cfg.HTTPTimeout)
	notifier := notify.NewService(notify.Config{
		Resort:   cfg.ResortName,
		BasePath: cfg.AppBasePath,
		Dates:    dates,
	}, forecasts, restaurants.Bookings, broadcaster, log)

	handlers := api.NewHandlers(cfg.ResortName, forecasts, cache.NewCache(redisClient), subs, notifier, restaurants, log)
	router := api.NewRouter(handlers, cfg.CronSecret, checks, log)

	if cfg.SchedulerEnabled {
		sched := scheduler.New(notifier, scheduler.Times{
			Weather:    cfg.WeatherNotifyAt,
			Restaurant: cfg.RestaurantNotifyAt,
		}, dates.Location, log)
		if err := sched.Start(); err != nil {
			return fmt.Errorf("starting scheduler: %w", err)
		}
		defer sched.Stop()
	}

	srv := newServer(cfg.Port, router, cfg.HTTPTimeout)

	// Graceful shutdown on SIGINT / SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("server goroutine panicked", "recover", r)
				errCh <- fmt.Errorf("server panicked: %v", r)
			}
		}()
		log.Info("server starting", "port", cfg.Port, "resort", cfg.ResortName,
			"trip_start", cfg.TripStart, "trip_end", cfg.TripEnd)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("listening: %w", err)
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("server shut down cleanly")
	return nil
}
