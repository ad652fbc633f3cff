package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// NewRouter builds and returns the Chi router with all routes configured.
// Scheduled routes and the weather refresh require the cron bearer secret; the rest are public.
// Rate limiting is applied globally: 60 requests per minute per IP.
func NewRouter(handlers *Handlers, cronSecret string, checks map[string]Pinger, log *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:     []string{"Content-Type", "Authorization"},
		MaxAge:             86400,
		OptionsPassthrough: true,
	}))
	r.Use(Recover(log))
	r.Use(Preflight)
	r.Use(httprate.LimitByIP(60, time.Minute))

	r.Get("/api/ping", handlers.Ping)
	r.Get("/api/health", HealthHandlerFunc(checks, log))

	r.Get("/api/weather", handlers.GetWeather)
	r.Get("/api/restaurants", handlers.GetRestaurants)
	r.Post("/api/push/subscribe", handlers.Subscribe)
	r.Get("/api/push/test", handlers.TestPush)

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(cronSecret))
		r.Get("/api/scheduled/daily-weather", handlers.DailyWeather)
		r.Get("/api/scheduled/daily-restaurant", handlers.DailyRestaurant)
		r.Post("/api/weather/refresh", handlers.RefreshWeather)
	})

	return r
}

// Ensure chi.Mux implements http.Handler.
var _ http.Handler = (*chi.Mux)(nil)
