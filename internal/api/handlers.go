package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/neexbeast/skitrip/internal/notify"
	"github.com/neexbeast/skitrip/internal/push"
	"github.com/neexbeast/skitrip/internal/trip"
)

const maxSubscriptionBytes = 16 << 10

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	resort      string
	forecasts   ForecastFetcher
	cache       ForecastCache
	subs        SubscriptionStore
	notifier    Notifier
	restaurants *trip.Restaurants
	validate    *validator.Validate
	now         func() time.Time
	log         *slog.Logger
}

// NewHandlers constructs Handlers with all required dependencies.
func NewHandlers(
	resort string,
	forecasts ForecastFetcher,
	cache ForecastCache,
	subs SubscriptionStore,
	notifier Notifier,
	restaurants *trip.Restaurants,
	log *slog.Logger,
) *Handlers {
	return &Handlers{
		resort:      resort,
		forecasts:   forecasts,
		cache:       cache,
		subs:        subs,
		notifier:    notifier,
		restaurants: restaurants,
		validate:    validator.New(),
		now:         time.Now,
		log:         log,
	}
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// GetWeather handles GET /api/weather.
// Cache hit → return. Miss → fetch the page, cache, return.
func (h *Handlers) GetWeather(w http.ResponseWriter, r *http.Request) {
	report, err := h.cache.Get(r.Context(), h.resort)
	if err != nil {
		h.log.Error("cache get failed", "resort", h.resort, "err", err)
	}

	if report == nil {
		report, err = h.forecasts.Fetch(r.Context())
		if err != nil {
			h.log.Error("forecast fetch failed", "resort", h.resort, "err", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch weather data")
			return
		}
		if err := h.cache.Set(r.Context(), h.resort, report); err != nil {
			h.log.Warn("cache set failed after fetch", "resort", h.resort, "err", err)
		}
	}

	w.Header().Set("Cache-Control", "s-maxage=1800")
	writeJSON(w, http.StatusOK, report)
}

// RefreshWeather handles POST /api/weather/refresh.
// Fetches a fresh page, invalidates + repopulates the cache.
func (h *Handlers) RefreshWeather(w http.ResponseWriter, r *http.Request) {
	report, err := h.forecasts.Fetch(r.Context())
	if err != nil {
		h.log.Error("forecast fetch failed", "resort", h.resort, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch weather data")
		return
	}

	if err := h.cache.Delete(r.Context(), h.resort); err != nil {
		h.log.Warn("cache delete failed", "resort", h.resort, "err", err)
	}
	if err := h.cache.Set(r.Context(), h.resort, report); err != nil {
		h.log.Warn("cache set failed after refresh", "resort", h.resort, "err", err)
	}

	writeJSON(w, http.StatusOK, report)
}

// GetRestaurants handles GET /api/restaurants.
func (h *Handlers) GetRestaurants(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "s-maxage=3600")
	writeJSON(w, http.StatusOK, h.restaurants)
}

// Subscribe handles POST /api/push/subscribe.
func (h *Handlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	var sub push.Subscription
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSubscriptionBytes)).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid subscription")
		return
	}
	if err := h.validate.Struct(sub); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid subscription: "+err.Error())
		return
	}

	if err := h.subs.Save(r.Context(), sub); err != nil {
		h.log.Error("saving subscription failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to save subscription")
		return
	}

	writeMessage(w, http.StatusCreated, "Subscription saved")
}

// TestPush handles GET /api/push/test.
func (h *Handlers) TestPush(w http.ResponseWriter, r *http.Request) {
	res, err := h.notifier.Test(r.Context())
	if err != nil {
		h.log.Error("test notification failed", "failed", res.Failed, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to send test notification")
		return
	}
	writeMessage(w, http.StatusOK, "Test notification sent")
}

// DailyWeather handles GET /api/scheduled/daily-weather.
func (h *Handlers) DailyWeather(w http.ResponseWriter, r *http.Request) {
	out, err := h.notifier.DailyWeather(r.Context(), h.now())
	if err != nil {
		h.log.Error("daily weather notification failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to send daily weather notification")
		return
	}

	if out.Skipped {
		writeJSON(w, http.StatusOK, map[string]any{
			"message":            "Weather notifications not active - outside of notification window",
			"type":               notify.TypeOutsidePeriod,
			"notificationWindow": out.Window,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Daily weather notification sent successfully",
		"summary": out.Summary,
	})
}

// DailyRestaurant handles GET /api/scheduled/daily-restaurant.
func (h *Handlers) DailyRestaurant(w http.ResponseWriter, r *http.Request) {
	out, err := h.notifier.DailyRestaurant(r.Context(), h.now())
	if err != nil {
		h.log.Error("daily restaurant notification failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to send restaurant notification")
		return
	}

	switch out.Type {
	case notify.TypeOutsidePeriod:
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Outside notification period - no notification sent",
			"type":    out.Type,
		})
	case notify.TypeNoBooking:
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "No restaurant notification sent",
			"type":    out.Type,
		})
	default:
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Restaurant notification sent successfully",
			"type":    out.Type,
			"booking": out.Booking,
		})
	}
}

// Ping handles GET /api/ping.
func (h *Handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HealthHandlerFunc returns an http.HandlerFunc that pings every named dependency.
// It answers 200 when all of them respond, 503 otherwise.
func HealthHandlerFunc(checks map[string]Pinger, log *slog.Logger) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{"status": "ok"}

		for _, name := range names {
			body[name] = "ok"
			if err := checks[name].Ping(ctx); err != nil {
				log.Error("health check: ping failed", "dependency", name, "err", err)
				body[name] = "error"
				status = http.StatusServiceUnavailable
			}
		}

		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		writeJSON(w, status, body)
	}
}
