package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/neexbeast/skitrip/internal/forecast"
)

// ForecastTTL equals the s-maxage that GET /api/weather sends, so the edge and Redis
// go stale together.
const ForecastTTL = 30 * time.Minute

// Cache keeps the last scraped forecast report per resort.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache returns a Cache whose entries live for ForecastTTL.
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client, ttl: ForecastTTL}
}

// reportKey is forecast:<resort>, case and surrounding space ignored.
func reportKey(resort string) string {
	return "forecast:" + strings.ToLower(strings.TrimSpace(resort))
}

// Get returns the cached report for resort, or nil, nil when nothing is cached.
func (c *Cache) Get(ctx context.Context, resort string) (*forecast.Report, error) {
	raw, err := c.client.Get(ctx, reportKey(resort)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("reading cached forecast for %q: %w", resort, err)
	}

	report := new(forecast.Report)
	if err := json.Unmarshal(raw, report); err != nil {
		return nil, fmt.Errorf("decoding cached forecast for %q: %w", resort, err)
	}
	return report, nil
}

// Set replaces the cached report. A nil report is ignored.
func (c *Cache) Set(ctx context.Context, resort string, report *forecast.Report) error {
	if report == nil {
		return nil
	}

	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding forecast for %q: %w", resort, err)
	}
	if err := c.client.Set(ctx, reportKey(resort), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("caching forecast for %q: %w", resort, err)
	}
	return nil
}

// Delete evicts the report so the next read scrapes the page again.
func (c *Cache) Delete(ctx context.Context, resort string) error {
	if err := c.client.Del(ctx, reportKey(resort)).Err(); err != nil {
		return fmt.Errorf("evicting cached forecast for %q: %w", resort, err)
	}
	return nil
}
