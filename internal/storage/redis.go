package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/neexbeast/skitrip/internal/push"
)

const (
	// SubscriptionTTL is refreshed on every save.
	SubscriptionTTL = 365 * 24 * time.Hour

	keyPrefix = "push:"
	scanCount = 100
)

// RedisStore keeps one key per push subscription: push:<endpoint> -> JSON.
type RedisStore struct {
	client *redis.Client
	log    *slog.Logger
}

// NewRedisStore constructs a RedisStore.
func NewRedisStore(client *redis.Client, log *slog.Logger) *RedisStore {
	return &RedisStore{client: client, log: log}
}

func subscriptionKey(endpoint string) string {
	return keyPrefix + endpoint
}

// Save upserts sub by endpoint and resets its one-year expiry.
func (s *RedisStore) Save(ctx context.Context, sub push.Subscription) error {
	b, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshaling subscription: %w", err)
	}
	if err := s.client.Set(ctx, subscriptionKey(sub.Endpoint), b, SubscriptionTTL).Err(); err != nil {
		return fmt.Errorf("saving subscription: %w", err)
	}
	return nil
}

// Delete removes the subscription. Deleting an unknown endpoint is not an error.
func (s *RedisStore) Delete(ctx context.Context, endpoint string) error {
	if err := s.client.Del(ctx, subscriptionKey(endpoint)).Err(); err != nil {
		return fmt.Errorf("deleting subscription: %w", err)
	}
	return nil
}

// ListAll pages through every push:* key with SCAN and loads each page with MGET.
// Values that vanished between SCAN and MGET, or that fail to decode, are skipped.
// SCAN may return a key more than once, so each endpoint is listed at most once.
func (s *RedisStore) ListAll(ctx context.Context) ([]push.Subscription, error) {
	var (
		subs   []push.Subscription
		seen   = make(map[string]struct{})
		cursor uint64
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, keyPrefix+"*", scanCount).Result()
		if err != nil {
			return nil, fmt.Errorf("scanning subscriptions: %w", err)
		}

		if len(keys) > 0 {
			vals, err := s.client.MGet(ctx, keys...).Result()
			if err != nil {
				return nil, fmt.Errorf("loading subscriptions: %w", err)
			}
			for i, v := range vals {
				raw, ok := v.(string)
				if !ok {
					continue
				}
				var sub push.Subscription
				if err := json.Unmarshal([]byte(raw), &sub); err != nil {
					s.log.Warn("skipping malformed subscription", "key", keys[i], "err", err)
					continue
				}
				if _, dup := seen[sub.Endpoint]; dup {
					continue
				}
				seen[sub.Endpoint] = struct{}{}
				subs = append(subs, sub)
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}
	return subs, nil
}
