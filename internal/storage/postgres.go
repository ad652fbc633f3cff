package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/neexbeast/skitrip/internal/push"
)

// Querier abstracts the subset of pgxpool.Pool used by PostgresStore.
// This allows injection of a mock in tests.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore keeps push subscriptions in the push_subscriptions table.
type PostgresStore struct {
	q   Querier
	now func() time.Time
}

// NewPostgresStore constructs a PostgresStore backed by the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{q: pool, now: time.Now}
}

// NewPostgresStoreWithQuerier constructs a PostgresStore with a custom Querier and clock (for tests).
func NewPostgresStoreWithQuerier(q Querier, now func() time.Time) *PostgresStore {
	return &PostgresStore{q: q, now: now}
}

// Save inserts or updates a subscription keyed by endpoint.
// On conflict (endpoint), the keys, expiration_time and expires_at are refreshed.
func (s *PostgresStore) Save(ctx context.Context, sub push.Subscription) error {
	const q = `
		INSERT INTO push_subscriptions (endpoint, expiration_time, p256dh, auth, expires_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (endpoint) DO UPDATE
		SET expiration_time = EXCLUDED.expiration_time,
		    p256dh          = EXCLUDED.p256dh,
		    auth            = EXCLUDED.auth,
		    expires_at      = EXCLUDED.expires_at,
		    updated_at      = EXCLUDED.updated_at
	`

	expiresAt := s.now().Add(SubscriptionTTL)
	if _, err := s.q.Exec(ctx, q, sub.Endpoint, sub.ExpirationTime, sub.Keys.P256dh, sub.Keys.Auth, expiresAt); err != nil {
		return fmt.Errorf("upserting subscription: %w", err)
	}
	return nil
}

// Delete removes a subscription. Deleting an unknown endpoint is not an error.
func (s *PostgresStore) Delete(ctx context.Context, endpoint string) error {
	const q = `DELETE FROM push_subscriptions WHERE endpoint = $1`

	if _, err := s.q.Exec(ctx, q, endpoint); err != nil {
		return fmt.Errorf("deleting subscription: %w", err)
	}
	return nil
}

// ListAll returns every subscription that has not passed its expires_at.
func (s *PostgresStore) ListAll(ctx context.Context) ([]push.Subscription, error) {
	const q = `
		SELECT endpoint, expiration_time, p256dh, auth
		FROM push_subscriptions
		WHERE expires_at > $1
		ORDER BY endpoint
	`

	rows, err := s.q.Query(ctx, q, s.now())
	if err != nil {
		return nil, fmt.Errorf("querying subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []push.Subscription
	for rows.Next() {
		var sub push.Subscription
		if err := rows.Scan(&sub.Endpoint, &sub.ExpirationTime, &sub.Keys.P256dh, &sub.Keys.Auth); err != nil {
			return nil, fmt.Errorf("scanning subscription row: %w", err)
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating subscription rows: %w", err)
	}

	return subs, nil
}
