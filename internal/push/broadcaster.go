package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// SubscriptionStore is the storage the broadcaster reads from and prunes.
type SubscriptionStore interface {
	ListAll(ctx context.Context) ([]Subscription, error)
	Delete(ctx context.Context, endpoint string) error
}

// Sender delivers one encoded message to one subscription.
type Sender interface {
	Send(ctx context.Context, sub Subscription, message []byte) error
}

// Broadcaster fans a payload out to every stored subscription.
type Broadcaster struct {
	store  SubscriptionStore
	sender Sender
	log    *slog.Logger
}

// NewBroadcaster constructs a Broadcaster.
func NewBroadcaster(store SubscriptionStore, sender Sender, log *slog.Logger) *Broadcaster {
	return &Broadcaster{store: store, sender: sender, log: log}
}

// SendOne delivers payload to sub. It returns false, nil when the push service reports
// the subscription gone, after deleting it from the store.
func (b *Broadcaster) SendOne(ctx context.Context, sub Subscription, payload Payload) (bool, error) {
	msg, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("marshaling payload: %w", err)
	}
	return b.deliver(ctx, sub, msg)
}

func (b *Broadcaster) deliver(ctx context.Context, sub Subscription, msg []byte) (bool, error) {
	err := b.sender.Send(ctx, sub, msg)
	if err == nil {
		return true, nil
	}
	if !IsGone(err) {
		return false, err
	}

	b.log.Info("removing expired push subscription", "endpoint", shortEndpoint(sub.Endpoint), "err", err)
	if delErr := b.store.Delete(ctx, sub.Endpoint); delErr != nil {
		return false, fmt.Errorf("pruning subscription %s: %w", shortEndpoint(sub.Endpoint), delErr)
	}
	return false, nil
}

// Broadcast delivers payload to every subscription concurrently and waits for all of them.
// A failed delivery never stops the others; non-gone failures are joined into the returned error.
func (b *Broadcaster) Broadcast(ctx context.Context, payload Payload) (Result, error) {
	subs, err := b.store.ListAll(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("listing subscriptions: %w", err)
	}

	msg, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("marshaling payload: %w", err)
	}

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
		res  = Result{Attempted: len(subs)}
	)

	for _, sub := range subs {
		g.Go(func() error {
			delivered, err := b.deliverSafe(ctx, sub, msg)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				b.log.Error("push delivery failed", "endpoint", shortEndpoint(sub.Endpoint), "err", err)
				res.Failed++
				errs = append(errs, err)
			case delivered:
				res.Delivered++
			default:
				res.Pruned++
			}
			return nil
		})
	}
	_ = g.Wait()

	b.log.Info("broadcast finished",
		"title", payload.Title,
		"attempted", res.Attempted,
		"delivered", res.Delivered,
		"pruned", res.Pruned,
		"failed", res.Failed,
	)

	return res, errors.Join(errs...)
}

// deliverSafe is deliver with a panic in the sender turned into an error.
func (b *Broadcaster) deliverSafe(ctx context.Context, sub Subscription, msg []byte) (delivered bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("push delivery panicked: %v", r)
		}
	}()
	return b.deliver(ctx, sub, msg)
}
