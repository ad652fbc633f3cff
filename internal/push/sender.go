package push

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// DeliveryTimeout bounds a single push service request.
const DeliveryTimeout = 10 * time.Second

const (
	messageTTL = 24 * 60 * 60
	maxErrBody = 512
)

// DeliveryError is a non-2xx answer from a push service.
type DeliveryError struct {
	StatusCode int
	Body       string
}

func (e *DeliveryError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("push service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("push service returned status %d: %s", e.StatusCode, e.Body)
}

// IsGone reports whether err means the subscription no longer exists (404 or 410).
func IsGone(err error) bool {
	var de *DeliveryError
	if !errors.As(err, &de) {
		return false
	}
	return de.StatusCode == http.StatusNotFound || de.StatusCode == http.StatusGone
}

// VAPID holds the application server identity.
type VAPID struct {
	PublicKey  string
	PrivateKey string
	Subject    string
}

// WebPushSender delivers encrypted messages with VAPID authentication.
type WebPushSender struct {
	vapid  VAPID
	client *http.Client
}

// NewWebPushSender constructs a WebPushSender with a 10-second delivery timeout.
func NewWebPushSender(vapid VAPID) *WebPushSender {
	return &WebPushSender{vapid: vapid, client: &http.Client{Timeout: DeliveryTimeout}}
}

// Send delivers message to sub. Any non-2xx status is returned as *DeliveryError.
func (s *WebPushSender) Send(ctx context.Context, sub Subscription, message []byte) error {
	resp, err := webpush.SendNotificationWithContext(ctx, message, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.Keys.P256dh,
			Auth:   sub.Keys.Auth,
		},
	}, &webpush.Options{
		HTTPClient:      s.client,
		Subscriber:      s.vapid.Subject,
		VAPIDPublicKey:  s.vapid.PublicKey,
		VAPIDPrivateKey: s.vapid.PrivateKey,
		TTL:             messageTTL,
	})
	if err != nil {
		return fmt.Errorf("sending push to %s: %w", shortEndpoint(sub.Endpoint), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		return &DeliveryError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return nil
}

// shortEndpoint trims an endpoint for log lines and error messages.
func shortEndpoint(endpoint string) string {
	const n = 50
	if len(endpoint) <= n {
		return endpoint
	}
	return endpoint[:n] + "..."
}
