package push

import (
	"context"
	"fmt"
	"net/http"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/Dias221467/PawPack_Tracker/internal/models"
)

// Result is the outcome of one delivery attempt to one subscription.
// Accepted means the push service took the message. PermanentlyGone means
// the service reported the endpoint as dead (404/410) and the subscription
// should be deleted. Anything else is a transient failure carried in Err.
type Result struct {
	Accepted        bool
	PermanentlyGone bool
	Err             error
}

// Transport delivers an encrypted payload to a single push endpoint.
type Transport interface {
	Send(ctx context.Context, sub *models.PushSubscription, payload []byte) Result
}

// WebPushTransport sends notifications over the Web Push protocol with
// VAPID signing.
type WebPushTransport struct {
	subscriber      string
	vapidPublicKey  string
	vapidPrivateKey string
	ttl             int
	timeout         time.Duration
}

// NewWebPushTransport creates a transport signing with the given VAPID key
// pair. subscriber is the contact address advertised to push services.
func NewWebPushTransport(subscriber, publicKey, privateKey string, ttl int, timeout time.Duration) *WebPushTransport {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if ttl <= 0 {
		ttl = 3600
	}
	return &WebPushTransport{
		subscriber:      subscriber,
		vapidPublicKey:  publicKey,
		vapidPrivateKey: privateKey,
		ttl:             ttl,
		timeout:         timeout,
	}
}

// Send delivers one payload to one endpoint. Each send is bounded by the
// transport's timeout; a timed-out send is a transient failure, never a
// permanently-gone one.
func (t *WebPushTransport) Send(ctx context.Context, sub *models.PushSubscription, payload []byte) Result {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      t.subscriber,
		VAPIDPublicKey:  t.vapidPublicKey,
		VAPIDPrivateKey: t.vapidPrivateKey,
		TTL:             t.ttl,
	})
	if err != nil {
		return Result{Err: fmt.Errorf("failed to send push: %v", err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return Result{PermanentlyGone: true}
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return Result{Accepted: true}
	default:
		return Result{Err: fmt.Errorf("push service returned status %d", resp.StatusCode)}
	}
}
