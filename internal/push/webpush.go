package push

import (
	"context"
	"io"
	"strings"

	"github.com/SherClockHolmes/webpush-go"

	"github.com/frahmantamala/staff-requests/internal"
)

const (
	defaultTTL = 24 * 60 * 60
)

// WebPushSender signs requests with the VAPID key pair.
type WebPushSender struct {
	subscriber string
	publicKey  string
	privateKey string
}

// NewWebPushSender returns nil when push is disabled so callers can pass the
// result straight to NewService.
func NewWebPushSender(cfg internal.PushConfig) Sender {
	if !cfg.Enabled || cfg.VAPIDPublicKey == "" || cfg.VAPIDPrivateKey == "" {
		return nil
	}
	return &WebPushSender{
		// the library adds the mailto: scheme itself
		subscriber: strings.TrimPrefix(cfg.Subject, "mailto:"),
		publicKey:  cfg.VAPIDPublicKey,
		privateKey: cfg.VAPIDPrivateKey,
	}
}

func (w *WebPushSender) Send(ctx context.Context, sub Subscription, payload []byte) (int, error) {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			Auth:   sub.Keys.Auth,
			P256dh: sub.Keys.P256dh,
		},
	}, &webpush.Options{
		Subscriber:      w.subscriber,
		VAPIDPublicKey:  w.publicKey,
		VAPIDPrivateKey: w.privateKey,
		TTL:             defaultTTL,
		Urgency:         webpush.UrgencyHigh,
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
