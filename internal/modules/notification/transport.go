package notification

import (
	"context"
	"log"
)

// Transport delivers a rendered notification over one channel. Failures are
// logged by the caller and never roll back the persisted row; the row is the
// durability guarantee, delivery is best-effort.
type Transport interface {
	Deliver(ctx context.Context, userID int64, channel Channel, title, body, notifType string) error
}

// LogTransport is the development transport: it logs instead of calling
// FCM/SendGrid/Twilio. Push delivery resolves the user's active device tokens
// so the integration point matches a real provider's.
type LogTransport struct {
	tokens DeviceTokenSource
}

// DeviceTokenSource resolves active push tokens for a user.
type DeviceTokenSource interface {
	ActiveDeviceTokens(ctx context.Context, userID int64) ([]DeviceToken, error)
}

func NewLogTransport(tokens DeviceTokenSource) *LogTransport {
	return &LogTransport{tokens: tokens}
}

func (t *LogTransport) Deliver(ctx context.Context, userID int64, channel Channel, title, body, notifType string) error {
	switch channel {
	case ChannelPush:
		targets := 0
		if t.tokens != nil {
			tokens, err := t.tokens.ActiveDeviceTokens(ctx, userID)
			if err != nil {
				return err
			}
			targets = len(tokens)
		}
		log.Printf("deliver channel=push user=%d type=%s devices=%d title=%q", userID, notifType, targets, title)
	case ChannelInApp:
		// Already persisted; the realtime stream carries it to the client.
	default:
		log.Printf("deliver channel=%s user=%d type=%s title=%q", channel, userID, notifType, title)
	}
	return nil
}
