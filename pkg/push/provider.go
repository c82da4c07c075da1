package push

import "context"

// Message is one push notification destined for a single device token.
type Message struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// Provider sends push messages over one transport (FCM, APNS). Delivery is
// best-effort: callers log failures and move on.
type Provider interface {
	Send(ctx context.Context, msg *Message) error
}
