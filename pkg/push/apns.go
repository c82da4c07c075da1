package push

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"
)

type APNSConfig struct {
	KeyID      string
	TeamID     string
	BundleID   string
	KeyFile    string
	Production bool
}

type APNSProvider struct {
	client   *apns2.Client
	bundleID string
}

func NewAPNSProvider(config *APNSConfig) (*APNSProvider, error) {
	authKey, err := token.AuthKeyFromFile(config.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load apns auth key: %w", err)
	}

	client := apns2.NewTokenClient(&token.Token{
		AuthKey: authKey,
		KeyID:   config.KeyID,
		TeamID:  config.TeamID,
	})
	if config.Production {
		client = client.Production()
	} else {
		client = client.Development()
	}

	return &APNSProvider{
		client:   client,
		bundleID: config.BundleID,
	}, nil
}

func (p *APNSProvider) Send(ctx context.Context, msg *Message) error {
	pl := payload.NewPayload().AlertTitle(msg.Title).AlertBody(msg.Body)
	for k, v := range msg.Data {
		pl = pl.Custom(k, v)
	}

	notification := &apns2.Notification{
		DeviceToken: msg.Token,
		Topic:       p.bundleID,
		Payload:     pl,
	}

	res, err := p.client.PushWithContext(ctx, notification)
	if err != nil {
		return fmt.Errorf("failed to send apns notification: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("apns rejected notification: %s", res.Reason)
	}

	return nil
}
