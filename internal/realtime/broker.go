package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/juicejoy/juicejoy-backend/pkg/errors"
	"github.com/juicejoy/juicejoy-backend/pkg/logger"
	redisclient "github.com/juicejoy/juicejoy-backend/pkg/redis"
)

type publisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}

// Broker carries order events across instances through Redis pub/sub. Each
// API instance runs one broker: status changes go out on the shared channel,
// and the Run loop feeds incoming messages into the local hub so every
// instance's stream subscribers see them.
type Broker struct {
	client *redisclient.Client
	pub    publisher
	hub    *Hub
	logg   *logger.Logger
}

// NewBroker constructs a broker bound to the provided Redis client and hub.
func NewBroker(client *redisclient.Client, hub *Hub, logg *logger.Logger) (*Broker, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if hub == nil {
		return nil, fmt.Errorf("hub required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Broker{client: client, pub: client, hub: hub, logg: logg}, nil
}

// NotifyOrderStatus publishes the event to the shared channel.
func (b *Broker) NotifyOrderStatus(ctx context.Context, event OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "encoding order event")
	}
	if err := b.pub.Publish(ctx, redisclient.OrderEventsChannel(), payload); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "publishing order event")
	}
	return nil
}

// Run consumes the shared channel and republishes into the local hub until
// the context is cancelled.
func (b *Broker) Run(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, redisclient.OrderEventsChannel())
	if sub == nil {
		return fmt.Errorf("redis subscription unavailable")
	}
	defer sub.Close()

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			var event OrderEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logg.Warn(ctx, "dropping malformed order event")
				continue
			}
			b.hub.Publish(event)
		}
	}
}
