package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"pumpstream/internal/pubsub"
)

// Envelope is the frame sent to websocket clients: the originating channel
// name plus the untouched payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// bridgedChannels lists every Redis channel the gateway re-emits.
var bridgedChannels = []string{
	pubsub.ChannelTokenCreated,
	pubsub.ChannelTradeDetected,
	pubsub.ChannelTokenATHUpdated,
	pubsub.ChannelTokenGraduated,
	pubsub.ChannelStatsUpdate,
}

// Bridge subscribes the pipeline's Redis channels and broadcasts each
// message to the hub.
type Bridge struct {
	client *redis.Client
	hub    *Hub
	logger *zap.Logger
}

// NewBridge creates a Bridge.
func NewBridge(client *redis.Client, hub *Hub, logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge{client: client, hub: hub, logger: logger}
}

// Run consumes the subscription until ctx is cancelled.
func (b *Bridge) Run(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, bridgedChannels...)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %v: %w", bridgedChannels, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			frame, err := envelopeFrame(msg.Channel, []byte(msg.Payload))
			if err != nil {
				b.logger.Warn("encode envelope",
					zap.String("channel", msg.Channel), zap.Error(err))
				continue
			}
			b.hub.Broadcast(frame)
		}
	}
}

// envelopeFrame wraps a raw channel payload for websocket delivery. The
// payload must already be valid JSON; it is embedded without re-encoding.
func envelopeFrame(channel string, payload []byte) ([]byte, error) {
	if !json.Valid(payload) {
		return nil, fmt.Errorf("payload on %s is not valid JSON", channel)
	}
	return json.Marshal(Envelope{Event: channel, Data: payload})
}
