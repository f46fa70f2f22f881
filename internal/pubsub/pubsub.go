package pubsub

import "context"

// Channel names shared by the worker and the websocket gateway.
const (
	ChannelTokenCreated    = "token:created"
	ChannelTradeDetected   = "trade:detected"
	ChannelTokenATHUpdated = "token:athUpdated"
	ChannelTokenGraduated  = "token:graduated"
	ChannelStatsUpdate     = "stats:update"
)

// Publisher fan-outs pipeline events to downstream subscribers. The payload
// is marshalled to JSON before delivery.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}
