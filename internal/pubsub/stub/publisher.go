// Package stub provides a capturing Publisher for tests.
package stub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"pumpstream/internal/pubsub"
)

// Publisher records every published message in memory.
type Publisher struct {
	mu       sync.Mutex
	messages map[string][]json.RawMessage

	// Err, when set, is returned by every Publish call.
	Err error
}

// NewPublisher creates an empty capturing publisher.
func NewPublisher() *Publisher {
	return &Publisher{messages: make(map[string][]json.RawMessage)}
}

// Compile-time interface check.
var _ pubsub.Publisher = (*Publisher)(nil)

// Publish marshals payload and stores it under channel.
func (p *Publisher) Publish(_ context.Context, channel string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Err != nil {
		return p.Err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload for %s: %w", channel, err)
	}
	p.messages[channel] = append(p.messages[channel], data)
	return nil
}

// Messages returns all payloads published on channel, in order.
func (p *Publisher) Messages(channel string) []json.RawMessage {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]json.RawMessage, len(p.messages[channel]))
	copy(out, p.messages[channel])
	return out
}

// Count returns the number of payloads published on channel.
func (p *Publisher) Count(channel string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.messages[channel])
}
