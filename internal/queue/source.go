// Package queue feeds raw jobs from the shared transport into a bounded,
// rate-limited worker pool.
package queue

import (
	"context"

	"pumpstream/internal/domain"
)

// QueueKey is the Redis list the log listener pushes raw jobs onto.
const QueueKey = "pump-fun:events"

// JobSource hands out raw jobs one at a time.
type JobSource interface {
	// Next blocks until a job is available or ctx is cancelled.
	Next(ctx context.Context) (*domain.RawJob, error)
}

// ChannelSource is a JobSource backed by a Go channel, used in tests and
// single-process setups.
type ChannelSource struct {
	jobs chan *domain.RawJob
}

// NewChannelSource creates a ChannelSource with the given buffer size.
func NewChannelSource(buffer int) *ChannelSource {
	return &ChannelSource{jobs: make(chan *domain.RawJob, buffer)}
}

// Compile-time interface check.
var _ JobSource = (*ChannelSource)(nil)

// Push enqueues a job.
func (s *ChannelSource) Push(job *domain.RawJob) {
	s.jobs <- job
}

// Close marks the source exhausted; subsequent Next calls report
// context.Canceled once the buffer drains.
func (s *ChannelSource) Close() {
	close(s.jobs)
}

// Next blocks until a job is pushed, the source is closed, or ctx ends.
func (s *ChannelSource) Next(ctx context.Context) (*domain.RawJob, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case job, ok := <-s.jobs:
		if !ok {
			return nil, context.Canceled
		}
		return job, nil
	}
}
