package queue

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"

	"pumpstream/internal/consumer"
	"pumpstream/internal/domain"
)

// Processor runs one job to its terminal result.
type Processor interface {
	Process(ctx context.Context, job *domain.RawJob) consumer.Result
}

// Pool pulls jobs from a source and processes them on a bounded set of
// goroutines, capped by a shared rate ceiling. The rate limiter is taken
// before a slot is claimed, so a slow job does not starve the intake of its
// time budget.
type Pool struct {
	source      JobSource
	processor   Processor
	limiter     ratelimit.Limiter
	concurrency int
	logger      *zap.Logger
}

// PoolOptions configures a Pool.
type PoolOptions struct {
	Source    JobSource
	Processor Processor

	// Concurrency is the number of simultaneous jobs. Defaults to 10.
	Concurrency int

	// RatePerSecond caps job starts per second. Zero disables the cap.
	RatePerSecond int

	Logger *zap.Logger
}

// NewPool creates a Pool.
func NewPool(opts PoolOptions) *Pool {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 10
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	var limiter ratelimit.Limiter
	if opts.RatePerSecond > 0 {
		limiter = ratelimit.New(opts.RatePerSecond)
	} else {
		limiter = ratelimit.NewUnlimited()
	}

	return &Pool{
		source:      opts.Source,
		processor:   opts.Processor,
		limiter:     limiter,
		concurrency: opts.Concurrency,
		logger:      opts.Logger,
	}
}

// Run pulls and processes jobs until ctx is cancelled, then drains jobs
// already in flight before returning.
func (p *Pool) Run(ctx context.Context) {
	slots := make(chan struct{}, p.concurrency)
	var wg sync.WaitGroup

	for {
		job, err := p.source.Next(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				break
			}
			p.logger.Warn("pull job", zap.Error(err))
			continue
		}

		p.limiter.Take()

		select {
		case slots <- struct{}{}:
		case <-ctx.Done():
			// Shutdown raced the slot claim; the job is dropped here and
			// redelivered by the queue's own retry, if any.
			p.logger.Warn("dropping job on shutdown", zap.String("signature", job.Signature))
			wg.Wait()
			return
		}

		wg.Add(1)
		go func(job *domain.RawJob) {
			defer func() {
				<-slots
				wg.Done()
			}()

			res := p.processor.Process(context.WithoutCancel(ctx), job)
			p.logger.Info("job finished",
				zap.String("signature", job.Signature),
				zap.String("result", res.String()))
		}(job)
	}

	wg.Wait()
}
