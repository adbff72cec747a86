package images

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"htmlimage/pkg/loop"
)

// ProberOptions configures an AsyncProber.
type ProberOptions struct {
	// Timeout bounds each probe. Zero means no limit.
	Timeout time.Duration
	// MaxConcurrent bounds the number of probes reading at once. Zero
	// means 8.
	MaxConcurrent int64
	// Logger receives callbacks dropped because the loop stopped. Nil
	// means log.Default().
	Logger *log.Logger
}

type naturalSize struct {
	width, height int
}

// AsyncProber reads intrinsic image sizes on worker goroutines and posts
// the results back through a dispatcher. Concurrent probes of the same URI
// share one read.
type AsyncProber struct {
	fetch    ImageFetcher
	dispatch loop.Dispatcher
	timeout  time.Duration
	sem      *semaphore.Weighted
	group    singleflight.Group
	logger   *log.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewAsyncProber creates a prober. Close releases probes still in flight.
func NewAsyncProber(fetch ImageFetcher, dispatch loop.Dispatcher, opts ProberOptions) *AsyncProber {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 8
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &AsyncProber{
		fetch:    fetch,
		dispatch: dispatch,
		timeout:  opts.Timeout,
		sem:      semaphore.NewWeighted(opts.MaxConcurrent),
		logger:   opts.Logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// ProbeSize starts a probe and returns immediately. Exactly one callback
// is posted to the dispatcher unless it has stopped.
func (p *AsyncProber) ProbeSize(uri string, onSuccess func(width, height int), onFailure func(err error)) {
	go func() {
		size, err := p.probe(uri)
		deliver := func() {
			if err != nil {
				onFailure(err)
				return
			}
			onSuccess(size.width, size.height)
		}
		if perr := p.dispatch.Post(deliver); perr != nil {
			p.logger.Printf("images: dropping probe result for %s: %v", uri, perr)
		}
	}()
}

// Close cancels probes in flight. Their failures are still delivered.
func (p *AsyncProber) Close() {
	p.cancel()
}

func (p *AsyncProber) probe(uri string) (naturalSize, error) {
	v, err, _ := p.group.Do(uri, func() (interface{}, error) {
		if err := p.sem.Acquire(p.ctx, 1); err != nil {
			return naturalSize{}, fmt.Errorf("waiting to probe %s: %w", uri, err)
		}
		defer p.sem.Release(1)

		ctx := p.ctx
		if p.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, p.timeout)
			defer cancel()
		}
		w, h, err := GetImageDimensionsWithFetcher(ctx, uri, p.fetch)
		return naturalSize{width: w, height: h}, err
	})
	if err != nil {
		return naturalSize{}, err
	}
	return v.(naturalSize), nil
}
