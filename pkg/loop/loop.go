// Package loop provides the single goroutine that owns image components.
//
// Components are not safe for concurrent use. Everything that touches them,
// including probe callbacks that finish on worker goroutines, is posted to
// a Loop and runs there in order.
package loop

import (
	"context"
	"errors"
	"sync"
)

// ErrStopped is returned when work is posted to a stopped loop.
var ErrStopped = errors.New("loop: stopped")

// Dispatcher runs functions on the goroutine that owns the components.
type Dispatcher interface {
	Post(fn func()) error
}

// DispatcherFunc adapts a function such as fyne.Do to Dispatcher.
type DispatcherFunc func(fn func())

func (f DispatcherFunc) Post(fn func()) error {
	f(fn)
	return nil
}

// Loop is a FIFO event queue drained by Run.
type Loop struct {
	queue    chan func()
	stopCh   chan struct{}
	stopOnce sync.Once
}

// New creates a loop whose queue holds size pending functions before Post
// blocks. A size below 1 uses 256.
func New(size int) *Loop {
	if size < 1 {
		size = 256
	}
	return &Loop{
		queue:  make(chan func(), size),
		stopCh: make(chan struct{}),
	}
}

// Post enqueues fn to run on the loop. Safe to call from any goroutine.
// Post blocks while the queue is full so that no callback is lost.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.stopCh:
		return ErrStopped
	default:
	}
	select {
	case l.queue <- fn:
		return nil
	case <-l.stopCh:
		return ErrStopped
	}
}

// Call runs fn on the loop and waits for it to finish.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if err := l.Post(func() {
		defer close(done)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-l.stopCh:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run drains the queue until Stop is called or ctx is done. Functions run
// one at a time in the order they were posted.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case fn := <-l.queue:
			fn()
		case <-l.stopCh:
			return nil
		case <-ctx.Done():
			l.Stop()
			return ctx.Err()
		}
	}
}

// Stop ends Run. Functions still queued are dropped. Stop is idempotent.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}
