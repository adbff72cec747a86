package loop

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestLoop_RunsInOrder(t *testing.T) {
	l := New(4)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	var got []int
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			i := i
			if err := l.Post(func() { got = append(got, i) }); err != nil {
				t.Errorf("post %d: %v", i, err)
			}
		}
	}()
	wg.Wait()

	if err := l.Call(ctx, func() {}); err != nil {
		t.Fatalf("call: %v", err)
	}
	l.Stop()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(got) != 20 {
		t.Fatalf("expected 20 functions to run, got %d", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("expected FIFO order, got %v", got)
		}
	}
}

func TestLoop_PostAfterStop(t *testing.T) {
	l := New(1)
	l.Stop()
	l.Stop()
	if err := l.Post(func() {}); !errors.Is(err, ErrStopped) {
		t.Errorf("expected ErrStopped, got %v", err)
	}
	if err := l.Call(context.Background(), func() {}); !errors.Is(err, ErrStopped) {
		t.Errorf("expected ErrStopped from Call, got %v", err)
	}
}

func TestLoop_ContextCancelStops(t *testing.T) {
	l := New(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if err := l.Post(func() {}); !errors.Is(err, ErrStopped) {
		t.Errorf("expected cancelled run to stop the loop, got %v", err)
	}
}

func TestDispatcherFunc(t *testing.T) {
	ran := false
	var d Dispatcher = DispatcherFunc(func(fn func()) { fn() })
	if err := d.Post(func() { ran = true }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran {
		t.Error("expected function to run")
	}
}
