package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// hold occupies one slot of b until the returned func is called.
func hold(t *testing.T, b *Bulkhead) func() {
	t.Helper()
	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = b.Execute(context.Background(), func() error {
			close(started)
			<-done
			return nil
		})
	}()
	<-started
	return func() { close(done) }
}

func TestBulkhead_AllowsCallsWithinLimit(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "runs", MaxConcurrent: 3})

	var calls, peak, active int32
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := b.Execute(context.Background(), func() error {
				n := atomic.AddInt32(&active, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				atomic.AddInt32(&calls, 1)
				time.Sleep(10 * time.Millisecond)
				atomic.AddInt32(&active, -1)
				return nil
			})
			if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		}()
	}
	wg.Wait()

	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	if peak > 3 {
		t.Errorf("peak concurrency %d exceeds limit", peak)
	}
	if b.InUse() != 0 {
		t.Errorf("expected all slots released, %d in use", b.InUse())
	}
}

func TestBulkhead_RejectsWhenFull(t *testing.T) {
	var rejected []error
	b := NewBulkhead(BulkheadConfig{
		Name:          "runs",
		MaxConcurrent: 1,
		OnReject:      func(_ string, err error) { rejected = append(rejected, err) },
	})
	release := hold(t, b)
	defer release()

	called := false
	err := b.Execute(context.Background(), func() error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrBulkheadFull) {
		t.Fatalf("expected ErrBulkheadFull, got %v", err)
	}
	if called {
		t.Error("fn must not run when the bulkhead is full")
	}
	if len(rejected) != 1 {
		t.Errorf("expected one rejection callback, got %d", len(rejected))
	}
}

func TestBulkhead_WaitTimesOut(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1, MaxWait: 20 * time.Millisecond})
	release := hold(t, b)
	defer release()

	start := time.Now()
	err := b.Execute(context.Background(), func() error { return nil })
	if !errors.Is(err, ErrBulkheadTimeout) {
		t.Fatalf("expected ErrBulkheadTimeout, got %v", err)
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Error("expected to wait MaxWait before giving up")
	}
}

func TestBulkhead_WaitGetsSlot(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1, MaxWait: time.Second})
	release := hold(t, b)
	time.AfterFunc(10*time.Millisecond, release)

	if err := b.Execute(context.Background(), func() error { return nil }); err != nil {
		t.Fatalf("expected the queued call to run, got %v", err)
	}
}

func TestBulkhead_ContextCanceledWhileWaiting(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1, MaxWait: time.Second})
	release := hold(t, b)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := b.Execute(ctx, func() error { return nil }); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestBulkhead_PropagatesError(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 2})
	boom := errors.New("boom")
	if err := b.Execute(context.Background(), func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	if b.InUse() != 0 {
		t.Error("slot must be released after an error")
	}
}

func TestBulkhead_Unbounded(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{})
	if b.MaxConcurrent() != 0 {
		t.Fatalf("expected unbounded bulkhead, got %d", b.MaxConcurrent())
	}
	for i := 0; i < 100; i++ {
		release, err := b.Acquire(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer release()
	}
}
