package core

import (
	"sync"
	"testing"

	"github.com/automoto/cyberwarfare/shared/netconfig"
)

func TestRequestQueueOrderAndCapacity(t *testing.T) {
	q := NewRequestQueue(2)
	if !q.Push(Request{Sequence: 1}) || !q.Push(Request{Sequence: 2}) {
		t.Fatal("push within capacity failed")
	}
	if q.Push(Request{Sequence: 3}) {
		t.Fatal("push beyond capacity succeeded")
	}

	out := q.Drain()
	if len(out) != 2 || out[0].Sequence != 1 || out[1].Sequence != 2 {
		t.Fatalf("unexpected drain %+v", out)
	}
	if q.Len() != 0 || q.Drain() != nil {
		t.Fatal("queue not empty after drain")
	}

	// Wrap around the ring
	q.Push(Request{Sequence: 4})
	q.Push(Request{Sequence: 5})
	out = q.Drain()
	if out[0].Sequence != 4 || out[1].Sequence != 5 {
		t.Fatalf("unexpected order after wrap %+v", out)
	}
}

func TestRequestQueueConcurrentPush(t *testing.T) {
	q := NewRequestQueue(1000)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.Push(Request{Kind: netconfig.RequestAim})
			}
		}()
	}
	wg.Wait()
	if got := len(q.Drain()); got != 1000 {
		t.Fatalf("expected 1000 requests, got %d", got)
	}
}

func TestEnqueueReportsFullQueue(t *testing.T) {
	a := newTestAuthority(t)
	a.queue = NewRequestQueue(1)

	if err := a.Enqueue(Request{Kind: netconfig.RequestStopFire}); err != nil {
		t.Fatalf("first enqueue failed: %v", err)
	}
	if err := a.Enqueue(Request{Kind: netconfig.RequestStopFire}); err == nil {
		t.Fatal("expected ErrQueueFull")
	}
}
