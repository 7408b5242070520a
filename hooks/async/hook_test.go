package asynchook

import (
	"sync"
	"testing"

	"github.com/unkn0wn-root/bankproto"
)

type recorder struct {
	bankproto.NopHooks
	mu        sync.Mutex
	malformed []string
	block     chan struct{}
}

func (r *recorder) MalformedResponse(_ bankproto.ServiceTag, _ bankproto.RequestID, status string) {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	r.malformed = append(r.malformed, status)
	r.mu.Unlock()
}

func TestAsyncDeliversBeforeClose(t *testing.T) {
	rec := &recorder{}
	h := New(rec, 2, 16)
	for i := 0; i < 5; i++ {
		h.MalformedResponse(bankproto.ServiceOpenAccount, bankproto.RequestID(i), "9")
	}
	h.Close()

	if len(rec.malformed) != 5 {
		t.Fatalf("delivered %d events want 5", len(rec.malformed))
	}
	if h.Dropped() != 0 {
		t.Fatalf("unexpected drops: %d", h.Dropped())
	}
}

func TestAsyncDropsWhenFullAndAfterClose(t *testing.T) {
	rec := &recorder{block: make(chan struct{})}
	h := New(rec, 1, 1)

	// one event parks the worker, one fills the queue, the rest drop
	for i := 0; i < 10; i++ {
		h.MalformedResponse(bankproto.ServiceOpenAccount, 1, "x")
	}
	close(rec.block)
	h.Close()

	if h.Dropped() == 0 {
		t.Fatalf("expected dropped events with a full queue")
	}
	before := h.Dropped()
	h.MalformedResponse(bankproto.ServiceOpenAccount, 2, "y")
	if h.Dropped() != before+1 {
		t.Fatalf("event after Close was not dropped")
	}
	h.Close() // idempotent
}
