// Package asynchook moves Hooks calls off the request path.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    SelfHealEvery: 10, // sample logs: ~every 10th self-heal
//	})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	h, _ := bankproto.New(bankproto.Options{Hooks: hooks})
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/bankproto"
)

// Hooks forwards events to inner on a bounded queue. Events that arrive
// while the queue is full are dropped and counted.
type Hooks struct {
	inner   bankproto.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Uint64
}

var _ bankproto.Hooks = (*Hooks)(nil)

func New(inner bankproto.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Events after Close are
// dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

// Dropped reports how many events were discarded.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) RequestBuilt(tag bankproto.ServiceTag, id bankproto.RequestID, size int) {
	h.try(func() { h.inner.RequestBuilt(tag, id, size) })
}
func (h *Hooks) MalformedResponse(tag bankproto.ServiceTag, id bankproto.RequestID, status string) {
	h.try(func() { h.inner.MalformedResponse(tag, id, status) })
}
func (h *Hooks) DecodeFailed(tag bankproto.ServiceTag, id bankproto.RequestID, err error) {
	h.try(func() { h.inner.DecodeFailed(tag, id, err) })
}
func (h *Hooks) OutboxSelfHeal(k, r string) { h.try(func() { h.inner.OutboxSelfHeal(k, r) }) }
func (h *Hooks) OutboxRejected(k string)    { h.try(func() { h.inner.OutboxRejected(k) }) }
func (h *Hooks) SequenceError(scope string, err error) {
	h.try(func() { h.inner.SequenceError(scope, err) })
}
