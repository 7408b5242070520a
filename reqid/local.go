package reqid

import (
	"context"
	"sync"
	"time"
)

type localEntry struct {
	N         uint64
	UpdatedAt time.Time
}

// Local keeps counters in-process (default).
// Optional cleanup loop to prune long-idle scopes.
type Local struct {
	mu     sync.Mutex
	seqs   map[string]localEntry
	ticker *time.Ticker
	stopCh chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

var _ Sequence = (*Local)(nil)

func NewLocal(cleanupInterval, retention time.Duration) *Local {
	s := &Local{seqs: make(map[string]localEntry)}
	if cleanupInterval > 0 && retention > 0 {
		s.ticker = time.NewTicker(cleanupInterval)
		s.stopCh = make(chan struct{})
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for {
				select {
				case <-s.ticker.C:
					s.Cleanup(retention)
				case <-s.stopCh:
					return
				}
			}
		}()
	}
	return s
}

func (s *Local) Current(_ context.Context, scope string) (int32, error) {
	s.mu.Lock()
	e := s.seqs[scope]
	s.mu.Unlock()
	return fold(e.N), nil
}

func (s *Local) Next(_ context.Context, scope string) (int32, error) {
	now := time.Now()
	s.mu.Lock()
	e := s.seqs[scope]
	e.N++
	e.UpdatedAt = now
	s.seqs[scope] = e
	s.mu.Unlock()
	return fold(e.N), nil
}

func (s *Local) Cleanup(retention time.Duration) {
	if retention <= 0 {
		return
	}
	cutoff := time.Now().Add(-retention)

	s.mu.Lock()
	for k, e := range s.seqs {
		if !e.UpdatedAt.IsZero() && e.UpdatedAt.Before(cutoff) {
			delete(s.seqs, k)
		}
	}
	s.mu.Unlock()
}

func (s *Local) Close(_ context.Context) error {
	s.once.Do(func() {
		if s.stopCh != nil {
			close(s.stopCh)
			s.ticker.Stop()
			s.wg.Wait()
		}
	})
	return nil
}

// seed sets the raw counter for scope. Tests use it to exercise wrap-around.
func (s *Local) seed(scope string, n uint64) {
	s.mu.Lock()
	s.seqs[scope] = localEntry{N: n, UpdatedAt: time.Now()}
	s.mu.Unlock()
}
