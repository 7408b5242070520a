// Package reqid allocates request ids. The protocol requires an id to be
// unique among a client's in-flight requests; the codec itself never checks
// this, so callers draw ids from a Sequence.
//
// Ids are positive int32 values. After math.MaxInt32 a sequence wraps to 1.
package reqid

import (
	"context"
	"math"
	"time"
)

// Sequence is a set of independent counters keyed by scope (typically the
// client's address or name).
type Sequence interface {
	// Current returns the last id handed out for scope; 0 if none.
	Current(ctx context.Context, scope string) (int32, error)
	// Next atomically advances scope and returns the new id.
	Next(ctx context.Context, scope string) (int32, error)
	// Cleanup prunes scopes idle for longer than retention (no-op for Redis).
	Cleanup(retention time.Duration)
	// Close releases resources (no-op ok).
	Close(context.Context) error
}

// fold maps a monotonically increasing counter onto 1..MaxInt32.
func fold(n uint64) int32 {
	if n == 0 {
		return 0
	}
	return int32((n-1)%math.MaxInt32 + 1)
}
