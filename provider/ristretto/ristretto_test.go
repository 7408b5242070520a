package ristretto

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := New(Config{NumCounters: 1000, MaxCost: 1 << 20, BufferItems: 64, Metrics: true, Sync: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = p.Close(context.Background()) })
	return p
}

func TestSyncSetIsVisible(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)

	body := []byte("BKPO\x01\x00\x00\x00\x07")
	ok, err := p.Set(ctx, "outbox:bank:acct:7", body, int64(len(body)), time.Minute)
	if err != nil || !ok {
		t.Fatalf("Set: ok=%v err=%v", ok, err)
	}
	got, hit, err := p.Get(ctx, "outbox:bank:acct:7")
	if err != nil || !hit || !bytes.Equal(got, body) {
		t.Fatalf("Get: hit=%v err=%v got=%q", hit, err, got)
	}

	if err := p.Del(ctx, "outbox:bank:acct:7"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, hit, _ := p.Get(ctx, "outbox:bank:acct:7"); hit {
		t.Fatalf("entry survived Del")
	}
	if err := p.Del(ctx, "missing"); err != nil {
		t.Fatalf("Del of a missing key: %v", err)
	}
	if p.Metrics() == nil {
		t.Fatalf("metrics requested but nil")
	}
}

func TestInvalidConfig(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected error for zero config")
	}
}
