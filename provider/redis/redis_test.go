package redis

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

func TestNewRequiresClient(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, ErrNilClient) {
		t.Fatalf("expected ErrNilClient, got %v", err)
	}
}

// Set BANKPROTO_REDIS_ADDR (e.g. localhost:6379) to run against a live server.
func TestProviderRoundTrip(t *testing.T) {
	addr := os.Getenv("BANKPROTO_REDIS_ADDR")
	if addr == "" {
		t.Skip("BANKPROTO_REDIS_ADDR not set")
	}
	ctx := context.Background()
	p, err := New(Config{Client: goredis.NewClient(&goredis.Options{Addr: addr}), CloseClient: true})
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close(ctx)

	k := "outbox:bank:test:acct:" + time.Now().Format("150405.000000000")
	if _, hit, err := p.Get(ctx, k); err != nil || hit {
		t.Fatalf("expected miss, hit=%v err=%v", hit, err)
	}
	body := []byte("BKPO\x01\x00\x00\x00\x07")
	if ok, err := p.Set(ctx, k, body, 0, time.Minute); err != nil || !ok {
		t.Fatalf("Set: ok=%v err=%v", ok, err)
	}
	got, hit, err := p.Get(ctx, k)
	if err != nil || !hit || !bytes.Equal(got, body) {
		t.Fatalf("Get: hit=%v err=%v got=%q", hit, err, got)
	}
	if err := p.Del(ctx, k); err != nil {
		t.Fatal(err)
	}
	if err := p.Del(ctx, k); err != nil {
		t.Fatalf("Del of a missing key: %v", err)
	}
}
