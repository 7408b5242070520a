package util

import (
	"strings"
	"testing"
)

func TestEntryKeyPlainScope(t *testing.T) {
	if got := EntryKey("outbox:bank", "alice", 7); got != "outbox:bank:alice:7" {
		t.Fatalf("got %q", got)
	}
}

func TestEntryKeyHashesAmbiguousScopes(t *testing.T) {
	a := EntryKey("outbox:bank", "10.0.0.1:9000", 1)
	b := EntryKey("outbox:bank", "10.0.0.1:9001", 1)
	if a == b {
		t.Fatalf("distinct scopes collided: %q", a)
	}
	if strings.Count(a, ":") != 3 {
		t.Fatalf("separator leaked into key: %q", a)
	}
	long := EntryKey("p", strings.Repeat("s", 100), -2)
	if len(long) > 40 || !strings.HasSuffix(long, ":-2") {
		t.Fatalf("unexpected long-scope key: %q", long)
	}
	if long != EntryKey("p", strings.Repeat("s", 100), -2) {
		t.Fatalf("hashing is not deterministic")
	}
}
