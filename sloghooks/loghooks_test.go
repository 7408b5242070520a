package sloghooks

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/unkn0wn-root/bankproto"
)

func newBuf() (*bytes.Buffer, *slog.Logger) {
	var buf bytes.Buffer
	return &buf, slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestMalformedAndDecodeFailedAreLogged(t *testing.T) {
	buf, l := newBuf()
	h := New(l, Options{})

	h.MalformedResponse(bankproto.ServiceOpenAccount, 7, "9")
	h.DecodeFailed(bankproto.ServiceOpenAccount, 8, errors.New("short"))

	out := buf.String()
	for _, want := range []string{"bankproto.malformed_response", "status=9", "id=7", "service=open_account", "bankproto.decode_failed", "err=short"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %s", want, out)
		}
	}
}

func TestOutboxKeysAreRedacted(t *testing.T) {
	buf, l := newBuf()
	h := New(l, Options{})
	h.OutboxRejected("outbox:bank:alice:1")
	if strings.Contains(buf.String(), "alice") {
		t.Fatalf("scope leaked: %s", buf.String())
	}

	buf, l = newBuf()
	h = New(l, Options{Redact: func(string) string { return "REDACTED" }})
	h.OutboxSelfHeal("outbox:bank:alice:1", "corrupt")
	if !strings.Contains(buf.String(), "key=REDACTED") {
		t.Fatalf("custom redactor not used: %s", buf.String())
	}
}

func TestRequestBuiltSampling(t *testing.T) {
	buf, l := newBuf()
	h := New(l, Options{RequestBuiltEvery: 3})
	for i := 0; i < 9; i++ {
		h.RequestBuilt(bankproto.ServiceOpenAccount, bankproto.RequestID(i), 40)
	}
	if got := strings.Count(buf.String(), "bankproto.request_built"); got != 3 {
		t.Fatalf("sampled %d lines want 3", got)
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	h := New(nil, Options{})
	h.MalformedResponse(bankproto.ServiceOpenAccount, 1, "9")
	h.SequenceError("s", errors.New("x"))
	h.OutboxRejected("k")
}
