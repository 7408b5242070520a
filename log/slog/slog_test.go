//go:build go1.21

package slog

import (
	"bytes"
	stdslog "log/slog"
	"strings"
	"testing"

	"github.com/unkn0wn-root/bankproto"
)

func TestSlogLoggerWritesSortedAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := stdslog.NewTextHandler(&buf, &stdslog.HandlerOptions{Level: stdslog.LevelDebug})
	l := Logger{L: stdslog.New(h)}

	l.Debug("request built", bankproto.Fields{"size": 33, "id": 7})

	out := buf.String()
	if !strings.Contains(out, "level=DEBUG") || !strings.Contains(out, `msg="request built"`) {
		t.Fatalf("unexpected output: %s", out)
	}
	if strings.Index(out, "id=7") > strings.Index(out, "size=33") {
		t.Fatalf("attrs not sorted: %s", out)
	}
}
