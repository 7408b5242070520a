package logrus

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/unkn0wn-root/bankproto"
)

func TestLogrusLoggerFields(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	l := New(base)

	l.Debug("successful response", bankproto.Fields{"id": 3})
	l.Warn("invalid response", bankproto.Fields{"status": "9"})

	if len(hook.Entries) != 2 {
		t.Fatalf("got %d entries want 2", len(hook.Entries))
	}
	last := hook.LastEntry()
	if last.Level != logrus.WarnLevel || last.Message != "invalid response" {
		t.Fatalf("unexpected entry: %v %q", last.Level, last.Message)
	}
	if last.Data["status"] != "9" || last.Data["component"] != "bankproto" {
		t.Fatalf("unexpected data: %v", last.Data)
	}
}
