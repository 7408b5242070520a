// Package logrus adapts a *logrus.Entry to bankproto.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/bankproto"
)

var _ bankproto.Logger = LogrusLogger{}

type LogrusLogger struct{ E *logrus.Entry }

// New tags every line with component=bankproto.
func New(l *logrus.Logger) LogrusLogger {
	return LogrusLogger{E: l.WithField("component", "bankproto")}
}

func (l LogrusLogger) Debug(msg string, f bankproto.Fields) { l.with(f).Debug(msg) }
func (l LogrusLogger) Info(msg string, f bankproto.Fields)  { l.with(f).Info(msg) }
func (l LogrusLogger) Warn(msg string, f bankproto.Fields)  { l.with(f).Warn(msg) }
func (l LogrusLogger) Error(msg string, f bankproto.Fields) { l.with(f).Error(msg) }

func (l LogrusLogger) with(f bankproto.Fields) *logrus.Entry {
	if len(f) == 0 {
		return l.E
	}
	return l.E.WithFields(logrus.Fields(f))
}
