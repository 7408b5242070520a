// Package sloghooks implements bankproto.Hooks on top of log/slog.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/bankproto"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	RequestBuiltEvery uint64
	SelfHealEvery     uint64
	// Optional key redactor for outbox keys, which embed the client scope.
	// Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	builtCtr    atomic.Uint64
	selfHealCtr atomic.Uint64
}

var _ bankproto.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) RequestBuilt(tag bankproto.ServiceTag, id bankproto.RequestID, size int) {
	if h.l == nil || !sample(h.opts.RequestBuiltEvery, &h.builtCtr) {
		return
	}
	h.l.Debug("bankproto.request_built",
		"service", tag.String(),
		"id", int32(id),
		"size", size)
}

func (h *Hooks) MalformedResponse(tag bankproto.ServiceTag, id bankproto.RequestID, status string) {
	if h.l == nil {
		return
	}
	h.l.Warn("bankproto.malformed_response",
		"service", tag.String(),
		"id", int32(id),
		"status", status)
}

func (h *Hooks) DecodeFailed(tag bankproto.ServiceTag, id bankproto.RequestID, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("bankproto.decode_failed",
		"service", tag.String(),
		"id", int32(id),
		"err", err)
}

func (h *Hooks) OutboxSelfHeal(storageKey, reason string) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.selfHealCtr) {
		return
	}
	h.l.Debug("bankproto.outbox_self_heal",
		"key", h.redact(storageKey),
		"reason", reason)
}

func (h *Hooks) OutboxRejected(storageKey string) {
	if h.l == nil {
		return
	}
	h.l.Warn("bankproto.outbox_rejected",
		"key", h.redact(storageKey))
}

func (h *Hooks) SequenceError(scope string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("bankproto.sequence_error",
		"scope", h.redact(scope),
		"err", err)
}
