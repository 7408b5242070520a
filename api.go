package bankproto

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/unkn0wn-root/bankproto/reqid"
)

const defaultScope = "default"

// Options tune a Handler. The zero value is usable: ids come from an
// in-process sequence and retransmission is disabled.
type Options struct {
	Scope     string         // request-id and outbox scope; "" => "default"
	Logger    Logger         // nil => NopLogger
	Hooks     Hooks          // nil => NopHooks
	Sequence  reqid.Sequence // nil => reqid.NewLocal(0, 0), owned by the Handler
	Outbox    *Outbox        // nil => Resend always misses
	OutboxTTL time.Duration  // 0 => the outbox default
}

// Handler is the client side of the protocol for one scope: it allocates
// request ids, builds request bodies, remembers them for retransmission and
// interprets the responses. It never touches the network.
type Handler struct {
	scope     string
	log       Logger
	hooks     Hooks
	seq       reqid.Sequence
	ownSeq    bool
	outbox    *Outbox
	outboxTTL time.Duration
}

func New(opts Options) (*Handler, error) {
	if opts.OutboxTTL < 0 {
		return nil, fmt.Errorf("bankproto: negative outbox ttl %s", opts.OutboxTTL)
	}
	h := &Handler{
		scope:     coalesce[string](opts.Scope, defaultScope),
		log:       coalesce[Logger](opts.Logger, NopLogger{}),
		hooks:     coalesce[Hooks](opts.Hooks, NopHooks{}),
		seq:       opts.Sequence,
		outbox:    opts.Outbox,
		outboxTTL: opts.OutboxTTL,
	}
	if h.seq == nil {
		h.seq = reqid.NewLocal(0, 0)
		h.ownSeq = true
	}
	return h, nil
}

// Close releases the sequence (when the Handler created it) and the outbox.
func (h *Handler) Close(ctx context.Context) error {
	var errs []error
	if h.ownSeq {
		errs = append(errs, h.seq.Close(ctx))
	}
	if h.outbox != nil {
		errs = append(errs, h.outbox.Close(ctx))
	}
	return errors.Join(errs...)
}

func (h *Handler) NextID(ctx context.Context) (RequestID, error) {
	id, err := h.seq.Next(ctx, h.scope)
	if err != nil {
		h.hooks.SequenceError(h.scope, err)
		h.log.Error("request id allocation failed", Fields{"scope": h.scope, "err": err})
		return 0, fmt.Errorf("allocate request id: %w", err)
	}
	return RequestID(id), nil
}

// LastID returns the last id allocated in the Handler's scope, 0 if none.
func (h *Handler) LastID(ctx context.Context) (RequestID, error) {
	id, err := h.seq.Current(ctx, h.scope)
	if err != nil {
		return 0, fmt.Errorf("read request id: %w", err)
	}
	return RequestID(id), nil
}

// PruneIdle drops sequence scopes idle for longer than retention; a pruned
// scope starts again at 1. Call it only when the pruned scopes have no
// requests in flight. A no-op for shared sequences such as reqid.Redis.
func (h *Handler) PruneIdle(retention time.Duration) {
	h.seq.Cleanup(retention)
}

// Build allocates an id and encodes a request for tag. The body is recorded
// in the outbox when one is configured; outbox failures are logged and do
// not fail the build.
func (h *Handler) Build(ctx context.Context, tag ServiceTag, fields ...Field) (Message, error) {
	id, err := h.NextID(ctx)
	if err != nil {
		return Message{}, err
	}
	m, err := BuildRequest(id, tag, fields...)
	if err != nil {
		h.log.Warn("request encode failed", Fields{"service": tag.String(), "id": id, "err": err})
		return Message{}, err
	}
	h.hooks.RequestBuilt(tag, id, m.Len())
	h.log.Debug("request built", Fields{"service": tag.String(), "id": id, "size": m.Len()})

	if h.outbox != nil {
		if err := h.outbox.Put(ctx, h.scope, pendingOf(m, time.Now()), h.outboxTTL); err != nil {
			h.log.Error("outbox put failed", Fields{"service": tag.String(), "id": id, "err": err})
		}
	}
	return m, nil
}

func (h *Handler) OpenAccount(ctx context.Context, r OpenAccount) (Message, error) {
	return h.Build(ctx, ServiceOpenAccount, r.Fields()...)
}

// Resend returns the body first built under id, byte for byte.
func (h *Handler) Resend(ctx context.Context, id RequestID) (Message, bool, error) {
	if h.outbox == nil {
		return Message{}, false, nil
	}
	p, ok, err := h.outbox.Get(ctx, h.scope, id)
	if err != nil || !ok {
		return Message{}, false, err
	}
	m, err := p.Message()
	if err != nil {
		return Message{}, false, err
	}
	f := Fields{"service": p.Tag.String(), "id": id}
	if !p.CreatedAt.IsZero() {
		f["age"] = time.Since(p.CreatedAt)
	}
	h.log.Debug("request resent from outbox", f)
	return m, true, nil
}

func (h *Handler) HandleOpenAccount(ctx context.Context, id RequestID, resp []byte) (Outcome, error) {
	return HandleResponse[AccountNumber](ctx, h, ServiceOpenAccount, id, resp, accountNumber)
}

// HandleResponse interprets resp for the request (tag, id). Success, Failure
// and Malformed are terminal and clear the outbox entry; a decode error
// leaves it in place so the request can be resent.
func HandleResponse[T any](ctx context.Context, h *Handler, tag ServiceTag, id RequestID, resp []byte, decode PayloadDecoder[T]) (Outcome, error) {
	f := Fields{"service": tag.String(), "id": id}

	out, err := Interpret[T](resp, decode)
	if err != nil {
		h.hooks.DecodeFailed(tag, id, err)
		h.log.Warn("response decode failed", Fields{"service": tag.String(), "id": id, "size": len(resp), "err": err})
		return nil, err
	}

	switch o := out.(type) {
	case Success[T]:
		h.log.Debug("successful response", f)
	case Failure:
		h.log.Debug("unsuccessful response", Fields{"service": tag.String(), "id": id, "reason": o.Message})
	case Malformed:
		h.hooks.MalformedResponse(tag, id, o.Status)
		h.log.Warn("invalid response", Fields{"service": tag.String(), "id": id, "status": o.Status})
	}

	if h.outbox != nil {
		if err := h.outbox.Delete(ctx, h.scope, id); err != nil {
			h.log.Error("outbox delete failed", Fields{"service": tag.String(), "id": id, "err": err})
		}
	}
	return out, nil
}
