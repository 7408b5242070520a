package bankproto

import (
	"context"
	"errors"
	"fmt"
	"time"

	c "github.com/unkn0wn-root/bankproto/codec"
	"github.com/unkn0wn-root/bankproto/internal/util"
	"github.com/unkn0wn-root/bankproto/internal/wire"
	pr "github.com/unkn0wn-root/bankproto/provider"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const defaultOutboxTTL = 2 * time.Minute

// Pending is a request that was built and handed to the transport but has
// not reached a terminal outcome. Body is the exact message body, so a
// retransmission is byte-identical to the first send.
type Pending struct {
	ID        RequestID  `json:"id" msgpack:"id" cbor:"1,keyasint"`
	Tag       ServiceTag `json:"tag" msgpack:"tag" cbor:"2,keyasint"`
	Body      []byte     `json:"body" msgpack:"body" cbor:"3,keyasint"`
	CreatedAt time.Time  `json:"created_at" msgpack:"created_at" cbor:"4,keyasint"`
}

func pendingOf(m Message, now time.Time) Pending {
	return Pending{ID: m.ID(), Tag: m.Tag(), Body: m.Bytes(), CreatedAt: now}
}

// Message returns Body as a Message after checking that its header matches
// ID and Tag.
func (p Pending) Message() (Message, error) {
	m := Message{b: append([]byte(nil), p.Body...)}
	if m.Len() < HeaderSize {
		return Message{}, &DecodingError{Offset: 0, Need: HeaderSize, Have: m.Len(), Err: ErrTruncated}
	}
	if m.ID() != p.ID || m.Tag() != p.Tag {
		return Message{}, fmt.Errorf("pending %d: body header %d/%s does not match %s", p.ID, m.ID(), m.Tag(), p.Tag)
	}
	return m, nil
}

// pendingFromBody rebuilds a Pending from a stored request body. The header
// supplies ID and Tag; CreatedAt is left zero.
func pendingFromBody(b []byte) (Pending, error) {
	if len(b) < HeaderSize {
		return Pending{}, &DecodingError{Offset: 0, Need: HeaderSize, Have: len(b), Err: ErrTruncated}
	}
	m := Message{b: append([]byte(nil), b...)}
	return Pending{ID: m.ID(), Tag: m.Tag(), Body: m.b}, nil
}

func pendingBody(p Pending) ([]byte, error) { return p.Body, nil }

// BodyCodec stores only the request body, the smallest outbox entry.
// CreatedAt is not kept.
func BodyCodec() c.Codec[Pending] {
	return c.Map[Pending, []byte]{Inner: c.Bytes{}, To: pendingBody, From: pendingFromBody}
}

// ProtoCodec stores the request body as a protobuf BytesValue, for outboxes
// shared with services that read entries through protobuf. CreatedAt is not
// kept.
func ProtoCodec() c.Codec[Pending] {
	return c.Map[Pending, *wrapperspb.BytesValue]{
		Inner: c.NewProtobuf(func() *wrapperspb.BytesValue { return &wrapperspb.BytesValue{} }),
		To: func(p Pending) (*wrapperspb.BytesValue, error) {
			return wrapperspb.Bytes(p.Body), nil
		},
		From: func(v *wrapperspb.BytesValue) (Pending, error) {
			return pendingFromBody(v.GetValue())
		},
	}
}

type SetCostFunc func(key string, raw []byte) int64

// OutboxOptions configure an Outbox. Namespace and Provider are required.
type OutboxOptions struct {
	Namespace   string // e.g. "bank:client"; isolates keys in a shared store
	Provider    pr.Provider
	Codec       c.Codec[Pending] // nil => codec.JSON; see also BodyCodec, ProtoCodec
	DefaultTTL  time.Duration    // 0 => 2m
	Logger      Logger           // nil => NopLogger
	Hooks       Hooks            // nil => NopHooks
	ComputeCost SetCostFunc      // nil => len(raw)
}

// Outbox keeps pending requests keyed by (scope, request id).
//
// Stored bytes are a wire envelope around the codec output:
//
//	magic "BKPO" | ver | id | tag | len | codec payload
//
// Entries that fail envelope validation, carry another id, or do not decode
// are deleted on read and reported as a miss.
type Outbox struct {
	prefix      string
	provider    pr.Provider
	codec       c.Codec[Pending]
	ttl         time.Duration
	log         Logger
	hooks       Hooks
	computeCost SetCostFunc
}

func NewOutbox(opts OutboxOptions) (*Outbox, error) {
	if opts.Provider == nil {
		return nil, errors.New("bankproto: outbox provider is required")
	}
	if opts.Namespace == "" {
		return nil, errors.New("bankproto: outbox namespace is required")
	}
	o := &Outbox{
		prefix:   "outbox:" + opts.Namespace,
		provider: opts.Provider,
		codec:    opts.Codec,
	}
	if o.codec == nil {
		o.codec = c.JSON[Pending]{}
	}
	o.ttl = coalesce[time.Duration](opts.DefaultTTL, defaultOutboxTTL)
	o.log = coalesce[Logger](opts.Logger, NopLogger{})
	o.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	if opts.ComputeCost != nil {
		o.computeCost = opts.ComputeCost
	} else {
		o.computeCost = func(_ string, raw []byte) int64 { return int64(len(raw)) }
	}
	return o, nil
}

func (o *Outbox) key(scope string, id RequestID) string {
	return util.EntryKey(o.prefix, scope, int32(id))
}

// Put stores p under (scope, p.ID). ttl == 0 uses the default TTL.
// A write rejected by the provider under pressure is not an error.
func (o *Outbox) Put(ctx context.Context, scope string, p Pending, ttl time.Duration) error {
	if ttl == 0 {
		ttl = o.ttl
	}
	k := o.key(scope, p.ID)
	payload, err := o.codec.Encode(p)
	if err != nil {
		return &OutboxError{Key: k, Op: "put", Err: err}
	}
	raw, err := wire.EncodeEntry(int32(p.ID), int32(p.Tag), payload)
	if err != nil {
		return &OutboxError{Key: k, Op: "put", Err: err}
	}
	ok, err := o.provider.Set(ctx, k, raw, o.computeCost(k, raw), ttl)
	if err != nil {
		return &OutboxError{Key: k, Op: "put", Err: err}
	}
	if !ok {
		o.hooks.OutboxRejected(k)
		o.log.Debug("outbox put rejected by provider (pressure)", Fields{"key": k})
	}
	return nil
}

// Get returns the pending request for (scope, id).
func (o *Outbox) Get(ctx context.Context, scope string, id RequestID) (Pending, bool, error) {
	k := o.key(scope, id)
	raw, ok, err := o.provider.Get(ctx, k)
	if err != nil {
		return Pending{}, false, &OutboxError{Key: k, Op: "get", Err: err}
	}
	if !ok {
		return Pending{}, false, nil
	}

	gotID, _, payload, err := wire.DecodeEntry(raw)
	if err != nil {
		o.selfHeal(ctx, k, "corrupt")
		return Pending{}, false, nil
	}
	if RequestID(gotID) != id {
		o.selfHeal(ctx, k, "id_mismatch")
		return Pending{}, false, nil
	}
	p, err := o.codec.Decode(payload)
	if err != nil {
		o.selfHeal(ctx, k, "value_decode")
		return Pending{}, false, nil
	}
	if p.ID != id {
		o.selfHeal(ctx, k, "id_mismatch")
		return Pending{}, false, nil
	}
	return p, true, nil
}

func (o *Outbox) Delete(ctx context.Context, scope string, id RequestID) error {
	k := o.key(scope, id)
	if err := o.provider.Del(ctx, k); err != nil {
		return &OutboxError{Key: k, Op: "delete", Err: err}
	}
	return nil
}

func (o *Outbox) Close(ctx context.Context) error {
	return o.provider.Close(ctx)
}

func (o *Outbox) selfHeal(ctx context.Context, key, reason string) {
	_ = o.provider.Del(ctx, key)
	o.hooks.OutboxSelfHeal(key, reason)
	o.log.Debug("outbox entry dropped on read", Fields{"key": key, "reason": reason})
}
