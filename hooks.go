package bankproto

// Hooks are callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking; wrap slow ones with
// hooks/async.
type Hooks interface {
	// A request body was built. size is its length in bytes.
	RequestBuilt(tag ServiceTag, id RequestID, size int)

	// A response carried a status token that is neither ACK nor NAK.
	MalformedResponse(tag ServiceTag, id RequestID, status string)

	// A response could not be decoded (truncated, bad prefix, bad number).
	DecodeFailed(tag ServiceTag, id RequestID, err error)

	// An outbox entry was deleted on read.
	// reason ∈ {"corrupt", "id_mismatch", "value_decode"}
	OutboxSelfHeal(storageKey, reason string)

	// The provider returned ok=false on Set (pressure/eviction).
	OutboxRejected(storageKey string)

	// The request-id sequence failed to allocate.
	SequenceError(scope string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) RequestBuilt(ServiceTag, RequestID, int)         {}
func (NopHooks) MalformedResponse(ServiceTag, RequestID, string) {}
func (NopHooks) DecodeFailed(ServiceTag, RequestID, error)       {}
func (NopHooks) OutboxSelfHeal(string, string)                   {}
func (NopHooks) OutboxRejected(string)                           {}
func (NopHooks) SequenceError(string, error)                     {}
