package bankproto

import "github.com/unkn0wn-root/bankproto/internal/wire"

// RequestID correlates a request with its response. The codec does not
// enforce uniqueness; see the reqid package for allocators.
type RequestID int32

// ServiceTag names the server-side operation a request targets.
type ServiceTag int32

const (
	ServiceOpenAccount ServiceTag = 1
)

func (t ServiceTag) String() string {
	switch t {
	case ServiceOpenAccount:
		return "open_account"
	default:
		return "service_" + itoa(int64(t))
	}
}

// Status is the response outcome code carried at offset 0 of a response.
type Status int

const (
	StatusNAK Status = 0
	StatusACK Status = 1
)

const (
	// ResponseTypeSize is the width of the raw decimal status token.
	ResponseTypeSize = 1

	// HeaderSize covers the raw request id and service tag.
	HeaderSize = 2 * wire.IntSize
)
