// Package bankproto encodes requests and decodes responses of a tagged,
// length-prefixed binary banking protocol. Open account is the
// representative request.
//
// Request body (the transport adds its own length/id header):
//
//	id(i32 be) | tag(i32 be) | field*
//
// Each field is laid out under an explicit Policy. Request message fields are
// PolicyPrefixed: strings as len|utf-8, numbers as len=4|4-byte binary.
//
// Response body:
//
//	status(ResponseTypeSize bytes of decimal text) | len | payload
//
// where the payload is an error string for NAK and decimal text for ACK.
// Interpret turns a response into exactly one of Success[T], Failure or
// Malformed.
//
// Components:
//   - BuildRequest / ParseRequest: the codec proper; pure functions.
//   - Handler: id allocation (reqid.Sequence), request building, outbox
//     recording and response interpretation, with Logger and Hooks.
//   - Outbox: pending request bodies keyed by (scope, id) over a
//     provider.Provider, so a retransmission is byte-identical.
//
// Typical client flow:
//
//	h, _ := bankproto.New(bankproto.Options{Scope: "client-1", Outbox: ob})
//	msg, _ := h.OpenAccount(ctx, bankproto.OpenAccount{Name: "Alice", Password: "pw", Currency: 1, Balance: 100})
//	_, _ = msg.WriteTo(conn)
//	// on timeout: msg, ok, _ = h.Resend(ctx, msg.ID())
//	out, err := h.HandleOpenAccount(ctx, msg.ID(), body)
//	switch out.(type) {
//	case bankproto.Success[bankproto.AccountNumber]:
//	case bankproto.Failure:
//	case bankproto.Malformed:
//	}
package bankproto
