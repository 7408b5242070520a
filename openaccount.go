package bankproto

import "github.com/unkn0wn-root/bankproto/internal/wire"

// AccountNumber is assigned by the server on a successful open.
type AccountNumber int32

// OpenAccount is the already-validated input of an open-account request:
// non-empty name and password, a currency index in range and a parsed
// starting balance.
type OpenAccount struct {
	Name     string
	Password string
	Currency int32
	Balance  float32
}

var openAccountLayout = [...]FieldSpec{
	{Kind: KindString, Policy: PolicyPrefixed},
	{Kind: KindString, Policy: PolicyPrefixed},
	{Kind: KindInt32, Policy: PolicyPrefixed},
	{Kind: KindFloat32, Policy: PolicyPrefixed},
}

// OpenAccountLayout returns the field layout of an open-account request body.
func OpenAccountLayout() []FieldSpec { return append([]FieldSpec(nil), openAccountLayout[:]...) }

func (r OpenAccount) Fields() []Field {
	return []Field{
		String(r.Name),
		String(r.Password),
		Int32(r.Currency),
		Float32(r.Balance),
	}
}

func (r OpenAccount) Build(id RequestID) (Message, error) {
	return BuildRequest(id, ServiceOpenAccount, r.Fields()...)
}

// ParseOpenAccount decodes an open-account request body.
func ParseOpenAccount(b []byte) (RequestID, OpenAccount, error) {
	return parseOpenAccount(b, 0)
}

// ParseOpenAccountLimit bounds the name and password lengths.
func ParseOpenAccountLimit(b []byte, limit int) (RequestID, OpenAccount, error) {
	return parseOpenAccount(b, limit)
}

func parseOpenAccount(b []byte, limit int) (RequestID, OpenAccount, error) {
	if tag, err := wire.ReadInt32(b, wire.IntSize); err != nil {
		return 0, OpenAccount{}, err
	} else if ServiceTag(tag) != ServiceOpenAccount {
		return 0, OpenAccount{}, &ProtocolViolation{Tag: ServiceTag(tag), Err: ErrServiceTag}
	}
	req, err := parseRequest(b, limit, openAccountLayout[:])
	if err != nil {
		return 0, OpenAccount{}, err
	}
	return req.ID, OpenAccount{
		Name:     req.Fields[0].Text(),
		Password: req.Fields[1].Text(),
		Currency: req.Fields[2].Int(),
		Balance:  req.Fields[3].Float(),
	}, nil
}

// InterpretOpenAccount interprets an open-account response body. An ACK
// yields Success[AccountNumber].
func InterpretOpenAccount(resp []byte) (Outcome, error) {
	return Interpret[AccountNumber](resp, accountNumber)
}

func accountNumber(b []byte, off int) (AccountNumber, int, error) {
	v, n, err := IntPayload(b, off)
	return AccountNumber(v), n, err
}

func (n AccountNumber) String() string { return itoa(int64(n)) }
