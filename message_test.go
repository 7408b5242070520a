package bankproto

import (
	"bytes"
	"encoding/hex"
	"errors"
	"math"
	"strings"
	"testing"
)

func mustBuild(t *testing.T, id RequestID, tag ServiceTag, fields ...Field) Message {
	t.Helper()
	m, err := BuildRequest(id, tag, fields...)
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	return m
}

func specsOf(fields []Field) []FieldSpec {
	out := make([]FieldSpec, len(fields))
	for i, f := range fields {
		out[i] = f.Spec()
	}
	return out
}

var alice = OpenAccount{Name: "Alice", Password: "pw", Currency: 1, Balance: 100.0}

func TestOpenAccountWireLayout(t *testing.T) {
	m, err := alice.Build(7)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := "00000007" + // id
		"00000001" + // tag
		"00000005" + hex.EncodeToString([]byte("Alice")) +
		"00000002" + hex.EncodeToString([]byte("pw")) +
		"00000004" + "00000001" + // currency
		"00000004" + "42c80000" // balance 100.0
	if got := hex.EncodeToString(m.Bytes()); got != want {
		t.Fatalf("wire mismatch\n got %s\nwant %s", got, want)
	}
	if m.ID() != 7 || m.Tag() != ServiceOpenAccount || m.Len() != len(want)/2 {
		t.Fatalf("accessors: id=%d tag=%d len=%d", m.ID(), m.Tag(), m.Len())
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	a, _ := alice.Build(7)
	b, _ := alice.Build(7)
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatalf("two builds differ:\n%x\n%x", a.Bytes(), b.Bytes())
	}
}

func TestMessageIsImmutable(t *testing.T) {
	m := mustBuild(t, 1, ServiceOpenAccount, String("x"))
	cp := m.Bytes()
	cp[0] = 0xFF
	if m.ID() != 1 {
		t.Fatalf("mutating Bytes() changed the message")
	}

	var buf bytes.Buffer
	n, err := m.WriteTo(&buf)
	if err != nil || n != int64(m.Len()) || !bytes.Equal(buf.Bytes(), m.Bytes()) {
		t.Fatalf("WriteTo = %d, %v", n, err)
	}
}

func TestZeroMessage(t *testing.T) {
	var m Message
	if !m.IsZero() || m.ID() != 0 || m.Tag() != 0 || m.Len() != 0 {
		t.Fatalf("zero message accessors misbehave")
	}
}

func TestRequestRoundTrip(t *testing.T) {
	cases := [][]Field{
		nil,
		alice.Fields(),
		{String(""), String("日本語"), Int32(math.MinInt32), Float32(-0.5)},
		{Int32(5).With(PolicyRaw), Float32(3.25).With(PolicyRaw), String("raw numbers")},
		{Int32(1001).With(PolicyText), Float32(12.5).With(PolicyText), String("t").With(PolicyText)},
		{Float32(float32(math.Inf(1))), Int32(math.MaxInt32)},
		{Float32(float32(math.NaN())), Float32(float32(math.NaN())).With(PolicyRaw)},
	}
	for i, fields := range cases {
		m := mustBuild(t, RequestID(i+1), ServiceTag(40+i), fields...)
		req, err := ParseRequest(m.Bytes(), specsOf(fields)...)
		if err != nil {
			t.Fatalf("case %d: ParseRequest: %v", i, err)
		}
		if req.ID != RequestID(i+1) || req.Tag != ServiceTag(40+i) {
			t.Fatalf("case %d: header got %d/%d", i, req.ID, req.Tag)
		}
		if len(req.Fields) != len(fields) {
			t.Fatalf("case %d: got %d fields want %d", i, len(req.Fields), len(fields))
		}
		for j := range fields {
			if !req.Fields[j].Equal(fields[j]) {
				t.Fatalf("case %d field %d: got %+v want %+v", i, j, req.Fields[j], fields[j])
			}
		}
	}
}

func TestFieldEqual(t *testing.T) {
	a, b := Float32(float32(math.NaN())), Float32(float32(math.NaN()))
	if a == b || !a.Equal(b) {
		t.Fatalf("NaN fields: == should be false and Equal true")
	}
	cases := []struct {
		a, b Field
		want bool
	}{
		{Int32(1), Int32(1), true},
		{Int32(1), Int32(1).With(PolicyText), false},
		{Int32(1), Float32(1), false},
		{Float32(0), Float32(float32(math.Copysign(0, -1))), false},
		{String("a"), String("a"), true},
		{String("a"), String("b"), false},
	}
	for _, tc := range cases {
		if got := tc.a.Equal(tc.b); got != tc.want {
			t.Fatalf("%+v.Equal(%+v) = %v want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestParseOpenAccount(t *testing.T) {
	m, _ := alice.Build(42)
	id, got, err := ParseOpenAccount(m.Bytes())
	if err != nil {
		t.Fatalf("ParseOpenAccount: %v", err)
	}
	if id != 42 || got != alice {
		t.Fatalf("got %d %+v want 42 %+v", id, got, alice)
	}

	other := mustBuild(t, 1, ServiceTag(9), alice.Fields()...)
	_, _, err = ParseOpenAccount(other.Bytes())
	var pv *ProtocolViolation
	if !errors.As(err, &pv) || !errors.Is(err, ErrServiceTag) || pv.Tag != 9 {
		t.Fatalf("expected service tag violation, got %v", err)
	}

	long := OpenAccount{Name: strings.Repeat("n", 300), Password: "pw", Currency: 1, Balance: 1}
	lm, _ := long.Build(1)
	if _, _, err := ParseOpenAccountLimit(lm.Bytes(), 256); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if _, _, err := ParseOpenAccountLimit(lm.Bytes(), 300); err != nil {
		t.Fatalf("boundary limit: %v", err)
	}
}

func TestParseRequestRejectsBadInput(t *testing.T) {
	m, _ := alice.Build(1)
	b := m.Bytes()
	layout := OpenAccountLayout()

	if _, err := ParseRequest(append(b, 0), layout...); !errors.Is(err, ErrTrailingBytes) {
		t.Fatalf("expected ErrTrailingBytes, got %v", err)
	}
	for _, cut := range []int{0, 3, 7, 12, len(b) - 1} {
		_, err := ParseRequest(b[:cut], layout...)
		var de *DecodingError
		if !errors.As(err, &de) {
			t.Fatalf("cut=%d: expected DecodingError, got %v", cut, err)
		}
	}

	// currency declared as 3 bytes instead of 4
	bad := append([]byte(nil), b...)
	off := HeaderSize + 4 + 5 + 4 + 2
	bad[off+3] = 3
	if _, err := ParseRequest(bad, layout...); err == nil {
		t.Fatalf("expected error on short numeric payload")
	}

	if _, err := ParseRequest(b, FieldSpec{Kind: KindString, Policy: PolicyRaw}); !errors.Is(err, ErrRawString) {
		t.Fatalf("expected ErrRawString, got %v", err)
	}
}

func TestBuildRejectsUnrepresentable(t *testing.T) {
	_, err := BuildRequest(1, ServiceOpenAccount, String("ok"), String(string([]byte{0xff})))
	var ee *EncodingError
	if !errors.As(err, &ee) || !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("expected EncodingError(ErrInvalidUTF8), got %v", err)
	}
	if !strings.Contains(err.Error(), "field 1") {
		t.Fatalf("error should name the field index: %v", err)
	}

	if _, err := BuildRequest(1, ServiceOpenAccount, String("s").With(PolicyRaw)); !errors.Is(err, ErrRawString) {
		t.Fatalf("expected ErrRawString, got %v", err)
	}
}

func TestFieldAccessors(t *testing.T) {
	f := Int32(3).With(PolicyText)
	if f.Kind() != KindInt32 || f.Policy() != PolicyText || f.Int() != 3 || f.Value() != int32(3) {
		t.Fatalf("unexpected accessors: %+v", f)
	}
	if String("a").Value() != "a" || Float32(1.5).Value() != float32(1.5) {
		t.Fatalf("Value() mismatch")
	}
	if KindFloat32.String() != "float32" || PolicyRaw.String() != "raw" || ServiceOpenAccount.String() != "open_account" {
		t.Fatalf("String() mismatch")
	}
	if ServiceTag(5).String() != "service_5" {
		t.Fatalf("unknown tag String() = %q", ServiceTag(5).String())
	}
}
