package envelope

// PayloadKind discriminates the payload union.
type PayloadKind int

const (
	// PayloadAbsent means the envelope carries no body.
	PayloadAbsent PayloadKind = iota
	// PayloadValue is a structured body (maps, slices, strings, numbers).
	PayloadValue
	// PayloadBytes is an opaque raw-bytes body.
	PayloadBytes
)

// Payload is a tagged union over {absent, structured value, raw bytes}. The
// zero value is the absent payload.
type Payload struct {
	kind  PayloadKind
	value any
	raw   []byte
}

// ValuePayload wraps a structured value. A nil value yields the absent
// payload.
func ValuePayload(v any) Payload {
	if v == nil {
		return Payload{}
	}
	return Payload{kind: PayloadValue, value: v}
}

// BytesPayload wraps an opaque byte slice. A nil slice yields the absent
// payload.
func BytesPayload(b []byte) Payload {
	if b == nil {
		return Payload{}
	}
	return Payload{kind: PayloadBytes, raw: b}
}

// Kind reports which arm of the union is populated.
func (p Payload) Kind() PayloadKind { return p.kind }

// IsAbsent reports whether the envelope carries no body.
func (p Payload) IsAbsent() bool { return p.kind == PayloadAbsent }

// Value returns the structured body, if any.
func (p Payload) Value() (any, bool) {
	if p.kind != PayloadValue {
		return nil, false
	}
	return p.value, true
}

// Bytes returns the raw body, if any.
func (p Payload) Bytes() ([]byte, bool) {
	if p.kind != PayloadBytes {
		return nil, false
	}
	return p.raw, true
}
