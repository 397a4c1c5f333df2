package codec

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/wirelink-io/wirelink/internal/runtime/envelope"
)

// Msgpack is the compact binary wire codec. Raw-bytes payloads survive a
// round trip intact (msgpack bin format); structured values come back as
// the usual msgpack dynamic types (map[string]any, int64, ...).
type Msgpack struct{}

func (Msgpack) Name() string { return "msgpack" }

func (Msgpack) Binary() bool { return true }

func (Msgpack) Encode(env *envelope.Envelope) ([]byte, error) {
	data, err := msgpack.Marshal(toWire(env))
	if err != nil {
		return nil, fmt.Errorf("msgpack codec: %w", err)
	}
	return data, nil
}

func (Msgpack) Decode(data []byte) (*envelope.Envelope, error) {
	w := newWireEnvelope()
	if err := msgpack.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("msgpack codec: %w", err)
	}
	return fromWire(w), nil
}
