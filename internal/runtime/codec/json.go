package codec

import (
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/wirelink-io/wirelink/internal/runtime/envelope"
)

var jsonConfig = sonic.ConfigStd

// JSON is the textual wire codec. Raw-bytes payloads are encoded as base64
// strings per JSON convention and therefore decode as structured string
// values; use binary framing when byte-for-byte payload fidelity matters.
type JSON struct{}

func (JSON) Name() string { return "json" }

func (JSON) Binary() bool { return false }

func (JSON) Encode(env *envelope.Envelope) ([]byte, error) {
	data, err := jsonConfig.Marshal(toWire(env))
	if err != nil {
		return nil, fmt.Errorf("json codec: %w", err)
	}
	return data, nil
}

func (JSON) Decode(data []byte) (*envelope.Envelope, error) {
	w := newWireEnvelope()
	if err := jsonConfig.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("json codec: %w", err)
	}
	return fromWire(w), nil
}
