// Package codec implements the two wire representations of an Envelope: a
// textual JSON form and a compact msgpack binary form. Which codec handles
// an inbound frame is decided by the frame's transport representation
// (binary or text), never by inspecting the content.
package codec

import (
	"github.com/wirelink-io/wirelink/internal/runtime/envelope"
)

// Codec translates between an Envelope and its wire form.
type Codec interface {
	Encode(env *envelope.Envelope) ([]byte, error)
	Decode(data []byte) (*envelope.Envelope, error)
	// Binary reports whether frames produced by this codec must be sent as
	// binary transport frames.
	Binary() bool
	Name() string
}

// wireEnvelope is the on-the-wire field layout shared by both codecs.
// Decoding starts from a defaulted instance so missing optional fields fall
// back to the Envelope defaults.
type wireEnvelope struct {
	UUID    string         `json:"UUID" msgpack:"UUID"`
	Status  int            `json:"status" msgpack:"status"`
	Message string         `json:"message" msgpack:"message"`
	Key     string         `json:"key" msgpack:"key"`
	Request any            `json:"request,omitempty" msgpack:"request,omitempty"`
	Params  map[string]any `json:"params" msgpack:"params"`
}

func newWireEnvelope() wireEnvelope {
	return wireEnvelope{Status: envelope.StatusOK}
}

func toWire(env *envelope.Envelope) wireEnvelope {
	w := wireEnvelope{
		UUID:    env.ID,
		Status:  env.Status,
		Message: env.Message,
		Key:     env.RouteKey,
		Params:  env.Params,
	}
	if w.Params == nil {
		w.Params = map[string]any{}
	}
	switch env.Payload.Kind() {
	case envelope.PayloadValue:
		w.Request, _ = env.Payload.Value()
	case envelope.PayloadBytes:
		raw, _ := env.Payload.Bytes()
		w.Request = raw
	}
	return w
}

func fromWire(w wireEnvelope) *envelope.Envelope {
	env := envelope.New()
	env.ID = w.UUID
	env.Status = w.Status
	env.Message = w.Message
	env.RouteKey = w.Key
	if w.Params != nil {
		env.Params = w.Params
	}
	switch req := w.Request.(type) {
	case nil:
	case []byte:
		env.Payload = envelope.BytesPayload(req)
	default:
		env.Payload = envelope.ValuePayload(req)
	}
	return env
}
