// Package handler defines the capability implemented by all envelope
// processors, whether bound to a route or registered as a pending-reply
// continuation.
package handler

import (
	"context"

	"github.com/wirelink-io/wirelink/internal/runtime/envelope"
)

// Handler processes one envelope. Returning a non-nil envelope signals
// "send this back as a response"; returning nil signals that this
// invocation produces no reply.
type Handler interface {
	Handle(ctx context.Context, req *envelope.Envelope) *envelope.Envelope
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, req *envelope.Envelope) *envelope.Envelope

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, req *envelope.Envelope) *envelope.Envelope {
	return f(ctx, req)
}
