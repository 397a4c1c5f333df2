// Package transport defines the core interfaces and types for wirelink
// transports. Each transport implementation (websocket, channel, ...) should
// be in its own sub-package and register itself with the transport registry.
package transport

import (
	"context"
	"time"

	"github.com/wirelink-io/wirelink/internal/runtime/logging"
)

// Frame is a single message read from or written to the connection. Binary
// selects the wire representation: binary frames carry msgpack envelopes,
// text frames carry JSON envelopes.
type Frame struct {
	Binary bool
	Data   []byte
}

// Sink receives connection events from a transport. Implementations must be
// safe for calls from the transport's reader goroutine.
type Sink interface {
	// HandleFrame is invoked for every inbound frame.
	HandleFrame(frame Frame)

	// ConnectionOpened is invoked once the connection is established and
	// frames may be sent.
	ConnectionOpened()

	// ConnectionClosed is invoked when the connection terminates. err is nil
	// on a clean local close.
	ConnectionClosed(err error)
}

// Transport is a single persistent, message-oriented, full-duplex connection.
type Transport interface {
	// Open establishes the connection and starts delivering inbound frames
	// to the sink. It returns once the connection is up; delivery happens on
	// the transport's own goroutines.
	Open(ctx context.Context, sink Sink) error

	// Send writes one frame to the connection. Safe for concurrent use.
	Send(frame Frame) error

	// Close tears the connection down. Closing an unopened or already closed
	// transport is a no-op.
	Close() error
}

// Builder is the function signature for creating a transport from config.
// Each transport package should provide a Builder function that can be
// registered.
type Builder func(cfg Config, logger logging.ServiceLogger) (Transport, error)

// Config provides the configuration values needed by transports. This
// interface allows transports to access only the config they need without
// depending on the full config package.
type Config interface {
	// GetTransport returns the transport type name.
	GetTransport() string

	// Websocket
	GetAddress() string
	GetSecure() bool
	GetToken() string
	GetHandshakeTimeout() time.Duration
}
