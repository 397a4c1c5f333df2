// Package wirelink multiplexes bidirectional request/reply traffic over a
// single persistent, message-oriented connection. Both peers can initiate
// requests at any time: inbound envelopes carrying a dot-separated route key
// are dispatched through a routing trie, while envelopes without one are
// treated as replies and matched against a time-bounded pending registry by
// envelope ID. A Client therefore acts as server and caller at once, over one
// connection.
//
// A minimal setup involves filling Config (or loading it from the
// environment with LoadConfig), creating a Client, registering routes with
// AddRoute, and calling Connect. Requests that expect an answer go out via
// SendWithCallback; if no reply arrives within the pending TTL the callback
// receives a synthesized envelope with StatusTimeout so callers observe
// timeouts the same way they observe replies.
//
// # Wire format
//
// Envelopes travel as either JSON (text frames) or msgpack (binary frames).
// The codec is chosen by the frame representation alone, never by sniffing
// content, so a peer may mix both forms on one connection. Outbound framing
// follows Config.BinaryFrames and can be overridden per send with
// WithBinaryFraming.
//
// # Transports
//
// Transports live in sub-packages of transport/ and register themselves with
// the transport registry:
//   - websocket: A persistent websocket connection with ping/pong keepalive (default)
//   - channel: In-memory loopback and pipe endpoints for testing
//
// # Middleware
//
// The default middleware chain includes correlation ID injection, structured
// logging, OpenTelemetry tracing, Prometheus metrics, and panic recovery.
// Custom middleware can be added via Dependencies.Middlewares.
package wirelink
