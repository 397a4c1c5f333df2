// Package channel provides an in-memory transport for wirelink. This
// transport is useful for testing and local development: Loopback echoes
// frames back to the sender, Pipe connects two endpoints back to back.
package channel

import (
	"context"
	"fmt"
	"sync"

	"github.com/wirelink-io/wirelink/internal/runtime/logging"
	"github.com/wirelink-io/wirelink/transport"
)

// TransportName is the name used to register this transport.
const TransportName = "channel"

func init() {
	transport.Register(TransportName, Build)
}

// Build creates a loopback channel transport.
func Build(cfg transport.Config, logger logging.ServiceLogger) (transport.Transport, error) {
	return Loopback(), nil
}

// Loopback returns a transport whose sent frames are delivered straight back
// to its own sink.
func Loopback() *Endpoint {
	e := &Endpoint{}
	e.peer = e
	return e
}

// Pipe returns two endpoints connected back to back: frames sent on one are
// delivered to the other's sink.
func Pipe() (*Endpoint, *Endpoint) {
	a := &Endpoint{}
	b := &Endpoint{}
	a.peer = b
	b.peer = a
	return a, b
}

// Endpoint is one side of an in-memory connection. Frames are delivered
// synchronously on the sender's goroutine.
type Endpoint struct {
	peer *Endpoint

	mu     sync.Mutex
	sink   transport.Sink
	closed bool
}

// Open attaches the sink and marks the endpoint connected.
func (e *Endpoint) Open(ctx context.Context, sink transport.Sink) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return fmt.Errorf("channel transport: endpoint is closed")
	}
	e.sink = sink
	e.mu.Unlock()

	sink.ConnectionOpened()
	return nil
}

// Send delivers one frame to the peer endpoint's sink. The peer must have
// been opened first.
func (e *Endpoint) Send(frame transport.Frame) error {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return fmt.Errorf("channel transport: endpoint is closed")
	}

	e.peer.mu.Lock()
	sink := e.peer.sink
	peerClosed := e.peer.closed
	e.peer.mu.Unlock()

	if sink == nil || peerClosed {
		return fmt.Errorf("channel transport: peer is not connected")
	}

	// Deliver outside the lock so a handler may send from within HandleFrame.
	sink.HandleFrame(frame)
	return nil
}

// Close disconnects both ends. Each attached sink observes a clean close.
func (e *Endpoint) Close() error {
	sinks := make([]transport.Sink, 0, 2)

	for _, ep := range []*Endpoint{e, e.peer} {
		ep.mu.Lock()
		if !ep.closed {
			ep.closed = true
			if ep.sink != nil {
				sinks = append(sinks, ep.sink)
			}
		}
		ep.mu.Unlock()
		if ep.peer == ep {
			break
		}
	}

	for _, sink := range sinks {
		sink.ConnectionClosed(nil)
	}
	return nil
}
