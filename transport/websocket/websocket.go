// Package websocket provides the default wirelink transport: a single
// persistent websocket connection with a two-way ping/pong heartbeat.
package websocket

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wirelink-io/wirelink/internal/runtime/logging"
	"github.com/wirelink-io/wirelink/transport"
)

// TransportName is the name used to register this transport.
const TransportName = "websocket"

const (
	// writeWait is the max time to write a message to the peer.
	writeWait = 10 * time.Second
	// pongWait is the max time to wait for a pong from the peer; no pong
	// means no connection.
	pongWait = 60 * time.Second
	// pingPeriod must be shorter than pongWait so the ping lands before the
	// read deadline expires.
	pingPeriod = (pongWait * 9) / 10
)

func init() {
	transport.Register(TransportName, Build)
}

// Transport is a websocket connection to a single remote endpoint.
type Transport struct {
	address          string
	secure           bool
	token            string
	handshakeTimeout time.Duration
	logger           logging.ServiceLogger

	writeMu   sync.Mutex
	conn      *websocket.Conn
	closeOnce sync.Once
	done      chan struct{}
}

// Build creates a new websocket transport from config.
func Build(cfg transport.Config, logger logging.ServiceLogger) (transport.Transport, error) {
	if cfg.GetAddress() == "" {
		return nil, fmt.Errorf("websocket transport: address is required")
	}
	return &Transport{
		address:          cfg.GetAddress(),
		secure:           cfg.GetSecure(),
		token:            cfg.GetToken(),
		handshakeTimeout: cfg.GetHandshakeTimeout(),
		logger:           logger,
		done:             make(chan struct{}),
	}, nil
}

// Open dials the remote endpoint and starts the reader and heartbeat
// goroutines. Inbound frames are delivered to the sink from the reader
// goroutine, in connection order.
func (t *Transport) Open(ctx context.Context, sink transport.Sink) error {
	u := t.endpointURL()

	dialer := websocket.Dialer{HandshakeTimeout: t.handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("websocket transport: dial %s: %w", u.Host, err)
	}

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	t.writeMu.Lock()
	t.conn = conn
	t.writeMu.Unlock()

	t.logger.Info("connection established", logging.LogFields{
		"transport": TransportName,
		"endpoint":  u.Host,
	})
	sink.ConnectionOpened()

	go t.readLoop(conn, sink)
	go t.pingLoop(conn)

	return nil
}

func (t *Transport) endpointURL() url.URL {
	scheme := "ws"
	if t.secure {
		scheme = "wss"
	}
	host, path := t.address, ""
	if i := strings.Index(t.address, "/"); i >= 0 {
		host, path = t.address[:i], t.address[i:]
	}
	u := url.URL{Scheme: scheme, Host: host, Path: path}
	if t.token != "" {
		u.RawQuery = url.Values{"token": {t.token}}.Encode()
	}
	return u
}

func (t *Transport) readLoop(conn *websocket.Conn, sink transport.Sink) {
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-t.done:
				// Local close already tore the connection down.
				sink.ConnectionClosed(nil)
			default:
				sink.ConnectionClosed(err)
			}
			return
		}

		switch messageType {
		case websocket.TextMessage:
			sink.HandleFrame(transport.Frame{Binary: false, Data: data})
		case websocket.BinaryMessage:
			sink.HandleFrame(transport.Frame{Binary: true, Data: data})
		default:
			t.logger.Debug("ignoring unsupported websocket message type", logging.LogFields{
				"message_type": messageType,
			})
		}
	}
}

func (t *Transport) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			deadline := time.Now().Add(writeWait)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				t.logger.Debug("ping failed, reader will observe the close", logging.LogFields{
					"error": err.Error(),
				})
				return
			}
		case <-t.done:
			return
		}
	}
}

// Send writes one frame to the connection. Writes are serialized; gorilla
// connections support only one concurrent writer.
func (t *Transport) Send(frame transport.Frame) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if t.conn == nil {
		return fmt.Errorf("websocket transport: not connected")
	}

	messageType := websocket.TextMessage
	if frame.Binary {
		messageType = websocket.BinaryMessage
	}

	t.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := t.conn.WriteMessage(messageType, frame.Data); err != nil {
		return fmt.Errorf("websocket transport: write: %w", err)
	}
	return nil
}

// Close tears the connection down. A close message is sent on a best-effort
// basis so the peer sees a clean shutdown.
func (t *Transport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.done)

		t.writeMu.Lock()
		defer t.writeMu.Unlock()
		if t.conn == nil {
			return
		}

		deadline := time.Now().Add(writeWait)
		message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		t.conn.WriteControl(websocket.CloseMessage, message, deadline)
		err = t.conn.Close()
	})
	return err
}
