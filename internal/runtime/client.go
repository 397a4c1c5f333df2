package runtime

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	codecpkg "github.com/wirelink-io/wirelink/internal/runtime/codec"
	configpkg "github.com/wirelink-io/wirelink/internal/runtime/config"
	envelopepkg "github.com/wirelink-io/wirelink/internal/runtime/envelope"
	errorspkg "github.com/wirelink-io/wirelink/internal/runtime/errors"
	handlerpkg "github.com/wirelink-io/wirelink/internal/runtime/handler"
	loggingpkg "github.com/wirelink-io/wirelink/internal/runtime/logging"
	registrypkg "github.com/wirelink-io/wirelink/internal/runtime/registry"
	triepkg "github.com/wirelink-io/wirelink/internal/runtime/trie"
	transportpkg "github.com/wirelink-io/wirelink/transport"
)

// Dependencies holds the optional collaborators that the Client can use.
// Leave fields nil to use the configured defaults.
type Dependencies struct {
	Transport                 transportpkg.Transport   // Overrides the transport built from config when set.
	Middlewares               []MiddlewareRegistration // Appended after the default middleware chain.
	DisableDefaultMiddlewares bool                     // Skips registering the default middleware chain when true.
	MetricsRegisterer         prometheus.Registerer    // Defaults to prometheus.DefaultRegisterer.
}

// Client multiplexes requests and replies over a single persistent
// connection. Inbound envelopes with a route key are dispatched through the
// routing trie; envelopes without one are treated as replies and matched
// against the pending-reply registry by envelope ID.
type Client struct {
	Conf   *configpkg.Config
	Logger loggingpkg.ServiceLogger

	transport transportpkg.Transport
	routes    *triepkg.Trie
	pending   *registrypkg.Registry
	open      atomic.Bool

	textCodec   codecpkg.Codec
	binaryCodec codecpkg.Codec

	middlewares   []Middleware
	middlewaresMu sync.RWMutex

	metrics *dispatchMetrics
}

// NewClient constructs a Client for the supplied configuration, panicking on
// invalid input. Register routes on the returned Client before calling Connect.
func NewClient(conf *configpkg.Config, log loggingpkg.ServiceLogger, deps Dependencies) *Client {
	c, err := TryNewClient(conf, log, deps)
	if err != nil {
		panic(err)
	}
	return c
}

// TryNewClient constructs a Client for the supplied configuration.
func TryNewClient(conf *configpkg.Config, log loggingpkg.ServiceLogger, deps Dependencies) (*Client, error) {
	if conf == nil {
		return nil, errorspkg.ErrConfigRequired
	}
	if log == nil {
		return nil, errorspkg.ErrLoggerRequired
	}
	if err := conf.Validate(); err != nil {
		return nil, errorspkg.NewConfigValidationError(err)
	}

	log.Info("Creating dispatch client", loggingpkg.LogFields{
		"transport": conf.Transport,
		"config":    conf,
	})

	c := &Client{
		Conf:        conf,
		Logger:      log,
		routes:      triepkg.New(),
		textCodec:   codecpkg.JSON{},
		binaryCodec: codecpkg.Msgpack{},
	}

	if conf.MetricsEnabled {
		reg := deps.MetricsRegisterer
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		c.metrics = newDispatchMetrics(reg)
	}

	tr := deps.Transport
	if tr == nil {
		var err error
		tr, err = transportpkg.Build(conf, log)
		if err != nil {
			return nil, err
		}
	}
	c.transport = tr

	ttl := conf.PendingTTL
	if ttl <= 0 {
		ttl = registrypkg.DefaultTTL
	}
	sweep := conf.SweepInterval
	if sweep <= 0 {
		sweep = registrypkg.DefaultSweepInterval
	}
	c.pending = registrypkg.New(ttl, sweep, c.onPendingExpired)

	// Replies carry no route key, so the empty path lands on the root
	// handler, which claims the matching pending entry.
	c.routes.BindRoot(handlerpkg.HandlerFunc(c.claimReply))

	if err := c.registerConfiguredMiddlewares(deps); err != nil {
		c.pending.Shutdown()
		return nil, err
	}

	return c, nil
}

func (c *Client) registerConfiguredMiddlewares(deps Dependencies) error {
	var defaults []MiddlewareRegistration
	if !deps.DisableDefaultMiddlewares {
		defaults = DefaultMiddlewares()
	}
	registrations := make([]MiddlewareRegistration, 0, len(defaults)+len(deps.Middlewares))
	registrations = append(registrations, defaults...)
	registrations = append(registrations, deps.Middlewares...)

	for _, reg := range registrations {
		if err := c.RegisterMiddleware(reg); err != nil {
			return err
		}
	}
	return nil
}

// Connect opens the underlying transport and starts dispatching inbound
// frames. Frames are processed in connection order on the transport's reader
// goroutine.
func (c *Client) Connect(ctx context.Context) error {
	return c.transport.Open(ctx, &clientSink{client: c})
}

// IsOpen reports whether the connection is currently established.
func (c *Client) IsOpen() bool {
	return c.open.Load()
}

// AddRoute binds a handler to a dot-separated route key. Invalid
// registrations are logged and ignored.
func (c *Client) AddRoute(key string, h handlerpkg.Handler) {
	if err := c.routes.Insert(key, h); err != nil {
		c.Logger.Error("Failed to add route", err, loggingpkg.LogFields{"key": key})
	}
}

// RemoveRoute drops the handler at the given key together with every route
// below it. Removing an unknown key is a no-op.
func (c *Client) RemoveRoute(key string) {
	if key == "" {
		c.Logger.Debug("Ignoring removal of empty route key", nil)
		return
	}
	c.routes.Remove(key)
}

// SendOption customises how a single envelope is written to the wire.
type SendOption func(*sendOptions)

type sendOptions struct {
	binary bool
}

// WithBinaryFraming overrides the configured frame representation for one send.
func WithBinaryFraming(binary bool) SendOption {
	return func(o *sendOptions) {
		o.binary = binary
	}
}

// Send encodes the envelope and writes it to the connection. When the
// connection is closed the envelope is dropped silently and Send returns nil.
func (c *Client) Send(env *envelopepkg.Envelope, opts ...SendOption) error {
	if env == nil {
		return errorspkg.ErrEnvelopeRequired
	}
	if !c.open.Load() {
		c.Logger.Debug("Dropping envelope, connection is closed", loggingpkg.LogFields{
			"envelope_uuid": env.ID,
			"key":           env.RouteKey,
		})
		return nil
	}

	options := sendOptions{binary: c.Conf.BinaryFrames}
	for _, opt := range opts {
		opt(&options)
	}

	codec := c.codecFor(options.binary)
	data, err := codec.Encode(env)
	if err != nil {
		return err
	}
	return c.transport.Send(transportpkg.Frame{Binary: codec.Binary(), Data: data})
}

// SendWithCallback sends a request envelope and registers a handler for its
// reply. The handler is claimed by the first reply carrying the envelope's ID
// or, if none arrives within the pending TTL, invoked with a synthesized
// timeout envelope.
func (c *Client) SendWithCallback(env *envelopepkg.Envelope, h handlerpkg.Handler, opts ...SendOption) error {
	if env == nil {
		return errorspkg.ErrEnvelopeRequired
	}
	if env.ID == "" {
		return errorspkg.ErrEnvelopeIDRequired
	}
	if h == nil {
		return errorspkg.ErrHandlerRequired
	}

	c.pending.Set(env.ID, h)
	if err := c.Send(env, opts...); err != nil {
		c.pending.Remove(env.ID)
		return err
	}
	return nil
}

// CancelPending drops the reply handler registered for the given envelope ID.
// It reports whether a live handler was cancelled.
func (c *Client) CancelPending(id string) bool {
	_, ok := c.pending.Claim(id)
	return ok
}

// Close tears down the connection. Pending reply handlers stay registered and
// still expire through the registry; use Shutdown for a full stop.
func (c *Client) Close() error {
	c.open.Store(false)
	return c.transport.Close()
}

// Shutdown closes the connection and stops the pending-reply sweeper. Pending
// handlers are dropped without being invoked.
func (c *Client) Shutdown() error {
	err := c.Close()
	c.pending.Shutdown()
	return err
}

func (c *Client) codecFor(binary bool) codecpkg.Codec {
	if binary {
		return c.binaryCodec
	}
	return c.textCodec
}

func (c *Client) handleFrame(frame transportpkg.Frame) {
	codec := c.codecFor(frame.Binary)
	env, err := codec.Decode(frame.Data)
	if err != nil {
		c.Logger.Error("Dropping undecodable frame", err, loggingpkg.LogFields{
			"codec":      codec.Name(),
			"frame_size": len(frame.Data),
		})
		c.metrics.incInbound(outcomeDecodeError)
		return
	}
	c.dispatch(context.Background(), env)
}

func (c *Client) dispatch(ctx context.Context, env *envelopepkg.Envelope) {
	h, ok := c.routes.Lookup(env.RouteKey)
	if !ok {
		c.Logger.Warn("No route for envelope key", loggingpkg.LogFields{
			"envelope_uuid": env.ID,
			"key":           env.RouteKey,
		})
		c.metrics.incInbound(outcomeNoRoute)
		return
	}
	if h == nil {
		c.Logger.Warn("Route exists but has no handler bound", loggingpkg.LogFields{
			"envelope_uuid": env.ID,
			"key":           env.RouteKey,
		})
		c.metrics.incInbound(outcomeUnboundRoute)
		return
	}

	if env.RouteKey != "" {
		c.metrics.incInbound(outcomeHandled)
	}

	resp := c.wrap(h).Handle(ctx, env)
	if resp == nil {
		return
	}
	if err := c.Send(resp); err != nil {
		c.Logger.Error("Failed to send handler response", err, loggingpkg.LogFields{
			"envelope_uuid": resp.ID,
			"key":           resp.RouteKey,
		})
	}
}

// claimReply is the root route handler: envelopes without a route key are
// replies, matched against the pending registry by envelope ID. Replies
// nobody is waiting for are dropped silently.
func (c *Client) claimReply(ctx context.Context, env *envelopepkg.Envelope) *envelopepkg.Envelope {
	h, ok := c.pending.Claim(env.ID)
	if !ok {
		c.Logger.Debug("Dropping unmatched reply", loggingpkg.LogFields{
			"envelope_uuid": env.ID,
			"status":        env.Status,
		})
		c.metrics.incInbound(outcomeUnmatchedReply)
		return nil
	}
	c.metrics.incInbound(outcomeReply)
	return h.Handle(ctx, env)
}

// onPendingExpired runs on the registry sweeper goroutine when a pending
// reply handler outlives its TTL. The handler receives a synthesized timeout
// envelope so callers observe a timeout the same way they observe a reply.
func (c *Client) onPendingExpired(key string, h handlerpkg.Handler) {
	c.metrics.incTimeout()
	c.Logger.Warn("Pending reply timed out", loggingpkg.LogFields{
		"envelope_uuid": key,
	})

	resp := c.wrap(h).Handle(context.Background(), envelopepkg.NewTimeout(key))
	if resp == nil {
		return
	}
	if err := c.Send(resp); err != nil {
		c.Logger.Error("Failed to send timeout response", err, loggingpkg.LogFields{
			"envelope_uuid": resp.ID,
		})
	}
}

// clientSink adapts the Client to the transport's event interface.
type clientSink struct {
	client *Client
}

func (s *clientSink) HandleFrame(frame transportpkg.Frame) {
	s.client.handleFrame(frame)
}

func (s *clientSink) ConnectionOpened() {
	s.client.open.Store(true)
	s.client.Logger.Info("Connection opened", nil)
}

func (s *clientSink) ConnectionClosed(err error) {
	s.client.open.Store(false)
	if err != nil {
		s.client.Logger.Error("Connection closed", err, nil)
		return
	}
	s.client.Logger.Info("Connection closed", nil)
}
