package runtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	envelopepkg "github.com/wirelink-io/wirelink/internal/runtime/envelope"
	handlerpkg "github.com/wirelink-io/wirelink/internal/runtime/handler"
	idspkg "github.com/wirelink-io/wirelink/internal/runtime/ids"
	loggingpkg "github.com/wirelink-io/wirelink/internal/runtime/logging"
)

// ParamCorrelationID is the envelope params key carrying the correlation
// identifier injected by the correlation ID middleware.
const ParamCorrelationID = "correlation_id"

// Middleware wraps a handler with additional behaviour.
type Middleware func(handlerpkg.Handler) handlerpkg.Handler

// MiddlewareBuilder constructs a handler middleware using the provided client instance.
type MiddlewareBuilder func(*Client) (Middleware, error)

// MiddlewareRegistration captures how a middleware should be registered on a Client.
type MiddlewareRegistration struct {
	Name       string
	Middleware Middleware
	Builder    MiddlewareBuilder
}

// DefaultMiddlewares returns the standard middleware chain used by the Client constructor.
func DefaultMiddlewares() []MiddlewareRegistration {
	return []MiddlewareRegistration{
		CorrelationIDMiddleware(),
		LogEnvelopesMiddleware(nil),
		TracerMiddleware(),
		MetricsMiddleware(),
		RecovererMiddleware(),
	}
}

// CorrelationIDMiddleware ensures each dispatched envelope carries a correlation identifier.
func CorrelationIDMiddleware() MiddlewareRegistration {
	return MiddlewareRegistration{
		Name: "correlation_id",
		Middleware: func(h handlerpkg.Handler) handlerpkg.Handler {
			return handlerpkg.HandlerFunc(func(ctx context.Context, req *envelopepkg.Envelope) *envelopepkg.Envelope {
				if req.Params == nil {
					req.Params = map[string]any{}
				}
				if _, ok := req.Params[ParamCorrelationID]; !ok {
					req.Params[ParamCorrelationID] = idspkg.CreateULID()
				}
				return h.Handle(ctx, req)
			})
		},
	}
}

// LogEnvelopesMiddleware logs the identity and routing fields of dispatched envelopes.
func LogEnvelopesMiddleware(logger loggingpkg.ServiceLogger) MiddlewareRegistration {
	return MiddlewareRegistration{
		Name: "log_envelopes",
		Builder: func(c *Client) (Middleware, error) {
			l := logger
			if l == nil {
				l = c.Logger
			}
			if l == nil {
				return nil, errors.New("log envelopes middleware requires a logger")
			}
			return func(h handlerpkg.Handler) handlerpkg.Handler {
				return handlerpkg.HandlerFunc(func(ctx context.Context, req *envelopepkg.Envelope) *envelopepkg.Envelope {
					l.Debug("Dispatching envelope", loggingpkg.LogFields{
						"envelope_uuid": req.ID,
						"key":           req.RouteKey,
						"status":        req.Status,
						"params":        req.Params,
					})
					return h.Handle(ctx, req)
				})
			}, nil
		},
	}
}

// TracerMiddleware wraps handler execution in an OpenTelemetry span.
func TracerMiddleware() MiddlewareRegistration {
	return MiddlewareRegistration{
		Name: "tracer",
		Middleware: func(h handlerpkg.Handler) handlerpkg.Handler {
			return handlerpkg.HandlerFunc(func(ctx context.Context, req *envelopepkg.Envelope) *envelopepkg.Envelope {
				tracer := otel.Tracer("wirelink-dispatch-tracer")
				ctx, span := tracer.Start(ctx, "DispatchEnvelope")
				defer span.End()

				span.SetAttributes(
					attribute.String("envelope.uuid", req.ID),
					attribute.String("envelope.key", req.RouteKey),
					attribute.String("envelope.params", fmt.Sprintf("%v", req.Params)),
				)
				return h.Handle(ctx, req)
			})
		},
	}
}

// MetricsMiddleware records handler execution time on the client's Prometheus
// histogram. It is a no-op when metrics are disabled.
func MetricsMiddleware() MiddlewareRegistration {
	return MiddlewareRegistration{
		Name: "metrics",
		Builder: func(c *Client) (Middleware, error) {
			if c.metrics == nil {
				return nil, nil
			}
			return func(h handlerpkg.Handler) handlerpkg.Handler {
				return handlerpkg.HandlerFunc(func(ctx context.Context, req *envelopepkg.Envelope) *envelopepkg.Envelope {
					start := time.Now()
					resp := h.Handle(ctx, req)
					c.metrics.observeDuration(time.Since(start).Seconds())
					return resp
				})
			}, nil
		},
	}
}

// RecovererMiddleware converts handler panics into logged errors so a single
// bad envelope cannot take down the dispatch goroutine.
func RecovererMiddleware() MiddlewareRegistration {
	return MiddlewareRegistration{
		Name: "recoverer",
		Builder: func(c *Client) (Middleware, error) {
			return func(h handlerpkg.Handler) handlerpkg.Handler {
				return handlerpkg.HandlerFunc(func(ctx context.Context, req *envelopepkg.Envelope) (resp *envelopepkg.Envelope) {
					defer func() {
						if r := recover(); r != nil {
							c.Logger.Error("Handler panicked", fmt.Errorf("panic: %v", r), loggingpkg.LogFields{
								"envelope_uuid": req.ID,
								"key":           req.RouteKey,
							})
							resp = nil
						}
					}()
					return h.Handle(ctx, req)
				})
			}, nil
		},
	}
}

// RegisterMiddleware attaches the supplied middleware to the client's dispatch chain.
func (c *Client) RegisterMiddleware(cfg MiddlewareRegistration) error {
	var mw Middleware
	switch {
	case cfg.Middleware != nil:
		mw = cfg.Middleware
	case cfg.Builder != nil:
		var err error
		mw, err = cfg.Builder(c)
		if err != nil {
			return err
		}
	default:
		return errors.New("middleware registration requires Middleware or Builder")
	}

	if mw == nil {
		return nil
	}

	c.middlewaresMu.Lock()
	c.middlewares = append(c.middlewares, mw)
	c.middlewaresMu.Unlock()
	return nil
}

// wrap applies the registered middleware chain so the first registered
// middleware is the outermost.
func (c *Client) wrap(h handlerpkg.Handler) handlerpkg.Handler {
	c.middlewaresMu.RLock()
	defer c.middlewaresMu.RUnlock()

	for i := len(c.middlewares) - 1; i >= 0; i-- {
		h = c.middlewares[i](h)
	}
	return h
}
