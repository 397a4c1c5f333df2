package wirelink

import (
	runtimepkg "github.com/wirelink-io/wirelink/internal/runtime"
	codecpkg "github.com/wirelink-io/wirelink/internal/runtime/codec"
	configpkg "github.com/wirelink-io/wirelink/internal/runtime/config"
	envelopepkg "github.com/wirelink-io/wirelink/internal/runtime/envelope"
	errspkg "github.com/wirelink-io/wirelink/internal/runtime/errors"
	handlerpkg "github.com/wirelink-io/wirelink/internal/runtime/handler"
	idspkg "github.com/wirelink-io/wirelink/internal/runtime/ids"
	loggingpkg "github.com/wirelink-io/wirelink/internal/runtime/logging"
	registrypkg "github.com/wirelink-io/wirelink/internal/runtime/registry"
	triepkg "github.com/wirelink-io/wirelink/internal/runtime/trie"
	transportpkg "github.com/wirelink-io/wirelink/transport"

	// The websocket transport is the configured default; importing it here
	// keeps zero-config clients working without an explicit blank import.
	_ "github.com/wirelink-io/wirelink/transport/websocket"
)

type (
	Config       = configpkg.Config
	Client       = runtimepkg.Client
	Dependencies = runtimepkg.Dependencies

	Envelope    = envelopepkg.Envelope
	Payload     = envelopepkg.Payload
	PayloadKind = envelopepkg.PayloadKind

	Handler     = handlerpkg.Handler
	HandlerFunc = handlerpkg.HandlerFunc

	Middleware             = runtimepkg.Middleware
	MiddlewareBuilder      = runtimepkg.MiddlewareBuilder
	MiddlewareRegistration = runtimepkg.MiddlewareRegistration

	SendOption = runtimepkg.SendOption

	Codec = codecpkg.Codec

	RouteTrie       = triepkg.Trie
	PendingRegistry = registrypkg.Registry
	ExpireFunc      = registrypkg.ExpireFunc

	LogFields     = loggingpkg.LogFields
	ServiceLogger = loggingpkg.ServiceLogger

	ConfigValidationError = errspkg.ConfigValidationError

	// Modular transport types
	Transport         = transportpkg.Transport
	TransportBuilder  = transportpkg.Builder
	TransportConfig   = transportpkg.Config
	TransportRegistry = transportpkg.Registry
	Frame             = transportpkg.Frame
	Sink              = transportpkg.Sink
)

var (
	NewClient      = runtimepkg.NewClient
	TryNewClient   = runtimepkg.TryNewClient
	LoadConfig     = configpkg.LoadConfig
	ValidateConfig = configpkg.ValidateConfig

	NewEnvelope        = envelopepkg.New
	NewTimeoutEnvelope = envelopepkg.NewTimeout
	ValuePayload       = envelopepkg.ValuePayload
	BytesPayload       = envelopepkg.BytesPayload

	NewRouteTrie       = triepkg.New
	NewPendingRegistry = registrypkg.New

	WithBinaryFraming = runtimepkg.WithBinaryFraming

	DefaultMiddlewares      = runtimepkg.DefaultMiddlewares
	CorrelationIDMiddleware = runtimepkg.CorrelationIDMiddleware
	LogEnvelopesMiddleware  = runtimepkg.LogEnvelopesMiddleware
	TracerMiddleware        = runtimepkg.TracerMiddleware
	MetricsMiddleware       = runtimepkg.MetricsMiddleware
	RecovererMiddleware     = runtimepkg.RecovererMiddleware

	NewSlogServiceLogger = loggingpkg.NewSlogServiceLogger
	NewNopLogger         = loggingpkg.NewNopLogger

	CreateULID = idspkg.CreateULID
	NewUUID    = idspkg.NewUUID

	// Modular transport registry.
	// Import individual transports via: _ "github.com/wirelink-io/wirelink/transport/channel"
	DefaultTransportRegistry = transportpkg.DefaultRegistry
	RegisterTransport        = transportpkg.Register
	BuildTransport           = transportpkg.Build

	ErrClientRequired     = errspkg.ErrClientRequired
	ErrConfigRequired     = errspkg.ErrConfigRequired
	ErrLoggerRequired     = errspkg.ErrLoggerRequired
	ErrHandlerRequired    = errspkg.ErrHandlerRequired
	ErrRouteKeyRequired   = errspkg.ErrRouteKeyRequired
	ErrEnvelopeRequired   = errspkg.ErrEnvelopeRequired
	ErrEnvelopeIDRequired = errspkg.ErrEnvelopeIDRequired
)

// Envelope status values and the params key set by the default middleware chain.
const (
	StatusOK       = envelopepkg.StatusOK
	StatusTimeout  = envelopepkg.StatusTimeout
	TimeoutMessage = envelopepkg.TimeoutMessage

	PayloadAbsent = envelopepkg.PayloadAbsent
	PayloadValue  = envelopepkg.PayloadValue
	PayloadBytes  = envelopepkg.PayloadBytes

	ParamCorrelationID = runtimepkg.ParamCorrelationID
)
