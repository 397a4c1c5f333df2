// Package config provides the client configuration, loadable from
// environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Defaults applied when the corresponding Config field is left zero.
const (
	DefaultTransport        = "websocket"
	DefaultPendingTTL       = 2 * time.Minute
	DefaultSweepInterval    = time.Minute
	DefaultHandshakeTimeout = 10 * time.Second
)

// Config groups the connection settings required to build a Client.
type Config struct {
	// Transport selects the registered transport implementation.
	Transport string `envconfig:"WIRELINK_TRANSPORT" default:"websocket"`

	// Address is the remote endpoint, host[:port][/path].
	Address string `envconfig:"WIRELINK_ADDRESS"`

	// Secure switches the websocket transport to TLS (wss).
	Secure bool `envconfig:"WIRELINK_SECURE"`

	// Token, when set, is appended to the connection URL as a query
	// parameter.
	Token string `envconfig:"WIRELINK_TOKEN"`

	// BinaryFrames selects binary (msgpack) framing for sends that carry no
	// explicit override. Text (JSON) framing is the default.
	BinaryFrames bool `envconfig:"WIRELINK_BINARY_FRAMES"`

	// PendingTTL is how long a pending-reply registration lives before the
	// sweep delivers a synthetic timeout. All registrations share it.
	PendingTTL time.Duration `envconfig:"WIRELINK_PENDING_TTL" default:"120s"`

	// SweepInterval is how often the pending registry scans for expired
	// entries. Independent of PendingTTL.
	SweepInterval time.Duration `envconfig:"WIRELINK_SWEEP_INTERVAL" default:"60s"`

	// HandshakeTimeout bounds the transport connection handshake.
	HandshakeTimeout time.Duration `envconfig:"WIRELINK_HANDSHAKE_TIMEOUT" default:"10s"`

	// MetricsEnabled registers Prometheus dispatch metrics.
	MetricsEnabled bool `envconfig:"WIRELINK_METRICS_ENABLED"`
}

// LoadConfig reads the configuration from WIRELINK_* environment variables.
func LoadConfig() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Getter methods to implement transport.Config.
func (c *Config) GetTransport() string               { return c.Transport }
func (c *Config) GetAddress() string                 { return c.Address }
func (c *Config) GetSecure() bool                    { return c.Secure }
func (c *Config) GetToken() string                   { return c.Token }
func (c *Config) GetHandshakeTimeout() time.Duration { return c.HandshakeTimeout }

func (c Config) String() string {
	// Copy so the bearer token never reaches logs.
	redacted := c
	if redacted.Token != "" {
		redacted.Token = "***REDACTED***"
	}
	type configAlias Config
	return fmt.Sprintf("%+v", configAlias(redacted))
}

// Validate checks the configuration. Zero durations are allowed and fall
// back to the package defaults at construction time.
func (c *Config) Validate() error {
	var errs []error

	errs = append(errs, c.validateTransport()...)
	errs = append(errs, c.validateTimings()...)

	return errors.Join(errs...)
}

func (c *Config) validateTransport() []error {
	if c.Transport == "" {
		return []error{errors.New("transport: name is required")}
	}
	if c.Transport == DefaultTransport && c.Address == "" {
		return []error{errors.New("websocket: address is required")}
	}
	return nil
}

func (c *Config) validateTimings() []error {
	var errs []error
	if c.PendingTTL < 0 {
		errs = append(errs, errors.New("pending: ttl cannot be negative"))
	}
	if c.SweepInterval < 0 {
		errs = append(errs, errors.New("pending: sweep interval cannot be negative"))
	}
	if c.HandshakeTimeout < 0 {
		errs = append(errs, errors.New("transport: handshake timeout cannot be negative"))
	}
	return errs
}

// ValidateConfig is a convenience function to validate a config pointer.
func ValidateConfig(c *Config) error {
	if c == nil {
		return errors.New("config is nil")
	}
	return c.Validate()
}
