// Package errors holds the sentinel errors shared across the wirelink
// runtime packages.
package errors

import sterrors "errors"

var (
	ErrClientRequired     = sterrors.New("wirelink: client is required")
	ErrConfigRequired     = sterrors.New("wirelink: config is required")
	ErrLoggerRequired     = sterrors.New("wirelink: logger is required")
	ErrHandlerRequired    = sterrors.New("wirelink: handler is required")
	ErrRouteKeyRequired   = sterrors.New("wirelink: route key is required")
	ErrEnvelopeRequired   = sterrors.New("wirelink: envelope is required")
	ErrEnvelopeIDRequired = sterrors.New("wirelink: envelope id is required")
)

// ConfigValidationError wraps configuration validation failures so callers
// can distinguish them from wiring errors.
type ConfigValidationError struct {
	Err error
}

func (e ConfigValidationError) Error() string {
	return "wirelink: invalid configuration: " + e.Err.Error()
}

func (e ConfigValidationError) Unwrap() error { return e.Err }

// NewConfigValidationError wraps err in a ConfigValidationError. A nil err
// returns nil.
func NewConfigValidationError(err error) error {
	if err == nil {
		return nil
	}
	return ConfigValidationError{Err: err}
}
