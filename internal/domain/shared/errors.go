package shared

import "fmt"

// ConfigError is fatal at startup: missing hub, unknown aircraft reference,
// unparsable static table.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return "config: " + e.Message
}

func NewConfigError(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}

// TransportError is a recoverable network-level failure (connection error,
// 5xx, timeout). The API client retries these before giving up.
type TransportError struct {
	Message  string
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s (after %d attempts)", e.Message, e.Attempts)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError is fatal: the server rejected our submission (HTTP 400), lost
// the session (404), or the payload did not match the schema. Retrying would
// repeat the same bug.
type ProtocolError struct {
	StatusCode int
	Message    string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol: HTTP %d: %s", e.StatusCode, e.Message)
}

func NewProtocolError(status int, format string, args ...interface{}) *ProtocolError {
	return &ProtocolError{StatusCode: status, Message: fmt.Sprintf(format, args...)}
}

// ValidationError means a decision could not be made valid even by repair.
// It aborts the round.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
