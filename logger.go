package pictor

// Logger is an optional collaborator for structured attempt logging.
// Key-value pairs alternate keys and values, matching the sugared style
// of common structured loggers. Absence is valid: the transport falls
// back to a no-op implementation.
//
// The zaplog subpackage adapts go.uber.org/zap to this interface.
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger { return nopLogger{} }
