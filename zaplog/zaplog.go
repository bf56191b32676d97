// Package zaplog adapts go.uber.org/zap to the pictor.Logger interface.
package zaplog

import (
	"github.com/spetersoncode/pictor"
	"go.uber.org/zap"
)

// Logger wraps a zap logger behind pictor.Logger.
type Logger struct {
	s *zap.SugaredLogger
}

// New adapts l for use as the transport's logger collaborator.
func New(l *zap.Logger) *Logger {
	return &Logger{s: l.Sugar()}
}

// Development returns a Logger backed by zap's development configuration,
// handy for sample programs and debugging.
func Development() (*Logger, error) {
	l, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return New(l), nil
}

func (l *Logger) Debug(msg string, kv ...any) { l.s.Debugw(msg, kv...) }
func (l *Logger) Info(msg string, kv ...any)  { l.s.Infow(msg, kv...) }
func (l *Logger) Warn(msg string, kv ...any)  { l.s.Warnw(msg, kv...) }
func (l *Logger) Error(msg string, kv ...any) { l.s.Errorw(msg, kv...) }

// Sync flushes buffered log entries.
func (l *Logger) Sync() error {
	return l.s.Sync()
}

var _ pictor.Logger = (*Logger)(nil)
