// Package swarmlog defines the narrow structured-logging interface used
// throughout the swarm packages, backed by go.uber.org/zap.
package swarmlog

import "go.uber.org/zap"

// Logger is the structured logger every constructor in this module
// accepts. Keeping it narrow (rather than depending on *zap.Logger
// directly) lets callers substitute NewNoOpLogger in tests and lets
// any zap-compatible backend satisfy it.
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	With(fields ...zap.Field) Logger
}

type zapLogger struct {
	inner *zap.Logger
}

// New wraps an existing *zap.Logger as a Logger.
func New(inner *zap.Logger) Logger {
	return &zapLogger{inner: inner}
}

// NewProduction builds a Logger using zap's production defaults (JSON
// encoding, info level).
func NewProduction() (Logger, error) {
	z, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return New(z), nil
}

// NewDevelopment builds a Logger using zap's development defaults
// (console encoding, debug level, stack traces on warn+).
func NewDevelopment() (Logger, error) {
	z, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return New(z), nil
}

func (l *zapLogger) Debug(msg string, fields ...zap.Field) { l.inner.Debug(msg, fields...) }
func (l *zapLogger) Info(msg string, fields ...zap.Field)  { l.inner.Info(msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...zap.Field)  { l.inner.Warn(msg, fields...) }
func (l *zapLogger) Error(msg string, fields ...zap.Field) { l.inner.Error(msg, fields...) }

func (l *zapLogger) With(fields ...zap.Field) Logger {
	return &zapLogger{inner: l.inner.With(fields...)}
}

// noopLogger discards everything. Used as the default in tests and in
// constructors that receive a nil Logger.
type noopLogger struct{}

// NewNoOpLogger returns a Logger that discards all output.
func NewNoOpLogger() Logger {
	return noopLogger{}
}

func (noopLogger) Debug(string, ...zap.Field) {}
func (noopLogger) Info(string, ...zap.Field)  {}
func (noopLogger) Warn(string, ...zap.Field)  {}
func (noopLogger) Error(string, ...zap.Field) {}
func (n noopLogger) With(...zap.Field) Logger { return n }

// OrNoOp returns l if non-nil, otherwise a no-op Logger. Constructors
// use this so a nil Logger argument is always safe to call methods on.
func OrNoOp(l Logger) Logger {
	if l == nil {
		return NewNoOpLogger()
	}
	return l
}
