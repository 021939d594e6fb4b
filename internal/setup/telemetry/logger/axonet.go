// Package logger adapts zap to the logging interface of the axonet HTTP client.
package logger

import (
	"github.com/jaxron/axonet/pkg/client/logger"
	"go.uber.org/zap"
)

// Logger implements the axonet logger.Logger interface on top of zap.
// The sugared logger is built once so formatted calls do not rebuild it.
type Logger struct {
	base  *zap.Logger
	sugar *zap.SugaredLogger
}

// New wraps zapLogger for use as the HTTP client's logger. Caller frames
// are skipped past the adapter so log lines point at axonet.
func New(zapLogger *zap.Logger) logger.Logger {
	base := zapLogger.WithOptions(zap.AddCallerSkip(1))

	return &Logger{base: base, sugar: base.Sugar()}
}

func (l *Logger) Debug(msg string) { l.base.Debug(msg) }
func (l *Logger) Info(msg string)  { l.base.Info(msg) }
func (l *Logger) Warn(msg string)  { l.base.Warn(msg) }
func (l *Logger) Error(msg string) { l.base.Error(msg) }

func (l *Logger) Debugf(format string, args ...any) { l.sugar.Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.sugar.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.sugar.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.sugar.Errorf(format, args...) }

// WithFields returns a logger carrying the given axonet fields.
func (l *Logger) WithFields(fields ...logger.Field) logger.Logger {
	if len(fields) == 0 {
		return l
	}

	zapFields := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		zapFields = append(zapFields, zap.Any(f.Key, f.Value))
	}

	base := l.base.With(zapFields...)

	return &Logger{base: base, sugar: base.Sugar()}
}
