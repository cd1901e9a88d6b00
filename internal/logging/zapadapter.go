package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapAdapter exposes the service Logger as a zapcore.Core so libraries built
// against zap log through the same JSON pipeline.
type ZapAdapter struct {
	logger *Logger
}

// NewZapAdapter creates a zapcore.Core forwarding to logger.
func NewZapAdapter(logger *Logger) *ZapAdapter {
	return &ZapAdapter{logger: logger}
}

// NewZapLogger returns a *zap.Logger backed by the service Logger.
func NewZapLogger(logger *Logger) *zap.Logger {
	return zap.New(NewZapAdapter(logger))
}

func zapLevel(level zapcore.Level) Level {
	switch level {
	case zapcore.DebugLevel:
		return DebugLevel
	case zapcore.InfoLevel:
		return InfoLevel
	case zapcore.WarnLevel:
		return WarnLevel
	default:
		return ErrorLevel
	}
}

// Enabled implements zapcore.Core.
func (a *ZapAdapter) Enabled(level zapcore.Level) bool {
	return a.logger.enabled(zapLevel(level))
}

// With implements zapcore.Core.
func (a *ZapAdapter) With(fields []zapcore.Field) zapcore.Core {
	return &ZapAdapter{logger: a.logger.WithFields(fieldMap(fields))}
}

// Check implements zapcore.Core.
func (a *ZapAdapter) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if a.Enabled(ent.Level) {
		return ce.AddCore(ent, a)
	}
	return ce
}

// Write implements zapcore.Core.
func (a *ZapAdapter) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	fm := fieldMap(fields)
	switch zapLevel(ent.Level) {
	case DebugLevel:
		a.logger.Debug(ent.Message, fm)
	case InfoLevel:
		a.logger.Info(ent.Message, fm)
	case WarnLevel:
		a.logger.Warn(ent.Message, fm)
	default:
		a.logger.Error(ent.Message, fm)
	}
	return nil
}

// Sync implements zapcore.Core; the underlying writer is unbuffered.
func (a *ZapAdapter) Sync() error { return nil }

func fieldMap(fields []zapcore.Field) map[string]interface{} {
	if len(fields) == 0 {
		return nil
	}
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}
	return enc.Fields
}
