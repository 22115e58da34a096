package acqlog

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Callback is the host application's logger sink, invoked for every log
// record alongside zap's own encoders. It mirrors the original core's
// (is_error, file, line, function, message) signature.
type Callback func(isError bool, file string, line int, function string, message string)

// Logger wraps a *zap.Logger and optionally forwards every record to a host
// Callback.
type Logger struct {
	zl *zap.Logger
}

// New builds a Logger. production selects JSON output suitable for a
// deployed daemon; otherwise console output suitable for cmd/acqctl. A nil
// callback disables host forwarding.
func New(production bool, callback Callback) (*Logger, error) {
	var cfg zap.Config
	if production {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zl, err := cfg.Build(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		if callback == nil {
			return core
		}
		return &callbackCore{Core: core, callback: callback}
	}))
	if err != nil {
		return nil, fmt.Errorf("acqlog: build logger: %w", err)
	}
	return &Logger{zl: zl}, nil
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() {
	if l != nil && l.zl != nil {
		_ = l.zl.Sync()
	}
}

func (l *Logger) Info(msg string, fields ...zap.Field)  { l.zl.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...zap.Field)  { l.zl.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...zap.Field) { l.zl.Error(msg, fields...) }
func (l *Logger) Debug(msg string, fields ...zap.Field) { l.zl.Debug(msg, fields...) }

// Dropped logs the fixed-format line external tooling greps for:
// "Dropped <N>". It is always an Info-level, non-error record — frame drops
// are never treated as failures (SPEC_FULL.md §7, kind 5).
func (l *Logger) Dropped(streamID int, n uint64) {
	l.zl.Info(fmt.Sprintf("Dropped %d", n), zap.Int("stream_id", streamID), zap.Uint64("dropped", n))
}

// With returns a Logger whose records carry the given structured fields,
// e.g. a stream id or device instance id.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{zl: l.zl.With(fields...)}
}

// callbackCore decorates a zapcore.Core, forwarding every checked entry to
// the host callback in addition to whatever the wrapped core does.
type callbackCore struct {
	zapcore.Core
	callback Callback
}

func (c *callbackCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *callbackCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	c.callback(ent.Level >= zapcore.ErrorLevel, ent.Caller.File, ent.Caller.Line, ent.Caller.Function, ent.Message)
	return c.Core.Write(ent, fields)
}

func (c *callbackCore) With(fields []zapcore.Field) zapcore.Core {
	return &callbackCore{Core: c.Core.With(fields), callback: c.callback}
}
