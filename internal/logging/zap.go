package logging

import (
	"slices"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Zap adapts a zap.SugaredLogger to Logger.
type Zap struct {
	s *zap.SugaredLogger
}

// Verify Zap implements Logger.
var _ Logger = (*Zap)(nil)

// NewZap returns a JSON logger at the given level. "none" disables output.
func NewZap(level string) (*Zap, error) {
	if level == LevelNone {
		return NewZapFrom(zap.NewNop()), nil
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return NewZapFrom(l), nil
}

// NewZapFrom wraps an existing zap logger.
func NewZapFrom(l *zap.Logger) *Zap {
	return &Zap{s: l.Sugar()}
}

func (z *Zap) Debug(msg string, kv ...any) { z.s.Debugw(msg, kv...) }
func (z *Zap) Info(msg string, kv ...any)  { z.s.Infow(msg, kv...) }
func (z *Zap) Warn(msg string, kv ...any)  { z.s.Warnw(msg, kv...) }
func (z *Zap) Error(msg string, kv ...any) { z.s.Errorw(msg, kv...) }

// Success is logged at info level with outcome=success.
func (z *Zap) Success(msg string, kv ...any) {
	z.s.Infow(msg, slices.Concat(kv, []any{"outcome", "success"})...)
}

func (z *Zap) With(kv ...any) Logger {
	return &Zap{s: z.s.With(kv...)}
}

// Sync flushes buffered entries.
func (z *Zap) Sync() error {
	return z.s.Sync()
}
