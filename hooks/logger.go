package hooks

import (
	"fmt"
	"log/slog"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Skryldev/image-scaler/core"
)

// ── Structured logger adapters ────────────────────────────────────────────────

// SlogLogger wraps the standard library slog.Logger to satisfy core.Logger.
type SlogLogger struct {
	log *slog.Logger
}

// NewSlogLogger creates a logger backed by slog.
func NewSlogLogger(l *slog.Logger) *SlogLogger { return &SlogLogger{log: l} }

func (s *SlogLogger) Debug(msg string, fields ...interface{}) { s.log.Debug(msg, fields...) }
func (s *SlogLogger) Info(msg string, fields ...interface{})  { s.log.Info(msg, fields...) }
func (s *SlogLogger) Warn(msg string, fields ...interface{})  { s.log.Warn(msg, fields...) }
func (s *SlogLogger) Error(msg string, fields ...interface{}) { s.log.Error(msg, fields...) }

// ZapLogger adapts a *zap.Logger to core.Logger.  Fields are alternating
// key/value pairs, as with zap's SugaredLogger.
type ZapLogger struct {
	sl *zap.SugaredLogger
}

// NewZapLogger wraps zl.
func NewZapLogger(zl *zap.Logger) *ZapLogger { return &ZapLogger{sl: zl.Sugar()} }

func (z *ZapLogger) Debug(msg string, fields ...interface{}) { z.sl.Debugw(msg, fields...) }
func (z *ZapLogger) Info(msg string, fields ...interface{})  { z.sl.Infow(msg, fields...) }
func (z *ZapLogger) Warn(msg string, fields ...interface{})  { z.sl.Warnw(msg, fields...) }
func (z *ZapLogger) Error(msg string, fields ...interface{}) { z.sl.Errorw(msg, fields...) }

// Sync flushes buffered entries.
func (z *ZapLogger) Sync() error { return z.sl.Sync() }

// Zap returns the underlying logger.
func (z *ZapLogger) Zap() *zap.Logger { return z.sl.Desugar() }

// ZapConfig configures NewZap.
type ZapConfig struct {
	Level string // debug, info, warn, error
	// File, when set, receives JSON entries rotated by lumberjack; otherwise
	// console entries go to stderr.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// NewZap builds a ZapLogger from cfg.
func NewZap(cfg ZapConfig) (*ZapLogger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("hooks: log level %q: %w", cfg.Level, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var zc zapcore.Core
	if cfg.File != "" {
		w := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    orDefault(cfg.MaxSizeMB, 50),
			MaxBackups: orDefault(cfg.MaxBackups, 3),
			MaxAge:     orDefault(cfg.MaxAgeDays, 28),
			Compress:   cfg.Compress,
		})
		zc = zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), w, level)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zc = zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), level)
	}
	return NewZapLogger(zap.New(zc)), nil
}

func orDefault(v, d int) int {
	if v <= 0 {
		return d
	}
	return v
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}

var (
	_ core.Logger = (*SlogLogger)(nil)
	_ core.Logger = (*ZapLogger)(nil)
	_ core.Logger = NopLogger{}
)
