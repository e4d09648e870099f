package log

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger *zap.SugaredLogger = zap.NewNop().Sugar()
)

// Init builds the process logger at the given level ("debug", "info",
// "warn", "error"). Invalid or empty levels fall back to info. Debug level
// switches to the development encoder for readable console output.
func Init(logLevel string) error {
	logLevel = strings.ToLower(strings.TrimSpace(logLevel))
	if logLevel == "" {
		logLevel = "info"
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		level = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.MessageKey = "message"

	if level == zapcore.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}

	mu.Lock()
	logger = l.Sugar()
	mu.Unlock()
	return nil
}

// Sync flushes any buffered log entries.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = logger.Sync()
}

func Debug(msg string, kv ...any) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Debugw(msg, kv...)
}

func Info(msg string, kv ...any) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Infow(msg, kv...)
}

func Warn(msg string, kv ...any) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Warnw(msg, kv...)
}

// Error logs an error message; err is prepended to the key-value list.
func Error(msg string, err error, kv ...any) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Errorw(msg, append([]any{"err", err}, kv...)...)
}

func Fatal(msg string, kv ...any) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Fatalw(msg, kv...)
}
