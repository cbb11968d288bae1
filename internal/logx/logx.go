package logx

import (
	"os"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logger atomic.Pointer[zap.SugaredLogger]
)

func init() {
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stdout), level)
	logger.Store(zap.New(core).Sugar())
}

// SetLevelFromString accepts debug|info|warn|error; anything else means info.
func SetLevelFromString(s string) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		level.SetLevel(zapcore.DebugLevel)
	case "warn", "warning":
		level.SetLevel(zapcore.WarnLevel)
	case "err", "error":
		level.SetLevel(zapcore.ErrorLevel)
	default:
		level.SetLevel(zapcore.InfoLevel)
	}
}

// Level returns the current level name.
func Level() string { return level.Level().String() }

// SetLogger replaces the backing logger, e.g. zap.NewNop() in tests.
func SetLogger(l *zap.Logger) { logger.Store(l.Sugar()) }

func Debugf(format string, args ...any) { logger.Load().Debugf(format, args...) }
func Infof(format string, args ...any)  { logger.Load().Infof(format, args...) }
func Warnf(format string, args ...any)  { logger.Load().Warnf(format, args...) }
func Errorf(format string, args ...any) { logger.Load().Errorf(format, args...) }

// Warnw logs with structured key/value pairs.
func Warnw(msg string, kv ...any) { logger.Load().Warnw(msg, kv...) }

func Sync() { _ = logger.Load().Sync() }
