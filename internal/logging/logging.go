package logging

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type loggerContextKey struct{}

const (
	TimeStampKey = "timestamp"
	MessageKey   = "message"
)

var (
	mu           sync.Mutex
	debugEnabled atomic.Bool
	level        = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	globalZap  *zap.Logger
	globalLogr *logr.Logger

	noop = logr.Discard()
)

// Get returns the process-wide logger, building it on first use. Output is
// JSON on stderr.
func Get() *logr.Logger {
	mu.Lock()
	defer mu.Unlock()
	if globalLogr != nil {
		return globalLogr
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.TimeKey = TimeStampKey
	encoderCfg.MessageKey = MessageKey

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		level,
	)
	globalZap = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
	l := zapr.NewLogger(globalZap)
	globalLogr = &l
	return globalLogr
}

// Use replaces the process-wide logger. Tests use it to capture output.
func Use(l logr.Logger) {
	mu.Lock()
	globalLogr = &l
	mu.Unlock()
}

// EnableDebug turns on verbose (V(1)) logging.
func EnableDebug() {
	debugEnabled.Store(true)
	level.SetLevel(zapcore.DebugLevel)
	Get().V(1).Info("debug logging enabled")
}

// DebugEnabled reports whether debug logging is active.
func DebugEnabled() bool {
	return debugEnabled.Load()
}

// Debugf emits a formatted debug message when debugging is enabled.
func Debugf(format string, args ...interface{}) {
	if !DebugEnabled() {
		return
	}
	Get().V(1).Info(fmt.Sprintf(format, args...))
}

// WithLogger attaches l to ctx.
func WithLogger(ctx context.Context, l *logr.Logger) context.Context {
	if existing, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok && existing == l {
		return ctx
	}
	return context.WithValue(ctx, loggerContextKey{}, l)
}

// FromContext returns the logger stored in ctx, falling back to the global one
// and finally to a discard logger.
func FromContext(ctx context.Context) *logr.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok {
			return l
		}
	}
	mu.Lock()
	defer mu.Unlock()
	if globalLogr != nil {
		return globalLogr
	}
	return &noop
}

// Sync flushes buffered entries. Errors from syncing a terminal or pipe are
// ignored.
func Sync() {
	mu.Lock()
	z := globalZap
	mu.Unlock()
	if z == nil {
		return
	}
	if err := z.Sync(); err != nil && !isIgnorableSyncError(err) {
		fmt.Fprintf(os.Stderr, "WARNING: failed to sync logger: %v\n", err)
	}
}

func isIgnorableSyncError(err error) bool {
	if errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.EBADF) {
		return true
	}
	return strings.Contains(err.Error(), "The handle is invalid")
}
