package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

var (
	mu    sync.RWMutex
	sugar = zap.NewNop().Sugar()
)

// Init builds the process logger. "production" logs JSON at info level, anything else
// logs human-readable output at debug level.
func Init(env string) {
	var cfg zap.Config
	switch strings.ToLower(env) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		l = zap.NewExample()
	}

	mu.Lock()
	sugar = l.Sugar()
	mu.Unlock()
}

func Sync() {
	_ = current().Sync()
}

// With returns a child logger for direct use, so the wrapper caller skip is undone.
func With(keysAndValues ...interface{}) *zap.SugaredLogger {
	return current().WithOptions(zap.AddCallerSkip(-1)).With(normalize(keysAndValues)...)
}

func Debug(msg string, keysAndValues ...interface{}) {
	current().Debugw(msg, normalize(keysAndValues)...)
}

func Info(msg string, keysAndValues ...interface{}) {
	current().Infow(msg, normalize(keysAndValues)...)
}

func Warn(msg string, keysAndValues ...interface{}) {
	current().Warnw(msg, normalize(keysAndValues)...)
}

func Error(msg string, keysAndValues ...interface{}) {
	current().Errorw(msg, normalize(keysAndValues)...)
}

func Fatal(msg string, keysAndValues ...interface{}) {
	current().Fatalw(msg, normalize(keysAndValues)...)
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// normalize lets callers pass a bare error, e.g. logger.Error("failed", err).
func normalize(kv []interface{}) []interface{} {
	if len(kv) == 0 {
		return kv
	}
	if _, isKey := kv[0].(string); !isKey {
		return append([]interface{}{"error"}, kv...)
	}
	return kv
}
