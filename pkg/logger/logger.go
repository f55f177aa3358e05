package logger

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceName is attached to every entry written by the package logger.
const ServiceName = "airdrop_backend"

var log *zap.Logger

// NewConfig returns the JSON production config used by both the ledger API
// and the verification bot. Entries go to stderr so stdout stays free for
// the process supervisor.
func NewConfig(level zapcore.Level) zap.Config {
	return zap.Config{
		Encoding:          "json",
		Level:             zap.NewAtomicLevelAt(level),
		DisableStacktrace: level > zapcore.DebugLevel,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		InitialFields:     map[string]interface{}{"service": ServiceName},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:     "message",
			LevelKey:       "level",
			TimeKey:        "time",
			NameKey:        "logger",
			CallerKey:      "caller",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
	}
}

// Initialize builds the package logger for logLevel ("debug", "info", ...).
func Initialize(logLevel string) error {
	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", logLevel)
	}

	built, err := NewConfig(level).Build()
	if err != nil {
		return errors.Wrap(err, "build logger")
	}
	log = built
	return nil
}

// Set replaces the package logger. Tests use it to install an observer core.
func Set(l *zap.Logger) {
	log = l
}

// Logger returns the package logger, or a no-op logger before Initialize.
func Logger() *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}

func Sync() error {
	if log == nil {
		return nil
	}
	return log.Sync()
}
