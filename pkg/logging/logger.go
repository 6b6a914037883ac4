package logging

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	globalLogger *zap.Logger
	once         sync.Once
)

// Config controls the logger's level and optional file output.
type Config struct {
	Level      string // debug, info, warn, error
	OutputPath string // empty disables the file core
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Init builds the process-wide logger. Safe to call more than once; only the
// first call takes effect.
func Init(cfg Config) {
	once.Do(func() {
		var level zapcore.Level
		switch cfg.Level {
		case "debug":
			level = zapcore.DebugLevel
		case "warn":
			level = zapcore.WarnLevel
		case "error":
			level = zapcore.ErrorLevel
		default:
			level = zapcore.InfoLevel
		}

		encoderConfig := zapcore.EncoderConfig{
			TimeKey:        "timestamp",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.RFC3339TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		}

		cores := []zapcore.Core{
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(encoderConfig),
				zapcore.AddSync(os.Stdout),
				level,
			),
		}

		if cfg.OutputPath != "" {
			if err := os.MkdirAll(filepath.Dir(cfg.OutputPath), 0755); err == nil {
				fileWriter := zapcore.AddSync(&lumberjack.Logger{
					Filename:   cfg.OutputPath,
					MaxSize:    cfg.MaxSizeMB,
					MaxBackups: cfg.MaxBackups,
					MaxAge:     cfg.MaxAgeDays,
					Compress:   true,
				})
				cores = append(cores, zapcore.NewCore(
					zapcore.NewJSONEncoder(encoderConfig),
					fileWriter,
					level,
				))
			}
		}

		globalLogger = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	})
}

// Get returns the process-wide logger, initializing a default one if Init was
// never called.
func Get() *zap.Logger {
	if globalLogger == nil {
		Init(Config{Level: "info"})
	}
	return globalLogger
}

// Sync flushes buffered log entries. Call before exit.
func Sync() {
	if globalLogger != nil {
		_ = globalLogger.Sync()
	}
}
