package logger

import (
	"os"

	"flash-me/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var log = zap.NewNop()

// New builds a logger from the given configuration. Logs go to stderr, and to a
// rotating file as well when loggerCfg.File is set.
func New(loggerCfg config.LoggerConfig) (*zap.Logger, error) {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	logLevel, err := zapcore.ParseLevel(loggerCfg.Level)
	if err != nil {
		logLevel = zapcore.InfoLevel
	}

	var encoder zapcore.Encoder
	if loggerCfg.Env == "production" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	// stdout carries command output, so logs stay on stderr.
	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), logLevel),
	}
	if loggerCfg.File != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   loggerCfg.File,
			MaxSize:    loggerCfg.MaxSizeMB,
			MaxBackups: loggerCfg.MaxBackups,
			MaxAge:     loggerCfg.MaxAgeDays,
			Compress:   true,
		}
		// Files are always JSON so they can be shipped as-is.
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			zapcore.AddSync(fileWriter),
			logLevel,
		))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// Initialize sets up the global logger with the given configuration
func Initialize(loggerCfg config.LoggerConfig) error {
	l, err := New(loggerCfg)
	if err != nil {
		return err
	}
	log = l
	return nil
}

// Get returns the global logger instance
func Get() *zap.Logger {
	return log
}

// Sync flushes any buffered log entries
func Sync() error {
	return log.Sync()
}
