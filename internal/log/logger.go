// Package log provides a global logger with configurable logging level. The intended use is for
// development builds.

package log

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level int

const (
	LevelNone    Level = iota // Disables logging.
	LevelError                // Logs anomalies that are not expected to occur during normal use.
	LevelWarning              // Logs anomalies that are expected to occur occasionally during normal use.
	LevelInfo                 // Logs major events.
	LevelDebug                // Logs detailed IO
)

const loggerName = "VinliNet"

var globalLogLevel Level
var logMutex sync.Mutex
var sugar = newLogger(os.Stderr)

var zapLevels = map[Level]zapcore.Level{
	LevelDebug:   zapcore.DebugLevel,
	LevelInfo:    zapcore.InfoLevel,
	LevelWarning: zapcore.WarnLevel,
	LevelError:   zapcore.ErrorLevel,
}

func newLogger(w zapcore.WriteSyncer) *zap.SugaredLogger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(w), zapcore.DebugLevel)
	return zap.New(core).Named(loggerName).Sugar()
}

// SetOutput redirects log output to w. Intended for tests.
func SetOutput(w zapcore.WriteSyncer) {
	logMutex.Lock()
	defer logMutex.Unlock()
	sugar = newLogger(w)
}

func SetLevel(level Level) {
	logMutex.Lock()
	defer logMutex.Unlock()
	globalLogLevel = level
}

func logger(level Level) *zap.SugaredLogger {
	logMutex.Lock()
	defer logMutex.Unlock()
	if level > globalLogLevel {
		return nil
	}
	return sugar
}

func log(level Level, format string, a ...interface{}) {
	if l := logger(level); l != nil {
		l.Logf(zapLevels[level], format, a...)
	}
}

func Debug(format string, a ...interface{}) {
	log(LevelDebug, format, a...)
}
func Info(format string, a ...interface{}) {
	log(LevelInfo, format, a...)
}
func Warning(format string, a ...interface{}) {
	log(LevelWarning, format, a...)
}
func Error(format string, a ...interface{}) {
	log(LevelError, format, a...)
}
