// Package log provides a global logger with configurable logging level. Messages are written to
// stderr so they never mix with activation codes printed on stdout.

package log

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level int

const (
	LevelNone    Level = iota // Disables logging.
	LevelError                // Logs failures that end a command, e.g. an unusable BLE adapter.
	LevelWarning              // Logs recoverable problems, e.g. a BLE device that fails to stop.
	LevelInfo                 // Logs major events.
	LevelDebug                // Logs every derivation step
)

const timeLayout = "2006-01-02 15:04:05.000"

var (
	globalLogLevel Level
	logMutex       sync.Mutex
	sugar          = newSugar(os.Stderr)
)

func newSugar(w io.Writer) *zap.SugaredLogger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:          "ts",
		LevelKey:         "level",
		MessageKey:       "msg",
		EncodeTime:       zapcore.TimeEncoderOfLayout(timeLayout),
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		ConsoleSeparator: " ",
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), zapcore.DebugLevel)
	return zap.New(core).Sugar()
}

func SetLevel(level Level) {
	logMutex.Lock()
	defer logMutex.Unlock()
	globalLogLevel = level
}

// SetOutput redirects log messages to w.
func SetOutput(w io.Writer) {
	logMutex.Lock()
	defer logMutex.Unlock()
	sugar = newSugar(w)
}

func logger(level Level) *zap.SugaredLogger {
	logMutex.Lock()
	defer logMutex.Unlock()
	if level > globalLogLevel {
		return nil
	}
	return sugar
}

func Debug(format string, a ...interface{}) {
	if l := logger(LevelDebug); l != nil {
		l.Debugf(format, a...)
	}
}

func Info(format string, a ...interface{}) {
	if l := logger(LevelInfo); l != nil {
		l.Infof(format, a...)
	}
}

func Warning(format string, a ...interface{}) {
	if l := logger(LevelWarning); l != nil {
		l.Warnf(format, a...)
	}
}

func Error(format string, a ...interface{}) {
	if l := logger(LevelError); l != nil {
		l.Errorf(format, a...)
	}
}
