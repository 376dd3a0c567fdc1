package core

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// ParseLogLevel maps a config string to a LogLevel. Unknown values map to info.
func ParseLogLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func (l LogLevel) charm() log.Level {
	switch l {
	case DebugLevel:
		return log.DebugLevel
	case WarnLevel:
		return log.WarnLevel
	case ErrorLevel:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// LogConfig configures the engine logger. File is optional; when set, log
// lines are also written to a size-rotated file.
type LogConfig struct {
	Level      LogLevel
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

var once sync.Once

type logger struct {
	*log.Logger
	file *lumberjack.Logger
}

var singleton *logger

func getLogger() *logger {
	once.Do(
		func() {
			l := log.NewWithOptions(os.Stderr, log.Options{
				ReportCaller:    true,
				ReportTimestamp: true,
				TimeFormat:      time.RFC3339,
				Prefix:          "Shell 🐚 ",
			})
			l.SetLevel(log.InfoLevel)
			l.SetCallerOffset(1)
			singleton = &logger{Logger: l}
		})
	return singleton
}

// LogInitialize applies the logging configuration. It can be called again to
// change the level or the file sink.
func LogInitialize(cfg LogConfig) {
	l := getLogger()
	if l.file != nil {
		_ = l.file.Close()
		l.file = nil
	}

	var out io.Writer = os.Stderr
	if cfg.File != "" {
		l.file = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			LocalTime:  true,
		}
		out = io.MultiWriter(os.Stderr, l.file)
	}
	l.SetOutput(out)
	l.SetLevel(cfg.Level.charm())
}

// LogSetOutput redirects the logger, mostly useful in tests.
func LogSetOutput(w io.Writer) {
	getLogger().SetOutput(w)
}

// Logger returns the underlying logger so subsystems can derive prefixed
// sub-loggers with With.
func Logger() *log.Logger {
	return getLogger().Logger
}

// SubLogger derives a logger carrying keyvals on every line, for callers
// that log through the returned value directly.
func SubLogger(keyvals ...interface{}) *log.Logger {
	sub := getLogger().With(keyvals...)
	sub.SetCallerOffset(0)
	return sub
}

// LogShutdown flushes and closes the file sink, if any.
func LogShutdown() error {
	l := getLogger()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

func LogDebug(msg string, args ...interface{}) {
	getLogger().Debugf(msg, args...)
}

func LogInfo(msg string, args ...interface{}) {
	getLogger().Infof(msg, args...)
}

func LogWarn(msg string, args ...interface{}) {
	getLogger().Warnf(msg, args...)
}

func LogError(msg string, args ...interface{}) {
	getLogger().Errorf(msg, args...)
}

func LogFatal(msg string, args ...interface{}) {
	getLogger().Fatalf(msg, args...)
}
