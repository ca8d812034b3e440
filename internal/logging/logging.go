package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is a structured logger with a small key-value API.
type Logger struct {
	log *logrus.Logger
}

// Options control where and how log lines are written.
type Options struct {
	Level  string
	Format string // "text" or "json"
	File   string // when set, lines also go to a size-rotated file
}

// NewLogger creates a console logger with default settings.
func NewLogger() *Logger {
	return NewLoggerWith(Options{Level: "info", Format: "text"})
}

// NewLoggerWith creates a logger configured by the given options.
func NewLoggerWith(opts Options) *Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if opts.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	var out io.Writer = os.Stdout
	if opts.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	}
	l.SetOutput(out)

	return &Logger{log: l}
}

// Info logs an informational message with optional key-value pairs.
func (l *Logger) Info(msg string, args ...interface{}) {
	l.log.WithFields(fields(args)).Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.log.WithFields(fields(args)).Warn(msg)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...interface{}) {
	l.log.WithFields(fields(args)).Error(msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...interface{}) {
	l.log.WithFields(fields(args)).Debug(msg)
}

// fields folds a trailing key-value list into logrus fields. A dangling
// value without a key is kept under "extra" rather than dropped.
func fields(args []interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", args[i])
		}
		f[key] = args[i+1]
	}
	if len(args)%2 == 1 {
		f["extra"] = args[len(args)-1]
	}
	return f
}
