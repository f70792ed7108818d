package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the global logger instance
var Log = logrus.New()

type Options struct {
	Level       string
	Environment string
	// File enables a rotating file sink in addition to stdout.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Init configures the global logger; it is safe to call more than once.
func Init(opts Options) *logrus.Logger {
	var out io.Writer = os.Stdout
	if opts.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			LocalTime:  true,
		})
	}
	Log.SetOutput(out)

	level, err := logrus.ParseLevel(strings.ToLower(opts.Level))
	if err != nil {
		Log.Warnf("Invalid log level '%s', defaulting to 'info'. Error: %v", opts.Level, err)
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	Log.SetFormatter(formatterFor(opts.Environment))

	Log.WithFields(logrus.Fields{"level": level.String(), "file": opts.File}).Info("logger initialized")
	return Log
}

func formatterFor(env string) logrus.Formatter {
	switch strings.ToLower(env) {
	case "production", "staging":
		return &logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"}
	default:
		return &logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"}
	}
}
