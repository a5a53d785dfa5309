// Package logging builds the zap logger used by the CLI.
//
// Console output goes to stderr so stdout stays free for command output
// (the stats table). An optional log file receives every entry as JSON.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures the logger.
type Options struct {
	// Level is the console level: "debug", "info", "warn" or "error".
	Level string

	// Verbose forces the console level to debug.
	Verbose bool

	// Console receives human readable entries. Defaults to os.Stderr.
	Console io.Writer

	// File is an optional JSON log file path. Truncated on open.
	File string
}

// New returns a sugared logger and a close function that flushes and
// closes the log file.
func New(opts Options) (*zap.SugaredLogger, func() error, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	cores := []zapcore.Core{consoleCore(console, level)}

	var file *os.File
	if opts.File != "" {
		file, err = os.OpenFile(opts.File, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		cores = append(cores, fileCore(file))
	}

	logger := zap.New(zapcore.NewTee(cores...))

	closeFn := func() error {
		// Sync on a terminal stderr returns EINVAL on some platforms.
		_ = logger.Sync()
		if file != nil {
			return file.Close()
		}
		return nil
	}

	return logger.Sugar(), closeFn, nil
}

// ParseLevel converts a configured level name to a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
}

// consoleCore writes "LEVEL  message" lines without timestamps.
func consoleCore(w io.Writer, level zapcore.Level) zapcore.Core {
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		LevelKey:    "level",
		MessageKey:  "message",
		EncodeLevel: zapcore.CapitalLevelEncoder,
	})
	return zapcore.NewCore(encoder, zapcore.AddSync(w), level)
}

// fileCore logs everything, including debug, as JSON.
func fileCore(file *os.File) zapcore.Core {
	encoder := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:     "time",
		LevelKey:    "level",
		MessageKey:  "message",
		EncodeLevel: zapcore.LowercaseLevelEncoder,
		EncodeTime:  zapcore.ISO8601TimeEncoder,
	})
	return zapcore.NewCore(encoder, zapcore.AddSync(file), zapcore.DebugLevel)
}
