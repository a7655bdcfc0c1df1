// Package logging builds the prefixed loggers shared by the CLI and server.
package logging

import (
	"io"
	"log"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Clark-Hu/movie-review/internal/config"
)

// Options controls where log lines are written.
type Options struct {
	Prefix     string
	Console    io.Writer
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// OptionsFromConfig maps runtime configuration onto logger options.
func OptionsFromConfig(cfg config.Config, prefix string) Options {
	return Options{
		Prefix:     prefix,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	}
}

// New returns a logger and a close function releasing the rotated file, if any.
func New(opts Options) (*log.Logger, func() error) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	writer := console
	closer := func() error { return nil }
	if path := strings.TrimSpace(opts.File); path != "" {
		rotating := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}
		writer = io.MultiWriter(console, rotating)
		closer = rotating.Close
	}

	return log.New(writer, opts.Prefix, log.LstdFlags|log.Lshortfile), closer
}

// Discard returns a logger that drops everything; used by tests and quiet commands.
func Discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}
