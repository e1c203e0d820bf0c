package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NewLogger builds the process logger and installs it as the zerolog global.
func NewLogger(cfg LoggingConfig) zerolog.Logger {
	logger := newLogger(cfg, os.Stdout)
	log.Logger = logger
	return logger
}

func newLogger(cfg LoggingConfig, out io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Str("service", "internlog").Logger()
}
