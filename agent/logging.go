package main

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// configureLogging points the global logger at stderr. Stdout belongs to
// the game-manager protocol and must never carry log output.
func configureLogging(cfg Config, stderr io.Writer) error {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return errors.Wrapf(err, "log level %q", cfg.LogLevel)
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	out := stderr
	if cfg.LogFormat != "json" {
		out = zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.TimeOnly}
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return nil
}

func componentLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
