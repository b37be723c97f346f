package config

import (
	"io"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/rs/zerolog"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// ParseLevel maps the configured level name to a zerolog level
func (l LogConfig) ParseLevel() (zerolog.Level, error) {
	switch l.Level {
	case "debug", "info", "warn", "error":
		return zerolog.ParseLevel(l.Level)
	default:
		return zerolog.NoLevel, errorsmod.Wrapf(core.ErrInvalidConfig, "log.level must be one of debug, info, warn, error; got %q", l.Level)
	}
}

// NewLogger builds a logger writing to w, with a console writer when Pretty is set
func (l LogConfig) NewLogger(w io.Writer) (zerolog.Logger, error) {
	level, err := l.ParseLevel()
	if err != nil {
		return zerolog.Nop(), err
	}

	if l.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
