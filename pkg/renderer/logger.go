package renderer

import (
	"github.com/rs/zerolog"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// ZerologLogger adapts a zerolog.Logger to core.Logger
type ZerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger wraps logger so progress lines are emitted at info level
func NewZerologLogger(logger zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{logger: logger.With().Str("component", "renderer").Logger()}
}

// Printf implements core.Logger
func (l *ZerologLogger) Printf(format string, args ...interface{}) {
	l.logger.Info().Msgf(format, args...)
}

// NopLogger returns a logger that discards everything
func NopLogger() core.Logger {
	return NewZerologLogger(zerolog.Nop())
}
