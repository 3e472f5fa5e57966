package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logger configuration.
type Config struct {
	Level   string
	Pretty  bool
	Output  io.Writer
	Service string
}

// Setup configures the global zerolog logger. Pretty output is for local
// development; production emits JSON lines.
func Setup(cfg Config) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.Service).
		Logger()

	log.Logger = logger
	zerolog.DefaultContextLogger = &logger
}
