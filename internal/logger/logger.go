package logger

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init points the global logger at w with a console writer and sets the level.
// Unknown levels fall back to error.
func Init(w io.Writer, level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	SetLogLevel(level)
}

func SetLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Trace().Str("loglevel", lvl.String()).Msg("log level set")
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}
