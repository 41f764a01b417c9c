package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

// Init configures the global logger. Release mode gets JSON at info
// level; anything else gets a console writer at debug level.
func Init(ginMode string) {
	zerolog.TimestampFieldName = "timestamp"

	if ginMode == "release" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Int("pid", os.Getpid()).
			Logger()
		return
	}

	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	consoleWriter := zerolog.NewConsoleWriter()
	consoleWriter.TimeFormat = time.DateTime
	consoleWriter.Out = os.Stdout
	logger = zerolog.New(consoleWriter).
		With().
		Timestamp().
		Logger()
}

// L returns the configured logger.
func L() *zerolog.Logger {
	return &logger
}
