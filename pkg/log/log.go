package log

import (
	"io"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zerologr"
	"github.com/rs/zerolog"
)

// New creates a zerolog logger writing to stderr, with console formatting
// unless running inside Kubernetes. verbosity is the highest logr V-level
// that is emitted.
func New(verbosity int) *zerolog.Logger {
	var output io.Writer
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		output = os.Stderr
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02T15:04:05.999Z07:00"}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	// zerologr emits V(n) at zerolog level 1-n: V(0) is info, V(1) debug.
	logger := zerolog.New(output).Level(zerolog.Level(1 - verbosity)).With().Timestamp().Logger()
	return &logger
}

// NewLogr wraps New for libraries logging through logr.
func NewLogr(verbosity int) logr.Logger {
	zerologr.NameFieldName = "logger"
	zerologr.NameSeparator = "/"
	zerologr.SetMaxV(verbosity)
	return zerologr.New(New(verbosity))
}
