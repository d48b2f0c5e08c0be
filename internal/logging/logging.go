// Package logging builds the zerolog logger shared by the CLI and library
// adapters.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options selects the level, format and destination of log output.
type Options struct {
	Level  string
	Format string
	Writer io.Writer
}

// New returns a logger writing to opts.Writer (stderr by default). Format
// "text" uses the console writer; anything else emits JSON lines.
func New(opts Options) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if raw := strings.TrimSpace(opts.Level); raw != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(raw))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("logging: %w", err)
		}
		level = parsed
	}

	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}
	if strings.EqualFold(opts.Format, "text") {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.Kitchen, NoColor: !isTerminal(writer)}
	}

	return zerolog.New(writer).Level(level).With().Timestamp().Logger(), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
