// Package logging builds the slog logger shared by pmc components.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// Options configure New.
type Options struct {
	// Writer receives human-readable records; usually stderr.
	Writer io.Writer
	// Level applies to Writer. The file handler always records debug.
	Level slog.Leveler
	// File, when set, receives every record as JSON lines (appended).
	File string
}

// New returns a logger fanning out to a text handler on opts.Writer and,
// optionally, a JSON handler on opts.File. The returned close function
// releases the file and is safe to call when no file was opened.
func New(opts Options) (*slog.Logger, func() error, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}
	level := opts.Level
	if level == nil {
		level = slog.LevelWarn
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(writer, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: dropTime,
		}),
	}

	closeFn := func() error { return nil }
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, closeFn, fmt.Errorf("opening log file %s: %w", opts.File, err)
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		closeFn = f.Close
	}

	return slog.New(slogmulti.Fanout(handlers...)), closeFn, nil
}

func dropTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}
