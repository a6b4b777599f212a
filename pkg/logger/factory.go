package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// New creates a logger from cfg. Invalid level or format values fall back
// to info and auto; validate them with ParseLevel and ParseFormat first if
// that matters.
func New(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	level, _ := ParseLevel(cfg.Level)
	format, err := ParseFormat(cfg.Format)
	if err != nil {
		format = FormatAuto
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	handler := localHandler(out, format, level)
	if cfg.Sentry.DSN != "" {
		if sh, err := newSentryHandler(cfg.Sentry); err != nil {
			slog.New(handler).Error("failed to initialize sentry", slog.String("error", err.Error()))
		} else {
			handler = newMultiHandler(handler, sh)
		}
	}

	return slog.New(WithContextAttrs(handler, extractors...))
}

func localHandler(out io.Writer, format string, level slog.Level) slog.Handler {
	if format == FormatAuto {
		format = FormatJSON
		if isTerminal(out) {
			format = FormatText
		}
	}

	if format == FormatJSON {
		return slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	}

	color := isTerminal(out)
	if f, ok := out.(*os.File); ok && color {
		out = colorable.NewColorable(f)
	}
	return tint.NewHandler(out, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
		NoColor:    !color,
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
