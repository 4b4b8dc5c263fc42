package log

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"go.opentelemetry.io/otel/trace"

	charmlog "github.com/charmbracelet/log"
)

type (
	Format string

	contextKey struct{}
)

const (
	FormatJSON   Format = "json"
	FormatLogfmt Format = "logfmt"
	FormatText   Format = "text"

	// Characters of the trace ID attached to records.
	traceIDLength = 8
)

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrUnknownLogLevel  = errors.New("unknown log level")
	ErrUnknownLogFormat = errors.New("unknown log format")

	AllFormats = []string{string(FormatJSON), string(FormatLogfmt), string(FormatText)}
	AllLevels  = []string{"error", "warn", "info", "debug"}

	levels = map[string]slog.Level{
		"error":   slog.LevelError,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"info":    slog.LevelInfo,
		"debug":   slog.LevelDebug,
	}
)

// CreateHandlerWithStrings creates a [slog.Handler] from flag values. Both
// are case-insensitive.
func CreateHandlerWithStrings(w io.Writer, level, format string) (slog.Handler, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	f, err := ParseFormat(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	return CreateHandler(w, lvl, f), nil
}

// CreateHandler creates a [slog.Handler] writing records of at least lvl to
// w. The text format is colored when w supports it.
func CreateHandler(w io.Writer, lvl slog.Level, f Format) slog.Handler {
	opts := &slog.HandlerOptions{AddSource: true, Level: lvl}

	switch f {
	case FormatJSON:
		return slog.NewJSONHandler(w, opts)
	case FormatLogfmt:
		return slog.NewTextHandler(w, opts)
	case FormatText:
		return newTextHandler(w, lvl)
	}

	return nil
}

func ParseLevel(s string) (slog.Level, error) {
	lvl, ok := levels[strings.ToLower(s)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLogLevel, s)
	}

	return lvl, nil
}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	switch f {
	case FormatJSON, FormatLogfmt, FormatText:
		return f, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownLogFormat, s)
}

func newTextHandler(w io.Writer, lvl slog.Level) *charmlog.Logger {
	logger := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           charmlog.Level(int32(lvl)), //nolint:gosec // G115: slog levels fit.
		Formatter:       charmlog.TextFormatter,
		ReportTimestamp: true,
		ReportCaller:    true,
		TimeFormat:      time.StampMilli,
	})
	logger.SetColorProfile(termenv.NewOutput(w).ColorProfile())

	return logger
}

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// WithContext returns the logger stored in ctx by [NewContext], or the
// default logger. Records get a short trace_id when ctx holds a sampled
// span, so fetches can be matched to exported traces.
func WithContext(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(contextKey{}).(*slog.Logger)
	if !ok {
		logger = slog.Default()
	}

	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return logger
	}

	id := sc.TraceID().String()

	return logger.With(slog.String("trace_id", id[:min(len(id), traceIDLength)]))
}
