package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// DefaultLevel is the level used until --log-level is parsed.
const DefaultLevel = "warning"

// New constructs a text logger whose level can be changed after construction.
// Source locations are added while the level is debug.
func New(w io.Writer, level *slog.LevelVar) *slog.Logger {
	return slog.New(&levelHandler{
		level: level,
		plain: slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}),
		debug: slog.NewTextHandler(w, &slog.HandlerOptions{Level: level, AddSource: true}),
	})
}

// levelHandler picks a handler per record based on the current level.
type levelHandler struct {
	level *slog.LevelVar
	plain slog.Handler
	debug slog.Handler
}

func (h *levelHandler) current() slog.Handler {
	if h.level.Level() <= slog.LevelDebug {
		return h.debug
	}
	return h.plain
}

func (h *levelHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *levelHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.current().Handle(ctx, r)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{level: h.level, plain: h.plain.WithAttrs(attrs), debug: h.debug.WithAttrs(attrs)}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{level: h.level, plain: h.plain.WithGroup(name), debug: h.debug.WithGroup(name)}
}

// ParseLevel maps a level name to a slog level. Names are case-insensitive.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warning", "warn", "":
		return slog.LevelWarn, nil
	case "error", "critical", "fatal": // map to error semantics
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("log level: unsupported value %q", level)
	}
}
