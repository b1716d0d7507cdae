package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

type LogType string

const (
	TypeCommand   LogType = "CMD"
	TypeDB        LogType = "DB"
	TypeSystem    LogType = "SYS"
	TypeError     LogType = "ERR"
	TypeGiveaway  LogType = "GAW"
	TypeStarboard LogType = "STAR"
)

var (
	debugColor = color.New(color.FgMagenta)
	infoColor  = color.New(color.FgGreen)
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed)
	typeColor  = color.New(color.FgCyan)
	baseColor  = color.New(color.FgWhite)
)

// Gateway and rest internals that drown out everything else at debug level.
var skippedMessages = []string{
	"locking buckets",
	"unlocking buckets",
	"gateway event",
	"cleaning up bucket",
	"cleaned up rate limit buckets",
	"binary message received",
	"received gateway message",
	"locking gateway rate limiter",
	"unlocking gateway rate limiter",
	"sending gateway command",
	"new request",
	"new response",
	"locking rest bucket",
	"unlocking rest bucket",
	"rate limit response headers",
	"sending heartbeat",
}

var internalAttrs = map[string]struct{}{
	"type":      {},
	"name":      {},
	"user_name": {},
	"status":    {},
	"error":     {},
}

type CustomHandler struct {
	opts      *slog.HandlerOptions
	startTime time.Time
	attrs     []slog.Attr
	groups    []string
	mu        *sync.Mutex
	w         io.Writer
}

func NewHandler(level slog.Leveler) *CustomHandler {
	return NewHandlerWithWriter(os.Stdout, level)
}

func NewHandlerWithWriter(w io.Writer, level slog.Leveler) *CustomHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &CustomHandler{
		opts:      &slog.HandlerOptions{Level: level},
		startTime: time.Now(),
		mu:        &sync.Mutex{},
		w:         w,
	}
}

func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &CustomHandler{
		opts:      h.opts,
		startTime: h.startTime,
		attrs:     merged,
		groups:    h.groups,
		mu:        h.mu,
		w:         h.w,
	}
}

func (h *CustomHandler) WithGroup(name string) slog.Handler {
	groups := make([]string, 0, len(h.groups)+1)
	groups = append(groups, h.groups...)
	return &CustomHandler{
		opts:      h.opts,
		startTime: h.startTime,
		attrs:     h.attrs,
		groups:    append(groups, name),
		mu:        h.mu,
		w:         h.w,
	}
}

func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	if shouldSkipLog(r.Message) {
		return nil
	}

	var levelColor *color.Color
	var levelText string
	switch {
	case r.Level >= slog.LevelError:
		levelColor, levelText = errorColor, "ERROR"
	case r.Level >= slog.LevelWarn:
		levelColor, levelText = warnColor, "WARN"
	case r.Level >= slog.LevelInfo:
		levelColor, levelText = infoColor, "INFO"
	default:
		levelColor, levelText = debugColor, "DEBUG"
	}

	values := collectAttrs(h.attrs, r)

	message := r.Message
	if r.Level >= slog.LevelError {
		if loc := values["error_location"]; loc != "" {
			message = fmt.Sprintf("%s (%s)", message, loc)
		} else if file, line := getSourceLocation(); file != "" {
			message = fmt.Sprintf("%s (%s:%d)", message, file, line)
		}
		if details := values["error"]; details != "" {
			message = fmt.Sprintf("%s: %s", message, details)
		}
	}
	if name, user := values["name"], values["user_name"]; name != "" && user != "" {
		message = fmt.Sprintf("%s [%s by %s]", message, name, user)
	}
	if status := values["status"]; status != "" {
		message = fmt.Sprintf("%s [Status: %s]", message, status)
	}

	var extra strings.Builder
	appendAttr := func(a slog.Attr) bool {
		if _, skip := internalAttrs[a.Key]; skip || a.Key == "error_location" {
			return true
		}
		key := a.Key
		if len(h.groups) > 0 {
			key = strings.Join(h.groups, ".") + "." + key
		}
		fmt.Fprintf(&extra, " %s=%v", key, a.Value)
		return true
	}
	for _, a := range h.attrs {
		appendAttr(a)
	}
	r.Attrs(appendAttr)

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintf(h.w, "%s %s %s %s%s\n",
		baseColor.Sprintf("[tombola] [%s]", r.Time.Format("15:04:05")),
		levelColor.Sprintf("[%s]", levelText),
		typeColor.Sprintf("[%s]", getLogType(values["type"])),
		message,
		extra.String(),
	)
	return err
}

func shouldSkipLog(message string) bool {
	lower := strings.ToLower(message)
	for _, skip := range skippedMessages {
		if strings.Contains(lower, skip) {
			return true
		}
	}
	return false
}

func collectAttrs(base []slog.Attr, r slog.Record) map[string]string {
	values := make(map[string]string, len(base)+r.NumAttrs())
	for _, a := range base {
		values[a.Key] = a.Value.String()
	}
	r.Attrs(func(a slog.Attr) bool {
		values[a.Key] = a.Value.String()
		return true
	})
	return values
}

func getLogType(t string) LogType {
	switch t {
	case "cmd", "component":
		return TypeCommand
	case "db":
		return TypeDB
	case "error":
		return TypeError
	case "giveaway":
		return TypeGiveaway
	case "starboard":
		return TypeStarboard
	default:
		return TypeSystem
	}
}

func getSourceLocation() (string, int) {
	_, file, line, ok := runtime.Caller(4)
	if !ok {
		return "", 0
	}
	return filepath.Base(file), line
}
