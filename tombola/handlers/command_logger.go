package handlers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/handler"
	"github.com/ellavondegurechaff/tombola/tombola/config"
)

const slowInteraction = 2 * time.Second

// WrapWithLogging wraps a command handler with logging functionality
func WrapWithLogging(name string, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		attrs := []any{
			slog.String("type", "cmd"),
			slog.String("name", name),
			slog.String("user_id", e.User().ID.String()),
			slog.String("user_name", e.User().Username),
		}
		if guildID := e.GuildID(); guildID != nil {
			attrs = append(attrs, slog.String("guild_id", guildID.String()))
		}
		return run("Command", attrs, func() error { return h(e) })
	}
}

// WrapComponentWithLogging wraps a component handler with logging functionality
func WrapComponentWithLogging(name string, h handler.ComponentHandler) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		attrs := []any{
			slog.String("type", "component"),
			slog.String("name", name),
			slog.String("user_id", e.User().ID.String()),
			slog.String("user_name", e.User().Username),
		}
		if guildID := e.GuildID(); guildID != nil {
			attrs = append(attrs, slog.String("guild_id", guildID.String()))
		}
		return run("Component interaction", attrs, func() error { return h(e) })
	}
}

func run(kind string, attrs []any, fn func() error) error {
	start := time.Now()
	slog.Debug(kind+" started", attrs...)

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		attrs = append(attrs, slog.Duration("took", time.Since(start)))
		switch {
		case err != nil:
			slog.Error(kind+" failed", append(attrs,
				slog.Any("error", err),
				slog.String("status", "failed"),
			)...)
		case time.Since(start) > slowInteraction:
			slog.Warn(kind+" executed slowly", append(attrs,
				slog.String("status", "slow"),
			)...)
		default:
			slog.Info(kind+" completed", append(attrs,
				slog.String("status", "success"),
			)...)
		}
		return err

	case <-time.After(config.CommandExecutionTimeout):
		slog.Error(kind+" timed out", append(attrs,
			slog.String("status", "timeout"),
			slog.Duration("timeout", config.CommandExecutionTimeout),
		)...)
		return fmt.Errorf("%s timed out after %s", kind, config.CommandExecutionTimeout)
	}
}
