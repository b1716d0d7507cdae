package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestCustomHandler(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		name     string
		log      func(l *slog.Logger)
		contains []string
		empty    bool
	}{
		{
			name: "command line carries type and user",
			log: func(l *slog.Logger) {
				l.Info("Command completed",
					slog.String("type", "cmd"),
					slog.String("name", "giveaway"),
					slog.String("user_name", "mika"),
					slog.String("status", "success"))
			},
			contains: []string{"[INFO]", "[CMD]", "[giveaway by mika]", "[Status: success]"},
		},
		{
			name: "errors carry details",
			log: func(l *slog.Logger) {
				l.Error("End failed", slog.String("type", "giveaway"), slog.Any("error", errors.New("boom")))
			},
			contains: []string{"[ERROR]", "[GAW]", "boom"},
		},
		{
			name: "extra attrs are appended",
			log: func(l *slog.Logger) {
				l.With(slog.String("guild_id", "42")).Info("Starboard posted", slog.String("type", "starboard"))
			},
			contains: []string{"[STAR]", "guild_id=42"},
		},
		{
			name: "gateway noise is skipped",
			log: func(l *slog.Logger) {
				l.Info("sending heartbeat")
			},
			empty: true,
		},
		{
			name: "below level is dropped",
			log: func(l *slog.Logger) {
				l.Debug("hidden")
			},
			empty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(slog.New(NewHandlerWithWriter(&buf, slog.LevelInfo)))

			out := buf.String()
			if tt.empty {
				if out != "" {
					t.Fatalf("expected no output, got %q", out)
				}
				return
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output %q does not contain %q", out, want)
				}
			}
		})
	}
}
