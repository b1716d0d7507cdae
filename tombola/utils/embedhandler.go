package utils

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/ellavondegurechaff/tombola/tombola/config"
	"github.com/ellavondegurechaff/tombola/tombola/giveaway"
	"github.com/ellavondegurechaff/tombola/tombola/starboard"
)

// ResponseHandler provides standardized response methods for commands and components
type ResponseHandler struct{}

var EH = &ResponseHandler{}

// ErrorType represents different categories of errors for consistent handling
type ErrorType int

const (
	// UserError - invalid input or a rule the command refused to break
	UserError ErrorType = iota
	// SystemError - database failures, Discord outages
	SystemError
	// NotFoundError - the giveaway or starboard does not exist
	NotFoundError
)

func getErrorPrefix(errorType ErrorType) string {
	switch errorType {
	case UserError:
		return "⚠️"
	case NotFoundError:
		return "🔍"
	default:
		return "❌"
	}
}

func getErrorColor(errorType ErrorType) int {
	switch errorType {
	case UserError:
		return config.WarningColor
	case NotFoundError:
		return config.InfoColor
	default:
		return config.ErrorColor
	}
}

// Classify maps a domain error onto the category shown to the user.
func Classify(err error) ErrorType {
	var denial *giveaway.Denial
	switch {
	case errors.Is(err, giveaway.ErrNotFound), errors.Is(err, starboard.ErrNotFound):
		return NotFoundError
	case errors.As(err, &denial), giveaway.IsUserError(err), starboard.IsUserError(err):
		return UserError
	}
	return SystemError
}

// UserMessage is the text shown for err. System errors are logged and
// replaced with a generic message.
func UserMessage(err error) string {
	var denial *giveaway.Denial
	if errors.As(err, &denial) {
		return denial.Message()
	}
	if Classify(err) != SystemError {
		return err.Error()
	}
	slog.Error("Interaction failed",
		slog.String("type", "cmd"),
		slog.Any("error", err))
	return "Something went wrong, please try again later."
}

func classifiedEmbed(errorType ErrorType, message string) discord.Embed {
	return discord.Embed{
		Description: getErrorPrefix(errorType) + " " + message,
		Color:       getErrorColor(errorType),
	}
}

// CreateErrorEmbed creates an ephemeral error embed for command events
func (h *ResponseHandler) CreateErrorEmbed(event *handler.CommandEvent, err error) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{classifiedEmbed(Classify(err), UserMessage(err))},
		Flags:  discord.MessageFlagEphemeral,
	})
}

// CreateSuccessEmbed creates a standard success embed for command events
func (h *ResponseHandler) CreateSuccessEmbed(event *handler.CommandEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: "✅ " + message,
			Color:       config.SuccessColor,
		}},
		Flags: discord.MessageFlagEphemeral,
	})
}

// CreateInfoEmbed creates a standard info embed for command events
func (h *ResponseHandler) CreateInfoEmbed(event *handler.CommandEvent, title, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       title,
			Description: message,
			Color:       config.InfoColor,
		}},
		Flags: discord.MessageFlagEphemeral,
	})
}

// UpdateWithError replaces a deferred response with an error embed
func (h *ResponseHandler) UpdateWithError(event *handler.CommandEvent, err error) error {
	_, updateErr := event.UpdateInteractionResponse(discord.MessageUpdate{
		Embeds: &[]discord.Embed{classifiedEmbed(Classify(err), UserMessage(err))},
	})
	return updateErr
}

// UpdateWithSuccess replaces a deferred response with a success embed
func (h *ResponseHandler) UpdateWithSuccess(event *handler.CommandEvent, message string) error {
	_, err := event.UpdateInteractionResponse(discord.MessageUpdate{
		Embeds: &[]discord.Embed{{
			Description: "✅ " + message,
			Color:       config.SuccessColor,
		}},
	})
	return err
}

// CreateEphemeralError creates an ephemeral error message for component events
func (h *ResponseHandler) CreateEphemeralError(event *handler.ComponentEvent, err error) error {
	return event.CreateMessage(discord.MessageCreate{
		Content: getErrorPrefix(Classify(err)) + " " + UserMessage(err),
		Flags:   discord.MessageFlagEphemeral,
	})
}

// CreateEphemeralSuccess creates an ephemeral success message for component events
func (h *ResponseHandler) CreateEphemeralSuccess(event *handler.ComponentEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Content: "✅ " + message,
		Flags:   discord.MessageFlagEphemeral,
	})
}

// HandleError provides centralized error handling for different event types
func (h *ResponseHandler) HandleError(event interface{}, err error) error {
	switch e := event.(type) {
	case *handler.CommandEvent:
		return h.CreateErrorEmbed(e, err)
	case *handler.ComponentEvent:
		return h.CreateEphemeralError(e, err)
	default:
		return fmt.Errorf("unsupported event type for error handling")
	}
}
