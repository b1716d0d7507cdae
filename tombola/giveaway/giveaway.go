// Package giveaway runs timed giveaways: entry bookkeeping, weighted winner
// draws and the polling loop that ends, announces and purges them.
package giveaway

import (
	"context"
	"errors"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

var (
	ErrNotFound           = errors.New("this message is not a giveaway or it has already ended")
	ErrAlreadyEnded       = errors.New("this giveaway has already ended")
	ErrNotEnded           = errors.New("this giveaway has not ended yet")
	ErrTooManyActive      = errors.New("this server has reached the limit of active giveaways")
	ErrInvalidDuration    = errors.New("invalid giveaway duration")
	ErrEndExtension       = errors.New("a giveaway can only be shortened, not extended")
	ErrInvalidWinners     = errors.New("invalid winner count")
	ErrEmptyPrize         = errors.New("the prize cannot be empty")
	ErrPrizeTooLong       = errors.New("the prize cannot be longer than 256 characters")
	ErrNoEntrants         = errors.New("there are no eligible entrants left to draw from")
	ErrOrphaned           = errors.New("giveaway message or channel no longer exists")
	ErrInvalidRequirement = errors.New("invalid requirement")
	ErrRequirementExists  = errors.New("this requirement is already set, use edit instead")
	ErrRequirementMissing = errors.New("this requirement is not set")
)

// Messenger is the part of the Discord REST surface giveaways need.
type Messenger interface {
	CreateMessage(ctx context.Context, channelID snowflake.ID, create discord.MessageCreate) (*discord.Message, error)
	UpdateMessage(ctx context.Context, channelID, messageID snowflake.ID, update discord.MessageUpdate) (*discord.Message, error)
	DeleteMessage(ctx context.Context, channelID, messageID snowflake.ID) error
	AddReaction(ctx context.Context, channelID, messageID snowflake.ID, emoji string) error
	SendDM(ctx context.Context, userID snowflake.ID, create discord.MessageCreate) error
}

// Participant is the acting member of an entry attempt.
type Participant struct {
	UserID  snowflake.ID
	RoleIDs []snowflake.ID
}

func (p Participant) HasRole(roleID snowflake.ID) bool {
	for _, id := range p.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

// JumpURL links to a message in a guild channel.
func JumpURL(guildID, channelID, messageID snowflake.ID) string {
	return "https://discord.com/channels/" + guildID.String() + "/" + channelID.String() + "/" + messageID.String()
}
