// Package starboard mirrors messages that collect enough reactions of a
// configured emoji into a starboard channel and keeps the mirror in sync.
package starboard

import (
	"context"
	"errors"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

var (
	ErrLimitReached     = errors.New("this server already has the maximum number of starboards")
	ErrExists           = errors.New("a starboard for this emoji already exists")
	ErrNotFound         = errors.New("no starboard is configured for this emoji in that channel")
	ErrInvalidEmoji     = errors.New("invalid emoji")
	ErrInvalidThreshold = errors.New("invalid threshold")
)

// IsUserError reports whether err is caused by the command input rather than
// a failure worth logging.
func IsUserError(err error) bool {
	for _, target := range []error{ErrLimitReached, ErrExists, ErrNotFound, ErrInvalidEmoji, ErrInvalidThreshold} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Discord is the REST surface the aggregator needs.
type Discord interface {
	GetMessage(ctx context.Context, channelID, messageID snowflake.ID) (*discord.Message, error)
	CreateMessage(ctx context.Context, channelID snowflake.ID, create discord.MessageCreate) (*discord.Message, error)
	UpdateMessage(ctx context.Context, channelID, messageID snowflake.ID, update discord.MessageUpdate) (*discord.Message, error)
	DeleteMessage(ctx context.Context, channelID, messageID snowflake.ID) error
	RemoveUserReaction(ctx context.Context, channelID, messageID snowflake.ID, emoji string, userID snowflake.ID) error
	UploadLimit(guildID snowflake.ID) int64
	Download(ctx context.Context, url string, limit int64) ([]byte, error)
}

// Uploader stores attachments too large to re-upload to Discord.
type Uploader interface {
	Upload(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// MessageRef identifies one source message and emoji pair.
type MessageRef struct {
	GuildID   snowflake.ID
	ChannelID snowflake.ID
	MessageID snowflake.ID
	Emoji     string
}

// ReactionEvent is a single reaction add or remove on a guild message.
type ReactionEvent struct {
	GuildID   snowflake.ID
	ChannelID snowflake.ID
	MessageID snowflake.ID
	UserID    snowflake.ID
	// AuthorID comes with gateway reaction adds. When nil the message is
	// fetched to detect self-stars.
	AuthorID *snowflake.ID
	Emoji    string
	Added    bool
}

func (e ReactionEvent) Ref() MessageRef {
	return MessageRef{GuildID: e.GuildID, ChannelID: e.ChannelID, MessageID: e.MessageID, Emoji: e.Emoji}
}

type Transition int

const (
	Unchanged Transition = iota
	Posted
	Updated
	Removed
)

func (t Transition) String() string {
	switch t {
	case Posted:
		return "posted"
	case Updated:
		return "updated"
	case Removed:
		return "removed"
	}
	return "unchanged"
}
