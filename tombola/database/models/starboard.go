package models

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
)

// Starboard is identified by (guild, emoji).
type Starboard struct {
	bun.BaseModel `bun:"table:starboards,alias:sb"`

	GuildID   snowflake.ID `bun:"guild_id,type:bigint,pk"`
	Emoji     string       `bun:"emoji,pk"`
	ChannelID snowflake.ID `bun:"channel_id,type:bigint,notnull"`
	Threshold int          `bun:"threshold,notnull,default:3"`
	SelfStar  bool         `bun:"self_star,notnull,default:false"`
	CreatedAt time.Time    `bun:"created_at,notnull,default:current_timestamp"`
}

// StarboardEntry links a source message to its mirror for one emoji.
type StarboardEntry struct {
	bun.BaseModel `bun:"table:starboard_entries,alias:se"`

	GuildID            snowflake.ID `bun:"guild_id,type:bigint,pk"`
	ChannelID          snowflake.ID `bun:"channel_id,type:bigint,pk"`
	MessageID          snowflake.ID `bun:"message_id,type:bigint,pk"`
	Emoji              string       `bun:"emoji,pk"`
	StarboardChannelID snowflake.ID `bun:"starboard_channel_id,type:bigint,notnull"`
	StarboardMessageID snowflake.ID `bun:"starboard_message_id,type:bigint,notnull"`
	Stars              int          `bun:"stars,notnull"`
	UpdatedAt          time.Time    `bun:"updated_at,notnull,default:current_timestamp"`
}
