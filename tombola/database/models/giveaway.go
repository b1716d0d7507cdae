package models

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
)

// Giveaway is an active giveaway. A row exists only while the giveaway is
// running, ended giveaways move to EndedGiveaway.
type Giveaway struct {
	bun.BaseModel `bun:"table:giveaways,alias:g"`

	ID          int64        `bun:"id,pk,autoincrement"`
	GuildID     snowflake.ID `bun:"guild_id,type:bigint,notnull,unique:giveaways_message"`
	ChannelID   snowflake.ID `bun:"channel_id,type:bigint,notnull,unique:giveaways_message"`
	MessageID   snowflake.ID `bun:"message_id,type:bigint,notnull,unique:giveaways_message"`
	Prize       string       `bun:"prize,notnull"`
	WinnerCount int          `bun:"winner_count,notnull,default:1"`
	HostID      snowflake.ID `bun:"host_id,type:bigint,notnull"`
	Emoji       string       `bun:"emoji,notnull"`
	CreatedAt   time.Time    `bun:"created_at,notnull,default:current_timestamp"`
	EndTime     time.Time    `bun:"end_time,notnull"`

	RequiredRoleID   *snowflake.ID `bun:"required_role_id,type:bigint"`
	BonusRoleID      *snowflake.ID `bun:"bonus_role_id,type:bigint"`
	BonusEntries     int           `bun:"bonus_entries,notnull,default:1"`
	RequiredMessages *int          `bun:"required_messages"`
	RequiredLevel    *int          `bun:"required_level"`
	RequiredInvites  *int          `bun:"required_invites"`
	IgnoreRoleID     *snowflake.ID `bun:"ignore_role_id,type:bigint"`
}

// GiveawayEntry holds one member's weighted participation.
type GiveawayEntry struct {
	bun.BaseModel `bun:"table:giveaway_entries,alias:ge"`

	GuildID    snowflake.ID `bun:"guild_id,type:bigint,pk"`
	MessageID  snowflake.ID `bun:"message_id,type:bigint,pk"`
	UserID     snowflake.ID `bun:"user_id,type:bigint,pk"`
	EntryCount int          `bun:"entry_count,notnull,default:1"`
	UpdatedAt  time.Time    `bun:"updated_at,notnull,default:current_timestamp"`
}

// EndedGiveaway is the frozen snapshot rerolls read from. Rows are purged
// after the retention window together with their entries.
type EndedGiveaway struct {
	bun.BaseModel `bun:"table:ended_giveaways,alias:eg"`

	ID          int64        `bun:"id,pk,autoincrement"`
	GuildID     snowflake.ID `bun:"guild_id,type:bigint,notnull,unique:ended_giveaways_message"`
	ChannelID   snowflake.ID `bun:"channel_id,type:bigint,notnull,unique:ended_giveaways_message"`
	MessageID   snowflake.ID `bun:"message_id,type:bigint,notnull,unique:ended_giveaways_message"`
	Prize       string       `bun:"prize,notnull"`
	WinnerCount int          `bun:"winner_count,notnull"`
	HostID      snowflake.ID `bun:"host_id,type:bigint,notnull"`
	Emoji       string       `bun:"emoji,notnull"`
	WinnerIDs   []int64      `bun:"winner_ids,array"`
	RerollCount int          `bun:"reroll_count,notnull,default:0"`
	EndedAt     time.Time    `bun:"ended_at,notnull"`
}

// GiveawaySettings carries guild wide giveaway preferences.
type GiveawaySettings struct {
	bun.BaseModel `bun:"table:giveaway_settings,alias:gs"`

	GuildID          snowflake.ID `bun:"guild_id,type:bigint,pk"`
	BlacklistRoleIDs []int64      `bun:"blacklist_role_ids,array"`
	UpdatedAt        time.Time    `bun:"updated_at,notnull,default:current_timestamp"`
}

// IDs converts a stored bigint array back into snowflakes.
func IDs(raw []int64) []snowflake.ID {
	ids := make([]snowflake.ID, 0, len(raw))
	for _, id := range raw {
		ids = append(ids, snowflake.ID(id))
	}
	return ids
}

// RawIDs is the inverse of IDs.
func RawIDs(ids []snowflake.ID) []int64 {
	raw := make([]int64, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, int64(id))
	}
	return raw
}
