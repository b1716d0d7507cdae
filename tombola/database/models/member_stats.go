package models

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
)

// MemberStats tracks the activity numbers giveaway requirements are checked against.
type MemberStats struct {
	bun.BaseModel `bun:"table:member_stats,alias:ms"`

	GuildID   snowflake.ID `bun:"guild_id,type:bigint,pk"`
	UserID    snowflake.ID `bun:"user_id,type:bigint,pk"`
	Messages  int64        `bun:"messages,notnull,default:0"`
	XP        int64        `bun:"xp,notnull,default:0"`
	Level     int          `bun:"level,notnull,default:0"`
	Invites   int          `bun:"invites,notnull,default:0"`
	UpdatedAt time.Time    `bun:"updated_at,notnull,default:current_timestamp"`
}
