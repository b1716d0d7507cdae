package repositories

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/tombola/tombola/database"
	"github.com/ellavondegurechaff/tombola/tombola/database/models"
	"github.com/jackc/pgx/v5"
	"github.com/uptrace/bun"
)

// MessageDelta is the activity gathered for one member between two flushes.
type MessageDelta struct {
	GuildID  snowflake.ID
	UserID   snowflake.ID
	Messages int64
	XP       int64
}

type MemberStatsRepository interface {
	// Get returns zeroed stats for members that were never seen.
	Get(ctx context.Context, guildID, userID snowflake.ID) (*models.MemberStats, error)
	ApplyMessageDeltas(ctx context.Context, deltas []MessageDelta) error
	AddInvites(ctx context.Context, guildID, userID snowflake.ID, n int) error
}

type memberStatsRepository struct {
	*BaseRepository
	db  *bun.DB
	raw *database.DB
}

func NewMemberStatsRepository(db *database.DB) MemberStatsRepository {
	return &memberStatsRepository{BaseRepository: NewBaseRepository(db.BunDB()), db: db.BunDB(), raw: db}
}

func (r *memberStatsRepository) Get(ctx context.Context, guildID, userID snowflake.ID) (*models.MemberStats, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	stats := new(models.MemberStats)
	err := r.db.NewSelect().Model(stats).
		Where("guild_id = ?", guildID).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if err = r.HandleError("get", "member_stats", err); IsNotFound(err) {
			return &models.MemberStats{GuildID: guildID, UserID: userID}, nil
		}
		return nil, err
	}
	return stats, nil
}

const upsertMessageDelta = `INSERT INTO member_stats (guild_id, user_id, messages, xp, level, invites, updated_at)
VALUES ($1, $2, $3, $4::bigint, floor(sqrt($4::bigint / 100.0))::int, 0, now())
ON CONFLICT (guild_id, user_id) DO UPDATE SET
	messages = member_stats.messages + EXCLUDED.messages,
	xp = member_stats.xp + EXCLUDED.xp,
	level = floor(sqrt((member_stats.xp + EXCLUDED.xp) / 100.0))::int,
	updated_at = now()`

// ApplyMessageDeltas adds every delta in a single round trip.
func (r *memberStatsRepository) ApplyMessageDeltas(ctx context.Context, deltas []MessageDelta) error {
	if len(deltas) == 0 {
		return nil
	}
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	batch := &pgx.Batch{}
	for _, d := range deltas {
		batch.Queue(upsertMessageDelta, int64(d.GuildID), int64(d.UserID), d.Messages, d.XP)
	}
	return r.HandleError("flush", "member_stats", r.raw.SendBatchWithLog(ctx, batch))
}

func (r *memberStatsRepository) AddInvites(ctx context.Context, guildID, userID snowflake.ID, n int) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.raw.ExecWithLog(ctx, `INSERT INTO member_stats (guild_id, user_id, invites, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (guild_id, user_id) DO UPDATE SET
			invites = member_stats.invites + EXCLUDED.invites,
			updated_at = now()`,
		int64(guildID), int64(userID), n)
	return r.HandleError("add invites", "member_stats", err)
}
