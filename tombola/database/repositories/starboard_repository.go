package repositories

import (
	"context"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/tombola/tombola/database/models"
	"github.com/uptrace/bun"
)

type StarboardRepository interface {
	// Create fails with a LimitError once the guild already has limit boards.
	Create(ctx context.Context, sb *models.Starboard, limit int) error
	Delete(ctx context.Context, guildID snowflake.ID, emoji string) error
	ListByGuild(ctx context.Context, guildID snowflake.ID) ([]*models.Starboard, error)
	Get(ctx context.Context, guildID snowflake.ID, emoji string) (*models.Starboard, error)

	GetEntry(ctx context.Context, guildID, channelID, messageID snowflake.ID, emoji string) (*models.StarboardEntry, error)
	UpsertEntry(ctx context.Context, entry *models.StarboardEntry) error
	DeleteEntry(ctx context.Context, guildID, channelID, messageID snowflake.ID, emoji string) error
	ListEntriesForMessage(ctx context.Context, guildID, channelID, messageID snowflake.ID) ([]*models.StarboardEntry, error)
}

type starboardRepository struct {
	*BaseRepository
	db *bun.DB
}

func NewStarboardRepository(db *bun.DB) StarboardRepository {
	return &starboardRepository{BaseRepository: NewBaseRepository(db), db: db}
}

func (r *starboardRepository) Create(ctx context.Context, sb *models.Starboard, limit int) error {
	return r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		// serialize concurrent creates for the same guild
		if _, err := tx.NewRaw("SELECT pg_advisory_xact_lock(?)", int64(sb.GuildID)).Exec(ctx); err != nil {
			return r.HandleError("lock", "starboard", err)
		}

		count, err := tx.NewSelect().Model((*models.Starboard)(nil)).
			Where("guild_id = ?", sb.GuildID).
			Count(ctx)
		if err != nil {
			return r.HandleError("count", "starboard", err)
		}
		if limit > 0 && count >= limit {
			return &LimitError{Entity: "starboard", Limit: limit}
		}

		sb.CreatedAt = time.Now()
		res, err := tx.NewInsert().Model(sb).
			On("CONFLICT (guild_id, emoji) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return r.HandleError("create", "starboard", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return &ConflictError{Entity: "starboard", Field: "emoji", Value: sb.Emoji}
		}
		return nil
	})
}

func (r *starboardRepository) Delete(ctx context.Context, guildID snowflake.ID, emoji string) error {
	return r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().Model((*models.Starboard)(nil)).
			Where("guild_id = ?", guildID).
			Where("emoji = ?", emoji).
			Exec(ctx)
		if err != nil {
			return r.HandleError("delete", "starboard", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return &NotFoundError{Entity: "starboard", ID: emoji}
		}
		_, err = tx.NewDelete().Model((*models.StarboardEntry)(nil)).
			Where("guild_id = ?", guildID).
			Where("emoji = ?", emoji).
			Exec(ctx)
		return r.HandleError("delete entries", "starboard", err)
	})
}

func (r *starboardRepository) ListByGuild(ctx context.Context, guildID snowflake.ID) ([]*models.Starboard, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var boards []*models.Starboard
	err := r.db.NewSelect().Model(&boards).
		Where("guild_id = ?", guildID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("list", "starboard", err)
	}
	return boards, nil
}

func (r *starboardRepository) Get(ctx context.Context, guildID snowflake.ID, emoji string) (*models.Starboard, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	sb := new(models.Starboard)
	err := r.db.NewSelect().Model(sb).
		Where("guild_id = ?", guildID).
		Where("emoji = ?", emoji).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get", "starboard", emoji, err)
	}
	return sb, nil
}

func (r *starboardRepository) GetEntry(ctx context.Context, guildID, channelID, messageID snowflake.ID, emoji string) (*models.StarboardEntry, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	entry := new(models.StarboardEntry)
	err := r.db.NewSelect().Model(entry).
		Where("guild_id = ?", guildID).
		Where("channel_id = ?", channelID).
		Where("message_id = ?", messageID).
		Where("emoji = ?", emoji).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get", "starboard_entry", messageID, err)
	}
	return entry, nil
}

func (r *starboardRepository) UpsertEntry(ctx context.Context, entry *models.StarboardEntry) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	entry.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().Model(entry).
		On("CONFLICT (guild_id, channel_id, message_id, emoji) DO UPDATE").
		Set("starboard_channel_id = EXCLUDED.starboard_channel_id").
		Set("starboard_message_id = EXCLUDED.starboard_message_id").
		Set("stars = EXCLUDED.stars").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return r.HandleError("upsert", "starboard_entry", err)
}

func (r *starboardRepository) DeleteEntry(ctx context.Context, guildID, channelID, messageID snowflake.ID, emoji string) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewDelete().Model((*models.StarboardEntry)(nil)).
		Where("guild_id = ?", guildID).
		Where("channel_id = ?", channelID).
		Where("message_id = ?", messageID).
		Where("emoji = ?", emoji).
		Exec(ctx)
	return r.HandleError("delete", "starboard_entry", err)
}

func (r *starboardRepository) ListEntriesForMessage(ctx context.Context, guildID, channelID, messageID snowflake.ID) ([]*models.StarboardEntry, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var entries []*models.StarboardEntry
	err := r.db.NewSelect().Model(&entries).
		Where("guild_id = ?", guildID).
		Where("channel_id = ?", channelID).
		Where("message_id = ?", messageID).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("list", "starboard_entry", err)
	}
	return entries, nil
}
