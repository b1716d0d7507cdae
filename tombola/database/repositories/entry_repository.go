package repositories

import (
	"context"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/tombola/tombola/database/models"
	"github.com/uptrace/bun"
)

type EntryRepository interface {
	// Upsert stores the entry, replacing any previous weight for the same member.
	Upsert(ctx context.Context, entry *models.GiveawayEntry) error
	Delete(ctx context.Context, guildID, messageID, userID snowflake.ID) error
	List(ctx context.Context, guildID, messageID snowflake.ID) ([]*models.GiveawayEntry, error)
	Count(ctx context.Context, guildID, messageID snowflake.ID) (int, error)
}

type entryRepository struct {
	*BaseRepository
	db *bun.DB
}

func NewEntryRepository(db *bun.DB) EntryRepository {
	return &entryRepository{BaseRepository: NewBaseRepository(db), db: db}
}

func (r *entryRepository) Upsert(ctx context.Context, entry *models.GiveawayEntry) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	entry.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().Model(entry).
		On("CONFLICT (guild_id, message_id, user_id) DO UPDATE").
		Set("entry_count = EXCLUDED.entry_count").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return r.HandleError("upsert", "giveaway_entry", err)
}

func (r *entryRepository) Delete(ctx context.Context, guildID, messageID, userID snowflake.ID) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewDelete().Model((*models.GiveawayEntry)(nil)).
		Where("guild_id = ?", guildID).
		Where("message_id = ?", messageID).
		Where("user_id = ?", userID).
		Exec(ctx)
	return r.HandleError("delete", "giveaway_entry", err)
}

func (r *entryRepository) List(ctx context.Context, guildID, messageID snowflake.ID) ([]*models.GiveawayEntry, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var entries []*models.GiveawayEntry
	err := r.db.NewSelect().Model(&entries).
		Where("guild_id = ?", guildID).
		Where("message_id = ?", messageID).
		Order("updated_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("list", "giveaway_entry", err)
	}
	return entries, nil
}

func (r *entryRepository) Count(ctx context.Context, guildID, messageID snowflake.ID) (int, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	count, err := r.db.NewSelect().Model((*models.GiveawayEntry)(nil)).
		Where("guild_id = ?", guildID).
		Where("message_id = ?", messageID).
		Count(ctx)
	if err != nil {
		return 0, r.HandleError("count", "giveaway_entry", err)
	}
	return count, nil
}
