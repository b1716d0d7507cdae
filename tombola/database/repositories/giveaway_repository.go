package repositories

import (
	"context"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/tombola/tombola/database/models"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

type GiveawayRepository interface {
	Create(ctx context.Context, g *models.Giveaway) error
	Get(ctx context.Context, guildID, messageID snowflake.ID) (*models.Giveaway, error)
	ListActive(ctx context.Context, guildID snowflake.ID) ([]*models.Giveaway, error)
	CountActive(ctx context.Context, guildID snowflake.ID) (int, error)
	ListExpired(ctx context.Context, now time.Time, limit int) ([]*models.Giveaway, error)
	Update(ctx context.Context, g *models.Giveaway) error
	Delete(ctx context.Context, guildID, messageID snowflake.ID) error
	Archive(ctx context.Context, g *models.Giveaway, winners []snowflake.ID, endedAt time.Time) (*models.EndedGiveaway, error)
	GetEnded(ctx context.Context, guildID, messageID snowflake.ID) (*models.EndedGiveaway, error)
	ListEnded(ctx context.Context, guildID snowflake.ID) ([]*models.EndedGiveaway, error)
	UpdateEndedWinners(ctx context.Context, id int64, winners []snowflake.ID) error
	DeleteEnded(ctx context.Context, guildID, messageID snowflake.ID) error
	PurgeEnded(ctx context.Context, before time.Time) (int64, error)
}

type giveawayRepository struct {
	*BaseRepository
	db *bun.DB
}

func NewGiveawayRepository(db *bun.DB) GiveawayRepository {
	return &giveawayRepository{BaseRepository: NewBaseRepository(db), db: db}
}

func (r *giveawayRepository) Create(ctx context.Context, g *models.Giveaway) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	res, err := r.db.NewInsert().Model(g).
		On("CONFLICT (guild_id, channel_id, message_id) DO NOTHING").
		Returning("id").
		Exec(ctx)
	if err != nil {
		return r.HandleError("create", "giveaway", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &ConflictError{Entity: "giveaway", Field: "message_id", Value: g.MessageID}
	}
	return nil
}

func (r *giveawayRepository) Get(ctx context.Context, guildID, messageID snowflake.ID) (*models.Giveaway, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	g := new(models.Giveaway)
	err := r.db.NewSelect().Model(g).
		Where("guild_id = ?", guildID).
		Where("message_id = ?", messageID).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get", "giveaway", messageID, err)
	}
	return g, nil
}

func (r *giveawayRepository) ListActive(ctx context.Context, guildID snowflake.ID) ([]*models.Giveaway, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var giveaways []*models.Giveaway
	err := r.db.NewSelect().Model(&giveaways).
		Where("guild_id = ?", guildID).
		Order("end_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("list", "giveaway", err)
	}
	return giveaways, nil
}

func (r *giveawayRepository) CountActive(ctx context.Context, guildID snowflake.ID) (int, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	count, err := r.db.NewSelect().Model((*models.Giveaway)(nil)).
		Where("guild_id = ?", guildID).
		Count(ctx)
	if err != nil {
		return 0, r.HandleError("count", "giveaway", err)
	}
	return count, nil
}

func (r *giveawayRepository) ListExpired(ctx context.Context, now time.Time, limit int) ([]*models.Giveaway, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var giveaways []*models.Giveaway
	q := r.db.NewSelect().Model(&giveaways).
		Where("end_time <= ?", now).
		Order("end_time ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, r.HandleError("list expired", "giveaway", err)
	}
	return giveaways, nil
}

func (r *giveawayRepository) Update(ctx context.Context, g *models.Giveaway) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.db.NewUpdate().Model(g).
		Column("prize", "winner_count", "host_id", "end_time",
			"required_role_id", "bonus_role_id", "bonus_entries",
			"required_messages", "required_level", "required_invites", "ignore_role_id").
		Where("id = ?", g.ID).
		Exec(ctx)
	if err != nil {
		return r.HandleError("update", "giveaway", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &NotFoundError{Entity: "giveaway", ID: g.MessageID}
	}
	return nil
}

// Delete removes an active giveaway along with every entry recorded for it.
func (r *giveawayRepository) Delete(ctx context.Context, guildID, messageID snowflake.ID) error {
	return r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().Model((*models.Giveaway)(nil)).
			Where("guild_id = ?", guildID).
			Where("message_id = ?", messageID).
			Exec(ctx)
		if err != nil {
			return r.HandleError("delete", "giveaway", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return &NotFoundError{Entity: "giveaway", ID: messageID}
		}
		_, err = tx.NewDelete().Model((*models.GiveawayEntry)(nil)).
			Where("guild_id = ?", guildID).
			Where("message_id = ?", messageID).
			Exec(ctx)
		return r.HandleError("delete entries", "giveaway", err)
	})
}

// Archive moves a giveaway from the active table into ended_giveaways.
// Entries are kept so the giveaway can be rerolled until it is purged.
func (r *giveawayRepository) Archive(ctx context.Context, g *models.Giveaway, winners []snowflake.ID, endedAt time.Time) (*models.EndedGiveaway, error) {
	ended := &models.EndedGiveaway{
		GuildID:     g.GuildID,
		ChannelID:   g.ChannelID,
		MessageID:   g.MessageID,
		Prize:       g.Prize,
		WinnerCount: g.WinnerCount,
		HostID:      g.HostID,
		Emoji:       g.Emoji,
		WinnerIDs:   models.RawIDs(winners),
		EndedAt:     endedAt,
	}

	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().Model((*models.Giveaway)(nil)).
			Where("id = ?", g.ID).
			Exec(ctx)
		if err != nil {
			return r.HandleError("archive", "giveaway", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return &NotFoundError{Entity: "giveaway", ID: g.MessageID}
		}

		_, err = tx.NewInsert().Model(ended).
			On("CONFLICT (guild_id, channel_id, message_id) DO UPDATE").
			Set("winner_ids = EXCLUDED.winner_ids").
			Set("ended_at = EXCLUDED.ended_at").
			Returning("id").
			Exec(ctx)
		return r.HandleError("archive", "ended_giveaway", err)
	})
	if err != nil {
		return nil, err
	}
	return ended, nil
}

func (r *giveawayRepository) GetEnded(ctx context.Context, guildID, messageID snowflake.ID) (*models.EndedGiveaway, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	ended := new(models.EndedGiveaway)
	err := r.db.NewSelect().Model(ended).
		Where("guild_id = ?", guildID).
		Where("message_id = ?", messageID).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get", "ended_giveaway", messageID, err)
	}
	return ended, nil
}

func (r *giveawayRepository) ListEnded(ctx context.Context, guildID snowflake.ID) ([]*models.EndedGiveaway, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var ended []*models.EndedGiveaway
	err := r.db.NewSelect().Model(&ended).
		Where("guild_id = ?", guildID).
		Order("ended_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("list", "ended_giveaway", err)
	}
	return ended, nil
}

func (r *giveawayRepository) UpdateEndedWinners(ctx context.Context, id int64, winners []snowflake.ID) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewUpdate().Model((*models.EndedGiveaway)(nil)).
		Set("winner_ids = ?", pgdialect.Array(models.RawIDs(winners))).
		Set("reroll_count = reroll_count + 1").
		Where("id = ?", id).
		Exec(ctx)
	return r.HandleError("update winners", "ended_giveaway", err)
}

func (r *giveawayRepository) DeleteEnded(ctx context.Context, guildID, messageID snowflake.ID) error {
	return r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().Model((*models.EndedGiveaway)(nil)).
			Where("guild_id = ?", guildID).
			Where("message_id = ?", messageID).
			Exec(ctx)
		if err != nil {
			return r.HandleError("delete", "ended_giveaway", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return &NotFoundError{Entity: "ended_giveaway", ID: messageID}
		}
		_, err = tx.NewDelete().Model((*models.GiveawayEntry)(nil)).
			Where("guild_id = ?", guildID).
			Where("message_id = ?", messageID).
			Exec(ctx)
		return r.HandleError("delete entries", "ended_giveaway", err)
	})
}

// PurgeEnded drops ended giveaways older than before, with their entries.
func (r *giveawayRepository) PurgeEnded(ctx context.Context, before time.Time) (int64, error) {
	var purged int64
	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().Model((*models.GiveawayEntry)(nil)).
			Where("(guild_id, message_id) IN (SELECT guild_id, message_id FROM ended_giveaways WHERE ended_at < ?)", before).
			Exec(ctx)
		if err != nil {
			return r.HandleError("purge entries", "ended_giveaway", err)
		}
		res, err := tx.NewDelete().Model((*models.EndedGiveaway)(nil)).
			Where("ended_at < ?", before).
			Exec(ctx)
		if err != nil {
			return r.HandleError("purge", "ended_giveaway", err)
		}
		purged, _ = res.RowsAffected()
		return nil
	})
	return purged, err
}
