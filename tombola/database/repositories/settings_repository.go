package repositories

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/tombola/tombola/database/models"
	"github.com/uptrace/bun"
)

type SettingsRepository interface {
	// Get never returns a not found error, guilds without a row get empty settings.
	Get(ctx context.Context, guildID snowflake.ID) (*models.GiveawaySettings, error)
	AddBlacklistRole(ctx context.Context, guildID, roleID snowflake.ID) error
	RemoveBlacklistRole(ctx context.Context, guildID, roleID snowflake.ID) error
}

type settingsRepository struct {
	*BaseRepository
	db *bun.DB
}

func NewSettingsRepository(db *bun.DB) SettingsRepository {
	return &settingsRepository{BaseRepository: NewBaseRepository(db), db: db}
}

func (r *settingsRepository) Get(ctx context.Context, guildID snowflake.ID) (*models.GiveawaySettings, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	settings := new(models.GiveawaySettings)
	err := r.db.NewSelect().Model(settings).Where("guild_id = ?", guildID).Scan(ctx)
	if err != nil {
		if err = r.HandleError("get", "giveaway_settings", err); IsNotFound(err) {
			return &models.GiveawaySettings{GuildID: guildID}, nil
		}
		return nil, err
	}
	return settings, nil
}

func (r *settingsRepository) AddBlacklistRole(ctx context.Context, guildID, roleID snowflake.ID) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewRaw(`INSERT INTO giveaway_settings (guild_id, blacklist_role_ids, updated_at)
		VALUES (?, ARRAY[?]::bigint[], now())
		ON CONFLICT (guild_id) DO UPDATE SET
			blacklist_role_ids = array_append(array_remove(giveaway_settings.blacklist_role_ids, ?::bigint), ?::bigint),
			updated_at = now()`,
		int64(guildID), int64(roleID), int64(roleID), int64(roleID),
	).Exec(ctx)
	return r.HandleError("add blacklist role", "giveaway_settings", err)
}

func (r *settingsRepository) RemoveBlacklistRole(ctx context.Context, guildID, roleID snowflake.ID) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.db.NewRaw(`UPDATE giveaway_settings
		SET blacklist_role_ids = array_remove(blacklist_role_ids, ?::bigint), updated_at = now()
		WHERE guild_id = ? AND ?::bigint = ANY(blacklist_role_ids)`,
		int64(roleID), int64(guildID), int64(roleID),
	).Exec(ctx)
	if err != nil {
		return r.HandleError("remove blacklist role", "giveaway_settings", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &NotFoundError{Entity: "blacklisted role", ID: roleID}
	}
	return nil
}
