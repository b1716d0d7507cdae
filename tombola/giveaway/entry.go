package giveaway

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/tombola/tombola/database/models"
	"github.com/ellavondegurechaff/tombola/tombola/database/repositories"
)

type Reason int

const (
	ReasonBlacklisted Reason = iota + 1
	ReasonMissingRole
	ReasonMessages
	ReasonLevel
	ReasonInvites
	ReasonIgnoredRole
)

// Denial is returned when a member fails an eligibility check. Nothing is
// stored for a denied entry.
type Denial struct {
	Reason   Reason
	RoleID   snowflake.ID
	Required int
	Have     int
}

func (d *Denial) Error() string {
	return "entry denied: " + d.Message()
}

// Message is the text shown to the member. Blacklisted members get no detail.
func (d *Denial) Message() string {
	switch d.Reason {
	case ReasonBlacklisted:
		return "You are not allowed to enter giveaways in this server."
	case ReasonMissingRole:
		return fmt.Sprintf("You need the <@&%s> role to enter this giveaway.", d.RoleID)
	case ReasonMessages:
		return fmt.Sprintf("You need at least **%d** messages to enter this giveaway, you have **%d**.", d.Required, d.Have)
	case ReasonLevel:
		return fmt.Sprintf("You need to be at least level **%d** to enter this giveaway, you are level **%d**.", d.Required, d.Have)
	case ReasonInvites:
		return fmt.Sprintf("You need at least **%d** invites to enter this giveaway, you have **%d**.", d.Required, d.Have)
	case ReasonIgnoredRole:
		return fmt.Sprintf("Members with the <@&%s> role cannot enter this giveaway.", d.RoleID)
	}
	return "You cannot enter this giveaway."
}

// Accumulator turns entry attempts into weighted GiveawayEntry rows.
type Accumulator struct {
	giveaways repositories.GiveawayRepository
	entries   repositories.EntryRepository
	settings  repositories.SettingsRepository
	stats     repositories.MemberStatsRepository
	now       func() time.Time
}

func NewAccumulator(
	giveaways repositories.GiveawayRepository,
	entries repositories.EntryRepository,
	settings repositories.SettingsRepository,
	stats repositories.MemberStatsRepository,
) *Accumulator {
	return &Accumulator{
		giveaways: giveaways,
		entries:   entries,
		settings:  settings,
		stats:     stats,
		now:       time.Now,
	}
}

// RecordEntry checks eligibility in a fixed order and upserts the member's
// entry. Re-entering replaces the weight rather than adding to it.
func (a *Accumulator) RecordEntry(ctx context.Context, guildID, messageID snowflake.ID, p Participant) (*models.GiveawayEntry, error) {
	return a.record(ctx, guildID, messageID, "", p)
}

// RecordReaction is RecordEntry for a reaction. Reactions with any emoji
// other than the giveaway's are reported as ErrNotFound.
func (a *Accumulator) RecordReaction(ctx context.Context, guildID, messageID snowflake.ID, emoji string, p Participant) (*models.GiveawayEntry, error) {
	return a.record(ctx, guildID, messageID, emoji, p)
}

func (a *Accumulator) load(ctx context.Context, guildID, messageID snowflake.ID, emoji string) (*models.Giveaway, error) {
	g, err := a.giveaways.Get(ctx, guildID, messageID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load giveaway: %w", err)
	}
	if emoji != "" && g.Emoji != emoji {
		return nil, ErrNotFound
	}
	return g, nil
}

func (a *Accumulator) record(ctx context.Context, guildID, messageID snowflake.ID, emoji string, p Participant) (*models.GiveawayEntry, error) {
	g, err := a.load(ctx, guildID, messageID, emoji)
	if err != nil {
		return nil, err
	}
	if !g.EndTime.After(a.now()) {
		return nil, ErrAlreadyEnded
	}

	if err = a.checkEligibility(ctx, g, p); err != nil {
		return nil, err
	}

	entry := &models.GiveawayEntry{
		GuildID:    guildID,
		MessageID:  messageID,
		UserID:     p.UserID,
		EntryCount: EntryWeight(g, p),
	}
	if err = a.entries.Upsert(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}

	slog.Debug("Giveaway entry recorded",
		slog.String("type", "giveaway"),
		slog.String("guild_id", guildID.String()),
		slog.String("message_id", messageID.String()),
		slog.String("user_id", p.UserID.String()),
		slog.Int("weight", entry.EntryCount))
	return entry, nil
}

// RemoveEntry withdraws a member from an active giveaway.
func (a *Accumulator) RemoveEntry(ctx context.Context, guildID, messageID, userID snowflake.ID) error {
	return a.RemoveReaction(ctx, guildID, messageID, "", userID)
}

// RemoveReaction withdraws a member whose giveaway reaction was removed.
func (a *Accumulator) RemoveReaction(ctx context.Context, guildID, messageID snowflake.ID, emoji string, userID snowflake.ID) error {
	if _, err := a.load(ctx, guildID, messageID, emoji); err != nil {
		return err
	}
	return a.entries.Delete(ctx, guildID, messageID, userID)
}

func (a *Accumulator) checkEligibility(ctx context.Context, g *models.Giveaway, p Participant) error {
	settings, err := a.settings.Get(ctx, g.GuildID)
	if err != nil {
		return fmt.Errorf("failed to load giveaway settings: %w", err)
	}
	for _, roleID := range models.IDs(settings.BlacklistRoleIDs) {
		if p.HasRole(roleID) {
			return &Denial{Reason: ReasonBlacklisted, RoleID: roleID}
		}
	}

	if g.RequiredRoleID != nil && !p.HasRole(*g.RequiredRoleID) {
		return &Denial{Reason: ReasonMissingRole, RoleID: *g.RequiredRoleID}
	}

	if g.RequiredMessages != nil || g.RequiredLevel != nil || g.RequiredInvites != nil {
		stats, err := a.stats.Get(ctx, g.GuildID, p.UserID)
		if err != nil {
			return fmt.Errorf("failed to load member stats: %w", err)
		}
		if g.RequiredMessages != nil && stats.Messages < int64(*g.RequiredMessages) {
			return &Denial{Reason: ReasonMessages, Required: *g.RequiredMessages, Have: int(stats.Messages)}
		}
		if g.RequiredLevel != nil && stats.Level < *g.RequiredLevel {
			return &Denial{Reason: ReasonLevel, Required: *g.RequiredLevel, Have: stats.Level}
		}
		if g.RequiredInvites != nil && stats.Invites < *g.RequiredInvites {
			return &Denial{Reason: ReasonInvites, Required: *g.RequiredInvites, Have: stats.Invites}
		}
	}

	if g.IgnoreRoleID != nil && p.HasRole(*g.IgnoreRoleID) {
		return &Denial{Reason: ReasonIgnoredRole, RoleID: *g.IgnoreRoleID}
	}
	return nil
}

// EntryWeight is 1, plus the bonus increment for holders of the bonus role.
func EntryWeight(g *models.Giveaway, p Participant) int {
	weight := 1
	if g.BonusRoleID != nil && p.HasRole(*g.BonusRoleID) {
		weight += max(g.BonusEntries, 0)
	}
	return weight
}
