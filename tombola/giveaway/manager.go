package giveaway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/tombola/tombola/config"
	"github.com/ellavondegurechaff/tombola/tombola/database/models"
	"github.com/ellavondegurechaff/tombola/tombola/database/repositories"
	"github.com/ellavondegurechaff/tombola/tombola/services"
)

const maxPrizeLength = 256

// StartOptions describes a new giveaway.
type StartOptions struct {
	GuildID      snowflake.ID
	ChannelID    snowflake.ID
	HostID       snowflake.ID
	Prize        string
	Duration     time.Duration
	Winners      int
	Emoji        string
	Requirements Requirements
}

// Manager owns every state change of a giveaway after creation: ending,
// rerolling, editing and deleting.
type Manager struct {
	giveaways repositories.GiveawayRepository
	entries   repositories.EntryRepository
	messenger Messenger
	maxActive int
	now       func() time.Time
	rng       Rand
}

func NewManager(giveaways repositories.GiveawayRepository, entries repositories.EntryRepository, messenger Messenger, maxActive int) *Manager {
	if maxActive <= 0 {
		maxActive = config.DefaultMaxActive
	}
	return &Manager{
		giveaways: giveaways,
		entries:   entries,
		messenger: messenger,
		maxActive: maxActive,
		now:       time.Now,
	}
}

func ValidateDuration(d time.Duration) error {
	if d < config.MinGiveawayDuration || d > config.MaxGiveawayDuration {
		return fmt.Errorf("%w: must be between %s and %s", ErrInvalidDuration,
			config.MinGiveawayDuration, config.MaxGiveawayDuration)
	}
	return nil
}

func ValidateWinners(n int) error {
	if n < 1 || n > config.MaxGiveawayWinners {
		return fmt.Errorf("%w: must be between 1 and %d", ErrInvalidWinners, config.MaxGiveawayWinners)
	}
	return nil
}

func validatePrize(prize string) (string, error) {
	prize = strings.TrimSpace(prize)
	if prize == "" {
		return "", ErrEmptyPrize
	}
	if len(prize) > maxPrizeLength {
		return "", ErrPrizeTooLong
	}
	return prize, nil
}

// Start posts the giveaway message and stores the giveaway keyed by it.
func (m *Manager) Start(ctx context.Context, opts StartOptions) (*models.Giveaway, error) {
	prize, err := validatePrize(opts.Prize)
	if err != nil {
		return nil, err
	}
	if opts.Winners == 0 {
		opts.Winners = 1
	}
	if err = ValidateWinners(opts.Winners); err != nil {
		return nil, err
	}
	if err = ValidateDuration(opts.Duration); err != nil {
		return nil, err
	}
	if err = opts.Requirements.Validate(); err != nil {
		return nil, err
	}
	if opts.Emoji == "" {
		opts.Emoji = config.DefaultEmoji
	}

	active, err := m.giveaways.CountActive(ctx, opts.GuildID)
	if err != nil {
		return nil, fmt.Errorf("failed to count active giveaways: %w", err)
	}
	if active >= m.maxActive {
		return nil, ErrTooManyActive
	}

	now := m.now()
	g := &models.Giveaway{
		GuildID:      opts.GuildID,
		ChannelID:    opts.ChannelID,
		Prize:        prize,
		WinnerCount:  opts.Winners,
		HostID:       opts.HostID,
		Emoji:        opts.Emoji,
		CreatedAt:    now,
		EndTime:      now.Add(opts.Duration),
		BonusEntries: config.DefaultBonusEntries,
	}
	opts.Requirements.ApplyTo(g)
	if g.BonusEntries == 0 {
		g.BonusEntries = config.DefaultBonusEntries
	}

	msg, err := m.messenger.CreateMessage(ctx, opts.ChannelID, discord.MessageCreate{
		Embeds:     []discord.Embed{ActiveEmbed(g)},
		Components: EnterComponents(g.Emoji),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to post giveaway message: %w", err)
	}
	g.MessageID = msg.ID

	if err = m.giveaways.Create(ctx, g); err != nil {
		if delErr := m.messenger.DeleteMessage(ctx, g.ChannelID, g.MessageID); delErr != nil {
			slog.Warn("Failed to remove giveaway message after create failure",
				slog.String("type", "giveaway"),
				slog.String("message_id", g.MessageID.String()),
				slog.Any("error", delErr))
		}
		return nil, fmt.Errorf("failed to save giveaway: %w", err)
	}

	if err = m.messenger.AddReaction(ctx, g.ChannelID, g.MessageID, g.Emoji); err != nil {
		slog.Warn("Failed to add giveaway reaction",
			slog.String("type", "giveaway"),
			slog.String("message_id", g.MessageID.String()),
			slog.Any("error", err))
	}

	slog.Info("Giveaway started",
		slog.String("type", "giveaway"),
		slog.String("guild_id", g.GuildID.String()),
		slog.String("message_id", g.MessageID.String()),
		slog.String("prize", g.Prize),
		slog.Time("ends", g.EndTime))
	return g, nil
}

// End finishes an active giveaway immediately.
func (m *Manager) End(ctx context.Context, guildID, messageID snowflake.ID) (*models.EndedGiveaway, []snowflake.ID, error) {
	g, err := m.active(ctx, guildID, messageID)
	if err != nil {
		return nil, nil, err
	}
	g.EndTime = m.now()
	return m.Finish(ctx, g)
}

// Finish draws the winners of g exactly once, archives it, and announces the
// result. A giveaway whose message or channel is gone is dropped and
// ErrOrphaned is returned.
func (m *Manager) Finish(ctx context.Context, g *models.Giveaway) (*models.EndedGiveaway, []snowflake.ID, error) {
	entries, err := m.entries.List(ctx, g.GuildID, g.MessageID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load entries: %w", err)
	}
	winners := PickWinners(CandidatesFrom(entries), g.WinnerCount, nil, m.rng)

	ended, err := m.giveaways.Archive(ctx, g, winners, m.now())
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to archive giveaway: %w", err)
	}

	_, err = m.messenger.UpdateMessage(ctx, ended.ChannelID, ended.MessageID, discord.MessageUpdate{
		Embeds:     &[]discord.Embed{EndedEmbed(ended)},
		Components: &[]discord.ContainerComponent{},
	})
	if err != nil {
		if services.IsUnknown(err) {
			return nil, nil, m.dropOrphan(ctx, ended)
		}
		slog.Warn("Failed to update ended giveaway message",
			slog.String("type", "giveaway"),
			slog.String("message_id", ended.MessageID.String()),
			slog.Any("error", err))
	}

	if _, err = m.messenger.CreateMessage(ctx, ended.ChannelID, Announcement(ended, winners)); err != nil {
		if services.IsUnknown(err) {
			return nil, nil, m.dropOrphan(ctx, ended)
		}
		slog.Warn("Failed to announce giveaway winners",
			slog.String("type", "giveaway"),
			slog.String("message_id", ended.MessageID.String()),
			slog.Any("error", err))
	}

	notifyWinners(ctx, m.messenger, ended, winners)

	slog.Info("Giveaway ended",
		slog.String("type", "giveaway"),
		slog.String("guild_id", ended.GuildID.String()),
		slog.String("message_id", ended.MessageID.String()),
		slog.Int("entrants", len(entries)),
		slog.Int("winners", len(winners)))
	return ended, winners, nil
}

func (m *Manager) dropOrphan(ctx context.Context, ended *models.EndedGiveaway) error {
	slog.Warn("Giveaway message is gone, dropping giveaway",
		slog.String("type", "giveaway"),
		slog.String("guild_id", ended.GuildID.String()),
		slog.String("channel_id", ended.ChannelID.String()),
		slog.String("message_id", ended.MessageID.String()))
	if err := m.giveaways.DeleteEnded(ctx, ended.GuildID, ended.MessageID); err != nil && !repositories.IsNotFound(err) {
		return fmt.Errorf("failed to drop orphaned giveaway: %w", err)
	}
	return ErrOrphaned
}

// Reroll draws count new winners from the ended giveaway's stored entries.
// Previous winners are excluded unless includePrevious is set.
func (m *Manager) Reroll(ctx context.Context, guildID, messageID snowflake.ID, count int, includePrevious bool) ([]snowflake.ID, error) {
	ended, err := m.giveaways.GetEnded(ctx, guildID, messageID)
	if err != nil {
		if !repositories.IsNotFound(err) {
			return nil, fmt.Errorf("failed to load ended giveaway: %w", err)
		}
		if _, activeErr := m.giveaways.Get(ctx, guildID, messageID); activeErr == nil {
			return nil, ErrNotEnded
		}
		return nil, ErrNotFound
	}

	if count <= 0 {
		count = ended.WinnerCount
	}
	if err = ValidateWinners(count); err != nil {
		return nil, err
	}

	entries, err := m.entries.List(ctx, guildID, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}

	previous := models.IDs(ended.WinnerIDs)
	var exclude map[snowflake.ID]struct{}
	if !includePrevious {
		exclude = make(map[snowflake.ID]struct{}, len(previous))
		for _, id := range previous {
			exclude[id] = struct{}{}
		}
	}

	winners := PickWinners(CandidatesFrom(entries), count, exclude, m.rng)
	if len(winners) == 0 {
		return nil, ErrNoEntrants
	}

	all := mergeWinners(previous, winners)
	if err = m.giveaways.UpdateEndedWinners(ctx, ended.ID, all); err != nil {
		return nil, fmt.Errorf("failed to store rerolled winners: %w", err)
	}
	ended.WinnerIDs = models.RawIDs(all)
	ended.RerollCount++

	if _, err = m.messenger.CreateMessage(ctx, ended.ChannelID, RerollAnnouncement(ended, winners)); err != nil {
		if services.IsUnknown(err) {
			return nil, m.dropOrphan(ctx, ended)
		}
		return nil, fmt.Errorf("failed to announce reroll: %w", err)
	}

	_, err = m.messenger.UpdateMessage(ctx, ended.ChannelID, ended.MessageID, discord.MessageUpdate{
		Embeds: &[]discord.Embed{EndedEmbed(ended)},
	})
	if err != nil {
		slog.Debug("Failed to refresh ended giveaway message after reroll",
			slog.String("type", "giveaway"),
			slog.String("message_id", ended.MessageID.String()),
			slog.Any("error", err))
	}

	notifyWinners(ctx, m.messenger, ended, winners)

	slog.Info("Giveaway rerolled",
		slog.String("type", "giveaway"),
		slog.String("guild_id", guildID.String()),
		slog.String("message_id", messageID.String()),
		slog.Int("winners", len(winners)),
		slog.Bool("include_previous", includePrevious))
	return winners, nil
}

// mergeWinners appends next to prev, skipping users already present.
func mergeWinners(prev, next []snowflake.ID) []snowflake.ID {
	merged := make([]snowflake.ID, 0, len(prev)+len(next))
	seen := make(map[snowflake.ID]struct{}, len(prev)+len(next))
	for _, list := range [][]snowflake.ID{prev, next} {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			merged = append(merged, id)
		}
	}
	return merged
}

// Delete removes a giveaway, active or ended, together with its entries.
// The Discord message is removed on a best effort basis.
func (m *Manager) Delete(ctx context.Context, guildID, messageID snowflake.ID) error {
	var channelID snowflake.ID

	g, err := m.giveaways.Get(ctx, guildID, messageID)
	switch {
	case err == nil:
		channelID = g.ChannelID
		err = m.giveaways.Delete(ctx, guildID, messageID)
	case repositories.IsNotFound(err):
		var ended *models.EndedGiveaway
		ended, err = m.giveaways.GetEnded(ctx, guildID, messageID)
		if repositories.IsNotFound(err) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load ended giveaway: %w", err)
		}
		channelID = ended.ChannelID
		err = m.giveaways.DeleteEnded(ctx, guildID, messageID)
	}
	if err != nil {
		if repositories.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete giveaway: %w", err)
	}

	if err = m.messenger.DeleteMessage(ctx, channelID, messageID); err != nil && !services.IsUnknown(err) {
		slog.Warn("Failed to delete giveaway message",
			slog.String("type", "giveaway"),
			slog.String("message_id", messageID.String()),
			slog.Any("error", err))
	}
	return nil
}

func (m *Manager) EditPrize(ctx context.Context, guildID, messageID snowflake.ID, prize string) (*models.Giveaway, error) {
	prize, err := validatePrize(prize)
	if err != nil {
		return nil, err
	}
	return m.mutate(ctx, guildID, messageID, func(g *models.Giveaway) error {
		g.Prize = prize
		return nil
	})
}

func (m *Manager) EditHost(ctx context.Context, guildID, messageID, hostID snowflake.ID) (*models.Giveaway, error) {
	return m.mutate(ctx, guildID, messageID, func(g *models.Giveaway) error {
		g.HostID = hostID
		return nil
	})
}

func (m *Manager) EditWinners(ctx context.Context, guildID, messageID snowflake.ID, winners int) (*models.Giveaway, error) {
	if err := ValidateWinners(winners); err != nil {
		return nil, err
	}
	return m.mutate(ctx, guildID, messageID, func(g *models.Giveaway) error {
		g.WinnerCount = winners
		return nil
	})
}

// EditDuration sets the remaining time to d from now. The end time can only
// move earlier.
func (m *Manager) EditDuration(ctx context.Context, guildID, messageID snowflake.ID, d time.Duration) (*models.Giveaway, error) {
	if d <= 0 {
		return nil, ErrInvalidDuration
	}
	end := m.now().Add(d)
	return m.mutate(ctx, guildID, messageID, func(g *models.Giveaway) error {
		if !end.Before(g.EndTime) {
			return ErrEndExtension
		}
		g.EndTime = end
		return nil
	})
}

func (m *Manager) AddRequirement(ctx context.Context, guildID, messageID snowflake.ID, req Requirement) (*models.Giveaway, error) {
	return m.mutateRequirements(ctx, guildID, messageID, func(r *Requirements) error { return r.Add(req) })
}

func (m *Manager) EditRequirement(ctx context.Context, guildID, messageID snowflake.ID, req Requirement) (*models.Giveaway, error) {
	return m.mutateRequirements(ctx, guildID, messageID, func(r *Requirements) error { return r.Edit(req) })
}

func (m *Manager) RemoveRequirement(ctx context.Context, guildID, messageID snowflake.ID, kind Kind) (*models.Giveaway, error) {
	return m.mutateRequirements(ctx, guildID, messageID, func(r *Requirements) error { return r.Remove(kind) })
}

func (m *Manager) mutateRequirements(ctx context.Context, guildID, messageID snowflake.ID, fn func(r *Requirements) error) (*models.Giveaway, error) {
	return m.mutate(ctx, guildID, messageID, func(g *models.Giveaway) error {
		reqs := RequirementsOf(g)
		if err := fn(&reqs); err != nil {
			return err
		}
		reqs.ApplyTo(g)
		return nil
	})
}

// mutate applies fn to the active giveaway, saves it and refreshes its embed.
func (m *Manager) mutate(ctx context.Context, guildID, messageID snowflake.ID, fn func(g *models.Giveaway) error) (*models.Giveaway, error) {
	g, err := m.active(ctx, guildID, messageID)
	if err != nil {
		return nil, err
	}
	if err = fn(g); err != nil {
		return nil, err
	}
	if err = m.giveaways.Update(ctx, g); err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrAlreadyEnded
		}
		return nil, fmt.Errorf("failed to update giveaway: %w", err)
	}

	_, err = m.messenger.UpdateMessage(ctx, g.ChannelID, g.MessageID, discord.MessageUpdate{
		Embeds: &[]discord.Embed{ActiveEmbed(g)},
	})
	if err != nil {
		slog.Warn("Failed to refresh giveaway message",
			slog.String("type", "giveaway"),
			slog.String("message_id", g.MessageID.String()),
			slog.Any("error", err))
	}
	return g, nil
}

// active loads a running giveaway, telling apart ended and unknown ones.
func (m *Manager) active(ctx context.Context, guildID, messageID snowflake.ID) (*models.Giveaway, error) {
	g, err := m.giveaways.Get(ctx, guildID, messageID)
	if err == nil {
		return g, nil
	}
	if !repositories.IsNotFound(err) {
		return nil, fmt.Errorf("failed to load giveaway: %w", err)
	}
	if _, endedErr := m.giveaways.GetEnded(ctx, guildID, messageID); endedErr == nil {
		return nil, ErrAlreadyEnded
	}
	return nil, ErrNotFound
}

func (m *Manager) ListActive(ctx context.Context, guildID snowflake.ID) ([]*models.Giveaway, error) {
	return m.giveaways.ListActive(ctx, guildID)
}

func (m *Manager) ListEnded(ctx context.Context, guildID snowflake.ID) ([]*models.EndedGiveaway, error) {
	return m.giveaways.ListEnded(ctx, guildID)
}

// IsUserError reports whether err should be shown to the invoking member as is.
func IsUserError(err error) bool {
	var denial *Denial
	if errors.As(err, &denial) {
		return true
	}
	for _, target := range []error{
		ErrNotFound, ErrAlreadyEnded, ErrNotEnded, ErrTooManyActive, ErrInvalidDuration,
		ErrEndExtension, ErrInvalidWinners, ErrEmptyPrize, ErrPrizeTooLong, ErrNoEntrants, ErrOrphaned,
		ErrInvalidRequirement, ErrRequirementExists, ErrRequirementMissing,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
