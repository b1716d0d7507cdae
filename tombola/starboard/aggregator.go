package starboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/tombola/tombola/config"
	"github.com/ellavondegurechaff/tombola/tombola/database/models"
	"github.com/ellavondegurechaff/tombola/tombola/database/repositories"
	"github.com/ellavondegurechaff/tombola/tombola/services"
)

// Aggregator keeps starboard mirrors in line with reaction counts. Every
// read-modify-write for a guild runs under that guild's lock.
type Aggregator struct {
	repo     repositories.StarboardRepository
	discord  Discord
	mirror   Uploader
	locks    *GuildLocks
	throttle *Throttle
}

// NewAggregator wires the aggregator. mirror may be nil, in which case
// oversized attachments are linked to Discord's CDN.
func NewAggregator(repo repositories.StarboardRepository, discord Discord, mirror Uploader, locks *GuildLocks, window time.Duration) (*Aggregator, error) {
	a := &Aggregator{
		repo:    repo,
		discord: discord,
		mirror:  mirror,
		locks:   locks,
	}
	throttle, err := NewThrottle(window, config.ThrottleRegistrySize, func(ctx context.Context, ref MessageRef) {
		if _, err := a.Sync(ctx, ref); err != nil {
			slog.Error("Starboard sync failed",
				slog.String("type", "starboard"),
				slog.String("guild_id", ref.GuildID.String()),
				slog.String("message_id", ref.MessageID.String()),
				slog.String("emoji", ref.Emoji),
				slog.Any("error", err))
		}
	})
	if err != nil {
		return nil, err
	}
	a.throttle = throttle
	return a, nil
}

func (a *Aggregator) Close() {
	a.throttle.Close()
}

// HandleReaction filters a reaction event and hands the message to the
// throttle. Reactions in the starboard channel itself are ignored and
// self-reactions are removed when the starboard disallows them.
func (a *Aggregator) HandleReaction(ctx context.Context, ev ReactionEvent) error {
	cfg, err := a.repo.Get(ctx, ev.GuildID, ev.Emoji)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil
		}
		return err
	}
	if ev.ChannelID == cfg.ChannelID {
		return nil
	}

	if ev.Added && !cfg.SelfStar {
		authorID, err := a.authorOf(ctx, ev)
		if err != nil {
			if services.IsUnknown(err) {
				return nil
			}
			return fmt.Errorf("failed to fetch starred message: %w", err)
		}
		if authorID == ev.UserID {
			if err = a.discord.RemoveUserReaction(ctx, ev.ChannelID, ev.MessageID, ev.Emoji, ev.UserID); err != nil {
				slog.Debug("Failed to remove self star",
					slog.String("type", "starboard"),
					slog.String("message_id", ev.MessageID.String()),
					slog.Any("error", err))
			}
			return nil
		}
	}

	a.throttle.Submit(ctx, ev.Ref())
	return nil
}

func (a *Aggregator) authorOf(ctx context.Context, ev ReactionEvent) (snowflake.ID, error) {
	if ev.AuthorID != nil {
		return *ev.AuthorID, nil
	}
	msg, err := a.discord.GetMessage(ctx, ev.ChannelID, ev.MessageID)
	if err != nil {
		return 0, err
	}
	return msg.Author.ID, nil
}

// Sync reconciles the mirror of ref with the source message's current
// reaction count.
func (a *Aggregator) Sync(ctx context.Context, ref MessageRef) (Transition, error) {
	unlock := a.locks.Lock(ref.GuildID)
	defer unlock()

	cfg, err := a.repo.Get(ctx, ref.GuildID, ref.Emoji)
	if err != nil {
		if repositories.IsNotFound(err) {
			return Unchanged, nil
		}
		return Unchanged, err
	}

	entry, err := a.repo.GetEntry(ctx, ref.GuildID, ref.ChannelID, ref.MessageID, ref.Emoji)
	if err != nil {
		if !repositories.IsNotFound(err) {
			return Unchanged, err
		}
		entry = nil
	}

	msg, err := a.discord.GetMessage(ctx, ref.ChannelID, ref.MessageID)
	if err != nil {
		if services.IsUnknown(err) && entry != nil {
			return Removed, a.remove(ctx, entry)
		}
		if services.IsUnknown(err) {
			return Unchanged, nil
		}
		return Unchanged, fmt.Errorf("failed to fetch source message: %w", err)
	}

	count := ReactionCount(msg, ref.Emoji)
	switch {
	case count >= cfg.Threshold && entry == nil:
		return Posted, a.post(ctx, cfg, ref, msg, count)
	case count >= cfg.Threshold:
		return a.update(ctx, cfg, ref, msg, entry, count)
	case entry != nil:
		return Removed, a.remove(ctx, entry)
	}
	return Unchanged, nil
}

// ReactionCount returns how many reactions of the keyed emoji msg carries.
func ReactionCount(msg *discord.Message, emoji string) int {
	for _, r := range msg.Reactions {
		if keyOfEmoji(r.Emoji) == emoji {
			return r.Count
		}
	}
	return 0
}

func (a *Aggregator) post(ctx context.Context, cfg *models.Starboard, ref MessageRef, msg *discord.Message, count int) error {
	create := a.render(ctx, cfg, msg, count)
	mirror, err := a.discord.CreateMessage(ctx, cfg.ChannelID, create)
	if err != nil {
		return fmt.Errorf("failed to post starboard message: %w", err)
	}

	entry := &models.StarboardEntry{
		GuildID:            ref.GuildID,
		ChannelID:          ref.ChannelID,
		MessageID:          ref.MessageID,
		Emoji:              ref.Emoji,
		StarboardChannelID: cfg.ChannelID,
		StarboardMessageID: mirror.ID,
		Stars:              count,
	}
	if err = a.repo.UpsertEntry(ctx, entry); err != nil {
		if delErr := a.discord.DeleteMessage(ctx, cfg.ChannelID, mirror.ID); delErr != nil {
			slog.Warn("Failed to remove unsaved starboard message",
				slog.String("type", "starboard"),
				slog.String("message_id", mirror.ID.String()),
				slog.Any("error", delErr))
		}
		return fmt.Errorf("failed to save starboard entry: %w", err)
	}

	slog.Info("Message starred",
		slog.String("type", "starboard"),
		slog.String("guild_id", ref.GuildID.String()),
		slog.String("message_id", ref.MessageID.String()),
		slog.String("emoji", ref.Emoji),
		slog.Int("count", count))
	return nil
}

// update edits the count label in place. A mirror deleted by hand is posted
// again rather than left dangling.
func (a *Aggregator) update(ctx context.Context, cfg *models.Starboard, ref MessageRef, msg *discord.Message, entry *models.StarboardEntry, count int) (Transition, error) {
	if entry.Stars == count {
		return Unchanged, nil
	}

	label := Label(ref.Emoji, count, ref.ChannelID)
	_, err := a.discord.UpdateMessage(ctx, entry.StarboardChannelID, entry.StarboardMessageID, discord.MessageUpdate{Content: &label})
	if err != nil {
		if services.IsUnknown(err) {
			if err = a.repo.DeleteEntry(ctx, entry.GuildID, entry.ChannelID, entry.MessageID, entry.Emoji); err != nil && !repositories.IsNotFound(err) {
				return Unchanged, err
			}
			return Posted, a.post(ctx, cfg, ref, msg, count)
		}
		return Unchanged, fmt.Errorf("failed to update starboard message: %w", err)
	}

	entry.Stars = count
	if err = a.repo.UpsertEntry(ctx, entry); err != nil {
		return Updated, fmt.Errorf("failed to save starboard entry: %w", err)
	}
	return Updated, nil
}

func (a *Aggregator) remove(ctx context.Context, entry *models.StarboardEntry) error {
	if err := a.discord.DeleteMessage(ctx, entry.StarboardChannelID, entry.StarboardMessageID); err != nil && !services.IsUnknown(err) {
		return fmt.Errorf("failed to delete starboard message: %w", err)
	}
	if err := a.repo.DeleteEntry(ctx, entry.GuildID, entry.ChannelID, entry.MessageID, entry.Emoji); err != nil && !repositories.IsNotFound(err) {
		return err
	}

	slog.Info("Message unstarred",
		slog.String("type", "starboard"),
		slog.String("guild_id", entry.GuildID.String()),
		slog.String("message_id", entry.MessageID.String()),
		slog.String("emoji", entry.Emoji))
	return nil
}

// RemoveMessage drops every mirror of a source message. Used when the
// message is deleted or all of its reactions are cleared.
func (a *Aggregator) RemoveMessage(ctx context.Context, guildID, channelID, messageID snowflake.ID) error {
	unlock := a.locks.Lock(guildID)
	defer unlock()

	entries, err := a.repo.ListEntriesForMessage(ctx, guildID, channelID, messageID)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err = a.remove(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

// RemoveEmoji drops the mirror for one emoji whose reactions were cleared.
func (a *Aggregator) RemoveEmoji(ctx context.Context, ref MessageRef) error {
	unlock := a.locks.Lock(ref.GuildID)
	defer unlock()

	entry, err := a.repo.GetEntry(ctx, ref.GuildID, ref.ChannelID, ref.MessageID, ref.Emoji)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil
		}
		return err
	}
	return a.remove(ctx, entry)
}

// AddConfig creates a starboard for emoji posting into channelID.
func (a *Aggregator) AddConfig(ctx context.Context, guildID, channelID snowflake.ID, emoji string, threshold int, selfStar bool) (*models.Starboard, error) {
	key, err := ParseEmoji(emoji)
	if err != nil {
		return nil, err
	}
	if threshold < 1 || threshold > config.MaxStarboardThreshold {
		return nil, fmt.Errorf("%w: must be between 1 and %d", ErrInvalidThreshold, config.MaxStarboardThreshold)
	}

	sb := &models.Starboard{
		GuildID:   guildID,
		Emoji:     key,
		ChannelID: channelID,
		Threshold: threshold,
		SelfStar:  selfStar,
	}
	if err = a.repo.Create(ctx, sb, config.MaxStarboardsPerGuild); err != nil {
		switch {
		case repositories.IsLimit(err):
			return nil, ErrLimitReached
		case repositories.IsConflict(err):
			return nil, ErrExists
		}
		return nil, fmt.Errorf("failed to create starboard: %w", err)
	}
	return sb, nil
}

// RemoveConfig deletes the starboard for emoji in channelID, with its entries.
// Existing mirror messages are left in place.
func (a *Aggregator) RemoveConfig(ctx context.Context, guildID, channelID snowflake.ID, emoji string) error {
	key, err := ParseEmoji(emoji)
	if err != nil {
		return err
	}

	unlock := a.locks.Lock(guildID)
	defer unlock()

	cfg, err := a.repo.Get(ctx, guildID, key)
	if err != nil {
		if repositories.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	if cfg.ChannelID != channelID {
		return ErrNotFound
	}
	if err = a.repo.Delete(ctx, guildID, key); err != nil {
		if repositories.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (a *Aggregator) ListConfigs(ctx context.Context, guildID snowflake.ID) ([]*models.Starboard, error) {
	return a.repo.ListByGuild(ctx, guildID)
}
