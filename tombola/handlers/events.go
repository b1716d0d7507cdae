package handlers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/tombola/tombola"
	"github.com/ellavondegurechaff/tombola/tombola/config"
	"github.com/ellavondegurechaff/tombola/tombola/database/repositories"
	"github.com/ellavondegurechaff/tombola/tombola/giveaway"
	"github.com/ellavondegurechaff/tombola/tombola/starboard"
)

// Listeners returns every gateway listener the bot needs besides the
// interaction router.
func Listeners(b *tombola.Bot) []bot.EventListener {
	return []bot.EventListener{
		bot.NewListenerFunc(b.OnReady),
		ReactionAddHandler(b),
		ReactionRemoveHandler(b),
		bot.NewListenerFunc(func(e *events.GuildMessageReactionRemoveAll) {
			ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
			defer cancel()
			logStarboardErr("remove all", e.MessageID, b.Aggregator.RemoveMessage(ctx, e.GuildID, e.ChannelID, e.MessageID))
		}),
		bot.NewListenerFunc(func(e *events.GuildMessageReactionRemoveEmoji) {
			ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
			defer cancel()
			ref := starboard.MessageRef{
				GuildID:   e.GuildID,
				ChannelID: e.ChannelID,
				MessageID: e.MessageID,
				Emoji:     starboard.KeyOf(e.Emoji.ID, e.Emoji.Name),
			}
			logStarboardErr("remove emoji", e.MessageID, b.Aggregator.RemoveEmoji(ctx, ref))
		}),
		MessageDeleteHandler(b),
		MessageHandler(b),
		MemberJoinHandler(b),
		bot.NewListenerFunc(func(e *events.GuildReady) {
			snapshotInvites(b, e.GuildID)
		}),
		bot.NewListenerFunc(func(e *events.GuildJoin) {
			snapshotInvites(b, e.GuildID)
		}),
		bot.NewListenerFunc(func(e *events.GuildLeave) {
			b.Invites.Forget(e.GuildID)
		}),
	}
}

// ReactionAddHandler enters members into giveaways and feeds the starboard.
func ReactionAddHandler(b *tombola.Bot) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.GuildMessageReactionAdd) {
		if e.Member.User.Bot {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
		defer cancel()

		emoji := starboard.KeyOf(e.Emoji.ID, e.Emoji.Name)
		p := giveaway.Participant{UserID: e.UserID, RoleIDs: e.Member.RoleIDs}
		_, err := b.Accumulator.RecordReaction(ctx, e.GuildID, e.MessageID, emoji, p)
		var denial *giveaway.Denial
		switch {
		case err == nil:
			return
		case errors.As(err, &denial), errors.Is(err, giveaway.ErrAlreadyEnded):
			rejectReaction(ctx, b, e, emoji, err)
			return
		case !errors.Is(err, giveaway.ErrNotFound):
			slog.Error("Failed to record giveaway reaction",
				slog.String("type", "giveaway"),
				slog.String("message_id", e.MessageID.String()),
				slog.String("user_id", e.UserID.String()),
				slog.Any("error", err))
			return
		}

		err = b.Aggregator.HandleReaction(ctx, starboard.ReactionEvent{
			GuildID:   e.GuildID,
			ChannelID: e.ChannelID,
			MessageID: e.MessageID,
			UserID:    e.UserID,
			AuthorID:  e.MessageAuthorID,
			Emoji:     emoji,
			Added:     true,
		})
		logStarboardErr("reaction add", e.MessageID, err)
	})
}

// rejectReaction takes back a reaction that did not count as an entry and
// tells the member why.
func rejectReaction(ctx context.Context, b *tombola.Bot, e *events.GuildMessageReactionAdd, emoji string, reason error) {
	if err := b.Discord.RemoveUserReaction(ctx, e.ChannelID, e.MessageID, emoji, e.UserID); err != nil {
		slog.Debug("Failed to remove rejected giveaway reaction",
			slog.String("type", "giveaway"),
			slog.String("message_id", e.MessageID.String()),
			slog.Any("error", err))
	}
	var denial *giveaway.Denial
	message := reason.Error()
	if errors.As(reason, &denial) {
		message = denial.Message()
	}
	if err := b.Discord.SendDM(ctx, e.UserID, giveaway.DenialDM(e.GuildID, e.ChannelID, e.MessageID, message)); err != nil {
		slog.Debug("Failed to DM giveaway denial",
			slog.String("type", "giveaway"),
			slog.String("user_id", e.UserID.String()),
			slog.Any("error", err))
	}
}

func ReactionRemoveHandler(b *tombola.Bot) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.GuildMessageReactionRemove) {
		ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
		defer cancel()

		emoji := starboard.KeyOf(e.Emoji.ID, e.Emoji.Name)
		err := b.Accumulator.RemoveReaction(ctx, e.GuildID, e.MessageID, emoji, e.UserID)
		switch {
		case err == nil || repositories.IsNotFound(err):
			return
		case !errors.Is(err, giveaway.ErrNotFound):
			slog.Error("Failed to withdraw giveaway entry",
				slog.String("type", "giveaway"),
				slog.String("message_id", e.MessageID.String()),
				slog.Any("error", err))
			return
		}

		err = b.Aggregator.HandleReaction(ctx, starboard.ReactionEvent{
			GuildID:   e.GuildID,
			ChannelID: e.ChannelID,
			MessageID: e.MessageID,
			UserID:    e.UserID,
			Emoji:     emoji,
		})
		logStarboardErr("reaction remove", e.MessageID, err)
	})
}

// MessageDeleteHandler drops mirrors of deleted messages and giveaways whose
// message was deleted by hand.
func MessageDeleteHandler(b *tombola.Bot) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.GuildMessageDelete) {
		ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
		defer cancel()

		logStarboardErr("message delete", e.MessageID, b.Aggregator.RemoveMessage(ctx, e.GuildID, e.ChannelID, e.MessageID))

		if err := b.Manager.Delete(ctx, e.GuildID, e.MessageID); err == nil {
			slog.Info("Removed giveaway whose message was deleted",
				slog.String("type", "giveaway"),
				slog.String("guild_id", e.GuildID.String()),
				slog.String("message_id", e.MessageID.String()))
		} else if !errors.Is(err, giveaway.ErrNotFound) {
			slog.Error("Failed to remove giveaway of deleted message",
				slog.String("type", "giveaway"),
				slog.String("message_id", e.MessageID.String()),
				slog.Any("error", err))
		}
	})
}

// MessageHandler counts member messages towards giveaway requirements.
func MessageHandler(b *tombola.Bot) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.GuildMessageCreate) {
		if e.Message.Author.Bot || e.Message.WebhookID != nil {
			return
		}
		b.Collector.Track(e.GuildID, e.Message.Author.ID)
	})
}

func MemberJoinHandler(b *tombola.Bot) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.GuildMemberJoin) {
		if e.Member.User.Bot {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
		defer cancel()

		if _, _, err := b.Invites.HandleJoin(ctx, e.GuildID, e.Member.User.ID); err != nil {
			slog.Warn("Failed to track invite",
				slog.String("type", "stats"),
				slog.String("guild_id", e.GuildID.String()),
				slog.Any("error", err))
		}
	})
}

func snapshotInvites(b *tombola.Bot, guildID snowflake.ID) {
	ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
	defer cancel()

	if err := b.Invites.Snapshot(ctx, guildID); err != nil {
		slog.Warn("Failed to snapshot invites",
			slog.String("type", "stats"),
			slog.String("guild_id", guildID.String()),
			slog.Any("error", err))
	}
}

func logStarboardErr(op string, messageID snowflake.ID, err error) {
	if err == nil {
		return
	}
	slog.Error("Starboard event failed",
		slog.String("type", "starboard"),
		slog.String("op", op),
		slog.String("message_id", messageID.String()),
		slog.Any("error", err))
}
