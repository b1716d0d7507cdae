package giveaway

import (
	"context"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/tombola/tombola/config"
	"github.com/ellavondegurechaff/tombola/tombola/database/models"
	"golang.org/x/sync/errgroup"
)

// notifyWinners DMs every winner. Closed DMs are expected, so failures are
// logged and never returned.
func notifyWinners(ctx context.Context, messenger Messenger, ended *models.EndedGiveaway, winners []snowflake.ID) {
	if len(winners) == 0 {
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(config.WinnerDMConcurrency)

	dm := WinnerDM(ended)
	for _, userID := range winners {
		g.Go(func() error {
			if err := messenger.SendDM(ctx, userID, dm); err != nil {
				slog.Debug("Could not DM giveaway winner",
					slog.String("type", "giveaway"),
					slog.String("user_id", userID.String()),
					slog.String("message_id", ended.MessageID.String()),
					slog.Any("error", err))
			}
			return nil
		})
	}
	_ = g.Wait()
}
