package giveaway

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ellavondegurechaff/tombola/tombola/config"
	"github.com/ellavondegurechaff/tombola/tombola/database/models"
	"github.com/ellavondegurechaff/tombola/tombola/database/repositories"
)

// expiredBatchSize bounds how many giveaways a single tick ends.
const expiredBatchSize = 50

// Scheduler polls for expired giveaways, ends them one at a time and purges
// ended giveaways past the retention window.
type Scheduler struct {
	manager   *Manager
	giveaways repositories.GiveawayRepository
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
}

func NewScheduler(manager *Manager, giveaways repositories.GiveawayRepository, interval, retention time.Duration) *Scheduler {
	if interval <= 0 {
		interval = config.DefaultPollInterval
	}
	if retention <= 0 {
		retention = config.DefaultRetention
	}
	return &Scheduler{
		manager:   manager,
		giveaways: giveaways,
		interval:  interval,
		retention: retention,
		now:       time.Now,
	}
}

// Run ticks until ctx is cancelled. The first tick runs immediately so
// giveaways that expired while the bot was offline end on startup.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Tick(ctx)
	for {
		select {
		case <-ticker.C:
			s.Tick(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Tick runs one pass. A failure on one giveaway never stops the others.
func (s *Scheduler) Tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Giveaway scheduler tick panicked",
				slog.String("type", "giveaway"),
				slog.Any("panic", r))
		}
	}()

	now := s.now()
	expired, err := s.giveaways.ListExpired(ctx, now, expiredBatchSize)
	if err != nil {
		slog.Error("Failed to list expired giveaways",
			slog.String("type", "giveaway"),
			slog.Any("error", err))
	}

	for _, g := range expired {
		if ctx.Err() != nil {
			return
		}
		s.finishOne(ctx, g)
	}

	purged, err := s.giveaways.PurgeEnded(ctx, now.Add(-s.retention))
	if err != nil {
		slog.Error("Failed to purge ended giveaways",
			slog.String("type", "giveaway"),
			slog.Any("error", err))
		return
	}
	if purged > 0 {
		slog.Info("Purged ended giveaways",
			slog.String("type", "giveaway"),
			slog.Int64("count", purged))
	}
}

// finishOne ends g and logs the outcome. A panic is contained to this row so
// later giveaways and the purge still run.
func (s *Scheduler) finishOne(ctx context.Context, g *models.Giveaway) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Ending giveaway panicked",
				slog.String("type", "giveaway"),
				slog.String("guild_id", g.GuildID.String()),
				slog.String("message_id", g.MessageID.String()),
				slog.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, config.GiveawayEndTimeout)
	defer cancel()

	_, _, err := s.manager.Finish(ctx, g)
	switch {
	case err == nil:
	case errors.Is(err, ErrOrphaned), errors.Is(err, ErrNotFound):
		slog.Info("Skipped expired giveaway",
			slog.String("type", "giveaway"),
			slog.String("message_id", g.MessageID.String()),
			slog.String("reason", err.Error()))
	default:
		slog.Error("Failed to end giveaway",
			slog.String("type", "giveaway"),
			slog.String("guild_id", g.GuildID.String()),
			slog.String("message_id", g.MessageID.String()),
			slog.Any("error", err))
	}
}
