// Package stats gathers the member activity giveaway requirements are
// checked against: message counts, XP levels and invites.
package stats

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/tombola/tombola/config"
	"github.com/ellavondegurechaff/tombola/tombola/database/repositories"
	lru "github.com/hashicorp/golang-lru"
)

type memberKey struct {
	guildID snowflake.ID
	userID  snowflake.ID
}

// Collector counts guild messages in memory and writes them out in batches.
// Track never blocks the gateway: when the buffer is full the message is
// dropped and counted.
type Collector struct {
	repo         repositories.MemberStatsRepository
	events       chan memberKey
	interval     time.Duration
	xpPerMessage int64
	cooldown     time.Duration
	lastXP       *lru.Cache
	now          func() time.Time

	// owned by the Run goroutine
	pending map[memberKey]*repositories.MessageDelta

	dropped atomic.Int64
}

func NewCollector(repo repositories.MemberStatsRepository, interval time.Duration, xpPerMessage int, cooldown time.Duration) (*Collector, error) {
	if interval <= 0 {
		interval = config.DefaultFlushInterval
	}
	lastXP, err := lru.New(config.XPCooldownCacheSize)
	if err != nil {
		return nil, err
	}
	return &Collector{
		repo:         repo,
		events:       make(chan memberKey, config.StatsBufferSize),
		interval:     interval,
		xpPerMessage: int64(xpPerMessage),
		cooldown:     cooldown,
		lastXP:       lastXP,
		now:          time.Now,
		pending:      make(map[memberKey]*repositories.MessageDelta),
	}, nil
}

// Track queues one message sent by userID. It reports false when the message was
// dropped.
func (c *Collector) Track(guildID, userID snowflake.ID) bool {
	select {
	case c.events <- memberKey{guildID: guildID, userID: userID}:
		return true
	default:
		c.dropped.Add(1)
		return false
	}
}

// Dropped returns how many messages were lost to a full buffer.
func (c *Collector) Dropped() int64 {
	return c.dropped.Load()
}

// Run records queued messages and flushes every interval. The last batch is
// written when ctx is cancelled.
func (c *Collector) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case key := <-c.events:
			c.record(key)
		case <-ticker.C:
			c.flushLogged(ctx)
		case <-ctx.Done():
			c.drain()
			flushCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
			c.flushLogged(flushCtx)
			cancel()
			return
		}
	}
}

func (c *Collector) drain() {
	for {
		select {
		case key := <-c.events:
			c.record(key)
		default:
			return
		}
	}
}

func (c *Collector) record(key memberKey) {
	delta, ok := c.pending[key]
	if !ok {
		delta = &repositories.MessageDelta{GuildID: key.guildID, UserID: key.userID}
		c.pending[key] = delta
	}
	delta.Messages++

	now := c.now()
	if last, ok := c.lastXP.Get(key); ok && now.Sub(last.(time.Time)) < c.cooldown {
		return
	}
	c.lastXP.Add(key, now)
	delta.XP += c.xpPerMessage
}

// flush writes the pending deltas. On failure they are kept and merged into
// the next attempt.
func (c *Collector) flush(ctx context.Context) (int, error) {
	if len(c.pending) == 0 {
		return 0, nil
	}
	deltas := make([]repositories.MessageDelta, 0, len(c.pending))
	for _, d := range c.pending {
		deltas = append(deltas, *d)
	}
	if err := c.repo.ApplyMessageDeltas(ctx, deltas); err != nil {
		return 0, err
	}
	clear(c.pending)
	return len(deltas), nil
}

func (c *Collector) flushLogged(ctx context.Context) {
	n, err := c.flush(ctx)
	if err != nil {
		slog.Error("Failed to flush member stats",
			slog.String("type", "stats"),
			slog.Int("pending", len(c.pending)),
			slog.Any("error", err))
		return
	}
	if n > 0 {
		slog.Debug("Flushed member stats",
			slog.String("type", "stats"),
			slog.Int("members", n),
			slog.Int64("dropped", c.Dropped()))
	}
}
