package starboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/tombola/tombola/config"
	"github.com/puzpuzpuz/xsync/v3"
)

type guildLock struct {
	mu sync.Mutex

	// guarded by the map bucket through Compute
	refs     int
	lastUsed time.Time
}

// GuildLocks hands out one mutex per guild, created on first use. Locks that
// nobody holds or waits for are evicted once idle for longer than idleTTL.
type GuildLocks struct {
	locks   *xsync.MapOf[snowflake.ID, *guildLock]
	idleTTL time.Duration
	now     func() time.Time
}

func NewGuildLocks(idleTTL time.Duration) *GuildLocks {
	if idleTTL <= 0 {
		idleTTL = config.DefaultLockIdleTTL
	}
	return &GuildLocks{
		locks:   xsync.NewMapOf[snowflake.ID, *guildLock](),
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

// Lock blocks until the guild's lock is held and returns its release func.
func (l *GuildLocks) Lock(guildID snowflake.ID) (unlock func()) {
	lock, _ := l.locks.Compute(guildID, func(old *guildLock, loaded bool) (*guildLock, bool) {
		if !loaded {
			old = &guildLock{}
		}
		old.refs++
		return old, false
	})
	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()
		l.locks.Compute(guildID, func(old *guildLock, loaded bool) (*guildLock, bool) {
			if loaded {
				old.refs--
				old.lastUsed = l.now()
			}
			return old, !loaded
		})
	}
}

// EvictIdle drops unreferenced locks idle past the TTL and reports how many
// were removed.
func (l *GuildLocks) EvictIdle() int {
	cutoff := l.now().Add(-l.idleTTL)
	evicted := 0
	l.locks.Range(func(guildID snowflake.ID, _ *guildLock) bool {
		l.locks.Compute(guildID, func(old *guildLock, loaded bool) (*guildLock, bool) {
			if !loaded {
				return old, true
			}
			if old.refs == 0 && old.lastUsed.Before(cutoff) {
				evicted++
				return old, true
			}
			return old, false
		})
		return true
	})
	return evicted
}

func (l *GuildLocks) Len() int {
	return l.locks.Size()
}

// RunJanitor evicts idle locks until ctx is cancelled.
func (l *GuildLocks) RunJanitor(ctx context.Context) {
	ticker := time.NewTicker(config.LockJanitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := l.EvictIdle(); n > 0 {
				slog.Debug("Evicted idle starboard locks",
					slog.String("type", "starboard"),
					slog.Int("count", n),
					slog.Int("remaining", l.Len()))
			}
		case <-ctx.Done():
			return
		}
	}
}
