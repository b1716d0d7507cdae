package stats

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/tombola/tombola/database/repositories"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/semaphore"
)

const maxConcurrentInviteFetches = 4

// InviteSource lists a guild's invites with their use counts.
type InviteSource interface {
	GetGuildInvites(ctx context.Context, guildID snowflake.ID) ([]discord.ExtendedInvite, error)
}

type inviteUse struct {
	uses      int
	maxUses   int
	inviterID snowflake.ID
}

type guildInvites struct {
	mu    sync.Mutex
	codes map[string]inviteUse
}

// InviteTracker credits inviters by diffing invite use counts before and
// after a member joins. Discord does not say which invite was used, so a
// join is only credited when exactly one invite changed.
type InviteTracker struct {
	source InviteSource
	repo   repositories.MemberStatsRepository
	guilds *xsync.MapOf[snowflake.ID, *guildInvites]
	fetch  *semaphore.Weighted
}

func NewInviteTracker(source InviteSource, repo repositories.MemberStatsRepository) *InviteTracker {
	return &InviteTracker{
		source: source,
		repo:   repo,
		guilds: xsync.NewMapOf[snowflake.ID, *guildInvites](),
		fetch:  semaphore.NewWeighted(maxConcurrentInviteFetches),
	}
}

func (t *InviteTracker) guild(guildID snowflake.ID) *guildInvites {
	g, _ := t.guilds.LoadOrCompute(guildID, func() *guildInvites {
		return &guildInvites{}
	})
	return g
}

func (t *InviteTracker) load(ctx context.Context, guildID snowflake.ID) (map[string]inviteUse, error) {
	if err := t.fetch.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer t.fetch.Release(1)

	invites, err := t.source.GetGuildInvites(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invites: %w", err)
	}
	codes := make(map[string]inviteUse, len(invites))
	for _, inv := range invites {
		use := inviteUse{uses: inv.Uses, maxUses: inv.MaxUses}
		if inv.Inviter != nil {
			use.inviterID = inv.Inviter.ID
		}
		codes[inv.Code] = use
	}
	return codes, nil
}

// Snapshot records the current invite counts of a guild.
func (t *InviteTracker) Snapshot(ctx context.Context, guildID snowflake.ID) error {
	g := t.guild(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()

	codes, err := t.load(ctx, guildID)
	if err != nil {
		return err
	}
	g.codes = codes
	return nil
}

// Forget drops the snapshot of a guild the bot left.
func (t *InviteTracker) Forget(guildID snowflake.ID) {
	t.guilds.Delete(guildID)
}

// HandleJoin credits the inviter of userID, if one can be determined, and
// returns it.
func (t *InviteTracker) HandleJoin(ctx context.Context, guildID, userID snowflake.ID) (snowflake.ID, bool, error) {
	g := t.guild(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()

	current, err := t.load(ctx, guildID)
	if err != nil {
		return 0, false, err
	}
	previous := g.codes
	g.codes = current
	if previous == nil {
		// no baseline yet, this join only seeds it
		return 0, false, nil
	}

	inviterID, ok := usedInvite(previous, current)
	if !ok || inviterID == 0 || inviterID == userID {
		return 0, false, nil
	}
	if err = t.repo.AddInvites(ctx, guildID, inviterID, 1); err != nil {
		return 0, false, err
	}

	slog.Debug("Credited invite",
		slog.String("type", "stats"),
		slog.String("guild_id", guildID.String()),
		slog.String("user_id", userID.String()),
		slog.String("inviter_id", inviterID.String()))
	return inviterID, true, nil
}

// usedInvite finds the single invite whose use count went up. A limited
// invite that vanished one use short of its cap was consumed by this join.
func usedInvite(previous, current map[string]inviteUse) (snowflake.ID, bool) {
	var (
		found   snowflake.ID
		matches int
	)
	for code, now := range current {
		if before, ok := previous[code]; ok && now.uses > before.uses {
			found = now.inviterID
			matches++
		} else if !ok && now.uses > 0 {
			found = now.inviterID
			matches++
		}
	}
	if matches == 0 {
		for code, before := range previous {
			if _, ok := current[code]; !ok && before.maxUses > 0 && before.uses == before.maxUses-1 {
				found = before.inviterID
				matches++
			}
		}
	}
	return found, matches == 1
}
