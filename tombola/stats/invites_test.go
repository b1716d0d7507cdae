package stats

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/tombola/tombola/database/repositories/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeInvites struct {
	mu      sync.Mutex
	invites []discord.ExtendedInvite
	err     error
}

func (f *fakeInvites) set(invites ...discord.ExtendedInvite) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invites = invites
}

func (f *fakeInvites) GetGuildInvites(context.Context, snowflake.ID) ([]discord.ExtendedInvite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]discord.ExtendedInvite(nil), f.invites...), f.err
}

func invite(code string, inviter snowflake.ID, uses, maxUses int) discord.ExtendedInvite {
	inv := discord.ExtendedInvite{Uses: uses, MaxUses: maxUses}
	inv.Code = code
	inv.Inviter = &discord.User{ID: inviter}
	return inv
}

func TestInviteTracker_HandleJoin(t *testing.T) {
	const (
		guild   snowflake.ID = 1
		alice   snowflake.ID = 10
		bob     snowflake.ID = 11
		newbie  snowflake.ID = 99
		another snowflake.ID = 98
	)
	ctx := context.Background()

	tests := []struct {
		name        string
		before      []discord.ExtendedInvite
		after       []discord.ExtendedInvite
		joined      snowflake.ID
		wantInviter snowflake.ID
		wantCredit  bool
	}{
		{
			name:        "single invite used",
			before:      []discord.ExtendedInvite{invite("a", alice, 1, 0), invite("b", bob, 4, 0)},
			after:       []discord.ExtendedInvite{invite("a", alice, 2, 0), invite("b", bob, 4, 0)},
			joined:      newbie,
			wantInviter: alice,
			wantCredit:  true,
		},
		{
			name:   "two invites changed is ambiguous",
			before: []discord.ExtendedInvite{invite("a", alice, 1, 0), invite("b", bob, 4, 0)},
			after:  []discord.ExtendedInvite{invite("a", alice, 2, 0), invite("b", bob, 5, 0)},
			joined: newbie,
		},
		{
			name:        "one-shot invite consumed",
			before:      []discord.ExtendedInvite{invite("a", alice, 1, 0), invite("once", bob, 0, 1)},
			after:       []discord.ExtendedInvite{invite("a", alice, 1, 0)},
			joined:      newbie,
			wantInviter: bob,
			wantCredit:  true,
		},
		{
			name:        "invite created after the snapshot",
			before:      []discord.ExtendedInvite{invite("a", alice, 1, 0)},
			after:       []discord.ExtendedInvite{invite("a", alice, 1, 0), invite("new", bob, 1, 0)},
			joined:      newbie,
			wantInviter: bob,
			wantCredit:  true,
		},
		{
			name:   "inviting yourself does not count",
			before: []discord.ExtendedInvite{invite("a", another, 0, 0)},
			after:  []discord.ExtendedInvite{invite("a", another, 1, 0)},
			joined: another,
		},
		{
			name:   "vanity or unknown join",
			before: []discord.ExtendedInvite{invite("a", alice, 1, 0)},
			after:  []discord.ExtendedInvite{invite("a", alice, 1, 0)},
			joined: newbie,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mock.NewMockMemberStatsRepository(ctrl)
			source := &fakeInvites{}
			tracker := NewInviteTracker(source, repo)

			source.set(tt.before...)
			require.NoError(t, tracker.Snapshot(ctx, guild))

			if tt.wantCredit {
				repo.EXPECT().AddInvites(gomock.Any(), guild, tt.wantInviter, 1).Return(nil)
			}
			source.set(tt.after...)
			inviter, ok, err := tracker.HandleJoin(ctx, guild, tt.joined)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCredit, ok)
			assert.Equal(t, tt.wantInviter, inviter)
		})
	}
}

func TestInviteTracker_FirstJoinSeedsSnapshot(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := mock.NewMockMemberStatsRepository(ctrl)
	source := &fakeInvites{}
	tracker := NewInviteTracker(source, repo)

	source.set(invite("a", 10, 5, 0))
	_, ok, err := tracker.HandleJoin(ctx, 1, 99)
	require.NoError(t, err)
	assert.False(t, ok)

	repo.EXPECT().AddInvites(gomock.Any(), snowflake.ID(1), snowflake.ID(10), 1).Return(nil)
	source.set(invite("a", 10, 6, 0))
	inviter, ok, err := tracker.HandleJoin(ctx, 1, 98)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, snowflake.ID(10), inviter)
}

func TestInviteTracker_FetchError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockMemberStatsRepository(ctrl)
	source := &fakeInvites{err: errors.New("missing permissions")}
	tracker := NewInviteTracker(source, repo)

	err := tracker.Snapshot(context.Background(), 1)
	assert.ErrorContains(t, err, "missing permissions")

	tracker.Forget(1)
	assert.Zero(t, tracker.guilds.Size())
}
