package giveaway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/tombola/tombola/database/models"
	"github.com/ellavondegurechaff/tombola/tombola/database/repositories"
	"github.com/ellavondegurechaff/tombola/tombola/database/repositories/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	testGuild   snowflake.ID = 100
	testChannel snowflake.ID = 200
	testMessage snowflake.ID = 300
	testUser    snowflake.ID = 400
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func idPtr(id snowflake.ID) *snowflake.ID { return &id }
func intPtr(n int) *int                   { return &n }

type accumulatorMocks struct {
	giveaways *mock.MockGiveawayRepository
	entries   *mock.MockEntryRepository
	settings  *mock.MockSettingsRepository
	stats     *mock.MockMemberStatsRepository
}

func newTestAccumulator(t *testing.T) (*Accumulator, accumulatorMocks) {
	ctrl := gomock.NewController(t)
	m := accumulatorMocks{
		giveaways: mock.NewMockGiveawayRepository(ctrl),
		entries:   mock.NewMockEntryRepository(ctrl),
		settings:  mock.NewMockSettingsRepository(ctrl),
		stats:     mock.NewMockMemberStatsRepository(ctrl),
	}
	a := NewAccumulator(m.giveaways, m.entries, m.settings, m.stats)
	a.now = func() time.Time { return testNow }
	return a, m
}

func activeGiveaway() *models.Giveaway {
	return &models.Giveaway{
		ID:           1,
		GuildID:      testGuild,
		ChannelID:    testChannel,
		MessageID:    testMessage,
		Prize:        "Nitro",
		WinnerCount:  1,
		Emoji:        "🎉",
		EndTime:      testNow.Add(time.Hour),
		BonusEntries: 1,
	}
}

func TestAccumulator_RecordEntry(t *testing.T) {
	tests := []struct {
		name       string
		giveaway   func(g *models.Giveaway)
		blacklist  []int64
		stats      *models.MemberStats
		roles      []snowflake.ID
		wantReason Reason
		wantWeight int
	}{
		{
			name:       "plain entry",
			wantWeight: 1,
		},
		{
			name:       "bonus role doubles weight",
			giveaway:   func(g *models.Giveaway) { g.BonusRoleID = idPtr(9) },
			roles:      []snowflake.ID{9},
			wantWeight: 2,
		},
		{
			name: "bonus increment is configurable",
			giveaway: func(g *models.Giveaway) {
				g.BonusRoleID = idPtr(9)
				g.BonusEntries = 4
			},
			roles:      []snowflake.ID{9},
			wantWeight: 5,
		},
		{
			name:       "blacklisted",
			blacklist:  []int64{5},
			roles:      []snowflake.ID{5},
			wantReason: ReasonBlacklisted,
		},
		{
			name:       "missing required role",
			giveaway:   func(g *models.Giveaway) { g.RequiredRoleID = idPtr(6) },
			wantReason: ReasonMissingRole,
		},
		{
			name:       "not enough messages",
			giveaway:   func(g *models.Giveaway) { g.RequiredMessages = intPtr(100) },
			stats:      &models.MemberStats{Messages: 99},
			wantReason: ReasonMessages,
		},
		{
			name:       "level too low",
			giveaway:   func(g *models.Giveaway) { g.RequiredLevel = intPtr(3) },
			stats:      &models.MemberStats{Level: 2},
			wantReason: ReasonLevel,
		},
		{
			name:       "not enough invites",
			giveaway:   func(g *models.Giveaway) { g.RequiredInvites = intPtr(2) },
			stats:      &models.MemberStats{Invites: 1},
			wantReason: ReasonInvites,
		},
		{
			name:       "ignored role",
			giveaway:   func(g *models.Giveaway) { g.IgnoreRoleID = idPtr(8) },
			roles:      []snowflake.ID{8},
			wantReason: ReasonIgnoredRole,
		},
		{
			name: "blacklist is checked before the required role",
			giveaway: func(g *models.Giveaway) {
				g.RequiredRoleID = idPtr(6)
			},
			blacklist:  []int64{5},
			roles:      []snowflake.ID{5},
			wantReason: ReasonBlacklisted,
		},
		{
			name: "messages are checked before level",
			giveaway: func(g *models.Giveaway) {
				g.RequiredMessages = intPtr(10)
				g.RequiredLevel = intPtr(10)
			},
			stats:      &models.MemberStats{Messages: 1, Level: 1},
			wantReason: ReasonMessages,
		},
		{
			name: "all requirements met",
			giveaway: func(g *models.Giveaway) {
				g.RequiredRoleID = idPtr(6)
				g.RequiredMessages = intPtr(10)
				g.RequiredLevel = intPtr(1)
				g.RequiredInvites = intPtr(1)
				g.IgnoreRoleID = idPtr(8)
			},
			stats:      &models.MemberStats{Messages: 10, Level: 1, Invites: 1},
			roles:      []snowflake.ID{6},
			wantWeight: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, m := newTestAccumulator(t)

			g := activeGiveaway()
			if tt.giveaway != nil {
				tt.giveaway(g)
			}
			m.giveaways.EXPECT().Get(gomock.Any(), testGuild, testMessage).Return(g, nil)
			m.settings.EXPECT().Get(gomock.Any(), testGuild).
				Return(&models.GiveawaySettings{GuildID: testGuild, BlacklistRoleIDs: tt.blacklist}, nil)
			if tt.stats != nil {
				m.stats.EXPECT().Get(gomock.Any(), testGuild, testUser).Return(tt.stats, nil)
			}
			if tt.wantReason == 0 {
				m.entries.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)
			}

			entry, err := a.RecordEntry(context.Background(), testGuild, testMessage, Participant{UserID: testUser, RoleIDs: tt.roles})

			if tt.wantReason != 0 {
				var denial *Denial
				require.True(t, errors.As(err, &denial), "want denial, got %v", err)
				assert.Equal(t, tt.wantReason, denial.Reason)
				assert.NotEmpty(t, denial.Message())
				assert.Nil(t, entry)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantWeight, entry.EntryCount)
			assert.Equal(t, testUser, entry.UserID)
		})
	}
}

func TestAccumulator_RecordEntryIsIdempotent(t *testing.T) {
	a, m := newTestAccumulator(t)

	g := activeGiveaway()
	g.BonusRoleID = idPtr(9)
	m.giveaways.EXPECT().Get(gomock.Any(), testGuild, testMessage).Return(g, nil).Times(2)
	m.settings.EXPECT().Get(gomock.Any(), testGuild).Return(&models.GiveawaySettings{GuildID: testGuild}, nil).Times(2)

	stored := map[snowflake.ID]int{}
	m.entries.EXPECT().Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *models.GiveawayEntry) error {
			stored[e.UserID] = e.EntryCount
			return nil
		}).Times(2)

	p := Participant{UserID: testUser, RoleIDs: []snowflake.ID{9}}
	for i := 0; i < 2; i++ {
		_, err := a.RecordEntry(context.Background(), testGuild, testMessage, p)
		require.NoError(t, err)
	}

	assert.Len(t, stored, 1)
	assert.Equal(t, 2, stored[testUser], "re-entering must not accumulate weight")
}

func TestAccumulator_RecordEntryRejectsUnknownAndEnded(t *testing.T) {
	a, m := newTestAccumulator(t)

	m.giveaways.EXPECT().Get(gomock.Any(), testGuild, snowflake.ID(1)).
		Return(nil, &repositories.NotFoundError{Entity: "giveaway", ID: 1})
	_, err := a.RecordEntry(context.Background(), testGuild, 1, Participant{UserID: testUser})
	assert.ErrorIs(t, err, ErrNotFound)

	g := activeGiveaway()
	g.EndTime = testNow
	m.giveaways.EXPECT().Get(gomock.Any(), testGuild, testMessage).Return(g, nil)
	_, err = a.RecordEntry(context.Background(), testGuild, testMessage, Participant{UserID: testUser})
	assert.ErrorIs(t, err, ErrAlreadyEnded)
}

func TestAccumulator_RemoveEntry(t *testing.T) {
	a, m := newTestAccumulator(t)

	m.giveaways.EXPECT().Get(gomock.Any(), testGuild, testMessage).Return(activeGiveaway(), nil)
	m.entries.EXPECT().Delete(gomock.Any(), testGuild, testMessage, testUser).Return(nil)

	assert.NoError(t, a.RemoveEntry(context.Background(), testGuild, testMessage, testUser))
}

func TestAccumulator_Reactions(t *testing.T) {
	a, m := newTestAccumulator(t)
	ctx := context.Background()

	m.giveaways.EXPECT().Get(gomock.Any(), testGuild, testMessage).Return(activeGiveaway(), nil).Times(3)

	_, err := a.RecordReaction(ctx, testGuild, testMessage, "🔥", Participant{UserID: testUser})
	assert.ErrorIs(t, err, ErrNotFound, "other emojis are not entries")

	m.settings.EXPECT().Get(gomock.Any(), testGuild).Return(&models.GiveawaySettings{GuildID: testGuild}, nil)
	m.entries.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)
	entry, err := a.RecordReaction(ctx, testGuild, testMessage, "🎉", Participant{UserID: testUser})
	require.NoError(t, err)
	assert.Equal(t, 1, entry.EntryCount)

	m.entries.EXPECT().Delete(gomock.Any(), testGuild, testMessage, testUser).Return(nil)
	assert.NoError(t, a.RemoveReaction(ctx, testGuild, testMessage, "🎉", testUser))
}
