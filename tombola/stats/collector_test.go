package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/tombola/tombola/config"
	"github.com/ellavondegurechaff/tombola/tombola/database/repositories"
	"github.com/ellavondegurechaff/tombola/tombola/database/repositories/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestCollector(t *testing.T) (*Collector, *mock.MockMemberStatsRepository, *time.Time) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockMemberStatsRepository(ctrl)
	c, err := NewCollector(repo, time.Minute, 15, time.Minute)
	require.NoError(t, err)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, repo, &now
}

func deltasByUser(deltas []repositories.MessageDelta) map[snowflake.ID]repositories.MessageDelta {
	out := make(map[snowflake.ID]repositories.MessageDelta, len(deltas))
	for _, d := range deltas {
		out[d.UserID] = d
	}
	return out
}

func TestCollector_XPCooldown(t *testing.T) {
	c, repo, now := newTestCollector(t)

	c.record(memberKey{guildID: 1, userID: 10})
	*now = now.Add(10 * time.Second)
	c.record(memberKey{guildID: 1, userID: 10})
	*now = now.Add(time.Minute)
	c.record(memberKey{guildID: 1, userID: 10})
	c.record(memberKey{guildID: 1, userID: 11})

	var got []repositories.MessageDelta
	repo.EXPECT().ApplyMessageDeltas(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, deltas []repositories.MessageDelta) error {
			got = deltas
			return nil
		})

	n, err := c.flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	byUser := deltasByUser(got)
	assert.Equal(t, repositories.MessageDelta{GuildID: 1, UserID: 10, Messages: 3, XP: 30}, byUser[10])
	assert.Equal(t, repositories.MessageDelta{GuildID: 1, UserID: 11, Messages: 1, XP: 15}, byUser[11])
	assert.Empty(t, c.pending)
}

func TestCollector_FlushFailureKeepsDeltas(t *testing.T) {
	c, repo, _ := newTestCollector(t)
	c.record(memberKey{guildID: 1, userID: 10})

	repo.EXPECT().ApplyMessageDeltas(gomock.Any(), gomock.Len(1)).Return(errors.New("connection reset"))
	_, err := c.flush(context.Background())
	require.Error(t, err)
	require.Len(t, c.pending, 1)

	c.record(memberKey{guildID: 1, userID: 10})
	repo.EXPECT().ApplyMessageDeltas(gomock.Any(), []repositories.MessageDelta{
		{GuildID: 1, UserID: 10, Messages: 2, XP: 15},
	}).Return(nil)
	n, err := c.flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCollector_EmptyFlushSkipsRepository(t *testing.T) {
	c, _, _ := newTestCollector(t)
	n, err := c.flush(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCollector_TrackDropsWhenFull(t *testing.T) {
	c, _, _ := newTestCollector(t)
	for i := 0; i < config.StatsBufferSize; i++ {
		require.True(t, c.Track(1, 10))
	}
	assert.False(t, c.Track(1, 10))
	assert.Equal(t, int64(1), c.Dropped())
}

func TestCollector_RunFlushesOnShutdown(t *testing.T) {
	c, repo, _ := newTestCollector(t)

	flushed := make(chan []repositories.MessageDelta, 1)
	repo.EXPECT().ApplyMessageDeltas(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, deltas []repositories.MessageDelta) error {
			flushed <- deltas
			return nil
		})

	c.Track(1, 10)
	c.Track(1, 10)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
	deltas := <-flushed
	require.Len(t, deltas, 1)
	assert.Equal(t, int64(2), deltas[0].Messages)
}
