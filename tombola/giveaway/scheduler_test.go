package giveaway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/tombola/tombola/database/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newTestScheduler(t *testing.T) (*Scheduler, managerMocks) {
	mgr, m := newTestManager(t)
	s := NewScheduler(mgr, m.giveaways, time.Minute, 120*time.Hour)
	s.now = func() time.Time { return testNow }
	return s, m
}

func TestScheduler_TickEndsExpiredAndPurges(t *testing.T) {
	s, m := newTestScheduler(t)

	g := activeGiveaway()
	g.WinnerCount = 2
	g.EndTime = testNow.Add(-time.Second)

	var archived []snowflake.ID
	m.giveaways.EXPECT().ListExpired(gomock.Any(), testNow, expiredBatchSize).Return([]*models.Giveaway{g}, nil)
	m.entries.EXPECT().List(gomock.Any(), testGuild, testMessage).Return(entriesFor(testMessage, 1, 2, 3), nil)
	expectArchive(m, &archived)
	m.giveaways.EXPECT().PurgeEnded(gomock.Any(), testNow.Add(-120*time.Hour)).Return(int64(3), nil)

	s.Tick(context.Background())

	assert.Len(t, archived, 2)
	assert.NotEqual(t, archived[0], archived[1])
	assert.Len(t, m.messenger.created, 1)
}

func TestScheduler_TickSurvivesFailures(t *testing.T) {
	s, m := newTestScheduler(t)

	orphan := activeGiveaway()
	orphan.MessageID = 301
	broken := activeGiveaway()
	broken.MessageID = 302
	healthy := activeGiveaway()
	m.messenger.unknown[orphan.MessageID] = true

	var archived []snowflake.ID
	m.giveaways.EXPECT().ListExpired(gomock.Any(), testNow, expiredBatchSize).
		Return([]*models.Giveaway{orphan, broken, healthy}, nil)

	gomock.InOrder(
		m.entries.EXPECT().List(gomock.Any(), testGuild, orphan.MessageID).Return(entriesFor(orphan.MessageID, 1), nil),
		m.entries.EXPECT().List(gomock.Any(), testGuild, broken.MessageID).Return(nil, errors.New("connection reset")),
		m.entries.EXPECT().List(gomock.Any(), testGuild, healthy.MessageID).Return(entriesFor(healthy.MessageID, 4), nil),
	)
	m.giveaways.EXPECT().Archive(gomock.Any(), orphan, gomock.Any(), gomock.Any()).
		Return(&models.EndedGiveaway{GuildID: testGuild, ChannelID: testChannel, MessageID: orphan.MessageID}, nil)
	m.giveaways.EXPECT().DeleteEnded(gomock.Any(), testGuild, orphan.MessageID).Return(nil)
	expectArchive(m, &archived)
	m.giveaways.EXPECT().PurgeEnded(gomock.Any(), gomock.Any()).Return(int64(0), nil)

	s.Tick(context.Background())

	assert.Equal(t, []snowflake.ID{4}, archived, "the healthy giveaway still ends after earlier failures")
}

func TestScheduler_TickRecoversFromPanics(t *testing.T) {
	s, m := newTestScheduler(t)

	m.giveaways.EXPECT().ListExpired(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, time.Time, int) ([]*models.Giveaway, error) {
			panic("boom")
		})

	assert.NotPanics(t, func() { s.Tick(context.Background()) })
}

func TestScheduler_TickContainsPanicToOneGiveaway(t *testing.T) {
	s, m := newTestScheduler(t)

	broken := activeGiveaway()
	broken.MessageID = 401
	healthy := activeGiveaway()

	var archived []snowflake.ID
	m.giveaways.EXPECT().ListExpired(gomock.Any(), testNow, expiredBatchSize).
		Return([]*models.Giveaway{broken, healthy}, nil)
	gomock.InOrder(
		m.entries.EXPECT().List(gomock.Any(), testGuild, broken.MessageID).
			DoAndReturn(func(context.Context, snowflake.ID, snowflake.ID) ([]*models.GiveawayEntry, error) {
				panic("corrupt row")
			}),
		m.entries.EXPECT().List(gomock.Any(), testGuild, healthy.MessageID).Return(entriesFor(healthy.MessageID, 4), nil),
	)
	expectArchive(m, &archived)
	m.giveaways.EXPECT().PurgeEnded(gomock.Any(), testNow.Add(-120*time.Hour)).Return(int64(0), nil)

	assert.NotPanics(t, func() { s.Tick(context.Background()) })
	assert.Equal(t, []snowflake.ID{4}, archived)
}

func TestScheduler_RunStopsOnCancel(t *testing.T) {
	s, m := newTestScheduler(t)
	m.giveaways.EXPECT().ListExpired(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	m.giveaways.EXPECT().PurgeEnded(gomock.Any(), gomock.Any()).Return(int64(0), nil).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
