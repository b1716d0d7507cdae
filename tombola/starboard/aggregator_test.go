package starboard

import (
	"context"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/tombola/tombola/config"
	"github.com/ellavondegurechaff/tombola/tombola/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	guildID    snowflake.ID = 1
	sourceChan snowflake.ID = 10
	boardChan  snowflake.ID = 20
	sourceMsg  snowflake.ID = 100
	authorID   snowflake.ID = 7
	reactorID  snowflake.ID = 8
)

var star = discord.Emoji{Name: "⭐"}

func newTestAggregator(t *testing.T, threshold int, selfStar bool) (*Aggregator, *memoryRepo, *fakeDiscord) {
	repo := newMemoryRepo()
	require.NoError(t, repo.Create(context.Background(), &models.Starboard{
		GuildID: guildID, Emoji: "⭐", ChannelID: boardChan, Threshold: threshold, SelfStar: selfStar,
	}, config.MaxStarboardsPerGuild))

	dc := newFakeDiscord()
	dc.put(&discord.Message{
		ID:        sourceMsg,
		ChannelID: sourceChan,
		Author:    discord.User{ID: authorID, Username: "author"},
		Content:   "hello world",
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	})

	a, err := NewAggregator(repo, dc, nil, NewGuildLocks(time.Hour), 50*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a, repo, dc
}

var ref = MessageRef{GuildID: guildID, ChannelID: sourceChan, MessageID: sourceMsg, Emoji: "⭐"}

func TestAggregator_SyncLifecycle(t *testing.T) {
	ctx := context.Background()
	a, repo, dc := newTestAggregator(t, 3, false)

	steps := []struct {
		count   int
		want    Transition
		creates int
		updates int
		deletes int
		entries int
	}{
		{count: 1, want: Unchanged, entries: 0},
		{count: 2, want: Unchanged, entries: 0},
		{count: 3, want: Posted, creates: 1, entries: 1},
		{count: 3, want: Unchanged, creates: 1, entries: 1},
		{count: 4, want: Updated, creates: 1, updates: 1, entries: 1},
		{count: 5, want: Updated, creates: 1, updates: 2, entries: 1},
		{count: 3, want: Updated, creates: 1, updates: 3, entries: 1},
		{count: 2, want: Removed, creates: 1, updates: 3, deletes: 1, entries: 0},
		{count: 1, want: Unchanged, creates: 1, updates: 3, deletes: 1, entries: 0},
	}

	for i, step := range steps {
		dc.setReactions(sourceMsg, star, step.count)
		got, err := a.Sync(ctx, ref)
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, step.want, got, "step %d transition", i)
		assert.Equal(t, step.creates, dc.creates, "step %d creates", i)
		assert.Equal(t, step.updates, dc.updates, "step %d updates", i)
		assert.Equal(t, step.deletes, dc.deletes, "step %d deletes", i)
		assert.Equal(t, step.entries, repo.entryCount(), "step %d entries", i)
	}
}

func TestAggregator_SyncRepostsVanishedMirror(t *testing.T) {
	ctx := context.Background()
	a, repo, dc := newTestAggregator(t, 1, false)

	dc.setReactions(sourceMsg, star, 1)
	_, err := a.Sync(ctx, ref)
	require.NoError(t, err)

	entry, err := repo.GetEntry(ctx, guildID, sourceChan, sourceMsg, "⭐")
	require.NoError(t, err)
	dc.drop(entry.StarboardMessageID)

	dc.setReactions(sourceMsg, star, 2)
	got, err := a.Sync(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, Posted, got)
	assert.Equal(t, 2, dc.creates)

	reposted, err := repo.GetEntry(ctx, guildID, sourceChan, sourceMsg, "⭐")
	require.NoError(t, err)
	assert.NotEqual(t, entry.StarboardMessageID, reposted.StarboardMessageID)
	assert.Equal(t, 2, reposted.Stars)
}

func TestAggregator_SourceDeleted(t *testing.T) {
	ctx := context.Background()
	a, repo, dc := newTestAggregator(t, 1, false)

	dc.setReactions(sourceMsg, star, 1)
	_, err := a.Sync(ctx, ref)
	require.NoError(t, err)
	require.Equal(t, 1, repo.entryCount())

	require.NoError(t, a.RemoveMessage(ctx, guildID, sourceChan, sourceMsg))
	assert.Equal(t, 0, repo.entryCount())
	assert.Equal(t, 1, dc.deletes)

	// a sync racing with the delete finds nothing to do
	dc.drop(sourceMsg)
	got, err := a.Sync(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, Unchanged, got)
}

func TestAggregator_RemoveEmoji(t *testing.T) {
	ctx := context.Background()
	a, repo, dc := newTestAggregator(t, 1, false)

	dc.setReactions(sourceMsg, star, 1)
	_, err := a.Sync(ctx, ref)
	require.NoError(t, err)

	require.NoError(t, a.RemoveEmoji(ctx, ref))
	assert.Equal(t, 0, repo.entryCount())
	assert.NoError(t, a.RemoveEmoji(ctx, ref), "clearing twice is a no-op")
}

func TestAggregator_HandleReaction(t *testing.T) {
	ctx := context.Background()

	t.Run("self star removed", func(t *testing.T) {
		a, repo, dc := newTestAggregator(t, 1, false)
		dc.setReactions(sourceMsg, star, 1)

		err := a.HandleReaction(ctx, ReactionEvent{GuildID: guildID, ChannelID: sourceChan, MessageID: sourceMsg, UserID: authorID, Emoji: "⭐", Added: true})
		require.NoError(t, err)
		assert.Equal(t, []snowflake.ID{authorID}, dc.removedUsers)
		assert.Equal(t, 0, repo.entryCount())
	})

	t.Run("self star removed using gateway author", func(t *testing.T) {
		a, repo, dc := newTestAggregator(t, 1, false)
		dc.setReactions(sourceMsg, star, 1)
		author := authorID

		err := a.HandleReaction(ctx, ReactionEvent{GuildID: guildID, ChannelID: sourceChan, MessageID: sourceMsg, UserID: authorID, AuthorID: &author, Emoji: "⭐", Added: true})
		require.NoError(t, err)
		assert.Equal(t, []snowflake.ID{authorID}, dc.removedUsers)
		assert.Zero(t, dc.fetches)
		assert.Equal(t, 0, repo.entryCount())
	})

	t.Run("self star allowed", func(t *testing.T) {
		a, repo, dc := newTestAggregator(t, 1, true)
		dc.setReactions(sourceMsg, star, 1)

		err := a.HandleReaction(ctx, ReactionEvent{GuildID: guildID, ChannelID: sourceChan, MessageID: sourceMsg, UserID: authorID, Emoji: "⭐", Added: true})
		require.NoError(t, err)
		assert.Empty(t, dc.removedUsers)
		assert.Equal(t, 1, repo.entryCount())
	})

	t.Run("other members count", func(t *testing.T) {
		a, repo, dc := newTestAggregator(t, 1, false)
		dc.setReactions(sourceMsg, star, 1)

		err := a.HandleReaction(ctx, ReactionEvent{GuildID: guildID, ChannelID: sourceChan, MessageID: sourceMsg, UserID: reactorID, Emoji: "⭐", Added: true})
		require.NoError(t, err)
		assert.Equal(t, 1, repo.entryCount())
		assert.Contains(t, dc.lastCreate.Content, "**1**")
	})

	t.Run("starboard channel ignored", func(t *testing.T) {
		a, _, dc := newTestAggregator(t, 1, false)

		err := a.HandleReaction(ctx, ReactionEvent{GuildID: guildID, ChannelID: boardChan, MessageID: 999, UserID: reactorID, Emoji: "⭐", Added: true})
		require.NoError(t, err)
		assert.Zero(t, dc.creates)
	})

	t.Run("unconfigured emoji ignored", func(t *testing.T) {
		a, _, dc := newTestAggregator(t, 1, false)

		err := a.HandleReaction(ctx, ReactionEvent{GuildID: guildID, ChannelID: sourceChan, MessageID: sourceMsg, UserID: reactorID, Emoji: "🔥", Added: true})
		require.NoError(t, err)
		assert.Zero(t, dc.creates)
	})

	t.Run("burst coalesces into one trailing pass", func(t *testing.T) {
		a, repo, dc := newTestAggregator(t, 1, false)
		dc.setReactions(sourceMsg, star, 1)

		for i := 0; i < 10; i++ {
			ev := ReactionEvent{GuildID: guildID, ChannelID: sourceChan, MessageID: sourceMsg, UserID: reactorID + snowflake.ID(i), Emoji: "⭐", Added: true}
			require.NoError(t, a.HandleReaction(ctx, ev))
			if i == 0 {
				dc.setReactions(sourceMsg, star, 10)
			}
		}
		assert.Equal(t, 1, a.throttle.Pending())

		assert.Eventually(t, func() bool {
			entry, err := repo.GetEntry(ctx, guildID, sourceChan, sourceMsg, "⭐")
			return err == nil && entry.Stars == 10
		}, time.Second, 10*time.Millisecond)
		assert.Zero(t, a.throttle.Pending())

		dc.mu.Lock()
		defer dc.mu.Unlock()
		assert.Equal(t, 1, dc.creates)
		assert.Equal(t, 1, dc.updates)
	})

	t.Run("burst with known author fetches once per pass", func(t *testing.T) {
		a, repo, dc := newTestAggregator(t, 1, false)
		dc.setReactions(sourceMsg, star, 50)
		author := authorID

		for i := 0; i < 50; i++ {
			ev := ReactionEvent{GuildID: guildID, ChannelID: sourceChan, MessageID: sourceMsg, UserID: reactorID + snowflake.ID(i), AuthorID: &author, Emoji: "⭐", Added: true}
			require.NoError(t, a.HandleReaction(ctx, ev))
		}

		assert.Eventually(t, func() bool {
			return a.throttle.Pending() == 0 && repo.entryCount() == 1
		}, time.Second, 10*time.Millisecond)

		dc.mu.Lock()
		defer dc.mu.Unlock()
		assert.LessOrEqual(t, dc.fetches, 3, "one fetch per sync pass, none per event")
	})
}

func TestAggregator_Configs(t *testing.T) {
	ctx := context.Background()
	a, _, _ := newTestAggregator(t, 3, false)

	_, err := a.AddConfig(ctx, guildID, boardChan, "⭐", 3, false)
	assert.ErrorIs(t, err, ErrExists)

	_, err = a.AddConfig(ctx, guildID, boardChan, "🔥", 0, false)
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	_, err = a.AddConfig(ctx, guildID, boardChan, "fire", 3, false)
	assert.ErrorIs(t, err, ErrInvalidEmoji)

	sb, err := a.AddConfig(ctx, guildID, boardChan, "<:kek:123456789012345678>", 2, true)
	require.NoError(t, err)
	assert.Equal(t, "kek:123456789012345678", sb.Emoji)

	_, err = a.AddConfig(ctx, guildID, boardChan, "🔥", 3, false)
	assert.ErrorIs(t, err, ErrLimitReached)

	configs, err := a.ListConfigs(ctx, guildID)
	require.NoError(t, err)
	assert.Len(t, configs, 2)

	assert.ErrorIs(t, a.RemoveConfig(ctx, guildID, sourceChan, "⭐"), ErrNotFound, "wrong channel")
	require.NoError(t, a.RemoveConfig(ctx, guildID, boardChan, "⭐"))
	assert.ErrorIs(t, a.RemoveConfig(ctx, guildID, boardChan, "⭐"), ErrNotFound)
}
