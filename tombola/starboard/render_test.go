package starboard

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/disgoorg/disgo/discord"
	"github.com/ellavondegurechaff/tombola/tombola/config"
	"github.com/ellavondegurechaff/tombola/tombola/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func sourceMessage() *discord.Message {
	return &discord.Message{
		ID:        sourceMsg,
		ChannelID: sourceChan,
		Author:    discord.User{ID: authorID, Username: "author"},
		Content:   "look at this",
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "⭐ **5** | <#10>", Label("⭐", 5, 10))
	assert.Equal(t, "<:kek:123456789012345678> **1** | <#10>", Label("kek:123456789012345678", 1, 10))
}

func TestBuildEmbed(t *testing.T) {
	t.Run("plain message", func(t *testing.T) {
		embed := BuildEmbed(guildID, sourceMessage())

		assert.Equal(t, "look at this", embed.Description)
		assert.Equal(t, config.StarboardColor, embed.Color)
		require.NotNil(t, embed.Author)
		assert.Equal(t, "author", embed.Author.Name)
		require.NotNil(t, embed.Timestamp)
		require.Len(t, embed.Fields, 1)
		assert.Equal(t, "Source", embed.Fields[0].Name)
		assert.Contains(t, embed.Fields[0].Value, "https://discord.com/channels/1/10/100")
	})

	t.Run("rich embed reused", func(t *testing.T) {
		msg := sourceMessage()
		msg.Embeds = []discord.Embed{{Type: discord.EmbedTypeRich, Title: "Patch notes", Color: 0x123456}}

		embed := BuildEmbed(guildID, msg)
		assert.Equal(t, "Patch notes", embed.Title)
		assert.Equal(t, 0x123456, embed.Color)
		assert.Equal(t, "look at this", embed.Description)
		assert.Empty(t, msg.Embeds[0].Fields, "source embed untouched")
	})

	t.Run("image preview becomes the image", func(t *testing.T) {
		msg := sourceMessage()
		msg.Embeds = []discord.Embed{{
			Type:      discord.EmbedTypeImage,
			URL:       "https://example.com/cat.png",
			Thumbnail: &discord.EmbedResource{URL: "https://media.example.com/cat.png"},
		}}

		embed := BuildEmbed(guildID, msg)
		require.NotNil(t, embed.Image)
		assert.Equal(t, "https://media.example.com/cat.png", embed.Image.URL)
		assert.Empty(t, embed.Title)
	})

	t.Run("gifv preview becomes the image", func(t *testing.T) {
		msg := sourceMessage()
		msg.Embeds = []discord.Embed{{
			Type:      embedTypeGifv,
			Title:     "tenor",
			URL:       "https://tenor.com/view/cat",
			Thumbnail: &discord.EmbedResource{URL: "https://media.tenor.com/cat.png"},
		}}

		embed := BuildEmbed(guildID, msg)
		require.NotNil(t, embed.Image)
		assert.Equal(t, "https://media.tenor.com/cat.png", embed.Image.URL)
		assert.Empty(t, embed.Title)
		assert.Equal(t, "look at this", embed.Description)
	})

	t.Run("reply", func(t *testing.T) {
		msg := sourceMessage()
		msg.ReferencedMessage = &discord.Message{ID: 99, ChannelID: sourceChan, Author: discord.User{Username: "parent"}}

		embed := BuildEmbed(guildID, msg)
		require.Len(t, embed.Fields, 2)
		assert.Equal(t, "Replying to", embed.Fields[0].Name)
		assert.Contains(t, embed.Fields[0].Value, "[parent]")
		assert.Contains(t, embed.Fields[0].Value, "/1/10/99")
	})
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{name: "fits", in: "cat.png", limit: 10, want: "cat.png"},
		{name: "exact", in: "abcdef", limit: 6, want: "abcdef"},
		{name: "ascii", in: "abcdefgh", limit: 6, want: "abc..."},
		{name: "multibyte", in: "ねこねこねこねこ.png", limit: 6, want: "ねこね..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.limit)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestRender_Attachments(t *testing.T) {
	ctx := context.Background()
	cfg := &models.Starboard{GuildID: guildID, Emoji: "⭐", ChannelID: boardChan, Threshold: 1}

	small := discord.Attachment{Filename: "cat.png", Size: 4, URL: "https://cdn.discordapp.com/cat.png", ContentType: strPtr("image/png")}
	big := discord.Attachment{Filename: "movie.mp4", Size: 20 << 20, URL: "https://cdn.discordapp.com/movie.mp4", ContentType: strPtr("video/mp4")}

	t.Run("small files re-uploaded", func(t *testing.T) {
		dc := newFakeDiscord()
		dc.files[small.URL] = []byte("meow")
		a := &Aggregator{discord: dc}

		msg := sourceMessage()
		msg.Attachments = []discord.Attachment{small}
		create := a.render(ctx, cfg, msg, 3)

		assert.Equal(t, "⭐ **3** | <#10>", create.Content)
		require.Len(t, create.Files, 1)
		assert.Equal(t, "cat.png", create.Files[0].Name)
		require.Len(t, create.Embeds, 1)
		require.NotNil(t, create.Embeds[0].Image)
		assert.Equal(t, "attachment://cat.png", create.Embeds[0].Image.URL)
	})

	t.Run("oversized files linked", func(t *testing.T) {
		dc := newFakeDiscord()
		a := &Aggregator{discord: dc}

		msg := sourceMessage()
		msg.Attachments = []discord.Attachment{big}
		create := a.render(ctx, cfg, msg, 3)

		assert.Empty(t, create.Files)
		fields := create.Embeds[0].Fields
		last := fields[len(fields)-1]
		assert.Equal(t, "Attachments", last.Name)
		assert.Equal(t, "[movie.mp4](https://cdn.discordapp.com/movie.mp4)", last.Value)
	})

	t.Run("oversized files mirrored", func(t *testing.T) {
		dc := newFakeDiscord()
		dc.files[big.URL] = []byte(strings.Repeat("x", 64))
		up := &fakeUploader{}
		a := &Aggregator{discord: dc, mirror: up}

		msg := sourceMessage()
		msg.Attachments = []discord.Attachment{big}
		create := a.render(ctx, cfg, msg, 3)

		require.Equal(t, []string{"starboard/1/100/movie.mp4"}, up.names)
		fields := create.Embeds[0].Fields
		assert.Contains(t, fields[len(fields)-1].Value, "https://cdn.example.com/starboard/1/100/movie.mp4")
	})

	t.Run("download failure falls back to a link", func(t *testing.T) {
		dc := newFakeDiscord()
		a := &Aggregator{discord: dc}

		msg := sourceMessage()
		msg.Attachments = []discord.Attachment{small}
		create := a.render(ctx, cfg, msg, 3)

		assert.Empty(t, create.Files)
		require.NotNil(t, create.Embeds[0].Image)
		assert.Equal(t, small.URL, create.Embeds[0].Image.URL)
	})
}
