package starboard

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/tombola/tombola/config"
	"github.com/ellavondegurechaff/tombola/tombola/database/models"
)

const maxFieldLength = 1024

// disgo maps EmbedTypeGifV to "rich", so the gateway value is spelled out.
const embedTypeGifv discord.EmbedType = "gifv"

// Label is the text above a mirror, edited in place as the count changes.
func Label(emoji string, count int, channelID snowflake.ID) string {
	return fmt.Sprintf("%s **%d** | <#%s>", Display(emoji), count, channelID)
}

func jumpURL(guildID, channelID, messageID snowflake.ID) string {
	return "https://discord.com/channels/" + guildID.String() + "/" + channelID.String() + "/" + messageID.String()
}

// BuildEmbed renders the source message. The first embed is reused unless it
// is a bare image or gif preview, which Discord would not render on its own.
func BuildEmbed(guildID snowflake.ID, msg *discord.Message) discord.Embed {
	var embed discord.Embed
	if len(msg.Embeds) > 0 && msg.Embeds[0].Type != discord.EmbedTypeImage && msg.Embeds[0].Type != embedTypeGifv {
		embed = msg.Embeds[0]
		embed.Fields = append([]discord.EmbedField(nil), embed.Fields...)
		if embed.Description == "" {
			embed.Description = msg.Content
		}
	} else {
		embed.Description = msg.Content
		if len(msg.Embeds) > 0 {
			if url := previewURL(msg.Embeds[0]); url != "" {
				embed.Image = &discord.EmbedResource{URL: url}
			}
		}
	}
	if embed.Color == 0 {
		embed.Color = config.StarboardColor
	}

	embed.Author = &discord.EmbedAuthor{
		Name:    msg.Author.Username,
		IconURL: msg.Author.EffectiveAvatarURL(),
	}
	createdAt := msg.CreatedAt
	embed.Timestamp = &createdAt

	if ref := msg.ReferencedMessage; ref != nil {
		embed.Fields = append(embed.Fields, discord.EmbedField{
			Name:  "Replying to",
			Value: fmt.Sprintf("[%s](%s)", ref.Author.Username, jumpURL(guildID, ref.ChannelID, ref.ID)),
		})
	}
	embed.Fields = append(embed.Fields, discord.EmbedField{
		Name:  "Source",
		Value: fmt.Sprintf("[Jump to message](%s)", jumpURL(guildID, msg.ChannelID, msg.ID)),
	})
	return embed
}

func previewURL(e discord.Embed) string {
	switch {
	case e.Thumbnail != nil && e.Thumbnail.URL != "":
		return e.Thumbnail.URL
	case e.Image != nil && e.Image.URL != "":
		return e.Image.URL
	case e.URL != "":
		return e.URL
	}
	return ""
}

// render builds the full mirror message. Attachments within the guild's
// upload limit are re-uploaded, larger ones are linked.
func (a *Aggregator) render(ctx context.Context, cfg *models.Starboard, msg *discord.Message, count int) discord.MessageCreate {
	embed := BuildEmbed(cfg.GuildID, msg)
	create := discord.MessageCreate{
		Content: Label(cfg.Emoji, count, msg.ChannelID),
	}

	limit := a.discord.UploadLimit(cfg.GuildID)
	var links []string
	for _, att := range msg.Attachments {
		if int64(att.Size) <= limit {
			data, err := a.discord.Download(ctx, att.URL, limit)
			if err == nil {
				create.Files = append(create.Files, discord.NewFile(att.Filename, "", bytes.NewReader(data)))
				if embed.Image == nil && isImage(att) {
					embed.Image = &discord.EmbedResource{URL: "attachment://" + att.Filename}
				}
				continue
			}
			slog.Debug("Failed to re-upload attachment, linking instead",
				slog.String("type", "starboard"),
				slog.String("attachment", att.Filename),
				slog.Any("error", err))
		}

		url := a.mirrorURL(ctx, cfg.GuildID, msg.ID, att)
		links = append(links, fmt.Sprintf("[%s](%s)", att.Filename, url))
		if embed.Image == nil && isImage(att) {
			embed.Image = &discord.EmbedResource{URL: url}
		}
	}

	if len(links) > 0 {
		embed.Fields = append(embed.Fields, discord.EmbedField{
			Name:  "Attachments",
			Value: truncate(strings.Join(links, "\n"), maxFieldLength),
		})
	}
	create.Embeds = []discord.Embed{embed}
	return create
}

// truncate cuts s to at most limit runes, ending in "..." when shortened.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return string(r[:limit-3]) + "..."
}

// mirrorURL copies an oversized attachment to object storage when one is
// configured. Discord's CDN link is the fallback.
func (a *Aggregator) mirrorURL(ctx context.Context, guildID, messageID snowflake.ID, att discord.Attachment) string {
	if a.mirror == nil || int64(att.Size) > config.MaxMirrorSize {
		return att.URL
	}
	data, err := a.discord.Download(ctx, att.URL, config.MaxMirrorSize)
	if err != nil {
		slog.Warn("Failed to download attachment for mirroring",
			slog.String("type", "starboard"),
			slog.String("attachment", att.Filename),
			slog.Any("error", err))
		return att.URL
	}

	var contentType string
	if att.ContentType != nil {
		contentType = *att.ContentType
	}
	name := fmt.Sprintf("starboard/%s/%s/%s", guildID, messageID, att.Filename)
	url, err := a.mirror.Upload(ctx, name, data, contentType)
	if err != nil {
		slog.Warn("Failed to mirror attachment",
			slog.String("type", "starboard"),
			slog.String("attachment", att.Filename),
			slog.Any("error", err))
		return att.URL
	}
	return url
}

func isImage(att discord.Attachment) bool {
	return att.ContentType != nil && strings.HasPrefix(*att.ContentType, "image/")
}
