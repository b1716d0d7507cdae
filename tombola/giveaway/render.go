package giveaway

import (
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/tombola/tombola/config"
	"github.com/ellavondegurechaff/tombola/tombola/database/models"
)

// EnterButtonID is the component route the enter button posts to.
const EnterButtonID = "/giveaway/enter"

func ActiveEmbed(g *models.Giveaway) discord.Embed {
	var b strings.Builder
	fmt.Fprintf(&b, "React with %s or press the button to enter!\n\n", displayEmoji(g.Emoji))
	fmt.Fprintf(&b, "**Ends:** <t:%d:R> (<t:%d:f>)\n", g.EndTime.Unix(), g.EndTime.Unix())
	fmt.Fprintf(&b, "**Hosted by:** <@%s>\n", g.HostID)
	fmt.Fprintf(&b, "**Winners:** %d", g.WinnerCount)

	builder := discord.NewEmbedBuilder().
		SetTitle(g.Prize).
		SetDescription(b.String()).
		SetColor(config.GiveawayColor).
		SetTimestamp(g.EndTime).
		SetFooterText("Ends at")

	if lines := RequirementsOf(g).Lines(); len(lines) > 0 {
		builder.AddField("Requirements", strings.Join(lines, "\n"), false)
	}
	return builder.Build()
}

func EnterComponents(emoji string) []discord.ContainerComponent {
	button := discord.NewPrimaryButton(config.EnterButtonLabel, EnterButtonID).
		WithEmoji(componentEmoji(emoji))
	return []discord.ContainerComponent{discord.NewActionRow(button)}
}

// Emojis are stored as reaction keys: the character itself, or "name:id"
// for custom emojis.
func componentEmoji(key string) discord.ComponentEmoji {
	name, rawID, ok := strings.Cut(key, ":")
	if !ok {
		return discord.ComponentEmoji{Name: key}
	}
	id, _ := snowflake.Parse(rawID)
	return discord.ComponentEmoji{Name: name, ID: id}
}

func displayEmoji(key string) string {
	if name, id, ok := strings.Cut(key, ":"); ok {
		return "<:" + name + ":" + id + ">"
	}
	return key
}

func EndedEmbed(ended *models.EndedGiveaway) discord.Embed {
	var b strings.Builder
	fmt.Fprintf(&b, "**Ended:** <t:%d:R>\n", ended.EndedAt.Unix())
	fmt.Fprintf(&b, "**Hosted by:** <@%s>\n", ended.HostID)
	fmt.Fprintf(&b, "**Winners:** %s", mentionList(models.IDs(ended.WinnerIDs), "no one entered"))

	return discord.NewEmbedBuilder().
		SetTitle(ended.Prize).
		SetDescription(b.String()).
		SetColor(config.GiveawayEndColor).
		SetTimestamp(ended.EndedAt).
		SetFooterText("Ended at").
		Build()
}

// Announcement replies to the giveaway message with the winners.
func Announcement(ended *models.EndedGiveaway, winners []snowflake.ID) discord.MessageCreate {
	var content string
	if len(winners) == 0 {
		content = fmt.Sprintf("No one entered the giveaway for **%s**, so there are no winners.", ended.Prize)
	} else {
		content = fmt.Sprintf("Congratulations %s! You won **%s**!", mentionList(winners, ""), ended.Prize)
	}
	return replyTo(ended, content, winners)
}

func RerollAnnouncement(ended *models.EndedGiveaway, winners []snowflake.ID) discord.MessageCreate {
	content := fmt.Sprintf("🎉 New winner%s: %s! You won **%s**!", plural(len(winners)), mentionList(winners, ""), ended.Prize)
	return replyTo(ended, content, winners)
}

func WinnerDM(ended *models.EndedGiveaway) discord.MessageCreate {
	embed := discord.NewEmbedBuilder().
		SetTitle("You won a giveaway!").
		SetDescription(fmt.Sprintf("You won **%s**.\n[Jump to giveaway](%s)",
			ended.Prize, JumpURL(ended.GuildID, ended.ChannelID, ended.MessageID))).
		SetColor(config.GiveawayColor).
		Build()
	return discord.MessageCreate{Embeds: []discord.Embed{embed}}
}

// DenialDM explains to a member why their reaction did not enter them.
func DenialDM(guildID, channelID, messageID snowflake.ID, reason string) discord.MessageCreate {
	embed := discord.NewEmbedBuilder().
		SetDescription(fmt.Sprintf("%s\n[Jump to giveaway](%s)", reason, JumpURL(guildID, channelID, messageID))).
		SetColor(config.WarningColor).
		Build()
	return discord.MessageCreate{Embeds: []discord.Embed{embed}}
}

func replyTo(ended *models.EndedGiveaway, content string, mentions []snowflake.ID) discord.MessageCreate {
	messageID := ended.MessageID
	channelID := ended.ChannelID
	guildID := ended.GuildID
	return discord.MessageCreate{
		Content: content,
		MessageReference: &discord.MessageReference{
			MessageID: &messageID,
			ChannelID: &channelID,
			GuildID:   &guildID,
		},
		AllowedMentions: &discord.AllowedMentions{Users: mentions},
	}
}

func mentionList(ids []snowflake.ID, empty string) string {
	if len(ids) == 0 {
		return empty
	}
	mentions := make([]string, len(ids))
	for i, id := range ids {
		mentions[i] = "<@" + id.String() + ">"
	}
	return strings.Join(mentions, ", ")
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// remaining formats the time left for list views.
func remaining(end, now time.Time) string {
	d := end.Sub(now).Round(time.Second)
	if d <= 0 {
		return "ending"
	}
	return d.String()
}

// ListLine is one row of the /giveaway list view.
func ListLine(g *models.Giveaway, now time.Time) string {
	return fmt.Sprintf("**%s** · [jump](%s)\n`%s` · %d winner%s · ends in %s",
		g.Prize, JumpURL(g.GuildID, g.ChannelID, g.MessageID), g.MessageID,
		g.WinnerCount, plural(g.WinnerCount), remaining(g.EndTime, now))
}

func EndedListLine(ended *models.EndedGiveaway) string {
	return fmt.Sprintf("**%s** · [jump](%s)\n`%s` · ended <t:%d:R> · %d reroll%s",
		ended.Prize, JumpURL(ended.GuildID, ended.ChannelID, ended.MessageID), ended.MessageID,
		ended.EndedAt.Unix(), ended.RerollCount, plural(ended.RerollCount))
}
