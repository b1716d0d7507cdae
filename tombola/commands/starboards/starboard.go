package starboards

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/json"
	"github.com/ellavondegurechaff/tombola/tombola"
	"github.com/ellavondegurechaff/tombola/tombola/config"
	"github.com/ellavondegurechaff/tombola/tombola/handlers"
	"github.com/ellavondegurechaff/tombola/tombola/starboard"
	"github.com/ellavondegurechaff/tombola/tombola/utils"
)

var Commands = []discord.ApplicationCommandCreate{
	Starboard,
}

var boardChannelTypes = []discord.ChannelType{discord.ChannelTypeGuildText, discord.ChannelTypeGuildNews}

var Starboard = discord.SlashCommandCreate{
	Name:                     "starboard",
	Description:              "Configure starboards",
	DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionManageGuild),
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "add",
			Description: "Repost messages that collect enough reactions",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionChannel{
					Name:         "channel",
					Description:  "Where popular messages are reposted",
					Required:     true,
					ChannelTypes: boardChannelTypes,
				},
				discord.ApplicationCommandOptionString{
					Name:        "emoji",
					Description: "The reaction to count (default ⭐)",
				},
				discord.ApplicationCommandOptionInt{
					Name:        "threshold",
					Description: "Reactions needed (default 3)",
					MinValue:    utils.Ptr(1),
					MaxValue:    utils.Ptr(config.MaxStarboardThreshold),
				},
				discord.ApplicationCommandOptionBool{
					Name:        "self_star",
					Description: "Count the author's own reaction (default false)",
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "remove",
			Description: "Stop a starboard, existing reposts stay",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionChannel{
					Name:         "channel",
					Description:  "The starboard channel",
					Required:     true,
					ChannelTypes: boardChannelTypes,
				},
				discord.ApplicationCommandOptionString{
					Name:        "emoji",
					Description: "The starboard emoji (default ⭐)",
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "list",
			Description: "Show this server's starboards",
		},
	},
}

const defaultThreshold = 3

var errGuildOnly = errors.New("starboards can only be configured inside a server")

type Handler struct {
	aggregator *starboard.Aggregator
}

func NewHandler(b *tombola.Bot) *Handler {
	return &Handler{aggregator: b.Aggregator}
}

func (h *Handler) Register(r handler.Router) {
	r.Route("/starboard", func(r handler.Router) {
		r.Command("/add", handlers.WrapWithLogging("starboard add", h.HandleAdd))
		r.Command("/remove", handlers.WrapWithLogging("starboard remove", h.HandleRemove))
		r.Command("/list", handlers.WrapWithLogging("starboard list", h.HandleList))
	})
}

func (h *Handler) HandleAdd(e *handler.CommandEvent) error {
	guildID := e.GuildID()
	if guildID == nil {
		return utils.EH.CreateErrorEmbed(e, errGuildOnly)
	}
	data := e.SlashCommandInteractionData()
	channel := data.Channel("channel")
	emoji := data.String("emoji")
	if emoji == "" {
		emoji = config.DefaultStarEmoji
	}
	threshold, ok := data.OptInt("threshold")
	if !ok {
		threshold = defaultThreshold
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
	defer cancel()

	sb, err := h.aggregator.AddConfig(ctx, *guildID, channel.ID, emoji, threshold, data.Bool("self_star"))
	if err != nil {
		return utils.EH.CreateErrorEmbed(e, err)
	}
	return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Messages with **%d** %s will be reposted in <#%s>.",
		sb.Threshold, starboard.Display(sb.Emoji), sb.ChannelID))
}

func (h *Handler) HandleRemove(e *handler.CommandEvent) error {
	guildID := e.GuildID()
	if guildID == nil {
		return utils.EH.CreateErrorEmbed(e, errGuildOnly)
	}
	data := e.SlashCommandInteractionData()
	channel := data.Channel("channel")
	emoji := data.String("emoji")
	if emoji == "" {
		emoji = config.DefaultStarEmoji
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
	defer cancel()

	if err := h.aggregator.RemoveConfig(ctx, *guildID, channel.ID, emoji); err != nil {
		return utils.EH.CreateErrorEmbed(e, err)
	}
	return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Removed the %s starboard from <#%s>.", emoji, channel.ID))
}

func (h *Handler) HandleList(e *handler.CommandEvent) error {
	guildID := e.GuildID()
	if guildID == nil {
		return utils.EH.CreateErrorEmbed(e, errGuildOnly)
	}
	ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
	defer cancel()

	configs, err := h.aggregator.ListConfigs(ctx, *guildID)
	if err != nil {
		return utils.EH.CreateErrorEmbed(e, err)
	}
	if len(configs) == 0 {
		return utils.EH.CreateInfoEmbed(e, "⭐ Starboards", "No starboards yet, create one with `/starboard add`.")
	}

	var b strings.Builder
	for _, sb := range configs {
		fmt.Fprintf(&b, "%s → <#%s> · threshold **%d**", starboard.Display(sb.Emoji), sb.ChannelID, sb.Threshold)
		if sb.SelfStar {
			b.WriteString(" · self stars count")
		}
		b.WriteString("\n")
	}
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{discord.NewEmbedBuilder().
			SetTitle("⭐ Starboards").
			SetDescription(b.String()).
			SetColor(config.StarboardColor).
			SetFooterText(fmt.Sprintf("%d/%d used", len(configs), config.MaxStarboardsPerGuild)).
			Build()},
		Flags: discord.MessageFlagEphemeral,
	})
}
