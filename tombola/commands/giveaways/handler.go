package giveaways

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/tombola/tombola"
	"github.com/ellavondegurechaff/tombola/tombola/config"
	"github.com/ellavondegurechaff/tombola/tombola/database/repositories"
	"github.com/ellavondegurechaff/tombola/tombola/giveaway"
	"github.com/ellavondegurechaff/tombola/tombola/handlers"
	"github.com/ellavondegurechaff/tombola/tombola/starboard"
	"github.com/ellavondegurechaff/tombola/tombola/utils"
	"golang.org/x/sync/singleflight"
)

var errGuildOnly = errors.New("giveaways can only be managed inside a server")

// Handler serves the /giveaway command tree and the enter button.
type Handler struct {
	manager     *giveaway.Manager
	accumulator *giveaway.Accumulator
	settings    repositories.SettingsRepository
	paginator   *paginator.Manager
	durations   *utils.DurationParser
	lookups     singleflight.Group
	now         func() time.Time
}

func NewHandler(b *tombola.Bot, durations *utils.DurationParser) *Handler {
	return &Handler{
		manager:     b.Manager,
		accumulator: b.Accumulator,
		settings:    b.SettingsRepository,
		paginator:   b.Paginator,
		durations:   durations,
		now:         time.Now,
	}
}

func (h *Handler) Register(r handler.Router) {
	r.Route("/giveaway", func(r handler.Router) {
		r.Command("/start", handlers.WrapWithLogging("giveaway start", h.HandleStart))
		r.Command("/end", handlers.WrapWithLogging("giveaway end", h.HandleEnd))
		r.Command("/reroll", handlers.WrapWithLogging("giveaway reroll", h.HandleReroll))
		r.Command("/delete", handlers.WrapWithLogging("giveaway delete", h.HandleDelete))
		r.Command("/list", handlers.WrapWithLogging("giveaway list", h.HandleList))

		r.Route("/edit", func(r handler.Router) {
			r.Command("/prize", handlers.WrapWithLogging("giveaway edit prize", h.HandleEditPrize))
			r.Command("/duration", handlers.WrapWithLogging("giveaway edit duration", h.HandleEditDuration))
			r.Command("/host", handlers.WrapWithLogging("giveaway edit host", h.HandleEditHost))
			r.Command("/winners", handlers.WrapWithLogging("giveaway edit winners", h.HandleEditWinners))
		})
		r.Route("/requirements", func(r handler.Router) {
			r.Command("/add", handlers.WrapWithLogging("giveaway requirements add", h.HandleRequirementAdd))
			r.Command("/edit", handlers.WrapWithLogging("giveaway requirements edit", h.HandleRequirementEdit))
			r.Command("/remove", handlers.WrapWithLogging("giveaway requirements remove", h.HandleRequirementRemove))
		})
		r.Route("/blacklist", func(r handler.Router) {
			r.Command("/add", handlers.WrapWithLogging("giveaway blacklist add", h.HandleBlacklistAdd))
			r.Command("/remove", handlers.WrapWithLogging("giveaway blacklist remove", h.HandleBlacklistRemove))
			r.Command("/list", handlers.WrapWithLogging("giveaway blacklist list", h.HandleBlacklistList))
		})
	})

	for _, path := range messageIDCommands {
		r.Autocomplete(path, h.HandleAutocomplete)
	}

	r.Component(giveaway.EnterButtonID, handlers.WrapComponentWithLogging("giveaway enter", h.HandleEnter))
}

// messageIDCommands are the command paths with an autocompleted message_id.
var messageIDCommands = []string{
	"/giveaway/end",
	"/giveaway/reroll",
	"/giveaway/delete",
	"/giveaway/edit/prize",
	"/giveaway/edit/duration",
	"/giveaway/edit/host",
	"/giveaway/edit/winners",
	"/giveaway/requirements/add",
	"/giveaway/requirements/edit",
	"/giveaway/requirements/remove",
}

func guildOf(e *handler.CommandEvent) (snowflake.ID, error) {
	guildID := e.GuildID()
	if guildID == nil {
		return 0, errGuildOnly
	}
	return *guildID, nil
}

// messageID reads the message_id option. Autocomplete fills it with the
// snowflake, but users may also paste one by hand.
func messageID(data discord.SlashCommandInteractionData) (snowflake.ID, error) {
	id, err := snowflake.Parse(data.String("message_id"))
	if err != nil {
		return 0, giveaway.ErrNotFound
	}
	return id, nil
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
}

func (h *Handler) HandleStart(e *handler.CommandEvent) error {
	guildID, err := guildOf(e)
	if err != nil {
		return utils.EH.CreateErrorEmbed(e, err)
	}
	data := e.SlashCommandInteractionData()

	opts, err := h.startOptions(guildID, e.ChannelID(), e.User().ID, data)
	if err != nil {
		return utils.EH.CreateErrorEmbed(e, err)
	}

	if err = e.DeferCreateMessage(true); err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()

	g, err := h.manager.Start(ctx, opts)
	if err != nil {
		return utils.EH.UpdateWithError(e, err)
	}
	return utils.EH.UpdateWithSuccess(e, fmt.Sprintf("Giveaway for **%s** started in <#%s>, it ends <t:%d:R>. [Jump](%s)",
		g.Prize, g.ChannelID, g.EndTime.Unix(), giveaway.JumpURL(g.GuildID, g.ChannelID, g.MessageID)))
}

func (h *Handler) startOptions(guildID, channelID, hostID snowflake.ID, data discord.SlashCommandInteractionData) (giveaway.StartOptions, error) {
	duration, err := h.durations.Parse(data.String("duration"), h.now())
	if err != nil {
		return giveaway.StartOptions{}, err
	}
	if channel, ok := data.OptChannel("channel"); ok {
		channelID = channel.ID
	}

	emoji := config.DefaultEmoji
	if raw, ok := data.OptString("emoji"); ok {
		if emoji, err = starboard.ParseEmoji(raw); err != nil {
			return giveaway.StartOptions{}, err
		}
	}

	var reqs giveaway.Requirements
	add := func(req giveaway.Requirement) {
		if err == nil {
			err = reqs.Add(req)
		}
	}
	if role, ok := data.OptRole("required_role"); ok {
		add(giveaway.Requirement{Kind: giveaway.KindRequiredRole, RoleID: role.ID})
	}
	if role, ok := data.OptRole("bonus_role"); ok {
		add(giveaway.Requirement{Kind: giveaway.KindBonusRole, RoleID: role.ID, Value: data.Int("bonus_entries")})
	}
	if n, ok := data.OptInt("min_messages"); ok {
		add(giveaway.Requirement{Kind: giveaway.KindMessages, Value: n})
	}
	if n, ok := data.OptInt("min_level"); ok {
		add(giveaway.Requirement{Kind: giveaway.KindLevel, Value: n})
	}
	if n, ok := data.OptInt("min_invites"); ok {
		add(giveaway.Requirement{Kind: giveaway.KindInvites, Value: n})
	}
	if role, ok := data.OptRole("ignore_role"); ok {
		add(giveaway.Requirement{Kind: giveaway.KindIgnoreRole, RoleID: role.ID})
	}
	if err != nil {
		return giveaway.StartOptions{}, err
	}

	return giveaway.StartOptions{
		GuildID:      guildID,
		ChannelID:    channelID,
		HostID:       hostID,
		Prize:        data.String("prize"),
		Duration:     duration,
		Winners:      data.Int("winners"),
		Emoji:        emoji,
		Requirements: reqs,
	}, nil
}

func (h *Handler) HandleEnd(e *handler.CommandEvent) error {
	guildID, err := guildOf(e)
	if err != nil {
		return utils.EH.CreateErrorEmbed(e, err)
	}
	msgID, err := messageID(e.SlashCommandInteractionData())
	if err != nil {
		return utils.EH.CreateErrorEmbed(e, err)
	}

	if err = e.DeferCreateMessage(true); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), config.GiveawayEndTimeout)
	defer cancel()

	ended, winners, err := h.manager.End(ctx, guildID, msgID)
	if err != nil {
		return utils.EH.UpdateWithError(e, err)
	}
	if len(winners) == 0 {
		return utils.EH.UpdateWithSuccess(e, fmt.Sprintf("Ended **%s**, nobody was eligible to win.", ended.Prize))
	}
	return utils.EH.UpdateWithSuccess(e, fmt.Sprintf("Ended **%s** with %d winner%s.", ended.Prize, len(winners), plural(len(winners))))
}

func (h *Handler) HandleReroll(e *handler.CommandEvent) error {
	guildID, err := guildOf(e)
	if err != nil {
		return utils.EH.CreateErrorEmbed(e, err)
	}
	data := e.SlashCommandInteractionData()
	msgID, err := messageID(data)
	if err != nil {
		return utils.EH.CreateErrorEmbed(e, err)
	}

	if err = e.DeferCreateMessage(true); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), config.GiveawayEndTimeout)
	defer cancel()

	winners, err := h.manager.Reroll(ctx, guildID, msgID, data.Int("winners"), data.Bool("include_previous"))
	if err != nil {
		return utils.EH.UpdateWithError(e, err)
	}
	return utils.EH.UpdateWithSuccess(e, fmt.Sprintf("Rerolled %d new winner%s.", len(winners), plural(len(winners))))
}

func (h *Handler) HandleDelete(e *handler.CommandEvent) error {
	guildID, err := guildOf(e)
	if err != nil {
		return utils.EH.CreateErrorEmbed(e, err)
	}
	msgID, err := messageID(e.SlashCommandInteractionData())
	if err != nil {
		return utils.EH.CreateErrorEmbed(e, err)
	}

	ctx, cancel := commandContext()
	defer cancel()

	if err = h.manager.Delete(ctx, guildID, msgID); err != nil {
		return utils.EH.CreateErrorEmbed(e, err)
	}
	return utils.EH.CreateSuccessEmbed(e, "Giveaway deleted, no winners were drawn.")
}

func (h *Handler) HandleList(e *handler.CommandEvent) error {
	guildID, err := guildOf(e)
	if err != nil {
		return utils.EH.CreateErrorEmbed(e, err)
	}
	ctx, cancel := commandContext()
	defer cancel()

	var (
		lines []string
		title string
	)
	if e.SlashCommandInteractionData().Bool("ended") {
		ended, err := h.manager.ListEnded(ctx, guildID)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, err)
		}
		for _, g := range ended {
			lines = append(lines, giveaway.EndedListLine(g))
		}
		title = "🏁 Ended Giveaways"
	} else {
		active, err := h.manager.ListActive(ctx, guildID)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, err)
		}
		now := h.now()
		for _, g := range active {
			lines = append(lines, giveaway.ListLine(g, now))
		}
		title = "🎉 Active Giveaways"
	}

	if len(lines) == 0 {
		return utils.EH.CreateInfoEmbed(e, title, "There is nothing to show here yet.")
	}

	pages := pageCount(len(lines), config.GiveawaysPerPage)
	return h.paginator.Create(e.Respond, paginator.Pages{
		ID:      e.ID().String(),
		Creator: e.User().ID,
		PageFunc: func(page int, embed *discord.EmbedBuilder) {
			embed.
				SetTitle(title).
				SetDescription(pageText(lines, page, config.GiveawaysPerPage)).
				SetColor(config.GiveawayColor).
				SetFooterText(fmt.Sprintf("Page %d/%d · %d total", page+1, pages, len(lines)))
		},
		Pages:      pages,
		ExpireMode: paginator.ExpireModeAfterLastUsage,
	}, false)
}

func (h *Handler) HandleEnter(e *handler.ComponentEvent) error {
	guildID := e.GuildID()
	if guildID == nil {
		return utils.EH.CreateEphemeralError(e, errGuildOnly)
	}
	p := giveaway.Participant{UserID: e.User().ID}
	if member := e.Member(); member != nil {
		p.RoleIDs = member.RoleIDs
	}

	ctx, cancel := commandContext()
	defer cancel()

	entry, err := h.accumulator.RecordEntry(ctx, *guildID, e.Message.ID, p)
	if err != nil {
		return utils.EH.CreateEphemeralError(e, err)
	}
	if entry.EntryCount > 1 {
		return utils.EH.CreateEphemeralSuccess(e, fmt.Sprintf("You're in with **%d** entries, good luck!", entry.EntryCount))
	}
	return utils.EH.CreateEphemeralSuccess(e, "You're in, good luck!")
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
