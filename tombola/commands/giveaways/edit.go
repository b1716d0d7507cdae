package giveaways

import (
	"context"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/tombola/tombola/database/models"
	"github.com/ellavondegurechaff/tombola/tombola/database/repositories"
	"github.com/ellavondegurechaff/tombola/tombola/giveaway"
	"github.com/ellavondegurechaff/tombola/tombola/utils"
)

// editFunc applies one edit subcommand to the giveaway named by message_id.
type editFunc func(ctx context.Context, guildID, messageID snowflake.ID, data discord.SlashCommandInteractionData) (*models.Giveaway, error)

func (h *Handler) runEdit(e *handler.CommandEvent, what string, fn editFunc) error {
	guildID, err := guildOf(e)
	if err != nil {
		return utils.EH.CreateErrorEmbed(e, err)
	}
	data := e.SlashCommandInteractionData()
	msgID, err := messageID(data)
	if err != nil {
		return utils.EH.CreateErrorEmbed(e, err)
	}

	ctx, cancel := commandContext()
	defer cancel()

	g, err := fn(ctx, guildID, msgID, data)
	if err != nil {
		return utils.EH.CreateErrorEmbed(e, err)
	}
	return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Updated the %s of **%s**. [Jump](%s)",
		what, g.Prize, giveaway.JumpURL(g.GuildID, g.ChannelID, g.MessageID)))
}

func (h *Handler) HandleEditPrize(e *handler.CommandEvent) error {
	return h.runEdit(e, "prize", func(ctx context.Context, guildID, msgID snowflake.ID, data discord.SlashCommandInteractionData) (*models.Giveaway, error) {
		return h.manager.EditPrize(ctx, guildID, msgID, data.String("value"))
	})
}

func (h *Handler) HandleEditDuration(e *handler.CommandEvent) error {
	return h.runEdit(e, "end time", func(ctx context.Context, guildID, msgID snowflake.ID, data discord.SlashCommandInteractionData) (*models.Giveaway, error) {
		d, err := h.durations.Parse(data.String("value"), h.now())
		if err != nil {
			return nil, err
		}
		return h.manager.EditDuration(ctx, guildID, msgID, d)
	})
}

func (h *Handler) HandleEditHost(e *handler.CommandEvent) error {
	return h.runEdit(e, "host", func(ctx context.Context, guildID, msgID snowflake.ID, data discord.SlashCommandInteractionData) (*models.Giveaway, error) {
		return h.manager.EditHost(ctx, guildID, msgID, data.User("value").ID)
	})
}

func (h *Handler) HandleEditWinners(e *handler.CommandEvent) error {
	return h.runEdit(e, "winner count", func(ctx context.Context, guildID, msgID snowflake.ID, data discord.SlashCommandInteractionData) (*models.Giveaway, error) {
		return h.manager.EditWinners(ctx, guildID, msgID, data.Int("value"))
	})
}

func requirementFrom(data discord.SlashCommandInteractionData) (giveaway.Requirement, error) {
	kind, err := giveaway.ParseKind(data.String("requirement"))
	if err != nil {
		return giveaway.Requirement{}, err
	}
	req := giveaway.Requirement{Kind: kind, Value: data.Int("value")}
	if role, ok := data.OptRole("role"); ok {
		req.RoleID = role.ID
	}
	return req, nil
}

func (h *Handler) HandleRequirementAdd(e *handler.CommandEvent) error {
	return h.runEdit(e, "requirements", func(ctx context.Context, guildID, msgID snowflake.ID, data discord.SlashCommandInteractionData) (*models.Giveaway, error) {
		req, err := requirementFrom(data)
		if err != nil {
			return nil, err
		}
		return h.manager.AddRequirement(ctx, guildID, msgID, req)
	})
}

func (h *Handler) HandleRequirementEdit(e *handler.CommandEvent) error {
	return h.runEdit(e, "requirements", func(ctx context.Context, guildID, msgID snowflake.ID, data discord.SlashCommandInteractionData) (*models.Giveaway, error) {
		req, err := requirementFrom(data)
		if err != nil {
			return nil, err
		}
		return h.manager.EditRequirement(ctx, guildID, msgID, req)
	})
}

func (h *Handler) HandleRequirementRemove(e *handler.CommandEvent) error {
	return h.runEdit(e, "requirements", func(ctx context.Context, guildID, msgID snowflake.ID, data discord.SlashCommandInteractionData) (*models.Giveaway, error) {
		kind, err := giveaway.ParseKind(data.String("requirement"))
		if err != nil {
			return nil, err
		}
		return h.manager.RemoveRequirement(ctx, guildID, msgID, kind)
	})
}

func (h *Handler) HandleBlacklistAdd(e *handler.CommandEvent) error {
	guildID, err := guildOf(e)
	if err != nil {
		return utils.EH.CreateErrorEmbed(e, err)
	}
	role := e.SlashCommandInteractionData().Role("role")

	ctx, cancel := commandContext()
	defer cancel()

	if err = h.settings.AddBlacklistRole(ctx, guildID, role.ID); err != nil {
		return utils.EH.CreateErrorEmbed(e, err)
	}
	return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Members with <@&%s> can no longer enter giveaways.", role.ID))
}

func (h *Handler) HandleBlacklistRemove(e *handler.CommandEvent) error {
	guildID, err := guildOf(e)
	if err != nil {
		return utils.EH.CreateErrorEmbed(e, err)
	}
	role := e.SlashCommandInteractionData().Role("role")

	ctx, cancel := commandContext()
	defer cancel()

	err = h.settings.RemoveBlacklistRole(ctx, guildID, role.ID)
	switch {
	case repositories.IsNotFound(err):
		return utils.EH.CreateInfoEmbed(e, "Giveaway Blacklist", fmt.Sprintf("<@&%s> is not blacklisted.", role.ID))
	case err != nil:
		return utils.EH.CreateErrorEmbed(e, err)
	}
	return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Members with <@&%s> can enter giveaways again.", role.ID))
}

func (h *Handler) HandleBlacklistList(e *handler.CommandEvent) error {
	guildID, err := guildOf(e)
	if err != nil {
		return utils.EH.CreateErrorEmbed(e, err)
	}
	ctx, cancel := commandContext()
	defer cancel()

	settings, err := h.settings.Get(ctx, guildID)
	if err != nil {
		return utils.EH.CreateErrorEmbed(e, err)
	}
	if len(settings.BlacklistRoleIDs) == 0 {
		return utils.EH.CreateInfoEmbed(e, "Giveaway Blacklist", "No roles are blacklisted.")
	}

	lines := make([]string, 0, len(settings.BlacklistRoleIDs))
	for _, id := range models.IDs(settings.BlacklistRoleIDs) {
		lines = append(lines, fmt.Sprintf("• <@&%s>", id))
	}
	return utils.EH.CreateInfoEmbed(e, "Giveaway Blacklist", strings.Join(lines, "\n"))
}
