package giveaways

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/json"
	"github.com/ellavondegurechaff/tombola/tombola/config"
	"github.com/ellavondegurechaff/tombola/tombola/giveaway"
	"github.com/ellavondegurechaff/tombola/tombola/utils"
)

var Commands = []discord.ApplicationCommandCreate{
	Giveaway,
}

func messageIDOption(description string) discord.ApplicationCommandOptionString {
	return discord.ApplicationCommandOptionString{
		Name:         "message_id",
		Description:  description,
		Required:     true,
		Autocomplete: true,
	}
}

func requirementChoices() []discord.ApplicationCommandOptionChoiceString {
	choices := make([]discord.ApplicationCommandOptionChoiceString, 0, len(giveaway.Kinds))
	for _, kind := range giveaway.Kinds {
		choices = append(choices, discord.ApplicationCommandOptionChoiceString{
			Name:  kind.Label(),
			Value: string(kind),
		})
	}
	return choices
}

func requirementOptions() []discord.ApplicationCommandOption {
	return []discord.ApplicationCommandOption{
		messageIDOption("The giveaway to change"),
		discord.ApplicationCommandOptionString{
			Name:        "requirement",
			Description: "Which requirement",
			Required:    true,
			Choices:     requirementChoices(),
		},
		discord.ApplicationCommandOptionRole{
			Name:        "role",
			Description: "Role for role based requirements",
		},
		discord.ApplicationCommandOptionInt{
			Name:        "value",
			Description: "Minimum count, or extra entries for the bonus role",
			MinValue:    utils.Ptr(1),
		},
	}
}

var Giveaway = discord.SlashCommandCreate{
	Name:                     "giveaway",
	Description:              "Create and manage giveaways",
	DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionManageGuild),
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "start",
			Description: "Start a giveaway",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "prize",
					Description: "What the winners get",
					Required:    true,
					MaxLength:   utils.Ptr(256),
				},
				discord.ApplicationCommandOptionString{
					Name:        "duration",
					Description: "How long it runs, e.g. 2h, 3d12h or \"tomorrow at 6pm\"",
					Required:    true,
				},
				discord.ApplicationCommandOptionInt{
					Name:        "winners",
					Description: "Number of winners (default 1)",
					MinValue:    utils.Ptr(1),
					MaxValue:    utils.Ptr(config.MaxGiveawayWinners),
				},
				discord.ApplicationCommandOptionChannel{
					Name:         "channel",
					Description:  "Where to post it (default: this channel)",
					ChannelTypes: []discord.ChannelType{discord.ChannelTypeGuildText, discord.ChannelTypeGuildNews},
				},
				discord.ApplicationCommandOptionRole{
					Name:        "required_role",
					Description: "Only members with this role can enter",
				},
				discord.ApplicationCommandOptionRole{
					Name:        "bonus_role",
					Description: "Members with this role get extra entries",
				},
				discord.ApplicationCommandOptionInt{
					Name:        "bonus_entries",
					Description: "Extra entries for the bonus role (default 1)",
					MinValue:    utils.Ptr(1),
					MaxValue:    utils.Ptr(config.MaxBonusEntries),
				},
				discord.ApplicationCommandOptionInt{
					Name:        "min_messages",
					Description: "Minimum messages sent in this server",
					MinValue:    utils.Ptr(1),
				},
				discord.ApplicationCommandOptionInt{
					Name:        "min_level",
					Description: "Minimum level",
					MinValue:    utils.Ptr(1),
				},
				discord.ApplicationCommandOptionInt{
					Name:        "min_invites",
					Description: "Minimum members invited",
					MinValue:    utils.Ptr(1),
				},
				discord.ApplicationCommandOptionRole{
					Name:        "ignore_role",
					Description: "Members with this role cannot enter",
				},
				discord.ApplicationCommandOptionString{
					Name:        "emoji",
					Description: "Reaction used to enter (default 🎉)",
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "end",
			Description: "End a giveaway now",
			Options: []discord.ApplicationCommandOption{
				messageIDOption("The giveaway to end"),
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "reroll",
			Description: "Draw new winners for an ended giveaway",
			Options: []discord.ApplicationCommandOption{
				messageIDOption("The ended giveaway"),
				discord.ApplicationCommandOptionInt{
					Name:        "winners",
					Description: "How many to draw (default: the original winner count)",
					MinValue:    utils.Ptr(1),
					MaxValue:    utils.Ptr(config.MaxGiveawayWinners),
				},
				discord.ApplicationCommandOptionBool{
					Name:        "include_previous",
					Description: "Allow previous winners to win again",
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "delete",
			Description: "Delete a giveaway without drawing winners",
			Options: []discord.ApplicationCommandOption{
				messageIDOption("The giveaway to delete"),
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "list",
			Description: "List this server's giveaways",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionBool{
					Name:        "ended",
					Description: "Show recently ended giveaways instead",
				},
			},
		},
		discord.ApplicationCommandOptionSubCommandGroup{
			Name:        "edit",
			Description: "Change a running giveaway",
			Options: []discord.ApplicationCommandOptionSubCommand{
				{
					Name:        "prize",
					Description: "Change the prize",
					Options: []discord.ApplicationCommandOption{
						messageIDOption("The giveaway to change"),
						discord.ApplicationCommandOptionString{
							Name:        "value",
							Description: "The new prize",
							Required:    true,
							MaxLength:   utils.Ptr(256),
						},
					},
				},
				{
					Name:        "duration",
					Description: "End earlier, counted from now",
					Options: []discord.ApplicationCommandOption{
						messageIDOption("The giveaway to change"),
						discord.ApplicationCommandOptionString{
							Name:        "value",
							Description: "Time left from now, e.g. 30m",
							Required:    true,
						},
					},
				},
				{
					Name:        "host",
					Description: "Change the host",
					Options: []discord.ApplicationCommandOption{
						messageIDOption("The giveaway to change"),
						discord.ApplicationCommandOptionUser{
							Name:        "value",
							Description: "The new host",
							Required:    true,
						},
					},
				},
				{
					Name:        "winners",
					Description: "Change the number of winners",
					Options: []discord.ApplicationCommandOption{
						messageIDOption("The giveaway to change"),
						discord.ApplicationCommandOptionInt{
							Name:        "value",
							Description: "The new winner count",
							Required:    true,
							MinValue:    utils.Ptr(1),
							MaxValue:    utils.Ptr(config.MaxGiveawayWinners),
						},
					},
				},
			},
		},
		discord.ApplicationCommandOptionSubCommandGroup{
			Name:        "requirements",
			Description: "Change who can enter a running giveaway",
			Options: []discord.ApplicationCommandOptionSubCommand{
				{
					Name:        "add",
					Description: "Add a requirement",
					Options:     requirementOptions(),
				},
				{
					Name:        "edit",
					Description: "Change an existing requirement",
					Options:     requirementOptions(),
				},
				{
					Name:        "remove",
					Description: "Remove a requirement",
					Options: []discord.ApplicationCommandOption{
						messageIDOption("The giveaway to change"),
						discord.ApplicationCommandOptionString{
							Name:        "requirement",
							Description: "Which requirement",
							Required:    true,
							Choices:     requirementChoices(),
						},
					},
				},
			},
		},
		discord.ApplicationCommandOptionSubCommandGroup{
			Name:        "blacklist",
			Description: "Roles that can never enter giveaways",
			Options: []discord.ApplicationCommandOptionSubCommand{
				{
					Name:        "add",
					Description: "Blacklist a role",
					Options: []discord.ApplicationCommandOption{
						discord.ApplicationCommandOptionRole{Name: "role", Description: "The role", Required: true},
					},
				},
				{
					Name:        "remove",
					Description: "Remove a role from the blacklist",
					Options: []discord.ApplicationCommandOption{
						discord.ApplicationCommandOptionRole{Name: "role", Description: "The role", Required: true},
					},
				},
				{
					Name:        "list",
					Description: "Show blacklisted roles",
				},
			},
		},
	},
}
