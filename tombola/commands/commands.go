package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/ellavondegurechaff/tombola/tombola/commands/giveaways"
	"github.com/ellavondegurechaff/tombola/tombola/commands/starboards"
	"github.com/ellavondegurechaff/tombola/tombola/commands/system"
)

var Commands = []discord.ApplicationCommandCreate{}

func init() {
	Commands = append(Commands, giveaways.Commands...)
	Commands = append(Commands, starboards.Commands...)
	Commands = append(Commands, system.Commands...)
}
