package giveaways

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/tombola/tombola/config"
	"github.com/sahilm/fuzzy"
)

// choice is one giveaway offered by message_id autocomplete.
type choice struct {
	messageID snowflake.ID
	prize     string
	ended     bool
}

func (c choice) label() string {
	state := "active"
	if c.ended {
		state = "ended"
	}
	prize := []rune(c.prize)
	if len(prize) > 64 {
		prize = append(prize[:63], '…')
	}
	return fmt.Sprintf("%s (%s, %s)", string(prize), state, c.messageID)
}

type choiceSource []choice

func (s choiceSource) Len() int { return len(s) }

func (s choiceSource) String(i int) string {
	return s[i].prize + " " + s[i].messageID.String()
}

// wantsEnded and wantsActive tell which giveaways a subcommand works on.
func wantsEnded(sub string) bool  { return sub == "reroll" || sub == "delete" }
func wantsActive(sub string) bool { return sub != "reroll" }

func (h *Handler) HandleAutocomplete(e *handler.AutocompleteEvent) error {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic in autocomplete handler",
				slog.Any("panic", r),
				slog.String("stack_trace", string(debug.Stack())),
			)
		}
	}()

	guildID := e.GuildID()
	if guildID == nil || e.Data.Focused().Name != "message_id" {
		return e.AutocompleteResult([]discord.AutocompleteChoice{})
	}
	var sub string
	if e.Data.SubCommandName != nil {
		sub = *e.Data.SubCommandName
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.AutocompleteTimeout)
	defer cancel()

	all, err := h.candidates(ctx, *guildID, wantsActive(sub), wantsEnded(sub))
	if err != nil {
		slog.Error("Failed to load giveaways for autocomplete",
			slog.String("type", "cmd"),
			slog.String("guild_id", guildID.String()),
			slog.Any("error", err))
		return e.AutocompleteResult([]discord.AutocompleteChoice{})
	}
	return e.AutocompleteResult(rankChoices(all, e.Data.String("message_id")))
}

// candidates loads the giveaways of a guild. Keystrokes from the same
// guild share one in flight query.
func (h *Handler) candidates(ctx context.Context, guildID snowflake.ID, active, ended bool) ([]choice, error) {
	key := fmt.Sprintf("%s:%t:%t", guildID, active, ended)
	v, err, _ := h.lookups.Do(key, func() (interface{}, error) {
		var out []choice
		if active {
			list, err := h.manager.ListActive(ctx, guildID)
			if err != nil {
				return nil, err
			}
			for _, g := range list {
				out = append(out, choice{messageID: g.MessageID, prize: g.Prize})
			}
		}
		if ended {
			list, err := h.manager.ListEnded(ctx, guildID)
			if err != nil {
				return nil, err
			}
			for _, g := range list {
				out = append(out, choice{messageID: g.MessageID, prize: g.Prize, ended: true})
			}
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]choice), nil
}

// rankChoices orders candidates by fuzzy match against query and caps them
// at Discord's choice limit. An empty query keeps the original order.
func rankChoices(all []choice, query string) []discord.AutocompleteChoice {
	query = strings.TrimSpace(query)
	picked := all
	if query != "" {
		matches := fuzzy.FindFrom(query, choiceSource(all))
		picked = make([]choice, 0, len(matches))
		for _, m := range matches {
			picked = append(picked, all[m.Index])
		}
	}

	out := make([]discord.AutocompleteChoice, 0, min(len(picked), config.MaxAutocompleteChoices))
	for _, c := range picked {
		if len(out) == config.MaxAutocompleteChoices {
			break
		}
		out = append(out, discord.AutocompleteChoiceString{
			Name:  c.label(),
			Value: c.messageID.String(),
		})
	}
	return out
}

func pageCount(total, perPage int) int {
	return max(1, (total+perPage-1)/perPage)
}

func pageText(lines []string, page, perPage int) string {
	start := min(page*perPage, len(lines))
	end := min(start+perPage, len(lines))
	return strings.Join(lines[start:end], "\n\n")
}
