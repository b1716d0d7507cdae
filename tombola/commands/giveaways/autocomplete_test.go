package giveaways

import (
	"strings"
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/ellavondegurechaff/tombola/tombola/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankChoices(t *testing.T) {
	all := []choice{
		{messageID: 1001, prize: "Nitro Classic"},
		{messageID: 1002, prize: "Steam gift card"},
		{messageID: 1003, prize: "Nitro Boost", ended: true},
	}

	t.Run("empty query keeps order", func(t *testing.T) {
		got := rankChoices(all, "  ")
		require.Len(t, got, 3)
		assert.Equal(t, "1001", got[0].(discord.AutocompleteChoiceString).Value)
		assert.Equal(t, "1003", got[2].(discord.AutocompleteChoiceString).Value)
	})

	t.Run("fuzzy prize match", func(t *testing.T) {
		got := rankChoices(all, "nitro")
		require.Len(t, got, 2)
		for _, c := range got {
			assert.Contains(t, c.(discord.AutocompleteChoiceString).Name, "Nitro")
		}
	})

	t.Run("message id match", func(t *testing.T) {
		got := rankChoices(all, "1002")
		require.NotEmpty(t, got)
		assert.Equal(t, "1002", got[0].(discord.AutocompleteChoiceString).Value)
	})

	t.Run("capped at the choice limit", func(t *testing.T) {
		many := make([]choice, 40)
		for i := range many {
			many[i] = choice{messageID: 2000, prize: "Prize"}
		}
		assert.Len(t, rankChoices(many, ""), config.MaxAutocompleteChoices)
	})
}

func TestChoiceLabel(t *testing.T) {
	assert.Equal(t, "Nitro (ended, 42)", choice{messageID: 42, prize: "Nitro", ended: true}.label())

	long := choice{messageID: 42, prize: strings.Repeat("🎁", 90)}.label()
	assert.LessOrEqual(t, len([]rune(long)), 100)
	assert.True(t, strings.HasSuffix(long, "… (active, 42)"))
}

func TestPaging(t *testing.T) {
	lines := []string{"a", "b", "c", "d", "e"}

	assert.Equal(t, 1, pageCount(0, 2))
	assert.Equal(t, 3, pageCount(len(lines), 2))
	assert.Equal(t, "a\n\nb", pageText(lines, 0, 2))
	assert.Equal(t, "e", pageText(lines, 2, 2))
	assert.Empty(t, pageText(lines, 5, 2))
}
