package starboard

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

var customEmojiRe = regexp.MustCompile(`^<(a?):([A-Za-z0-9_]{2,32}):(\d{17,20})>$`)

// ParseEmoji turns user input into the key reactions are stored under:
// the emoji itself for unicode, "name:id" for custom emojis.
func ParseEmoji(input string) (string, error) {
	input = strings.TrimSpace(input)
	if m := customEmojiRe.FindStringSubmatch(input); m != nil {
		return m[2] + ":" + m[3], nil
	}
	if input == "" || strings.ContainsAny(input, "<>: ") || utf8.RuneCountInString(input) > 8 || !hasNonASCII(input) {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmoji, input)
	}
	return input, nil
}

// KeyOf builds the key for a gateway reaction emoji.
func KeyOf(id *snowflake.ID, name *string) string {
	var n string
	if name != nil {
		n = *name
	}
	if id != nil && *id != 0 {
		return n + ":" + id.String()
	}
	return n
}

func keyOfEmoji(e discord.Emoji) string {
	if e.ID != 0 {
		return e.Name + ":" + e.ID.String()
	}
	return e.Name
}

// Display renders a key back into message markup.
func Display(key string) string {
	if name, id, ok := strings.Cut(key, ":"); ok {
		return "<:" + name + ":" + id + ">"
	}
	return key
}

func hasNonASCII(s string) bool {
	for _, r := range s {
		if r >= utf8.RuneSelf {
			return true
		}
	}
	return false
}
