package starboard

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmoji(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "unicode", input: "⭐", want: "⭐"},
		{name: "unicode with spaces", input: "  🔥 ", want: "🔥"},
		{name: "zwj sequence", input: "👩‍💻", want: "👩‍💻"},
		{name: "custom", input: "<:kek:123456789012345678>", want: "kek:123456789012345678"},
		{name: "animated custom", input: "<a:dance:123456789012345678>", want: "dance:123456789012345678"},
		{name: "empty", input: "", wantErr: true},
		{name: "plain text", input: "star", wantErr: true},
		{name: "shortcode", input: ":star:", wantErr: true},
		{name: "broken custom", input: "<:kek:12>", wantErr: true},
		{name: "sentence", input: "⭐ and more", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEmoji(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidEmoji)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeyOfAndDisplay(t *testing.T) {
	id := snowflake.ID(123456789012345678)
	name := "kek"
	star := "⭐"

	assert.Equal(t, "kek:123456789012345678", KeyOf(&id, &name))
	assert.Equal(t, "⭐", KeyOf(nil, &star))
	assert.Equal(t, "", KeyOf(nil, nil))

	assert.Equal(t, "<:kek:123456789012345678>", Display("kek:123456789012345678"))
	assert.Equal(t, "⭐", Display("⭐"))
}
