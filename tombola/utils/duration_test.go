package utils

import (
	"testing"
	"time"

	"github.com/ellavondegurechaff/tombola/tombola/giveaway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationParser_Compact(t *testing.T) {
	p := &DurationParser{}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  time.Duration
	}{
		{"30s", 30 * time.Second},
		{"90m", 90 * time.Minute},
		{"2h", 2 * time.Hour},
		{"3d", 72 * time.Hour},
		{"1w", 7 * 24 * time.Hour},
		{"1d 12h", 36 * time.Hour},
		{"1w2d3h4m5s", 9*24*time.Hour + 3*time.Hour + 4*time.Minute + 5*time.Second},
		{"1.5h", 90 * time.Minute},
		{" 2H ", 2 * time.Hour},
		{"15250w", 15250 * 7 * 24 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := p.Parse(tt.input, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDurationParser_Invalid(t *testing.T) {
	p := &DurationParser{}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for _, input := range []string{"", "soon", "d", "-", "99999999999w", "15251w", "15250w 2d", "99999999999999999999s"} {
		_, err := p.Parse(input, now)
		assert.ErrorIs(t, err, giveaway.ErrInvalidDuration, input)
	}
}
