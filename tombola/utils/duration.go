package utils

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ellavondegurechaff/tombola/tombola/giveaway"
	"github.com/sho0pi/naturaltime"
)

var compactDurationRe = regexp.MustCompile(`^(?:(\d+)w)?(?:(\d+)d)?(?:(\d+)h)?(?:(\d+)m)?(?:(\d+)s)?$`)

var compactUnits = []time.Duration{7 * 24 * time.Hour, 24 * time.Hour, time.Hour, time.Minute, time.Second}

// DurationParser reads giveaway durations: Go durations ("90m"), compact
// forms with days and weeks ("1w2d", "3d12h") and natural language
// ("in 2 hours", "tomorrow at 6pm").
type DurationParser struct {
	natural *naturaltime.Parser
}

func NewDurationParser() (*DurationParser, error) {
	natural, err := naturaltime.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create time parser: %w", err)
	}
	return &DurationParser{natural: natural}, nil
}

// Parse returns the duration input describes, measured from now.
func (p *DurationParser) Parse(input string, now time.Time) (time.Duration, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return 0, fmt.Errorf("%w: empty duration", giveaway.ErrInvalidDuration)
	}

	if d, ok, err := parseCompact(input); ok {
		return d, err
	}
	if d, err := time.ParseDuration(input); err == nil {
		return d, nil
	}

	if p.natural != nil {
		if at, err := p.natural.ParseDate(input, now); err == nil && at != nil && at.After(now) {
			return at.Sub(now), nil
		}
	}
	return 0, fmt.Errorf("%w: could not understand %q, try something like 2h, 3d or \"tomorrow at 6pm\"", giveaway.ErrInvalidDuration, input)
}

// parseCompact reports ok when input has the compact shape, err is set when
// the total does not fit in a time.Duration.
func parseCompact(input string) (time.Duration, bool, error) {
	m := compactDurationRe.FindStringSubmatch(strings.ReplaceAll(input, " ", ""))
	if m == nil || m[0] == "" {
		return 0, false, nil
	}
	tooLong := fmt.Errorf("%w: %q is too long", giveaway.ErrInvalidDuration, input)

	var total time.Duration
	for i, unit := range compactUnits {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.ParseInt(m[i+1], 10, 64)
		if err != nil {
			return 0, true, tooLong
		}
		if n > int64(math.MaxInt64/unit) {
			return 0, true, tooLong
		}
		part := time.Duration(n) * unit
		if total > math.MaxInt64-part {
			return 0, true, tooLong
		}
		total += part
	}
	return total, true, nil
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
