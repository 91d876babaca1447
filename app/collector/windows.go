package collector

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// The widening ladder: each rung is a progressively wider time cutoff
// tried when the narrower one yields too few items.
var ladder = []time.Duration{
	1 * day,
	7 * day,
	30 * day,
	90 * day,
	365 * day,
}

// PeriodSeed maps a caller-facing period name to the seed window the
// fallback ladder starts from.
func PeriodSeed(period string) (time.Duration, error) {
	switch period {
	case "daily":
		return 1 * day, nil
	case "weekly":
		return 7 * day, nil
	case "monthly":
		return 30 * day, nil
	default:
		return 0, fmt.Errorf("period must be daily, weekly, or monthly, got %q", period)
	}
}

// Ladder returns the ordered list of progressively wider windows starting
// at the rung that covers the seed.
func Ladder(seed time.Duration) []time.Duration {
	for i, w := range ladder {
		if w >= seed {
			return ladder[i:]
		}
	}
	return ladder[len(ladder)-1:]
}
