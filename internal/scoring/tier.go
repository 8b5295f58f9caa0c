package scoring

import (
	"strings"
	"time"
)

// Tier is the priority bucket a lead falls into based on its total
// score. The tier decides how far ahead the availability resolver
// searches for slots: hot leads get offered something within a day,
// cold leads within a week.
type Tier string

const (
	TierHot      Tier = "HOT"
	TierWarm     Tier = "WARM"
	TierLukewarm Tier = "LUKEWARM"
	TierCold     Tier = "COLD"
)

// tierBand couples a tier with its inclusive lower score bound and the
// booking search horizon. Ordered descending; first match wins.
type tierBand struct {
	tier    Tier
	minScore int
	horizon time.Duration
}

var tierBands = []tierBand{
	{TierHot, 80, 24 * time.Hour},
	{TierWarm, 50, 72 * time.Hour},
	{TierLukewarm, 20, 120 * time.Hour},
	{TierCold, 0, 168 * time.Hour},
}

// Classify maps a total score to its tier. Boundaries are inclusive on
// the lower bound: 80 is HOT, 79 is WARM.
func Classify(score int) Tier {
	for _, band := range tierBands {
		if score >= band.minScore {
			return band.tier
		}
	}
	return TierCold
}

// Horizon returns how far ahead of now the resolver should search for
// bookable slots for this tier.
func (t Tier) Horizon() time.Duration {
	for _, band := range tierBands {
		if band.tier == t {
			return band.horizon
		}
	}
	return 168 * time.Hour
}

// Label returns the display form ("Hot", "Warm", ...).
func (t Tier) Label() string {
	s := strings.ToLower(string(t))
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseTier normalizes a user-supplied tier name. The second return is
// false when the input names no known tier (including "auto" or empty,
// which callers treat as "derive from score").
func ParseTier(s string) (Tier, bool) {
	switch Tier(strings.ToUpper(strings.TrimSpace(s))) {
	case TierHot:
		return TierHot, true
	case TierWarm:
		return TierWarm, true
	case TierLukewarm:
		return TierLukewarm, true
	case TierCold:
		return TierCold, true
	}
	return "", false
}
