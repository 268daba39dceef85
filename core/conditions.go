package core

import (
	"math"
	"time"

	"github.com/omegaxbt/omegabot/types"
)

// ═══════════════════════════════════════════════════════════════════════════════
// CONDITIONS PROVIDER - Ambient inputs for the factor service
// ═══════════════════════════════════════════════════════════════════════════════

// ConditionsProvider derives the cosmic conditions for a cycle.
// Tests inject a fixed provider.
type ConditionsProvider func(now time.Time) types.CosmicConditions

// NewDefaultConditions builds a provider anchored at a geographic
// location. Moon phase is computed from the synodic month; the feed-based
// inputs (schumann, liquidity, sentiment, retrograde) default to their
// neutral values and can be overridden upstream.
func NewDefaultConditions(lat, lon float64) ConditionsProvider {
	return func(now time.Time) types.CosmicConditions {
		now = now.UTC()
		return types.CosmicConditions{
			MoonPhase:         moonPhaseAt(now),
			Schumann:          types.SchumannBaseline,
			Liquidity:         types.LiquidityNormal,
			Sentiment:         types.SentimentNeutral,
			MercuryRetrograde: false,
			Latitude:          lat,
			Longitude:         lon,
			DayOfWeek:         int(now.Weekday()),
			HourOfDay:         now.Hour(),
		}
	}
}

// Reference new moon: 2000-01-06 18:14 UTC
var newMoonEpoch = time.Date(2000, time.January, 6, 18, 14, 0, 0, time.UTC)

const synodicMonth = 29.530588853 // days

// moonPhaseAt buckets the lunar cycle into the eight phases
func moonPhaseAt(t time.Time) types.MoonPhase {
	days := t.Sub(newMoonEpoch).Hours() / 24
	age := math.Mod(days, synodicMonth)
	if age < 0 {
		age += synodicMonth
	}
	frac := age / synodicMonth

	switch {
	case frac < 0.0625 || frac >= 0.9375:
		return types.MoonNew
	case frac < 0.1875:
		return types.MoonWaxingCrescent
	case frac < 0.3125:
		return types.MoonFirstQuarter
	case frac < 0.4375:
		return types.MoonWaxingGibbous
	case frac < 0.5625:
		return types.MoonFull
	case frac < 0.6875:
		return types.MoonWaningGibbous
	case frac < 0.8125:
		return types.MoonLastQuarter
	default:
		return types.MoonWaningCrescent
	}
}
