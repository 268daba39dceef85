package cosmic

import (
	"math"
	"time"

	"github.com/omegaxbt/omegabot/types"
)

// ═══════════════════════════════════════════════════════════════════════════════
// FACTOR TABLES - Closed, deterministic raw contributions
// ═══════════════════════════════════════════════════════════════════════════════
//
// Factor names are opaque identifiers keying into these tables; the
// vocabulary carries no semantics. Each table is total over its enum.
//
// ═══════════════════════════════════════════════════════════════════════════════

// moonEffect splits a lunar phase into its per-channel contributions.
// The full moon deliberately carries no risk contribution: it acts on
// emotional intensity, not appetite. The new moon resets risk and is the
// only phase with insight potential.
type moonEffect struct {
	risk    float64
	conf    float64
	emotion float64
	insight float64
}

var moonTable = map[types.MoonPhase]moonEffect{
	types.MoonNew:            {risk: 0.0, conf: 0.0, emotion: 0.0, insight: 0.3},
	types.MoonWaxingCrescent: {risk: 0.05, conf: 0.05, emotion: 0.1},
	types.MoonFirstQuarter:   {risk: 0.1, conf: 0.1, emotion: 0.2},
	types.MoonWaxingGibbous:  {risk: 0.15, conf: 0.1, emotion: 0.35},
	types.MoonFull:           {risk: 0.0, conf: 0.2, emotion: 0.5},
	types.MoonWaningGibbous:  {risk: -0.05, conf: 0.05, emotion: 0.3},
	types.MoonLastQuarter:    {risk: -0.1, conf: 0.0, emotion: 0.15},
	types.MoonWaningCrescent: {risk: -0.05, conf: -0.05, emotion: 0.05},
}

var schumannTable = map[types.SchumannLevel]float64{
	types.SchumannVeryLow:  -0.3,
	types.SchumannLow:      -0.1,
	types.SchumannBaseline: 0.0,
	types.SchumannElevated: 0.2,
	types.SchumannHigh:     0.4,
	types.SchumannVeryHigh: 0.6,
}

var liquidityTable = map[types.LiquidityLevel]float64{
	types.LiquidityDry:        -0.3,
	types.LiquidityRestricted: -0.15,
	types.LiquidityNormal:     0.0,
	types.LiquidityFlowing:    0.1,
	types.LiquidityAbundant:   0.2,
}

var sentimentTable = map[types.SentimentLevel]float64{
	types.SentimentDespair:     -0.5,
	types.SentimentPessimistic: -0.3,
	types.SentimentCautious:    -0.1,
	types.SentimentNeutral:     0.0,
	types.SentimentOptimistic:  0.2,
	types.SentimentEuphoric:    0.4,
	types.SentimentFearful:     -0.4,
}

const mercuryRetroPenalty = 0.2

// geoEffect is the geographic factor output: a risk bias from hemisphere
// seasonality scaled by longitude, and a vitality term
type geoEffect struct {
	risk     float64
	vitality float64
}

// geographic computes the latitude-sign x seasonality x |longitude|/180
// contribution. The equatorial band (|lat| < 10) has no seasons and
// returns small bounded values.
func geographic(lat, lon float64, now time.Time) geoEffect {
	lonScale := math.Abs(lon) / 180.0

	if math.Abs(lat) < 10 {
		return geoEffect{risk: 0.05 * lonScale, vitality: 0.1}
	}

	// Seasonality peaks at the June solstice (day 172) for the northern
	// hemisphere and is inverted for the southern.
	day := float64(now.YearDay())
	season := math.Cos(2 * math.Pi * (day - 172) / 365.25)
	sign := 1.0
	if lat < 0 {
		sign = -1.0
	}

	return geoEffect{
		risk:     sign * season * lonScale * 0.3,
		vitality: sign * season * 0.2,
	}
}

// timeCycle combines weekday and session-hour boosts (UTC hours)
func timeCycle(dayOfWeek, hourOfDay int) float64 {
	var v float64

	// 0=Sunday per CosmicConditions
	switch dayOfWeek {
	case 1: // Monday blues
		v -= 0.15
	case 5: // Friday
		v += 0.10
	case 0, 6: // weekend drift
		v -= 0.05
	}

	switch {
	case hourOfDay >= 13 && hourOfDay <= 14: // market open
		v += 0.10
	case hourOfDay >= 20 && hourOfDay <= 21: // market close
		v += 0.15
	}

	return v
}

// circadianEffect is the hour-band output of the circadian factor
type circadianEffect struct {
	alertness   float64
	patience    float64
	analysis    float64
	intuition   float64
	impulsivity float64
	discipline  float64
}

func circadian(hourOfDay int) circadianEffect {
	switch {
	case hourOfDay < 6: // deep night
		return circadianEffect{
			alertness:   -0.4,
			patience:    -0.1,
			analysis:    -0.3,
			intuition:   0.3,
			impulsivity: 0.2,
			discipline:  -0.2,
		}
	case hourOfDay < 12: // morning
		return circadianEffect{
			alertness:   0.3,
			patience:    0.1,
			analysis:    0.2,
			intuition:   0.0,
			impulsivity: -0.1,
			discipline:  0.2,
		}
	case hourOfDay < 18: // afternoon
		return circadianEffect{
			alertness:   0.1,
			patience:    0.0,
			analysis:    0.1,
			intuition:   0.1,
			impulsivity: 0.0,
			discipline:  0.1,
		}
	default: // evening
		return circadianEffect{
			alertness:   -0.1,
			patience:    -0.1,
			analysis:    0.0,
			intuition:   0.2,
			impulsivity: 0.1,
			discipline:  -0.1,
		}
	}
}
