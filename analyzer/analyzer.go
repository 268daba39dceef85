package analyzer

import (
	"math"

	"github.com/omegaxbt/omegabot/types"
)

// ═══════════════════════════════════════════════════════════════════════════════
// ANALYZER - Pure numerical routines over a price series
// ═══════════════════════════════════════════════════════════════════════════════
//
// All functions are total: short or empty input yields a neutral default,
// never a panic.
//
// ═══════════════════════════════════════════════════════════════════════════════

// Trend classifies the last w closes against their SMA with a ±1% band
func Trend(prices []float64, window int) types.Trend {
	if window <= 0 {
		window = 20
	}
	if len(prices) < window {
		return types.TrendSideways
	}

	recent := prices[len(prices)-window:]
	sma := average(recent)
	if sma == 0 {
		return types.TrendSideways
	}

	last := prices[len(prices)-1]
	first := recent[0]

	switch {
	case last > sma*1.01 && last > first:
		return types.TrendUp
	case last < sma*0.99 && last < first:
		return types.TrendDown
	default:
		return types.TrendSideways
	}
}

// Volatility returns the population stddev of the last w closes
func Volatility(prices []float64, window int) float64 {
	if window <= 0 {
		window = 20
	}
	if len(prices) < window {
		return 0
	}

	recent := prices[len(prices)-window:]
	mean := average(recent)

	var sumSq float64
	for _, p := range recent {
		d := p - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(recent)))
}

// SupportResistance returns (min, max) of the last w closes.
// With insufficient history it falls back to ±2% around the last price.
func SupportResistance(prices []float64, window int) (float64, float64) {
	if window <= 0 {
		window = 50
	}
	if len(prices) == 0 {
		return 0, 0
	}
	if len(prices) < window {
		last := prices[len(prices)-1]
		return last * 0.98, last * 1.02
	}

	recent := prices[len(prices)-window:]
	lo, hi := recent[0], recent[0]
	for _, p := range recent[1:] {
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
	}
	return lo, hi
}

// Regime combines a short trend, a long trend and a volatility ratio
// into the eight-valued market regime
func Regime(prices []float64) types.Regime {
	if len(prices) < 10 {
		return types.RegimeNeutral
	}

	short := Trend(prices, 10)
	long := Trend(prices, 30)

	mean := average(prices)
	volatile := false
	if mean > 0 {
		volatile = Volatility(prices, 20)/mean > 0.02
	}

	switch {
	case short == types.TrendUp && long == types.TrendUp:
		if volatile {
			return types.RegimeBullishVolatile
		}
		return types.RegimeBullish
	case short == types.TrendDown && long == types.TrendDown:
		if volatile {
			return types.RegimeBearishVolatile
		}
		return types.RegimeBearish
	case short == types.TrendDown && long == types.TrendUp:
		return types.RegimeBullishCorrection
	case short == types.TrendUp && long == types.TrendDown:
		return types.RegimeBearishBounce
	default:
		if volatile {
			return types.RegimeNeutralVolatile
		}
		return types.RegimeNeutral
	}
}

// FibLevels holds the standard retracement levels between a swing low and high
type FibLevels struct {
	Low    float64
	High   float64
	Levels map[float64]float64 // ratio -> price
}

var fibRatios = []float64{0, 0.236, 0.382, 0.5, 0.618, 0.786, 1.0}

// FibonacciLevels computes retracement levels from the min/max of the series
func FibonacciLevels(prices []float64) FibLevels {
	levels := FibLevels{Levels: make(map[float64]float64, len(fibRatios))}
	if len(prices) == 0 {
		return levels
	}

	lo, hi := prices[0], prices[0]
	for _, p := range prices[1:] {
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
	}

	levels.Low = lo
	levels.High = hi
	for _, r := range fibRatios {
		levels.Levels[r] = lo + (hi-lo)*r
	}
	return levels
}

// FibAlignment describes the closest retracement level to a price
type FibAlignment struct {
	Ratio    float64
	Level    float64
	Distance float64 // relative distance to the level
	Aligned  bool    // within 0.5% of the level
}

// FibonacciAlignment finds the level closest to price
func FibonacciAlignment(price float64, levels FibLevels) FibAlignment {
	align := FibAlignment{Distance: math.MaxFloat64}
	if price <= 0 || len(levels.Levels) == 0 {
		align.Distance = 0
		return align
	}

	for ratio, level := range levels.Levels {
		dist := math.Abs(price-level) / price
		if dist < align.Distance {
			align.Ratio = ratio
			align.Level = level
			align.Distance = dist
		}
	}
	align.Aligned = align.Distance <= 0.005
	return align
}

// SafeFloat guards against NaN and infinities from upstream feeds
func SafeFloat(x float64, def float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return def
	}
	return x
}

func average(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
