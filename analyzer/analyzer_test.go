package analyzer

import (
	"math"
	"testing"

	"github.com/omegaxbt/omegabot/types"
)

func geometric(start, growth float64, n int) []float64 {
	out := make([]float64, n)
	p := start
	for i := 0; i < n; i++ {
		out[i] = p
		p *= 1 + growth
	}
	return out
}

func TestTrendShortInputIsSideways(t *testing.T) {
	if got := Trend([]float64{100, 101}, 20); got != types.TrendSideways {
		t.Fatalf("expected sideways on short input, got %s", got)
	}
	if got := Trend(nil, 20); got != types.TrendSideways {
		t.Fatalf("expected sideways on empty input, got %s", got)
	}
}

func TestTrendClassification(t *testing.T) {
	up := make([]float64, 20)
	for i := range up {
		up[i] = 100
	}
	up[19] = 130
	if got := Trend(up, 20); got != types.TrendUp {
		t.Fatalf("expected uptrend, got %s", got)
	}

	down := make([]float64, 20)
	for i := range down {
		down[i] = 100
	}
	down[19] = 70
	if got := Trend(down, 20); got != types.TrendDown {
		t.Fatalf("expected downtrend, got %s", got)
	}

	flat := make([]float64, 20)
	for i := range flat {
		flat[i] = 100
	}
	if got := Trend(flat, 20); got != types.TrendSideways {
		t.Fatalf("expected sideways, got %s", got)
	}
}

func TestVolatility(t *testing.T) {
	if v := Volatility([]float64{100, 101}, 20); v != 0 {
		t.Fatalf("expected 0 volatility on short input, got %v", v)
	}

	flat := make([]float64, 20)
	for i := range flat {
		flat[i] = 100
	}
	if v := Volatility(flat, 20); v != 0 {
		t.Fatalf("expected 0 volatility on flat series, got %v", v)
	}

	alternating := make([]float64, 20)
	for i := range alternating {
		if i%2 == 0 {
			alternating[i] = 90
		} else {
			alternating[i] = 110
		}
	}
	if v := Volatility(alternating, 20); math.Abs(v-10) > 1e-9 {
		t.Fatalf("expected stddev 10, got %v", v)
	}
}

func TestSupportResistance(t *testing.T) {
	lo, hi := SupportResistance(nil, 50)
	if lo != 0 || hi != 0 {
		t.Fatalf("expected zeros on empty input, got %v %v", lo, hi)
	}

	lo, hi = SupportResistance([]float64{100}, 50)
	if math.Abs(lo-98) > 1e-9 || math.Abs(hi-102) > 1e-9 {
		t.Fatalf("expected 2%% fallback band, got %v %v", lo, hi)
	}

	prices := make([]float64, 50)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	lo, hi = SupportResistance(prices, 50)
	if lo != 100 || hi != 149 {
		t.Fatalf("expected min/max 100/149, got %v %v", lo, hi)
	}
}

func TestRegime(t *testing.T) {
	if got := Regime([]float64{100, 101}); got != types.RegimeNeutral {
		t.Fatalf("expected neutral on short input, got %s", got)
	}

	flat := make([]float64, 40)
	for i := range flat {
		flat[i] = 100
	}
	if got := Regime(flat); got != types.RegimeNeutral {
		t.Fatalf("expected neutral on flat series, got %s", got)
	}

	if got := Regime(geometric(100, 0.003, 40)); got != types.RegimeBullish {
		t.Fatalf("expected bullish, got %s", got)
	}
	if got := Regime(geometric(100, -0.003, 40)); got != types.RegimeBearish {
		t.Fatalf("expected bearish, got %s", got)
	}

	// Steep growth pushes the volatility ratio over 2%
	if got := Regime(geometric(100, 0.01, 40)); got != types.RegimeBullishVolatile {
		t.Fatalf("expected bullish_volatile, got %s", got)
	}
}

func TestFibonacciLevels(t *testing.T) {
	empty := FibonacciLevels(nil)
	if len(empty.Levels) != 0 {
		t.Fatalf("expected no levels on empty input")
	}

	levels := FibonacciLevels([]float64{100, 150, 200})
	if levels.Low != 100 || levels.High != 200 {
		t.Fatalf("expected swing 100/200, got %v/%v", levels.Low, levels.High)
	}
	if got := levels.Levels[0.5]; math.Abs(got-150) > 1e-9 {
		t.Fatalf("expected 0.5 level at 150, got %v", got)
	}
	if got := levels.Levels[0.618]; math.Abs(got-161.8) > 1e-9 {
		t.Fatalf("expected 0.618 level at 161.8, got %v", got)
	}
	if len(levels.Levels) != 7 {
		t.Fatalf("expected 7 levels, got %d", len(levels.Levels))
	}
}

func TestFibonacciAlignment(t *testing.T) {
	levels := FibonacciLevels([]float64{100, 200})

	aligned := FibonacciAlignment(150.1, levels)
	if aligned.Ratio != 0.5 || !aligned.Aligned {
		t.Fatalf("expected aligned at 0.5, got ratio %v aligned %v", aligned.Ratio, aligned.Aligned)
	}

	far := FibonacciAlignment(140, levels)
	if far.Aligned {
		t.Fatalf("expected no alignment at 140, closest %v", far.Ratio)
	}
}

func TestSafeFloat(t *testing.T) {
	if got := SafeFloat(math.NaN(), 1.5); got != 1.5 {
		t.Fatalf("expected default for NaN, got %v", got)
	}
	if got := SafeFloat(math.Inf(1), 0); got != 0 {
		t.Fatalf("expected default for +Inf, got %v", got)
	}
	if got := SafeFloat(42, 0); got != 42 {
		t.Fatalf("expected passthrough, got %v", got)
	}
}
