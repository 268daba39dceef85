package profile

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/rs/zerolog/log"

	"github.com/omegaxbt/omegabot/analyzer"
	"github.com/omegaxbt/omegabot/cosmic"
	"github.com/omegaxbt/omegabot/types"
)

// ═══════════════════════════════════════════════════════════════════════════════
// TRADER PROFILE - Entry/exit rules, sizing, leverage, targets
// ═══════════════════════════════════════════════════════════════════════════════
//
// A profile is pure relative to its inputs: the same context, state and
// factor config always produce the same decision. The injected RNG only
// drives the optional revenge transition in the emotion machine.
//
// ═══════════════════════════════════════════════════════════════════════════════

const (
	defaultExitThreshold = 0.5
	minHistoryForEntry   = 10
	adverseMovePct       = 0.01
)

// Target is one rung of the exit ladder
type Target struct {
	Price float64
	Pct   float64 // fraction of the position to close at this rung
}

// Trader is a strategy object bound to a preset and a factor service
type Trader struct {
	params  Params
	factors *cosmic.Service
	rng     *rand.Rand

	// Max position as a fraction of capital, percentage sizing is capped
	// by this absolute limit
	maxPositionFraction float64
}

// New builds a trader for the named profile. A nil RNG gets a fixed seed
// so emotional transitions stay reproducible.
func New(name string, factors *cosmic.Service, rng *rand.Rand) (*Trader, error) {
	params, err := Preset(name)
	if err != nil {
		return nil, err
	}
	return NewFromParams(params, factors, rng), nil
}

// NewFromParams builds a trader from an explicit parameter set, used when
// the environment overrides preset values
func NewFromParams(params Params, factors *cosmic.Service, rng *rand.Rand) *Trader {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Trader{
		params:              params,
		factors:             factors,
		rng:                 rng,
		maxPositionFraction: params.SizingFactor * 5,
	}
}

// Params returns the profile preset
func (t *Trader) Params() Params {
	return t.params
}

// Name returns the profile name
func (t *Trader) Name() string {
	return t.params.Name
}

// InitState seeds a fresh trader state from the preset
func (t *Trader) InitState(name, exchange, symbol string, capital float64) *types.TraderState {
	return &types.TraderState{
		Name:         name,
		Exchange:     exchange,
		Symbol:       symbol,
		RiskAppetite: t.params.RiskAppetite,
		Discipline:   t.params.Discipline,
		Patience:     t.params.Patience,
		Emotion:      types.EmotionNeutral,
		Capital:      capital,
	}
}

// ShouldEnter evaluates trend confirmation and produces an entry decision
func (t *Trader) ShouldEnter(ctx types.MarketContext, state *types.TraderState) types.Decision {
	noEntry := types.Decision{Direction: types.DirectionNone}

	if state.Position.Active {
		return noEntry
	}
	if len(ctx.PriceHistory) < minHistoryForEntry {
		return noEntry
	}

	detected := analyzer.Trend(ctx.PriceHistory, 20)
	if detected == types.TrendSideways {
		return noEntry
	}

	direction := types.DirectionLong
	if detected == types.TrendDown {
		direction = types.DirectionShort
	}

	score := 0.0
	if detected == ctx.Trend {
		score += 0.4
	}
	if regimeSupports(ctx.Regime, direction) {
		score += 0.3
	}
	if structuralConfirmation(ctx.PriceHistory, direction) {
		score += 0.2
	}

	d := types.Decision{
		Direction:      direction,
		Confidence:     score,
		EntryThreshold: t.params.MinConfirmation,
		RiskAppetite:   state.RiskAppetite,
		StopLossPct:    t.params.StopLossPct,
	}
	d = t.factors.Apply(d, t.factors.Calculate(ctx.Cosmic))

	if d.Confidence < d.EntryThreshold {
		// Greedy traders chase anyway once confidence clears their FOMO floor
		if !(state.Emotion == types.EmotionGreedy && d.Confidence >= t.params.FomoThreshold) {
			return noEntry
		}
		d.Reason = "FOMO entry"
	}

	d.ShouldEnter = true
	d.Leverage = clampf(1+(d.Confidence-0.5)*2, 1, t.params.MaxLeverage)
	if d.Reason == "" {
		d.Reason = fmt.Sprintf("Trend confirmed %s", detected)
	}
	return d
}

// Size converts a capital fraction into asset units, runs it through the
// factor service and caps it at the absolute position limit.
// Percentage-of-capital sizing comes first, the absolute cap second.
func (t *Trader) Size(direction types.Direction, entryPrice, capital float64, c types.CosmicConditions) float64 {
	if entryPrice <= 0 || capital <= 0 {
		return 0
	}

	base := capital * t.params.SizingFactor * (0.5 + t.params.RiskAppetite)
	units := base / entryPrice

	d := t.factors.Apply(
		types.Decision{Direction: direction, PositionSize: units},
		t.factors.Calculate(c),
	)
	units = d.PositionSize

	maxUnits := capital * t.maxPositionFraction / entryPrice
	if units > maxUnits {
		units = maxUnits
	}
	return units
}

// Stop returns the stop-loss price for an entry
func (t *Trader) Stop(direction types.Direction, entryPrice float64) float64 {
	if direction == types.DirectionShort {
		return entryPrice * (1 + t.params.StopLossPct)
	}
	return entryPrice * (1 - t.params.StopLossPct)
}

// Targets builds the three-rung exit ladder at R multiples 2, 3 and 5.
// The rung fractions always sum to 1.
func (t *Trader) Targets(direction types.Direction, entryPrice, stop float64) []Target {
	risk := math.Abs(entryPrice - stop)
	multiples := []float64{2, 3, 5}
	fractions := []float64{0.4, 0.4, 0.2}

	targets := make([]Target, len(multiples))
	for i, r := range multiples {
		price := entryPrice + r*risk
		if direction == types.DirectionShort {
			price = entryPrice - r*risk
		}
		targets[i] = Target{Price: price, Pct: fractions[i]}
	}
	return targets
}

// ShouldExit composes an exit impulse from reversal and adverse-move
// signals, lets the factor service scale it, and compares it to the
// exit threshold
func (t *Trader) ShouldExit(ctx types.MarketContext, state *types.TraderState) (bool, string) {
	if !state.Position.Active {
		return false, ""
	}

	impulse := 0.0
	var signals []string

	side := state.Position.Side
	if (side == types.DirectionLong && ctx.Trend == types.TrendDown) ||
		(side == types.DirectionShort && ctx.Trend == types.TrendUp) {
		impulse += 0.4
		signals = append(signals, "trend reversal")
	}
	if regimeOpposes(ctx.Regime, side) {
		impulse += 0.2
		signals = append(signals, "regime shift")
	}
	if adverseMove(ctx.Price, state.Position.EntryPrice, side) >= adverseMovePct {
		impulse += 0.3
		signals = append(signals, "adverse move")
	}

	d := types.Decision{Direction: side, ExitImpulse: impulse}
	d = t.factors.Apply(d, t.factors.Calculate(ctx.Cosmic))

	if d.ExitImpulse > defaultExitThreshold {
		reason := fmt.Sprintf("Exit signal confirmed: %s", joinSignals(signals))
		log.Debug().
			Str("profile", t.params.Name).
			Float64("impulse", d.ExitImpulse).
			Str("reason", reason).
			Msg("Exit impulse over threshold")
		return true, reason
	}
	return false, ""
}

func regimeSupports(r types.Regime, d types.Direction) bool {
	switch d {
	case types.DirectionLong:
		return r == types.RegimeBullish || r == types.RegimeBullishVolatile || r == types.RegimeBearishBounce
	case types.DirectionShort:
		return r == types.RegimeBearish || r == types.RegimeBearishVolatile || r == types.RegimeBullishCorrection
	}
	return false
}

func regimeOpposes(r types.Regime, side types.Direction) bool {
	switch side {
	case types.DirectionLong:
		return r == types.RegimeBearish || r == types.RegimeBearishVolatile
	case types.DirectionShort:
		return r == types.RegimeBullish || r == types.RegimeBullishVolatile
	}
	return false
}

// structuralConfirmation checks higher lows (long) or lower highs (short)
// on the last 10 closes versus the previous 10
func structuralConfirmation(prices []float64, direction types.Direction) bool {
	if len(prices) < 20 {
		return false
	}

	prev := prices[len(prices)-20 : len(prices)-10]
	last := prices[len(prices)-10:]

	if direction == types.DirectionLong {
		return minOf(last) > minOf(prev)
	}
	return maxOf(last) < maxOf(prev)
}

func adverseMove(price, entry float64, side types.Direction) float64 {
	if entry <= 0 {
		return 0
	}
	move := (price - entry) / entry
	if side == types.DirectionLong {
		return -move
	}
	return move
}

func joinSignals(signals []string) string {
	if len(signals) == 0 {
		return "factor pressure"
	}
	out := signals[0]
	for _, s := range signals[1:] {
		out += ", " + s
	}
	return out
}

func minOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func maxOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

func clampf(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
