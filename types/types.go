package types

import "time"

// ═══════════════════════════════════════════════════════════════════════════════
// SHARED TYPES - Avoid import cycles
// ═══════════════════════════════════════════════════════════════════════════════

// Trend classifies recent price direction
type Trend string

const (
	TrendUp       Trend = "uptrend"
	TrendDown     Trend = "downtrend"
	TrendSideways Trend = "sideways"
)

// Regime is a coarse market state combining trend and volatility
type Regime string

const (
	RegimeBullish           Regime = "bullish"
	RegimeBullishVolatile   Regime = "bullish_volatile"
	RegimeBearish           Regime = "bearish"
	RegimeBearishVolatile   Regime = "bearish_volatile"
	RegimeBullishCorrection Regime = "bullish_correction"
	RegimeBearishBounce     Regime = "bearish_bounce"
	RegimeNeutral           Regime = "neutral"
	RegimeNeutralVolatile   Regime = "neutral_volatile"
)

// Direction of a trade intent
type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
	DirectionNone  Direction = "none"
)

// MoonPhase is one of the eight lunar phases
type MoonPhase string

const (
	MoonNew            MoonPhase = "new"
	MoonWaxingCrescent MoonPhase = "waxing_crescent"
	MoonFirstQuarter   MoonPhase = "first_quarter"
	MoonWaxingGibbous  MoonPhase = "waxing_gibbous"
	MoonFull           MoonPhase = "full"
	MoonWaningGibbous  MoonPhase = "waning_gibbous"
	MoonLastQuarter    MoonPhase = "last_quarter"
	MoonWaningCrescent MoonPhase = "waning_crescent"
)

// SchumannLevel buckets the Schumann resonance reading
type SchumannLevel string

const (
	SchumannVeryLow  SchumannLevel = "very_low"
	SchumannLow      SchumannLevel = "low"
	SchumannBaseline SchumannLevel = "baseline"
	SchumannElevated SchumannLevel = "elevated"
	SchumannHigh     SchumannLevel = "high"
	SchumannVeryHigh SchumannLevel = "very_high"
)

// LiquidityLevel buckets market liquidity
type LiquidityLevel string

const (
	LiquidityDry        LiquidityLevel = "dry"
	LiquidityRestricted LiquidityLevel = "restricted"
	LiquidityNormal     LiquidityLevel = "normal"
	LiquidityFlowing    LiquidityLevel = "flowing"
	LiquidityAbundant   LiquidityLevel = "abundant"
)

// SentimentLevel buckets crowd sentiment
type SentimentLevel string

const (
	SentimentDespair     SentimentLevel = "despair"
	SentimentPessimistic SentimentLevel = "pessimistic"
	SentimentCautious    SentimentLevel = "cautious"
	SentimentNeutral     SentimentLevel = "neutral"
	SentimentOptimistic  SentimentLevel = "optimistic"
	SentimentEuphoric    SentimentLevel = "euphoric"
	SentimentFearful     SentimentLevel = "fearful"
)

// EmotionalState of a trader profile
type EmotionalState string

const (
	EmotionNeutral   EmotionalState = "neutral"
	EmotionConfident EmotionalState = "confident"
	EmotionGreedy    EmotionalState = "greedy"
	EmotionAnxious   EmotionalState = "anxious"
	EmotionFearful   EmotionalState = "fearful"
	EmotionRevenge   EmotionalState = "revenge"
)

// CosmicConditions are the enumerated inputs to the factor service.
// Purely decorative naming; each field keys into a closed lookup table.
type CosmicConditions struct {
	MoonPhase         MoonPhase      `json:"moon_phase"`
	Schumann          SchumannLevel  `json:"schumann"`
	Liquidity         LiquidityLevel `json:"liquidity"`
	Sentiment         SentimentLevel `json:"sentiment"`
	MercuryRetrograde bool           `json:"mercury_retrograde"`
	Latitude          float64        `json:"latitude"`  // [-90, 90]
	Longitude         float64        `json:"longitude"` // [-180, 180]
	DayOfWeek         int            `json:"day_of_week"` // 0=Sunday
	HourOfDay         int            `json:"hour_of_day"` // 0-23
}

// MarketContext is an immutable snapshot of market state for one cycle
type MarketContext struct {
	Symbol       string
	Price        float64
	Bid          float64
	Ask          float64
	PriceHistory []float64 // recent closes, oldest first
	Trend        Trend
	Regime       Regime
	Volatility   float64
	Support      float64
	Resistance   float64
	Cosmic       CosmicConditions
	Timestamp    time.Time
}

// Decision is one trading intent produced by a profile and possibly
// nudged by the factor service within a single cycle
type Decision struct {
	ShouldEnter        bool
	Direction          Direction
	Confidence         float64 // [0,1]
	EntryThreshold     float64 // [0,1]
	ExitImpulse        float64 // [0,1]
	PositionSize       float64 // asset units, >= 0
	Leverage           float64 // >= 1
	StopLossPct        float64
	TakeProfitPct      float64
	RiskAppetite       float64 // [0,1]
	InsightLevel       float64 // [0,1]
	EmotionalIntensity float64 // [0,1]
	Reason             string
}

// Position mirror kept inside TraderState
type Position struct {
	Active     bool      `json:"active"`
	Side       Direction `json:"side"`
	EntryPrice float64   `json:"entry_price"`
	Size       float64   `json:"size"`
	OpenedAt   time.Time `json:"opened_at"`
}

// TraderState is the mutable per-trader state, mirrored to the state store
// after every cycle. Each trading cycle exclusively owns one TraderState.
type TraderState struct {
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Symbol   string `json:"symbol"`

	// Profile parameters, each in [0,1]
	RiskAppetite float64 `json:"risk_appetite"`
	Discipline   float64 `json:"discipline"`
	Patience     float64 `json:"patience"`
	Confidence   float64 `json:"confidence"`

	Emotion EmotionalState `json:"emotional_state"`

	// Rolling counters
	TotalTrades       int     `json:"total_trades"`
	Wins              int     `json:"wins"`
	Losses            int     `json:"losses"`
	ConsecutiveWins   int     `json:"consecutive_wins"`
	ConsecutiveLosses int     `json:"consecutive_losses"`
	MaxDrawdown       float64 `json:"max_drawdown"`

	Capital    float64 `json:"capital"`
	ProfitLoss float64 `json:"profit_loss"`

	Position Position `json:"position"`
}

// WinRate returns the fraction of winning trades, 0 if no trades yet
func (s *TraderState) WinRate() float64 {
	if s.TotalTrades == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.TotalTrades)
}

// Ticker is one exchange ticker snapshot
type Ticker struct {
	Last      float64
	Bid       float64
	Ask       float64
	Timestamp time.Time
}

// Candle is one OHLCV bar
type Candle struct {
	Timestamp int64
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// ExchangePosition is a position as reported by the exchange
type ExchangePosition struct {
	Side       Direction
	Contracts  float64
	EntryPrice float64
}

// OrderResult is the outcome of an order submission
type OrderResult struct {
	OK    bool
	ID    string
	Error string
}
