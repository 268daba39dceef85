package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/omegaxbt/omegabot/analyzer"
	"github.com/omegaxbt/omegabot/cosmic"
	"github.com/omegaxbt/omegabot/exchange"
	"github.com/omegaxbt/omegabot/profile"
	"github.com/omegaxbt/omegabot/store"
	"github.com/omegaxbt/omegabot/types"
)

// ═══════════════════════════════════════════════════════════════════════════════
// TRADING CYCLE - Central orchestrator
// ═══════════════════════════════════════════════════════════════════════════════
//
// Flow per cycle:
//   Exchange → MarketContext → Analyzer → {Profile, FactorService}
//           → Decision → Exchange → StateStore
//
// At most one order-mutating exchange call per cycle (close xor open).
// State publication is always the last step. No error escapes RunCycle;
// the next cycle retries from scratch.
//
// ═══════════════════════════════════════════════════════════════════════════════

// Notifier receives trade events (Telegram); may be nil
type Notifier interface {
	NotifyTrade(action, symbol, side string, price, size float64)
}

// Journal is the optional trade/cycle persistence sink; may be nil
type Journal interface {
	LogTrade(trader, symbol, side, action string, price, size, leverage, pnl float64, reason string) error
	LogCycle(trader, symbol string, price float64, trend, regime, emotion, lastError string) error
}

// Config for one trading cycle
type Config struct {
	Name         string
	Symbol       string
	Timeframe    string
	HistoryLimit int
	CallTimeout  time.Duration
	Channel      string // state publication channel
}

func (c *Config) setDefaults() {
	if c.Timeframe == "" {
		c.Timeframe = "1m"
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = 100
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = 15 * time.Second
	}
	if c.Channel == "" {
		c.Channel = "omega:updates"
	}
}

// Cycle owns one trader on one symbol
type Cycle struct {
	cfg     Config
	ex      exchange.Client
	st      store.StateStore
	trader  *profile.Trader
	factors *cosmic.Service
	journal Journal
	notify  Notifier

	conditions ConditionsProvider
	now        func() time.Time

	state     *types.TraderState
	lastError string
}

// New builds a trading cycle. journal and notify may be nil; a nil clock
// falls back to time.Now.
func New(
	cfg Config,
	ex exchange.Client,
	st store.StateStore,
	trader *profile.Trader,
	factors *cosmic.Service,
	state *types.TraderState,
	conditions ConditionsProvider,
	clock func() time.Time,
) *Cycle {
	cfg.setDefaults()
	if conditions == nil {
		conditions = NewDefaultConditions(0, 0)
	}
	if clock == nil {
		clock = time.Now
	}
	return &Cycle{
		cfg:        cfg,
		ex:         ex,
		st:         st,
		trader:     trader,
		factors:    factors,
		state:      state,
		conditions: conditions,
		now:        clock,
	}
}

// SetJournal attaches the trade journal
func (c *Cycle) SetJournal(j Journal) { c.journal = j }

// SetNotifier attaches the trade notifier
func (c *Cycle) SetNotifier(n Notifier) { c.notify = n }

// State exposes the owned trader state (the cycle remains the only writer)
func (c *Cycle) State() *types.TraderState { return c.state }

// Initialize opens the exchange connection and restores persisted state
func (c *Cycle) Initialize(ctx context.Context) error {
	if err := c.ex.Initialize(ctx); err != nil {
		return err
	}
	c.restoreState(ctx)
	log.Info().
		Str("trader", c.cfg.Name).
		Str("symbol", c.cfg.Symbol).
		Str("profile", c.trader.Name()).
		Bool("cosmic", c.factors.Enabled()).
		Msg("🚀 Trading cycle initialized")
	return nil
}

// Run executes cycles at the given interval until the context is
// cancelled, then shuts down gracefully
func (c *Cycle) Run(ctx context.Context, interval time.Duration) error {
	if err := c.Initialize(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.RunCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			return c.Shutdown()
		case <-ticker.C:
			c.RunCycle(ctx)
		}
	}
}

// RunCycle performs one full pass. Exchange and store errors are logged
// and absorbed; the next cycle retries from scratch.
func (c *Cycle) RunCycle(ctx context.Context) {
	c.lastError = ""

	mctx, err := c.refreshContext(ctx)
	if err != nil {
		c.fail("refresh market context", err)
		c.publishState(ctx)
		return
	}

	if err := c.reconcile(ctx); err != nil {
		c.fail("reconcile position", err)
		c.publishState(ctx)
		return
	}

	// Exactly one order-mutating call below: close xor open xor none
	if c.state.Position.Active {
		c.checkExit(ctx, mctx)
	} else {
		c.checkEntry(ctx, mctx)
	}

	c.publishState(ctx)

	if c.journal != nil && c.lastError != "" {
		if err := c.journal.LogCycle(c.cfg.Name, c.cfg.Symbol, mctx.Price,
			string(mctx.Trend), string(mctx.Regime), string(c.state.Emotion), c.lastError); err != nil {
			log.Error().Err(err).Msg("Journal cycle write failed")
		}
	}
}

// refreshContext pulls ticker and candles and derives the analytic fields
func (c *Cycle) refreshContext(ctx context.Context) (types.MarketContext, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	ticker, err := c.ex.FetchTicker(callCtx, c.cfg.Symbol)
	if err != nil {
		return types.MarketContext{}, err
	}

	candles, err := c.ex.FetchOHLCV(callCtx, c.cfg.Symbol, c.cfg.Timeframe, c.cfg.HistoryLimit)
	if err != nil {
		return types.MarketContext{}, err
	}

	closes := make([]float64, len(candles))
	for i, k := range candles {
		closes[i] = analyzer.SafeFloat(k.Close, 0)
	}

	support, resistance := analyzer.SupportResistance(closes, 50)
	now := c.now().UTC()

	return types.MarketContext{
		Symbol:       c.cfg.Symbol,
		Price:        ticker.Last,
		Bid:          ticker.Bid,
		Ask:          ticker.Ask,
		PriceHistory: closes,
		Trend:        analyzer.Trend(closes, 20),
		Regime:       analyzer.Regime(closes),
		Volatility:   analyzer.Volatility(closes, 20),
		Support:      support,
		Resistance:   resistance,
		Cosmic:       c.conditions(now),
		Timestamp:    now,
	}, nil
}

// reconcile makes the exchange authoritative for the position mirror
func (c *Cycle) reconcile(ctx context.Context) error {
	callCtx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	positions, err := c.ex.FetchPositions(callCtx, c.cfg.Symbol)
	if err != nil {
		return err
	}

	if len(positions) == 0 {
		if c.state.Position.Active {
			log.Warn().Str("trader", c.cfg.Name).Msg("Position mirror stale, exchange reports flat")
			c.state.Position = types.Position{}
		}
		return nil
	}

	p := positions[0]
	if !c.state.Position.Active {
		log.Warn().
			Str("trader", c.cfg.Name).
			Str("side", string(p.Side)).
			Float64("contracts", p.Contracts).
			Msg("Adopting position found on exchange")
		c.state.Position.OpenedAt = c.now().UTC()
	}
	c.state.Position.Active = true
	c.state.Position.Side = p.Side
	c.state.Position.Size = p.Contracts
	c.state.Position.EntryPrice = p.EntryPrice
	return nil
}

func (c *Cycle) checkExit(ctx context.Context, mctx types.MarketContext) {
	exit, reason := c.trader.ShouldExit(mctx, c.state)
	if !exit {
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	res, err := c.ex.ClosePosition(callCtx, c.cfg.Symbol)
	if err != nil || !res.OK {
		c.fail("close position", err)
		return
	}

	pos := c.state.Position
	pnl := (mctx.Price - pos.EntryPrice) * pos.Size
	if pos.Side == types.DirectionShort {
		pnl = -pnl
	}

	c.state.Position = types.Position{}
	c.trader.RecordTrade(c.state, pnl)

	log.Info().
		Str("trader", c.cfg.Name).
		Str("side", string(pos.Side)).
		Float64("entry", pos.EntryPrice).
		Float64("exit", mctx.Price).
		Float64("pnl", pnl).
		Str("reason", reason).
		Msg("📊 Position closed")

	if c.journal != nil {
		if err := c.journal.LogTrade(c.cfg.Name, c.cfg.Symbol, string(pos.Side), "CLOSE",
			mctx.Price, pos.Size, 0, pnl, reason); err != nil {
			log.Error().Err(err).Msg("Journal trade write failed")
		}
	}
	if c.notify != nil {
		c.notify.NotifyTrade("CLOSE", c.cfg.Symbol, string(pos.Side), mctx.Price, pos.Size)
	}
}

func (c *Cycle) checkEntry(ctx context.Context, mctx types.MarketContext) {
	d := c.trader.ShouldEnter(mctx, c.state)
	if !d.ShouldEnter {
		return
	}

	size := c.trader.Size(d.Direction, mctx.Price, c.state.Capital, mctx.Cosmic)
	if size <= 0 {
		return
	}

	side := exchange.SideBuy
	if d.Direction == types.DirectionShort {
		side = exchange.SideSell
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	// Leverage setup precedes the single order-mutating call
	if err := c.ex.SetLeverage(callCtx, c.cfg.Symbol, d.Leverage); err != nil {
		c.fail("set leverage", err)
		return
	}

	res, err := c.ex.MarketOrder(callCtx, c.cfg.Symbol, side, size)
	if err != nil || !res.OK {
		c.fail("market order", err)
		return
	}

	c.state.Position = types.Position{
		Active:     true,
		Side:       d.Direction,
		EntryPrice: mctx.Price,
		Size:       size,
		OpenedAt:   c.now().UTC(),
	}
	c.state.Confidence = d.Confidence

	log.Info().
		Str("trader", c.cfg.Name).
		Str("side", side).
		Float64("price", mctx.Price).
		Float64("size", size).
		Float64("leverage", d.Leverage).
		Float64("confidence", d.Confidence).
		Str("order_id", res.ID).
		Str("reason", d.Reason).
		Msg("🎯 Position opened")

	if c.journal != nil {
		if err := c.journal.LogTrade(c.cfg.Name, c.cfg.Symbol, string(d.Direction), "OPEN",
			mctx.Price, size, d.Leverage, 0, d.Reason); err != nil {
			log.Error().Err(err).Msg("Journal trade write failed")
		}
	}
	if c.notify != nil {
		c.notify.NotifyTrade("OPEN", c.cfg.Symbol, string(d.Direction), mctx.Price, size)
	}
}

// statusRecord is the persisted state schema
type statusRecord struct {
	Name           string  `json:"name"`
	Exchange       string  `json:"exchange"`
	Symbol         string  `json:"symbol"`
	ActivePosition bool    `json:"active_position"`
	PositionSide   string  `json:"position_side"`
	PositionSize   float64 `json:"position_size"`
	EntryPrice     float64 `json:"entry_price"`
	Capital        float64 `json:"capital"`
	ProfitLoss     float64 `json:"profit_loss"`
	WinRate        float64 `json:"win_rate"`
	TradeCount     int     `json:"trade_count"`
	EmotionalState string  `json:"emotional_state"`
	RiskAppetite   float64 `json:"risk_appetite"`
	Confidence     float64 `json:"confidence"`
	CosmicEnabled  bool    `json:"cosmic_enabled"`
	Timestamp      string  `json:"timestamp"`
	LastError      string  `json:"last_error,omitempty"`
}

// publishState replicates the post-cycle state to the store. Always the
// last step; a store failure is logged and the local state stays
// authoritative until the next cycle.
func (c *Cycle) publishState(ctx context.Context) {
	rec := statusRecord{
		Name:           c.state.Name,
		Exchange:       c.state.Exchange,
		Symbol:         c.state.Symbol,
		ActivePosition: c.state.Position.Active,
		PositionSide:   string(c.state.Position.Side),
		PositionSize:   c.state.Position.Size,
		EntryPrice:     c.state.Position.EntryPrice,
		Capital:        c.state.Capital,
		ProfitLoss:     c.state.ProfitLoss,
		WinRate:        c.state.WinRate(),
		TradeCount:     c.state.TotalTrades,
		EmotionalState: string(c.state.Emotion),
		RiskAppetite:   c.state.RiskAppetite,
		Confidence:     c.state.Confidence,
		CosmicEnabled:  c.factors.Enabled(),
		Timestamp:      c.now().UTC().Format(time.RFC3339Nano),
		LastError:      c.lastError,
	}

	b, err := json.Marshal(rec)
	if err != nil {
		log.Error().Err(err).Msg("State marshal failed")
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	if err := c.st.Put(callCtx, store.TraderKey(c.cfg.Name), b); err != nil {
		log.Error().Err(err).Str("trader", c.cfg.Name).Msg("State store write failed, continuing on local state")
		return
	}
	if err := c.st.Publish(callCtx, c.cfg.Channel, b); err != nil {
		log.Error().Err(err).Str("trader", c.cfg.Name).Msg("State publish failed")
	}
}

// restoreState merges any persisted replica into the owned state
func (c *Cycle) restoreState(ctx context.Context) {
	callCtx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	b, ok, err := c.st.Get(callCtx, store.TraderKey(c.cfg.Name))
	if err != nil {
		log.Warn().Err(err).Msg("State restore failed, starting fresh")
		return
	}
	if !ok {
		return
	}

	var rec statusRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		log.Warn().Err(err).Msg("Persisted state unreadable, starting fresh")
		return
	}

	if rec.Capital > 0 {
		c.state.Capital = rec.Capital
	}
	c.state.ProfitLoss = rec.ProfitLoss
	c.state.TotalTrades = rec.TradeCount
	if rec.EmotionalState != "" {
		c.state.Emotion = types.EmotionalState(rec.EmotionalState)
	}
	if rec.RiskAppetite > 0 {
		c.state.RiskAppetite = rec.RiskAppetite
	}

	log.Info().
		Str("trader", c.cfg.Name).
		Float64("capital", c.state.Capital).
		Int("trades", c.state.TotalTrades).
		Msg("State restored from store")
}

// Shutdown closes any open position, persists the final state and
// releases the exchange connection
func (c *Cycle) Shutdown() error {
	log.Info().Str("trader", c.cfg.Name).Msg("Shutting down trading cycle")

	// Detached context: the run context is already cancelled
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.CallTimeout)
	defer cancel()

	if c.state.Position.Active {
		ticker, terr := c.ex.FetchTicker(ctx, c.cfg.Symbol)
		res, err := c.ex.ClosePosition(ctx, c.cfg.Symbol)
		if err != nil || !res.OK {
			c.fail("close position on shutdown", err)
		} else {
			pos := c.state.Position
			pnl := 0.0
			if terr == nil {
				pnl = (ticker.Last - pos.EntryPrice) * pos.Size
				if pos.Side == types.DirectionShort {
					pnl = -pnl
				}
			}
			c.state.Position = types.Position{}
			c.trader.RecordTrade(c.state, pnl)
			log.Info().Float64("pnl", pnl).Msg("Position closed on shutdown")
		}
	}

	c.publishState(ctx)

	if err := c.ex.Close(ctx); err != nil {
		log.Error().Err(err).Msg("Exchange close failed")
		return err
	}
	return nil
}

func (c *Cycle) fail(op string, err error) {
	if err == nil {
		c.lastError = op + " rejected"
	} else {
		c.lastError = op + ": " + err.Error()
	}
	log.Error().Err(err).Str("trader", c.cfg.Name).Str("op", op).Msg("Cycle step failed, will retry next interval")
}
