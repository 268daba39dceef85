package exchange

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/omegaxbt/omegabot/types"
)

// ═══════════════════════════════════════════════════════════════════════════════
// PAPER EXCHANGE - Simulated fills over a real (or scripted) data feed
// ═══════════════════════════════════════════════════════════════════════════════
//
// Orders fill instantly at the last ticker price. The ledger is kept in
// decimal so simulated PnL does not drift over long runs.
//
// ═══════════════════════════════════════════════════════════════════════════════

type paperPosition struct {
	side       types.Direction
	contracts  decimal.Decimal
	entryPrice decimal.Decimal
	leverage   float64
	openedAt   time.Time
}

// Paper is an in-process exchange backed by any MarketData source
type Paper struct {
	mu sync.Mutex

	data      MarketData
	balance   decimal.Decimal
	positions map[string]*paperPosition
	orderSeq  int
}

// NewPaper builds a paper exchange with the given starting balance
func NewPaper(data MarketData, balance float64) *Paper {
	return &Paper{
		data:      data,
		balance:   decimal.NewFromFloat(balance),
		positions: make(map[string]*paperPosition),
	}
}

// Initialize opens the underlying data source
func (p *Paper) Initialize(ctx context.Context) error {
	if err := p.data.Initialize(ctx); err != nil {
		return fmt.Errorf("paper init: %w", err)
	}
	log.Info().Str("balance", p.balance.StringFixed(2)).Msg("📝 Paper exchange ready")
	return nil
}

// Close releases the underlying data source
func (p *Paper) Close(ctx context.Context) error {
	return p.data.Close(ctx)
}

// FetchTicker proxies to the data source
func (p *Paper) FetchTicker(ctx context.Context, symbol string) (types.Ticker, error) {
	return p.data.FetchTicker(ctx, symbol)
}

// FetchOHLCV proxies to the data source
func (p *Paper) FetchOHLCV(ctx context.Context, symbol, timeframe string, limit int) ([]types.Candle, error) {
	return p.data.FetchOHLCV(ctx, symbol, timeframe, limit)
}

// FetchPositions reports the simulated position for a symbol
func (p *Paper) FetchPositions(ctx context.Context, symbol string) ([]types.ExchangePosition, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pos, ok := p.positions[symbol]
	if !ok {
		return nil, nil
	}
	contracts, _ := pos.contracts.Float64()
	entry, _ := pos.entryPrice.Float64()
	return []types.ExchangePosition{{
		Side:       pos.side,
		Contracts:  contracts,
		EntryPrice: entry,
	}}, nil
}

// SetLeverage records the leverage to apply to the next fill
func (p *Paper) SetLeverage(ctx context.Context, symbol string, leverage float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if pos, ok := p.positions[symbol]; ok {
		pos.leverage = leverage
	}
	return nil
}

// MarketOrder fills instantly at the last price
func (p *Paper) MarketOrder(ctx context.Context, symbol, side string, amount float64) (types.OrderResult, error) {
	if amount <= 0 {
		return types.OrderResult{Error: "non-positive amount"}, fmt.Errorf("paper order: non-positive amount %v", amount)
	}

	ticker, err := p.data.FetchTicker(ctx, symbol)
	if err != nil {
		return types.OrderResult{Error: err.Error()}, fmt.Errorf("paper order: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, open := p.positions[symbol]; open {
		return types.OrderResult{Error: "position already open"}, fmt.Errorf("paper order: position already open for %s", symbol)
	}

	direction := types.DirectionLong
	if side == SideSell {
		direction = types.DirectionShort
	}

	p.orderSeq++
	id := fmt.Sprintf("paper-%d", p.orderSeq)
	p.positions[symbol] = &paperPosition{
		side:       direction,
		contracts:  decimal.NewFromFloat(amount),
		entryPrice: decimal.NewFromFloat(ticker.Last),
		openedAt:   time.Now(),
	}

	log.Info().
		Str("symbol", symbol).
		Str("side", side).
		Float64("amount", amount).
		Float64("price", ticker.Last).
		Str("order_id", id).
		Msg("✅ Paper fill")

	return types.OrderResult{OK: true, ID: id}, nil
}

// ClosePosition flattens the simulated position at the last price and
// settles PnL into the ledger
func (p *Paper) ClosePosition(ctx context.Context, symbol string) (types.OrderResult, error) {
	ticker, err := p.data.FetchTicker(ctx, symbol)
	if err != nil {
		return types.OrderResult{Error: err.Error()}, fmt.Errorf("paper close: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	pos, ok := p.positions[symbol]
	if !ok {
		return types.OrderResult{OK: true}, nil
	}
	delete(p.positions, symbol)

	exit := decimal.NewFromFloat(ticker.Last)
	pnl := exit.Sub(pos.entryPrice).Mul(pos.contracts)
	if pos.side == types.DirectionShort {
		pnl = pnl.Neg()
	}
	p.balance = p.balance.Add(pnl)

	p.orderSeq++
	id := fmt.Sprintf("paper-%d", p.orderSeq)

	log.Info().
		Str("symbol", symbol).
		Str("entry", pos.entryPrice.StringFixed(2)).
		Str("exit", exit.StringFixed(2)).
		Str("pnl", pnl.StringFixed(2)).
		Str("balance", p.balance.StringFixed(2)).
		Msg("📊 Paper position closed")

	return types.OrderResult{OK: true, ID: id}, nil
}

// Balance returns the simulated ledger balance
func (p *Paper) Balance() decimal.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.balance
}
