package exchange

import (
	"context"

	"github.com/omegaxbt/omegabot/types"
)

// ═══════════════════════════════════════════════════════════════════════════════
// EXCHANGE CLIENT - CCXT-style contract
// ═══════════════════════════════════════════════════════════════════════════════

// Order sides
const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// Client is the exchange contract the trading cycle depends on.
// Every call takes a context; the cycle wraps them in deadlines.
type Client interface {
	// Initialize opens the connection; Close releases it
	Initialize(ctx context.Context) error
	Close(ctx context.Context) error

	// Market data
	FetchTicker(ctx context.Context, symbol string) (types.Ticker, error)
	FetchOHLCV(ctx context.Context, symbol, timeframe string, limit int) ([]types.Candle, error)

	// Account
	FetchPositions(ctx context.Context, symbol string) ([]types.ExchangePosition, error)
	SetLeverage(ctx context.Context, symbol string, leverage float64) error

	// Mutations
	MarketOrder(ctx context.Context, symbol, side string, amount float64) (types.OrderResult, error)
	ClosePosition(ctx context.Context, symbol string) (types.OrderResult, error)
}

// MarketData is the read-only subset a paper exchange wraps
type MarketData interface {
	Initialize(ctx context.Context) error
	Close(ctx context.Context) error
	FetchTicker(ctx context.Context, symbol string) (types.Ticker, error)
	FetchOHLCV(ctx context.Context, symbol, timeframe string, limit int) ([]types.Candle, error)
}
