package exchange

import (
	"context"
	"testing"

	"github.com/omegaxbt/omegabot/types"
)

// scriptedData is a MarketData source with a settable last price
type scriptedData struct {
	price float64
}

func (s *scriptedData) Initialize(ctx context.Context) error { return nil }
func (s *scriptedData) Close(ctx context.Context) error      { return nil }

func (s *scriptedData) FetchTicker(ctx context.Context, symbol string) (types.Ticker, error) {
	return types.Ticker{Last: s.price, Bid: s.price, Ask: s.price}, nil
}

func (s *scriptedData) FetchOHLCV(ctx context.Context, symbol, timeframe string, limit int) ([]types.Candle, error) {
	return []types.Candle{{Close: s.price}}, nil
}

func TestPaperOrderAndClose(t *testing.T) {
	data := &scriptedData{price: 50000}
	p := NewPaper(data, 10000)
	ctx := context.Background()

	res, err := p.MarketOrder(ctx, "BTC/USDT", SideBuy, 0.1)
	if err != nil || !res.OK {
		t.Fatalf("MarketOrder: res=%+v err=%v", res, err)
	}
	if res.ID != "paper-1" {
		t.Fatalf("order id = %s", res.ID)
	}

	positions, err := p.FetchPositions(ctx, "BTC/USDT")
	if err != nil {
		t.Fatalf("FetchPositions: %v", err)
	}
	if len(positions) != 1 {
		t.Fatalf("positions = %v", positions)
	}
	if positions[0].Side != types.DirectionLong || positions[0].Contracts != 0.1 || positions[0].EntryPrice != 50000 {
		t.Fatalf("position = %+v", positions[0])
	}

	// Price rises 1000, long 0.1 contracts settles +100
	data.price = 51000
	res, err = p.ClosePosition(ctx, "BTC/USDT")
	if err != nil || !res.OK {
		t.Fatalf("ClosePosition: res=%+v err=%v", res, err)
	}

	if got := p.Balance().StringFixed(2); got != "10100.00" {
		t.Fatalf("balance = %s, want 10100.00", got)
	}

	positions, _ = p.FetchPositions(ctx, "BTC/USDT")
	if len(positions) != 0 {
		t.Fatalf("position survived close: %v", positions)
	}
}

func TestPaperShortSettlement(t *testing.T) {
	data := &scriptedData{price: 50000}
	p := NewPaper(data, 10000)
	ctx := context.Background()

	if _, err := p.MarketOrder(ctx, "BTC/USDT", SideSell, 0.1); err != nil {
		t.Fatalf("MarketOrder: %v", err)
	}

	data.price = 49000
	if _, err := p.ClosePosition(ctx, "BTC/USDT"); err != nil {
		t.Fatalf("ClosePosition: %v", err)
	}

	if got := p.Balance().StringFixed(2); got != "10100.00" {
		t.Fatalf("short balance = %s, want 10100.00", got)
	}
}

func TestPaperRejectsDoubleOpen(t *testing.T) {
	data := &scriptedData{price: 50000}
	p := NewPaper(data, 10000)
	ctx := context.Background()

	if _, err := p.MarketOrder(ctx, "BTC/USDT", SideBuy, 0.1); err != nil {
		t.Fatalf("first order: %v", err)
	}
	res, err := p.MarketOrder(ctx, "BTC/USDT", SideBuy, 0.1)
	if err == nil || res.OK {
		t.Fatalf("double open accepted: res=%+v", res)
	}
}

func TestPaperRejectsNonPositiveAmount(t *testing.T) {
	p := NewPaper(&scriptedData{price: 50000}, 10000)

	for _, amount := range []float64{0, -1} {
		if res, err := p.MarketOrder(context.Background(), "BTC/USDT", SideBuy, amount); err == nil || res.OK {
			t.Fatalf("amount %v accepted", amount)
		}
	}
}

func TestPaperCloseWithoutPosition(t *testing.T) {
	p := NewPaper(&scriptedData{price: 50000}, 10000)

	res, err := p.ClosePosition(context.Background(), "BTC/USDT")
	if err != nil || !res.OK {
		t.Fatalf("flat close: res=%+v err=%v", res, err)
	}
	if got := p.Balance().StringFixed(2); got != "10000.00" {
		t.Fatalf("balance moved on a no-op close: %s", got)
	}
}

func TestPaperSymbolsAreIndependent(t *testing.T) {
	data := &scriptedData{price: 100}
	p := NewPaper(data, 10000)
	ctx := context.Background()

	if _, err := p.MarketOrder(ctx, "BTC/USDT", SideBuy, 1); err != nil {
		t.Fatalf("BTC order: %v", err)
	}
	if _, err := p.MarketOrder(ctx, "ETH/USDT", SideBuy, 1); err != nil {
		t.Fatalf("ETH order: %v", err)
	}

	if _, err := p.ClosePosition(ctx, "BTC/USDT"); err != nil {
		t.Fatalf("close: %v", err)
	}
	positions, _ := p.FetchPositions(ctx, "ETH/USDT")
	if len(positions) != 1 {
		t.Fatal("closing one symbol flattened another")
	}
}
