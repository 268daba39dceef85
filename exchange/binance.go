package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/omegaxbt/omegabot/types"
)

// ═══════════════════════════════════════════════════════════════════════════════
// BINANCE DATA SOURCE - REST klines + miniTicker stream
// ═══════════════════════════════════════════════════════════════════════════════
//
// Read-only MarketData implementation. Live trading credentials and order
// signing are deliberately not here; pair it with the paper exchange.
//
// ═══════════════════════════════════════════════════════════════════════════════

const (
	binanceRESTURL = "https://api.binance.com"
	binanceWSURL   = "wss://stream.binance.com:9443/ws"
)

// Binance streams live prices and serves historical candles
type Binance struct {
	mu sync.RWMutex

	restURL string
	wsURL   string
	http    *http.Client
	conn    *websocket.Conn

	// last miniTicker snapshot per exchange symbol (e.g. BTCUSDT)
	tickers map[string]types.Ticker
	symbols []string

	running bool
	stopCh  chan struct{}
}

// NewBinance builds a data source for the given trading symbols
// (slash notation, e.g. "BTC/USDT")
func NewBinance(symbols []string) *Binance {
	return &Binance{
		restURL: binanceRESTURL,
		wsURL:   binanceWSURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		tickers: make(map[string]types.Ticker),
		symbols: symbols,
		stopCh:  make(chan struct{}),
	}
}

// Initialize connects the miniTicker stream and starts the read loop
func (b *Binance) Initialize(ctx context.Context) error {
	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return nil
	}
	b.running = true
	b.mu.Unlock()

	go b.runWebSocket()
	log.Info().Strs("symbols", b.symbols).Msg("📈 Binance data source started")
	return nil
}

// Close stops the stream
func (b *Binance) Close(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.running {
		return nil
	}
	b.running = false
	close(b.stopCh)
	if b.conn != nil {
		b.conn.Close()
	}
	return nil
}

// FetchTicker returns the last streamed ticker, falling back to REST
// when the stream has not produced one yet
func (b *Binance) FetchTicker(ctx context.Context, symbol string) (types.Ticker, error) {
	exSym := toExchangeSymbol(symbol)

	b.mu.RLock()
	t, ok := b.tickers[exSym]
	b.mu.RUnlock()
	if ok && time.Since(t.Timestamp) < time.Minute {
		return t, nil
	}

	return b.restTicker(ctx, exSym)
}

// FetchOHLCV fetches historical klines via REST
func (b *Binance) FetchOHLCV(ctx context.Context, symbol, timeframe string, limit int) ([]types.Candle, error) {
	url := fmt.Sprintf("%s/api/v3/klines?symbol=%s&interval=%s&limit=%d",
		b.restURL, toExchangeSymbol(symbol), timeframe, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("binance klines: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("binance klines: unexpected status %d", resp.StatusCode)
	}

	var raw [][]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("binance klines: %w", err)
	}

	candles := make([]types.Candle, 0, len(raw))
	for _, k := range raw {
		if len(k) < 6 {
			return nil, fmt.Errorf("binance klines: malformed row with %d fields", len(k))
		}
		openTime, _ := k[0].(float64)
		candles = append(candles, types.Candle{
			Timestamp: int64(openTime),
			Open:      parseKlineField(k[1]),
			High:      parseKlineField(k[2]),
			Low:       parseKlineField(k[3]),
			Close:     parseKlineField(k[4]),
			Volume:    parseKlineField(k[5]),
		})
	}
	return candles, nil
}

func (b *Binance) restTicker(ctx context.Context, exSym string) (types.Ticker, error) {
	url := fmt.Sprintf("%s/api/v3/ticker/bookTicker?symbol=%s", b.restURL, exSym)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return types.Ticker{}, err
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return types.Ticker{}, fmt.Errorf("binance ticker: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.Ticker{}, fmt.Errorf("binance ticker: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		BidPrice string `json:"bidPrice"`
		AskPrice string `json:"askPrice"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return types.Ticker{}, fmt.Errorf("binance ticker: %w", err)
	}

	bid, _ := decimal.NewFromString(body.BidPrice)
	ask, _ := decimal.NewFromString(body.AskPrice)
	last := bid.Add(ask).Div(decimal.NewFromInt(2))

	bidF, _ := bid.Float64()
	askF, _ := ask.Float64()
	lastF, _ := last.Float64()

	t := types.Ticker{Last: lastF, Bid: bidF, Ask: askF, Timestamp: time.Now().UTC()}

	b.mu.Lock()
	b.tickers[exSym] = t
	b.mu.Unlock()

	return t, nil
}

func (b *Binance) runWebSocket() {
	for b.isRunning() {
		if err := b.connect(); err != nil {
			log.Error().Err(err).Msg("Binance websocket connect failed")
			select {
			case <-time.After(5 * time.Second):
			case <-b.stopCh:
				return
			}
			continue
		}

		b.readMessages()

		if b.isRunning() {
			log.Warn().Msg("Binance websocket disconnected, reconnecting...")
			time.Sleep(time.Second)
		}
	}
}

func (b *Binance) connect() error {
	streams := make([]string, len(b.symbols))
	for i, s := range b.symbols {
		streams[i] = strings.ToLower(toExchangeSymbol(s)) + "@miniTicker"
	}
	url := b.wsURL + "/" + strings.Join(streams, "/")

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	b.mu.Lock()
	b.conn = conn
	b.mu.Unlock()

	log.Info().Str("url", url).Msg("🔌 Binance websocket connected")
	return nil
}

func (b *Binance) readMessages() {
	for b.isRunning() {
		_, message, err := b.conn.ReadMessage()
		if err != nil {
			if b.isRunning() {
				log.Error().Err(err).Msg("Binance websocket read error")
			}
			return
		}
		b.handleMessage(message)
	}
}

func (b *Binance) handleMessage(data []byte) {
	var msg struct {
		Event  string `json:"e"`
		Symbol string `json:"s"`
		Close  string `json:"c"`
	}
	if err := json.Unmarshal(data, &msg); err != nil || msg.Event != "24hrMiniTicker" {
		return
	}

	last, err := decimal.NewFromString(msg.Close)
	if err != nil {
		return
	}
	lastF, _ := last.Float64()

	b.mu.Lock()
	b.tickers[msg.Symbol] = types.Ticker{
		Last:      lastF,
		Bid:       lastF,
		Ask:       lastF,
		Timestamp: time.Now().UTC(),
	}
	b.mu.Unlock()
}

func (b *Binance) isRunning() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.running
}

func parseKlineField(v interface{}) float64 {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

// toExchangeSymbol maps "BTC/USDT" to "BTCUSDT"
func toExchangeSymbol(symbol string) string {
	return strings.ToUpper(strings.ReplaceAll(symbol, "/", ""))
}
