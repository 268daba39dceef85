// Omegabot - cosmic-influenced trading decision pipeline
//
// One trader per symbol. Each cycle:
//  1. Refresh market context from the exchange
//  2. Reconcile the position mirror
//  3. Exit check or entry check (at most one order per cycle)
//  4. Publish state to the store
//
// The factor service nudges every decision by a bounded influence vector
// computed from configured "cosmic" factors; with the master switch off
// the pipeline runs the raw profile strategy.
package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/omegaxbt/omegabot/bot"
	"github.com/omegaxbt/omegabot/core"
	"github.com/omegaxbt/omegabot/cosmic"
	"github.com/omegaxbt/omegabot/exchange"
	"github.com/omegaxbt/omegabot/internal/config"
	"github.com/omegaxbt/omegabot/profile"
	"github.com/omegaxbt/omegabot/storage"
	"github.com/omegaxbt/omegabot/store"
)

const version = "1.2.0"

func main() {
	os.Exit(run())
}

func run() int {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	botName := flag.String("bot", "strategic", "trader profile (strategic|aggressive|newbie|scalper|yolo)")
	symbolFlag := flag.String("symbol", "", "trading symbol, overrides SYMBOL env")
	interval := flag.Int("interval", 60, "cycle interval in seconds")
	exchangeID := flag.String("exchange", "", "exchange id, overrides EXCHANGE_ID env")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return 1
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if *symbolFlag != "" {
		cfg.Symbols = []string{*symbolFlag}
	}
	if *exchangeID != "" {
		cfg.ExchangeID = *exchangeID
	}

	log.Info().
		Str("version", version).
		Str("profile", *botName).
		Strs("symbols", cfg.Symbols).
		Str("exchange", cfg.ExchangeID).
		Int("interval_s", *interval).
		Msg("🌙 Omegabot starting")

	// Factor configuration fails fast at startup
	factorCfg := cosmic.DefaultConfig()
	if cfg.CosmicConfig != "" {
		factorCfg, err = cosmic.LoadConfig(cfg.CosmicConfig)
		if err != nil {
			log.Error().Err(err).Str("path", cfg.CosmicConfig).Msg("Bad cosmic config")
			return 1
		}
	}
	factors := cosmic.NewService(factorCfg, nil)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// One connection per store for the whole process
	var stateStore store.StateStore
	if cfg.StateStoreURL != "" {
		rs, err := store.NewRedisStore(ctx, cfg.StateStoreURL)
		if err != nil {
			log.Error().Err(err).Msg("State store connection failed")
			return 1
		}
		stateStore = rs
	} else {
		log.Warn().Msg("STATE_STORE_URL not set, state kept in memory only")
		stateStore = store.NewMemoryStore()
	}
	defer stateStore.Close()

	var journal core.Journal
	if j, err := storage.Open(cfg.DatabaseURL, cfg.SQLitePath); err != nil {
		log.Warn().Err(err).Msg("Journal unavailable, continuing without persistence")
	} else {
		journal = j
	}

	var notifier core.Notifier
	if cfg.TelegramToken != "" {
		if n, err := bot.NewNotifier(cfg.TelegramToken, cfg.TelegramChatID); err != nil {
			log.Warn().Err(err).Msg("Telegram notifier unavailable")
		} else {
			notifier = n
		}
	}

	params, err := profile.Preset(*botName)
	if err != nil {
		log.Error().Err(err).Msg("Unknown profile")
		return 1
	}
	if cfg.MaxLeverage > 0 {
		params.MaxLeverage = cfg.MaxLeverage
	}
	if cfg.PositionSizePercent > 0 {
		params.SizingFactor = cfg.PositionSizePercent / 100
	}
	if cfg.StopLossPercent > 0 {
		params.StopLossPct = cfg.StopLossPercent / 100
	}

	conditions := core.NewDefaultConditions(cfg.Latitude, cfg.Longitude)
	data := exchange.NewBinance(cfg.Symbols)

	var wg sync.WaitGroup
	failed := false
	var failedMu sync.Mutex

	for _, symbol := range cfg.Symbols {
		trader := profile.NewFromParams(params, factors,
			rand.New(rand.NewSource(time.Now().UnixNano())))

		name := *botName + ":" + symbol
		state := trader.InitState(name, cfg.ExchangeID, symbol, cfg.InitialCapital)

		// Paper execution over live market data; real order routing is a
		// separate deployment concern
		ex := exchange.NewPaper(data, cfg.InitialCapital)

		cyc := core.New(core.Config{
			Name:        name,
			Symbol:      symbol,
			CallTimeout: cfg.CallTimeout,
		}, ex, stateStore, trader, factors, state, conditions, nil)
		if journal != nil {
			cyc.SetJournal(journal)
		}
		if notifier != nil {
			cyc.SetNotifier(notifier)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := cyc.Run(ctx, time.Duration(*interval)*time.Second); err != nil {
				log.Error().Err(err).Str("trader", name).Msg("Trader stopped with error")
				failedMu.Lock()
				failed = true
				failedMu.Unlock()
				cancel()
			}
		}()
	}

	wg.Wait()
	log.Info().Msg("Omegabot stopped")

	if failed {
		return 1
	}
	return 0
}
