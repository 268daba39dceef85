package storage

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ═══════════════════════════════════════════════════════════════════════════════
// JOURNAL - Trade and cycle persistence
// ═══════════════════════════════════════════════════════════════════════════════
//
// SQLite file by default, Postgres when DATABASE_URL points at one.
// The journal is append-only; the state store holds the live state.
//
// ═══════════════════════════════════════════════════════════════════════════════

// TradeRow is one executed trade
type TradeRow struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Trader    string `gorm:"index"`
	Symbol    string `gorm:"index"`
	Side      string
	Action    string // OPEN, CLOSE
	Price     decimal.Decimal `gorm:"type:decimal(18,8)"`
	Size      decimal.Decimal `gorm:"type:decimal(18,8)"`
	Leverage  float64
	PnL       decimal.Decimal `gorm:"type:decimal(18,8)"`
	Reason    string
	CreatedAt time.Time
}

// CycleRow is one trading-cycle snapshot, written on errors and closes
type CycleRow struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Trader    string `gorm:"index"`
	Symbol    string
	Price     decimal.Decimal `gorm:"type:decimal(18,8)"`
	Trend     string
	Regime    string
	Emotion   string
	LastError string
	CreatedAt time.Time
}

// Journal wraps the gorm connection
type Journal struct {
	db *gorm.DB
}

// Open connects to the journal database. An empty databaseURL opens
// (or creates) the SQLite file at sqlitePath.
func Open(databaseURL, sqlitePath string) (*Journal, error) {
	var dialector gorm.Dialector
	if databaseURL != "" {
		dialector = postgres.Open(databaseURL)
	} else {
		if sqlitePath == "" {
			sqlitePath = "omegabot.db"
		}
		dialector = sqlite.Open(sqlitePath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	if err := db.AutoMigrate(&TradeRow{}, &CycleRow{}); err != nil {
		return nil, fmt.Errorf("migrate journal: %w", err)
	}

	log.Info().Msg("💾 Trade journal ready")
	return &Journal{db: db}, nil
}

// LogTrade appends one trade row
func (j *Journal) LogTrade(trader, symbol, side, action string, price, size, leverage, pnl float64, reason string) error {
	row := TradeRow{
		Trader:   trader,
		Symbol:   symbol,
		Side:     side,
		Action:   action,
		Price:    decimal.NewFromFloat(price),
		Size:     decimal.NewFromFloat(size),
		Leverage: leverage,
		PnL:      decimal.NewFromFloat(pnl),
		Reason:   reason,
	}
	if err := j.db.Create(&row).Error; err != nil {
		return fmt.Errorf("log trade: %w", err)
	}
	return nil
}

// LogCycle appends one cycle snapshot
func (j *Journal) LogCycle(trader, symbol string, price float64, trend, regime, emotion, lastError string) error {
	row := CycleRow{
		Trader:    trader,
		Symbol:    symbol,
		Price:     decimal.NewFromFloat(price),
		Trend:     trend,
		Regime:    regime,
		Emotion:   emotion,
		LastError: lastError,
	}
	if err := j.db.Create(&row).Error; err != nil {
		return fmt.Errorf("log cycle: %w", err)
	}
	return nil
}

// RecentTrades returns the last n trades for a trader, newest first
func (j *Journal) RecentTrades(trader string, n int) ([]TradeRow, error) {
	var rows []TradeRow
	err := j.db.Where("trader = ?", trader).
		Order("created_at DESC").
		Limit(n).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("recent trades: %w", err)
	}
	return rows, nil
}
