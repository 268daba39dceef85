package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

// ═══════════════════════════════════════════════════════════════════════════════
// TELEGRAM NOTIFIER - Trade alerts
// ═══════════════════════════════════════════════════════════════════════════════

// Notifier pushes trade events to a Telegram chat
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewNotifier connects the Telegram bot API. Both the token and a chat id
// are required.
func NewNotifier(token string, chatID int64) (*Notifier, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token not set")
	}
	if chatID == 0 {
		return nil, fmt.Errorf("telegram chat id not set")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram connect: %w", err)
	}

	log.Info().Str("bot", api.Self.UserName).Msg("📱 Telegram notifier ready")
	return &Notifier{api: api, chatID: chatID}, nil
}

// NotifyTrade sends one trade event
func (n *Notifier) NotifyTrade(action, symbol, side string, price, size float64) {
	emoji := "🎯"
	if action == "CLOSE" {
		emoji = "📊"
	}

	text := fmt.Sprintf("%s *%s* %s\nSide: %s\nPrice: %.2f\nSize: %.6f",
		emoji, action, symbol, side, price, size)

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.api.Send(msg); err != nil {
		log.Error().Err(err).Msg("Telegram send failed")
	}
}
