package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pavelsemak/aitrader/models"
)

// Telegram delivers generated signals as chat messages. It implements
// models.Notifier.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger zerolog.Logger
}

// NewTelegram authorizes the bot and binds it to a chat.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}

	return &Telegram{
		bot:    bot,
		chatID: chatID,
		logger: log.With().Str("component", "notifier").Logger(),
	}, nil
}

// Notify sends a human-readable alert for the signal.
func (t *Telegram) Notify(_ context.Context, signal *models.Signal) error {
	msg := tgbotapi.NewMessage(t.chatID, FormatSignal(signal))
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}

	t.logger.Debug().Str("symbol", signal.Symbol).Str("direction", signal.Direction).Msg("alert sent")
	return nil
}

// FormatSignal renders the alert text.
func FormatSignal(s *models.Signal) string {
	arrow := "📈"
	if s.Direction == models.DirectionPut {
		arrow = "📉"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s (%s)\n", arrow, s.Symbol, s.Direction, s.Duration)
	fmt.Fprintf(&b, "Confidence: %.0f%%\n", s.Confidence*100)
	fmt.Fprintf(&b, "Entry: %.5f\n", s.EntryPrice)
	fmt.Fprintf(&b, "Stop loss: %.5f\n", s.StopLoss)
	fmt.Fprintf(&b, "Take profit: %.5f\n", s.TakeProfit)
	fmt.Fprintf(&b, "Time: %s\n", time.UnixMilli(s.Timestamp).UTC().Format("15:04:05 MST"))

	if len(s.Reasoning) > 0 {
		b.WriteString("\nReasons:\n")
		for _, reason := range s.Reasoning {
			fmt.Fprintf(&b, "• %s\n", reason)
		}
	}
	return b.String()
}
