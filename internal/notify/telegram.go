// Package notify announces open/closed changes to a Telegram chat.
package notify

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"kiosk/internal/metrics"
	"kiosk/internal/status"
)

// Sender is the part of tgbotapi.BotAPI the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier posts a message for every status transition.
type Notifier struct {
	sender    Sender
	chatID    int64
	storeName string
	limiter   *rate.Limiter
	logger    zerolog.Logger
}

// NewBot connects to the Telegram API with token.
func NewBot(token string) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return bot, nil
}

// NewNotifier allows at most perMinute messages per minute (burst 1).
func NewNotifier(sender Sender, chatID int64, storeName string, perMinute int, logger zerolog.Logger) *Notifier {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &Notifier{
		sender:    sender,
		chatID:    chatID,
		storeName: storeName,
		limiter:   rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
		logger:    logger.With().Str("component", "notifier").Logger(),
	}
}

// Message formats the announcement for snap.
func (n *Notifier) Message(snap status.Snapshot) string {
	return fmt.Sprintf("%s: %s", n.storeName, snap.Text)
}

// HandleSnapshot is a status.Subscriber. Snapshots without a transition are ignored.
func (n *Notifier) HandleSnapshot(_ context.Context, snap status.Snapshot) {
	if !snap.Transition {
		return
	}
	if !n.limiter.Allow() {
		n.logger.Warn().Bool("open", snap.Open).Msg("announcement dropped by rate limit")
		metrics.IncNotification("rate_limited")
		return
	}

	msg := tgbotapi.NewMessage(n.chatID, n.Message(snap))
	msg.DisableWebPagePreview = true
	if _, err := n.sender.Send(msg); err != nil {
		n.logger.Error().Err(err).Int64("chat_id", n.chatID).Msg("failed to send announcement")
		metrics.IncNotification("error")
		return
	}
	metrics.IncNotification("sent")
	n.logger.Info().Bool("open", snap.Open).Msg("announcement sent")
}
