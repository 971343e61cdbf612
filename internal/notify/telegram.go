package notify

import (
	"context"
	"net/http"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/journal-timeline/internal/domain"
	apperrors "github.com/vladimiradmaev/journal-timeline/internal/errors"
	"github.com/vladimiradmaev/journal-timeline/internal/logger"
)

// maxMessageLength is the Telegram limit for a single text message
const maxMessageLength = 4096

// TelegramNotifier posts run summaries to a Telegram chat
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier authorizes the bot token against the Telegram API
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	return NewTelegramNotifierWithEndpoint(token, tgbotapi.APIEndpoint, chatID, &http.Client{})
}

// NewTelegramNotifierWithEndpoint is NewTelegramNotifier against a custom API endpoint
func NewTelegramNotifierWithEndpoint(token, endpoint string, chatID int64, client *http.Client) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, apperrors.NewExternalAPIError(err, "Telegram")
	}
	logger.Info("Telegram notifier authorized", "account", api.Self.UserName)
	return &TelegramNotifier{api: api, chatID: chatID}, nil
}

// Notify sends text to the configured chat, truncated to one message
func (n *TelegramNotifier) Notify(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(n.chatID, truncate(text, maxMessageLength))
	msg.DisableWebPagePreview = true
	if _, err := n.api.Send(msg); err != nil {
		return apperrors.NewExternalAPIError(err, "Telegram")
	}
	return nil
}

func truncate(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit-1]) + "…"
}

var _ domain.Notifier = (*TelegramNotifier)(nil)
