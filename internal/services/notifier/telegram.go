package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/Houeta/price-tracker/internal/models"
	"gopkg.in/telebot.v4"
)

// TelegramAPI is the part of the telebot API used to deliver alerts.
type TelegramAPI interface {
	// Send delivers what to the recipient.
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// TelegramSender posts alerts into a single chat.
type TelegramSender struct {
	api    TelegramAPI
	chatID telebot.ChatID
}

// NewTelegramSender authorizes the bot token and binds the sender to cfg.ChatID.
func NewTelegramSender(cfg models.Telegram) (*TelegramSender, error) {
	bot, err := telebot.NewBot(telebot.Settings{Token: cfg.Token})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}

	return NewTelegramSenderWithAPI(bot, cfg.ChatID), nil
}

// NewTelegramSenderWithAPI creates a sender over an existing API client.
func NewTelegramSenderWithAPI(api TelegramAPI, chatID int64) *TelegramSender {
	return &TelegramSender{api: api, chatID: telebot.ChatID(chatID)}
}

func (t *TelegramSender) Name() string {
	return "telegram"
}

// Send posts the subject in bold followed by the body.
func (t *TelegramSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	text := "<b>" + escapeHTML(msg.Subject) + "</b>\n\n" + escapeHTML(msg.Body)
	if _, err := t.api.Send(t.chatID, text, &telebot.SendOptions{ParseMode: telebot.ModeHTML}); err != nil {
		return fmt.Errorf("failed to send telegram message to chat %d: %w", int64(t.chatID), err)
	}

	return nil
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
