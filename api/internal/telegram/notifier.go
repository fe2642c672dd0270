package telegram

import (
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"homework-bot/api/internal/logging"
)

// Sender — то, что нужно от бота; *tgbotapi.BotAPI подходит как есть.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

var _ Sender = (*tgbotapi.BotAPI)(nil)

// Notifier шлёт текст в один заранее заданный чат.
type Notifier struct {
	Bot    Sender
	ChatID int64
	Log    *slog.Logger
}

func NewNotifier(bot Sender, chatID int64, log *slog.Logger) *Notifier {
	if log == nil {
		log = logging.Discard()
	}
	return &Notifier{Bot: bot, ChatID: chatID, Log: log}
}

// Send не ретраит: ошибку доставки получает вызывающий.
func (n *Notifier) Send(text string) error {
	n.Log.Info("message send", "chat_id", n.ChatID, "text", text)
	_, err := n.Bot.Send(tgbotapi.NewMessage(n.ChatID, text))
	return err
}
