package telegram

import (
	"fmt"

	"craftgate/internal/application"
	"craftgate/internal/repository"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Bot struct {
	bot       *tgbotapi.BotAPI
	session   application.SessionService
	directory application.DirectoryService
	gate      *application.AdminGate
	limiter   *application.RateLimiter
	users     repository.Users
	logger    application.Logger
}

func NewBot(token string, services *application.Service, gate *application.AdminGate,
	limiter *application.RateLimiter, users repository.Users, logger application.Logger) (*Bot, error) {

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	logger.Info("Telegram bot authorized on account %s", bot.Self.UserName)

	return &Bot{
		bot:       bot,
		session:   services.Session,
		directory: services.Directory,
		gate:      gate,
		limiter:   limiter,
		users:     users,
		logger:    logger,
	}, nil
}

func (b *Bot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil || update.Message.Text == "" || update.Message.From == nil {
			continue
		}
		// One task per event; every shared store below is synchronized.
		go b.handleMessage(update.Message)
	}
}

func (b *Bot) Stop() {
	b.bot.StopReceivingUpdates()
}

// SendText pushes an out-of-band message, used for deferred restart results.
func (b *Bot) SendText(chatID int64, text string) {
	if text == "" {
		return
	}
	if _, err := b.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Warn("send failed: %s", err.Error())
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	user := msg.From
	chatID := msg.Chat.ID

	if err := b.users.Touch(user.ID, user.UserName, user.FirstName, user.LastName); err != nil {
		b.logger.Warn("user directory save: %s", err.Error())
	}

	if !b.limiter.Allow(user.ID) {
		b.SendText(chatID, "Too fast, wait a moment.")
		return
	}

	if msg.IsCommand() {
		b.handleCommand(user.ID, chatID, msg)
		return
	}
	b.reply(chatID, b.session.HandleText(user.ID, chatID, msg.Text))
}

func (b *Bot) reply(chatID int64, r application.Reply) {
	if r.Text == "" {
		return
	}
	msg := tgbotapi.NewMessage(chatID, r.Text)
	if markup, ok := buildKeyboard(r.Keyboard); ok {
		msg.ReplyMarkup = markup
	}
	if _, err := b.bot.Send(msg); err != nil {
		b.logger.Warn("send failed: %s", err.Error())
	}
}
