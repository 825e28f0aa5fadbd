package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleCommand(userID, chatID int64, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())

	switch msg.Command() {
	case "start":
		b.reply(chatID, b.session.HandleStart(userID, chatID))
	case "check":
		b.reply(chatID, b.session.HandleCheck(userID, chatID, args))
	case "unlink":
		b.reply(chatID, b.session.HandleUnlink(userID, chatID))
	case "online":
		b.reply(chatID, b.session.HandleOnline(userID, chatID))
	case "tp":
		b.reply(chatID, b.session.HandleTeleport(userID, chatID, args))
	case "gamemode":
		b.reply(chatID, b.session.HandleGameMode(userID, chatID, args))
	case "help":
		b.reply(chatID, b.session.HandleHelp(userID, chatID))

	case "cmd":
		b.reply(chatID, b.session.HandleRawCommand(userID, chatID, msg.CommandArguments()))
	case "reloadcmds":
		b.reply(chatID, b.session.HandleReloadCommands(userID, chatID))
	case "export":
		b.handleExport(userID, chatID)

	default:
		b.reply(chatID, b.session.HandleHelp(userID, chatID))
	}
}

func (b *Bot) handleExport(userID, chatID int64) {
	if !b.gate.CanAdminister(userID, chatID) {
		b.SendText(chatID, "Not allowed.")
		return
	}

	data, err := b.directory.UsersWorkbook()
	if err != nil {
		b.logger.Error("users export: %s", err.Error())
		b.SendText(chatID, "Export failed.")
		return
	}

	file := tgbotapi.FileBytes{Name: "users.xlsx", Bytes: data}
	if _, err := b.bot.Send(tgbotapi.NewDocument(chatID, file)); err != nil {
		b.logger.Warn("document send failed: %s", err.Error())
	}
}
