package telegram

import (
	"craftgate/internal/application"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const maxPlayerButtons = 24

// buildKeyboard renders the declarative keyboard the session service picked.
func buildKeyboard(k application.Keyboard) (tgbotapi.ReplyKeyboardMarkup, bool) {
	switch k.Kind {
	case application.KbMain:
		linkBtn := application.BtnLink
		if k.Linked {
			linkBtn = application.BtnUnlink
		}
		lastRow := []tgbotapi.KeyboardButton{tgbotapi.NewKeyboardButton(linkBtn)}
		if k.ShowAdmin {
			lastRow = append(lastRow, tgbotapi.NewKeyboardButton(application.BtnAdmin))
		}
		return persistent(tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(application.BtnOnline),
				tgbotapi.NewKeyboardButton(application.BtnTeleport),
			),
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(application.BtnMode),
				tgbotapi.NewKeyboardButton(application.BtnHelp),
			),
			lastRow,
		)), true

	case application.KbAdmin:
		return persistent(tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(application.BtnOnline),
				tgbotapi.NewKeyboardButton(application.BtnUsers),
			),
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(application.BtnBackup),
			),
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(application.BtnStop),
				tgbotapi.NewKeyboardButton(application.BtnStart),
				tgbotapi.NewKeyboardButton(application.BtnRestart),
			),
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(application.BtnLogs),
				tgbotapi.NewKeyboardButton(application.BtnBack),
			),
		)), true

	case application.KbTeleport:
		var rows [][]tgbotapi.KeyboardButton
		var row []tgbotapi.KeyboardButton
		players := k.Players
		if len(players) > maxPlayerButtons {
			players = players[:maxPlayerButtons]
		}
		for _, p := range players {
			row = append(row, tgbotapi.NewKeyboardButton(p))
			if len(row) == 2 {
				rows = append(rows, row)
				row = nil
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(application.BtnCoords),
			tgbotapi.NewKeyboardButton(application.BtnBack),
		))
		return persistent(tgbotapi.NewReplyKeyboard(rows...)), true

	case application.KbGameMode:
		return persistent(tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(application.BtnSurvival),
				tgbotapi.NewKeyboardButton(application.BtnCreative),
			),
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(application.BtnAdventure),
				tgbotapi.NewKeyboardButton(application.BtnSpectator),
			),
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(application.BtnBack),
			),
		)), true

	case application.KbBack:
		return persistent(tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(application.BtnBack),
			),
		)), true

	default:
		return tgbotapi.ReplyKeyboardMarkup{}, false
	}
}

func persistent(markup tgbotapi.ReplyKeyboardMarkup) tgbotapi.ReplyKeyboardMarkup {
	markup.ResizeKeyboard = true
	return markup
}
