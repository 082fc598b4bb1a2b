package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"casino/internal/game"
	"casino/internal/session"
)

const (
	CallbackNewSession = "new_session"
	CallbackBetDown    = "bet_down"
	CallbackBetUp      = "bet_up"
	CallbackConfirm    = "confirm"
	CallbackHit        = "hit"
	CallbackStand      = "stand"
	CallbackPlayAgain  = "play_again"
	CallbackStats      = "stats"
)

// TableKeyboard offers exactly the actions the snapshot allows. While the
// table is busy there are no buttons.
func TableKeyboard(s session.Snapshot) tgbotapi.InlineKeyboardMarkup {
	switch {
	case s.Busy:
		return emptyKeyboard()

	case s.GameOver:
		return tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🎰 New game", CallbackNewSession),
				tgbotapi.NewInlineKeyboardButtonData("📊 Stats", CallbackStats),
			),
		)

	case s.State == game.RoundEnd:
		return tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🎰 Start", CallbackNewSession),
			),
		)

	case s.State == game.Betting:
		return tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("➖", CallbackBetDown),
				tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("💰 Deal (%d)", s.Bet), CallbackConfirm),
				tgbotapi.NewInlineKeyboardButtonData("➕", CallbackBetUp),
			),
		)

	case s.CanAct():
		return tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("👊 Hit", CallbackHit),
				tgbotapi.NewInlineKeyboardButtonData("✋ Stand", CallbackStand),
			),
		)

	case s.CanPlayAgain():
		return tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("🔄 Again (%d)", s.Bet), CallbackPlayAgain),
				tgbotapi.NewInlineKeyboardButtonData("📊 Stats", CallbackStats),
			),
		)
	}

	return emptyKeyboard()
}

func emptyKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
}

// keyboardData lists the callback data of every button, row by row.
func keyboardData(kb tgbotapi.InlineKeyboardMarkup) []string {
	var data []string
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			if b.CallbackData != nil {
				data = append(data, *b.CallbackData)
			}
		}
	}
	return data
}
