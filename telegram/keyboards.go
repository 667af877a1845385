package telegram

import (
	"fmt"

	"github.com/avrudenko/lingvobot/internal/lang"
	"github.com/avrudenko/lingvobot/internal/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// answerButtonMaxLen keeps long multiple-choice answers readable on mobile.
const answerButtonMaxLen = 50

// LanguageKeyboard creates the inline language picker, two buttons per row
func LanguageKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for _, pair := range lang.SupportedCodes() {
		name, code := pair[0], pair[1]
		flag, ok := flagEmojis[name]
		if !ok {
			flag = "🌐"
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			flag+" "+capitalize(name),
			"lang_"+code,
		))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// CategoryKeyboard creates the trivia category picker, one button per row
// so long Russian labels stay readable
func CategoryKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	for _, id := range sortedCategoryIDs() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				CategoryNames[id],
				fmt.Sprintf("trivia_category_%d", id),
			),
		))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// AnswerKeyboard creates the answer buttons for one question. Boolean
// questions get a True/False row; multiple choice gets lettered buttons,
// two per row. Callback data carries the question index so stale taps can
// be rejected.
func AnswerKeyboard(q *models.Question) tgbotapi.InlineKeyboardMarkup {
	if q.Kind == models.KindBoolean {
		return tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✓ Правда", fmt.Sprintf("trivia_answer_%d_1", q.Index)),
				tgbotapi.NewInlineKeyboardButtonData("✗ Ложь", fmt.Sprintf("trivia_answer_%d_0", q.Index)),
			),
		)
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for i, option := range q.Options {
		letter := string(rune('A' + i))
		text := letter + ". " + option
		if runes := []rune(text); len(runes) > answerButtonMaxLen {
			text = string(runes[:answerButtonMaxLen-3]) + "..."
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			text,
			fmt.Sprintf("trivia_answer_%d_%d", q.Index, i),
		))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
