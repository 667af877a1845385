package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/avrudenko/lingvobot/internal/game"
	"github.com/avrudenko/lingvobot/internal/lang"
	apperrors "github.com/avrudenko/lingvobot/pkg/errors"
	"github.com/avrudenko/lingvobot/pkg/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	data := query.Data
	b.answerCallbackQuery(query.ID)

	switch {
	case strings.HasPrefix(data, "lang_"):
		b.handleLanguageCallback(query)
	case strings.HasPrefix(data, "trivia_"):
		b.handleTriviaCallback(query)
	default:
		logger.Warn("Unknown callback data", "data", data)
	}
}

func (b *Bot) handleLanguageCallback(query *tgbotapi.CallbackQuery) {
	userID := query.From.ID
	code := strings.TrimPrefix(query.Data, "lang_")

	if lang.NameForCodeLookup(code) == "unknown" {
		logger.Warn("Language callback with unknown code", "user_id", userID, "code", code)
		return
	}

	if err := b.prefs.Set(userID, code); err != nil {
		logger.Error("Failed to save language preference", "user_id", userID, "error", err)
		b.editMessage(query.Message.Chat.ID, query.Message.MessageID,
			"Не удалось сохранить язык. Пожалуйста, попробуйте снова.", nil)
		return
	}
	logger.Info("User set language via button", "user_id", userID, "language", code)

	b.editMessage(query.Message.Chat.ID, query.Message.MessageID, languageSetMessage(code), nil)
}

// handleTriviaCommand shows the category picker that starts a game.
func (b *Bot) handleTriviaCommand(userID int64) {
	logger.Info("User started trivia game", "user_id", userID)

	code, ok := b.prefs.Get(userID)
	if !ok {
		code = lang.DefaultCode
	}

	// A game in progress is abandoned; the category picker starts over.
	if _, err := b.engine.CurrentQuestion(userID); err == nil {
		b.sendMessage(userID, MsgActiveGameReplaced, nil)
		b.engine.Abandon(userID)
	}

	kb := CategoryKeyboard()
	b.sendMarkdown(userID, fmt.Sprintf(
		"🎮 *Игра в викторину (%s)*\n\n"+
			"Выберите категорию вопросов:\n"+
			"_Вы получите 10 вопросов из выбранной категории_",
		lang.NameFor(code)), kb)
}

func (b *Bot) handleTriviaCallback(query *tgbotapi.CallbackQuery) {
	data := strings.TrimPrefix(query.Data, "trivia_")

	switch {
	case strings.HasPrefix(data, "category_"):
		b.handleCategorySelection(query, strings.TrimPrefix(data, "category_"))
	case strings.HasPrefix(data, "answer_"):
		b.handleAnswer(query, strings.TrimPrefix(data, "answer_"))
	default:
		logger.Warn("Unknown trivia callback", "data", query.Data)
	}
}

func (b *Bot) handleCategorySelection(query *tgbotapi.CallbackQuery, arg string) {
	userID := query.From.ID
	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID

	categoryID, err := strconv.Atoi(arg)
	if err != nil {
		logger.Warn("Malformed category callback", "user_id", userID, "arg", arg)
		return
	}
	categoryName, ok := CategoryNames[categoryID]
	if !ok {
		logger.Warn("Unknown trivia category", "user_id", userID, "category_id", categoryID)
		return
	}

	code, hasPref := b.prefs.Get(userID)
	if !hasPref {
		code = lang.DefaultCode
	}
	languageName := lang.NameFor(code)

	b.editMessage(chatID, messageID, fmt.Sprintf(
		"🎮 *Запуск игры в викторину*\n\n"+
			"Категория: *%s*\n"+
			"Язык: %s\n\n"+
			"Загружаем 10 вопросов...\n"+
			"_Это может занять немного времени..._",
		categoryName, languageName), nil)

	session, err := b.engine.Begin(context.Background(), userID, categoryID, categoryName)
	if err != nil {
		logger.Warn("Failed to start trivia game", "user_id", userID, "error", err)
		b.editMessage(chatID, messageID, fmt.Sprintf(
			"❌ Не удалось начать игру в викторину:\n%s\n\n"+
				"Пожалуйста, попробуйте снова с помощью /trivia",
			userFacingGameError(err)), nil)
		return
	}

	b.editMessage(chatID, messageID, fmt.Sprintf(
		"🎮 *Игра в викторину началась!*\n\n"+
			"Категория: *%s*\n"+
			"Язык: %s\n\n"+
			"Ответьте на %d вопросов.\n"+
			"Вы получите мгновенную обратную связь после каждого ответа.\n\n"+
			"Давайте начнем!",
		categoryName, languageName, len(session.Questions)), nil)

	b.sendCurrentQuestion(userID)
}

// sendCurrentQuestion renders the question the engine is waiting on.
func (b *Bot) sendCurrentQuestion(userID int64) {
	question, score, total, err := b.engine.Progress(userID)
	if err != nil {
		logger.Warn("No question to send", "user_id", userID, "error", err)
		return
	}

	number := question.Index + 1
	var text string
	if number > 1 {
		text = fmt.Sprintf("*Вопрос %d/%d*\n\n%s\n\n_Текущий счет: %d/%d_",
			number, total, question.Prompt, score, number-1)
	} else {
		text = fmt.Sprintf("*Вопрос %d/%d*\n\n%s", number, total, question.Prompt)
	}

	b.sendMarkdown(userID, text, AnswerKeyboard(question))
}

func (b *Bot) handleAnswer(query *tgbotapi.CallbackQuery, arg string) {
	userID := query.From.ID
	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID

	parts := strings.Split(arg, "_")
	if len(parts) != 2 {
		logger.Warn("Malformed answer callback", "user_id", userID, "arg", arg)
		return
	}
	questionIndex, err1 := strconv.Atoi(parts[0])
	answerIndex, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		logger.Warn("Malformed answer callback", "user_id", userID, "arg", arg)
		return
	}

	result, err := b.engine.SubmitAnswer(userID, questionIndex, answerIndex)
	switch {
	case errors.Is(err, game.ErrNoSession):
		b.editMessage(chatID, messageID, MsgGameExpired, nil)
		return
	case errors.Is(err, game.ErrStaleAnswer):
		b.editMessage(chatID, messageID, MsgAlreadyAnswered, nil)
		return
	case err != nil:
		logger.Error("Answer submission failed", "user_id", userID, "error", err)
		return
	}

	number := questionIndex + 1
	var feedback string
	if result.Correct {
		feedback = fmt.Sprintf("✅ *Правильно!*\n\nСчет: %d/%d", result.Score, number)
	} else {
		feedback = fmt.Sprintf("❌ *Неправильно! Правильный ответ: %s.*\n\nСчет: %d/%d",
			result.CorrectText, result.Score, number)
	}
	b.editMessage(chatID, messageID, feedback, nil)

	logger.Info("User answered trivia question",
		"user_id", userID, "question", number, "correct", result.Correct)

	// The pause runs on its own timer so shared workers never stall.
	expectedIndex := questionIndex + 1
	time.AfterFunc(b.config.QuestionPause(), func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic in question timer", "error", r)
			}
		}()

		if result.Finished {
			b.sendGameOver(userID, result)
			return
		}

		// A new game may have started during the pause; only continue the
		// game this answer belonged to.
		question, _, _, err := b.engine.Progress(userID)
		if err != nil || question.Index != expectedIndex {
			return
		}
		b.sendCurrentQuestion(userID)
	})
}

func (b *Bot) sendGameOver(userID int64, result game.Result) {
	message := tierMessages[int(result.Tier)]

	b.sendMarkdown(userID, fmt.Sprintf(
		"🎮 *Игра окончена!*\n\n"+
			"*Итоговый счет: %d из %d*\n"+
			"(%.0f%%)\n\n"+
			"%s\n\n"+
			"Хотите сыграть снова? Используйте /trivia для начала новой игры с другими вопросами!",
		result.Score, result.Total, result.Percentage, message), nil)
}

// userFacingGameError unwraps the structured failure reason for display.
func userFacingGameError(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "неизвестная ошибка, попробуйте позже"
}
