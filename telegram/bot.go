// Package telegram is the bot's transport layer: it receives updates,
// routes commands and callbacks, and renders replies.
package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avrudenko/lingvobot/internal/config"
	"github.com/avrudenko/lingvobot/internal/game"
	"github.com/avrudenko/lingvobot/internal/lang"
	"github.com/avrudenko/lingvobot/internal/middleware"
	"github.com/avrudenko/lingvobot/internal/store"
	"github.com/avrudenko/lingvobot/internal/translate"
	"github.com/avrudenko/lingvobot/pkg/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const numWorkers = 10

type Bot struct {
	api        *tgbotapi.BotAPI
	config     *config.Config
	prefs      store.Preferences
	translator *translate.Translator
	voice      *VoiceHandler
	engine     *game.Engine
	limiter    *middleware.RateLimiter

	// Worker pool for parallel processing; updates for one user always
	// land on the same worker so they are handled in order.
	workerChans []chan tgbotapi.Update
}

func InitBot(cfg *config.Config, prefs store.Preferences, translator *translate.Translator, voice *VoiceHandler, engine *game.Engine) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	if cfg.AppEnv == "development" {
		api.Debug = true
	}

	logger.Info("Authorized on account", "username", api.Self.UserName)

	bot := &Bot{
		api:         api,
		config:      cfg,
		prefs:       prefs,
		translator:  translator,
		voice:       voice,
		engine:      engine,
		limiter:     middleware.NewRateLimiter(cfg.RateLimitPerUser, time.Minute),
		workerChans: make([]chan tgbotapi.Update, numWorkers),
	}

	for i := 0; i < numWorkers; i++ {
		bot.workerChans[i] = make(chan tgbotapi.Update, 100)
		go bot.startWorker(bot.workerChans[i])
	}

	go bot.startUpdateListener()

	return bot, nil
}

func (b *Bot) startUpdateListener() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	for {
		logger.Info("Starting update listener...")
		updates := b.api.GetUpdatesChan(u)

		for update := range updates {
			var userID int64
			if update.Message != nil {
				userID = update.Message.From.ID
			} else if update.CallbackQuery != nil {
				userID = update.CallbackQuery.From.ID
			}

			if userID != 0 {
				// Hashed dispatch to workers to ensure per-user ordered processing
				workerIdx := userID % int64(len(b.workerChans))
				if workerIdx < 0 {
					workerIdx = -workerIdx
				}
				b.workerChans[workerIdx] <- update
			} else {
				go b.handleUpdate(update)
			}
		}

		logger.Warn("Update channel closed. Restarting in 5 seconds...")
		time.Sleep(5 * time.Second)
	}
}

func (b *Bot) startWorker(ch chan tgbotapi.Update) {
	for update := range ch {
		b.handleUpdate(update)
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic in handleUpdate", "error", r)
		}
	}()

	if update.Message != nil {
		b.handleMessage(update.Message)
	} else if update.CallbackQuery != nil {
		b.handleCallbackQuery(update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	userID := message.From.ID

	if !b.limiter.Allow(userID) {
		logger.Warn("Rate limit exceeded", "user_id", userID)
		b.sendMessage(userID, MsgRateLimited, nil)
		return
	}

	if message.IsCommand() {
		b.handleCommand(message)
		return
	}

	if message.Voice != nil {
		b.voice.Handle(b, message)
		return
	}

	if message.Text != "" {
		b.handleTextTranslation(message)
	}
}

func (b *Bot) handleCommand(message *tgbotapi.Message) {
	userID := message.From.ID

	switch message.Command() {
	case "start":
		logger.Info("User started the bot", "user_id", userID)
		b.sendMessage(userID, fmt.Sprintf(MsgWelcome, message.From.FirstName), nil)

	case "help":
		logger.Info("User requested help", "user_id", userID)
		b.sendMessage(userID, MsgHelp, nil)

	case "setlang":
		b.handleSetLang(message)

	case "mylang":
		b.handleMyLang(userID)

	case "trivia":
		b.handleTriviaCommand(userID)

	default:
		logger.Debug("Unknown command", "user_id", userID, "command", message.Command())
	}
}

func (b *Bot) handleSetLang(message *tgbotapi.Message) {
	userID := message.From.ID
	arg := strings.TrimSpace(message.CommandArguments())

	if arg == "" {
		b.sendMarkdown(userID, MsgChooseLanguage, LanguageKeyboard())
		return
	}

	if strings.EqualFold(arg, "help") {
		var sb strings.Builder
		sb.WriteString("Поддерживаемые языки:\n\n")
		for _, name := range lang.SupportedNames() {
			sb.WriteString("- " + name + "\n")
		}
		sb.WriteString("\nИспользование: /setlang <язык>\nПример: /setlang french")
		b.sendMessage(userID, sb.String(), nil)
		return
	}

	code, err := lang.Validate(arg)
	if err != nil {
		logger.Info("User attempted invalid language", "user_id", userID)
		b.sendMessage(userID, err.Error(), nil)
		return
	}

	if err := b.prefs.Set(userID, code); err != nil {
		logger.Error("Failed to save language preference", "user_id", userID, "error", err)
		b.sendMessage(userID, "Не удалось сохранить язык. Пожалуйста, попробуйте снова.", nil)
		return
	}
	logger.Info("User set language", "user_id", userID, "language", code)

	b.sendMessage(userID, fmt.Sprintf(
		"Ваш предпочитаемый язык установлен на %s (%s).\n\n"+
			"Теперь отправьте мне любое текстовое сообщение, и я переведу его на выбранный язык!",
		capitalize(strings.ToLower(arg)), code), nil)
}

func (b *Bot) handleMyLang(userID int64) {
	code, ok := b.prefs.Get(userID)
	if !ok {
		logger.Info("User checked language but none is set", "user_id", userID)
		b.sendMarkdown(userID, MsgNoLanguageYet, LanguageKeyboard())
		return
	}

	logger.Info("User checked their language", "user_id", userID, "language", code)
	b.sendMessage(userID, fmt.Sprintf(
		"Ваш текущий выбранный язык: %s (%s)\n\n"+
			"Используйте /setlang <язык> для изменения.",
		capitalize(lang.NameForCodeLookup(code)), code), nil)
}

func (b *Bot) handleTextTranslation(message *tgbotapi.Message) {
	userID := message.From.ID
	logger.Info("User sent text message for translation", "user_id", userID)

	code, ok := b.prefs.Get(userID)
	if !ok {
		b.sendMessage(userID, MsgSetLanguageFirst, nil)
		return
	}
	languageName := lang.NameFor(code)

	translated, err := b.translator.Translate(context.Background(), message.Text, code)
	if err != nil {
		logger.Warn("Translation failed", "user_id", userID, "error", err)
		b.sendMessage(userID, fmt.Sprintf(
			"Исходный текст:\n%s\n\nОшибка перевода: %s",
			message.Text, translationErrorReason(err)), nil)
		return
	}

	logger.Info("Sent translation", "user_id", userID, "language", code)
	b.sendMessage(userID, fmt.Sprintf(
		"Исходный текст:\n%s\n\nПеревод на %s:\n%s",
		message.Text, languageName, translated), nil)
}

// sendMessage sends plain text, retrying briefly on network failures.
// Returns the sent message id, 0 on failure.
func (b *Bot) sendMessage(chatID int64, text string, keyboard interface{}) int {
	msg := tgbotapi.NewMessage(chatID, text)
	b.applyKeyboard(&msg, keyboard)
	return b.send(msg)
}

// sendMarkdown is sendMessage with Markdown parse mode for the few
// messages that use emphasis.
func (b *Bot) sendMarkdown(chatID int64, text string, keyboard interface{}) int {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	b.applyKeyboard(&msg, keyboard)
	return b.send(msg)
}

func (b *Bot) applyKeyboard(msg *tgbotapi.MessageConfig, keyboard interface{}) {
	switch kb := keyboard.(type) {
	case tgbotapi.ReplyKeyboardMarkup:
		msg.ReplyMarkup = kb
	case tgbotapi.InlineKeyboardMarkup:
		msg.ReplyMarkup = kb
	case tgbotapi.ReplyKeyboardRemove:
		msg.ReplyMarkup = kb
	}
}

func (b *Bot) send(msg tgbotapi.MessageConfig) int {
	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		sentMsg, err := b.api.Send(msg)
		if err != nil {
			logger.Error("Failed to send message", "error", err, "chat_id", msg.ChatID, "attempt", i+1)

			if strings.Contains(err.Error(), "connection reset") ||
				strings.Contains(err.Error(), "timeout") ||
				strings.Contains(err.Error(), "network is unreachable") {
				time.Sleep(time.Duration(i+1) * time.Second)
				continue
			}
			return 0
		}
		return sentMsg.MessageID
	}
	return 0
}

// editMessage rewrites an inline-keyboard message in place, dropping its
// keyboard unless a new one is given.
func (b *Bot) editMessage(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewEditMessageText(chatID, messageID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboard

	if _, err := b.api.Send(msg); err != nil {
		logger.Error("Failed to edit message", "error", err, "chat_id", chatID, "message_id", messageID)
	}
}

func (b *Bot) answerCallbackQuery(queryID string) {
	callback := tgbotapi.NewCallback(queryID, "")
	if _, err := b.api.Request(callback); err != nil {
		logger.Error("Failed to answer callback query", "error", err, "query_id", queryID)
	}
}

func (b *Bot) sendTyping(chatID int64) {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	if _, err := b.api.Request(action); err != nil {
		logger.Debug("Failed to send typing action", "error", err)
	}
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
	logger.Info("Bot stopped receiving updates")
}
