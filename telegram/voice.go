package telegram

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avrudenko/lingvobot/internal/config"
	"github.com/avrudenko/lingvobot/internal/groq"
	"github.com/avrudenko/lingvobot/internal/lang"
	"github.com/avrudenko/lingvobot/internal/retry"
	"github.com/avrudenko/lingvobot/internal/store"
	"github.com/avrudenko/lingvobot/internal/translate"
	"github.com/avrudenko/lingvobot/pkg/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxVoiceFileSize matches Telegram's own cap for voice notes.
const maxVoiceFileSize = 20 * 1024 * 1024

// VoiceHandler transcribes voice notes and, when the user has a language
// preference, translates the transcript.
type VoiceHandler struct {
	groq       *groq.Client
	translator *translate.Translator
	prefs      store.Preferences
	policy     retry.Policy
	httpClient *http.Client

	downloadTimeout      time.Duration
	transcriptionTimeout time.Duration
}

func NewVoiceHandler(cfg *config.Config, groqClient *groq.Client, translator *translate.Translator, prefs store.Preferences, policy retry.Policy) *VoiceHandler {
	return &VoiceHandler{
		groq:                 groqClient,
		translator:           translator,
		prefs:                prefs,
		policy:               policy,
		httpClient:           http.DefaultClient,
		downloadTimeout:      cfg.FileDownloadTimeout(),
		transcriptionTimeout: cfg.TranscriptionTimeout(),
	}
}

func (v *VoiceHandler) Handle(b *Bot, message *tgbotapi.Message) {
	userID := message.From.ID
	voice := message.Voice

	logger.Info("User sent voice message",
		"user_id", userID, "duration_s", voice.Duration, "size_bytes", voice.FileSize)

	if voice.Duration < 1 {
		b.sendMessage(userID, MsgVoiceTooShort, nil)
		return
	}

	if voice.FileSize > maxVoiceFileSize {
		b.sendMessage(userID, fmt.Sprintf(
			"Голосовое сообщение слишком большое (%.1fМБ).\nМаксимальный поддерживаемый размер: %dМБ.",
			float64(voice.FileSize)/(1024*1024), maxVoiceFileSize/(1024*1024)), nil)
		return
	}

	b.sendTyping(userID)

	transcript, err := v.transcribe(b, voice.FileID)
	if err != nil {
		logger.Warn("Transcription failed", "user_id", userID, "error", err)
		b.sendMessage(userID, "Ошибка расшифровки: "+translationErrorReason(err), nil)
		return
	}
	logger.Info("Transcription successful", "user_id", userID)

	code, ok := v.prefs.Get(userID)
	if !ok {
		b.sendMessage(userID, fmt.Sprintf(
			"Расшифровка:\n%s\n\nЧтобы получать переводы, установите язык с помощью /setlang <язык>",
			transcript), nil)
		return
	}

	b.sendTyping(userID)

	translated, err := v.translator.Translate(context.Background(), transcript, code)
	if err != nil {
		logger.Warn("Translation of transcript failed", "user_id", userID, "error", err)
		b.sendMessage(userID, fmt.Sprintf(
			"Расшифровка:\n%s\n\nОшибка перевода: %s",
			transcript, translationErrorReason(err)), nil)
		return
	}

	b.sendMessage(userID, fmt.Sprintf(
		"Расшифровка:\n%s\n\nПеревод на %s:\n%s",
		transcript, lang.NameFor(code), translated), nil)
}

// transcribe downloads the voice file once and retries the transcription
// call from the buffered audio. Nothing touches disk.
func (v *VoiceHandler) transcribe(b *Bot, fileID string) (string, error) {
	fileURL, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return "", fmt.Errorf("resolve voice file: %w", err)
	}

	audio, err := v.download(fileURL)
	if err != nil {
		return "", err
	}

	return retry.Do(context.Background(), v.policy, func(ctx context.Context) (string, error) {
		callCtx, cancel := context.WithTimeout(ctx, v.transcriptionTimeout)
		defer cancel()
		return v.groq.Transcribe(callCtx, "voice.ogg", bytes.NewReader(audio))
	})
}

func (v *VoiceHandler) download(fileURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), v.downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build voice download request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download voice file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("voice file download status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(io.LimitReader(resp.Body, maxVoiceFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read voice file: %w", err)
	}
	if len(audio) > maxVoiceFileSize {
		return nil, fmt.Errorf("voice file exceeds %dMB", maxVoiceFileSize/(1024*1024))
	}
	return audio, nil
}
