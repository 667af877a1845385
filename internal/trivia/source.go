// Package trivia sources localized questions from the Open Trivia Database.
package trivia

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/avrudenko/lingvobot/internal/lang"
	"github.com/avrudenko/lingvobot/internal/models"
	"github.com/avrudenko/lingvobot/internal/retry"
	"github.com/avrudenko/lingvobot/pkg/errors"
	"github.com/avrudenko/lingvobot/pkg/logger"
	"github.com/microcosm-cc/bluemonday"
)

const defaultBaseURL = "https://opentdb.com/api.php"

// AllCategories is the sentinel meaning "no category filter".
const AllCategories = 0

// HTTPError is a non-200 response from the trivia backend, exposed with
// its status so the retry classifier can act on it.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("trivia API status %d", e.StatusCode)
}

func (e *HTTPError) HTTPStatus() int {
	return e.StatusCode
}

// apiErrors maps OpenTDB response codes to distinct, human-readable
// failure reasons.
var apiErrors = map[int]*errors.AppError{
	1: errors.New(errors.ErrCodeNotFound, "no questions found for this category, try a different one"),
	2: errors.New(errors.ErrCodeValidation, "invalid parameter in trivia request"),
	3: errors.New(errors.ErrCodeBadUpstream, "trivia session token not found"),
	4: errors.New(errors.ErrCodeBadUpstream, "all questions exhausted for this category"),
	5: errors.New(errors.ErrCodeRateLimitExceeded, "trivia database is rate limited, wait a few seconds and try again"),
}

// BatchTranslator is the slice of the translation adapter the source needs.
type BatchTranslator interface {
	TranslateBatch(ctx context.Context, texts []string, targetCode string) ([]string, error)
}

type Source struct {
	baseURL    string
	httpClient *http.Client
	translator BatchTranslator
	policy     retry.Policy
	timeout    time.Duration
	sanitizer  *bluemonday.Policy

	rngMu sync.Mutex
	rng   *rand.Rand
}

type Option func(*Source)

func WithBaseURL(url string) Option {
	return func(s *Source) {
		s.baseURL = url
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(s *Source) {
		s.httpClient = hc
	}
}

// WithRandSource injects the randomness used for answer shuffling, so
// tests can fix a seed.
func WithRandSource(src rand.Source) Option {
	return func(s *Source) {
		s.rng = rand.New(src)
	}
}

func NewSource(translator BatchTranslator, policy retry.Policy, timeout time.Duration, opts ...Option) *Source {
	s := &Source{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
		translator: translator,
		policy:     policy,
		timeout:    timeout,
		sanitizer:  bluemonday.StrictPolicy(),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type rawQuestion struct {
	Type             string   `json:"type"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

type apiResponse struct {
	ResponseCode int           `json:"response_code"`
	Results      []rawQuestion `json:"results"`
}

// Fetch produces exactly count validated Questions in the target language.
// Translation failures degrade to English text; fewer usable questions than
// requested is a structured failure, never a silently short list.
func (s *Source) Fetch(ctx context.Context, count, categoryID int, languageCode string) ([]models.Question, error) {
	raw, err := retry.Do(ctx, s.policy, func(ctx context.Context) ([]rawQuestion, error) {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		return s.fetchRaw(callCtx, count, categoryID)
	})
	if err != nil {
		return nil, err
	}

	decoded := make([]rawQuestion, len(raw))
	for i, q := range raw {
		decoded[i] = rawQuestion{
			Type:             q.Type,
			Question:         s.clean(q.Question),
			CorrectAnswer:    s.clean(q.CorrectAnswer),
			IncorrectAnswers: make([]string, len(q.IncorrectAnswers)),
		}
		for j, ans := range q.IncorrectAnswers {
			decoded[i].IncorrectAnswers[j] = s.clean(ans)
		}
	}

	texts := s.translateAll(ctx, decoded, languageCode)

	questions := make([]models.Question, 0, len(decoded))
	cursor := 0
	for _, q := range decoded {
		prompt := texts[cursor]
		cursor++

		var answers []string
		if q.Type == string(models.KindMultiple) {
			answers = texts[cursor : cursor+1+len(q.IncorrectAnswers)]
			cursor += 1 + len(q.IncorrectAnswers)
		}

		question, ok := s.build(q, prompt, answers)
		if !ok {
			logger.Warn("Dropping unparseable trivia question", "type", q.Type)
			continue
		}
		question.Index = len(questions)
		questions = append(questions, question)
	}

	if len(questions) < count {
		return nil, errors.New(errors.ErrCodeInsufficientData,
			fmt.Sprintf("only %d of %d questions were usable", len(questions), count))
	}

	return questions[:count], nil
}

func (s *Source) fetchRaw(ctx context.Context, count, categoryID int) ([]rawQuestion, error) {
	url := fmt.Sprintf("%s?amount=%d", s.baseURL, count)
	if categoryID != AllCategories {
		url += fmt.Sprintf("&category=%d", categoryID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build trivia request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{StatusCode: resp.StatusCode}
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parse trivia response: %w", err)
	}

	if parsed.ResponseCode != 0 {
		if appErr, ok := apiErrors[parsed.ResponseCode]; ok {
			return nil, appErr
		}
		return nil, errors.New(errors.ErrCodeBadUpstream,
			fmt.Sprintf("trivia database error (code %d)", parsed.ResponseCode))
	}

	if len(parsed.Results) == 0 {
		return nil, errors.New(errors.ErrCodeInsufficientData, "trivia database returned no questions")
	}

	return parsed.Results, nil
}

// translateAll flattens every translatable text into one ordered list,
// issues a single batch translation, and falls back to the decoded English
// text when the batch fails. The order is: prompt, then for multiple-choice
// the correct answer followed by the incorrect ones, per question.
func (s *Source) translateAll(ctx context.Context, decoded []rawQuestion, languageCode string) []string {
	texts := make([]string, 0, len(decoded)*5)
	for _, q := range decoded {
		texts = append(texts, q.Question)
		if q.Type == string(models.KindMultiple) {
			texts = append(texts, q.CorrectAnswer)
			texts = append(texts, q.IncorrectAnswers...)
		}
	}

	if languageCode == lang.DefaultCode {
		return texts
	}

	translated, err := s.translator.TranslateBatch(ctx, texts, languageCode)
	if err != nil || len(translated) != len(texts) {
		logger.Warn("Batch translation failed, falling back to English questions",
			"language", languageCode, "error", err)
		return texts
	}
	return translated
}

// build turns one decoded record into a Question. The answer shuffle is a
// uniform permutation; it is the only randomness with an observable effect.
func (s *Source) build(q rawQuestion, prompt string, answers []string) (models.Question, bool) {
	switch q.Type {
	case string(models.KindBoolean):
		if !strings.EqualFold(q.CorrectAnswer, "true") && !strings.EqualFold(q.CorrectAnswer, "false") {
			return models.Question{}, false
		}
		return models.Question{
			Kind:        models.KindBoolean,
			Prompt:      prompt,
			CorrectBool: strings.EqualFold(q.CorrectAnswer, "true"),
		}, true

	case string(models.KindMultiple):
		if len(answers) < 2 {
			return models.Question{}, false
		}

		s.rngMu.Lock()
		order := s.rng.Perm(len(answers))
		s.rngMu.Unlock()

		options := make([]string, len(answers))
		correctIndex := 0
		for pos, src := range order {
			options[pos] = answers[src]
			if src == 0 {
				correctIndex = pos
			}
		}

		return models.Question{
			Kind:         models.KindMultiple,
			Prompt:       prompt,
			Options:      options,
			CorrectIndex: correctIndex,
		}, true

	default:
		return models.Question{}, false
	}
}

// clean strips any markup from the entity-escaped upstream text, then
// decodes the entities. Sanitizing first keeps bluemonday from re-escaping
// already-decoded text.
func (s *Source) clean(text string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(text)))
}
