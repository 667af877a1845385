// Package game runs the trivia session lifecycle: starting games, grading
// answers, and scoring the final result.
package game

import (
	"context"
	"fmt"
	"sync"

	"github.com/avrudenko/lingvobot/internal/lang"
	"github.com/avrudenko/lingvobot/internal/models"
	"github.com/avrudenko/lingvobot/internal/store"
	"github.com/avrudenko/lingvobot/pkg/errors"
	"github.com/avrudenko/lingvobot/pkg/logger"
)

// Sentinels the transport layer matches on to pick a user-facing reply.
var (
	ErrNoSession   = errors.New(errors.ErrCodeNotFound, "no active game session")
	ErrStaleAnswer = errors.New(errors.ErrCodeValidation, "answer targets a question that is no longer current")
)

// QuestionSource produces the localized question set for a new game.
type QuestionSource interface {
	Fetch(ctx context.Context, count, categoryID int, languageCode string) ([]models.Question, error)
}

// Tier buckets a finished game's percentage for the closing message.
type Tier int

const (
	TierPerfect Tier = iota
	TierGreat
	TierGood
	TierFair
	TierPoor
)

func tierFor(percentage float64) Tier {
	switch {
	case percentage >= 100:
		return TierPerfect
	case percentage >= 80:
		return TierGreat
	case percentage >= 60:
		return TierGood
	case percentage >= 40:
		return TierFair
	default:
		return TierPoor
	}
}

// Result is the outcome of grading one answer. When Finished is set the
// session has been removed and Score/Total/Percentage/Tier describe the
// whole game.
type Result struct {
	Correct     bool
	CorrectText string

	Score int
	Total int

	Finished   bool
	Percentage float64
	Tier       Tier
}

type Engine struct {
	sessions store.Sessions
	prefs    store.Preferences
	source   QuestionSource

	questionsPerGame int

	// mu makes the read-grade-advance step in SubmitAnswer atomic, so a
	// double-tapped answer button counts once.
	mu sync.Mutex
}

func NewEngine(sessions store.Sessions, prefs store.Preferences, source QuestionSource, questionsPerGame int) *Engine {
	return &Engine{
		sessions:         sessions,
		prefs:            prefs,
		source:           source,
		questionsPerGame: questionsPerGame,
	}
}

// Begin starts a fresh game for the user, discarding any session already in
// progress. Questions arrive in the user's preferred language.
func (e *Engine) Begin(ctx context.Context, userID int64, categoryID int, categoryName string) (*models.GameSession, error) {
	// An unfinished game is abandoned without ceremony; the new one wins.
	if old, ok := e.sessions.Get(userID); ok {
		logger.Info("Discarding unfinished game session",
			"user_id", userID, "session_id", old.ID, "answered", old.CurrentIndex)
		e.sessions.Delete(userID)
	}

	languageCode, ok := e.prefs.Get(userID)
	if !ok {
		languageCode = lang.DefaultCode
	}

	questions, err := e.source.Fetch(ctx, e.questionsPerGame, categoryID, languageCode)
	if err != nil {
		return nil, fmt.Errorf("start game: %w", err)
	}

	session := models.NewGameSession(userID, categoryID, categoryName, languageCode, questions)
	e.sessions.Set(session)

	logger.Info("Game session started",
		"user_id", userID, "session_id", session.ID,
		"category_id", categoryID, "language", languageCode,
		"questions", len(questions))

	return session, nil
}

// CurrentQuestion returns the question awaiting an answer. Idempotent;
// calling it never advances the game.
func (e *Engine) CurrentQuestion(userID int64) (*models.Question, error) {
	session, ok := e.sessions.Get(userID)
	if !ok {
		return nil, ErrNoSession
	}
	if session.Finished() {
		return nil, ErrNoSession
	}
	return &session.Questions[session.CurrentIndex], nil
}

// Progress returns the question awaiting an answer along with the running
// score and the session total. Like CurrentQuestion it never advances the
// game.
func (e *Engine) Progress(userID int64) (*models.Question, int, int, error) {
	session, ok := e.sessions.Get(userID)
	if !ok || session.Finished() {
		return nil, 0, 0, ErrNoSession
	}
	return &session.Questions[session.CurrentIndex], session.Score, len(session.Questions), nil
}

// SubmitAnswer grades the answer for questionIndex and advances the game.
// Answers for any index other than the current one are rejected with
// ErrStaleAnswer, which absorbs duplicate button taps and taps on old
// messages. On the last question the session is scored and removed.
func (e *Engine) SubmitAnswer(userID int64, questionIndex, answerIndex int) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, ok := e.sessions.Get(userID)
	if !ok {
		return Result{}, ErrNoSession
	}

	if session.Finished() || questionIndex != session.CurrentIndex {
		return Result{}, ErrStaleAnswer
	}

	question := &session.Questions[session.CurrentIndex]
	correct := question.IsCorrect(answerIndex)
	if correct {
		session.Score++
	}
	session.CurrentIndex++

	result := Result{
		Correct:     correct,
		CorrectText: question.CorrectText(),
		Score:       session.Score,
		Total:       len(session.Questions),
	}

	if session.Finished() {
		session.Active = false
		result.Finished = true
		result.Percentage = session.Percentage()
		result.Tier = tierFor(result.Percentage)
		e.sessions.Delete(userID)

		logger.Info("Game session finished",
			"user_id", userID, "session_id", session.ID,
			"score", session.Score, "total", len(session.Questions))
		return result, nil
	}

	e.sessions.Set(session)
	return result, nil
}

// Abandon drops the user's session if one exists.
func (e *Engine) Abandon(userID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sessions.Delete(userID)
}
