package models

import (
	"time"

	"github.com/google/uuid"
)

// GameSession is one user's active trivia game. Memory-resident and
// intentionally volatile; a restart discards all sessions.
type GameSession struct {
	// ID correlates log lines for one game.
	ID     uuid.UUID
	UserID int64

	CategoryID   int
	CategoryName string
	LanguageCode string

	// Questions is fixed at creation; exactly QuestionsPerGame entries.
	Questions []Question

	// CurrentIndex is in [0, len(Questions)]; len(Questions) means the
	// game is finished.
	CurrentIndex int
	Score        int
	Active       bool

	StartedAt time.Time
}

func NewGameSession(userID int64, categoryID int, categoryName, languageCode string, questions []Question) *GameSession {
	return &GameSession{
		ID:           uuid.New(),
		UserID:       userID,
		CategoryID:   categoryID,
		CategoryName: categoryName,
		LanguageCode: languageCode,
		Questions:    questions,
		Active:       true,
		StartedAt:    time.Now(),
	}
}

// Finished reports whether every question has been answered.
func (s *GameSession) Finished() bool {
	return s.CurrentIndex >= len(s.Questions)
}

// Percentage is the final score as a share of the total.
func (s *GameSession) Percentage() float64 {
	if len(s.Questions) == 0 {
		return 0
	}
	return float64(s.Score) / float64(len(s.Questions)) * 100
}
