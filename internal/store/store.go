// Package store defines the process-wide mutable state behind the game
// engine: language preferences and the session table. Both are interfaces
// so tests can substitute fakes and the preference store can be backed by
// Postgres when configured.
package store

import "github.com/avrudenko/lingvobot/internal/models"

// Preferences maps a user to their translation target language code.
type Preferences interface {
	Get(userID int64) (string, bool)
	Set(userID int64, languageCode string) error
	Delete(userID int64) error
}

// Sessions is the per-user trivia session table. At most one session per
// user exists at a time; Set replaces unconditionally.
type Sessions interface {
	Get(userID int64) (*models.GameSession, bool)
	Set(session *models.GameSession)
	Delete(userID int64)
}
