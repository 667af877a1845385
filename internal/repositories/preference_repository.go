package repositories

import (
	"errors"

	"github.com/avrudenko/lingvobot/internal/models"
	"github.com/avrudenko/lingvobot/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferenceRepository is the Postgres-backed language preference store.
// It satisfies store.Preferences.
type PreferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

func (r *PreferenceRepository) Get(userID int64) (string, bool) {
	var pref models.Preference
	err := r.db.First(&pref, "user_id = ?", userID).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to load language preference", "user_id", userID, "error", err)
		}
		return "", false
	}
	return pref.LanguageCode, true
}

func (r *PreferenceRepository) Set(userID int64, languageCode string) error {
	pref := models.Preference{
		UserID:       userID,
		LanguageCode: languageCode,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"language_code", "updated_at"}),
	}).Create(&pref).Error
}

func (r *PreferenceRepository) Delete(userID int64) error {
	return r.db.Delete(&models.Preference{}, "user_id = ?", userID).Error
}
