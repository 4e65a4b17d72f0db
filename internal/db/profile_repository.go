package db

import (
	"context"

	"github.com/guilhermesealves/functions-site-boost-sub001/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository struct {
	database *gorm.DB
}

func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{database: database}
}

// Ensure inserts seed unless a profile for the same user already exists and
// returns the stored row either way.
func (repo *ProfileRepository) Ensure(ctx context.Context, seed models.AccountProfile) (models.AccountProfile, error) {
	if err := repo.database.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&seed).Error; err != nil {
		return models.AccountProfile{}, err
	}
	return repo.FindByUserID(ctx, seed.UserID)
}

func (repo *ProfileRepository) FindByUserID(ctx context.Context, userID string) (models.AccountProfile, error) {
	var profile models.AccountProfile
	if err := repo.database.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return models.AccountProfile{}, err
	}
	return profile, nil
}

// ResetDailyUsage zeroes the daily counter once per day. It reports whether a
// row changed, so repeated calls on the same day are no-ops.
func (repo *ProfileRepository) ResetDailyUsage(ctx context.Context, userID string, today string) (bool, error) {
	result := repo.database.WithContext(ctx).
		Model(&models.AccountProfile{}).
		Where("user_id = ? AND last_reset_date <> ?", userID, today).
		Updates(map[string]any{
			"daily_credits_used": 0,
			"last_reset_date":    today,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (repo *ProfileRepository) SyncIdentity(ctx context.Context, userID string, email string, emailVerified bool) error {
	return repo.database.WithContext(ctx).
		Model(&models.AccountProfile{}).
		Where("user_id = ? AND (email <> ? OR email_verified <> ?)", userID, email, emailVerified).
		Updates(map[string]any{
			"email":          email,
			"email_verified": emailVerified,
		}).Error
}

func (repo *ProfileRepository) UpdateTier(ctx context.Context, userID string, tier string) error {
	return repo.database.WithContext(ctx).
		Model(&models.AccountProfile{}).
		Where("user_id = ?", userID).
		Update("subscription_tier", tier).Error
}
