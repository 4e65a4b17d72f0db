package db

import (
	"context"

	"github.com/guilhermesealves/functions-site-boost-sub001/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementRepository struct {
	database *gorm.DB
}

func NewAchievementRepository(database *gorm.DB) *AchievementRepository {
	return &AchievementRepository{database: database}
}

// SyncCatalog upserts the configured catalog by code. Entries missing from the
// configuration are deactivated rather than deleted, since unlocks reference them.
func (repo *AchievementRepository) SyncCatalog(ctx context.Context, catalog []models.Achievement) error {
	return repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		codes := make([]string, 0, len(catalog))
		for index := range catalog {
			entry := catalog[index]
			codes = append(codes, entry.Code)
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "code"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"name",
					"description",
					"icon",
					"requirement_type",
					"requirement_category",
					"requirement_value",
					"reward_credits",
					"reward_xp",
					"active",
					"updated_at",
				}),
			}).Create(&entry).Error; err != nil {
				return err
			}
		}

		stale := tx.Model(&models.Achievement{})
		if len(codes) > 0 {
			stale = stale.Where("code NOT IN ?", codes)
		} else {
			stale = stale.Where("1 = 1")
		}
		return stale.Update("active", false).Error
	})
}

func (repo *AchievementRepository) ListActive(ctx context.Context) ([]models.Achievement, error) {
	achievements := make([]models.Achievement, 0)
	if err := repo.database.WithContext(ctx).
		Where("active = ?", true).
		Order("requirement_type ASC, requirement_value ASC, code ASC").
		Find(&achievements).Error; err != nil {
		return nil, err
	}
	return achievements, nil
}

func (repo *AchievementRepository) ListUnlocked(ctx context.Context, userID string) ([]models.UserAchievement, error) {
	unlocks := make([]models.UserAchievement, 0)
	if err := repo.database.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("earned_at ASC").
		Find(&unlocks).Error; err != nil {
		return nil, err
	}
	return unlocks, nil
}
