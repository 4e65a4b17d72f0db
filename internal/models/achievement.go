package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RequirementCategoryCount    = "category_count"
	RequirementStreak           = "streak"
	RequirementTotalGenerations = "total_generations"
)

// Achievement is a catalog entry. Code is its only identity: the junction
// table references it directly.
type Achievement struct {
	Code                string          `gorm:"primaryKey;size:64"`
	Name                string          `gorm:"not null"`
	Description         string          `gorm:"not null;default:''"`
	Icon                string          `gorm:"not null;default:''"`
	RequirementType     string          `gorm:"not null"`
	RequirementCategory string          `gorm:"not null;default:''"`
	RequirementValue    int64           `gorm:"not null;default:0"`
	RewardCredits       decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	RewardXP            int64           `gorm:"column:reward_xp;not null;default:0"`
	Active              bool            `gorm:"not null"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (Achievement) TableName() string {
	return "achievements"
}

type UserAchievement struct {
	UserID          string    `gorm:"primaryKey;size:64"`
	AchievementCode string    `gorm:"primaryKey;size:64"`
	EarnedAt        time.Time `gorm:"not null"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}

func IsKnownRequirementType(value string) bool {
	switch value {
	case RequirementCategoryCount, RequirementStreak, RequirementTotalGenerations:
		return true
	default:
		return false
	}
}
