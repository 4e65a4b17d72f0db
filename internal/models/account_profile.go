package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TierFree       = "free"
	TierStarter    = "starter"
	TierPro        = "pro"
	TierEnterprise = "enterprise"
)

// AccountProfile is the per-user ledger row. It is the only mutable shared
// resource of the ledger and is written only under the user's lock.
type AccountProfile struct {
	UserID           string          `gorm:"column:user_id;primaryKey;size:64"`
	Email            string          `gorm:"not null;default:''"`
	EmailVerified    bool            `gorm:"not null;default:false"`
	SubscriptionTier string          `gorm:"not null;default:free"`
	DailyCreditsUsed decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	TotalCredits     decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	ExperiencePoints int64           `gorm:"not null;default:0"`
	Level            int             `gorm:"not null;default:1"`
	CurrentStreak    int             `gorm:"not null;default:0"`
	LongestStreak    int             `gorm:"not null;default:0"`
	TotalGenerations int64           `gorm:"not null;default:0"`
	TotalSavedMoney  decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	LastResetDate    string          `gorm:"size:10;not null;default:''"`
	LastActivityDate string          `gorm:"size:10;not null;default:''"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (AccountProfile) TableName() string {
	return "account_profiles"
}

func NewAccountProfile(userID string, email string, emailVerified bool, today string) AccountProfile {
	return AccountProfile{
		UserID:           userID,
		Email:            email,
		EmailVerified:    emailVerified,
		SubscriptionTier: TierFree,
		DailyCreditsUsed: decimal.Zero,
		TotalCredits:     decimal.Zero,
		Level:            1,
		TotalSavedMoney:  decimal.Zero,
		LastResetDate:    today,
	}
}

func IsKnownTier(tier string) bool {
	switch tier {
	case TierFree, TierStarter, TierPro, TierEnterprise:
		return true
	default:
		return false
	}
}
