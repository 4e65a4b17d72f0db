package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TransactionDailyUse    = "daily_use"
	TransactionPurchaseUse = "purchase_use"
	TransactionPurchase    = "purchase"
	TransactionOther       = "other"
)

const CategoryAchievementReward = "achievement"

// CreditTransaction is an append-only ledger entry. Debits carry a negative
// amount, credits a positive one.
type CreditTransaction struct {
	ID          string            `gorm:"primaryKey;size:36"`
	UserID      string            `gorm:"not null;size:64;index"`
	Amount      decimal.Decimal   `gorm:"type:numeric(14,4);not null"`
	Category    string            `gorm:"not null;default:''"`
	Type        string            `gorm:"not null"`
	Description string            `gorm:"not null;default:''"`
	Metadata    datatypes.JSONMap `gorm:"type:text"`
	CreatedAt   time.Time         `gorm:"not null"`
}

func (CreditTransaction) TableName() string {
	return "credit_transactions"
}

func (entry *CreditTransaction) BeforeCreate(*gorm.DB) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	return nil
}

func IsCreditTransactionType(value string) bool {
	switch value {
	case TransactionPurchase, TransactionOther:
		return true
	default:
		return false
	}
}

// Credit columns are NUMERIC(14,4).
const CreditScale = 4

var MaxCreditAmount = decimal.New(1, 10)

// FitsCreditColumn reports whether amount is stored without rounding or
// overflow.
func FitsCreditColumn(amount decimal.Decimal) bool {
	return amount.Equal(amount.Truncate(CreditScale)) && amount.Abs().LessThan(MaxCreditAmount)
}
