package models

import (
	"time"

	"gorm.io/datatypes"
)

// ConsumeReceipt remembers the outcome of a keyed consumption so that a retry
// with the same key replays it instead of debiting twice.
type ConsumeReceipt struct {
	UserID         string         `gorm:"primaryKey;size:64"`
	IdempotencyKey string         `gorm:"primaryKey;size:128"`
	RequestHash    string         `gorm:"not null;size:64"`
	Response       datatypes.JSON `gorm:"type:text;not null"`
	CreatedAt      time.Time      `gorm:"not null"`
}

func (ConsumeReceipt) TableName() string {
	return "consume_receipts"
}
