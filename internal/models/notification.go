package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationAchievement = "achievement"
	NotificationLevelUp     = "level_up"
)

type Notification struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"not null;size:64;index"`
	Type      string    `gorm:"not null"`
	Title     string    `gorm:"not null"`
	Message   string    `gorm:"not null;default:''"`
	Read      bool      `gorm:"column:is_read;not null;default:false"`
	ActionURL string    `gorm:"not null;default:''"`
	CreatedAt time.Time `gorm:"not null"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (notification *Notification) BeforeCreate(*gorm.DB) error {
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	return nil
}
