package db

import (
	"context"
	"time"

	"github.com/guilhermesealves/functions-site-boost-sub001/internal/models"
	"gorm.io/gorm"
)

type TransactionRepository struct {
	database *gorm.DB
}

func NewTransactionRepository(database *gorm.DB) *TransactionRepository {
	return &TransactionRepository{database: database}
}

func (repo *TransactionRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.CreditTransaction, error) {
	entries := make([]models.CreditTransaction, 0)
	if err := repo.database.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListByUserInRange returns entries oldest first. Nil bounds are open; until
// is exclusive.
func (repo *TransactionRepository) ListByUserInRange(ctx context.Context, userID string, from *time.Time, until *time.Time, limit int) ([]models.CreditTransaction, error) {
	query := repo.database.WithContext(ctx).Where("user_id = ?", userID)
	if from != nil {
		query = query.Where("created_at >= ?", from.UTC())
	}
	if until != nil {
		query = query.Where("created_at < ?", until.UTC())
	}

	entries := make([]models.CreditTransaction, 0)
	if err := query.Order("created_at ASC, id ASC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

type NotificationRepository struct {
	database *gorm.DB
}

func NewNotificationRepository(database *gorm.DB) *NotificationRepository {
	return &NotificationRepository{database: database}
}

func (repo *NotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	notifications := make([]models.Notification, 0)
	if err := repo.database.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}
