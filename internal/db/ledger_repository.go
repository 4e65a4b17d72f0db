package db

import (
	"context"
	"errors"

	"github.com/guilhermesealves/functions-site-boost-sub001/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerTx is the set of writes one consumption or credit may perform. Every
// call runs inside the same database transaction.
type LedgerTx interface {
	LockProfile(userID string) (models.AccountProfile, error)
	SaveProfile(profile *models.AccountProfile) error
	AppendTransaction(entry *models.CreditTransaction) error
	CountCategoryDebits(userID string, category string) (int64, error)
	HasAchievement(userID string, code string) (bool, error)
	InsertUserAchievement(unlock *models.UserAchievement) error
	InsertNotification(notification *models.Notification) error
	FindReceipt(userID string, key string) (models.ConsumeReceipt, bool, error)
	SaveReceipt(receipt *models.ConsumeReceipt) error
	DeleteReceipt(userID string, key string) error
}

type LedgerRepository struct {
	database *gorm.DB
}

func NewLedgerRepository(database *gorm.DB) *LedgerRepository {
	return &LedgerRepository{database: database}
}

// InUserTx runs fn in one transaction. Returning an error from fn rolls back
// every write made through tx.
func (repo *LedgerRepository) InUserTx(ctx context.Context, fn func(tx LedgerTx) error) error {
	return repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormLedgerTx{tx: tx})
	})
}

type gormLedgerTx struct {
	tx *gorm.DB
}

func (ledger *gormLedgerTx) LockProfile(userID string) (models.AccountProfile, error) {
	query := ledger.tx.Where("user_id = ?", userID)
	// SQLite has no row locks; its single connection already serializes writers.
	if ledger.tx.Dialector.Name() == DriverPostgres {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var profile models.AccountProfile
	if err := query.First(&profile).Error; err != nil {
		return models.AccountProfile{}, err
	}
	return profile, nil
}

func (ledger *gormLedgerTx) SaveProfile(profile *models.AccountProfile) error {
	return ledger.tx.Save(profile).Error
}

func (ledger *gormLedgerTx) AppendTransaction(entry *models.CreditTransaction) error {
	return ledger.tx.Create(entry).Error
}

func (ledger *gormLedgerTx) CountCategoryDebits(userID string, category string) (int64, error) {
	var count int64
	err := ledger.tx.Model(&models.CreditTransaction{}).
		Where("user_id = ? AND category = ? AND type IN ?", userID, category,
			[]string{models.TransactionDailyUse, models.TransactionPurchaseUse}).
		Count(&count).Error
	return count, err
}

func (ledger *gormLedgerTx) HasAchievement(userID string, code string) (bool, error) {
	var count int64
	if err := ledger.tx.Model(&models.UserAchievement{}).
		Where("user_id = ? AND achievement_code = ?", userID, code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (ledger *gormLedgerTx) InsertUserAchievement(unlock *models.UserAchievement) error {
	return ledger.tx.Create(unlock).Error
}

func (ledger *gormLedgerTx) InsertNotification(notification *models.Notification) error {
	return ledger.tx.Create(notification).Error
}

func (ledger *gormLedgerTx) FindReceipt(userID string, key string) (models.ConsumeReceipt, bool, error) {
	var receipt models.ConsumeReceipt
	err := ledger.tx.Where("user_id = ? AND idempotency_key = ?", userID, key).First(&receipt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ConsumeReceipt{}, false, nil
	}
	if err != nil {
		return models.ConsumeReceipt{}, false, err
	}
	return receipt, true, nil
}

func (ledger *gormLedgerTx) SaveReceipt(receipt *models.ConsumeReceipt) error {
	return ledger.tx.Create(receipt).Error
}

func (ledger *gormLedgerTx) DeleteReceipt(userID string, key string) error {
	return ledger.tx.Where("user_id = ? AND idempotency_key = ?", userID, key).
		Delete(&models.ConsumeReceipt{}).Error
}
