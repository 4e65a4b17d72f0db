package db

import "gorm.io/gorm"

type Repositories struct {
	Profiles      *ProfileRepository
	Ledger        *LedgerRepository
	Transactions  *TransactionRepository
	Notifications *NotificationRepository
	Achievements  *AchievementRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Profiles:      NewProfileRepository(database),
		Ledger:        NewLedgerRepository(database),
		Transactions:  NewTransactionRepository(database),
		Notifications: NewNotificationRepository(database),
		Achievements:  NewAchievementRepository(database),
	}
}
