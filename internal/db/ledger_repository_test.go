package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/guilhermesealves/functions-site-boost-sub001/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

func openRepositoriesForTest(t *testing.T) *Repositories {
	t.Helper()

	database := openSQLiteForMigrationBootstrapTest(t, filepath.Join(t.TempDir(), "ledger.db"))
	return NewRepositories(database)
}

func TestProfileEnsureIsIdempotent(t *testing.T) {
	repositories := openRepositoriesForTest(t)
	ctx := context.Background()

	first, err := repositories.Profiles.Ensure(ctx, models.NewAccountProfile("user-1", "a@example.com", true, "2026-03-01"))
	if err != nil {
		t.Fatalf("first Ensure() unexpected error: %v", err)
	}
	if first.SubscriptionTier != models.TierFree || first.Level != 1 {
		t.Fatalf("expected seeded free profile at level 1, got %#v", first)
	}

	if err := repositories.Profiles.UpdateTier(ctx, "user-1", models.TierPro); err != nil {
		t.Fatalf("UpdateTier() unexpected error: %v", err)
	}

	second, err := repositories.Profiles.Ensure(ctx, models.NewAccountProfile("user-1", "other@example.com", false, "2026-03-05"))
	if err != nil {
		t.Fatalf("second Ensure() unexpected error: %v", err)
	}
	if second.SubscriptionTier != models.TierPro {
		t.Fatalf("expected existing profile to be kept, got tier %q", second.SubscriptionTier)
	}
	if second.Email != "a@example.com" || second.LastResetDate != "2026-03-01" {
		t.Fatalf("expected seed to be ignored for existing profile, got %#v", second)
	}
}

func TestResetDailyUsageRunsOncePerDay(t *testing.T) {
	repositories := openRepositoriesForTest(t)
	ctx := context.Background()

	if _, err := repositories.Profiles.Ensure(ctx, models.NewAccountProfile("user-1", "", true, "2026-03-01")); err != nil {
		t.Fatalf("Ensure() unexpected error: %v", err)
	}
	err := repositories.Ledger.InUserTx(ctx, func(tx LedgerTx) error {
		profile, err := tx.LockProfile("user-1")
		if err != nil {
			return err
		}
		profile.DailyCreditsUsed = decimal.NewFromInt(3)
		return tx.SaveProfile(&profile)
	})
	if err != nil {
		t.Fatalf("seed daily usage: %v", err)
	}

	changed, err := repositories.Profiles.ResetDailyUsage(ctx, "user-1", "2026-03-01")
	if err != nil || changed {
		t.Fatalf("expected same-day reset to be a no-op, changed=%v err=%v", changed, err)
	}

	changed, err = repositories.Profiles.ResetDailyUsage(ctx, "user-1", "2026-03-02")
	if err != nil || !changed {
		t.Fatalf("expected next-day reset to change the row, changed=%v err=%v", changed, err)
	}
	changed, err = repositories.Profiles.ResetDailyUsage(ctx, "user-1", "2026-03-02")
	if err != nil || changed {
		t.Fatalf("expected repeated reset to be a no-op, changed=%v err=%v", changed, err)
	}

	profile, err := repositories.Profiles.FindByUserID(ctx, "user-1")
	if err != nil {
		t.Fatalf("FindByUserID() unexpected error: %v", err)
	}
	if !profile.DailyCreditsUsed.IsZero() || profile.LastResetDate != "2026-03-02" {
		t.Fatalf("expected reset profile, got used=%s last_reset=%s", profile.DailyCreditsUsed, profile.LastResetDate)
	}
}

func TestSyncIdentityUpdatesEmailAndVerification(t *testing.T) {
	repositories := openRepositoriesForTest(t)
	ctx := context.Background()

	if _, err := repositories.Profiles.Ensure(ctx, models.NewAccountProfile("user-1", "old@example.com", false, "2026-03-01")); err != nil {
		t.Fatalf("Ensure() unexpected error: %v", err)
	}
	if err := repositories.Profiles.SyncIdentity(ctx, "user-1", "new@example.com", true); err != nil {
		t.Fatalf("SyncIdentity() unexpected error: %v", err)
	}

	profile, err := repositories.Profiles.FindByUserID(ctx, "user-1")
	if err != nil {
		t.Fatalf("FindByUserID() unexpected error: %v", err)
	}
	if profile.Email != "new@example.com" || !profile.EmailVerified {
		t.Fatalf("expected synced identity, got email=%q verified=%v", profile.Email, profile.EmailVerified)
	}
}

func TestInUserTxRollsBackEveryWriteOnError(t *testing.T) {
	repositories := openRepositoriesForTest(t)
	ctx := context.Background()

	if _, err := repositories.Profiles.Ensure(ctx, models.NewAccountProfile("user-1", "", true, "2026-03-01")); err != nil {
		t.Fatalf("Ensure() unexpected error: %v", err)
	}

	failure := errors.New("reward write failed")
	err := repositories.Ledger.InUserTx(ctx, func(tx LedgerTx) error {
		profile, err := tx.LockProfile("user-1")
		if err != nil {
			return err
		}
		profile.TotalCredits = decimal.NewFromInt(99)
		if err := tx.SaveProfile(&profile); err != nil {
			return err
		}
		if err := tx.AppendTransaction(&models.CreditTransaction{
			UserID: "user-1",
			Amount: decimal.NewFromInt(99),
			Type:   models.TransactionPurchase,
		}); err != nil {
			return err
		}
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("expected callback error to surface, got %v", err)
	}

	profile, err := repositories.Profiles.FindByUserID(ctx, "user-1")
	if err != nil {
		t.Fatalf("FindByUserID() unexpected error: %v", err)
	}
	if !profile.TotalCredits.IsZero() {
		t.Fatalf("expected rolled back balance 0, got %s", profile.TotalCredits)
	}
	entries, err := repositories.Transactions.ListByUser(ctx, "user-1", 10)
	if err != nil {
		t.Fatalf("ListByUser() unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no transactions after rollback, got %d", len(entries))
	}
}

func TestLedgerTxCountsOnlyCategoryDebits(t *testing.T) {
	repositories := openRepositoriesForTest(t)
	ctx := context.Background()

	err := repositories.Ledger.InUserTx(ctx, func(tx LedgerTx) error {
		entries := []models.CreditTransaction{
			{UserID: "user-1", Amount: decimal.NewFromInt(-1), Category: "logo", Type: models.TransactionDailyUse},
			{UserID: "user-1", Amount: decimal.NewFromInt(-1), Category: "logo", Type: models.TransactionPurchaseUse},
			{UserID: "user-1", Amount: decimal.NewFromInt(-3), Category: "website", Type: models.TransactionDailyUse},
			{UserID: "user-1", Amount: decimal.NewFromInt(5), Category: "logo", Type: models.TransactionOther},
			{UserID: "user-2", Amount: decimal.NewFromInt(-1), Category: "logo", Type: models.TransactionDailyUse},
		}
		for index := range entries {
			if err := tx.AppendTransaction(&entries[index]); err != nil {
				return err
			}
		}

		count, err := tx.CountCategoryDebits("user-1", "logo")
		if err != nil {
			return err
		}
		if count != 2 {
			t.Errorf("expected 2 logo debits, got %d", count)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("InUserTx() unexpected error: %v", err)
	}
}

func TestLedgerTxReceiptsRoundTrip(t *testing.T) {
	repositories := openRepositoriesForTest(t)
	ctx := context.Background()

	err := repositories.Ledger.InUserTx(ctx, func(tx LedgerTx) error {
		if _, found, err := tx.FindReceipt("user-1", "key-1"); err != nil || found {
			t.Errorf("expected no receipt yet, found=%v err=%v", found, err)
		}

		if err := tx.SaveReceipt(&models.ConsumeReceipt{
			UserID:         "user-1",
			IdempotencyKey: "key-1",
			RequestHash:    "abc",
			Response:       datatypes.JSON(`{"category":"logo"}`),
			CreatedAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		}); err != nil {
			return err
		}

		receipt, found, err := tx.FindReceipt("user-1", "key-1")
		if err != nil {
			return err
		}
		if !found || receipt.RequestHash != "abc" {
			t.Errorf("expected stored receipt, got %#v found=%v", receipt, found)
		}
		if _, found, _ := tx.FindReceipt("user-2", "key-1"); found {
			t.Error("expected receipts to be scoped per user")
		}

		if err := tx.DeleteReceipt("user-1", "key-1"); err != nil {
			return err
		}
		if _, found, _ := tx.FindReceipt("user-1", "key-1"); found {
			t.Error("expected receipt to be deleted")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("InUserTx() unexpected error: %v", err)
	}
}

func TestAchievementUnlockIsUniquePerUser(t *testing.T) {
	repositories := openRepositoriesForTest(t)
	ctx := context.Background()

	if err := repositories.Achievements.SyncCatalog(ctx, []models.Achievement{
		{Code: "first_logo", Name: "First logo", RequirementType: models.RequirementCategoryCount, RequirementCategory: "logo", RequirementValue: 1, Active: true},
	}); err != nil {
		t.Fatalf("SyncCatalog() unexpected error: %v", err)
	}

	unlock := func() error {
		return repositories.Ledger.InUserTx(ctx, func(tx LedgerTx) error {
			return tx.InsertUserAchievement(&models.UserAchievement{
				UserID:          "user-1",
				AchievementCode: "first_logo",
				EarnedAt:        time.Now().UTC(),
			})
		})
	}
	if err := unlock(); err != nil {
		t.Fatalf("first unlock unexpected error: %v", err)
	}
	if err := unlock(); err == nil {
		t.Fatal("expected primary key to reject a second unlock")
	}

	err := repositories.Ledger.InUserTx(ctx, func(tx LedgerTx) error {
		owned, err := tx.HasAchievement("user-1", "first_logo")
		if err != nil {
			return err
		}
		if !owned {
			t.Error("expected HasAchievement to report the unlock")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("HasAchievement() unexpected error: %v", err)
	}
}

func TestUserAchievementRequiresCatalogEntry(t *testing.T) {
	repositories := openRepositoriesForTest(t)
	ctx := context.Background()

	var enabled int
	if err := repositories.Profiles.database.WithContext(ctx).Raw("PRAGMA foreign_keys").Scan(&enabled).Error; err != nil {
		t.Fatalf("read foreign_keys pragma: %v", err)
	}
	if enabled != 1 {
		t.Fatalf("expected foreign keys to be enforced, got foreign_keys=%d", enabled)
	}

	err := repositories.Ledger.InUserTx(ctx, func(tx LedgerTx) error {
		return tx.InsertUserAchievement(&models.UserAchievement{
			UserID:          "user-1",
			AchievementCode: "no_such_code",
			EarnedAt:        time.Now().UTC(),
		})
	})
	if err == nil {
		t.Fatal("expected unlock of an unknown achievement code to be rejected")
	}
}

func TestSyncCatalogUpsertsAndDeactivatesMissingEntries(t *testing.T) {
	repositories := openRepositoriesForTest(t)
	ctx := context.Background()

	initial := []models.Achievement{
		{Code: "first_logo", Name: "First logo", RequirementType: models.RequirementCategoryCount, RequirementCategory: "logo", RequirementValue: 1, Active: true},
		{Code: "streak_7", Name: "On a roll", RequirementType: models.RequirementStreak, RequirementValue: 7, RewardCredits: decimal.NewFromInt(3), Active: true},
	}
	if err := repositories.Achievements.SyncCatalog(ctx, initial); err != nil {
		t.Fatalf("initial SyncCatalog() unexpected error: %v", err)
	}

	updated := []models.Achievement{
		{Code: "first_logo", Name: "Logo debut", RequirementType: models.RequirementCategoryCount, RequirementCategory: "logo", RequirementValue: 1, RewardXP: 40, Active: true},
	}
	if err := repositories.Achievements.SyncCatalog(ctx, updated); err != nil {
		t.Fatalf("second SyncCatalog() unexpected error: %v", err)
	}

	active, err := repositories.Achievements.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive() unexpected error: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected 1 active achievement, got %d", len(active))
	}
	if active[0].Name != "Logo debut" || active[0].RewardXP != 40 {
		t.Fatalf("expected upserted fields, got %#v", active[0])
	}

	var stale models.Achievement
	if err := repositories.Achievements.database.Where("code = ?", "streak_7").First(&stale).Error; err != nil {
		t.Fatalf("load deactivated achievement: %v", err)
	}
	if stale.Active {
		t.Fatal("expected missing catalog entry to be deactivated, not kept active")
	}
	if !stale.RewardCredits.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("expected deactivated entry to keep its reward, got %s", stale.RewardCredits)
	}
}

func TestHistoryListsNewestFirstWithLimit(t *testing.T) {
	repositories := openRepositoriesForTest(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	err := repositories.Ledger.InUserTx(ctx, func(tx LedgerTx) error {
		for index := 0; index < 3; index++ {
			if err := tx.AppendTransaction(&models.CreditTransaction{
				UserID:      "user-1",
				Amount:      decimal.NewFromInt(int64(index + 1)),
				Type:        models.TransactionPurchase,
				Description: "purchase",
				CreatedAt:   base.Add(time.Duration(index) * time.Hour),
			}); err != nil {
				return err
			}
			if err := tx.InsertNotification(&models.Notification{
				UserID:    "user-1",
				Type:      models.NotificationLevelUp,
				Title:     "Level up!",
				CreatedAt: base.Add(time.Duration(index) * time.Hour),
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed history: %v", err)
	}

	entries, err := repositories.Transactions.ListByUser(ctx, "user-1", 2)
	if err != nil {
		t.Fatalf("Transactions.ListByUser() unexpected error: %v", err)
	}
	if len(entries) != 2 || !entries[0].Amount.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("expected newest two transactions, got %#v", entries)
	}
	if entries[0].ID == "" {
		t.Fatal("expected uuid id to be assigned")
	}

	notifications, err := repositories.Notifications.ListByUser(ctx, "user-1", 10)
	if err != nil {
		t.Fatalf("Notifications.ListByUser() unexpected error: %v", err)
	}
	if len(notifications) != 3 || !notifications[0].CreatedAt.Equal(base.Add(2*time.Hour)) {
		t.Fatalf("expected newest notification first, got %#v", notifications)
	}
}

func TestHistoryListsRangeOldestFirst(t *testing.T) {
	repositories := openRepositoriesForTest(t)
	ctx := context.Background()

	days := []time.Time{
		time.Date(2026, 2, 28, 23, 59, 0, 0, time.UTC),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	}
	err := repositories.Ledger.InUserTx(ctx, func(tx LedgerTx) error {
		for index, createdAt := range days {
			if err := tx.AppendTransaction(&models.CreditTransaction{
				UserID:    "user-1",
				Amount:    decimal.NewFromInt(int64(index + 1)),
				Type:      models.TransactionPurchase,
				CreatedAt: createdAt,
			}); err != nil {
				return err
			}
		}
		return tx.AppendTransaction(&models.CreditTransaction{
			UserID:    "user-2",
			Amount:    decimal.NewFromInt(9),
			Type:      models.TransactionPurchase,
			CreatedAt: days[1],
		})
	})
	if err != nil {
		t.Fatalf("seed history: %v", err)
	}

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	until := from.AddDate(0, 0, 1)
	entries, err := repositories.Transactions.ListByUserInRange(ctx, "user-1", &from, &until, 100)
	if err != nil {
		t.Fatalf("ListByUserInRange() unexpected error: %v", err)
	}
	if len(entries) != 2 || !entries[0].Amount.Equal(decimal.NewFromInt(2)) || !entries[1].Amount.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("expected the two entries of 2026-03-01 oldest first, got %#v", entries)
	}

	all, err := repositories.Transactions.ListByUserInRange(ctx, "user-1", nil, nil, 100)
	if err != nil {
		t.Fatalf("ListByUserInRange() unexpected error: %v", err)
	}
	if len(all) != len(days) || !all[0].CreatedAt.Equal(days[0]) {
		t.Fatalf("expected every entry of user-1 for an open range, got %d", len(all))
	}

	limited, err := repositories.Transactions.ListByUserInRange(ctx, "user-1", &from, nil, 1)
	if err != nil {
		t.Fatalf("ListByUserInRange() unexpected error: %v", err)
	}
	if len(limited) != 1 || !limited[0].Amount.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("expected the limit to keep the oldest entry, got %#v", limited)
	}
}
