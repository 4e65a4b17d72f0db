package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/guilhermesealves/functions-site-boost-sub001/internal/config"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/db"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/metrics"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

type LedgerTx = db.LedgerTx

type LedgerProfileRepository interface {
	Ensure(ctx context.Context, seed models.AccountProfile) (models.AccountProfile, error)
	ResetDailyUsage(ctx context.Context, userID string, today string) (bool, error)
	SyncIdentity(ctx context.Context, userID string, email string, emailVerified bool) error
	UpdateTier(ctx context.Context, userID string, tier string) error
}

type LedgerWriter interface {
	InUserTx(ctx context.Context, fn func(tx LedgerTx) error) error
}

type TransactionHistoryRepository interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]models.CreditTransaction, error)
}

type NotificationHistoryRepository interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
}

type AchievementCatalogRepository interface {
	SyncCatalog(ctx context.Context, catalog []models.Achievement) error
	ListActive(ctx context.Context) ([]models.Achievement, error)
	ListUnlocked(ctx context.Context, userID string) ([]models.UserAchievement, error)
}

// Identity is the caller as established by authentication.
type Identity struct {
	UserID        string
	Email         string
	EmailVerified bool
}

type LedgerOptions struct {
	OperationTimeout time.Duration
	IdempotencyTTL   time.Duration
	Now              func() time.Time
}

type StreakState struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

type BalanceView struct {
	Balance
	Tier   string      `json:"tier"`
	Level  int         `json:"level"`
	XP     int64       `json:"xp"`
	Streak StreakState `json:"streak"`
}

type XPResult struct {
	Gained    int64 `json:"gained"`
	Bonus     int64 `json:"bonus"`
	Total     int64 `json:"total"`
	OldLevel  int   `json:"old_level"`
	NewLevel  int   `json:"new_level"`
	LeveledUp bool  `json:"leveled_up"`
}

type UnlockedAchievement struct {
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	RewardCredits decimal.Decimal `json:"reward_credits"`
	RewardXP      int64           `json:"reward_xp"`
}

type ConsumeResult struct {
	Category        string                `json:"category"`
	CreditsUsed     decimal.Decimal       `json:"credits_used"`
	Breakdown       Breakdown             `json:"breakdown"`
	Remaining       Balance               `json:"remaining"`
	XP              XPResult              `json:"xp"`
	SavedMoney      decimal.Decimal       `json:"saved_money"`
	TotalSavedMoney decimal.Decimal       `json:"total_saved_money"`
	Streak          StreakState           `json:"streak"`
	Achievements    []UnlockedAchievement `json:"achievements"`
	Replayed        bool                  `json:"-"`
}

type CreditResult struct {
	CreditsAdded decimal.Decimal `json:"credits_added"`
	NewBalance   decimal.Decimal `json:"new_balance"`
}

type AchievementProgress struct {
	Achievement models.Achievement
	Unlocked    bool
	EarnedAt    *time.Time
}

// LedgerService meters generations against the daily allowance and the
// purchased balance and drives progression. Every write for one user runs
// under that user's lock and inside one database transaction.
type LedgerService struct {
	profiles      LedgerProfileRepository
	ledger        LedgerWriter
	transactions  TransactionHistoryRepository
	notifications NotificationHistoryRepository
	achievements  AchievementCatalogRepository
	policy        config.Policy
	catalog       []models.Achievement
	locks         *userLocks
	timeout       time.Duration
	receiptTTL    time.Duration
	now           func() time.Time
}

func NewLedgerService(repositories *db.Repositories, policy config.Policy, options LedgerOptions) *LedgerService {
	now := options.Now
	if now == nil {
		now = time.Now
	}

	return &LedgerService{
		profiles:      repositories.Profiles,
		ledger:        repositories.Ledger,
		transactions:  repositories.Transactions,
		notifications: repositories.Notifications,
		achievements:  repositories.Achievements,
		policy:        policy,
		catalog:       policy.Catalog(),
		locks:         newUserLocks(),
		timeout:       options.OperationTimeout,
		receiptTTL:    options.IdempotencyTTL,
		now:           now,
	}
}

func (service *LedgerService) Policy() config.Policy {
	return service.policy
}

// SyncCatalog writes the configured achievement catalog to the store. It must
// run before the first consumption so unlocks can reference catalog rows.
func (service *LedgerService) SyncCatalog(ctx context.Context) error {
	if err := service.achievements.SyncCatalog(ctx, service.catalog); err != nil {
		return storageError(ctx, "sync achievement catalog", err)
	}
	return nil
}

func (service *LedgerService) GetBalance(ctx context.Context, identity Identity) (BalanceView, error) {
	defer metrics.ObserveOperation("get_balance", time.Now())

	if err := requireIdentity(identity); err != nil {
		return BalanceView{}, err
	}

	ctx, cancel := service.withBudget(ctx)
	defer cancel()

	release, err := service.locks.acquire(ctx, identity.UserID)
	if err != nil {
		return BalanceView{}, storageError(ctx, "get balance", err)
	}
	defer release()

	today := service.today()
	profile, err := service.ensureProfile(ctx, identity, today)
	if err != nil {
		return BalanceView{}, storageError(ctx, "get balance", err)
	}

	profile, changed := RolloverIfNeeded(profile, today)
	if changed {
		if _, err := service.profiles.ResetDailyUsage(ctx, identity.UserID, today); err != nil {
			return BalanceView{}, storageError(ctx, "get balance", err)
		}
	}

	return service.balanceView(profile), nil
}

// Consume debits the cost of one generation in category. A non-empty
// idempotencyKey makes retries of the same request replay the first result.
func (service *LedgerService) Consume(ctx context.Context, identity Identity, category string, metadata map[string]any, idempotencyKey string) (ConsumeResult, error) {
	defer metrics.ObserveOperation("consume", time.Now())

	result, err := service.consume(ctx, identity, category, metadata, idempotencyKey)
	label := config.NormalizeKey(category)
	if _, known := service.policy.Category(label); !known {
		label = "unknown"
	}
	metrics.Consumptions.WithLabelValues(label, consumeOutcome(result, err)).Inc()
	return result, err
}

func (service *LedgerService) consume(ctx context.Context, identity Identity, category string, metadata map[string]any, idempotencyKey string) (ConsumeResult, error) {
	if err := requireVerifiedIdentity(identity); err != nil {
		return ConsumeResult{}, err
	}

	categoryKey := config.NormalizeKey(category)
	price, ok := service.policy.Category(categoryKey)
	if !ok {
		return ConsumeResult{}, ErrInvalidCategory
	}

	idempotencyKey, err := normalizeIdempotencyKey(idempotencyKey)
	if err != nil {
		return ConsumeResult{}, err
	}
	requestHash, err := consumeRequestHash(categoryKey, metadata)
	if err != nil {
		return ConsumeResult{}, err
	}

	ctx, cancel := service.withBudget(ctx)
	defer cancel()

	release, err := service.locks.acquire(ctx, identity.UserID)
	if err != nil {
		return ConsumeResult{}, storageError(ctx, "consume", err)
	}
	defer release()

	today := service.today()
	if _, err := service.ensureProfile(ctx, identity, today); err != nil {
		return ConsumeResult{}, storageError(ctx, "consume", err)
	}

	var result ConsumeResult
	rejected := false
	err = service.ledger.InUserTx(ctx, func(tx LedgerTx) error {
		if idempotencyKey != "" {
			receipt, found, err := tx.FindReceipt(identity.UserID, idempotencyKey)
			if err != nil {
				return err
			}
			if found && receiptExpired(receipt, service.now(), service.receiptTTL) {
				if err := tx.DeleteReceipt(identity.UserID, idempotencyKey); err != nil {
					return err
				}
				found = false
			}
			if found {
				result, err = replayReceipt(receipt, requestHash)
				return err
			}
		}

		profile, err := tx.LockProfile(identity.UserID)
		if err != nil {
			return err
		}
		profile, rolledOver := RolloverIfNeeded(profile, today)

		balance := ResolveBalance(profile, service.policy.DailyAllowance(profile.SubscriptionTier))
		if balance.Total.LessThan(price.Cost) {
			rejected = true
			if rolledOver {
				return tx.SaveProfile(&profile)
			}
			return nil
		}

		result, err = service.applyConsumption(tx, profile, categoryKey, price, SplitDebit(balance, price.Cost), metadata, today)
		if err != nil {
			return err
		}

		if idempotencyKey != "" {
			return service.storeReceipt(tx, identity.UserID, idempotencyKey, requestHash, result)
		}
		return nil
	})
	if errors.Is(err, ErrIdempotencyConflict) {
		return ConsumeResult{}, err
	}
	if err != nil {
		return ConsumeResult{}, storageError(ctx, "consume", err)
	}
	if rejected {
		return ConsumeResult{}, ErrInsufficientCredits
	}

	if !result.Replayed {
		recordConsumption(result)
	}
	return result, nil
}

// applyConsumption writes the debit and everything it earns. before is the
// rolled-over profile as locked; progression is derived from it once.
func (service *LedgerService) applyConsumption(
	tx LedgerTx,
	before models.AccountProfile,
	category string,
	price config.Category,
	split Breakdown,
	metadata map[string]any,
	today string,
) (ConsumeResult, error) {
	after := before
	after.DailyCreditsUsed = before.DailyCreditsUsed.Add(split.Daily)
	after.TotalCredits = before.TotalCredits.Sub(split.Purchased)
	after.LastResetDate = today
	after.ExperiencePoints = before.ExperiencePoints + price.XP
	after.CurrentStreak, after.LongestStreak = NextStreak(before.CurrentStreak, before.LongestStreak, before.LastActivityDate, today)
	after.LastActivityDate = today
	after.TotalGenerations = before.TotalGenerations + 1
	after.TotalSavedMoney = before.TotalSavedMoney.Add(price.MarketValue)

	transactionType := models.TransactionPurchaseUse
	if split.Daily.IsPositive() {
		transactionType = models.TransactionDailyUse
	}
	debit := models.CreditTransaction{
		UserID:      before.UserID,
		Amount:      price.Cost.Neg(),
		Category:    category,
		Type:        transactionType,
		Description: price.Name,
		Metadata:    debitMetadata(metadata, split, price),
	}
	if err := tx.AppendTransaction(&debit); err != nil {
		return ConsumeResult{}, err
	}

	progress := Progress{
		Category:         category,
		Streak:           after.CurrentStreak,
		TotalGenerations: after.TotalGenerations,
	}
	if tracksCategory(service.catalog, category) {
		count, err := tx.CountCategoryDebits(before.UserID, category)
		if err != nil {
			return ConsumeResult{}, err
		}
		progress.CategoryCount = count
	}

	unlocked := make([]UnlockedAchievement, 0)
	var bonusXP int64
	for _, achievement := range CandidateAchievements(service.catalog, progress) {
		granted, err := service.grantAchievement(tx, &after, achievement)
		if err != nil {
			return ConsumeResult{}, err
		}
		if !granted {
			continue
		}
		bonusXP += achievement.RewardXP
		unlocked = append(unlocked, UnlockedAchievement{
			Code:          achievement.Code,
			Name:          achievement.Name,
			RewardCredits: achievement.RewardCredits,
			RewardXP:      achievement.RewardXP,
		})
	}

	levelUnit := service.policy.Levels.XPPerLevelUnit
	oldLevel := LevelForXP(before.ExperiencePoints, levelUnit)
	after.Level = LevelForXP(after.ExperiencePoints, levelUnit)
	leveledUp := after.Level > oldLevel
	if leveledUp {
		if err := tx.InsertNotification(&models.Notification{
			UserID:    before.UserID,
			Type:      models.NotificationLevelUp,
			Title:     "Level up!",
			Message:   fmt.Sprintf("You reached level %d.", after.Level),
			ActionURL: "/dashboard",
		}); err != nil {
			return ConsumeResult{}, err
		}
	}

	if err := tx.SaveProfile(&after); err != nil {
		return ConsumeResult{}, err
	}

	return ConsumeResult{
		Category:    category,
		CreditsUsed: price.Cost,
		Breakdown:   split,
		Remaining:   ResolveBalance(after, service.policy.DailyAllowance(after.SubscriptionTier)),
		XP: XPResult{
			Gained:    price.XP,
			Bonus:     bonusXP,
			Total:     after.ExperiencePoints,
			OldLevel:  oldLevel,
			NewLevel:  after.Level,
			LeveledUp: leveledUp,
		},
		SavedMoney:      price.MarketValue,
		TotalSavedMoney: after.TotalSavedMoney,
		Streak:          StreakState{Current: after.CurrentStreak, Longest: after.LongestStreak},
		Achievements:    unlocked,
	}, nil
}

// grantAchievement unlocks achievement once per user and applies its rewards
// to profile. It reports false when the user already had it.
func (service *LedgerService) grantAchievement(tx LedgerTx, profile *models.AccountProfile, achievement models.Achievement) (bool, error) {
	owned, err := tx.HasAchievement(profile.UserID, achievement.Code)
	if err != nil || owned {
		return false, err
	}

	if err := tx.InsertUserAchievement(&models.UserAchievement{
		UserID:          profile.UserID,
		AchievementCode: achievement.Code,
		EarnedAt:        service.now().UTC(),
	}); err != nil {
		return false, err
	}

	profile.ExperiencePoints += achievement.RewardXP
	if achievement.RewardCredits.IsPositive() {
		profile.TotalCredits = profile.TotalCredits.Add(achievement.RewardCredits)
		if err := tx.AppendTransaction(&models.CreditTransaction{
			UserID:      profile.UserID,
			Amount:      achievement.RewardCredits,
			Category:    models.CategoryAchievementReward,
			Type:        models.TransactionOther,
			Description: "Achievement reward: " + achievement.Name,
			Metadata:    datatypes.JSONMap{"achievement_code": achievement.Code},
		}); err != nil {
			return false, err
		}
	}

	message := achievement.Description
	if achievement.RewardCredits.IsPositive() {
		message = strings.TrimSpace(fmt.Sprintf("%s +%s credits.", message, achievement.RewardCredits.String()))
	}
	if err := tx.InsertNotification(&models.Notification{
		UserID:    profile.UserID,
		Type:      models.NotificationAchievement,
		Title:     "Achievement unlocked: " + achievement.Name,
		Message:   message,
		ActionURL: "/achievements",
	}); err != nil {
		return false, err
	}

	return true, nil
}

func (service *LedgerService) storeReceipt(tx LedgerTx, userID string, key string, requestHash string, result ConsumeResult) error {
	response, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode consume receipt: %w", err)
	}
	return tx.SaveReceipt(&models.ConsumeReceipt{
		UserID:         userID,
		IdempotencyKey: key,
		RequestHash:    requestHash,
		Response:       datatypes.JSON(response),
		CreatedAt:      service.now().UTC(),
	})
}

// AddCredits credits the caller's purchased balance.
func (service *LedgerService) AddCredits(ctx context.Context, identity Identity, amount decimal.Decimal, description string, transactionType string) (CreditResult, error) {
	defer metrics.ObserveOperation("add_credits", time.Now())

	if err := requireVerifiedIdentity(identity); err != nil {
		return CreditResult{}, err
	}
	return service.credit(ctx, identity, amount, description, transactionType)
}

// GrantCredits is the operator path used by billing hooks and the CLI. It does
// not apply the caller checks of AddCredits.
func (service *LedgerService) GrantCredits(ctx context.Context, userID string, amount decimal.Decimal, description string, transactionType string) (CreditResult, error) {
	defer metrics.ObserveOperation("grant_credits", time.Now())

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return CreditResult{}, fmt.Errorf("%w: user id is required", ErrInvalidLedgerRequest)
	}
	return service.credit(ctx, Identity{UserID: userID}, amount, description, transactionType)
}

func (service *LedgerService) credit(ctx context.Context, identity Identity, amount decimal.Decimal, description string, transactionType string) (CreditResult, error) {
	if !amount.IsPositive() || !models.FitsCreditColumn(amount) {
		return CreditResult{}, ErrInvalidAmount
	}
	transactionType = config.NormalizeKey(transactionType)
	if transactionType == "" {
		transactionType = models.TransactionPurchase
	}
	if !models.IsCreditTransactionType(transactionType) {
		return CreditResult{}, ErrInvalidTransactionType
	}
	description = strings.TrimSpace(description)
	if description == "" {
		description = "Credit purchase"
	}

	ctx, cancel := service.withBudget(ctx)
	defer cancel()

	release, err := service.locks.acquire(ctx, identity.UserID)
	if err != nil {
		return CreditResult{}, storageError(ctx, "add credits", err)
	}
	defer release()

	existing, err := service.ensureProfile(ctx, identity, service.today())
	if err != nil {
		return CreditResult{}, storageError(ctx, "add credits", err)
	}
	if !models.FitsCreditColumn(existing.TotalCredits.Add(amount)) {
		return CreditResult{}, fmt.Errorf("%w: balance would exceed %s", ErrInvalidAmount, models.MaxCreditAmount)
	}

	var result CreditResult
	err = service.ledger.InUserTx(ctx, func(tx LedgerTx) error {
		profile, err := tx.LockProfile(identity.UserID)
		if err != nil {
			return err
		}
		profile.TotalCredits = profile.TotalCredits.Add(amount)

		if err := tx.AppendTransaction(&models.CreditTransaction{
			UserID:      identity.UserID,
			Amount:      amount,
			Type:        transactionType,
			Description: description,
		}); err != nil {
			return err
		}
		if err := tx.SaveProfile(&profile); err != nil {
			return err
		}

		result = CreditResult{CreditsAdded: amount, NewBalance: profile.TotalCredits}
		return nil
	})
	if err != nil {
		return CreditResult{}, storageError(ctx, "add credits", err)
	}

	metrics.AddDecimal(metrics.CreditsAdded.WithLabelValues(transactionType), amount)
	return result, nil
}

// SetTier moves a user to another subscription tier. The new allowance applies
// to the current day immediately; usage already recorded today is kept.
func (service *LedgerService) SetTier(ctx context.Context, userID string, tier string) (BalanceView, error) {
	defer metrics.ObserveOperation("set_tier", time.Now())

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return BalanceView{}, fmt.Errorf("%w: user id is required", ErrInvalidLedgerRequest)
	}
	tier = config.NormalizeKey(tier)
	if _, ok := service.policy.Tiers[tier]; !ok || !models.IsKnownTier(tier) {
		return BalanceView{}, fmt.Errorf("%w: unknown tier %q", ErrInvalidLedgerRequest, tier)
	}

	ctx, cancel := service.withBudget(ctx)
	defer cancel()

	release, err := service.locks.acquire(ctx, userID)
	if err != nil {
		return BalanceView{}, storageError(ctx, "set tier", err)
	}
	defer release()

	today := service.today()
	profile, err := service.ensureProfile(ctx, Identity{UserID: userID}, today)
	if err != nil {
		return BalanceView{}, storageError(ctx, "set tier", err)
	}
	if err := service.profiles.UpdateTier(ctx, userID, tier); err != nil {
		return BalanceView{}, storageError(ctx, "set tier", err)
	}
	profile.SubscriptionTier = tier

	profile, changed := RolloverIfNeeded(profile, today)
	if changed {
		if _, err := service.profiles.ResetDailyUsage(ctx, userID, today); err != nil {
			return BalanceView{}, storageError(ctx, "set tier", err)
		}
	}

	log.Printf("ledger: user %s moved to tier %s", userID, tier)
	return service.balanceView(profile), nil
}

func (service *LedgerService) ListTransactions(ctx context.Context, identity Identity, limit int) ([]models.CreditTransaction, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	ctx, cancel := service.withBudget(ctx)
	defer cancel()

	entries, err := service.transactions.ListByUser(ctx, identity.UserID, clampHistoryLimit(limit))
	if err != nil {
		return nil, storageError(ctx, "list transactions", err)
	}
	return entries, nil
}

func (service *LedgerService) ListNotifications(ctx context.Context, identity Identity, limit int) ([]models.Notification, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	ctx, cancel := service.withBudget(ctx)
	defer cancel()

	notifications, err := service.notifications.ListByUser(ctx, identity.UserID, clampHistoryLimit(limit))
	if err != nil {
		return nil, storageError(ctx, "list notifications", err)
	}
	return notifications, nil
}

// ListAchievements returns the active catalog with the caller's unlock state.
func (service *LedgerService) ListAchievements(ctx context.Context, identity Identity) ([]AchievementProgress, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	ctx, cancel := service.withBudget(ctx)
	defer cancel()

	catalog, err := service.achievements.ListActive(ctx)
	if err != nil {
		return nil, storageError(ctx, "list achievements", err)
	}
	unlocks, err := service.achievements.ListUnlocked(ctx, identity.UserID)
	if err != nil {
		return nil, storageError(ctx, "list achievements", err)
	}

	earned := make(map[string]time.Time, len(unlocks))
	for _, unlock := range unlocks {
		earned[unlock.AchievementCode] = unlock.EarnedAt
	}

	progress := make([]AchievementProgress, 0, len(catalog))
	for _, achievement := range catalog {
		entry := AchievementProgress{Achievement: achievement}
		if earnedAt, ok := earned[achievement.Code]; ok {
			entry.Unlocked = true
			entry.EarnedAt = &earnedAt
		}
		progress = append(progress, entry)
	}
	return progress, nil
}

func (service *LedgerService) ensureProfile(ctx context.Context, identity Identity, today string) (models.AccountProfile, error) {
	profile, err := service.profiles.Ensure(ctx, models.NewAccountProfile(identity.UserID, identity.Email, identity.EmailVerified, today))
	if err != nil {
		return models.AccountProfile{}, err
	}

	// Operator grants carry no identity claims and must not erase them.
	if identity.Email == "" && !identity.EmailVerified {
		return profile, nil
	}
	if profile.Email != identity.Email || profile.EmailVerified != identity.EmailVerified {
		if err := service.profiles.SyncIdentity(ctx, identity.UserID, identity.Email, identity.EmailVerified); err != nil {
			return models.AccountProfile{}, err
		}
		profile.Email = identity.Email
		profile.EmailVerified = identity.EmailVerified
	}
	return profile, nil
}

func (service *LedgerService) balanceView(profile models.AccountProfile) BalanceView {
	return BalanceView{
		Balance: ResolveBalance(profile, service.policy.DailyAllowance(profile.SubscriptionTier)),
		Tier:    profile.SubscriptionTier,
		Level:   LevelForXP(profile.ExperiencePoints, service.policy.Levels.XPPerLevelUnit),
		XP:      profile.ExperiencePoints,
		Streak:  StreakState{Current: profile.CurrentStreak, Longest: profile.LongestStreak},
	}
}

func (service *LedgerService) withBudget(ctx context.Context) (context.Context, context.CancelFunc) {
	if service.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, service.timeout)
}

func (service *LedgerService) today() string {
	return LedgerDate(service.now())
}

func requireIdentity(identity Identity) error {
	if strings.TrimSpace(identity.UserID) == "" {
		return ErrUnauthenticated
	}
	return nil
}

func requireVerifiedIdentity(identity Identity) error {
	if err := requireIdentity(identity); err != nil {
		return err
	}
	if !identity.EmailVerified {
		return ErrEmailNotVerified
	}
	return nil
}

func debitMetadata(metadata map[string]any, split Breakdown, price config.Category) datatypes.JSONMap {
	enriched := make(datatypes.JSONMap, len(metadata)+4)
	for key, value := range metadata {
		enriched[key] = value
	}
	enriched["daily_used"] = split.Daily.String()
	enriched["purchased_used"] = split.Purchased.String()
	enriched["xp_gained"] = price.XP
	enriched["market_value"] = price.MarketValue.String()
	return enriched
}

func clampHistoryLimit(limit int) int {
	if limit <= 0 {
		return defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		return maxHistoryLimit
	}
	return limit
}

func recordConsumption(result ConsumeResult) {
	metrics.AddDecimal(metrics.CreditsDebited.WithLabelValues("daily"), result.Breakdown.Daily)
	metrics.AddDecimal(metrics.CreditsDebited.WithLabelValues("purchased"), result.Breakdown.Purchased)
	for _, achievement := range result.Achievements {
		metrics.AchievementUnlocks.WithLabelValues(achievement.Code).Inc()
	}
	if result.XP.LeveledUp {
		metrics.LevelUps.Inc()
	}
}

func consumeOutcome(result ConsumeResult, err error) string {
	switch {
	case err == nil && result.Replayed:
		return metrics.OutcomeReplayed
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrInsufficientCredits):
		return "insufficient_credits"
	case errors.Is(err, ErrInvalidCategory):
		return "invalid_category"
	case errors.Is(err, ErrEmailNotVerified), errors.Is(err, ErrUnauthenticated):
		return "rejected"
	case errors.Is(err, ErrIdempotencyConflict):
		return "idempotency_conflict"
	case errors.Is(err, ErrLedgerTimeout):
		return "timeout"
	default:
		return "error"
	}
}
