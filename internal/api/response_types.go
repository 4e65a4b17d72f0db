package api

import (
	"time"

	"github.com/guilhermesealves/functions-site-boost-sub001/internal/models"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/services"
)

type dailyBalanceResponse struct {
	Used      float64 `json:"used"`
	Limit     float64 `json:"limit"`
	Remaining float64 `json:"remaining"`
}

type remainingResponse struct {
	Daily     dailyBalanceResponse `json:"daily"`
	Purchased float64              `json:"purchased"`
	Total     float64              `json:"total"`
}

type streakResponse struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

type balanceResponse struct {
	remainingResponse
	Tier   string         `json:"tier"`
	Level  int            `json:"level"`
	XP     int64          `json:"xp"`
	Streak streakResponse `json:"streak"`
}

type breakdownResponse struct {
	Daily     float64 `json:"daily"`
	Purchased float64 `json:"purchased"`
}

type xpResponse struct {
	Gained    int64 `json:"gained"`
	Bonus     int64 `json:"bonus"`
	Total     int64 `json:"total"`
	OldLevel  int   `json:"oldLevel"`
	NewLevel  int   `json:"newLevel"`
	LeveledUp bool  `json:"leveledUp"`
}

type unlockedAchievementResponse struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	RewardCredits float64 `json:"rewardCredits"`
	RewardXP      int64   `json:"rewardXp"`
}

type consumeResponse struct {
	Category        string                        `json:"category"`
	CreditsUsed     float64                       `json:"creditsUsed"`
	Breakdown       breakdownResponse             `json:"breakdown"`
	Remaining       remainingResponse             `json:"remaining"`
	XP              xpResponse                    `json:"xp"`
	SavedMoney      float64                       `json:"savedMoney"`
	TotalSavedMoney float64                       `json:"totalSavedMoney"`
	Streak          streakResponse                `json:"streak"`
	Achievements    []unlockedAchievementResponse `json:"achievements"`
	Replayed        bool                          `json:"replayed"`
}

type creditResponse struct {
	CreditsAdded float64 `json:"creditsAdded"`
	NewBalance   float64 `json:"newBalance"`
}

type transactionResponse struct {
	ID          string         `json:"id"`
	Amount      float64        `json:"amount"`
	Category    string         `json:"category,omitempty"`
	Type        string         `json:"type"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

type achievementResponse struct {
	Code                string     `json:"code"`
	Name                string     `json:"name"`
	Description         string     `json:"description"`
	Icon                string     `json:"icon"`
	RequirementType     string     `json:"requirementType"`
	RequirementCategory string     `json:"requirementCategory,omitempty"`
	RequirementValue    int64      `json:"requirementValue"`
	RewardCredits       float64    `json:"rewardCredits"`
	RewardXP            int64      `json:"rewardXp"`
	Unlocked            bool       `json:"unlocked"`
	EarnedAt            *time.Time `json:"earnedAt,omitempty"`
}

type notificationResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	ActionURL string    `json:"actionUrl,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

func newRemainingResponse(balance services.Balance) remainingResponse {
	return remainingResponse{
		Daily: dailyBalanceResponse{
			Used:      balance.Daily.Used.InexactFloat64(),
			Limit:     balance.Daily.Limit.InexactFloat64(),
			Remaining: balance.Daily.Remaining.InexactFloat64(),
		},
		Purchased: balance.Purchased.InexactFloat64(),
		Total:     balance.Total.InexactFloat64(),
	}
}

func newBalanceResponse(view services.BalanceView) balanceResponse {
	return balanceResponse{
		remainingResponse: newRemainingResponse(view.Balance),
		Tier:              view.Tier,
		Level:             view.Level,
		XP:                view.XP,
		Streak:            streakResponse(view.Streak),
	}
}

func newConsumeResponse(result services.ConsumeResult) consumeResponse {
	achievements := make([]unlockedAchievementResponse, 0, len(result.Achievements))
	for _, achievement := range result.Achievements {
		achievements = append(achievements, unlockedAchievementResponse{
			Code:          achievement.Code,
			Name:          achievement.Name,
			RewardCredits: achievement.RewardCredits.InexactFloat64(),
			RewardXP:      achievement.RewardXP,
		})
	}

	return consumeResponse{
		Category:    result.Category,
		CreditsUsed: result.CreditsUsed.InexactFloat64(),
		Breakdown: breakdownResponse{
			Daily:     result.Breakdown.Daily.InexactFloat64(),
			Purchased: result.Breakdown.Purchased.InexactFloat64(),
		},
		Remaining:       newRemainingResponse(result.Remaining),
		XP:              xpResponse(result.XP),
		SavedMoney:      result.SavedMoney.InexactFloat64(),
		TotalSavedMoney: result.TotalSavedMoney.InexactFloat64(),
		Streak:          streakResponse(result.Streak),
		Achievements:    achievements,
		Replayed:        result.Replayed,
	}
}

func newTransactionResponses(entries []models.CreditTransaction) []transactionResponse {
	response := make([]transactionResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, transactionResponse{
			ID:          entry.ID,
			Amount:      entry.Amount.InexactFloat64(),
			Category:    entry.Category,
			Type:        entry.Type,
			Description: entry.Description,
			Metadata:    entry.Metadata,
			CreatedAt:   entry.CreatedAt,
		})
	}
	return response
}

func newAchievementResponses(progress []services.AchievementProgress) []achievementResponse {
	response := make([]achievementResponse, 0, len(progress))
	for _, entry := range progress {
		achievement := entry.Achievement
		response = append(response, achievementResponse{
			Code:                achievement.Code,
			Name:                achievement.Name,
			Description:         achievement.Description,
			Icon:                achievement.Icon,
			RequirementType:     achievement.RequirementType,
			RequirementCategory: achievement.RequirementCategory,
			RequirementValue:    achievement.RequirementValue,
			RewardCredits:       achievement.RewardCredits.InexactFloat64(),
			RewardXP:            achievement.RewardXP,
			Unlocked:            entry.Unlocked,
			EarnedAt:            entry.EarnedAt,
		})
	}
	return response
}

func newNotificationResponses(notifications []models.Notification) []notificationResponse {
	response := make([]notificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		response = append(response, notificationResponse{
			ID:        notification.ID,
			Type:      notification.Type,
			Title:     notification.Title,
			Message:   notification.Message,
			ActionURL: notification.ActionURL,
			Read:      notification.Read,
			CreatedAt: notification.CreatedAt,
		})
	}
	return response
}
