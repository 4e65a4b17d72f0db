package services

import (
	"math"
	"time"

	"github.com/guilhermesealves/functions-site-boost-sub001/internal/models"
)

// LevelForXP returns floor(sqrt(xp / unit)) + 1 using integer arithmetic, so
// level boundaries never drift with float rounding.
func LevelForXP(xp int64, unit int64) int {
	if xp <= 0 || unit <= 0 {
		return 1
	}

	steps := xp / unit
	root := int64(math.Sqrt(float64(steps)))
	for root*root > steps {
		root--
	}
	for (root+1)*(root+1) <= steps {
		root++
	}
	return int(root) + 1
}

func Yesterday(today string) string {
	day, err := time.Parse(ledgerDateLayout, today)
	if err != nil {
		return ""
	}
	return day.AddDate(0, 0, -1).Format(ledgerDateLayout)
}

// NextStreak applies one activity on today. Repeated activity within a day
// leaves the streak unchanged.
func NextStreak(current int, longest int, lastActivityDate string, today string) (int, int) {
	switch lastActivityDate {
	case today:
		if current < 1 {
			current = 1
		}
	case Yesterday(today):
		current++
	default:
		current = 1
	}

	if current > longest {
		longest = current
	}
	return current, longest
}

// Progress is the post-debit state achievement rules are checked against.
type Progress struct {
	Category         string
	CategoryCount    int64
	Streak           int
	TotalGenerations int64
}

// CandidateAchievements returns the active rules satisfied by progress.
// Category rules only fire for the category that was just consumed.
func CandidateAchievements(catalog []models.Achievement, progress Progress) []models.Achievement {
	candidates := make([]models.Achievement, 0)
	for _, achievement := range catalog {
		if !achievement.Active {
			continue
		}

		var reached bool
		switch achievement.RequirementType {
		case models.RequirementCategoryCount:
			reached = achievement.RequirementCategory == progress.Category &&
				progress.CategoryCount >= achievement.RequirementValue
		case models.RequirementStreak:
			reached = int64(progress.Streak) >= achievement.RequirementValue
		case models.RequirementTotalGenerations:
			reached = progress.TotalGenerations >= achievement.RequirementValue
		}
		if reached {
			candidates = append(candidates, achievement)
		}
	}
	return candidates
}

// tracksCategory reports whether any active rule needs the per-category count.
func tracksCategory(catalog []models.Achievement, category string) bool {
	for _, achievement := range catalog {
		if achievement.Active &&
			achievement.RequirementType == models.RequirementCategoryCount &&
			achievement.RequirementCategory == category {
			return true
		}
	}
	return false
}
