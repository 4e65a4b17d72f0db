package services

import (
	"time"

	"github.com/guilhermesealves/functions-site-boost-sub001/internal/models"
	"github.com/shopspring/decimal"
)

const ledgerDateLayout = "2006-01-02"

type DailyBalance struct {
	Used      decimal.Decimal `json:"used"`
	Limit     decimal.Decimal `json:"limit"`
	Remaining decimal.Decimal `json:"remaining"`
}

type Balance struct {
	Daily     DailyBalance    `json:"daily"`
	Purchased decimal.Decimal `json:"purchased"`
	Total     decimal.Decimal `json:"total"`
}

type Breakdown struct {
	Daily     decimal.Decimal `json:"daily"`
	Purchased decimal.Decimal `json:"purchased"`
}

// LedgerDate formats the UTC calendar date used for every day-boundary check.
func LedgerDate(now time.Time) string {
	return now.UTC().Format(ledgerDateLayout)
}

// RolloverIfNeeded starts a new daily allowance when the profile was last
// reset on another day. It is the single place that decides a rollover.
func RolloverIfNeeded(profile models.AccountProfile, today string) (models.AccountProfile, bool) {
	if profile.LastResetDate == today {
		return profile, false
	}
	profile.DailyCreditsUsed = decimal.Zero
	profile.LastResetDate = today
	return profile, true
}

// ResolveBalance assumes the profile was already rolled over for today.
// Purchased credits are reported as stored, never clamped.
func ResolveBalance(profile models.AccountProfile, allowance decimal.Decimal) Balance {
	remaining := allowance.Sub(profile.DailyCreditsUsed)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	if remaining.GreaterThan(allowance) {
		remaining = allowance
	}

	return Balance{
		Daily: DailyBalance{
			Used:      profile.DailyCreditsUsed,
			Limit:     allowance,
			Remaining: remaining,
		},
		Purchased: profile.TotalCredits,
		Total:     remaining.Add(profile.TotalCredits),
	}
}

// SplitDebit takes as much of cost as possible from the daily allowance and
// the rest from purchased credits. The parts always sum to cost exactly.
func SplitDebit(balance Balance, cost decimal.Decimal) Breakdown {
	daily := decimal.Min(balance.Daily.Remaining, cost)
	if daily.IsNegative() {
		daily = decimal.Zero
	}
	return Breakdown{
		Daily:     daily,
		Purchased: cost.Sub(daily),
	}
}
