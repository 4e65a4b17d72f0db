package services

import (
	"testing"
	"time"

	"github.com/guilhermesealves/functions-site-boost-sub001/internal/models"
	"github.com/shopspring/decimal"
)

func TestLedgerDateUsesUTC(t *testing.T) {
	location := time.FixedZone("UTC-3", -3*60*60)
	now := time.Date(2026, 3, 1, 22, 30, 0, 0, location)
	if got := LedgerDate(now); got != "2026-03-02" {
		t.Fatalf("expected UTC date 2026-03-02, got %q", got)
	}
}

func TestRolloverIfNeeded(t *testing.T) {
	profile := models.NewAccountProfile("user-1", "", true, "2026-03-01")
	profile.DailyCreditsUsed = decimal.NewFromInt(4)
	profile.TotalCredits = decimal.NewFromInt(7)

	same, changed := RolloverIfNeeded(profile, "2026-03-01")
	if changed {
		t.Fatal("expected no rollover on the same day")
	}
	if !same.DailyCreditsUsed.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("expected daily usage to be kept, got %s", same.DailyCreditsUsed)
	}

	next, changed := RolloverIfNeeded(profile, "2026-03-02")
	if !changed {
		t.Fatal("expected rollover on a new day")
	}
	if !next.DailyCreditsUsed.IsZero() || next.LastResetDate != "2026-03-02" {
		t.Fatalf("expected reset usage and date, got used=%s date=%s", next.DailyCreditsUsed, next.LastResetDate)
	}
	if !next.TotalCredits.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("expected purchased credits untouched, got %s", next.TotalCredits)
	}
	if !profile.DailyCreditsUsed.Equal(decimal.NewFromInt(4)) {
		t.Fatal("expected input profile to stay unmodified")
	}
}

func TestResolveBalance(t *testing.T) {
	cases := []struct {
		name          string
		used          string
		purchased     string
		allowance     int64
		wantRemaining string
		wantTotal     string
	}{
		{name: "fresh day", used: "0", purchased: "0", allowance: 5, wantRemaining: "5", wantTotal: "5"},
		{name: "partially used", used: "4", purchased: "0", allowance: 5, wantRemaining: "1", wantTotal: "1"},
		{name: "exhausted with purchases", used: "30", purchased: "50", allowance: 30, wantRemaining: "0", wantTotal: "50"},
		{name: "over used clamps to zero", used: "7", purchased: "2", allowance: 5, wantRemaining: "0", wantTotal: "2"},
		{name: "negative purchases not clamped", used: "1", purchased: "-2", allowance: 5, wantRemaining: "4", wantTotal: "2"},
		{name: "fractional usage", used: "1.25", purchased: "0.5", allowance: 15, wantRemaining: "13.75", wantTotal: "14.25"},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			profile := models.AccountProfile{
				DailyCreditsUsed: decimal.RequireFromString(testCase.used),
				TotalCredits:     decimal.RequireFromString(testCase.purchased),
			}
			balance := ResolveBalance(profile, decimal.NewFromInt(testCase.allowance))

			if !balance.Daily.Remaining.Equal(decimal.RequireFromString(testCase.wantRemaining)) {
				t.Fatalf("expected remaining %s, got %s", testCase.wantRemaining, balance.Daily.Remaining)
			}
			if !balance.Total.Equal(decimal.RequireFromString(testCase.wantTotal)) {
				t.Fatalf("expected total %s, got %s", testCase.wantTotal, balance.Total)
			}
			if balance.Daily.Remaining.IsNegative() || balance.Daily.Remaining.GreaterThan(balance.Daily.Limit) {
				t.Fatalf("remaining %s outside [0, %s]", balance.Daily.Remaining, balance.Daily.Limit)
			}
		})
	}
}

func TestSplitDebitConservesCost(t *testing.T) {
	cases := []struct {
		remaining     string
		cost          string
		wantDaily     string
		wantPurchased string
	}{
		{remaining: "1", cost: "1", wantDaily: "1", wantPurchased: "0"},
		{remaining: "0", cost: "1", wantDaily: "0", wantPurchased: "1"},
		{remaining: "0.25", cost: "3", wantDaily: "0.25", wantPurchased: "2.75"},
		{remaining: "5", cost: "0.1", wantDaily: "0.1", wantPurchased: "0"},
		{remaining: "0.3", cost: "0.7", wantDaily: "0.3", wantPurchased: "0.4"},
	}

	for _, testCase := range cases {
		balance := Balance{Daily: DailyBalance{Remaining: decimal.RequireFromString(testCase.remaining)}}
		cost := decimal.RequireFromString(testCase.cost)

		split := SplitDebit(balance, cost)
		if !split.Daily.Equal(decimal.RequireFromString(testCase.wantDaily)) ||
			!split.Purchased.Equal(decimal.RequireFromString(testCase.wantPurchased)) {
			t.Fatalf("remaining=%s cost=%s: expected %s/%s, got %s/%s",
				testCase.remaining, testCase.cost, testCase.wantDaily, testCase.wantPurchased, split.Daily, split.Purchased)
		}
		if !split.Daily.Add(split.Purchased).Equal(cost) {
			t.Fatalf("expected split to sum to %s, got %s", cost, split.Daily.Add(split.Purchased))
		}
	}
}
