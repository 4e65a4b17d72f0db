package services

import (
	"context"
	"fmt"
	"time"

	"github.com/guilhermesealves/functions-site-boost-sub001/internal/models"
	"github.com/shopspring/decimal"
)

const (
	exportTimeLayout        = "15:04:05"
	maxExportEntries        = 10000
	exportMetadataDaily     = "daily_used"
	exportMetadataPurchased = "purchased_used"
)

var ExportCSVHeaders = []string{
	"Date",
	"Time (UTC)",
	"Type",
	"Category",
	"Description",
	"Amount",
	"Daily credits",
	"Purchased credits",
}

type ExportTransactionReader interface {
	ListByUserInRange(ctx context.Context, userID string, from *time.Time, until *time.Time, limit int) ([]models.CreditTransaction, error)
}

// ExportService renders a user's ledger history for download.
type ExportService struct {
	transactions ExportTransactionReader
	timeout      time.Duration
}

type ExportSummary struct {
	TotalEntries int
	HasData      bool
	DateFrom     string
	DateTo       string
	Credited     decimal.Decimal
	Debited      decimal.Decimal
}

type ExportJSONEntry struct {
	Date             string          `json:"date"`
	Time             string          `json:"time"`
	Type             string          `json:"type"`
	Category         string          `json:"category"`
	Description      string          `json:"description"`
	Amount           decimal.Decimal `json:"amount"`
	DailyCredits     decimal.Decimal `json:"daily_credits"`
	PurchasedCredits decimal.Decimal `json:"purchased_credits"`
}

type ExportCSVRow struct {
	Date             string
	Time             string
	Type             string
	Category         string
	Description      string
	Amount           decimal.Decimal
	DailyCredits     decimal.Decimal
	PurchasedCredits decimal.Decimal
	Debit            bool
}

func NewExportService(transactions ExportTransactionReader, timeout time.Duration) *ExportService {
	return &ExportService{
		transactions: transactions,
		timeout:      timeout,
	}
}

func (service *ExportService) LoadTransactions(ctx context.Context, identity Identity, exportRange ExportRange) ([]models.CreditTransaction, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	if service.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, service.timeout)
		defer cancel()
	}

	entries, err := service.transactions.ListByUserInRange(ctx, identity.UserID, exportRange.From, exportRange.Until, maxExportEntries)
	if err != nil {
		return nil, storageError(ctx, "export transactions", err)
	}
	return entries, nil
}

func (service *ExportService) BuildSummary(ctx context.Context, identity Identity, exportRange ExportRange) (ExportSummary, error) {
	entries, err := service.LoadTransactions(ctx, identity, exportRange)
	if err != nil {
		return ExportSummary{}, err
	}

	summary := ExportSummary{Credited: decimal.Zero, Debited: decimal.Zero}
	if len(entries) == 0 {
		return summary, nil
	}

	first := entries[0].CreatedAt
	last := entries[0].CreatedAt
	for _, entry := range entries {
		if entry.CreatedAt.Before(first) {
			first = entry.CreatedAt
		}
		if entry.CreatedAt.After(last) {
			last = entry.CreatedAt
		}
		if entry.Amount.IsNegative() {
			summary.Debited = summary.Debited.Add(entry.Amount.Neg())
		} else {
			summary.Credited = summary.Credited.Add(entry.Amount)
		}
	}

	summary.TotalEntries = len(entries)
	summary.HasData = true
	summary.DateFrom = LedgerDate(first)
	summary.DateTo = LedgerDate(last)
	return summary, nil
}

func (service *ExportService) BuildJSONEntries(ctx context.Context, identity Identity, exportRange ExportRange) ([]ExportJSONEntry, error) {
	entries, err := service.LoadTransactions(ctx, identity, exportRange)
	if err != nil {
		return nil, err
	}

	result := make([]ExportJSONEntry, 0, len(entries))
	for _, entry := range entries {
		daily, purchased := exportDebitSplit(entry)
		result = append(result, ExportJSONEntry{
			Date:             LedgerDate(entry.CreatedAt),
			Time:             entry.CreatedAt.UTC().Format(exportTimeLayout),
			Type:             entry.Type,
			Category:         entry.Category,
			Description:      entry.Description,
			Amount:           entry.Amount,
			DailyCredits:     daily,
			PurchasedCredits: purchased,
		})
	}
	return result, nil
}

func (service *ExportService) BuildCSVRows(ctx context.Context, identity Identity, exportRange ExportRange) ([]ExportCSVRow, error) {
	entries, err := service.LoadTransactions(ctx, identity, exportRange)
	if err != nil {
		return nil, err
	}

	rows := make([]ExportCSVRow, 0, len(entries))
	for _, entry := range entries {
		daily, purchased := exportDebitSplit(entry)
		rows = append(rows, ExportCSVRow{
			Date:             LedgerDate(entry.CreatedAt),
			Time:             entry.CreatedAt.UTC().Format(exportTimeLayout),
			Type:             csvTransactionLabel(entry.Type),
			Category:         entry.Category,
			Description:      entry.Description,
			Amount:           entry.Amount,
			DailyCredits:     daily,
			PurchasedCredits: purchased,
			Debit:            entry.Amount.IsNegative(),
		})
	}
	return rows, nil
}

func (row ExportCSVRow) Columns() []string {
	splitColumn := func(value decimal.Decimal) string {
		if !row.Debit {
			return ""
		}
		return value.String()
	}

	return []string{
		row.Date,
		row.Time,
		row.Type,
		row.Category,
		row.Description,
		row.Amount.String(),
		splitColumn(row.DailyCredits),
		splitColumn(row.PurchasedCredits),
	}
}

// exportDebitSplit reads the daily/purchased split recorded on debits. Entries
// written without it report the whole debit against the source the type names.
func exportDebitSplit(entry models.CreditTransaction) (decimal.Decimal, decimal.Decimal) {
	if !entry.Amount.IsNegative() {
		return decimal.Zero, decimal.Zero
	}

	daily, dailyOK := metadataDecimal(entry, exportMetadataDaily)
	purchased, purchasedOK := metadataDecimal(entry, exportMetadataPurchased)
	if dailyOK && purchasedOK {
		return daily, purchased
	}

	cost := entry.Amount.Neg()
	if entry.Type == models.TransactionPurchaseUse {
		return decimal.Zero, cost
	}
	return cost, decimal.Zero
}

func metadataDecimal(entry models.CreditTransaction, key string) (decimal.Decimal, bool) {
	raw, ok := entry.Metadata[key]
	if !ok {
		return decimal.Zero, false
	}
	value, err := decimal.NewFromString(fmt.Sprint(raw))
	if err != nil {
		return decimal.Zero, false
	}
	return value, true
}

func csvTransactionLabel(transactionType string) string {
	switch transactionType {
	case models.TransactionDailyUse:
		return "Daily use"
	case models.TransactionPurchaseUse:
		return "Purchased use"
	case models.TransactionPurchase:
		return "Purchase"
	default:
		return "Other"
	}
}
