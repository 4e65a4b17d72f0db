package services

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrExportFromDateInvalid = errors.New("export invalid from date")
	ErrExportToDateInvalid   = errors.New("export invalid to date")
	ErrExportRangeInvalid    = errors.New("export invalid range")
)

// ExportRange bounds an export by ledger day. Nil bounds are open and Until is
// exclusive, so a "to" day is included in full.
type ExportRange struct {
	From  *time.Time
	Until *time.Time
}

func ParseExportRange(rawFrom string, rawTo string) (ExportRange, error) {
	fromRaw := strings.TrimSpace(rawFrom)
	toRaw := strings.TrimSpace(rawTo)

	exportRange := ExportRange{}
	if fromRaw != "" {
		from, err := time.ParseInLocation(ledgerDateLayout, fromRaw, time.UTC)
		if err != nil {
			return ExportRange{}, ErrExportFromDateInvalid
		}
		exportRange.From = &from
	}

	if toRaw != "" {
		to, err := time.ParseInLocation(ledgerDateLayout, toRaw, time.UTC)
		if err != nil {
			return ExportRange{}, ErrExportToDateInvalid
		}
		until := to.AddDate(0, 0, 1)
		exportRange.Until = &until
	}

	if exportRange.From != nil && exportRange.Until != nil && !exportRange.Until.After(*exportRange.From) {
		return ExportRange{}, ErrExportRangeInvalid
	}
	return exportRange, nil
}
