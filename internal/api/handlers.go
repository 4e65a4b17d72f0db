package api

import (
	"errors"
	"strings"
	"time"

	"github.com/guilhermesealves/functions-site-boost-sub001/internal/i18n"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/services"
)

type Handler struct {
	ledger       *services.LedgerService
	exports      *services.ExportService
	secretKey    []byte
	adminKeyHash string
	i18n         *i18n.Manager
	adminLimiter *attemptLimiter
	now          func() time.Time
}

func NewHandler(ledger *services.LedgerService, exports *services.ExportService, secret string, adminKeyHash string, i18nManager *i18n.Manager) (*Handler, error) {
	if ledger == nil {
		return nil, errors.New("ledger service is required")
	}
	if exports == nil {
		return nil, errors.New("export service is required")
	}
	if i18nManager == nil {
		return nil, errors.New("i18n manager is required")
	}
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("secret key is required")
	}

	return &Handler{
		ledger:       ledger,
		exports:      exports,
		secretKey:    []byte(secret),
		adminKeyHash: strings.TrimSpace(adminKeyHash),
		i18n:         i18nManager,
		adminLimiter: newAttemptLimiter(adminKeyAttemptLimit, adminKeyAttemptWindow),
		now:          time.Now,
	}, nil
}
