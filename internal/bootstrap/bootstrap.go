package bootstrap

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/api"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/config"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/db"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/i18n"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/services"
	"gorm.io/gorm"
)

// Ledger is an opened store with the ledger service wired on top of it.
type Ledger struct {
	Database *gorm.DB
	Service  *services.LedgerService
	Exports  *services.ExportService
}

// OpenLedger connects to the configured store, applies migrations, loads the
// policy and syncs the achievement catalog.
func OpenLedger(ctx context.Context, settings config.Settings) (*Ledger, error) {
	policy, err := config.LoadPolicy(settings.PolicyPath)
	if err != nil {
		return nil, fmt.Errorf("policy init failed: %w", err)
	}

	database, err := db.Open(settings.DBDriver, settings.DSN())
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	repositories := db.NewRepositories(database)
	service := services.NewLedgerService(repositories, policy, services.LedgerOptions{
		OperationTimeout: settings.OperationTimeout,
		IdempotencyTTL:   settings.IdempotencyTTL,
	})
	if err := service.SyncCatalog(ctx); err != nil {
		_ = closeDatabase(database)
		return nil, fmt.Errorf("achievement catalog sync failed: %w", err)
	}

	return &Ledger{
		Database: database,
		Service:  service,
		Exports:  services.NewExportService(repositories.Transactions, settings.OperationTimeout),
	}, nil
}

func (ledger *Ledger) Close() error {
	return closeDatabase(ledger.Database)
}

// NewApp builds the HTTP application served by both the listener and the
// Lambda entrypoint.
func NewApp(ledger *Ledger, settings config.Settings) (*fiber.App, error) {
	i18nManager, err := i18n.NewManager(settings.DefaultLanguage)
	if err != nil {
		return nil, fmt.Errorf("i18n init failed: %w", err)
	}

	handler, err := api.NewHandler(ledger.Service, ledger.Exports, settings.SecretKey, settings.AdminKeyHash, i18nManager)
	if err != nil {
		return nil, fmt.Errorf("handler init failed: %w", err)
	}
	return api.NewApp(handler), nil
}

func closeDatabase(database *gorm.DB) error {
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
