package cli

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/guilhermesealves/functions-site-boost-sub001/internal/bootstrap"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/config"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the ledger HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	settings, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ledger, err := bootstrap.OpenLedger(commandContext(cmd), settings)
	if err != nil {
		return err
	}
	defer func() {
		if err := ledger.Close(); err != nil {
			log.Printf("database close failed: %v", err)
		}
	}()

	app, err := bootstrap.NewApp(ledger, settings)
	if err != nil {
		return err
	}
	if settings.AdminKeyHash == "" {
		log.Printf("ADMIN_KEY_HASH is not set; operator endpoints are disabled")
	}

	sigCtx, stopSignals := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(":" + settings.Port)
	}()
	log.Printf("siteboost listening on http://0.0.0.0:%s (db: %s)", settings.Port, settings.DBDriver)

	select {
	case err := <-listenErr:
		return fmt.Errorf("server exited: %w", err)
	case <-sigCtx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("server shutdown failed: %v", err)
	}
	return <-listenErr
}
