package main

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/bootstrap"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/config"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/db"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/lambdaproxy"
)

func main() {
	settings, err := lambdaSettings()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// One ledger per execution environment; Lambda reuses it across invocations.
	proxy, _, err := newProxy(context.Background(), settings)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	lambda.Start(proxy.Handle)
}

// lambdaSettings defaults the store to Postgres. The filesystem of a function
// is not durable, so SQLite is only used when DB_DRIVER asks for it.
func lambdaSettings() (config.Settings, error) {
	if strings.TrimSpace(os.Getenv("DB_DRIVER")) == "" {
		if strings.TrimSpace(os.Getenv("DATABASE_URL")) == "" {
			return config.Settings{}, errors.New("DATABASE_URL is required")
		}
		if err := os.Setenv("DB_DRIVER", db.DriverPostgres); err != nil {
			return config.Settings{}, err
		}
	}
	return config.Load()
}

func newProxy(ctx context.Context, settings config.Settings) (*lambdaproxy.Proxy, *bootstrap.Ledger, error) {
	ledger, err := bootstrap.OpenLedger(ctx, settings)
	if err != nil {
		return nil, nil, err
	}
	app, err := bootstrap.NewApp(ledger, settings)
	if err != nil {
		_ = ledger.Close()
		return nil, nil, err
	}
	return lambdaproxy.New(app), ledger, nil
}
