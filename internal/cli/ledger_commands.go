package cli

import (
	"fmt"
	"io"
	"log"

	"github.com/guilhermesealves/functions-site-boost-sub001/internal/bootstrap"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/config"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/db"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/models"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/services"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.LoadStorage()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			database, err := db.Open(settings.DBDriver, settings.DSN())
			if err != nil {
				return fmt.Errorf("database init failed: %w", err)
			}
			if sqlDB, err := database.DB(); err == nil {
				defer sqlDB.Close()
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✅ Migrations applied (driver: %s)\n", settings.DBDriver)
			return nil
		},
	}
}

func newGrantCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grant USER_ID AMOUNT",
		Short: "Add purchased credits to a user",
		Long: `Add credits to a user's purchased balance, as a billing hook would.
The grant is recorded in the user's transaction history.`,
		Args: cobra.ExactArgs(2),
		RunE: runGrant,
	}
	cmd.Flags().StringP("description", "d", "Operator grant", "Description stored with the transaction")
	cmd.Flags().StringP("type", "t", models.TransactionPurchase, "Transaction type (purchase or other)")
	return cmd
}

func runGrant(cmd *cobra.Command, args []string) error {
	amount, err := decimal.NewFromString(args[1])
	if err != nil {
		return fmt.Errorf("invalid amount %q", args[1])
	}
	description, _ := cmd.Flags().GetString("description")
	transactionType, _ := cmd.Flags().GetString("type")

	return withOperatorLedger(cmd, func(ledger *bootstrap.Ledger) error {
		result, err := ledger.Service.GrantCredits(commandContext(cmd), args[0], amount, description, transactionType)
		if err != nil {
			return fmt.Errorf("grant credits: %w", err)
		}
		log.Printf("cli: granted %s credits to %s", result.CreditsAdded, args[0])

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✅ Granted %s credits to %s\n", result.CreditsAdded, args[0])
		fmt.Fprintf(out, "Purchased balance: %s\n", result.NewBalance)
		return nil
	})
}

func newBalanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "balance USER_ID",
		Short: "Show a user's credits and progression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withOperatorLedger(cmd, func(ledger *bootstrap.Ledger) error {
				view, err := ledger.Service.GetBalance(commandContext(cmd), services.Identity{UserID: args[0]})
				if err != nil {
					return fmt.Errorf("load balance: %w", err)
				}
				printBalance(cmd.OutOrStdout(), args[0], view)
				return nil
			})
		},
	}
}

func newSetTierCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-tier USER_ID TIER",
		Short: "Move a user to another subscription tier",
		Long:  `Move a user to another subscription tier (free, starter, pro or enterprise).`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withOperatorLedger(cmd, func(ledger *bootstrap.Ledger) error {
				view, err := ledger.Service.SetTier(commandContext(cmd), args[0], args[1])
				if err != nil {
					return fmt.Errorf("set tier: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✅ %s is now on the %s tier\n", args[0], view.Tier)
				printBalance(cmd.OutOrStdout(), args[0], view)
				return nil
			})
		},
	}
}

// withOperatorLedger opens the store without requiring the HTTP settings.
func withOperatorLedger(cmd *cobra.Command, run func(ledger *bootstrap.Ledger) error) error {
	settings, err := config.LoadStorage()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	ledger, err := bootstrap.OpenLedger(commandContext(cmd), settings)
	if err != nil {
		return err
	}
	defer ledger.Close()

	return run(ledger)
}

func printBalance(out io.Writer, userID string, view services.BalanceView) {
	fmt.Fprintf(out, "User:      %s (%s, level %d, %d xp)\n", userID, view.Tier, view.Level, view.XP)
	fmt.Fprintf(out, "Daily:     %s of %s remaining\n", view.Daily.Remaining, view.Daily.Limit)
	fmt.Fprintf(out, "Purchased: %s\n", view.Purchased)
	fmt.Fprintf(out, "Total:     %s\n", view.Total)
	fmt.Fprintf(out, "Streak:    %d (longest %d)\n", view.Streak.Current, view.Streak.Longest)
}
