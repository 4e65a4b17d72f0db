package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the siteboost command tree. Running it without a
// subcommand starts the HTTP server.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "siteboost",
		Short: "Credit and progression ledger for site generations",
		Long: `siteboost meters AI generations against a daily allowance and purchased
credits, and tracks experience, streaks and achievements per user.

Configuration is read from the environment (SECRET_KEY, PORT, DB_DRIVER,
DB_PATH, DATABASE_URL, LEDGER_POLICY_PATH, ADMIN_KEY_HASH).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          runServe,
	}

	root.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newGrantCommand(),
		newBalanceCommand(),
		newSetTierCommand(),
		newAdminKeyCommand(),
		newTokenCommand(),
	)
	return root
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
