package cli

import (
	"fmt"
	"time"

	"github.com/guilhermesealves/functions-site-boost-sub001/internal/api"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/config"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/services"
	"github.com/spf13/cobra"
)

func newTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token USER_ID",
		Short: "Issue a bearer token for local development",
		Long: `Sign a bearer token with SECRET_KEY carrying the given identity claims.
Production tokens come from the identity provider.`,
		Args: cobra.ExactArgs(1),
		RunE: runToken,
	}
	cmd.Flags().String("email", "", "Email claim")
	cmd.Flags().Bool("verified", true, "Mark the email as verified")
	cmd.Flags().Duration("ttl", time.Hour, "Token lifetime")
	return cmd
}

func runToken(cmd *cobra.Command, args []string) error {
	secretKey, err := config.ResolveSecretKey()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	email, _ := cmd.Flags().GetString("email")
	verified, _ := cmd.Flags().GetBool("verified")
	ttl, _ := cmd.Flags().GetDuration("ttl")

	token, err := api.IssueAccessToken(secretKey, services.Identity{
		UserID:        args[0],
		Email:         email,
		EmailVerified: verified,
	}, ttl, time.Now())
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
