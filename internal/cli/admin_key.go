package cli

import (
	"errors"
	"fmt"

	"github.com/guilhermesealves/functions-site-boost-sub001/internal/security"
	"github.com/spf13/cobra"
)

func newAdminKeyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin-key",
		Short: "Generate an operator key and its ADMIN_KEY_HASH",
		Long: `Generate a fresh operator key for the admin endpoints and print the bcrypt
hash to configure as ADMIN_KEY_HASH. With --hash, an existing key is read from
stdin instead and only its hash is printed.`,
		Args: cobra.NoArgs,
		RunE: runAdminKey,
	}
	cmd.Flags().Bool("hash", false, "Hash an existing key read from stdin")
	return cmd
}

func runAdminKey(cmd *cobra.Command, _ []string) error {
	hashOnly, _ := cmd.Flags().GetBool("hash")
	out := cmd.OutOrStdout()

	key := ""
	if hashOnly {
		secret, err := promptSecret(cmd, "Admin key")
		if err != nil {
			return fmt.Errorf("read admin key: %w", err)
		}
		if secret == "" {
			return errors.New("admin key is required")
		}
		key = secret
	} else {
		generated, err := security.GenerateAdminKey()
		if err != nil {
			return fmt.Errorf("generate admin key: %w", err)
		}
		key = generated
	}

	hash, err := security.HashAdminKey(key)
	if err != nil {
		return fmt.Errorf("hash admin key: %w", err)
	}

	if !hashOnly {
		fmt.Fprintf(out, "Admin key: %s\n", key)
		fmt.Fprintln(out, "Store it now; only the hash below is kept by the server.")
	}
	fmt.Fprintf(out, "ADMIN_KEY_HASH=%s\n", hash)
	return nil
}
