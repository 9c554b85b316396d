package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/slotfinder/internal/infrastructure/crypto"
)

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Generate a SLOTFINDER_SESSION_SECRET value (base64)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := crypto.NewSecret(32)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "export SLOTFINDER_SESSION_SECRET=%s\n", secret)
			return nil
		},
	}
}
