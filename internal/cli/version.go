package cli

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/recq/version"
)

// NewVersionCommand creates the version command. It needs no config.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information as JSON",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), version.Get(), false)
		},
	}
}
