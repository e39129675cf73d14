package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/recq/server"
)

// NewTokenCommand creates the token command, which signs an API token with
// the configured server.auth secret.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a Bearer token for the query API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			auth := rootOpts.Config.Server.Auth
			if ttl > 0 {
				auth.TTL = ttl
			}
			tokens, err := server.NewTokenService(auth)
			if err != nil {
				return fmt.Errorf("server.auth.secret must be configured: %w", err)
			}
			token, err := tokens.Issue(subject)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "token subject (required)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default: server.auth.ttl)")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
