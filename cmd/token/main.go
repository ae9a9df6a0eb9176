// Command token mints bearer tokens for the workspace event routes.
package main

import (
	"fmt"
	"os"
	"time"

	"backend-mapty/internal/auth"
	"backend-mapty/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(config.Load).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(loadConfig func() config.Config) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
		secret  string
	)

	cmd := &cobra.Command{
		Use:          "token",
		Short:        "Mint a bearer token for the workspace event routes",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadConfig()
			if secret == "" {
				secret = cfg.JWTSecret
			}
			if subject == "" {
				subject = cfg.StreamTopic
			}

			token, err := auth.IssueToken(secret, subject, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "token subject (defaults to STREAM_TOPIC)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (defaults to JWT_SECRET)")
	return cmd
}
