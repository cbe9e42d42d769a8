package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/freeeve/foundry/internal/auth"
	"github.com/freeeve/foundry/internal/config"
)

// NewTokenCommand creates the token command
func NewTokenCommand() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an API bearer token",
		Long:  `Signs a token with JWT_SECRET for the /api/v1 endpoints and the WebSocket.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			token, err := auth.NewJWTManager(cfg.JWTSecret).Mint(subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "cli", "Token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", auth.DefaultTokenTTL, "Token lifetime")

	return cmd
}
