package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"example.com/ai-travel-planner/internal/auth"
	"example.com/ai-travel-planner/internal/config"
)

// newTokenCommand выпускает сессионный токен для локальной разработки,
// подписанный тем же AUTH_JWT_SECRET, что проверяет сервер.
func newTokenCommand() *cobra.Command {
	var email, name string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cfg.Auth.AuthEnabled() {
				return errors.New("AUTH_JWT_SECRET is not set")
			}
			if email == "" {
				return errors.New("--email is required")
			}

			verifier := auth.NewSessionVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
			token, expiresAt, err := verifier.Sign(email, name, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().StringVar(&name, "name", "", "display name claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")

	return cmd
}
