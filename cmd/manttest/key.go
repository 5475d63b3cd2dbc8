package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/manttest/internal/prefs"
	"github.com/jask/manttest/internal/secrets"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the session signing key",
}

var keyRotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Replace the signing key so every issued session must sign in again",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Auth.JWTSecret != "" {
			return errors.New("auth.jwt_secret is set; change it in the config instead")
		}
		if _, err := secrets.RotateSigningKey(signingKeyName); err != nil {
			return fmt.Errorf("rotate signing key: %w", err)
		}
		if err := prefs.ForgetToken(); err != nil {
			logger.Warn("forget session token", zap.Error(err))
		}
		logger.Info("signing key rotated", zap.String("name", signingKeyName))
		fmt.Fprintln(cmd.OutOrStdout(), "signing key rotated")
		return nil
	},
}

func init() {
	keyCmd.AddCommand(keyRotateCmd)
}
