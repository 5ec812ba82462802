package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/userboard/internal/config"
	"github.com/idilsaglam/userboard/internal/ui"
)

// NewAuthCommand creates the auth command group for the bearer token.
func NewAuthCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the bearer token sent with every request",
		Long: `Manage the bearer token sent with every request.

The token is stored in the config file with owner-only permissions.
USERBOARD_TOKEN, when set, takes precedence over the stored token.`,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "login <token>",
		Short: "Store a token",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(args[0]) == "" {
				return usageError("empty token")
			}
			if err := config.SaveToken(rootOpts.ConfigPath, args[0]); err != nil {
				return WrapExitError(ExitFailure, "save token", err)
			}
			ui.OK(cmd.OutOrStdout(), "token saved")
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Remove the stored token",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SaveToken(rootOpts.ConfigPath, ""); err != nil {
				return WrapExitError(ExitFailure, "remove token", err)
			}
			ui.OK(cmd.OutOrStdout(), "logged out")
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show whether a token is configured",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			if cfg.Token == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "not logged in")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in (source: %s, token: %s)\n", cfg.TokenSource, maskToken(cfg.Token))
			return nil
		},
	})
	return cmd
}

func maskToken(tok string) string {
	if len(tok) <= 8 {
		return strings.Repeat("*", len(tok))
	}
	return tok[:4] + strings.Repeat("*", len(tok)-8) + tok[len(tok)-4:]
}
