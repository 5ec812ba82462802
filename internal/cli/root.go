// Package cli is the userboard command line.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/userboard/internal/ui"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	BaseURL    string
	Verbose    bool
	Theme      string
	Format     string // "text" | "json"
}

// NewRootCommand creates the userboard command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "userboard",
		Short:         "Browse users, their todos and posts",
		Long:          "userboard lists users with their todos and posts from a JSONPlaceholder-style service,\nwith inline editing of profiles and posts.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return usageError("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return usageError("missing subcommand")
		},
	}
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return WrapExitError(ExitUsage, c.CommandPath(), err)
	})

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.userboard/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.BaseURL, "base-url", "", "service base URL (overrides config)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().StringVar(&opts.Theme, "theme", "", "color theme (classic|neon|mono)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format for non-interactive commands (text|json)")

	cmd.AddCommand(NewTodosCommand(opts))
	cmd.AddCommand(NewUsersCommand(opts))
	cmd.AddCommand(NewPostsCommand(opts))
	cmd.AddCommand(NewEditPostCommand(opts))
	cmd.AddCommand(NewRemovePostCommand(opts))
	cmd.AddCommand(NewAuthCommand(opts))

	return cmd
}

// Execute runs the command line and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		ui.Fail(stderr, err.Error())
	}
	return GetExitCode(err)
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return WrapExitError(ExitUsage, "usage: "+cmd.UseLine(), err)
		}
		return nil
	}
}
