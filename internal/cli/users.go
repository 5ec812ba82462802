package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/userboard/internal/ui"
)

// NewUsersCommand creates the users command.
func NewUsersCommand(rootOpts *RootOptions) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Browse and edit user profiles",
		Long: `Browse users as collapsible cards.

Interactive by default: open a card (enter) and edit its name and email (e).
With --plain the user list is printed.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd, !plain)
			if err != nil {
				return err
			}
			defer s.Close()

			if !plain {
				return ui.RunUsers(cmd.Context(), s.users)
			}
			if err := s.users.Load(cmd.Context()); err != nil {
				return WrapExitError(ExitFailure, "load users", err)
			}
			list := s.users.List()
			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), list)
			}

			t := ui.Current()
			lines := []string{t.Title.Render(fmt.Sprintf("Users (%d)", len(list))), ""}
			for _, u := range list {
				lines = append(lines, fmt.Sprintf("%-4d %-24s %s", u.ID, ui.Truncate(u.Name, 24), t.Muted.Render(u.Email)))
			}
			ui.Panel(cmd.OutOrStdout(), lines)
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print instead of starting the TUI")
	return cmd
}
