package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/userboard/internal/edit"
	"github.com/idilsaglam/userboard/internal/model"
	"github.com/idilsaglam/userboard/internal/ui"
	"github.com/idilsaglam/userboard/internal/views"
)

// userPosts is the --format json shape of the posts command.
type userPosts struct {
	User  model.User   `json:"user"`
	Posts []model.Post `json:"posts"`
}

func parseID(name, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, usageError("%s: not a positive number: %s", name, v)
	}
	return n, nil
}

// NewPostsCommand creates the posts command.
func NewPostsCommand(rootOpts *RootOptions) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "posts <userId>",
		Short: "Show a user's profile and posts",
		Long: `Show a user's profile card and posts.

Interactive by default: edit the profile (p), edit a post (e) or delete one
(d, with confirmation). With --plain the card and posts are printed.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID("userId", args[0])
			if err != nil {
				return err
			}
			s, err := openSession(rootOpts, cmd, !plain)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			view := views.NewUserPosts(userID, s.gw, s.users, s.log)
			if !plain {
				return ui.RunPosts(ctx, s.gw, view, s.users)
			}
			if err := view.Load(ctx); err != nil {
				return WrapExitError(ExitFailure, "load posts", err)
			}
			u, ok := view.User()
			if !ok {
				return WrapExitError(ExitFailure, fmt.Sprintf("user %d", userID), views.ErrUserNotFound)
			}
			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), userPosts{User: u, Posts: view.Posts()})
			}

			t := ui.Current()
			lines := []string{
				t.Title.Render(u.Name),
				t.Muted.Render(u.Email),
				"",
				fmt.Sprintf("Posts (%d)", len(view.Posts())),
			}
			for _, p := range view.Posts() {
				lines = append(lines,
					fmt.Sprintf("%s %s", t.Accent.Render(fmt.Sprintf("#%d", p.ID)), t.Title.Render(ui.Truncate(p.Title, 70))),
					"   "+t.Muted.Render(ui.Truncate(strings.ReplaceAll(p.Body, "\n", " "), 70)),
				)
			}
			ui.Panel(cmd.OutOrStdout(), lines)
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print instead of starting the TUI")
	return cmd
}

// loadPost opens the posts view of userID and checks postID belongs to it.
func loadPost(rootOpts *RootOptions, cmd *cobra.Command, args []string) (*session, *views.UserPosts, int, error) {
	userID, err := parseID("userId", args[0])
	if err != nil {
		return nil, nil, 0, err
	}
	postID, err := parseID("postId", args[1])
	if err != nil {
		return nil, nil, 0, err
	}
	s, err := openSession(rootOpts, cmd, false)
	if err != nil {
		return nil, nil, 0, err
	}
	view := views.NewUserPosts(userID, s.gw, s.users, s.log)
	if err := view.Load(cmd.Context()); err != nil {
		s.Close()
		return nil, nil, 0, WrapExitError(ExitFailure, "load posts", err)
	}
	return s, view, postID, nil
}

// NewEditPostCommand creates the edit-post command.
func NewEditPostCommand(rootOpts *RootOptions) *cobra.Command {
	var title, body string
	cmd := &cobra.Command{
		Use:   "edit-post <userId> <postId>",
		Short: "Change a post's title and/or body",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("title") && !cmd.Flags().Changed("body") {
				return usageError("nothing to change: pass --title and/or --body")
			}
			s, view, postID, err := loadPost(rootOpts, cmd, args)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := view.BeginEdit(postID); err != nil {
				return WrapExitError(ExitFailure, fmt.Sprintf("post %d", postID), err)
			}
			if cmd.Flags().Changed("title") {
				if err := view.SetTitle(title); err != nil {
					return WrapExitError(ExitFailure, "set title", err)
				}
			}
			if cmd.Flags().Changed("body") {
				if err := view.SetBody(body); err != nil {
					return WrapExitError(ExitFailure, "set body", err)
				}
			}
			if err := view.Save(cmd.Context()); err != nil {
				if errors.Is(err, edit.ErrInvalid) {
					return usageError("title and body are required")
				}
				return WrapExitError(ExitFailure, "update post", err)
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("post %d updated", postID))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&body, "body", "", "new body")
	return cmd
}

// NewRemovePostCommand creates the rm-post command.
func NewRemovePostCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm-post <userId> <postId>",
		Short: "Delete a post",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, view, postID, err := loadPost(rootOpts, cmd, args)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := view.RequestDelete(postID); err != nil {
				return WrapExitError(ExitFailure, fmt.Sprintf("post %d", postID), err)
			}
			if err := view.ConfirmDelete(cmd.Context()); err != nil {
				return WrapExitError(ExitFailure, "delete post", err)
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("post %d deleted", postID))
			return nil
		},
	}
}
