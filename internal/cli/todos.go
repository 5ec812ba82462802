package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/userboard/internal/model"
	"github.com/idilsaglam/userboard/internal/table"
	"github.com/idilsaglam/userboard/internal/ui"
	"github.com/idilsaglam/userboard/internal/views"
)

type todosOptions struct {
	plain  bool
	status string
	title  string
	owner  int
	page   int
}

// todoPage is the --format json shape of one page.
type todoPage struct {
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
	Total      int              `json:"total"`
	Filter     todoFilter       `json:"filter"`
	Items      []model.TodoView `json:"items"`
}

type todoFilter struct {
	Status string `json:"status"`
	Title  string `json:"title"`
	Owner  int    `json:"owner"`
}

// NewTodosCommand creates the todos command.
func NewTodosCommand(rootOpts *RootOptions) *cobra.Command {
	o := &todosOptions{}
	cmd := &cobra.Command{
		Use:   "todos",
		Short: "Browse the todo list",
		Long: `Browse every todo with its owner, ten per page.

Interactive by default. With --plain one page is printed and the filter
flags select what it holds.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTodos(rootOpts, o, cmd)
		},
	}
	cmd.Flags().BoolVar(&o.plain, "plain", false, "print one page instead of starting the TUI")
	cmd.Flags().StringVar(&o.status, "status", "all", "with --plain: all|completed|incomplete")
	cmd.Flags().StringVar(&o.title, "title", "", "with --plain: case-insensitive title substring")
	cmd.Flags().IntVar(&o.owner, "owner", table.AllOwners, "with --plain: owner user id (0 for all)")
	cmd.Flags().IntVar(&o.page, "page", 1, "with --plain: page number")
	return cmd
}

func runTodos(rootOpts *RootOptions, o *todosOptions, cmd *cobra.Command) error {
	status, err := table.ParseStatus(o.status)
	if err != nil {
		return WrapExitError(ExitUsage, "--status", err)
	}
	if o.owner < 0 {
		return usageError("invalid --owner %d", o.owner)
	}

	s, err := openSession(rootOpts, cmd, !o.plain)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	list := views.NewTodoList(s.gw, s.users, s.log)
	if !o.plain {
		return ui.RunTodos(ctx, list, s.users)
	}

	list.SetFilter(table.Filter{Status: status, Title: o.title, OwnerID: o.owner})
	if err := list.Load(ctx); err != nil {
		return WrapExitError(ExitFailure, "load todos", err)
	}
	if o.page != 1 && !list.Goto(o.page) {
		return usageError("page %d out of range (1-%d)", o.page, list.Page().TotalPages)
	}

	pg := list.Page()
	if rootOpts.Format == "json" {
		f := list.Filter()
		return writeJSON(cmd.OutOrStdout(), todoPage{
			Page:       list.CurrentPage(),
			TotalPages: pg.TotalPages,
			Total:      pg.Total,
			Filter:     todoFilter{Status: f.Status.String(), Title: f.Title, Owner: f.OwnerID},
			Items:      pg.Items,
		})
	}
	printTodoPage(cmd.OutOrStdout(), list, pg)
	return nil
}

func printTodoPage(w io.Writer, list *views.TodoList, pg table.Page[model.TodoView]) {
	t := ui.Current()
	done, pending := list.Stats()
	lines := []string{
		fmt.Sprintf("%s  %s %d  %s %d  %s %d",
			t.Title.Render("Todos"),
			t.Success.Render(t.SymDone), done,
			t.Pending.Render(t.SymPending), pending,
			t.Accent.Render("Total"), done+pending,
		),
		t.Muted.Render(ui.ProgressBar(done, done+pending, 28)),
		"",
	}
	if len(pg.Items) == 0 {
		lines = append(lines, t.Muted.Render("(no todos match)"))
	}
	for _, it := range pg.Items {
		box, title := t.BoxUnchecked, it.Title
		if it.Completed {
			box, title = t.BoxChecked, t.Done.Render(it.Title)
		}
		lines = append(lines, fmt.Sprintf("%s %-4d %-20s %s", box, it.ID, ui.Truncate(it.OwnerName, 20), title))
	}
	lines = append(lines, "", t.Help.Render(fmt.Sprintf("Page %d of %d (%d matching)", list.CurrentPage(), pg.TotalPages, pg.Total)))
	ui.Panel(w, lines)
}
