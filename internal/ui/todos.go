package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	btable "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/userboard/internal/model"
	"github.com/idilsaglam/userboard/internal/table"
	"github.com/idilsaglam/userboard/internal/views"
)

type todoKeys struct {
	Toggle, Status, Owner, Search, Prev, Next, Reload, Quit key.Binding
}

func (k todoKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Status, k.Owner, k.Search, k.Prev, k.Next, k.Quit}
}

func (k todoKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Reload}}
}

func newTodoKeys() todoKeys {
	return todoKeys{
		Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Status: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status")),
		Owner:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "owner")),
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "title")),
		Prev:   key.NewBinding(key.WithKeys("left", "h", "pgup"), key.WithHelp("←", "prev page")),
		Next:   key.NewBinding(key.WithKeys("right", "l", "pgdown"), key.WithHelp("→", "next page")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type todosLoadedMsg struct {
	todos []model.Todo
	err   error
}

// usersChangedMsg is sent by the user store subscription.
type usersChangedMsg struct{}

type todosModel struct {
	ctx  context.Context
	list *views.TodoList

	tbl       btable.Model
	items     []model.TodoView
	search    textinput.Model
	searching bool
	ownerIdx  int // index into list.Owners(); -1 is all owners
	loading   bool
	status    string

	keys todoKeys
	help help.Model
}

func newTodosModel(ctx context.Context, list *views.TodoList) todosModel {
	tbl := btable.New(
		btable.WithColumns(todoColumns(80)),
		btable.WithFocused(true),
		btable.WithHeight(views.TodosPerPage+1),
		btable.WithWidth(80),
	)
	st := btable.DefaultStyles()
	st.Header = st.Header.Bold(true)
	st.Selected = Current().Selected
	tbl.SetStyles(st)

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "Search by title..."
	search.CharLimit = 200

	m := todosModel{
		ctx:      ctx,
		list:     list,
		tbl:      tbl,
		search:   search,
		ownerIdx: -1,
		loading:  !list.Loaded(),
		keys:     newTodoKeys(),
		help:     help.New(),
	}
	m.refresh()
	return m
}

func todoColumns(width int) []btable.Column {
	owner, status := 22, 10
	title := width - owner - status - 8
	if title < 20 {
		title = 20
	}
	return []btable.Column{
		{Title: "Owner", Width: owner},
		{Title: "Title", Width: title},
		{Title: "Complete?", Width: status},
	}
}

func fetchTodos(ctx context.Context, list *views.TodoList) tea.Cmd {
	return func() tea.Msg {
		todos, err := list.Fetch(ctx)
		return todosLoadedMsg{todos: todos, err: err}
	}
}

func (m todosModel) Init() tea.Cmd {
	if m.loading {
		return fetchTodos(m.ctx, m.list)
	}
	return nil
}

// refresh re-derives the visible page into the table rows.
func (m *todosModel) refresh() {
	pg := m.list.Page()
	m.items = pg.Items
	rows := make([]btable.Row, 0, len(pg.Items))
	t := Current()
	for _, it := range pg.Items {
		mark := t.BoxUnchecked
		if it.Completed {
			mark = t.BoxChecked
		}
		rows = append(rows, btable.Row{it.OwnerName, it.Title, mark})
	}
	cur := m.tbl.Cursor()
	m.tbl.SetRows(rows)
	if cur >= len(rows) {
		cur = len(rows) - 1
	}
	if cur < 0 {
		cur = 0
	}
	m.tbl.SetCursor(cur)
}

func (m todosModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.tbl.SetColumns(todoColumns(msg.Width - 4))
		m.tbl.SetWidth(msg.Width - 4)
		m.help.Width = msg.Width - 4
		return m, nil

	case todosLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = Current().Error.Render("load failed: " + msg.err.Error())
			return m, nil
		}
		m.list.SetTodos(msg.todos)
		m.status = ""
		m.refresh()
		return m, nil

	case usersChangedMsg:
		m.refresh()
		return m, nil
	}

	if m.searching {
		return m.updateSearch(msg)
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(k, m.keys.Toggle):
			if i := m.tbl.Cursor(); i >= 0 && i < len(m.items) {
				if err := m.list.Toggle(m.items[i].ID); err != nil {
					m.status = Current().Error.Render(err.Error())
				}
				m.refresh()
			}
			return m, nil
		case key.Matches(k, m.keys.Status):
			m.list.SetStatus(m.list.Filter().Status.Next())
			m.refresh()
			return m, nil
		case key.Matches(k, m.keys.Owner):
			m.cycleOwner()
			m.refresh()
			return m, nil
		case key.Matches(k, m.keys.Search):
			m.searching = true
			m.search.SetValue(m.list.Filter().Title)
			m.search.CursorEnd()
			cmd := m.search.Focus()
			return m, cmd
		case key.Matches(k, m.keys.Prev):
			if m.list.Prev() {
				m.tbl.SetCursor(0)
				m.refresh()
			}
			return m, nil
		case key.Matches(k, m.keys.Next):
			if m.list.Next() {
				m.tbl.SetCursor(0)
				m.refresh()
			}
			return m, nil
		case key.Matches(k, m.keys.Reload):
			m.loading = true
			return m, fetchTodos(m.ctx, m.list)
		}
	}

	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

// updateSearch feeds keystrokes to the title filter; every change re-derives.
func (m todosModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter":
			m.searching = false
			m.search.Blur()
			return m, nil
		case "esc":
			m.searching = false
			m.search.Blur()
			m.list.SetTitle("")
			m.refresh()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.list.SetTitle(m.search.Value())
	m.refresh()
	return m, cmd
}

func (m *todosModel) cycleOwner() {
	owners := m.list.Owners()
	m.ownerIdx++
	if m.ownerIdx >= len(owners) {
		m.ownerIdx = -1
	}
	if m.ownerIdx < 0 {
		m.list.SetOwner(table.AllOwners)
		return
	}
	m.list.SetOwner(owners[m.ownerIdx].ID)
}

func (m todosModel) ownerLabel() string {
	owners := m.list.Owners()
	if m.ownerIdx < 0 || m.ownerIdx >= len(owners) {
		return "All Users"
	}
	return owners[m.ownerIdx].Name
}

func (m todosModel) View() string {
	t := Current()
	if m.loading && !m.list.Loaded() {
		return Box(t.Muted.Render("Loading todos..."))
	}

	done, pending := m.list.Stats()
	header := fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		t.Title.Render("Todo List"),
		t.Success.Render(t.SymDone), done,
		t.Pending.Render(t.SymPending), pending,
		t.Accent.Render("Total"), done+pending,
	)

	f := m.list.Filter()
	title := f.Title
	if title == "" {
		title = t.Muted.Render("(any)")
	}
	filters := fmt.Sprintf("Status: %s   User: %s   Title: %s",
		t.Accent.Render(f.Status.String()), t.Accent.Render(m.ownerLabel()), title)

	pg := m.list.Page()
	pager := fmt.Sprintf("Page %d of %d", m.list.CurrentPage(), pg.TotalPages)

	var b strings.Builder
	b.WriteString(header + "\n")
	b.WriteString(t.Muted.Render(ProgressBar(done, done+pending, 28)) + "\n\n")
	b.WriteString(filters + "\n")
	if m.searching {
		b.WriteString(m.search.View() + "\n")
	}
	b.WriteString(m.tbl.View() + "\n")
	if len(pg.Items) == 0 {
		b.WriteString(t.Muted.Render("no todos match") + "\n")
	}
	b.WriteString(t.Help.Render(pager) + "\n")
	if m.status != "" {
		b.WriteString(m.status + "\n")
	}
	b.WriteString(m.help.View(m.keys))
	return Box(b.String())
}
