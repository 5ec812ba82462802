package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/userboard/internal/edit"
	"github.com/idilsaglam/userboard/internal/users"
)

type userKeys struct {
	Up, Down, Expand, Edit, Save, Revert, Next, Cancel, Quit key.Binding
}

func (k userKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Expand, k.Edit, k.Save, k.Revert, k.Cancel, k.Quit}
}

func (k userKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Expand, k.Edit}, {k.Save, k.Revert, k.Next, k.Cancel, k.Quit}}
}

func newUserKeys() userKeys {
	return userKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "down")),
		Expand: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "open/close")),
		Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Save:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		Revert: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "revert")),
		Next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close editor")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type usersLoadedMsg struct{ err error }

// usersModel lists users as cards; an open card shows the email and can be
// edited in place.
type usersModel struct {
	ctx   context.Context
	store *users.Store

	cursor  int
	open    map[int]bool // user id -> card expanded
	form    *edit.UserForm
	focus   focus // focusPosts while browsing, focusName/focusEmail while editing
	name    textinput.Model
	email   textinput.Model
	loading bool
	status  string

	keys userKeys
	help help.Model
}

func newUsersModel(ctx context.Context, store *users.Store) usersModel {
	name := textinput.New()
	name.Prompt = "Name:  "
	email := textinput.New()
	email.Prompt = "Email: "
	return usersModel{
		ctx:     ctx,
		store:   store,
		open:    map[int]bool{},
		name:    name,
		email:   email,
		loading: store.Len() == 0,
		keys:    newUserKeys(),
		help:    help.New(),
	}
}

func loadUsers(ctx context.Context, store *users.Store) tea.Cmd {
	return func() tea.Msg { return usersLoadedMsg{err: store.Load(ctx)} }
}

func (m usersModel) Init() tea.Cmd {
	if m.loading {
		return loadUsers(m.ctx, m.store)
	}
	return nil
}

func (m usersModel) editing() bool { return m.form != nil }

func (m *usersModel) syncInputs() {
	m.name.SetValue(m.form.Name())
	m.email.SetValue(m.form.Email())
}

func (m *usersModel) closeEditor() {
	m.form = nil
	m.name.Blur()
	m.email.Blur()
	m.focus = focusPosts
}

func (m usersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.name.Width, m.email.Width = msg.Width-16, msg.Width-16
		m.help.Width = msg.Width - 4
		return m, nil

	case usersLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = Current().Error.Render(fmt.Sprintf("load failed (%s): %v", errKind(msg.err), msg.err))
		}
		return m, nil

	case usersChangedMsg:
		if n := m.store.Len(); m.cursor >= n && n > 0 {
			m.cursor = n - 1
		}
		if m.editing() && !m.form.Changed() {
			if u, ok := m.store.Get(m.form.User().ID); ok {
				m.form.Reset(u)
				m.syncInputs()
			}
		}
		return m, nil
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if k.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.editing() {
		return m.updateEditor(k)
	}

	list := m.store.List()
	switch {
	case key.Matches(k, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(k, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(k, m.keys.Down):
		if m.cursor < len(list)-1 {
			m.cursor++
		}
	case key.Matches(k, m.keys.Expand):
		if m.cursor < len(list) {
			id := list[m.cursor].ID
			m.open[id] = !m.open[id]
		}
	case key.Matches(k, m.keys.Edit):
		if m.cursor < len(list) {
			u := list[m.cursor]
			m.open[u.ID] = true
			m.form = edit.NewUserForm(u)
			m.syncInputs()
			m.focus = focusName
			m.status = ""
			cmd := m.name.Focus()
			return m, cmd
		}
	}
	return m, nil
}

func (m usersModel) updateEditor(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(k, m.keys.Cancel):
		m.closeEditor()
		return m, nil
	case key.Matches(k, m.keys.Next):
		if m.focus == focusName {
			m.name.Blur()
			m.focus = focusEmail
			cmd := m.email.Focus()
			return m, cmd
		}
		m.email.Blur()
		m.focus = focusName
		cmd := m.name.Focus()
		return m, cmd
	case key.Matches(k, m.keys.Revert):
		m.form.Revert()
		m.syncInputs()
		return m, nil
	case key.Matches(k, m.keys.Save):
		if err := m.form.Submit(m.store); err != nil {
			if !errors.Is(err, edit.ErrNotSubmittable) {
				m.status = Current().Error.Render("submit failed: " + err.Error())
			}
			return m, nil
		}
		m.status = Current().Success.Render("profile updated")
		m.closeEditor()
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == focusName {
		m.name, cmd = m.name.Update(k)
		m.form.SetName(m.name.Value())
	} else {
		m.email, cmd = m.email.Update(k)
		m.form.SetEmail(m.email.Value())
	}
	return m, cmd
}

func (m usersModel) View() string {
	t := Current()
	list := m.store.List()
	if m.loading && len(list) == 0 {
		return Box(t.Muted.Render("Loading users..."))
	}

	var b strings.Builder
	b.WriteString(t.Title.Render(fmt.Sprintf("Users (%d)", len(list))) + "\n\n")
	for i, u := range list {
		prefix, arrow := "  ", "▸"
		if i == m.cursor {
			prefix = t.Selected.Render("> ")
		}
		if m.open[u.ID] {
			arrow = "▾"
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", prefix, arrow, t.Title.Render(u.Name)))
		if !m.open[u.ID] {
			continue
		}
		if m.editing() && m.form.User().ID == u.ID {
			b.WriteString("    " + m.name.View() + "\n")
			if e := m.form.NameError(); e != "" {
				b.WriteString("    " + t.Error.Render(e) + "\n")
			}
			b.WriteString("    " + m.email.View() + "\n")
			if e := m.form.EmailError(); e != "" {
				b.WriteString("    " + t.Error.Render(e) + "\n")
			}
			submit, revert := t.Muted.Render("[Submit]"), t.Muted.Render("[Revert]")
			if m.form.CanSubmit() {
				submit = t.Success.Render("[Submit]")
			}
			if m.form.CanRevert() {
				revert = t.Accent.Render("[Revert]")
			}
			b.WriteString("    " + submit + " " + revert + "\n")
			continue
		}
		b.WriteString("    " + t.Muted.Render(u.Email) + "\n")
	}
	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	b.WriteString(m.help.View(m.keys))
	return Box(b.String())
}
