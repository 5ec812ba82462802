package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/userboard/internal/edit"
	"github.com/idilsaglam/userboard/internal/gateway"
	"github.com/idilsaglam/userboard/internal/model"
	"github.com/idilsaglam/userboard/internal/views"
)

type focus int

const (
	focusPosts focus = iota
	focusName
	focusEmail
	focusTitle
	focusBody
)

type postKeys struct {
	Up, Down, Edit, Delete, Profile, Save, Revert, Next, Cancel, Confirm, Quit key.Binding
}

func (k postKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Delete, k.Profile, k.Save, k.Cancel, k.Quit}
}

func (k postKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Edit, k.Delete, k.Profile}, {k.Save, k.Revert, k.Next, k.Cancel, k.Quit}}
}

func newPostKeys() postKeys {
	return postKeys{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "down")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit post")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Profile: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "edit profile")),
		Save:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Revert:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "revert")),
		Next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Confirm: key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "delete!")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type postsLoadedMsg struct {
	posts []model.Post
	err   error
}

type postSavedMsg struct {
	post model.Post
	err  error
}

type postDeletedMsg struct {
	id  int
	err error
}

type postsModel struct {
	ctx  context.Context
	gw   views.PostsGateway
	view *views.UserPosts

	cursor  int
	focus   focus
	name    textinput.Model
	email   textinput.Model
	title   textinput.Model
	body    textarea.Model
	loading bool
	status  string

	keys postKeys
	help help.Model
}

func newPostsModel(ctx context.Context, gw views.PostsGateway, view *views.UserPosts) postsModel {
	name := textinput.New()
	name.Prompt = "Name:  "
	email := textinput.New()
	email.Prompt = "Email: "
	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 200
	body := textarea.New()
	body.Placeholder = "Body"
	body.ShowLineNumbers = false
	body.SetHeight(4)

	m := postsModel{
		ctx:     ctx,
		gw:      gw,
		view:    view,
		name:    name,
		email:   email,
		title:   title,
		body:    body,
		loading: !view.Loaded(),
		keys:    newPostKeys(),
		help:    help.New(),
	}
	m.syncProfileInputs()
	return m
}

func fetchPosts(ctx context.Context, view *views.UserPosts) tea.Cmd {
	return func() tea.Msg {
		posts, err := view.Fetch(ctx)
		return postsLoadedMsg{posts: posts, err: err}
	}
}

func updatePost(ctx context.Context, gw views.PostsGateway, p model.Post) tea.Cmd {
	return func() tea.Msg {
		_, err := gw.UpdatePost(ctx, p)
		return postSavedMsg{post: p, err: err}
	}
}

func deletePost(ctx context.Context, gw views.PostsGateway, id int) tea.Cmd {
	return func() tea.Msg {
		return postDeletedMsg{id: id, err: gw.DeletePost(ctx, id)}
	}
}

func (m postsModel) Init() tea.Cmd {
	if m.loading {
		return fetchPosts(m.ctx, m.view)
	}
	return nil
}

func (m *postsModel) syncProfileInputs() {
	if f := m.view.Form(); f != nil {
		m.name.SetValue(f.Name())
		m.email.SetValue(f.Email())
	}
}

func (m *postsModel) fail(prefix string, err error) {
	m.status = Current().Error.Render(fmt.Sprintf("%s (%s): %v", prefix, errKind(err), err))
}

func (m postsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w := msg.Width - 6
		m.name.Width, m.email.Width, m.title.Width = w-8, w-8, w
		m.body.SetWidth(w)
		m.help.Width = w
		return m, nil

	case postsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.fail("load failed", msg.err)
			return m, nil
		}
		if err := m.view.SetPosts(msg.posts); err == nil {
			m.status = ""
		}
		m.syncProfileInputs()
		return m, nil

	case postSavedMsg:
		if err := m.view.FinishSave(msg.post, msg.err); err != nil {
			if !errors.Is(err, views.ErrClosed) {
				m.fail("save failed", err)
			}
			return m, nil
		}
		m.title.Blur()
		m.body.Blur()
		m.focus = focusPosts
		m.status = Current().Success.Render("post saved")
		return m, nil

	case postDeletedMsg:
		if err := m.view.FinishDelete(msg.id, msg.err); err != nil {
			if !errors.Is(err, views.ErrClosed) {
				m.fail("delete failed", err)
			}
			return m, nil
		}
		if n := len(m.view.Posts()); m.cursor >= n && n > 0 {
			m.cursor = n - 1
		}
		m.status = Current().Success.Render("post deleted")
		return m, nil

	case usersChangedMsg:
		if m.focus != focusName && m.focus != focusEmail {
			if f := m.view.Form(); f != nil {
				if u, ok := m.view.User(); ok && !f.Changed() {
					f.Reset(u)
				}
			}
			m.syncProfileInputs()
		}
		return m, nil
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.forward(msg)
	}
	if k.String() == "ctrl+c" {
		m.view.Close()
		return m, tea.Quit
	}
	if _, pending := m.view.PendingDelete(); pending {
		return m.updateConfirm(k)
	}
	switch m.focus {
	case focusName, focusEmail:
		return m.updateProfile(k)
	case focusTitle, focusBody:
		return m.updatePostEdit(k)
	}
	return m.updateList(k)
}

func (m postsModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusName:
		m.name, cmd = m.name.Update(msg)
	case focusEmail:
		m.email, cmd = m.email.Update(msg)
	case focusTitle:
		m.title, cmd = m.title.Update(msg)
	case focusBody:
		m.body, cmd = m.body.Update(msg)
	}
	return m, cmd
}

func (m postsModel) updateList(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	posts := m.view.Posts()
	switch {
	case key.Matches(k, m.keys.Quit):
		m.view.Close()
		return m, tea.Quit
	case key.Matches(k, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(k, m.keys.Down):
		if m.cursor < len(posts)-1 {
			m.cursor++
		}
	case key.Matches(k, m.keys.Edit):
		if m.cursor < len(posts) {
			p := posts[m.cursor]
			if err := m.view.BeginEdit(p.ID); err != nil {
				m.fail("edit", err)
				return m, nil
			}
			m.title.SetValue(p.Title)
			m.title.CursorEnd()
			m.body.SetValue(p.Body)
			m.focus = focusTitle
			m.status = ""
			cmd := m.title.Focus()
			return m, cmd
		}
	case key.Matches(k, m.keys.Delete):
		if m.cursor < len(posts) {
			if err := m.view.RequestDelete(posts[m.cursor].ID); err != nil {
				m.fail("delete", err)
			}
		}
	case key.Matches(k, m.keys.Profile):
		if m.view.Form() == nil {
			m.status = Current().Error.Render("user not found")
			return m, nil
		}
		m.syncProfileInputs()
		m.focus = focusName
		m.status = ""
		cmd := m.name.Focus()
		return m, cmd
	}
	return m, nil
}

func (m postsModel) updateConfirm(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(k, m.keys.Confirm):
		id, ok := m.view.StartDelete()
		if !ok {
			return m, nil
		}
		m.status = Current().Muted.Render(fmt.Sprintf("deleting post %d...", id))
		return m, deletePost(m.ctx, m.gw, id)
	case key.Matches(k, m.keys.Cancel), k.String() == "n":
		m.view.CancelDelete()
	}
	return m, nil
}

func (m postsModel) updatePostEdit(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.view.Editor().Phase() == edit.Saving {
		return m, nil
	}
	switch {
	case key.Matches(k, m.keys.Cancel):
		m.view.CancelEdit()
		m.title.Blur()
		m.body.Blur()
		m.focus = focusPosts
		return m, nil
	case key.Matches(k, m.keys.Next):
		if m.focus == focusTitle {
			m.title.Blur()
			m.focus = focusBody
			cmd := m.body.Focus()
			return m, cmd
		}
		m.body.Blur()
		m.focus = focusTitle
		cmd := m.title.Focus()
		return m, cmd
	case key.Matches(k, m.keys.Save):
		post, err := m.view.StartSave()
		if err != nil {
			if errors.Is(err, edit.ErrInvalid) {
				m.status = Current().Error.Render("title and body are required")
			} else {
				m.fail("save", err)
			}
			return m, nil
		}
		m.status = Current().Muted.Render("saving...")
		return m, updatePost(m.ctx, m.gw, post)
	}

	var cmd tea.Cmd
	if m.focus == focusTitle {
		m.title, cmd = m.title.Update(k)
		m.view.SetTitle(m.title.Value())
	} else {
		m.body, cmd = m.body.Update(k)
		m.view.SetBody(m.body.Value())
	}
	return m, cmd
}

func (m postsModel) updateProfile(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.view.Form()
	switch {
	case key.Matches(k, m.keys.Cancel):
		m.name.Blur()
		m.email.Blur()
		m.focus = focusPosts
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
		f.Revert()
		m.syncProfileInputs()
		return m, nil
	case key.Matches(k, m.keys.Save):
		if err := m.view.SubmitUser(); err != nil {
			if errors.Is(err, edit.ErrNotSubmittable) {
				return m, nil
			}
			m.fail("submit", err)
			return m, nil
		}
		m.status = Current().Success.Render("profile updated")
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == focusName {
		m.name, cmd = m.name.Update(k)
		f.SetName(m.name.Value())
	} else {
		m.email, cmd = m.email.Update(k)
		f.SetEmail(m.email.Value())
	}
	return m, cmd
}

func (m postsModel) View() string {
	t := Current()
	u, ok := m.view.User()
	if !ok {
		if m.loading {
			return Box(t.Muted.Render("Loading..."))
		}
		return Box(t.Error.Render("User not found.") + "\n" + t.Help.Render("q to quit"))
	}

	var b strings.Builder
	b.WriteString(t.Title.Render("User") + "\n")
	b.WriteString(m.profileView() + "\n\n")
	b.WriteString(fmt.Sprintf("Posts by %s\n", t.Title.Render(u.Name)))

	if m.loading {
		b.WriteString(t.Muted.Render("Loading posts...") + "\n")
	}
	ed := m.view.Editor()
	for i, p := range m.view.Posts() {
		prefix := "  "
		if i == m.cursor && m.focus == focusPosts {
			prefix = t.Selected.Render("> ")
		}
		if ed.Active(p.ID) {
			label := "Editing"
			if ed.Phase() == edit.Saving {
				label = "Saving..."
			}
			b.WriteString(prefix + t.Accent.Render(label) + "\n")
			b.WriteString(m.title.View() + "\n")
			b.WriteString(m.body.View() + "\n")
			continue
		}
		b.WriteString(prefix + t.Title.Render(Truncate(p.Title, 70)) + "\n")
		b.WriteString("  " + t.Muted.Render(Truncate(strings.ReplaceAll(p.Body, "\n", " "), 70)) + "\n")
	}

	if id, pending := m.view.PendingDelete(); pending {
		dlg := fmt.Sprintf("%s DELETE post %d?\nTruly?  %s / %s",
			t.Pending.Render(t.SymWarn), id, t.Error.Render("y: Delete!"), "n: Cancel")
		b.WriteString("\n" + Box(dlg) + "\n")
	}
	if m.status != "" {
		b.WriteString(m.status + "\n")
	}
	b.WriteString(m.help.View(m.keys))
	return Box(b.String())
}

func (m postsModel) profileView() string {
	t := Current()
	f := m.view.Form()
	if f == nil {
		return ""
	}
	var lines []string
	if m.focus == focusName || m.focus == focusEmail {
		lines = append(lines, m.name.View())
		if e := f.NameError(); e != "" {
			lines = append(lines, t.Error.Render(e))
		}
		lines = append(lines, m.email.View())
		if e := f.EmailError(); e != "" {
			lines = append(lines, t.Error.Render(e))
		}
		submit, revert := t.Muted.Render("[Submit]"), t.Muted.Render("[Revert]")
		if f.CanSubmit() {
			submit = t.Success.Render("[Submit]")
		}
		if f.CanRevert() {
			revert = t.Accent.Render("[Revert]")
		}
		lines = append(lines, submit+" "+revert)
	} else {
		lines = append(lines, "Name:  "+f.Name(), "Email: "+f.Email())
	}
	return strings.Join(lines, "\n")
}

// errKind names a gateway error for the status line.
func errKind(err error) string {
	switch {
	case errors.Is(err, gateway.ErrNotFound):
		return "not found"
	case errors.Is(err, gateway.ErrValidation):
		return "rejected"
	case errors.Is(err, gateway.ErrNetwork):
		return "network"
	}
	return "error"
}
