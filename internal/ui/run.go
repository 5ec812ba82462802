package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/userboard/internal/users"
	"github.com/idilsaglam/userboard/internal/views"
)

// RunTodos runs the todo list until the user quits.
func RunTodos(ctx context.Context, list *views.TodoList, store *users.Store) error {
	return run(newTodosModel(ctx, list), store)
}

// RunUsers runs the user cards screen until the user quits.
func RunUsers(ctx context.Context, store *users.Store) error {
	return run(newUsersModel(ctx, store), store)
}

// RunPosts runs one user's profile and posts screen until the user quits.
func RunPosts(ctx context.Context, gw views.PostsGateway, view *views.UserPosts, store *users.Store) error {
	defer view.Close()
	return run(newPostsModel(ctx, gw, view), store)
}

// run starts p and forwards user cache changes into it as usersChangedMsg.
func run(m tea.Model, store *users.Store) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	unsubscribe := forwardUserChanges(p, store)
	defer unsubscribe()
	_, err := p.Run()
	return err
}

// forwardUserChanges subscribes p to store. Store changes can be made from
// inside p's own Update, and Send blocks until the event loop receives, so
// the send happens on its own goroutine.
func forwardUserChanges(p *tea.Program, store *users.Store) (cancel func()) {
	return store.Subscribe(func() { go p.Send(usersChangedMsg{}) })
}
