// Package views coordinates the engine packages behind each screen. Views are
// single-writer: call their methods from one goroutine (the TUI event loop)
// and do gateway I/O through the Fetch* helpers, which touch no view state.
package views

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/userboard/internal/model"
	"github.com/idilsaglam/userboard/internal/table"
	"github.com/idilsaglam/userboard/internal/users"
)

// TodosPerPage is the fixed page size of the todo list.
const TodosPerPage = 10

var ErrTodoNotFound = errors.New("todo not found")

// TodoFetcher loads the todo collection.
type TodoFetcher interface {
	FetchTodos(ctx context.Context) ([]model.Todo, error)
}

// Owner is an entry of the owner filter.
type Owner struct {
	ID   int
	Name string
}

type pageKey struct {
	todos  uint64
	users  uint64
	filter table.Filter
	page   int
}

// TodoList is the filterable, paginated todo table.
type TodoList struct {
	fetch TodoFetcher
	users *users.Store
	log   logrus.FieldLogger

	todos   []model.Todo
	version uint64
	loaded  bool
	filter  table.Filter
	pager   *table.Pager
	memo    *table.Memo[pageKey, table.Page[model.TodoView]]
}

func NewTodoList(fetch TodoFetcher, store *users.Store, log logrus.FieldLogger) *TodoList {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	pager, _ := table.NewPager(TodosPerPage)
	t := &TodoList{
		fetch: fetch,
		users: store,
		log:   log.WithField("view", "todos"),
		pager: pager,
	}
	t.memo = table.NewMemo(func(k pageKey) table.Page[model.TodoView] {
		return table.Derive(t.users.Annotate(t.todos), k.filter.Match, k.page, t.pager.Size())
	})
	return t
}

// Fetch makes sure users are cached, then fetches todos. A user fetch
// failure is logged and tolerated: owners show as model.UnknownUser.
// Fetch does not modify the list; hand the result to SetTodos.
func (t *TodoList) Fetch(ctx context.Context) ([]model.Todo, error) {
	if err := t.users.EnsureLoaded(ctx); err != nil {
		t.log.WithError(err).Warn("users unavailable, owner names degraded")
	}
	todos, err := t.fetch.FetchTodos(ctx)
	if err != nil {
		t.log.WithError(err).Error("fetch todos failed")
		return nil, err
	}
	return todos, nil
}

// Load is Fetch followed by SetTodos.
func (t *TodoList) Load(ctx context.Context) error {
	todos, err := t.Fetch(ctx)
	if err != nil {
		return err
	}
	t.SetTodos(todos)
	return nil
}

// SetTodos replaces the collection, keeping arrival order.
func (t *TodoList) SetTodos(todos []model.Todo) {
	t.todos = append([]model.Todo(nil), todos...)
	t.version++
	t.loaded = true
	t.log.WithField("count", len(todos)).Debug("todos loaded")
}

func (t *TodoList) Loaded() bool { return t.loaded }

func (t *TodoList) Filter() table.Filter { return t.filter }

// SetFilter replaces the filter; any change sends the list back to page 1.
func (t *TodoList) SetFilter(f table.Filter) {
	if f == t.filter {
		return
	}
	t.filter = f
	t.pager.Reset()
}

func (t *TodoList) SetStatus(s table.Status) {
	f := t.filter
	f.Status = s
	t.SetFilter(f)
}

func (t *TodoList) SetTitle(q string) {
	f := t.filter
	f.Title = q
	t.SetFilter(f)
}

// SetOwner filters by owner; table.AllOwners clears it.
func (t *TodoList) SetOwner(id int) {
	f := t.filter
	f.OwnerID = id
	t.SetFilter(f)
}

func (t *TodoList) CurrentPage() int { return t.pager.Current() }

// Page derives the visible page from the collection, the user cache, the
// filter and the current page.
func (t *TodoList) Page() table.Page[model.TodoView] {
	pg := t.derive()
	if pg.Page > max(pg.TotalPages, 1) {
		t.pager.Clamp(pg.TotalPages)
		pg = t.derive()
	}
	return pg
}

func (t *TodoList) derive() table.Page[model.TodoView] {
	return t.memo.Get(pageKey{
		todos:  t.version,
		users:  t.users.Version(),
		filter: t.filter,
		page:   t.pager.Current(),
	})
}

// Goto moves to page n; out of range requests are ignored.
func (t *TodoList) Goto(n int) bool { return t.pager.Goto(n, t.Page().TotalPages) }

func (t *TodoList) Next() bool { return t.pager.Next(t.Page().TotalPages) }
func (t *TodoList) Prev() bool { return t.pager.Prev(t.Page().TotalPages) }

// Toggle flips a todo's completion. The change stays local.
func (t *TodoList) Toggle(id int) error {
	for i := range t.todos {
		if t.todos[i].ID == id {
			t.todos[i].Completed = !t.todos[i].Completed
			t.version++
			return nil
		}
	}
	return ErrTodoNotFound
}

// Owners lists each distinct todo owner once, in order of first appearance.
func (t *TodoList) Owners() []Owner {
	seen := map[int]bool{}
	var out []Owner
	for _, td := range t.todos {
		if seen[td.UserID] {
			continue
		}
		seen[td.UserID] = true
		out = append(out, Owner{ID: td.UserID, Name: t.users.Name(td.UserID)})
	}
	return out
}

// Stats counts completed and pending todos across the whole collection.
func (t *TodoList) Stats() (done, pending int) {
	for _, td := range t.todos {
		if td.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}
