package views

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/userboard/internal/edit"
	"github.com/idilsaglam/userboard/internal/gateway"
	"github.com/idilsaglam/userboard/internal/model"
	"github.com/idilsaglam/userboard/internal/table"
	"github.com/idilsaglam/userboard/internal/testutil"
	"github.com/idilsaglam/userboard/internal/users"
)

func newTodoList(t *testing.T, gw *testutil.FakeGateway) *TodoList {
	t.Helper()
	l := NewTodoList(gw, users.NewStore(gw, nil), nil)
	require.NoError(t, l.Load(context.Background()))
	return l
}

func TestTodoListCompletedScenario(t *testing.T) {
	gw := &testutil.FakeGateway{Users: testutil.SampleUsers(), Todos: testutil.SampleTodos(25, 12)}
	l := newTodoList(t, gw)

	l.SetStatus(table.StatusCompleted)
	pg := l.Page()
	assert.Equal(t, 12, pg.Total)
	assert.Equal(t, 2, pg.TotalPages)
	assert.Len(t, pg.Items, TodosPerPage)

	assert.False(t, l.Goto(3))
	assert.Equal(t, 1, l.CurrentPage())

	assert.True(t, l.Goto(2))
	assert.Len(t, l.Page().Items, 2)
}

func TestTodoListFilterChangeResetsPage(t *testing.T) {
	gw := &testutil.FakeGateway{Users: testutil.SampleUsers(), Todos: testutil.SampleTodos(40, 0)}
	l := newTodoList(t, gw)

	changes := []func(){
		func() { l.SetStatus(table.StatusIncomplete) },
		func() { l.SetTitle("todo") },
		func() { l.SetOwner(1) },
		func() { l.SetOwner(2) },
		func() { l.SetStatus(table.StatusCompleted) },
	}
	for _, change := range changes {
		l.SetFilter(table.Filter{})
		require.True(t, l.Goto(2))
		change()
		assert.Equal(t, 1, l.CurrentPage())
	}
}

func TestTodoListSameFilterKeepsPage(t *testing.T) {
	gw := &testutil.FakeGateway{Users: testutil.SampleUsers(), Todos: testutil.SampleTodos(40, 0)}
	l := newTodoList(t, gw)
	require.True(t, l.Goto(3))
	l.SetStatus(table.StatusAll)
	assert.Equal(t, 3, l.CurrentPage())
}

func TestTodoListItemsSatisfyFilter(t *testing.T) {
	gw := &testutil.FakeGateway{Users: testutil.SampleUsers(), Todos: testutil.SampleTodos(25, 12)}
	l := newTodoList(t, gw)
	l.SetFilter(table.Filter{Status: table.StatusIncomplete, OwnerID: 2, Title: "TODO 1"})

	pg := l.Page()
	require.NotEmpty(t, pg.Items)
	for _, it := range pg.Items {
		assert.False(t, it.Completed)
		assert.Equal(t, 2, it.UserID)
		assert.Contains(t, it.Title, "todo 1")
		assert.Equal(t, "Ervin Howell", it.OwnerName)
	}
	assert.Equal(t, pg, l.Page())
}

func TestTodoListNavigation(t *testing.T) {
	gw := &testutil.FakeGateway{Users: testutil.SampleUsers(), Todos: testutil.SampleTodos(25, 0)}
	l := newTodoList(t, gw)

	assert.False(t, l.Prev())
	assert.True(t, l.Next())
	assert.True(t, l.Next())
	assert.False(t, l.Next())
	assert.Equal(t, 3, l.CurrentPage())
	assert.Len(t, l.Page().Items, 5)
}

func TestTodoListToggleIsLocalAndClamps(t *testing.T) {
	gw := &testutil.FakeGateway{Users: testutil.SampleUsers(), Todos: testutil.SampleTodos(11, 11)}
	l := newTodoList(t, gw)
	calls := gw.TotalCalls()

	l.SetStatus(table.StatusCompleted)
	require.True(t, l.Goto(2))
	require.NoError(t, l.Toggle(11))

	pg := l.Page()
	assert.Equal(t, 1, pg.TotalPages)
	assert.Equal(t, 1, l.CurrentPage())
	assert.Len(t, pg.Items, 10)
	assert.Equal(t, calls, gw.TotalCalls())

	done, pending := l.Stats()
	assert.Equal(t, 10, done)
	assert.Equal(t, 1, pending)

	assert.ErrorIs(t, l.Toggle(999), ErrTodoNotFound)
}

func TestTodoListEmptyResult(t *testing.T) {
	gw := &testutil.FakeGateway{Users: testutil.SampleUsers(), Todos: testutil.SampleTodos(5, 0)}
	l := newTodoList(t, gw)
	l.SetTitle("nothing matches")
	pg := l.Page()
	assert.Equal(t, 0, pg.TotalPages)
	assert.Empty(t, pg.Items)
	assert.Equal(t, 1, l.CurrentPage())
	assert.False(t, l.Goto(1))
}

func TestTodoListReloadShrinksBelowCurrentPage(t *testing.T) {
	gw := &testutil.FakeGateway{Users: testutil.SampleUsers(), Todos: testutil.SampleTodos(25, 0)}
	l := newTodoList(t, gw)
	require.True(t, l.Goto(3))

	l.SetTodos(testutil.SampleTodos(12, 0))
	pg := l.Page()
	assert.Equal(t, 2, pg.Page)
	assert.Equal(t, 2, l.CurrentPage())
	assert.Len(t, pg.Items, 2)

	l.SetTodos(nil)
	pg = l.Page()
	assert.Equal(t, 0, pg.TotalPages)
	assert.Equal(t, 1, pg.Page)
	assert.Equal(t, 1, l.CurrentPage())
	assert.Empty(t, pg.Items)
}

func TestTodoListUnknownOwnerThenUsersArrive(t *testing.T) {
	gw := &testutil.FakeGateway{Users: testutil.SampleUsers(), Todos: testutil.SampleTodos(3, 0), FailUsers: true}
	store := users.NewStore(gw, nil)
	l := NewTodoList(gw, store, nil)
	require.NoError(t, l.Load(context.Background()))

	assert.Equal(t, model.UnknownUser, l.Page().Items[0].OwnerName)

	gw.FailUsers = false
	require.NoError(t, store.Load(context.Background()))
	assert.Equal(t, "Leanne Graham", l.Page().Items[0].OwnerName)
}

func TestTodoListFetchFailure(t *testing.T) {
	gw := &testutil.FakeGateway{Users: testutil.SampleUsers(), FailTodos: true}
	l := NewTodoList(gw, users.NewStore(gw, nil), nil)
	err := l.Load(context.Background())
	assert.ErrorIs(t, err, gateway.ErrNetwork)
	assert.False(t, l.Loaded())
}

func TestTodoListUsesCachedUsers(t *testing.T) {
	gw := &testutil.FakeGateway{Users: testutil.SampleUsers(), Todos: testutil.SampleTodos(3, 0)}
	store := users.NewStore(gw, nil)
	require.NoError(t, store.Load(context.Background()))

	l := NewTodoList(gw, store, nil)
	require.NoError(t, l.Load(context.Background()))
	assert.Equal(t, 1, gw.CallCount("FetchUsers"))
}

func TestTodoListOwners(t *testing.T) {
	gw := &testutil.FakeGateway{
		Users: testutil.SampleUsers(),
		Todos: []model.Todo{{ID: 1, UserID: 2}, {ID: 2, UserID: 1}, {ID: 3, UserID: 2}, {ID: 4, UserID: 5}},
	}
	l := newTodoList(t, gw)
	assert.Equal(t, []Owner{
		{ID: 2, Name: "Ervin Howell"},
		{ID: 1, Name: "Leanne Graham"},
		{ID: 5, Name: model.UnknownUser},
	}, l.Owners())
}

func newUserPosts(t *testing.T, gw *testutil.FakeGateway) *UserPosts {
	t.Helper()
	v := NewUserPosts(1, gw, users.NewStore(gw, nil), nil)
	require.NoError(t, v.Load(context.Background()))
	return v
}

func postIDs(posts []model.Post) []int {
	ids := make([]int, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestDeletePostSuccess(t *testing.T) {
	gw := &testutil.FakeGateway{Users: testutil.SampleUsers(), Posts: testutil.SamplePosts(1, 10)}
	v := newUserPosts(t, gw)

	require.NoError(t, v.RequestDelete(7))
	id, ok := v.PendingDelete()
	require.True(t, ok)
	assert.Equal(t, 7, id)

	require.NoError(t, v.ConfirmDelete(context.Background()))
	assert.Equal(t, 1, gw.CallCount("DeletePost"))
	assert.Equal(t, []int{7}, gw.Deleted)
	assert.NotContains(t, postIDs(v.Posts()), 7)
	assert.Len(t, v.Posts(), 9)
	_, ok = v.PendingDelete()
	assert.False(t, ok)
}

func TestDeletePostFailureKeepsPost(t *testing.T) {
	gw := &testutil.FakeGateway{Users: testutil.SampleUsers(), Posts: testutil.SamplePosts(1, 10), FailDelete: true}
	v := newUserPosts(t, gw)

	require.NoError(t, v.RequestDelete(7))
	err := v.ConfirmDelete(context.Background())
	assert.ErrorIs(t, err, gateway.ErrNetwork)
	assert.Equal(t, 1, gw.CallCount("DeletePost"))
	assert.Contains(t, postIDs(v.Posts()), 7)
	assert.ErrorIs(t, v.Err(), gateway.ErrNetwork)
	_, ok := v.PendingDelete()
	assert.False(t, ok, "dialog closes even when the delete fails")
}

func TestDeleteRequestOverwritesAndCancel(t *testing.T) {
	gw := &testutil.FakeGateway{Users: testutil.SampleUsers(), Posts: testutil.SamplePosts(1, 10)}
	v := newUserPosts(t, gw)

	require.NoError(t, v.RequestDelete(3))
	require.NoError(t, v.RequestDelete(4))
	v.CancelDelete()
	require.NoError(t, v.ConfirmDelete(context.Background()))
	assert.Equal(t, 0, gw.CallCount("DeletePost"))
	assert.Len(t, v.Posts(), 10)

	assert.ErrorIs(t, v.RequestDelete(99), ErrPostNotFound)
}

func TestEditPostSave(t *testing.T) {
	gw := &testutil.FakeGateway{Users: testutil.SampleUsers(), Posts: testutil.SamplePosts(1, 3)}
	v := newUserPosts(t, gw)

	require.NoError(t, v.BeginEdit(2))
	require.NoError(t, v.SetTitle("edited"))
	assert.Equal(t, "post 2", v.Posts()[1].Title, "draft does not leak into the list")

	require.NoError(t, v.Save(context.Background()))
	assert.Equal(t, "edited", v.Posts()[1].Title)
	assert.Equal(t, "body 2", v.Posts()[1].Body)
	assert.Equal(t, edit.Viewing, v.Editor().Phase())
	require.Len(t, gw.Updated, 1)
	assert.Equal(t, "edited", gw.Updated[0].Title)
}

func TestEditPostSaveGating(t *testing.T) {
	gw := &testutil.FakeGateway{Users: testutil.SampleUsers(), Posts: testutil.SamplePosts(1, 3)}
	v := newUserPosts(t, gw)
	before := gw.TotalCalls()

	require.NoError(t, v.BeginEdit(1))
	require.NoError(t, v.SetBody(""))
	err := v.Save(context.Background())
	assert.ErrorIs(t, err, edit.ErrInvalid)
	assert.Equal(t, before, gw.TotalCalls())
	assert.Equal(t, edit.Editing, v.Editor().Phase())
}

func TestEditPostSaveFailureKeepsDraft(t *testing.T) {
	gw := &testutil.FakeGateway{Users: testutil.SampleUsers(), Posts: testutil.SamplePosts(1, 3), FailUpdate: true}
	v := newUserPosts(t, gw)

	require.NoError(t, v.BeginEdit(1))
	require.NoError(t, v.SetTitle("edited"))
	err := v.Save(context.Background())
	assert.ErrorIs(t, err, gateway.ErrNetwork)
	assert.Equal(t, edit.Editing, v.Editor().Phase())
	assert.Equal(t, "post 1", v.Posts()[0].Title)
	draft, ok := v.Editor().Draft()
	require.True(t, ok)
	assert.Equal(t, "edited", draft.Title)

	gw.FailUpdate = false
	require.NoError(t, v.Save(context.Background()))
	assert.Equal(t, "edited", v.Posts()[0].Title)
	assert.NoError(t, v.Err())
}

func TestEditCancelRoundTrip(t *testing.T) {
	gw := &testutil.FakeGateway{Users: testutil.SampleUsers(), Posts: testutil.SamplePosts(1, 3)}
	v := newUserPosts(t, gw)
	before := v.Posts()

	require.NoError(t, v.BeginEdit(3))
	require.NoError(t, v.SetTitle("x"))
	require.NoError(t, v.SetBody("y"))
	require.NoError(t, v.CancelEdit())
	assert.Equal(t, before, v.Posts())
}

func TestClosedViewDiscardsLateResults(t *testing.T) {
	gw := &testutil.FakeGateway{Users: testutil.SampleUsers(), Posts: testutil.SamplePosts(1, 3)}
	v := newUserPosts(t, gw)

	require.NoError(t, v.BeginEdit(1))
	require.NoError(t, v.SetTitle("late"))
	post, err := v.StartSave()
	require.NoError(t, err)

	require.NoError(t, v.RequestDelete(2))
	id, ok := v.StartDelete()
	require.True(t, ok)

	v.Close()
	assert.ErrorIs(t, v.FinishSave(post, nil), ErrClosed)
	assert.ErrorIs(t, v.FinishDelete(id, nil), ErrClosed)
	assert.ErrorIs(t, v.SetPosts(nil), ErrClosed)
	assert.Equal(t, "post 1", v.Posts()[0].Title)
	assert.Len(t, v.Posts(), 3)
}

func TestDeleteWhileEditingDropsDraft(t *testing.T) {
	gw := &testutil.FakeGateway{Users: testutil.SampleUsers(), Posts: testutil.SamplePosts(1, 3)}
	v := newUserPosts(t, gw)

	require.NoError(t, v.BeginEdit(2))
	require.NoError(t, v.RequestDelete(2))
	require.NoError(t, v.ConfirmDelete(context.Background()))
	assert.Equal(t, edit.Viewing, v.Editor().Phase())
}

func TestUserFormThroughView(t *testing.T) {
	gw := &testutil.FakeGateway{Users: testutil.SampleUsers(), Posts: testutil.SamplePosts(1, 1)}
	store := users.NewStore(gw, nil)
	v := NewUserPosts(1, gw, store, nil)

	assert.Nil(t, v.Form())
	assert.ErrorIs(t, v.SubmitUser(), ErrUserNotFound)

	require.NoError(t, v.Load(context.Background()))
	f := v.Form()
	require.NotNil(t, f)

	f.SetEmail("not-an-email")
	assert.NotEmpty(t, f.EmailError())
	assert.False(t, f.CanSubmit())
	assert.ErrorIs(t, v.SubmitUser(), edit.ErrNotSubmittable)
	f.Revert()
	assert.Equal(t, "Sincere@april.biz", f.Email())
	assert.Empty(t, f.EmailError())

	f.SetName("Leanne G.")
	require.NoError(t, v.SubmitUser())
	assert.Equal(t, "Leanne G.", store.Name(1))
	assert.Equal(t, 1, gw.CallCount("FetchUsers"))
}

func TestPostsFetchFailure(t *testing.T) {
	gw := &testutil.FakeGateway{Users: testutil.SampleUsers(), FailPosts: true}
	v := NewUserPosts(1, gw, users.NewStore(gw, nil), nil)
	assert.ErrorIs(t, v.Load(context.Background()), gateway.ErrNetwork)
	assert.False(t, v.Loaded())
	assert.ErrorIs(t, v.Err(), gateway.ErrNetwork)
}
