package edit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/userboard/internal/model"
)

func postValid(p model.Post) bool { return p.Title != "" && p.Body != "" }

func TestBeginSetCancelLeavesCommittedUntouched(t *testing.T) {
	post := model.Post{ID: 3, Title: "qui est esse", Body: "est rerum", UserID: 1}
	orig := post
	c := NewController(postValid)

	require.NoError(t, c.Begin(post.ID, post))
	assert.Equal(t, Editing, c.Phase())
	require.NoError(t, c.Set(func(p *model.Post) { p.Title = "changed" }))
	assert.True(t, c.Dirty())

	draft, ok := c.Draft()
	require.True(t, ok)
	assert.Equal(t, "changed", draft.Title)
	assert.Equal(t, orig, post)

	require.NoError(t, c.Cancel())
	assert.Equal(t, Viewing, c.Phase())
	_, ok = c.Draft()
	assert.False(t, ok)
	assert.Equal(t, orig, post)
}

func TestSetRequiresEditing(t *testing.T) {
	c := NewController(postValid)
	assert.ErrorIs(t, c.Set(func(p *model.Post) {}), ErrNotEditing)
}

func TestBeginReplacesActiveEdit(t *testing.T) {
	c := NewController(postValid)
	require.NoError(t, c.Begin(1, model.Post{ID: 1, Title: "a", Body: "a"}))
	require.NoError(t, c.Set(func(p *model.Post) { p.Title = "dirty" }))

	require.NoError(t, c.Begin(2, model.Post{ID: 2, Title: "b", Body: "b"}))
	assert.Equal(t, 2, c.ID())
	assert.True(t, c.Active(2))
	assert.False(t, c.Active(1))
	draft, _ := c.Draft()
	assert.Equal(t, "b", draft.Title)
	assert.False(t, c.Dirty())
}

func TestSaveWithEmptyFieldIsNoop(t *testing.T) {
	c := NewController(postValid)
	require.NoError(t, c.Begin(1, model.Post{ID: 1, Title: "a", Body: "b"}))
	require.NoError(t, c.Set(func(p *model.Post) { p.Body = "" }))

	calls := 0
	_, err := c.Save(context.Background(), func(context.Context, model.Post) error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, 0, calls)
	assert.Equal(t, Editing, c.Phase())
	draft, _ := c.Draft()
	assert.Equal(t, "", draft.Body)
}

func TestSaveSuccessCommits(t *testing.T) {
	c := NewController(postValid)
	require.NoError(t, c.Begin(1, model.Post{ID: 1, Title: "a", Body: "b"}))
	require.NoError(t, c.Set(func(p *model.Post) { p.Title = "new" }))

	var sent model.Post
	out, err := c.Save(context.Background(), func(_ context.Context, p model.Post) error {
		sent = p
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "new", sent.Title)
	assert.Equal(t, "new", out.Title)
	assert.Equal(t, Viewing, c.Phase())
}

func TestSaveFailureKeepsDraft(t *testing.T) {
	c := NewController(postValid)
	require.NoError(t, c.Begin(1, model.Post{ID: 1, Title: "a", Body: "b"}))
	require.NoError(t, c.Set(func(p *model.Post) { p.Title = "new" }))

	boom := errors.New("boom")
	_, err := c.Save(context.Background(), func(context.Context, model.Post) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, Editing, c.Phase())
	draft, _ := c.Draft()
	assert.Equal(t, "new", draft.Title)

	// Retry succeeds.
	out, err := c.Save(context.Background(), func(context.Context, model.Post) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, "new", out.Title)
}

func TestSavingGatesReentry(t *testing.T) {
	c := NewController(postValid)
	require.NoError(t, c.Begin(1, model.Post{ID: 1, Title: "a", Body: "b"}))

	id, _, err := c.StartSave()
	require.NoError(t, err)
	assert.Equal(t, Saving, c.Phase())

	_, _, err = c.StartSave()
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, c.Set(func(p *model.Post) {}), ErrNotEditing)
	assert.ErrorIs(t, c.Begin(2, model.Post{ID: 2}), ErrBusy)
	assert.ErrorIs(t, c.Cancel(), ErrBusy)

	_, ok := c.FinishSave(id+1, nil)
	assert.False(t, ok)
	assert.Equal(t, Saving, c.Phase())

	_, ok = c.FinishSave(id, nil)
	assert.True(t, ok)
	assert.Equal(t, Viewing, c.Phase())
}

func TestStartSaveWhileViewing(t *testing.T) {
	c := NewController[model.Post](nil)
	_, _, err := c.StartSave()
	assert.ErrorIs(t, err, ErrNotEditing)
	_, ok := c.FinishSave(1, nil)
	assert.False(t, ok)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "viewing", Viewing.String())
	assert.Equal(t, "saving", Saving.String())
	assert.Equal(t, "Phase(9)", Phase(9).String())
}

type fakeUsers struct {
	updated []model.User
	err     error
}

func (f *fakeUsers) Update(u model.User) error {
	if f.err != nil {
		return f.err
	}
	f.updated = append(f.updated, u)
	return nil
}

func leanne() model.User {
	return model.User{ID: 1, Name: "Leanne Graham", Email: "Sincere@april.biz"}
}

func TestUserFormInvalidEmailAndRevert(t *testing.T) {
	f := NewUserForm(leanne())
	assert.False(t, f.HasErrors())
	assert.False(t, f.CanSubmit(), "unchanged form is not submittable")
	assert.False(t, f.CanRevert())

	f.SetEmail("not-an-email")
	assert.Equal(t, MsgEmailInvalid, f.EmailError())
	assert.False(t, f.CanSubmit())
	assert.True(t, f.CanRevert())

	f.Revert()
	assert.Equal(t, "Sincere@april.biz", f.Email())
	assert.Empty(t, f.EmailError())
	assert.False(t, f.CanSubmit())
}

func TestUserFormNameRequired(t *testing.T) {
	f := NewUserForm(leanne())
	f.SetName("   ")
	assert.Equal(t, MsgNameRequired, f.NameError())
	assert.False(t, f.CanSubmit())

	store := &fakeUsers{}
	assert.ErrorIs(t, f.Submit(store), ErrNotSubmittable)
	assert.Empty(t, store.updated)

	f.SetName("Leanne")
	assert.Empty(t, f.NameError())
	assert.True(t, f.CanSubmit())
}

func TestUserFormEmailPattern(t *testing.T) {
	f := NewUserForm(leanne())
	for _, ok := range []string{"a@b.co", "first.last@sub.example.org"} {
		f.SetEmail(ok)
		assert.Empty(t, f.EmailError(), ok)
	}
	for _, bad := range []string{"", "a@b", "a b@c.d", "@b.c", "a@@b.c"} {
		f.SetEmail(bad)
		assert.Equal(t, MsgEmailInvalid, f.EmailError(), bad)
	}
}

func TestUserFormSubmit(t *testing.T) {
	f := NewUserForm(leanne())
	f.SetEmail("leanne@april.biz")

	store := &fakeUsers{}
	require.NoError(t, f.Submit(store))
	require.Len(t, store.updated, 1)
	assert.Equal(t, model.User{ID: 1, Name: "Leanne Graham", Email: "leanne@april.biz"}, store.updated[0])
	assert.Equal(t, "leanne@april.biz", f.User().Email)
	assert.False(t, f.Changed())
}

func TestUserFormSubmitStoreError(t *testing.T) {
	f := NewUserForm(leanne())
	f.SetName("L")
	boom := errors.New("boom")
	assert.ErrorIs(t, f.Submit(&fakeUsers{err: boom}), boom)
	assert.Equal(t, "Leanne Graham", f.User().Name)
	assert.Equal(t, "L", f.Name())
}

func TestUserFormReset(t *testing.T) {
	f := NewUserForm(leanne())
	f.SetName("draft")
	f.Reset(model.User{ID: 1, Name: "Other", Email: "o@x.io"})
	assert.Equal(t, "Other", f.Name())
	assert.False(t, f.Changed())
}
