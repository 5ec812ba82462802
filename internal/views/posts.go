package views

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/userboard/internal/confirm"
	"github.com/idilsaglam/userboard/internal/edit"
	"github.com/idilsaglam/userboard/internal/model"
	"github.com/idilsaglam/userboard/internal/users"
)

var (
	// ErrClosed marks a result that arrived after its view was closed.
	ErrClosed       = errors.New("view closed")
	ErrPostNotFound = errors.New("post not found")
	ErrUserNotFound = errors.New("user not found")
)

// PostsGateway is the slice of the gateway the posts view uses.
type PostsGateway interface {
	FetchPostsByUser(ctx context.Context, userID int) ([]model.Post, error)
	UpdatePost(ctx context.Context, post model.Post) (model.Post, error)
	DeletePost(ctx context.Context, postID int) error
}

// PostValid is the save precondition for a post draft.
func PostValid(p model.Post) bool { return p.ID != 0 && p.Title != "" && p.Body != "" }

// UserPosts is one user's profile card and posts.
type UserPosts struct {
	userID int
	gw     PostsGateway
	users  *users.Store
	log    logrus.FieldLogger

	form     *edit.UserForm
	posts    []model.Post
	loaded   bool
	editor   *edit.Controller[model.Post]
	deletion confirm.Dialog
	closed   bool
	err      error
}

func NewUserPosts(userID int, gw PostsGateway, store *users.Store, log logrus.FieldLogger) *UserPosts {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &UserPosts{
		userID: userID,
		gw:     gw,
		users:  store,
		log:    log.WithFields(logrus.Fields{"view": "posts", "user_id": userID}),
		editor: edit.NewController(PostValid),
	}
}

func (v *UserPosts) UserID() int { return v.userID }

// User returns the profile from the shared cache.
func (v *UserPosts) User() (model.User, bool) { return v.users.Get(v.userID) }

// Form returns the profile editor, or nil while the user is unknown.
func (v *UserPosts) Form() *edit.UserForm {
	if v.form == nil {
		if u, ok := v.User(); ok {
			v.form = edit.NewUserForm(u)
		}
	}
	return v.form
}

// SubmitUser commits the profile form to the user cache.
func (v *UserPosts) SubmitUser() error {
	f := v.Form()
	if f == nil {
		return ErrUserNotFound
	}
	if err := f.Submit(v.users); err != nil {
		return err
	}
	v.log.Info("user profile updated")
	return nil
}

// Fetch loads the user cache if it is empty and fetches this user's posts.
// It does not modify the view; hand the posts to SetPosts.
func (v *UserPosts) Fetch(ctx context.Context) ([]model.Post, error) {
	if err := v.users.EnsureLoaded(ctx); err != nil {
		v.log.WithError(err).Warn("users unavailable")
	}
	posts, err := v.gw.FetchPostsByUser(ctx, v.userID)
	if err != nil {
		v.log.WithError(err).Error("fetch posts failed")
		return nil, err
	}
	return posts, nil
}

func (v *UserPosts) SetPosts(posts []model.Post) error {
	if v.closed {
		return ErrClosed
	}
	v.posts = append([]model.Post(nil), posts...)
	v.loaded = true
	return nil
}

// Load is Fetch followed by SetPosts.
func (v *UserPosts) Load(ctx context.Context) error {
	posts, err := v.Fetch(ctx)
	if err != nil {
		v.err = err
		return err
	}
	return v.SetPosts(posts)
}

func (v *UserPosts) Loaded() bool { return v.loaded }

// Posts returns a copy of the committed posts.
func (v *UserPosts) Posts() []model.Post { return append([]model.Post(nil), v.posts...) }

func (v *UserPosts) post(id int) (int, bool) {
	for i, p := range v.posts {
		if p.ID == id {
			return i, true
		}
	}
	return -1, false
}

// Editor exposes the post edit state for rendering.
func (v *UserPosts) Editor() *edit.Controller[model.Post] { return v.editor }

// BeginEdit starts editing post id, dropping any other draft.
func (v *UserPosts) BeginEdit(id int) error {
	i, ok := v.post(id)
	if !ok {
		return ErrPostNotFound
	}
	return v.editor.Begin(id, v.posts[i])
}

func (v *UserPosts) SetTitle(s string) error {
	return v.editor.Set(func(p *model.Post) { p.Title = s })
}

func (v *UserPosts) SetBody(s string) error {
	return v.editor.Set(func(p *model.Post) { p.Body = s })
}

func (v *UserPosts) CancelEdit() error { return v.editor.Cancel() }

// StartSave checks the draft and marks it in flight. Send the returned post
// with the gateway, then report back through FinishSave.
func (v *UserPosts) StartSave() (model.Post, error) {
	_, draft, err := v.editor.StartSave()
	return draft, err
}

// FinishSave applies the result of updating post. On success the draft's
// title and body are committed onto the post; on failure the draft stays
// open and err is surfaced.
func (v *UserPosts) FinishSave(post model.Post, err error) error {
	if v.closed {
		v.log.WithField("post_id", post.ID).Debug("discarding save result for closed view")
		return ErrClosed
	}
	draft, ok := v.editor.FinishSave(post.ID, err)
	if err != nil {
		v.log.WithError(err).WithField("post_id", post.ID).Error("update post failed")
		v.err = err
		return err
	}
	if !ok {
		return nil
	}
	if i, found := v.post(draft.ID); found {
		v.posts[i].Title = draft.Title
		v.posts[i].Body = draft.Body
	}
	v.err = nil
	v.log.WithField("post_id", draft.ID).Info("post updated")
	return nil
}

// Save runs a whole save synchronously.
func (v *UserPosts) Save(ctx context.Context) error {
	post, err := v.StartSave()
	if err != nil {
		return err
	}
	_, uerr := v.gw.UpdatePost(ctx, post)
	return v.FinishSave(post, uerr)
}

// RequestDelete asks for confirmation to delete post id, replacing any
// pending request.
func (v *UserPosts) RequestDelete(id int) error {
	if _, ok := v.post(id); !ok {
		return ErrPostNotFound
	}
	v.deletion.Request(id)
	return nil
}

func (v *UserPosts) CancelDelete() { v.deletion.Cancel() }

func (v *UserPosts) PendingDelete() (int, bool) { return v.deletion.Pending() }

// StartDelete confirms the pending deletion and closes the dialog. The
// caller deletes the returned id remotely and reports through FinishDelete.
func (v *UserPosts) StartDelete() (int, bool) { return v.deletion.Take() }

// FinishDelete removes post id once the gateway confirmed it. A failed
// delete leaves the post in place.
func (v *UserPosts) FinishDelete(id int, err error) error {
	if v.closed {
		v.log.WithField("post_id", id).Debug("discarding delete result for closed view")
		return ErrClosed
	}
	if err != nil {
		v.log.WithError(err).WithField("post_id", id).Error("delete post failed")
		v.err = err
		return err
	}
	i, ok := v.post(id)
	if !ok {
		return nil
	}
	v.posts = append(v.posts[:i], v.posts[i+1:]...)
	if v.editor.Active(id) && v.editor.Phase() == edit.Editing {
		v.editor.Cancel()
	}
	v.err = nil
	v.log.WithField("post_id", id).Info("post deleted")
	return nil
}

// ConfirmDelete runs a whole confirmed deletion synchronously.
func (v *UserPosts) ConfirmDelete(ctx context.Context) error {
	id, ok := v.StartDelete()
	if !ok {
		return nil
	}
	return v.FinishDelete(id, v.gw.DeletePost(ctx, id))
}

// Close marks the view as gone; late results are discarded from then on.
func (v *UserPosts) Close() { v.closed = true }

// Err is the last surfaced failure, cleared by the next success.
func (v *UserPosts) Err() error { return v.err }

func (v *UserPosts) ClearErr() { v.err = nil }
