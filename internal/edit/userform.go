package edit

import (
	"errors"
	"regexp"
	"strings"

	"github.com/idilsaglam/userboard/internal/model"
)

const (
	MsgNameRequired = "Name is required."
	MsgEmailInvalid = "Invalid email format"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ErrNotSubmittable is returned by Submit when the form has errors or no changes.
var ErrNotSubmittable = errors.New("form has errors or no changes")

// UserCommitter stores an edited user.
type UserCommitter interface {
	Update(u model.User) error
}

// UserForm is the profile editor for one user. Field errors are
// recomputed on every change.
type UserForm struct {
	user     model.User
	name     string
	email    string
	nameErr  string
	emailErr string
}

func NewUserForm(u model.User) *UserForm {
	f := &UserForm{user: u}
	f.SetName(u.Name)
	f.SetEmail(u.Email)
	return f
}

func (f *UserForm) User() model.User   { return f.user }
func (f *UserForm) Name() string       { return f.name }
func (f *UserForm) Email() string      { return f.email }
func (f *UserForm) NameError() string  { return f.nameErr }
func (f *UserForm) EmailError() string { return f.emailErr }

func (f *UserForm) SetName(v string) {
	f.name = v
	f.nameErr = ""
	if strings.TrimSpace(v) == "" {
		f.nameErr = MsgNameRequired
	}
}

func (f *UserForm) SetEmail(v string) {
	f.email = v
	f.emailErr = ""
	if !emailPattern.MatchString(v) {
		f.emailErr = MsgEmailInvalid
	}
}

func (f *UserForm) HasErrors() bool { return f.nameErr != "" || f.emailErr != "" }

func (f *UserForm) Changed() bool { return f.name != f.user.Name || f.email != f.user.Email }

// CanSubmit is false while any field has an error or nothing changed.
func (f *UserForm) CanSubmit() bool { return !f.HasErrors() && f.Changed() }

func (f *UserForm) CanRevert() bool { return f.Changed() }

// Revert restores the committed values and clears their errors.
func (f *UserForm) Revert() {
	f.SetName(f.user.Name)
	f.SetEmail(f.user.Email)
}

// Submit commits the draft through store. The form then tracks the new
// committed value.
func (f *UserForm) Submit(store UserCommitter) error {
	if !f.CanSubmit() {
		return ErrNotSubmittable
	}
	u := model.User{ID: f.user.ID, Name: f.name, Email: f.email}
	if err := store.Update(u); err != nil {
		return err
	}
	f.user = u
	return nil
}

// Reset points the form at a new committed user, dropping any draft.
func (f *UserForm) Reset(u model.User) {
	f.user = u
	f.Revert()
}
