// Package edit holds transient edit buffers: a draft of one entity alongside
// its committed value, and the transitions that save or discard it.
package edit

import (
	"context"
	"errors"
	"fmt"
)

// Phase is where a Controller is in the edit lifecycle.
type Phase int

const (
	Viewing Phase = iota
	Editing
	Saving
)

func (p Phase) String() string {
	switch p {
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

var (
	ErrNotEditing = errors.New("no edit in progress")
	ErrBusy       = errors.New("save already in progress")
	ErrInvalid    = errors.New("draft is incomplete")
)

// Controller owns the single "currently editing" slot of a list.
// It is not safe for concurrent use; drive it from the event loop.
type Controller[T comparable] struct {
	phase     Phase
	id        int
	committed T
	draft     T
	valid     func(T) bool
}

// NewController returns a Controller whose saves require valid(draft).
// A nil valid accepts every draft.
func NewController[T comparable](valid func(T) bool) *Controller[T] {
	return &Controller[T]{valid: valid}
}

func (c *Controller[T]) Phase() Phase { return c.phase }

// ID is the entity being edited; meaningful only outside Viewing.
func (c *Controller[T]) ID() int { return c.id }

// Active reports whether entity id owns the edit slot.
func (c *Controller[T]) Active(id int) bool { return c.phase != Viewing && c.id == id }

// Draft returns the current draft and whether one exists.
func (c *Controller[T]) Draft() (T, bool) {
	if c.phase == Viewing {
		var zero T
		return zero, false
	}
	return c.draft, true
}

// Dirty reports whether the draft differs from the committed snapshot.
func (c *Controller[T]) Dirty() bool {
	return c.phase != Viewing && c.draft != c.committed
}

// Begin snapshots committed into a fresh draft for entity id. Any other
// edit is dropped. Begin is refused while a save is in flight.
func (c *Controller[T]) Begin(id int, committed T) error {
	if c.phase == Saving {
		return ErrBusy
	}
	c.phase, c.id, c.committed, c.draft = Editing, id, committed, committed
	return nil
}

// Set applies fn to the draft. The committed value is never touched.
func (c *Controller[T]) Set(fn func(*T)) error {
	if c.phase != Editing {
		return ErrNotEditing
	}
	fn(&c.draft)
	return nil
}

// Cancel discards the draft. Cancelling a save in flight is not supported.
func (c *Controller[T]) Cancel() error {
	if c.phase == Saving {
		return ErrBusy
	}
	c.reset()
	return nil
}

func (c *Controller[T]) reset() {
	var zero T
	c.phase, c.id, c.committed, c.draft = Viewing, 0, zero, zero
}

// StartSave moves Editing -> Saving and hands back the draft to send.
// An invalid draft leaves the state untouched and returns ErrInvalid.
func (c *Controller[T]) StartSave() (int, T, error) {
	var zero T
	switch c.phase {
	case Viewing:
		return 0, zero, ErrNotEditing
	case Saving:
		return 0, zero, ErrBusy
	}
	if c.valid != nil && !c.valid(c.draft) {
		return 0, zero, ErrInvalid
	}
	c.phase = Saving
	return c.id, c.draft, nil
}

// FinishSave applies the outcome of the save started for id. On success the
// controller returns to Viewing and ok is true: the caller commits the
// returned draft. On failure the draft stays editable. A result for an id
// that no longer owns the slot is ignored.
func (c *Controller[T]) FinishSave(id int, err error) (draft T, ok bool) {
	if c.phase != Saving || c.id != id {
		return draft, false
	}
	if err != nil {
		c.phase = Editing
		return draft, false
	}
	draft = c.draft
	c.reset()
	return draft, true
}

// Save runs StartSave, commit and FinishSave in one go.
func (c *Controller[T]) Save(ctx context.Context, commit func(context.Context, T) error) (T, error) {
	id, draft, err := c.StartSave()
	if err != nil {
		return draft, err
	}
	cerr := commit(ctx, draft)
	out, _ := c.FinishSave(id, cerr)
	if cerr != nil {
		return draft, cerr
	}
	return out, nil
}
