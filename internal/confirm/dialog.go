// Package confirm is a two-step confirmation for destructive actions.
package confirm

// Dialog is Idle until Request names a target, then Pending until Take or
// Cancel returns it to Idle. There is one pending slot, not a queue.
type Dialog struct {
	target  int
	pending bool
}

// Request opens the dialog for id, replacing any pending target.
func (d *Dialog) Request(id int) {
	d.target, d.pending = id, true
}

// Pending returns the target awaiting confirmation.
func (d *Dialog) Pending() (int, bool) {
	return d.target, d.pending
}

func (d *Dialog) Open() bool { return d.pending }

// Cancel closes the dialog without acting.
func (d *Dialog) Cancel() {
	d.target, d.pending = 0, false
}

// Take confirms: it closes the dialog and returns the target to act on.
func (d *Dialog) Take() (int, bool) {
	id, ok := d.target, d.pending
	d.Cancel()
	return id, ok
}
