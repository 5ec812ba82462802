package table

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/idilsaglam/userboard/internal/model"
)

// Status selects todos by completion.
type Status int

const (
	StatusAll Status = iota
	StatusCompleted
	StatusIncomplete
)

var statusNames = []string{"all", "completed", "incomplete"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// Next cycles all -> completed -> incomplete -> all.
func (s Status) Next() Status { return (s + 1) % Status(len(statusNames)) }

// ParseStatus accepts the names printed by String.
func ParseStatus(v string) (Status, error) {
	for i, n := range statusNames {
		if strings.EqualFold(v, n) {
			return Status(i), nil
		}
	}
	return StatusAll, fmt.Errorf("invalid status %q: must be one of %v", v, statusNames)
}

// AllOwners disables the owner filter. User ids are positive.
const AllOwners = 0

// Filter is the todo list filter state. The zero value matches everything.
type Filter struct {
	Status  Status
	Title   string
	OwnerID int
}

// Match reports whether t passes every active filter.
func (f Filter) Match(t model.TodoView) bool {
	switch f.Status {
	case StatusCompleted:
		if !t.Completed {
			return false
		}
	case StatusIncomplete:
		if t.Completed {
			return false
		}
	}
	if f.OwnerID != AllOwners && t.UserID != f.OwnerID {
		return false
	}
	return containsFold(t.Title, f.Title)
}

// containsFold is a Unicode case-insensitive strings.Contains.
func containsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	// Casers keep state; never share one.
	c := cases.Fold()
	return strings.Contains(c.String(s), c.String(substr))
}
