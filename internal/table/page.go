// Package table derives filtered, paginated views over in-memory collections.
//
// Everything here is a pure function of its inputs except Pager, which only
// holds the requested page number.
package table

import "fmt"

// Page is one page of a filtered collection.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
	Total      int `json:"total"` // matching items across all pages
}

// TotalPages is ceil(n/size); 0 when n is 0.
func TotalPages(n, size int) int {
	if n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Derive filters items with match (nil matches all), keeping source order,
// and returns the requested page. A page outside [1, TotalPages] yields no
// items.
func Derive[T any](items []T, match func(T) bool, page, size int) Page[T] {
	if size <= 0 {
		panic(fmt.Sprintf("table.Derive: page size must be positive, got %d", size))
	}
	filtered := make([]T, 0, len(items))
	for _, it := range items {
		if match == nil || match(it) {
			filtered = append(filtered, it)
		}
	}

	out := Page[T]{
		Items:      []T{},
		Page:       page,
		TotalPages: TotalPages(len(filtered), size),
		Total:      len(filtered),
	}
	if page < 1 || page > out.TotalPages {
		return out
	}
	start := (page - 1) * size
	end := min(start+size, len(filtered))
	out.Items = filtered[start:end]
	return out
}

// Pager tracks the current page of a list with a fixed page size.
type Pager struct {
	size    int
	current int
}

func NewPager(size int) (*Pager, error) {
	if size <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %d", size)
	}
	return &Pager{size: size, current: 1}, nil
}

func (p *Pager) Size() int    { return p.size }
func (p *Pager) Current() int { return p.current }

// Goto moves to page if it lies in [1, totalPages]. Otherwise nothing
// changes and Goto reports false.
func (p *Pager) Goto(page, totalPages int) bool {
	if page < 1 || page > totalPages {
		return false
	}
	p.current = page
	return true
}

func (p *Pager) Next(totalPages int) bool { return p.Goto(p.current+1, totalPages) }
func (p *Pager) Prev(totalPages int) bool { return p.Goto(p.current-1, totalPages) }

func (p *Pager) HasPrev() bool               { return p.current > 1 }
func (p *Pager) HasNext(totalPages int) bool { return p.current < totalPages }

// Reset returns to the first page. Call it whenever the filter changes.
func (p *Pager) Reset() { p.current = 1 }

// Clamp pulls the current page back inside [1, max(totalPages, 1)] after the
// collection shrank underneath it.
func (p *Pager) Clamp(totalPages int) {
	if p.current > totalPages {
		p.current = totalPages
	}
	if p.current < 1 {
		p.current = 1
	}
}
