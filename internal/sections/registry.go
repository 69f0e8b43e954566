// Package sections tracks which page region is current while the page
// scrolls.
//
// A Tracker asks a Host for an Observer, subscribes every registered
// region to it, and records the most recent region reported as crossing
// into the viewport band. Layout is an in-process Host that derives those
// reports from region bounds and scroll position.
package sections

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrNoSections is returned for an empty registry.
	ErrNoSections = errors.New("sections: no sections registered")

	// ErrEmptyID is returned for a blank section identifier.
	ErrEmptyID = errors.New("sections: empty section id")

	// ErrDuplicateID is returned when an identifier is registered twice.
	ErrDuplicateID = errors.New("sections: duplicate section id")
)

// Registry is an ordered set of section identifiers, in document order.
type Registry struct {
	ids   []string
	index map[string]int
}

// NewRegistry builds a registry from ids in document order.
func NewRegistry(ids ...string) (*Registry, error) {
	if len(ids) == 0 {
		return nil, ErrNoSections
	}
	r := &Registry{
		ids:   make([]string, 0, len(ids)),
		index: make(map[string]int, len(ids)),
	}
	for _, id := range ids {
		if id == "" {
			return nil, ErrEmptyID
		}
		if _, ok := r.index[id]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, id)
		}
		r.index[id] = len(r.ids)
		r.ids = append(r.ids, id)
	}
	return r, nil
}

// MustRegistry is like NewRegistry but panics on error.
func MustRegistry(ids ...string) *Registry {
	r, err := NewRegistry(ids...)
	if err != nil {
		panic(err)
	}
	return r
}

// IDs returns a copy of the identifiers in order.
func (r *Registry) IDs() []string {
	return slices.Clone(r.ids)
}

// Len returns the number of sections.
func (r *Registry) Len() int {
	return len(r.ids)
}

// Index returns the document position of id.
func (r *Registry) Index(id string) (int, bool) {
	i, ok := r.index[id]
	return i, ok
}

// Contains reports whether id is registered.
func (r *Registry) Contains(id string) bool {
	_, ok := r.index[id]
	return ok
}

// First returns the first section in document order.
func (r *Registry) First() string {
	return r.ids[0]
}
