// Package favorites holds a user's favorite products as a toggle-able set.
package favorites

import "sort"

// Set is a membership set of product ids. The zero value is ready to use.
type Set struct {
	ids map[string]struct{}
}

// NewSet returns a set holding ids.
func NewSet(ids ...string) *Set {
	s := &Set{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Toggle flips membership of productID and returns the new membership.
func (s *Set) Toggle(productID string) bool {
	if s.ids == nil {
		s.ids = make(map[string]struct{})
	}
	if _, ok := s.ids[productID]; ok {
		delete(s.ids, productID)
		return false
	}
	s.ids[productID] = struct{}{}
	return true
}

func (s *Set) Contains(productID string) bool {
	_, ok := s.ids[productID]
	return ok
}

func (s *Set) Len() int { return len(s.ids) }

// IDs returns the members sorted, so persisted snapshots are stable.
func (s *Set) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy.
func (s *Set) Clone() *Set {
	return NewSet(s.IDs()...)
}
