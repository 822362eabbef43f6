package ident

import (
	"strconv"

	"github.com/RoaringBitmap/roaring"
)

// Set tracks ids in use. Generated ids are 28-bit hex numbers, so they are
// stored in a roaring bitmap; ids of any other shape (imported content) go
// into a plain map.
type Set struct {
	bits  *roaring.Bitmap
	other map[string]struct{}
}

// NewSet returns a set holding ids.
func NewSet(ids ...string) *Set {
	s := &Set{bits: roaring.New(), other: make(map[string]struct{})}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add records id.
func (s *Set) Add(id string) {
	if v, ok := pack(id); ok {
		s.bits.Add(v)
		return
	}
	s.other[id] = struct{}{}
}

// Contains reports whether id was recorded.
func (s *Set) Contains(id string) bool {
	if v, ok := pack(id); ok {
		return s.bits.Contains(v)
	}
	_, ok := s.other[id]
	return ok
}

// Len returns the number of distinct ids in the set.
func (s *Set) Len() int {
	return int(s.bits.GetCardinality()) + len(s.other)
}

// Intersects reports whether s and o share at least one id.
func (s *Set) Intersects(o *Set) bool {
	if s.bits.Intersects(o.bits) {
		return true
	}
	small, large := s.other, o.other
	if len(small) > len(large) {
		small, large = large, small
	}
	for id := range small {
		if _, ok := large[id]; ok {
			return true
		}
	}
	return false
}

// pack maps a canonical generated id (7 lowercase hex chars) to its numeric value.
func pack(id string) (uint32, bool) {
	if len(id) != Length {
		return 0, false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return 0, false
		}
	}
	v, err := strconv.ParseUint(id, 16, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}
