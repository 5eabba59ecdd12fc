// Package locus interns marker names and provides bitset sets over them.
//
// An [Index] assigns each locus name a dense integer id in first-seen order.
// A [Set] is a fixed-width bitset over one Index; every set built from the
// same Index has the same width, so unions and differences are bitwise.
//
// Sets are backed by [bitfield.Bitlist] from go-bitfield. Set operations
// never mutate their receiver or argument.
package locus

import (
	"github.com/matzehuels/crosscover/pkg/errors"
)

// Index maps locus names to dense ids. The zero value is ready to use.
// An Index must not be grown once sets have been created from it.
type Index struct {
	names []string
	ids   map[string]int
}

// NewIndex returns an Index containing names in order. Repeated names are
// interned once.
func NewIndex(names ...string) *Index {
	idx := &Index{ids: make(map[string]int, len(names))}
	for _, n := range names {
		idx.Intern(n)
	}
	return idx
}

// Intern returns the id of name, adding it if it is new.
func (x *Index) Intern(name string) int {
	if x.ids == nil {
		x.ids = make(map[string]int)
	}
	if id, ok := x.ids[name]; ok {
		return id
	}
	id := len(x.names)
	x.names = append(x.names, name)
	x.ids[name] = id
	return id
}

// ID returns the id of name.
func (x *Index) ID(name string) (int, bool) {
	id, ok := x.ids[name]
	return id, ok
}

// Name returns the locus with the given id.
func (x *Index) Name(id int) string { return x.names[id] }

// Len is the size of the universe.
func (x *Index) Len() int { return len(x.names) }

// Names returns the loci in id order. The slice must not be modified.
func (x *Index) Names() []string { return x.names }

// NewSet returns an empty set sized to the index.
func (x *Index) NewSet() Set {
	return newSet(x.Len())
}

// SetOf returns a set containing the named loci.
func (x *Index) SetOf(names ...string) (Set, error) {
	s := x.NewSet()
	for _, n := range names {
		id, ok := x.ids[n]
		if !ok {
			return Set{}, errors.New(errors.ErrCodeInvalidInput, "locus %q not in index", n)
		}
		s.Add(id)
	}
	return s, nil
}

// Resolve returns the names of the loci in s.
func (x *Index) Resolve(s Set) []string {
	ids := s.IDs()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = x.names[id]
	}
	return out
}
