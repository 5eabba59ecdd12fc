package locus

import (
	"github.com/prysmaticlabs/go-bitfield"

	"github.com/matzehuels/crosscover/pkg/errors"
)

// Set is a bitset of locus ids. The zero value is an empty set of width 0.
type Set struct {
	bits bitfield.Bitlist
}

func newSet(n int) Set {
	return Set{bits: bitfield.NewBitlist(uint64(n))}
}

// NewSet returns an empty set of width n.
func NewSet(n int) Set { return newSet(n) }

// Width is the size of the universe the set is drawn from.
func (s Set) Width() int {
	if s.bits == nil {
		return 0
	}
	return int(s.bits.Len())
}

// Add inserts id. Ids outside the width are ignored.
func (s Set) Add(id int) {
	if id < 0 || id >= s.Width() {
		return
	}
	s.bits.SetBitAt(uint64(id), true)
}

// Has reports whether id is in s.
func (s Set) Has(id int) bool {
	if id < 0 || id >= s.Width() {
		return false
	}
	return s.bits.BitAt(uint64(id))
}

// Len returns the number of loci in s.
func (s Set) Len() int {
	if s.bits == nil {
		return 0
	}
	return int(s.bits.Count())
}

// IsEmpty reports whether s has no members.
func (s Set) IsEmpty() bool { return s.Len() == 0 }

// IDs returns the members in ascending order.
func (s Set) IDs() []int {
	if s.bits == nil {
		return nil
	}
	return s.bits.BitIndices()
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	if s.bits == nil {
		return Set{}
	}
	b := make(bitfield.Bitlist, len(s.bits))
	copy(b, s.bits)
	return Set{bits: b}
}

// Equal reports whether s and o have the same width and members.
func (s Set) Equal(o Set) bool {
	if s.Width() != o.Width() {
		return false
	}
	if s.Width() == 0 {
		return true
	}
	for i := range s.bits {
		if s.bits[i] != o.bits[i] {
			return false
		}
	}
	return true
}

func (s Set) check(o Set) error {
	if s.Width() != o.Width() {
		return errors.New(errors.ErrCodeInternal, "locus sets have different widths (%d, %d)", s.Width(), o.Width())
	}
	return nil
}

// Union returns s ∪ o.
func (s Set) Union(o Set) (Set, error) {
	if err := s.check(o); err != nil {
		return Set{}, err
	}
	if s.Width() == 0 {
		return Set{}, nil
	}
	b, err := s.bits.Or(o.bits)
	if err != nil {
		return Set{}, errors.Wrap(errors.ErrCodeInternal, err, "union")
	}
	return Set{bits: b}, nil
}

// Difference returns s \ o.
func (s Set) Difference(o Set) (Set, error) {
	if err := s.check(o); err != nil {
		return Set{}, err
	}
	if s.Width() == 0 {
		return Set{}, nil
	}
	d := s.Clone()
	for _, id := range o.bits.BitIndices() {
		d.bits.SetBitAt(uint64(id), false)
	}
	return d, nil
}

// Gain returns |o \ s|, the number of loci o would add to s.
// Sets of different widths have no gain.
func (s Set) Gain(o Set) int {
	if s.Width() != o.Width() || s.Width() == 0 {
		return 0
	}
	u, err := s.bits.Or(o.bits)
	if err != nil {
		return 0
	}
	return int(u.Count()) - s.Len()
}

// UnionAll returns the union of sets, all of which must share width n.
func UnionAll(n int, sets ...Set) (Set, error) {
	acc := newSet(n)
	for _, s := range sets {
		var err error
		if acc, err = acc.Union(s); err != nil {
			return Set{}, err
		}
	}
	return acc, nil
}
