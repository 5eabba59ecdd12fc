// Package coverage holds the informative-locus set of every candidate cross.
//
// A [Map] pairs each [cross.Cross] with a [locus.Set] over one shared
// [locus.Index]. Maps are built once (usually by the assay package) and are
// read-only afterwards, so they may be shared between goroutines.
package coverage

import (
	"github.com/matzehuels/crosscover/pkg/cross"
	"github.com/matzehuels/crosscover/pkg/errors"
	"github.com/matzehuels/crosscover/pkg/locus"
)

// Map is the informative-set mapping for a set of crosses.
type Map struct {
	index   *locus.Index
	sets    map[cross.Cross]locus.Set
	crosses []cross.Cross
}

// New returns an empty Map over idx.
func New(idx *locus.Index) *Map {
	if idx == nil {
		idx = locus.NewIndex()
	}
	return &Map{index: idx, sets: make(map[cross.Cross]locus.Set)}
}

// Set records the informative set of c, replacing any earlier entry.
func (m *Map) Set(c cross.Cross, s locus.Set) error {
	if s.Width() != m.index.Len() {
		return errors.New(errors.ErrCodeInternal,
			"set for %s has width %d, index has %d loci", c, s.Width(), m.index.Len())
	}
	if _, ok := m.sets[c]; !ok {
		m.crosses = append(m.crosses, c)
	}
	m.sets[c] = s
	return nil
}

// SetNames records the informative set of c from locus names.
func (m *Map) SetNames(c cross.Cross, names ...string) error {
	s, err := m.index.SetOf(names...)
	if err != nil {
		return err
	}
	return m.Set(c, s)
}

// Informative returns the set for c. The returned set must not be modified.
func (m *Map) Informative(c cross.Cross) (locus.Set, bool) {
	s, ok := m.sets[c]
	return s, ok
}

// Has reports whether c has an entry.
func (m *Map) Has(c cross.Cross) bool {
	_, ok := m.sets[c]
	return ok
}

// Count returns |Informative(c)|, or 0 when c has no entry.
func (m *Map) Count(c cross.Cross) int {
	return m.sets[c].Len()
}

// Crosses returns the crosses in insertion order.
func (m *Map) Crosses() []cross.Cross { return m.crosses }

// Len is the number of crosses.
func (m *Map) Len() int { return len(m.crosses) }

// Index returns the locus universe.
func (m *Map) Index() *locus.Index { return m.index }

// Union returns the loci covered by the given crosses. A cross without an
// entry is an UNKNOWN_CROSS error.
func (m *Map) Union(crosses ...cross.Cross) (locus.Set, error) {
	acc := m.index.NewSet()
	for _, c := range crosses {
		s, ok := m.sets[c]
		if !ok {
			return locus.Set{}, errors.New(errors.ErrCodeUnknownCross, "cross %s has no informative set", c)
		}
		var err error
		if acc, err = acc.Union(s); err != nil {
			return locus.Set{}, err
		}
	}
	return acc, nil
}

// Universe returns the loci informative for at least one cross.
func (m *Map) Universe() locus.Set {
	u, _ := m.Union(m.crosses...)
	return u
}
