package assay

import (
	"github.com/matzehuels/crosscover/pkg/coverage"
	"github.com/matzehuels/crosscover/pkg/cross"
	"github.com/matzehuels/crosscover/pkg/errors"
	"github.com/matzehuels/crosscover/pkg/genotype"
)

// Informative builds the coverage map of crosses over t. Every cross gets an
// entry, possibly empty. Repeated crosses share one entry.
func Informative(t *Table, crosses []cross.Cross) (*coverage.Map, error) {
	type cols struct{ m, f int }
	pos := make([]cols, len(crosses))
	for i, c := range crosses {
		m, ok := t.sampleIdx[c.Mother]
		if !ok {
			return nil, errors.New(errors.ErrCodeUnknownSample, "cross %s: mother %q not in assay", c, c.Mother)
		}
		f, ok := t.sampleIdx[c.Father]
		if !ok {
			return nil, errors.New(errors.ErrCodeUnknownSample, "cross %s: father %q not in assay", c, c.Father)
		}
		pos[i] = cols{m, f}
	}

	cm := coverage.New(t.Loci)
	n := len(t.Samples)
	for i, c := range crosses {
		if cm.Has(c) {
			continue
		}
		s := t.Loci.NewSet()
		for l := 0; l < t.Loci.Len(); l++ {
			row := t.calls[l*n : (l+1)*n]
			if genotype.Informative(row[pos[i].m], row[pos[i].f]) {
				s.Add(l)
			}
		}
		if err := cm.Set(c, s); err != nil {
			return nil, err
		}
	}
	return cm, nil
}
