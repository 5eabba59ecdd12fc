package coverage

import (
	"encoding/json"

	"github.com/matzehuels/crosscover/pkg/cross"
	"github.com/matzehuels/crosscover/pkg/errors"
	"github.com/matzehuels/crosscover/pkg/locus"
)

type mapJSON struct {
	Loci    []string    `json:"loci"`
	Entries []entryJSON `json:"entries"`
}

type entryJSON struct {
	Cross cross.Cross `json:"cross"`
	Loci  []int       `json:"loci"`
}

// Marshal encodes m as JSON. Locus ids are stored instead of names.
func Marshal(m *Map) ([]byte, error) {
	out := mapJSON{Loci: m.index.Names(), Entries: make([]entryJSON, 0, len(m.crosses))}
	if out.Loci == nil {
		out.Loci = []string{}
	}
	for _, c := range m.crosses {
		ids := m.sets[c].IDs()
		if ids == nil {
			ids = []int{}
		}
		out.Entries = append(out.Entries, entryJSON{Cross: c, Loci: ids})
	}
	return json.Marshal(out)
}

// Unmarshal decodes a Map written by [Marshal].
func Unmarshal(data []byte) (*Map, error) {
	var in mapJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode coverage map")
	}
	idx := locus.NewIndex(in.Loci...)
	if idx.Len() != len(in.Loci) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "coverage map has repeated locus names")
	}
	m := New(idx)
	for _, e := range in.Entries {
		s := idx.NewSet()
		for _, id := range e.Loci {
			if id < 0 || id >= idx.Len() {
				return nil, errors.New(errors.ErrCodeInvalidInput, "locus id %d out of range for %s", id, e.Cross)
			}
			s.Add(id)
		}
		if err := m.Set(e.Cross, s); err != nil {
			return nil, err
		}
	}
	return m, nil
}
