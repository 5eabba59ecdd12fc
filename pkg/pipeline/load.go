package pipeline

import (
	"github.com/matzehuels/crosscover/pkg/assay"
	"github.com/matzehuels/crosscover/pkg/coverage"
	"github.com/matzehuels/crosscover/pkg/cross"
)

// Load reads the candidate pairs and the assay and builds the informative
// map. Candidates are returned as listed, duplicates included.
func Load(opts Options) (*coverage.Map, []cross.Cross, error) {
	candidates, err := cross.ReadPairsFile(opts.Pairs)
	if err != nil {
		return nil, nil, err
	}
	m, err := loadMap(opts, candidates)
	if err != nil {
		return nil, nil, err
	}
	return m, candidates, nil
}

func loadMap(opts Options, candidates []cross.Cross) (*coverage.Map, error) {
	t, err := assay.ReadFile(opts.Assay, opts.AssayOptions())
	if err != nil {
		return nil, err
	}
	if t.NoCalls > 0 && opts.Logger != nil {
		opts.Logger.Debug("assay has unrecognised calls", "count", t.NoCalls)
	}
	return assay.Informative(t, candidates)
}
