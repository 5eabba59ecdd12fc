// Package report turns optimizer results into serialisable run reports.
//
// A [Report] is the stable, self-describing output of one selection run. It
// is what the CLI writes as JSON and what the chart and network renderers
// read, so rendering can be repeated without re-reading the assay.
package report

import (
	"github.com/google/uuid"

	"github.com/matzehuels/crosscover/pkg/coverage"
	"github.com/matzehuels/crosscover/pkg/cross"
	"github.com/matzehuels/crosscover/pkg/locus"
	"github.com/matzehuels/crosscover/pkg/optimize"
)

// Report is the output of a selection run.
type Report struct {
	RunID      string         `json:"run_id"`
	Strategy   string         `json:"strategy"`
	Requested  int            `json:"requested"`
	Reached    int            `json:"reached"`
	Loci       int            `json:"loci"`
	Selections []Selection    `json:"selections"`
	Steps      []Step         `json:"steps,omitempty"`
	Duplicates []string       `json:"duplicates,omitempty"`
	Gaps       []optimize.Gap `json:"gaps,omitempty"`
	Shortfall  string         `json:"shortfall,omitempty"`

	// Informative maps the label of each picked cross to its informative
	// loci. Only present when loci were requested.
	Informative map[string][]string `json:"informative,omitempty"`
}

// Pair is a cross in report form.
type Pair struct {
	Mother string `json:"mother"`
	Father string `json:"father"`
}

// Label returns "{mother} x {father}".
func (p Pair) Label() string { return cross.New(p.Mother, p.Father).Label() }

// Selection is the chosen cross set for one budget.
type Selection struct {
	K        int      `json:"k"`
	Crosses  []Pair   `json:"crosses"`
	Labels   []string `json:"labels"`
	Coverage int      `json:"coverage"`
	Loci     []string `json:"loci,omitempty"`
}

// Step is one greedy pick.
type Step struct {
	Cross      Pair     `json:"cross"`
	Label      string   `json:"label"`
	Added      int      `json:"added"`
	Cumulative int      `json:"cumulative"`
	AddedLoci  []string `json:"added_loci,omitempty"`
}

// Options controls [FromResult].
type Options struct {
	// IncludeLoci adds locus names to selections and steps. The chart
	// renderer needs them for the overlap panel.
	IncludeLoci bool

	// RunID overrides the generated run identifier.
	RunID string
}

// FromResult builds a report from res. m resolves locus names and may be
// nil when IncludeLoci is false.
func FromResult(res *optimize.Result, m *coverage.Map, opts Options) *Report {
	r := &Report{
		RunID:      opts.RunID,
		Strategy:   res.Strategy.String(),
		Requested:  res.Requested,
		Reached:    res.Reached,
		Loci:       res.Loci,
		Selections: make([]Selection, 0, len(res.Selections)),
	}
	if r.RunID == "" {
		r.RunID = uuid.NewString()
	}
	withLoci := opts.IncludeLoci && m != nil
	var idx *locus.Index
	if withLoci {
		idx = m.Index()
	}

	for _, s := range res.Selections {
		sel := Selection{
			K:        s.K,
			Crosses:  pairs(s.Crosses),
			Labels:   s.Labels(),
			Coverage: s.Coverage,
		}
		if withLoci {
			sel.Loci = idx.Resolve(s.Loci)
		}
		r.Selections = append(r.Selections, sel)
	}

	for _, s := range res.Steps {
		st := Step{
			Cross:      toPair(s.Cross),
			Label:      s.Cross.Label(),
			Added:      s.Added,
			Cumulative: s.Cumulative.Len(),
		}
		if withLoci {
			st.AddedLoci = idx.Resolve(s.AddedLoci)
		}
		r.Steps = append(r.Steps, st)
	}

	for _, d := range res.Duplicates {
		r.Duplicates = append(r.Duplicates, d.Label())
	}
	if err := res.Shortfall(); err != nil {
		r.Shortfall = err.Error()
	}

	if withLoci {
		r.Informative = make(map[string][]string)
		for _, p := range r.Picks() {
			c := cross.New(p.Mother, p.Father)
			if set, ok := m.Informative(c); ok {
				r.Informative[c.Label()] = idx.Resolve(set)
			}
		}
	}
	return r
}

// WithGaps attaches a strategy comparison to r and returns it.
func (r *Report) WithGaps(gaps []optimize.Gap) *Report {
	r.Gaps = gaps
	return r
}

// Best returns the selection with the largest k.
func (r *Report) Best() (Selection, bool) {
	if len(r.Selections) == 0 {
		return Selection{}, false
	}
	return r.Selections[len(r.Selections)-1], true
}

// Picks returns the crosses to plot in order: the greedy steps, or the best
// exhaustive selection.
func (r *Report) Picks() []Pair {
	if len(r.Steps) > 0 {
		out := make([]Pair, len(r.Steps))
		for i, s := range r.Steps {
			out[i] = s.Cross
		}
		return out
	}
	if best, ok := r.Best(); ok {
		return best.Crosses
	}
	return nil
}

func toPair(c cross.Cross) Pair { return Pair{Mother: c.Mother, Father: c.Father} }

func pairs(cs []cross.Cross) []Pair {
	out := make([]Pair, len(cs))
	for i, c := range cs {
		out[i] = toPair(c)
	}
	return out
}
