package optimize

import (
	"github.com/matzehuels/crosscover/pkg/cross"
	"github.com/matzehuels/crosscover/pkg/errors"
	"github.com/matzehuels/crosscover/pkg/locus"
)

// Result is the outcome of a selection run.
type Result struct {
	Strategy Strategy

	// Requested is the largest budget asked for; Reached is the largest
	// budget actually filled (the number of greedy picks, or the largest
	// exhaustive k).
	Requested int
	Reached   int

	// Available is the number of distinct candidates.
	Available int

	// Loci is the size of the locus universe.
	Loci int

	// Selections holds one entry per budget k >= 2, in increasing k.
	Selections []Selection

	// Steps is the ordered greedy pick list. Empty for exhaustive runs.
	Steps []Step

	// Duplicates are repeated candidates that were dropped.
	Duplicates []cross.Cross
}

// Selection is the chosen cross set for one budget.
type Selection struct {
	K        int
	Crosses  []cross.Cross
	Coverage int
	Loci     locus.Set
}

// Step is one greedy pick.
type Step struct {
	Cross      cross.Cross
	Added      int       // loci not covered before this step
	AddedLoci  locus.Set // the loci themselves
	Cumulative locus.Set // union after this step
}

// Labels returns the "{mother} x {father}" label of every cross.
func (s Selection) Labels() []string { return cross.Labels(s.Crosses) }

// Shortfall returns an INSUFFICIENT_CANDIDATES error when fewer distinct
// crosses were available than requested, or nil. Runs with no candidates
// are degenerate and report nothing.
func (r *Result) Shortfall() error {
	if r == nil || r.Requested < MinK || r.Available == 0 || r.Available >= r.Requested {
		return nil
	}
	return errors.New(errors.ErrCodeInsufficientCandidates,
		"requested %d crosses but only %d distinct candidates are available", r.Requested, r.Available)
}

// DuplicateErrors returns one DUPLICATE_CROSS error per dropped candidate.
func (r *Result) DuplicateErrors() []error {
	if r == nil {
		return nil
	}
	out := make([]error, 0, len(r.Duplicates))
	for _, c := range r.Duplicates {
		out = append(out, errors.New(errors.ErrCodeDuplicateCross, "cross %s listed more than once", c))
	}
	return out
}

// Best returns the selection with the largest k.
func (r *Result) Best() (Selection, bool) {
	if r == nil || len(r.Selections) == 0 {
		return Selection{}, false
	}
	return r.Selections[len(r.Selections)-1], true
}

// Selection returns the selection for budget k.
func (r *Result) Selection(k int) (Selection, bool) {
	if r == nil {
		return Selection{}, false
	}
	for _, s := range r.Selections {
		if s.K == k {
			return s, true
		}
	}
	return Selection{}, false
}

// Labels returns the greedy pick order, or the labels of the best
// exhaustive selection.
func (r *Result) Labels() []string {
	if r == nil {
		return nil
	}
	if len(r.Steps) > 0 {
		out := make([]string, len(r.Steps))
		for i, s := range r.Steps {
			out[i] = s.Cross.Label()
		}
		return out
	}
	if best, ok := r.Best(); ok {
		return best.Labels()
	}
	return nil
}

// Gap is the coverage difference between strategies at one budget.
type Gap struct {
	K          int `json:"k"`
	Exhaustive int `json:"exhaustive"`
	Greedy     int `json:"greedy"`
}

// Diff is exhaustive minus greedy coverage. It is never negative for
// correct results.
func (g Gap) Diff() int { return g.Exhaustive - g.Greedy }

// Compare pairs the coverage of two results by budget. Budgets present in
// only one of them are skipped.
func Compare(exhaustive, greedy *Result) []Gap {
	if exhaustive == nil || greedy == nil {
		return nil
	}
	var out []Gap
	for _, e := range exhaustive.Selections {
		if g, ok := greedy.Selection(e.K); ok {
			out = append(out, Gap{K: e.K, Exhaustive: e.Coverage, Greedy: g.Coverage})
		}
	}
	return out
}
