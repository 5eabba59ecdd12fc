package optimize

import (
	"context"

	"github.com/matzehuels/crosscover/pkg/combo"
	"github.com/matzehuels/crosscover/pkg/coverage"
	"github.com/matzehuels/crosscover/pkg/cross"
	"github.com/matzehuels/crosscover/pkg/locus"
)

// greedyState is the working state of an incremental selection.
type greedyState struct {
	remaining []int // pool positions not yet chosen, in candidate order
	union     locus.Set
	chosen    []cross.Cross
}

func newGreedyState(p *pool) *greedyState {
	return &greedyState{
		remaining: combo.Seq(len(p.crosses)),
		union:     locus.NewSet(p.width),
	}
}

// next returns the position in remaining of the candidate with the largest
// gain against the current union. Earlier candidates win ties.
func (s *greedyState) next(p *pool) (at, gain int) {
	at, gain = -1, -1
	for i, ci := range s.remaining {
		if g := s.union.Gain(p.sets[ci]); g > gain {
			at, gain = i, g
		}
	}
	return at, gain
}

// take moves remaining[at] into the selection and returns the step.
func (s *greedyState) take(p *pool, at int) (Step, error) {
	ci := s.remaining[at]
	set := p.sets[ci]

	added, err := set.Difference(s.union)
	if err != nil {
		return Step{}, err
	}
	union, err := s.union.Union(set)
	if err != nil {
		return Step{}, err
	}

	s.union = union
	s.remaining = append(s.remaining[:at], s.remaining[at+1:]...)
	s.chosen = append(s.chosen, p.crosses[ci])

	return Step{
		Cross:      p.crosses[ci],
		Added:      added.Len(),
		AddedLoci:  added,
		Cumulative: union,
	}, nil
}

func selectGreedy(ctx context.Context, candidates []cross.Cross, m *coverage.Map, opts Options) (*Result, error) {
	res := &Result{Strategy: Greedy, Requested: opts.MaxK}
	p, err := prepare(candidates, m, opts.MaxK, res)
	if err != nil || p == nil {
		return res, err
	}

	st := newGreedyState(p)
	for len(st.chosen) < opts.MaxK && len(st.remaining) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		at, _ := st.next(p)
		step, err := st.take(p, at)
		if err != nil {
			return nil, err
		}
		res.Steps = append(res.Steps, step)
		k := len(st.chosen)
		opts.Hooks.OnStep(ctx, k, step.Cross.Label(), step.Added, step.Cumulative.Len())

		if k >= MinK {
			res.Selections = append(res.Selections, Selection{
				K:        k,
				Crosses:  append([]cross.Cross(nil), st.chosen...),
				Coverage: step.Cumulative.Len(),
				Loci:     step.Cumulative,
			})
			opts.Hooks.OnBudget(ctx, string(Greedy), k, step.Cumulative.Len())
		}
	}
	res.Reached = len(st.chosen)
	return res, nil
}
