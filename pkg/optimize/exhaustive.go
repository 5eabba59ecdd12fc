package optimize

import (
	"context"

	"github.com/matzehuels/crosscover/pkg/combo"
	"github.com/matzehuels/crosscover/pkg/coverage"
	"github.com/matzehuels/crosscover/pkg/cross"
	"github.com/matzehuels/crosscover/pkg/locus"
)

func selectExhaustive(ctx context.Context, candidates []cross.Cross, m *coverage.Map, opts Options) (*Result, error) {
	res := &Result{Strategy: Exhaustive, Requested: opts.MaxK}
	p, err := prepare(candidates, m, opts.MaxK, res)
	if err != nil || p == nil {
		return res, err
	}

	n := len(p.crosses)
	top := min(opts.MaxK, n)
	for k := MinK; k <= top; k++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sel, err := bestOfSize(ctx, p, k)
		if err != nil {
			return nil, err
		}
		res.Selections = append(res.Selections, sel)
		res.Reached = k
		opts.Hooks.OnBudget(ctx, string(Exhaustive), k, sel.Coverage)
	}
	return res, nil
}

// bestOfSize walks all k-subsets of p in lexicographic order and returns the
// first one with the largest union.
//
// prefix[i] holds the union of the first i+1 members of the current subset.
// Consecutive subsets share a prefix, so only the tail is recomputed.
func bestOfSize(ctx context.Context, p *pool, k int) (Selection, error) {
	prefix := make([]locus.Set, k)
	prev := make([]int, k)
	for i := range prev {
		prev[i] = -1
	}

	best := -1
	var bestIdx []int
	var bestSet locus.Set
	var walkErr error
	visited := 0

	combo.Each(len(p.crosses), k, func(idx []int) bool {
		visited++
		if visited%checkEvery == 0 {
			if walkErr = ctx.Err(); walkErr != nil {
				return false
			}
		}

		j := 0
		for j < k && idx[j] == prev[j] {
			j++
		}
		for i := j; i < k; i++ {
			if i == 0 {
				prefix[0] = p.sets[idx[0]]
			} else if prefix[i], walkErr = prefix[i-1].Union(p.sets[idx[i]]); walkErr != nil {
				return false
			}
			prev[i] = idx[i]
		}

		if c := prefix[k-1].Len(); c > best {
			best = c
			bestIdx = append(bestIdx[:0], idx...)
			bestSet = prefix[k-1]
		}
		return true
	})
	if walkErr != nil {
		return Selection{}, walkErr
	}

	sel := Selection{K: k, Coverage: best, Loci: bestSet, Crosses: make([]cross.Cross, k)}
	for i, ci := range bestIdx {
		sel.Crosses[i] = p.crosses[ci]
	}
	return sel, nil
}
