package optimize

import (
	"context"
	"fmt"
	"math/bits"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/crosscover/pkg/coverage"
	"github.com/matzehuels/crosscover/pkg/cross"
	"github.com/matzehuels/crosscover/pkg/errors"
	"github.com/matzehuels/crosscover/pkg/locus"
)

var (
	ab = cross.New("A", "B")
	ac = cross.New("A", "C")
	db = cross.New("D", "B")
)

// scenario: (A,B)={L1,L2}, (A,C)={L2,L3}, (D,B)={L4}
func scenario(t *testing.T) ([]cross.Cross, *coverage.Map) {
	t.Helper()
	m := coverage.New(locus.NewIndex("L1", "L2", "L3", "L4"))
	require.NoError(t, m.SetNames(ab, "L1", "L2"))
	require.NoError(t, m.SetNames(ac, "L2", "L3"))
	require.NoError(t, m.SetNames(db, "L4"))
	return []cross.Cross{ab, ac, db}, m
}

// randomMap builds n crosses over loci markers, each informative with
// probability p.
func randomMap(t *testing.T, seed uint64, n, loci int, p float64) ([]cross.Cross, *coverage.Map) {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	names := make([]string, loci)
	for i := range names {
		names[i] = fmt.Sprintf("AX-%04d", i)
	}
	idx := locus.NewIndex(names...)
	m := coverage.New(idx)

	crosses := make([]cross.Cross, n)
	for i := range crosses {
		crosses[i] = cross.New(fmt.Sprintf("M%02d", i), fmt.Sprintf("F%02d", i%3))
		s := idx.NewSet()
		for l := 0; l < loci; l++ {
			if rng.Float64() < p {
				s.Add(l)
			}
		}
		require.NoError(t, m.Set(crosses[i], s))
	}
	return crosses, m
}

// bruteForce returns the best union size over all k-subsets.
func bruteForce(t *testing.T, crosses []cross.Cross, m *coverage.Map, k int) int {
	t.Helper()
	best := 0
	for mask := 0; mask < 1<<len(crosses); mask++ {
		if bits.OnesCount(uint(mask)) != k {
			continue
		}
		var sub []cross.Cross
		for i := range crosses {
			if mask&(1<<i) != 0 {
				sub = append(sub, crosses[i])
			}
		}
		u, err := m.Union(sub...)
		require.NoError(t, err)
		best = max(best, u.Len())
	}
	return best
}

func TestScenarioExhaustive(t *testing.T) {
	candidates, m := scenario(t)

	res, err := SelectBestByUnion(3, candidates, m)
	require.NoError(t, err)
	require.Len(t, res.Selections, 2)

	k2 := res.Selections[0]
	assert.Equal(t, 2, k2.K)
	assert.Equal(t, []cross.Cross{ab, ac}, k2.Crosses)
	assert.Equal(t, 3, k2.Coverage)
	assert.Equal(t, []string{"L1", "L2", "L3"}, m.Index().Resolve(k2.Loci))

	k3 := res.Selections[1]
	assert.Equal(t, 4, k3.Coverage)
	assert.Equal(t, []cross.Cross{ab, ac, db}, k3.Crosses)

	assert.Empty(t, res.Steps)
	assert.Equal(t, []string{"A x B", "A x C", "D x B"}, res.Labels())
	assert.Equal(t, 4, res.Loci)
	assert.NoError(t, res.Shortfall())
}

func TestScenarioGreedy(t *testing.T) {
	candidates, m := scenario(t)

	res, err := SelectIncrementally(3, candidates, m)
	require.NoError(t, err)
	require.Len(t, res.Steps, 3)

	assert.Equal(t, []string{"A x B", "A x C", "D x B"}, res.Labels())
	assert.Equal(t, []int{2, 1, 1}, []int{res.Steps[0].Added, res.Steps[1].Added, res.Steps[2].Added})
	assert.Equal(t, []string{"L3"}, m.Index().Resolve(res.Steps[1].AddedLoci))
	assert.Equal(t, 3, res.Steps[1].Cumulative.Len())
	assert.Equal(t, 4, res.Steps[2].Cumulative.Len())

	require.Len(t, res.Selections, 2)
	assert.Equal(t, []cross.Cross{ab, ac}, res.Selections[0].Crosses)
	assert.Equal(t, 3, res.Selections[0].Coverage)
	assert.Equal(t, 3, res.Reached)
}

func TestGreedyFirstPickTieGoesToFirstCandidate(t *testing.T) {
	_, m := scenario(t)

	res, err := SelectIncrementally(2, []cross.Cross{ac, ab, db}, m)
	require.NoError(t, err)
	assert.Equal(t, []string{"A x C", "A x B"}, res.Labels())
}

func TestExhaustiveMatchesBruteForce(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			crosses, m := randomMap(t, seed, 8, 40, 0.15)

			res, err := SelectBestByUnion(5, crosses, m)
			require.NoError(t, err)
			require.Len(t, res.Selections, 4)

			for _, sel := range res.Selections {
				assert.Equal(t, bruteForce(t, crosses, m, sel.K), sel.Coverage, "k=%d", sel.K)

				u, err := m.Union(sel.Crosses...)
				require.NoError(t, err)
				assert.Equal(t, sel.Coverage, u.Len())
				assert.True(t, u.Equal(sel.Loci))
			}
		})
	}
}

func TestCoverageIsMonotoneAndGreedyNeverBeatsExhaustive(t *testing.T) {
	for seed := uint64(10); seed < 20; seed++ {
		crosses, m := randomMap(t, seed, 9, 30, 0.2)

		exh, err := SelectBestByUnion(6, crosses, m)
		require.NoError(t, err)
		gr, err := SelectIncrementally(6, crosses, m)
		require.NoError(t, err)

		for _, res := range []*Result{exh, gr} {
			for i := 1; i < len(res.Selections); i++ {
				assert.GreaterOrEqual(t, res.Selections[i].Coverage, res.Selections[i-1].Coverage,
					"%s seed=%d k=%d", res.Strategy, seed, res.Selections[i].K)
			}
		}

		gaps := Compare(exh, gr)
		require.Len(t, gaps, 5)
		for _, g := range gaps {
			assert.GreaterOrEqual(t, g.Diff(), 0, "seed=%d k=%d", seed, g.K)
		}
	}
}

func TestIdempotent(t *testing.T) {
	crosses, m := randomMap(t, 42, 7, 25, 0.25)

	for _, strategy := range Strategies {
		t.Run(string(strategy), func(t *testing.T) {
			opts := Options{Strategy: strategy, MaxK: 4}
			first, err := Run(context.Background(), crosses, m, opts)
			require.NoError(t, err)
			second, err := Run(context.Background(), crosses, m, opts)
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func TestInputsAreNotMutated(t *testing.T) {
	candidates, m := scenario(t)
	candidates = append(candidates, ab)
	before := append([]cross.Cross(nil), candidates...)
	sizes := map[cross.Cross]int{ab: m.Count(ab), ac: m.Count(ac), db: m.Count(db)}

	for _, strategy := range Strategies {
		_, err := Run(context.Background(), candidates, m, Options{Strategy: strategy, MaxK: 3})
		require.NoError(t, err)
	}

	assert.Equal(t, before, candidates)
	for c, n := range sizes {
		assert.Equal(t, n, m.Count(c))
	}
}

func TestShortfall(t *testing.T) {
	candidates, m := scenario(t)

	for _, strategy := range Strategies {
		t.Run(string(strategy), func(t *testing.T) {
			res, err := Run(context.Background(), candidates, m, Options{Strategy: strategy, MaxK: 6})
			require.NoError(t, err)

			assert.Equal(t, 6, res.Requested)
			assert.Equal(t, 3, res.Reached)
			assert.Equal(t, 3, res.Available)
			assert.Len(t, res.Selections, 2)

			short := res.Shortfall()
			require.Error(t, short)
			assert.True(t, errors.Is(short, errors.ErrCodeInsufficientCandidates))
			assert.False(t, errors.IsFatal(short))

			best, ok := res.Best()
			require.True(t, ok)
			assert.Equal(t, 3, best.K)
			assert.Equal(t, 4, best.Coverage)
		})
	}
}

func TestDuplicatesAreReportedAndSkipped(t *testing.T) {
	_, m := scenario(t)
	candidates := []cross.Cross{ab, ab, ac, ab, db}

	for _, strategy := range Strategies {
		t.Run(string(strategy), func(t *testing.T) {
			res, err := Run(context.Background(), candidates, m, Options{Strategy: strategy, MaxK: 3})
			require.NoError(t, err)

			assert.Equal(t, []cross.Cross{ab, ab}, res.Duplicates)
			assert.Equal(t, 3, res.Reached)
			assert.NoError(t, res.Shortfall())

			dupErrs := res.DuplicateErrors()
			require.Len(t, dupErrs, 2)
			assert.True(t, errors.Is(dupErrs[0], errors.ErrCodeDuplicateCross))

			best, _ := res.Best()
			assert.ElementsMatch(t, []cross.Cross{ab, ac, db}, best.Crosses)
		})
	}
}

func TestDegenerateInputs(t *testing.T) {
	_, m := scenario(t)

	tests := []struct {
		name       string
		candidates []cross.Cross
		m          *coverage.Map
		maxK       int
	}{
		{"no candidates", nil, m, 6},
		{"no candidates no map", nil, nil, 6},
		{"budget one", []cross.Cross{ab, ac}, m, 1},
		{"budget zero", []cross.Cross{ab, ac}, m, 0},
		{"negative budget", []cross.Cross{ab, ac}, m, -3},
	}

	for _, tt := range tests {
		for _, strategy := range Strategies {
			t.Run(tt.name+"/"+string(strategy), func(t *testing.T) {
				res, err := Run(context.Background(), tt.candidates, tt.m, Options{Strategy: strategy, MaxK: tt.maxK})
				require.NoError(t, err)
				assert.Empty(t, res.Selections)
				assert.Empty(t, res.Steps)
				assert.Equal(t, 0, res.Reached)
				_, ok := res.Best()
				assert.False(t, ok)
				assert.NoError(t, res.Shortfall(), "degenerate inputs report no shortfall")
			})
		}
	}
}

func TestSingleCandidate(t *testing.T) {
	_, m := scenario(t)

	exh, err := SelectBestByUnion(6, []cross.Cross{ab}, m)
	require.NoError(t, err)
	assert.Empty(t, exh.Selections)
	assert.Equal(t, 1, exh.Available)
	require.Error(t, exh.Shortfall())
	assert.Contains(t, exh.Shortfall().Error(), "only 1 distinct candidates")

	gr, err := SelectIncrementally(6, []cross.Cross{ab}, m)
	require.NoError(t, err)
	require.Len(t, gr.Steps, 1)
	assert.Empty(t, gr.Selections)
	assert.Equal(t, 1, gr.Reached)
	assert.Error(t, gr.Shortfall())
}

func TestUnknownCross(t *testing.T) {
	_, m := scenario(t)
	candidates := []cross.Cross{ab, cross.New("X", "Y")}

	for _, strategy := range Strategies {
		_, err := Run(context.Background(), candidates, m, Options{Strategy: strategy, MaxK: 2})
		assert.True(t, errors.Is(err, errors.ErrCodeUnknownCross), "%s: %v", strategy, err)
		assert.True(t, errors.IsFatal(err))
	}
}

func TestAllEmptySetsKeepFirstSubset(t *testing.T) {
	m := coverage.New(locus.NewIndex("L1"))
	c1, c2, c3 := cross.New("a", "b"), cross.New("c", "d"), cross.New("e", "f")
	for _, c := range []cross.Cross{c1, c2, c3} {
		require.NoError(t, m.SetNames(c))
	}

	exh, err := SelectBestByUnion(2, []cross.Cross{c1, c2, c3}, m)
	require.NoError(t, err)
	require.Len(t, exh.Selections, 1)
	assert.Equal(t, []cross.Cross{c1, c2}, exh.Selections[0].Crosses)
	assert.Equal(t, 0, exh.Selections[0].Coverage)

	gr, err := SelectIncrementally(2, []cross.Cross{c1, c2, c3}, m)
	require.NoError(t, err)
	assert.Equal(t, []string{"a x b", "c x d"}, gr.Labels())
}

func TestInvalidStrategy(t *testing.T) {
	_, m := scenario(t)
	_, err := Run(context.Background(), []cross.Cross{ab}, m, Options{Strategy: "annealing", MaxK: 2})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidStrategy))
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{"exhaustive", Exhaustive, false},
		{"GREEDY", Greedy, false},
		{" greedy ", Greedy, false},
		{"global", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		if tt.wantErr {
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidStrategy), "ParseStrategy(%q)", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestCancelledContext(t *testing.T) {
	crosses, m := randomMap(t, 7, 6, 10, 0.3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, strategy := range Strategies {
		res, err := Run(ctx, crosses, m, Options{Strategy: strategy, MaxK: 4})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, res)
	}
}

func TestCancelBetweenBudgets(t *testing.T) {
	crosses, m := randomMap(t, 3, 8, 16, 0.2)
	ctx, cancel := context.WithCancel(context.Background())

	hooks := &recordingHooks{onBudget: func(k int) {
		if k == 3 {
			cancel()
		}
	}}
	_, err := Run(ctx, crosses, m, Options{Strategy: Exhaustive, MaxK: 6, Hooks: hooks})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []int{2, 3}, hooks.budgets)
}

// expiringCtx reports cancellation once Err has been called more than
// allowed times.
type expiringCtx struct {
	context.Context
	calls, allowed int
}

func (c *expiringCtx) Err() error {
	c.calls++
	if c.calls > c.allowed {
		return context.Canceled
	}
	return nil
}

func TestCancelDuringExhaustiveWalk(t *testing.T) {
	// C(24, 4) = 10626 subsets, so the k=4 walk checks the context twice.
	crosses, m := randomMap(t, 3, 24, 16, 0.2)
	ctx := &expiringCtx{Context: context.Background(), allowed: 3}
	hooks := &recordingHooks{}

	_, err := Run(ctx, crosses, m, Options{Strategy: Exhaustive, MaxK: 4, Hooks: hooks})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []int{2, 3}, hooks.budgets)
	assert.Equal(t, 4, ctx.calls)
}

type recordingHooks struct {
	budgets  []int
	steps    []string
	onBudget func(k int)
}

func (h *recordingHooks) OnBudget(_ context.Context, _ string, k, _ int) {
	h.budgets = append(h.budgets, k)
	if h.onBudget != nil {
		h.onBudget(k)
	}
}

func (h *recordingHooks) OnStep(_ context.Context, _ int, label string, _, _ int) {
	h.steps = append(h.steps, label)
}

func TestHooks(t *testing.T) {
	candidates, m := scenario(t)
	hooks := &recordingHooks{}

	_, err := Run(context.Background(), candidates, m, Options{Strategy: Greedy, MaxK: 3, Hooks: hooks})
	require.NoError(t, err)

	assert.Equal(t, []string{"A x B", "A x C", "D x B"}, hooks.steps)
	assert.Equal(t, []int{2, 3}, hooks.budgets)
}

func TestCompareSkipsMissingBudgets(t *testing.T) {
	exh := &Result{Selections: []Selection{{K: 2, Coverage: 5}, {K: 3, Coverage: 7}}}
	gr := &Result{Selections: []Selection{{K: 2, Coverage: 4}}}

	gaps := Compare(exh, gr)
	require.Len(t, gaps, 1)
	assert.Equal(t, Gap{K: 2, Exhaustive: 5, Greedy: 4}, gaps[0])
	assert.Equal(t, 1, gaps[0].Diff())
	assert.Nil(t, Compare(nil, gr))
}
