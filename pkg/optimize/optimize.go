// Package optimize selects sets of breeding crosses that jointly cover the
// most informative loci.
//
// Given candidate crosses and the informative-locus set of each (a
// [coverage.Map]), the package answers, for every budget k from 2 up to a
// maximum: which k crosses together cover the most loci?
//
// # Strategies
//
// Two strategies are provided:
//
//   - [Exhaustive] ([SelectBestByUnion]) enumerates every k-subset of the
//     candidates and keeps the one with the largest union. It is exact and
//     costs C(n, k) unions per budget.
//   - [Greedy] ([SelectIncrementally]) starts from the cross with the largest
//     informative set and repeatedly adds the cross contributing the most new
//     loci. It is fast and produces an ordered pick list with per-step gains.
//
// For every k, exhaustive coverage is at least greedy coverage, and both are
// non-decreasing in k.
//
// # Ties
//
// Ties always go to the candidate (or subset) met first: the input order of
// the deduplicated candidates for greedy, lexicographic subset order for
// exhaustive. Results are therefore fully deterministic.
//
// # Candidates
//
// Duplicate candidates are dropped (first occurrence kept) and reported in
// [Result.Duplicates]; they never take a budget slot. A candidate missing
// from the map is an UNKNOWN_CROSS error. Asking for more crosses than there
// are candidates is not an error: the result stops at the candidate count and
// [Result.Shortfall] describes the gap.
//
// The package performs no I/O and never mutates its inputs.
package optimize

import (
	"context"
	"strings"

	"github.com/matzehuels/crosscover/pkg/coverage"
	"github.com/matzehuels/crosscover/pkg/cross"
	"github.com/matzehuels/crosscover/pkg/errors"
	"github.com/matzehuels/crosscover/pkg/locus"
	"github.com/matzehuels/crosscover/pkg/observability"
)

// Strategy names a selection algorithm.
type Strategy string

const (
	Exhaustive Strategy = "exhaustive"
	Greedy     Strategy = "greedy"
)

// Strategies lists the supported strategies.
var Strategies = []Strategy{Exhaustive, Greedy}

// DefaultMaxK is the default largest budget.
const DefaultMaxK = 6

// MinK is the smallest budget a selection is reported for.
const MinK = 2

// checkEvery is how many subsets the exhaustive walk visits between
// context checks.
const checkEvery = 4096

// ParseStrategy parses a strategy name, case-insensitively.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case Exhaustive:
		return Exhaustive, nil
	case Greedy:
		return Greedy, nil
	}
	return "", errors.New(errors.ErrCodeInvalidStrategy, "unknown strategy %q (want exhaustive or greedy)", s)
}

func (s Strategy) String() string { return string(s) }

// Options configures [Run].
type Options struct {
	Strategy Strategy
	MaxK     int

	// Hooks receives progress events. Nil uses the global optimizer hooks.
	Hooks observability.OptimizerHooks
}

// Run selects crosses from candidates using the configured strategy.
//
// The context is checked between budgets and periodically during the
// exhaustive walk; on cancellation Run returns ctx.Err().
func Run(ctx context.Context, candidates []cross.Cross, m *coverage.Map, opts Options) (*Result, error) {
	if opts.Hooks == nil {
		opts.Hooks = observability.Optimizer()
	}
	switch opts.Strategy {
	case Exhaustive:
		return selectExhaustive(ctx, candidates, m, opts)
	case Greedy:
		return selectGreedy(ctx, candidates, m, opts)
	default:
		return nil, errors.New(errors.ErrCodeInvalidStrategy, "unknown strategy %q", opts.Strategy)
	}
}

// SelectBestByUnion returns, for every k in 2..maxK, the k-subset of
// candidates whose informative sets have the largest union.
func SelectBestByUnion(maxK int, candidates []cross.Cross, m *coverage.Map) (*Result, error) {
	return Run(context.Background(), candidates, m, Options{Strategy: Exhaustive, MaxK: maxK})
}

// SelectIncrementally picks up to maxK crosses one at a time, each time
// taking the cross that adds the most new loci.
func SelectIncrementally(maxK int, candidates []cross.Cross, m *coverage.Map) (*Result, error) {
	return Run(context.Background(), candidates, m, Options{Strategy: Greedy, MaxK: maxK})
}

// pool is the deduplicated, validated candidate list with its sets.
type pool struct {
	crosses []cross.Cross
	sets    []locus.Set
	width   int
}

// prepare dedupes candidates into res and resolves their sets. It returns a
// nil pool for degenerate inputs.
func prepare(candidates []cross.Cross, m *coverage.Map, maxK int, res *Result) (*pool, error) {
	unique, dupes := cross.Dedupe(candidates)
	res.Duplicates = dupes
	res.Available = len(unique)
	if m != nil {
		res.Loci = m.Index().Len()
	}
	if len(unique) == 0 || maxK < MinK {
		return nil, nil
	}
	if m == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no informative map for %d candidates", len(unique))
	}

	p := &pool{crosses: unique, sets: make([]locus.Set, len(unique)), width: m.Index().Len()}
	for i, c := range unique {
		s, ok := m.Informative(c)
		if !ok {
			return nil, errors.New(errors.ErrCodeUnknownCross, "cross %s is not in the informative map", c)
		}
		p.sets[i] = s
	}
	return p, nil
}
