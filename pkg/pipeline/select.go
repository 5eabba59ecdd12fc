package pipeline

import (
	"context"

	"github.com/matzehuels/crosscover/pkg/coverage"
	"github.com/matzehuels/crosscover/pkg/cross"
	"github.com/matzehuels/crosscover/pkg/optimize"
	"github.com/matzehuels/crosscover/pkg/report"
)

// Selection is the outcome of the select stage.
type Selection struct {
	// Report is the primary report.
	Report *report.Report

	// Greedy is set for StrategyBoth runs.
	Greedy *report.Report
}

// Select runs the configured strategy over candidates and builds the
// reports. With StrategyBoth the exhaustive report carries the gaps to the
// greedy run.
func Select(ctx context.Context, m *coverage.Map, candidates []cross.Cross, opts Options) (Selection, error) {
	ropts := report.Options{IncludeLoci: opts.IncludeLoci}

	if opts.Strategy != StrategyBoth {
		strategy, err := optimize.ParseStrategy(opts.Strategy)
		if err != nil {
			return Selection{}, err
		}
		res, err := optimize.Run(ctx, candidates, m, optimize.Options{Strategy: strategy, MaxK: opts.MaxK})
		if err != nil {
			return Selection{}, err
		}
		return Selection{Report: report.FromResult(res, m, ropts)}, nil
	}

	exh, err := optimize.Run(ctx, candidates, m, optimize.Options{Strategy: optimize.Exhaustive, MaxK: opts.MaxK})
	if err != nil {
		return Selection{}, err
	}
	gr, err := optimize.Run(ctx, candidates, m, optimize.Options{Strategy: optimize.Greedy, MaxK: opts.MaxK})
	if err != nil {
		return Selection{}, err
	}
	gaps := optimize.Compare(exh, gr)
	return Selection{
		Report: report.FromResult(exh, m, ropts).WithGaps(gaps),
		Greedy: report.FromResult(gr, m, ropts),
	}, nil
}
