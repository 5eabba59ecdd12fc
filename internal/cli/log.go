// Package cli implements the crosscover command-line interface.
//
// # Commands
//
//   - select: pick the crosses that cover the most informative loci
//   - informative: list how many loci each candidate cross is informative for
//   - render: re-render a saved JSON report as charts or graphs
//   - config: write or print the effective configuration
//   - cache: manage the result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so that stage summaries and progress lines
// share one writer.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/crosscover/pkg/pipeline"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with
// elapsed duration. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Selected 6 crosses (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// logStats writes per-stage timings at debug level.
func logStats(l *log.Logger, stats pipeline.Stats, info pipeline.CacheInfo) {
	l.Debug("stage timings",
		"load", stats.LoadTime.Round(time.Millisecond),
		"load_cached", info.LoadHit,
		"select", stats.SelectTime.Round(time.Millisecond),
		"select_cached", info.SelectHit,
		"render", stats.RenderTime.Round(time.Millisecond),
		"render_cached", info.RenderHit)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context carrying l.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
