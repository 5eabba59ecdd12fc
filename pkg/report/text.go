package report

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteText writes a plain listing of r.
//
// Exhaustive reports print one line per budget:
//
//	(A x B, A x C) : 3
//
// Greedy reports print one line per pick with its gain and running total:
//
//	1  A x B  +2  2
func WriteText(r *Report, w io.Writer) error {
	bw := bufio.NewWriter(w)
	if len(r.Steps) > 0 {
		for i, s := range r.Steps {
			fmt.Fprintf(bw, "%d\t%s\t+%d\t%d\n", i+1, s.Label, s.Added, s.Cumulative)
		}
	} else {
		for _, s := range r.Selections {
			fmt.Fprintf(bw, "(%s) : %d\n", strings.Join(s.Labels, ", "), s.Coverage)
		}
	}
	for _, g := range r.Gaps {
		fmt.Fprintf(bw, "# k=%d exhaustive=%d greedy=%d\n", g.K, g.Exhaustive, g.Greedy)
	}
	if r.Shortfall != "" {
		fmt.Fprintf(bw, "# %s\n", r.Shortfall)
	}
	return bw.Flush()
}

// WriteTSV writes r as a tab-separated table with a header row. Greedy
// reports list steps; exhaustive reports list selections.
func WriteTSV(r *Report, w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	var rows [][]string
	if len(r.Steps) > 0 {
		rows = append(rows, []string{"step", "mother", "father", "added", "cumulative"})
		for i, s := range r.Steps {
			rows = append(rows, []string{
				strconv.Itoa(i + 1), s.Cross.Mother, s.Cross.Father,
				strconv.Itoa(s.Added), strconv.Itoa(s.Cumulative),
			})
		}
	} else {
		rows = append(rows, []string{"k", "crosses", "coverage"})
		for _, s := range r.Selections {
			rows = append(rows, []string{
				strconv.Itoa(s.K), strings.Join(s.Labels, ";"), strconv.Itoa(s.Coverage),
			})
		}
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write tsv: %w", err)
	}
	return nil
}
