package network

import (
	"strings"
	"testing"

	"github.com/matzehuels/crosscover/pkg/report"
)

func greedyReport() *report.Report {
	return &report.Report{
		RunID:    "test",
		Strategy: "greedy",
		Steps: []report.Step{
			{Cross: report.Pair{Mother: "A", Father: "B"}, Label: "A x B", Added: 2, Cumulative: 2},
			{Cross: report.Pair{Mother: "A", Father: "C"}, Label: "A x C", Added: 1, Cumulative: 3},
			{Cross: report.Pair{Mother: "B", Father: "D"}, Label: "B x D", Added: 1, Cumulative: 4},
		},
	}
}

func TestToDOT_Greedy(t *testing.T) {
	dot := ToDOT(greedyReport(), Options{})

	for _, want := range []string{
		"digraph crosses",
		`"A" -> "B" [label="+2"]`,
		`"A" -> "C" [label="+1"]`,
		`"B" [fillcolor="#e9d5ff"]`,
		`"C" [fillcolor="#bfdbfe", shape=box]`,
		`"A" [fillcolor="#fecdd3"]`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
	if strings.Count(dot, "->") != 3 {
		t.Errorf("ToDOT() should have 3 edges:\n%s", dot)
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(greedyReport(), Options{Detailed: true})
	if !strings.Contains(dot, `label="#2 +1 (3)"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
}

func TestToDOT_Exhaustive(t *testing.T) {
	r := &report.Report{
		Strategy: "exhaustive",
		Selections: []report.Selection{{
			K:       2,
			Crosses: []report.Pair{{Mother: "A", Father: "B"}, {Mother: "A", Father: "C"}},
		}},
		Informative: map[string][]string{"A x B": {"L1", "L2"}},
	}
	dot := ToDOT(r, Options{})
	if !strings.Contains(dot, `"A" -> "B" [label="2"]`) {
		t.Errorf("coverage label missing:\n%s", dot)
	}
	if !strings.Contains(dot, `"A" -> "C" [label=""]`) {
		t.Errorf("unlabelled edge missing:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(ToDOT(greedyReport(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(`not valid DOT {{{`); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}
