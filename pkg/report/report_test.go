package report

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/crosscover/pkg/coverage"
	"github.com/matzehuels/crosscover/pkg/cross"
	"github.com/matzehuels/crosscover/pkg/locus"
	"github.com/matzehuels/crosscover/pkg/optimize"
)

func fixture(t *testing.T) ([]cross.Cross, *coverage.Map) {
	t.Helper()
	m := coverage.New(locus.NewIndex("L1", "L2", "L3", "L4"))
	candidates := []cross.Cross{cross.New("A", "B"), cross.New("A", "C"), cross.New("D", "B")}
	for i, loci := range [][]string{{"L1", "L2"}, {"L2", "L3"}, {"L4"}} {
		if err := m.SetNames(candidates[i], loci...); err != nil {
			t.Fatal(err)
		}
	}
	return append(candidates, candidates[0]), m
}

func greedyReport(t *testing.T, opts Options) *Report {
	t.Helper()
	candidates, m := fixture(t)
	res, err := optimize.SelectIncrementally(4, candidates, m)
	if err != nil {
		t.Fatal(err)
	}
	return FromResult(res, m, opts)
}

func TestFromResultGreedy(t *testing.T) {
	r := greedyReport(t, Options{IncludeLoci: true})

	if _, err := uuid.Parse(r.RunID); err != nil {
		t.Errorf("RunID %q is not a UUID: %v", r.RunID, err)
	}
	if r.Strategy != "greedy" || r.Requested != 4 || r.Reached != 3 || r.Loci != 4 {
		t.Errorf("header = %+v", r)
	}
	if len(r.Steps) != 3 || r.Steps[1].Label != "A x C" || r.Steps[1].Added != 1 {
		t.Fatalf("steps = %+v", r.Steps)
	}
	if got := strings.Join(r.Steps[1].AddedLoci, ","); got != "L3" {
		t.Errorf("added loci = %s", got)
	}
	if len(r.Duplicates) != 1 || r.Duplicates[0] != "A x B" {
		t.Errorf("duplicates = %v", r.Duplicates)
	}
	if !strings.Contains(r.Shortfall, "INSUFFICIENT_CANDIDATES") {
		t.Errorf("shortfall = %q", r.Shortfall)
	}
	if got := strings.Join(r.Informative["A x C"], ","); got != "L2,L3" {
		t.Errorf("informative[A x C] = %s", got)
	}
	if len(r.Informative) != 3 {
		t.Errorf("informative has %d entries", len(r.Informative))
	}
}

func TestFromResultWithoutLoci(t *testing.T) {
	r := greedyReport(t, Options{RunID: "fixed"})
	if r.RunID != "fixed" {
		t.Errorf("RunID = %q", r.RunID)
	}
	if r.Informative != nil || r.Steps[0].AddedLoci != nil || r.Selections[0].Loci != nil {
		t.Error("locus names should be omitted")
	}
}

func TestPicks(t *testing.T) {
	candidates, m := fixture(t)
	res, err := optimize.SelectBestByUnion(2, candidates, m)
	if err != nil {
		t.Fatal(err)
	}
	r := FromResult(res, m, Options{})
	picks := r.Picks()
	if len(picks) != 2 || picks[0].Label() != "A x B" || picks[1].Label() != "A x C" {
		t.Errorf("picks = %v", picks)
	}

	if (&Report{}).Picks() != nil {
		t.Error("empty report should have no picks")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	r := greedyReport(t, Options{IncludeLoci: true})
	r.WithGaps([]optimize.Gap{{K: 2, Exhaustive: 3, Greedy: 3}})

	path := filepath.Join(t.TempDir(), "report.json")
	if err := ExportJSON(r, path); err != nil {
		t.Fatal(err)
	}
	back, err := ImportJSON(path)
	if err != nil {
		t.Fatal(err)
	}

	var a, b bytes.Buffer
	_ = WriteJSON(r, &a)
	_ = WriteJSON(back, &b)
	if a.String() != b.String() {
		t.Errorf("round trip changed report:\n%s\nvs\n%s", a.String(), b.String())
	}
}

func TestReadJSONRejectsForeignDocuments(t *testing.T) {
	for _, in := range []string{`{`, `{}`, `{"nodes":[],"edges":[]}`} {
		if _, err := ReadJSON(strings.NewReader(in)); err == nil {
			t.Errorf("ReadJSON(%s) should fail", in)
		}
	}
	if _, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestWriteTextExhaustive(t *testing.T) {
	candidates, m := fixture(t)
	res, err := optimize.SelectBestByUnion(3, candidates, m)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteText(FromResult(res, m, Options{}), &buf); err != nil {
		t.Fatal(err)
	}
	want := "(A x B, A x C) : 3\n(A x B, A x C, D x B) : 4\n"
	if buf.String() != want {
		t.Errorf("WriteText =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteTextGreedy(t *testing.T) {
	r := greedyReport(t, Options{})
	var buf bytes.Buffer
	if err := WriteText(r, &buf); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if lines[0] != "1\tA x B\t+2\t2" || lines[2] != "3\tD x B\t+1\t4" {
		t.Errorf("lines = %q", lines)
	}
	if !strings.HasPrefix(lines[3], "# INSUFFICIENT_CANDIDATES") {
		t.Errorf("last line = %q", lines[3])
	}
}

func TestWriteTSV(t *testing.T) {
	tests := []struct {
		name string
		r    *Report
		want string
	}{
		{
			name: "greedy",
			r: &Report{Steps: []Step{
				{Cross: Pair{"A", "B"}, Label: "A x B", Added: 2, Cumulative: 2},
			}},
			want: "step\tmother\tfather\tadded\tcumulative\n1\tA\tB\t2\t2\n",
		},
		{
			name: "exhaustive",
			r: &Report{Selections: []Selection{
				{K: 2, Labels: []string{"A x B", "A x C"}, Coverage: 3},
			}},
			want: "k\tcrosses\tcoverage\n2\tA x B;A x C\t3\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteTSV(tt.r, &buf); err != nil {
				t.Fatal(err)
			}
			if buf.String() != tt.want {
				t.Errorf("WriteTSV = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}
