package network

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/crosscover/pkg/report"
)

// Options configures network rendering.
type Options struct {
	// Detailed adds the pick order and running coverage to edge labels.
	Detailed bool
}

// ToDOT converts the picks of r to Graphviz DOT.
func ToDOT(r *report.Report, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph crosses {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=ellipse, style=filled, fillcolor=white, fontsize=18];\n")
	buf.WriteString("  edge [fontsize=14, arrowhead=none];\n")
	buf.WriteString("\n")

	picks := r.Picks()
	roles := sampleRoles(picks)
	for _, s := range roles.order {
		fmt.Fprintf(&buf, "  %q [%s];\n", s, strings.Join(fmtNodeAttrs(roles.mother[s], roles.father[s]), ", "))
	}

	buf.WriteString("\n")
	for i, p := range picks {
		label := edgeLabel(r, i, p, opts.Detailed)
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", p.Mother, p.Father, label)
	}

	buf.WriteString("}\n")
	return buf.String()
}

type roleSet struct {
	order          []string
	mother, father map[string]bool
}

func sampleRoles(picks []report.Pair) roleSet {
	rs := roleSet{mother: map[string]bool{}, father: map[string]bool{}}
	seen := map[string]bool{}
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			rs.order = append(rs.order, s)
		}
	}
	for _, p := range picks {
		add(p.Mother)
		add(p.Father)
		rs.mother[p.Mother] = true
		rs.father[p.Father] = true
	}
	return rs
}

func fmtNodeAttrs(mother, father bool) []string {
	switch {
	case mother && father:
		return []string{"fillcolor=\"#e9d5ff\""}
	case mother:
		return []string{"fillcolor=\"#fecdd3\""}
	default:
		return []string{"fillcolor=\"#bfdbfe\"", "shape=box"}
	}
}

func edgeLabel(r *report.Report, i int, p report.Pair, detailed bool) string {
	if i < len(r.Steps) {
		s := r.Steps[i]
		if detailed {
			return fmt.Sprintf("#%d +%d (%d)", i+1, s.Added, s.Cumulative)
		}
		return fmt.Sprintf("+%d", s.Added)
	}
	if loci, ok := r.Informative[p.Label()]; ok {
		return strconv.Itoa(len(loci))
	}
	if detailed {
		return fmt.Sprintf("#%d", i+1)
	}
	return ""
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return RenderSVGContext(context.Background(), dot)
}

// RenderSVGContext is [RenderSVG] with a caller-supplied context.
func RenderSVGContext(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing starts at the
// origin and carries explicit pixel dimensions.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
