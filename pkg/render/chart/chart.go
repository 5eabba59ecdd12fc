package chart

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/crosscover/pkg/report"
)

const (
	DefaultWidth  = 800.0
	DefaultHeight = 800.0

	// LabelRotation is the angle of the pick labels under the bar chart.
	LabelRotation = 17.0

	fontFamily = "Helvetica, Arial, sans-serif"
)

var circleColors = [3]string{"#f87171", "#60a5fa", "#4ade80"}

// Option configures [RenderSVG].
type Option func(*chart)

// WithSize sets the canvas size in pixels. Non-positive values keep the
// default.
func WithSize(width, height float64) Option {
	return func(c *chart) {
		if width > 0 {
			c.width = width
		}
		if height > 0 {
			c.height = height
		}
	}
}

// WithTitles overrides the panel titles. Empty strings keep the defaults.
func WithTitles(overlap, bars string) Option {
	return func(c *chart) {
		if overlap != "" {
			c.overlapTitle = overlap
		}
		if bars != "" {
			c.barTitle = bars
		}
	}
}

type chart struct {
	width, height          float64
	overlapTitle, barTitle string
}

// Bar is one bar of the lower panel.
type Bar struct {
	Label string
	Value int
}

// Bars returns the bar series for r: added loci per greedy step, or
// coverage per exhaustive budget.
func Bars(r *report.Report) []Bar {
	if r == nil {
		return nil
	}
	if len(r.Steps) > 0 {
		out := make([]Bar, len(r.Steps))
		for i, s := range r.Steps {
			out[i] = Bar{Label: s.Label, Value: s.Added}
		}
		return out
	}
	out := make([]Bar, len(r.Selections))
	for i, s := range r.Selections {
		out[i] = Bar{Label: "k=" + strconv.Itoa(s.K), Value: s.Coverage}
	}
	return out
}

// RenderSVG draws the summary chart for r.
func RenderSVG(r *report.Report, opts ...Option) []byte {
	c := chart{
		width:        DefaultWidth,
		height:       DefaultHeight,
		overlapTitle: "Shared Loci in Top Three Pairs",
		barTitle:     "Added Informative Loci Per Pair",
	}
	if r != nil && len(r.Steps) == 0 {
		c.barTitle = "Covered Informative Loci Per Budget"
	}
	for _, opt := range opts {
		opt(&c)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		c.width, c.height, c.width, c.height)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="white"/>`+"\n")

	sets, labels := topThree(r)
	split := 0.0
	if len(sets) > 0 {
		split = c.height * 2 / 3
		c.renderOverlap(&buf, sets, labels, split)
	}
	c.renderBars(&buf, Bars(r), split)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// topThree returns the informative sets and labels of the first three picks
// that have locus names recorded.
func topThree(r *report.Report) ([][]string, []string) {
	if r == nil || len(r.Informative) == 0 {
		return nil, nil
	}
	var sets [][]string
	var labels []string
	for _, p := range r.Picks() {
		loci, ok := r.Informative[p.Label()]
		if !ok {
			continue
		}
		sets = append(sets, loci)
		labels = append(labels, p.Label())
		if len(sets) == 3 {
			break
		}
	}
	return sets, labels
}

// Regions counts the loci in each region of the overlap of up to three
// sets. The result is indexed by membership mask: bit i is set when the
// locus is in sets[i]. Index 0 is always zero.
func Regions(sets [][]string) [8]int {
	member := make(map[string]int)
	for i, s := range sets {
		if i >= 3 {
			break
		}
		for _, l := range s {
			member[l] |= 1 << i
		}
	}
	var out [8]int
	for _, mask := range member {
		out[mask]++
	}
	return out
}

func (c *chart) renderOverlap(buf *bytes.Buffer, sets [][]string, labels []string, bottom float64) {
	cx := c.width / 2
	title := 40.0
	r := math.Min(c.width/4.5, (bottom-title-40)/2.6)
	cy := title + (bottom-title)/2 - r*0.1

	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-family="%s" font-size="26">%s</text>`+"\n",
		cx, title, fontFamily, escapeXML(c.overlapTitle))

	// Circle centres sit on an equilateral triangle.
	d := r * 0.62
	centres := [3][2]float64{
		{cx - d, cy - d*0.55},
		{cx + d, cy - d*0.55},
		{cx, cy + d*0.95},
	}
	n := len(sets)
	for i := 0; i < n; i++ {
		fmt.Fprintf(buf, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" fill-opacity="0.35" stroke="%s" stroke-width="2"/>`+"\n",
			centres[i][0], centres[i][1], r, circleColors[i], circleColors[i])
	}

	// Set labels outside each circle.
	labelPos := [3][2]float64{
		{centres[0][0] - r*0.7, centres[0][1] - r - 8},
		{centres[1][0] + r*0.7, centres[1][1] - r - 8},
		{centres[2][0], centres[2][1] + r + 22},
	}
	for i := 0; i < n; i++ {
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-family="%s" font-size="16">%s</text>`+"\n",
			labelPos[i][0], labelPos[i][1], fontFamily, escapeXML(labels[i]))
	}

	counts := Regions(sets)
	for mask := 1; mask < 8; mask++ {
		if mask >= 1<<n {
			break
		}
		x, y := regionCentre(mask, n, centres, r)
		fmt.Fprintf(buf, `  <text class="region" data-mask="%d" x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle" font-family="%s" font-size="18">%d</text>`+"\n",
			mask, x, y, fontFamily, counts[mask])
	}
}

// regionCentre places the count of a region: the mean of the member circle
// centres pushed away from the drawn non-members.
func regionCentre(mask, n int, centres [3][2]float64, r float64) (float64, float64) {
	var in, out [2]float64
	nin, nout := 0, 0
	for i := 0; i < n; i++ {
		if mask&(1<<i) != 0 {
			in[0] += centres[i][0]
			in[1] += centres[i][1]
			nin++
		} else {
			out[0] += centres[i][0]
			out[1] += centres[i][1]
			nout++
		}
	}
	x, y := in[0]/float64(nin), in[1]/float64(nin)
	if nout == 0 {
		return x, y
	}
	ox, oy := out[0]/float64(nout), out[1]/float64(nout)
	dx, dy := x-ox, y-oy
	l := math.Hypot(dx, dy)
	if l == 0 {
		return x, y
	}
	push := r * 0.35
	if nin == 2 {
		push = r * 0.15
	}
	return x + dx/l*push, y + dy/l*push
}

func (c *chart) renderBars(buf *bytes.Buffer, bars []Bar, top float64) {
	const (
		marginLeft  = 70.0
		marginRight = 30.0
		titleHeight = 50.0
		labelHeight = 70.0
	)
	cx := c.width / 2
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-family="%s" font-size="26">%s</text>`+"\n",
		cx, top+36, fontFamily, escapeXML(c.barTitle))

	x0 := marginLeft
	x1 := c.width - marginRight
	y0 := top + titleHeight
	y1 := c.height - labelHeight
	if y1 <= y0 {
		return
	}

	// Axes
	fmt.Fprintf(buf, `  <line class="axis" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="black"/>`+"\n", x0, y1, x1, y1)
	fmt.Fprintf(buf, `  <line class="axis" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="black"/>`+"\n", x0, y0, x0, y1)
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-family="%s" font-size="14" transform="rotate(-90 %.1f %.1f)">Number of Loci</text>`+"\n",
		x0-45, (y0+y1)/2, fontFamily, x0-45, (y0+y1)/2)

	maxV := 0
	for _, b := range bars {
		maxV = max(maxV, b.Value)
	}
	if len(bars) == 0 {
		return
	}
	scale := 0.0
	if maxV > 0 {
		scale = (y1 - y0) / float64(maxV)
	}
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="end" font-family="%s" font-size="12">%d</text>`+"\n", x0-6, y0+4, fontFamily, maxV)
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="end" font-family="%s" font-size="12">0</text>`+"\n", x0-6, y1+4, fontFamily)

	slot := (x1 - x0) / float64(len(bars))
	width := slot * 0.8
	for i, b := range bars {
		bx := x0 + slot*float64(i) + (slot-width)/2
		h := float64(b.Value) * scale
		fmt.Fprintf(buf, `  <rect class="bar" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#3b82f6"><title>%s: %d</title></rect>`+"\n",
			bx, y1-h, width, h, escapeXML(b.Label), b.Value)
		lx := bx + width/2
		ly := y1 + 16
		fmt.Fprintf(buf, `  <text class="tick" x="%.1f" y="%.1f" text-anchor="end" font-family="%s" font-size="12" transform="rotate(-%.0f %.1f %.1f)">%s</text>`+"\n",
			lx, ly, fontFamily, LabelRotation, lx, ly, escapeXML(b.Label))
	}
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
