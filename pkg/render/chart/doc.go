// Package chart draws the selection summary of a report as SVG.
//
// The chart has two panels. The upper one shows how the informative loci of
// the first three picks overlap, as an unweighted three-set diagram: circles
// are fixed and each region carries its locus count. The lower one is a bar
// chart of loci added per pick (greedy reports) or of total coverage per
// budget (exhaustive reports), with pick labels rotated below the axis.
//
// The overlap panel needs locus names in the report; without them only the
// bar chart is drawn.
package chart
