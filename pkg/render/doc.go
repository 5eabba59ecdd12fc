// Package render converts crosscover visualizations between output formats.
//
// # Overview
//
// Renderers in the subpackages produce SVG:
//
//   - [chart] draws the selection summary: overlap of the top three picks
//     and the loci added per pick.
//   - [network] draws the selected crosses as a mating network using
//     Graphviz.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// (from librsvg):
//
//	svg := chart.RenderSVG(rep, chart.WithSize(800, 600))
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [chart]: github.com/matzehuels/crosscover/pkg/render/chart
// [network]: github.com/matzehuels/crosscover/pkg/render/network
package render
