// Package network draws selected crosses as a mating network.
//
// Samples become nodes and each selected cross becomes an edge from mother
// to father. Edges are labelled with the loci the cross added (greedy
// reports) or its informative-locus count (exhaustive reports, when loci
// were recorded). Layout and rendering are done by Graphviz through
// go-graphviz, so no external binary is needed for SVG output.
//
//	dot := network.ToDOT(rep, network.Options{})
//	svg, err := network.RenderSVG(dot)
//	pdf, err := render.ToPDF(svg)
package network
