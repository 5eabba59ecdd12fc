// Package pkg provides the core libraries for Crosscover breeding-cross
// selection.
//
// # Overview
//
// Crosscover reads genotype calls for a set of samples and a list of
// candidate crosses, works out which loci each cross is informative for (one
// parent homozygous, the other heterozygous), and chooses the crosses that
// together cover the most loci for every budget k.
//
// The typical data flow:
//
//	Axiom call table + pairs file
//	         ↓
//	    [assay] package (parse calls, informative sets)
//	         ↓
//	    [coverage] package (cross → locus set map)
//	         ↓
//	    [optimize] package (exhaustive or greedy selection)
//	         ↓
//	    [report] package (text, TSV, JSON)
//	         ↓
//	    [render] packages (chart, network, PDF/PNG)
//
// # Quick Start
//
//	table, _ := assay.ReadFile("calls.txt", assay.Options{})
//	crosses, _ := cross.ReadPairsFile("pairs.txt")
//	m, _ := assay.Informative(table, crosses)
//
//	res, _ := optimize.Run(ctx, crosses, m, optimize.Options{
//	    Strategy: optimize.Greedy,
//	    MaxK:     6,
//	})
//	rep := report.FromResult(res, m, report.Options{})
//	report.WriteText(rep, os.Stdout)
//
// [pipeline] wraps these steps with caching and is what the CLI uses.
//
// # Main Packages
//
// [genotype] - Call symbols and the informative-cross rule.
//
// [locus] - Locus name index and bit-backed locus sets.
//
// [cross] - Mother/father pairs and the pairs file format.
//
// [combo] - k-combination enumeration for the exhaustive search.
//
// [cache] - File, Redis and null caches with content-addressed keys.
//
// [config] - TOML config file and CROSSCOVER_* environment overrides.
//
// [observability] - Hooks for pipeline, optimizer and cache events.
//
// [errors] - Coded errors shared by every package.
package pkg
