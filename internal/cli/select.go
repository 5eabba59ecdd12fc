package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/crosscover/pkg/config"
	"github.com/matzehuels/crosscover/pkg/errors"
	"github.com/matzehuels/crosscover/pkg/observability"
	"github.com/matzehuels/crosscover/pkg/pipeline"
	"github.com/matzehuels/crosscover/pkg/report"
)

// runFlags are the flags shared by commands that run the pipeline. They are
// applied over the config only when set on the command line.
type runFlags struct {
	strategy        string
	maxK            int
	formats         string
	output          string
	width           float64
	height          float64
	detailed        bool
	trailingColumns int
	sampleSuffix    string
	homA, homB, het string

	loci        bool
	noCache     bool
	refresh     bool
	interactive bool
}

func (f *runFlags) registerAssay(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.trailingColumns, "trailing-columns", 0, "annotation columns after the sample calls (-1 for none)")
	cmd.Flags().StringVar(&f.sampleSuffix, "sample-suffix", "", "suffix stripped from sample column names")
	cmd.Flags().StringVar(&f.homA, "hom-a", "", "call symbol for homozygous A (default AA)")
	cmd.Flags().StringVar(&f.homB, "hom-b", "", "call symbol for homozygous B (default BB)")
	cmd.Flags().StringVar(&f.het, "het", "", "call symbol for heterozygous (default AB)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results")
}

func (f *runFlags) registerRender(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): txt (default), tsv, json, svg, pdf, png, dot, network (comma-separated)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output base path")
	cmd.Flags().Float64Var(&f.width, "width", 0, "chart width")
	cmd.Flags().Float64Var(&f.height, "height", 0, "chart height")
	cmd.Flags().BoolVar(&f.detailed, "detailed", false, "show pick order and running totals on network edges")
}

// apply copies the flags that were set on cmd onto cfg.
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("strategy") {
		cfg.Strategy = f.strategy
	}
	if changed("max-k") {
		cfg.MaxK = f.maxK
	}
	if changed("format") {
		cfg.Formats = parseFormats(f.formats)
	}
	if changed("output") {
		cfg.Output = f.output
	}
	if changed("width") {
		cfg.Width = f.width
	}
	if changed("height") {
		cfg.Height = f.height
	}
	if changed("detailed") {
		cfg.Detailed = f.detailed
	}
	if changed("trailing-columns") {
		cfg.TrailingColumns = f.trailingColumns
	}
	if changed("sample-suffix") {
		cfg.SampleSuffix = f.sampleSuffix
	}
	if changed("hom-a") {
		cfg.Calls.HomA = f.homA
	}
	if changed("hom-b") {
		cfg.Calls.HomB = f.homB
	}
	if changed("het") {
		cfg.Calls.Het = f.het
	}
}

// selectCommand creates the select command.
func (c *CLI) selectCommand() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "select [assay] [pairs]",
		Short: "Select the crosses that cover the most informative loci",
		Long: `Select the crosses that cover the most informative loci.

A locus is informative for a cross when one parent is homozygous and the
other heterozygous. For every budget k from 2 up to --max-k, select reports
the set of k crosses whose informative loci cover the most loci.

Strategies:
  greedy      pick the cross adding the most new loci, one at a time (fast)
  exhaustive  try every k-subset (exact, exponential in k)
  both        run both and show the gap per budget

The assay and pairs files may also be set in crosscover.toml or through
CROSSCOVER_ASSAY and CROSSCOVER_PAIRS.`,
		Example: `  crosscover select calls.txt pairs.txt
  crosscover select calls.txt pairs.txt -s exhaustive -k 4 -f txt,svg -o picks
  crosscover select --interactive`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			f.apply(cmd, cfg)
			if len(args) > 0 {
				cfg.Assay = args[0]
			}
			if len(args) > 1 {
				cfg.Pairs = args[1]
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return c.runSelect(cmd.Context(), cfg, &f)
		},
	}

	cmd.Flags().StringVarP(&f.strategy, "strategy", "s", "", "selection strategy: greedy (default), exhaustive, both")
	cmd.Flags().IntVarP(&f.maxK, "max-k", "k", 0, "largest number of crosses to select (default 6)")
	cmd.Flags().BoolVar(&f.loci, "loci", false, "include locus names in reports")
	cmd.Flags().BoolVarP(&f.interactive, "interactive", "i", false, "choose the candidate crosses interactively")
	f.registerRender(cmd)
	f.registerAssay(cmd)

	return cmd
}

// runSelect runs the pipeline and prints and writes the results.
func (c *CLI) runSelect(ctx context.Context, cfg *config.Config, f *runFlags) error {
	opts := cfg.PipelineOptions()
	opts.IncludeLoci = f.loci
	opts.Refresh = f.refresh
	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, f.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if f.interactive {
		return c.runInteractiveSelect(ctx, runner, cfg, opts)
	}

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Selecting crosses...")
	spinner.Start()
	observability.SetOptimizerHooks(spinnerHooks{spinner: spinner, prefix: "Selecting"})
	defer observability.SetOptimizerHooks(observability.NoopOptimizerHooks{})

	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Selection failed")
		return err
	}
	spinner.Stop()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done(fmt.Sprintf("Selected %d crosses", res.Report.Reached))
	logStats(c.Logger, res.Stats, res.CacheInfo)

	printSuccess("Selected %d of %d crosses (%s)", res.Report.Reached, res.Stats.Crosses, res.Report.Strategy)
	printStats(res.Stats.Loci, res.Stats.Crosses, res.CacheInfo.LoadHit && res.CacheInfo.SelectHit)
	printReport(res.Report, res.Greedy)

	return c.writeArtifacts(res.Artifacts, opts.Formats, basePath(cfg.Output, cfg.Assay), cfg.Output != "")
}

// printReport prints the selection tables and any warnings.
func printReport(rep, greedy *report.Report) {
	fmt.Println(selectionTable(rep))
	if greedy != nil {
		printInfo("Greedy")
		fmt.Println(selectionTable(greedy))
	}
	if len(rep.Gaps) > 0 {
		printInfo("Exhaustive vs greedy")
		fmt.Println(gapTable(rep.Gaps))
	}
	for _, d := range rep.Duplicates {
		printWarning("%s listed more than once; later entries ignored", d)
	}
	if rep.Shortfall != "" {
		printWarning("%s", rep.Shortfall)
	}
}

// writeArtifacts writes each rendered format to base.<ext>. Without an
// explicit output path the text listing is not written, since the printed
// table already shows it.
func (c *CLI) writeArtifacts(artifacts map[string][]byte, formats []string, base string, explicit bool) error {
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok || (format == pipeline.FormatText && !explicit) {
			continue
		}
		path := base + "." + pipeline.Extension(format)
		if err := errors.ValidateOutputPath(path); err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}
