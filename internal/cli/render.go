package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/crosscover/pkg/config"
	"github.com/matzehuels/crosscover/pkg/pipeline"
	"github.com/matzehuels/crosscover/pkg/report"
)

// renderCommand creates the render command, which turns a saved JSON report
// into charts, graphs or tables without re-running selection.
func (c *CLI) renderCommand() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "render <report.json>",
		Short: "Render a saved JSON report",
		Long: `Render a JSON report written by "select -f json" into other formats.

Charts (svg, pdf, png) need locus names, so the report must have been
written with --loci or with a chart format in the same run.`,
		Example: `  crosscover render picks.json -f svg,png
  crosscover render picks.json -f network --detailed -o picks_graph`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			f.apply(cmd, cfg)
			if !cmd.Flags().Changed("format") {
				cfg.Formats = []string{pipeline.FormatSVG}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], cfg, f.noCache)
		},
	}

	f.registerRender(cmd)
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, cfg *config.Config, noCache bool) error {
	rep, err := report.ImportJSON(input)
	if err != nil {
		return err
	}

	opts := cfg.PipelineOptions()
	opts.Logger = c.Logger
	opts.SetRenderDefaults()
	if err := opts.ValidateForRender(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, rep, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d formats", len(artifacts)))
	c.Logger.Debug("render", "cached", hit, "report", rep.RunID)

	return c.writeArtifacts(artifacts, opts.Formats, basePath(cfg.Output, input), true)
}
