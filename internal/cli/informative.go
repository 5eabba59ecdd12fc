package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/crosscover/pkg/config"
	"github.com/matzehuels/crosscover/pkg/coverage"
	"github.com/matzehuels/crosscover/pkg/cross"
)

// informativeCommand creates the informative command, which lists each
// candidate cross with the number of loci it is informative for.
func (c *CLI) informativeCommand() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "informative [assay] [pairs]",
		Short: "List the informative loci of each candidate cross",
		Example: `  crosscover informative calls.txt pairs.txt
  crosscover informative calls.txt pairs.txt --loci`,
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
			return c.runInformative(cmd.Context(), cfg, &f)
		},
	}

	cmd.Flags().BoolVar(&f.loci, "loci", false, "list locus names for each cross")
	f.registerAssay(cmd)

	return cmd
}

func (c *CLI) runInformative(ctx context.Context, cfg *config.Config, f *runFlags) error {
	opts := cfg.PipelineOptions()
	opts.Refresh = f.refresh
	opts.Logger = c.Logger
	if err := opts.ValidateForLoad(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, f.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	loaded, hit, err := runner.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return err
	}

	unique, dupes := cross.Dedupe(loaded.Candidates)
	printStats(loaded.Map.Index().Len(), len(unique), hit)
	fmt.Fprintln(c.Out, informativeTable(loaded.Map, unique, f.loci))
	for _, d := range dupes {
		printWarning("%s listed more than once", d.Label())
	}
	return nil
}

// informativeTable renders one row per cross. With loci set, a third column
// lists the informative locus names.
func informativeTable(m *coverage.Map, crosses []cross.Cross, loci bool) string {
	headers := []string{"Cross", "Informative"}
	if loci {
		headers = append(headers, "Loci")
	}
	t := newTable(headers...)
	for _, c := range crosses {
		row := []string{c.Label(), strconv.Itoa(m.Count(c))}
		if loci {
			set, _ := m.Informative(c)
			row = append(row, strings.Join(m.Index().Resolve(set), ", "))
		}
		t.Row(row...)
	}
	return t.Render()
}
