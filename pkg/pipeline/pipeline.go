// Package pipeline runs the load → select → render flow shared by every
// crosscover command.
//
// # Stages
//
//  1. Load: read the assay call table and the candidate pair list, and
//     build the informative-loci map
//  2. Select: run the optimizer and turn its result into a [report.Report]
//  3. Render: write the report in the requested formats
//
// Each stage is cached separately through [cache.Cache], so re-rendering a
// selection with new formats does not re-read a large assay.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Assay:    "calls.txt",
//	    Pairs:    "pairs.txt",
//	    Strategy: "greedy",
//	    Formats:  []string{"txt", "svg"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := res.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/crosscover/pkg/assay"
	"github.com/matzehuels/crosscover/pkg/cache"
	"github.com/matzehuels/crosscover/pkg/coverage"
	"github.com/matzehuels/crosscover/pkg/cross"
	"github.com/matzehuels/crosscover/pkg/errors"
	"github.com/matzehuels/crosscover/pkg/genotype"
	"github.com/matzehuels/crosscover/pkg/optimize"
	"github.com/matzehuels/crosscover/pkg/render/chart"
	"github.com/matzehuels/crosscover/pkg/report"
)

const (
	// DefaultMaxK is the largest budget selected when none is given.
	DefaultMaxK = optimize.DefaultMaxK

	// DefaultStrategy is the strategy used when none is given.
	DefaultStrategy = string(optimize.Greedy)

	// StrategyBoth runs both strategies and reports the exhaustive result
	// together with the per-budget gaps to greedy.
	StrategyBoth = "both"

	// DefaultWidth is the default chart width in pixels.
	DefaultWidth = chart.DefaultWidth

	// DefaultHeight is the default chart height in pixels.
	DefaultHeight = chart.DefaultHeight

	// DefaultPNGScale is the rasterisation scale for PNG output.
	DefaultPNGScale = 2.0
)

// Format constants for output formats.
const (
	FormatText    = "txt"
	FormatTSV     = "tsv"
	FormatJSON    = "json"
	FormatSVG     = "svg"
	FormatPDF     = "pdf"
	FormatPNG     = "png"
	FormatDOT     = "dot"
	FormatNetwork = "network"
)

// AllFormats lists the supported output formats in display order.
var AllFormats = []string{
	FormatText, FormatTSV, FormatJSON, FormatSVG, FormatPDF, FormatPNG, FormatDOT, FormatNetwork,
}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatText:    true,
	FormatTSV:     true,
	FormatJSON:    true,
	FormatSVG:     true,
	FormatPDF:     true,
	FormatPNG:     true,
	FormatDOT:     true,
	FormatNetwork: true,
}

// ValidStrategies is the set of accepted strategy names.
var ValidStrategies = map[string]bool{
	string(optimize.Exhaustive): true,
	string(optimize.Greedy):     true,
	StrategyBoth:                true,
}

// Options contains all configuration for a pipeline run.
type Options struct {
	// Load options
	Assay           string `json:"assay"`
	Pairs           string `json:"pairs"`
	TrailingColumns int    `json:"trailing_columns,omitempty"`
	SampleSuffix    string `json:"sample_suffix,omitempty"`
	HomA            string `json:"hom_a,omitempty"`
	HomB            string `json:"hom_b,omitempty"`
	Het             string `json:"het,omitempty"`

	// Select options
	Strategy    string `json:"strategy,omitempty"`
	MaxK        int    `json:"max_k,omitempty"`
	IncludeLoci bool   `json:"include_loci,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Width    float64  `json:"width,omitempty"`
	Height   float64  `json:"height,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Refresh bypasses cache reads. Results are still written.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Map is the informative-loci map of the candidates.
	Map *coverage.Map

	// MapHash is the content hash of the serialised map.
	MapHash string

	// Candidates are the crosses read from the pair list, duplicates
	// included.
	Candidates []cross.Cross

	// Report is the primary selection report. With StrategyBoth it is the
	// exhaustive report carrying the gaps to greedy.
	Report *report.Report

	// Greedy is the greedy report of a StrategyBoth run, nil otherwise.
	Greedy *report.Report

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Loci       int
	Crosses    int
	LoadTime   time.Duration
	SelectTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool
	SelectHit bool
	RenderHit bool
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(AllFormats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStrategy checks that a strategy name is valid. Names are matched
// case-insensitively.
func ValidateStrategy(s string) error {
	if !ValidStrategies[strings.ToLower(strings.TrimSpace(s))] {
		return errors.New(errors.ErrCodeInvalidStrategy,
			"invalid strategy: %q (must be one of: exhaustive, greedy, both)", s)
	}
	return nil
}

// Extension returns the file extension used when writing format to disk.
func Extension(format string) string {
	if format == FormatNetwork {
		return "network.svg"
	}
	return format
}

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForSelect(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks the inputs of the load stage.
func (o *Options) ValidateForLoad() error {
	if o.Assay == "" {
		return errors.New(errors.ErrCodeInvalidInput, "assay file is required")
	}
	if o.Pairs == "" {
		return errors.New(errors.ErrCodeInvalidInput, "pairs file is required")
	}
	o.setLogger()
	return nil
}

// SetSelectDefaults sets default values for selection.
func (o *Options) SetSelectDefaults() {
	if o.Strategy == "" {
		o.Strategy = DefaultStrategy
	}
	o.Strategy = strings.ToLower(strings.TrimSpace(o.Strategy))
	if o.MaxK == 0 {
		o.MaxK = DefaultMaxK
	}
	o.setLogger()
}

// ValidateForSelect validates and sets defaults for selection.
func (o *Options) ValidateForSelect() error {
	o.SetSelectDefaults()
	if err := ValidateStrategy(o.Strategy); err != nil {
		return err
	}
	if o.MaxK < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_k must not be negative, got %d", o.MaxK)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatText}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	// The chart overlap panel needs locus names.
	if slices.ContainsFunc(o.Formats, needsLoci) {
		o.IncludeLoci = true
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "width and height must not be negative")
	}
	return ValidateFormats(o.Formats)
}

// AssayOptions returns the assay parser options.
func (o *Options) AssayOptions() assay.Options {
	return assay.Options{
		TrailingColumns: o.TrailingColumns,
		SampleSuffix:    o.SampleSuffix,
		Codes:           genotype.Codes{HomA: o.HomA, HomB: o.HomB, Het: o.Het},
	}
}

// MapKeyOpts returns cache key options for the load stage.
func (o *Options) MapKeyOpts() cache.MapKeyOpts {
	codes := o.AssayOptions().Codes.WithDefaults()
	return cache.MapKeyOpts{
		TrailingColumns: o.TrailingColumns,
		SampleSuffix:    o.SampleSuffix,
		HomA:            codes.HomA,
		HomB:            codes.HomB,
		Het:             codes.Het,
	}
}

// SelectionKeyOpts returns cache key options for the select stage.
func (o *Options) SelectionKeyOpts() cache.SelectionKeyOpts {
	return cache.SelectionKeyOpts{
		Strategy: o.Strategy,
		MaxK:     o.MaxK,
		Loci:     o.IncludeLoci,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Width:    o.Width,
		Height:   o.Height,
		Detailed: o.Detailed,
	}
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

func needsLoci(format string) bool {
	switch format {
	case FormatSVG, FormatPDF, FormatPNG:
		return true
	}
	return false
}

func invalidOptions(err error) error {
	return fmt.Errorf("invalid options: %w", err)
}
