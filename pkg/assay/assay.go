// Package assay reads Affymetrix Axiom genotype call tables and derives the
// informative-locus sets of candidate crosses from them.
//
// # Format
//
// The expected input is the tab-separated "Call Codes" export of the Axiom
// analysis suite:
//
//	#%affymetrix-algorithm-param-...
//	Probe Set ID	F0_01.AxiomGT1.chp Call Codes	F0_02.AxiomGT1.chp Call Codes	...	cn	qc	ann
//	AX-100	AA	AB	...	x	y	z
//
// Lines starting with '#' are comments. The header starts with "Probe Set ID";
// the sample columns are every column after the first except the last
// [Options.TrailingColumns]. Each data row carries the locus name in its first
// column followed by one call per sample.
package assay

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/crosscover/pkg/errors"
	"github.com/matzehuels/crosscover/pkg/genotype"
	"github.com/matzehuels/crosscover/pkg/locus"
)

// HeaderPrefix marks the header line.
const HeaderPrefix = "Probe Set ID"

// DefaultSampleSuffix is stripped from sample column names.
const DefaultSampleSuffix = ".AxiomGT1.chp Call Codes"

// DefaultTrailingColumns is the number of annotation columns after the calls.
const DefaultTrailingColumns = 3

// Options controls parsing.
type Options struct {
	// TrailingColumns is the number of non-sample columns at the end of
	// each line. Negative means none; zero means the default.
	TrailingColumns int

	// SampleSuffix is removed from sample names. Empty means the default.
	SampleSuffix string

	// Codes is the call alphabet. Empty symbols take the defaults.
	Codes genotype.Codes
}

func (o Options) withDefaults() Options {
	switch {
	case o.TrailingColumns == 0:
		o.TrailingColumns = DefaultTrailingColumns
	case o.TrailingColumns < 0:
		o.TrailingColumns = 0
	}
	if o.SampleSuffix == "" {
		o.SampleSuffix = DefaultSampleSuffix
	}
	o.Codes = o.Codes.WithDefaults()
	return o
}

// Table is a parsed call table. Calls are stored row-major by locus.
type Table struct {
	Samples []string
	Loci    *locus.Index

	// NoCalls counts cells that did not parse as one of the three calls.
	NoCalls int

	sampleIdx map[string]int
	calls     []genotype.Call
	width     int // header column count; every row must match it
}

// SampleIndex returns the column of sample.
func (t *Table) SampleIndex(sample string) (int, bool) {
	i, ok := t.sampleIdx[sample]
	return i, ok
}

// Call returns the call of sample at the locus with id locusID.
func (t *Table) Call(locusID int, sample string) (genotype.Call, error) {
	s, ok := t.sampleIdx[sample]
	if !ok {
		return genotype.NoCall, errors.New(errors.ErrCodeUnknownSample, "sample %q not in assay", sample)
	}
	if locusID < 0 || locusID >= t.Loci.Len() {
		return genotype.NoCall, errors.New(errors.ErrCodeInvalidInput, "locus id %d out of range", locusID)
	}
	return t.calls[locusID*len(t.Samples)+s], nil
}

// ReadFile opens path and parses it with [Read].
func ReadFile(path string, opts Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "assay file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidAssay, err, "open %s", path)
	}
	defer f.Close()
	return Read(f, opts)
}

// Read parses an Axiom call table from r.
func Read(r io.Reader, opts Options) (*Table, error) {
	opts = opts.withDefaults()

	t := &Table{Loci: locus.NewIndex(), sampleIdx: make(map[string]int)}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 256*1024), 64*1024*1024)

	header := false
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r\n")
		switch {
		case strings.HasPrefix(text, "#"):
			continue
		case strings.HasPrefix(text, HeaderPrefix):
			if header {
				return nil, errors.New(errors.ErrCodeInvalidAssay, "line %d: second header line", line)
			}
			if err := t.parseHeader(text, opts); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidAssay, err, "line %d", line)
			}
			header = true
		case strings.TrimSpace(text) == "":
			continue
		default:
			if !header {
				return nil, errors.New(errors.ErrCodeInvalidAssay, "line %d: data before %q header", line, HeaderPrefix)
			}
			if err := t.parseRow(text, opts.Codes); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidAssay, err, "line %d", line)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidAssay, err, "read assay")
	}
	if !header {
		return nil, errors.New(errors.ErrCodeInvalidAssay, "no %q header found", HeaderPrefix)
	}
	return t, nil
}

func (t *Table) parseHeader(text string, opts Options) error {
	cols := strings.Split(text, "\t")
	end := len(cols) - opts.TrailingColumns
	if end <= 1 {
		return errors.New(errors.ErrCodeInvalidAssay, "header has %d columns, no room for samples", len(cols))
	}
	t.width = len(cols)
	for _, c := range cols[1:end] {
		name := strings.TrimSpace(strings.Replace(c, opts.SampleSuffix, "", 1))
		if err := errors.ValidateSampleID(name); err != nil {
			return err
		}
		if _, dup := t.sampleIdx[name]; dup {
			return errors.New(errors.ErrCodeInvalidAssay, "duplicate sample %q", name)
		}
		t.sampleIdx[name] = len(t.Samples)
		t.Samples = append(t.Samples, name)
	}
	return nil
}

func (t *Table) parseRow(text string, codes genotype.Codes) error {
	cols := strings.Split(text, "\t")
	if len(cols) != t.width {
		return errors.New(errors.ErrCodeInvalidAssay, "row has %d columns, header has %d", len(cols), t.width)
	}
	name := strings.TrimSpace(cols[0])
	if err := errors.ValidateLocusName(name); err != nil {
		return err
	}
	if _, dup := t.Loci.ID(name); dup {
		return errors.New(errors.ErrCodeInvalidAssay, "duplicate locus %q", name)
	}
	t.Loci.Intern(name)
	for _, sym := range cols[1 : 1+len(t.Samples)] {
		c := codes.Parse(sym)
		if c == genotype.NoCall {
			t.NoCalls++
		}
		t.calls = append(t.calls, c)
	}
	return nil
}
