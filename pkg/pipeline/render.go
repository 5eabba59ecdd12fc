package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/matzehuels/crosscover/pkg/render"
	"github.com/matzehuels/crosscover/pkg/render/chart"
	"github.com/matzehuels/crosscover/pkg/render/network"
	"github.com/matzehuels/crosscover/pkg/report"
)

// Render generates output artifacts for r in the requested formats.
func Render(ctx context.Context, r *report.Report, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	// PDF and PNG are converted from the chart SVG, so render it once.
	var svg []byte
	chartSVG := func() []byte {
		if svg == nil {
			svg = chart.RenderSVG(r, chart.WithSize(opts.Width, opts.Height))
		}
		return svg
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatText:
			data, err = encode(r, report.WriteText)
		case FormatTSV:
			data, err = encode(r, report.WriteTSV)
		case FormatJSON:
			data, err = encode(r, report.WriteJSON)
		case FormatSVG:
			data = chartSVG()
		case FormatPDF:
			data, err = render.ToPDFContext(ctx, chartSVG())
		case FormatPNG:
			data, err = render.ToPNGContext(ctx, chartSVG(), DefaultPNGScale)
		case FormatDOT:
			data = []byte(network.ToDOT(r, network.Options{Detailed: opts.Detailed}))
		case FormatNetwork:
			data, err = network.RenderSVGContext(ctx, network.ToDOT(r, network.Options{Detailed: opts.Detailed}))
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func encode(r *report.Report, write func(*report.Report, io.Writer) error) ([]byte, error) {
	var buf bytes.Buffer
	if err := write(r, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
