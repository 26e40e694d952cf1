package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	_ "gonum.org/v1/plot/vg/vgimg"
	_ "gonum.org/v1/plot/vg/vgsvg"
)

const (
	FormatHTML = "html"
	FormatPNG  = "png"
	FormatSVG  = "svg"
)

var ErrUnsupportedFormat = errors.New("unsupported chart format")

var (
	imageCurveColor  = color.RGBA{B: 255, A: 255}
	imageShadeColor  = color.RGBA{R: 255, A: 77}
	imageMarkerColor = color.RGBA{G: 128, A: 255}
)

// ContentType returns the MIME type for a chart format.
func ContentType(format string) (string, error) {
	switch strings.ToLower(format) {
	case "", FormatHTML:
		return "text/html; charset=utf-8", nil
	case FormatPNG:
		return "image/png", nil
	case FormatSVG:
		return "image/svg+xml", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// Write renders fig in the requested format: interactive HTML, or a static
// PNG/SVG image.
func Write(w io.Writer, fig Figure, format string) error {
	switch strings.ToLower(format) {
	case "", FormatHTML:
		return RenderHTML(w, fig)
	case FormatPNG, FormatSVG:
		return WriteImage(w, fig, strings.ToLower(format))
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// WriteImage renders fig as a static image with gonum/plot.
func WriteImage(w io.Writer, fig Figure, format string) error {
	if format != FormatPNG && format != FormatSVG {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	p := plot.New()
	p.Title.Text = fig.Title
	p.X.Label.Text = "Z"
	p.Y.Label.Text = "Probability density"
	p.X.Min, p.X.Max = DomainMin, DomainMax
	p.Y.Min, p.Y.Max = 0, DensityMax
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	if len(fig.Shade) > 1 {
		area, err := plotter.NewPolygon(anchored(fig.Shade))
		if err != nil {
			return fmt.Errorf("shaded region: %w", err)
		}
		area.Color = imageShadeColor
		area.LineStyle.Width = 0
		p.Add(area)
		p.Legend.Add(fig.ShadeLabel(), area)
	}

	curve, err := plotter.NewLine(xys(fig.Curve))
	if err != nil {
		return fmt.Errorf("density curve: %w", err)
	}
	curve.LineStyle.Color = imageCurveColor
	curve.LineStyle.Width = vg.Points(3)
	p.Add(curve)
	p.Legend.Add(curveLabel, curve)

	for _, m := range fig.Markers {
		marker, err := plotter.NewLine(plotter.XYs{{X: m, Y: 0}, {X: m, Y: DensityMax}})
		if err != nil {
			return fmt.Errorf("marker at %g: %w", m, err)
		}
		marker.LineStyle.Color = imageMarkerColor
		marker.LineStyle.Width = vg.Points(2)
		marker.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
		p.Add(marker)
	}

	wt, err := p.WriterTo(8*vg.Inch, 5*vg.Inch, format)
	if err != nil {
		return fmt.Errorf("create %s canvas: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return nil
}

// anchored closes the shaded curve down to y=0 at both ends.
func anchored(points []Point) plotter.XYs {
	out := make(plotter.XYs, 0, len(points)+2)
	out = append(out, plotter.XY{X: points[0].X, Y: 0})
	out = append(out, xys(points)...)
	out = append(out, plotter.XY{X: points[len(points)-1].X, Y: 0})
	return out
}

func xys(points []Point) plotter.XYs {
	out := make(plotter.XYs, len(points))
	for i, p := range points {
		out[i] = plotter.XY{X: p.X, Y: p.Y}
	}
	return out
}
