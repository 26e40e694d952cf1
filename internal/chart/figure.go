// Package chart samples the standard normal density and renders it with the
// region of a probability query shaded.
package chart

import (
	"fmt"
	"math"

	"znormal-explorer/internal/probability"
)

const (
	// DomainMin and DomainMax bound the x-axis of every chart. Regions that
	// extend past them are clipped at the edge.
	DomainMin = -4.0
	DomainMax = 4.0
	// DensityMax is the fixed top of the y-axis so charts are comparable.
	DensityMax = 0.45

	DefaultSamples = 1000
	MinSamples     = 500
)

// Point is one sample of the density curve.
type Point struct {
	X float64
	Y float64
}

// Figure is the renderer-independent description of a chart.
type Figure struct {
	Title       string
	Probability float64
	Lower       float64
	Upper       float64
	Curve       []Point
	Shade       []Point
	Markers     []float64
}

// ShadeLabel is the legend entry of the shaded region.
func (f Figure) ShadeLabel() string {
	return fmt.Sprintf("Area = %.4f", f.Probability)
}

// Build samples the density over the fixed domain with DefaultSamples points.
func Build(lower, upper float64, title string, prob float64) Figure {
	return BuildN(lower, upper, title, prob, DefaultSamples)
}

// BuildN is Build with an explicit sample count, raised to MinSamples when
// lower.
func BuildN(lower, upper float64, title string, prob float64, samples int) Figure {
	if samples < MinSamples {
		samples = MinSamples
	}

	xs := linspace(DomainMin, DomainMax, samples)
	curve := make([]Point, len(xs))
	for i, x := range xs {
		curve[i] = Point{X: x, Y: probability.Density(x)}
	}

	return Figure{
		Title:       title,
		Probability: prob,
		Lower:       lower,
		Upper:       upper,
		Curve:       curve,
		Shade:       shade(xs, lower, upper),
		Markers:     markers(lower, upper),
	}
}

// FromResult builds the figure for a computed result.
func FromResult(r probability.Result, title string, samples int) Figure {
	return BuildN(r.Lower, r.Upper, title, r.Probability, samples)
}

// shade returns the part of the curve inside [lower, upper] clipped to the
// domain, with the exact end points included.
func shade(xs []float64, lower, upper float64) []Point {
	lo := math.Max(lower, DomainMin)
	hi := math.Min(upper, DomainMax)
	if !(lo < hi) {
		return nil
	}

	out := make([]Point, 0, len(xs)+2)
	out = append(out, Point{X: lo, Y: probability.Density(lo)})
	for _, x := range xs {
		if x > lo && x < hi {
			out = append(out, Point{X: x, Y: probability.Density(x)})
		}
	}
	out = append(out, Point{X: hi, Y: probability.Density(hi)})
	return out
}

func markers(lower, upper float64) []float64 {
	var out []float64
	for _, b := range []float64{lower, upper} {
		if math.IsInf(b, 0) || math.IsNaN(b) {
			continue
		}
		if b < DomainMin || b > DomainMax {
			continue
		}
		out = append(out, b)
	}
	return out
}

func linspace(start, stop float64, n int) []float64 {
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}
