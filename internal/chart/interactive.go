package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	curveColor  = "blue"
	shadeColor  = "rgba(255, 0, 0, 0.3)"
	markerColor = "green"
	curveLabel  = "Z ~ N(0,1)"
)

// Interactive builds a go-echarts line chart for fig with pan, zoom and
// save-as-image controls.
func Interactive(fig Figure) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: fig.Title,
			Width:     "800px",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{Title: fig.Title, Left: "center"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "30", Right: "10"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Z", Type: "value", Min: DomainMin, Max: DomainMax}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Probability density", Type: "value", Min: 0, Max: DensityMax}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside", XAxisIndex: []int{0}}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show:  opts.Bool(true),
			Right: "20",
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{Show: opts.Bool(true), Type: "png", Title: "Save as PNG"},
				DataZoom:    &opts.ToolBoxFeatureDataZoom{Show: opts.Bool(true)},
				Restore:     &opts.ToolBoxFeatureRestore{Show: opts.Bool(true)},
			},
		}),
	)

	curveOpts := []charts.SeriesOpts{
		charts.WithLineStyleOpts(opts.LineStyle{Color: curveColor, Width: 3}),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
	}
	if len(fig.Markers) > 0 {
		items := make([]opts.MarkLineNameXAxisItem, 0, len(fig.Markers))
		for _, m := range fig.Markers {
			items = append(items, opts.MarkLineNameXAxisItem{Name: fmt.Sprintf("z = %.2f", m), XAxis: m})
		}
		curveOpts = append(curveOpts,
			charts.WithMarkLineNameXAxisItemOpts(items...),
			charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
				Symbol:    []string{"none", "none"},
				LineStyle: &opts.LineStyle{Color: markerColor, Type: "dashed", Width: 2},
				Label:     &opts.Label{Show: opts.Bool(true), Position: "start", Formatter: "{b}"},
			}),
		)
	}

	line.AddSeries(curveLabel, lineData(fig.Curve), curveOpts...)
	line.AddSeries(fig.ShadeLabel(), lineData(fig.Shade),
		charts.WithLineStyleOpts(opts.LineStyle{Color: shadeColor}),
		charts.WithAreaStyleOpts(opts.AreaStyle{Color: shadeColor}),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
	)

	return line
}

// RenderHTML writes a standalone HTML page with one interactive chart per
// figure.
func RenderHTML(w io.Writer, figs ...Figure) error {
	if len(figs) == 1 {
		return Interactive(figs[0]).Render(w)
	}

	page := components.NewPage()
	page.PageTitle = "Standard normal distribution"
	page.SetLayout(components.PageFlexLayout)
	for _, f := range figs {
		page.AddCharts(Interactive(f))
	}
	return page.Render(w)
}

func lineData(points []Point) []opts.LineData {
	out := make([]opts.LineData, len(points))
	for i, p := range points {
		out[i] = opts.LineData{Value: []float64{p.X, p.Y}}
	}
	return out
}
