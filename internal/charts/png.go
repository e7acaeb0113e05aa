// internal/charts/png.go
package charts

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var pngColors = map[string]string{
	ColorBlue:   "0000ff",
	ColorRed:    "ff0000",
	ColorPurple: "800080",
	ColorGreen:  "008000",
	ColorOrange: "ffa500",
}

// ErrNoPoints is returned when every dataset of a chart is empty.
var ErrNoPoints = errors.New("no points to plot")

// PNGRenderer rasterises charts with go-chart.
type PNGRenderer struct {
	Width  int
	Height int
}

// Render writes c as a PNG image to w. Errors from go-chart, for example a
// series whose values span a zero-width range, are returned unchanged.
func (r PNGRenderer) Render(w io.Writer, c *Chart) error {
	if err := c.Validate(); err != nil {
		return err
	}
	graph := r.graph(c)
	if len(graph.Series) == 0 {
		return fmt.Errorf("chart %q: %w", c.Title, ErrNoPoints)
	}
	return graph.Render(chart.PNG, w)
}

func (r PNGRenderer) graph(c *Chart) chart.Chart {
	var series []chart.Series
	for i, ds := range c.Datasets {
		// go-chart rejects empty series; an empty peak list is simply not drawn.
		if len(ds.X) == 0 {
			continue
		}
		cs := chart.ContinuousSeries{
			Name:    ds.Label,
			XValues: ds.X,
			YValues: ds.Y,
			Style:   datasetStyle(ds),
		}
		if ds.Axis == AxisY2 {
			cs.YAxis = chart.YAxisSecondary
		}
		series = append(series, cs)
		if c.Trend && i == 0 && len(ds.X) >= 2 {
			series = append(series, &chart.LinearRegressionSeries{
				Name:        "Linear Fit",
				InnerSeries: cs,
				Style: chart.Style{
					StrokeColor:     pngColor(ds.Color),
					StrokeWidth:     1,
					StrokeDashArray: []float64{5, 5},
				},
			})
		}
	}

	graph := chart.Chart{
		Title:      c.Title,
		Width:      r.Width,
		Height:     r.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  c.XAxis.Label,
			Range: axisRange(c.XAxis),
		},
		YAxis: chart.YAxis{
			Name:  c.YAxis.Label,
			Range: axisRange(c.YAxis),
		},
		Series: series,
	}
	if c.ShowGrid {
		grid := chart.Style{StrokeColor: drawing.ColorFromHex("e0e0e0"), StrokeWidth: 1}
		graph.XAxis.GridMajorStyle = grid
		graph.YAxis.GridMajorStyle = grid
	}
	if c.Y2Axis != nil {
		graph.YAxisSecondary = chart.YAxis{
			Name:  c.Y2Axis.Label,
			Range: axisRange(*c.Y2Axis),
		}
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph
}

func datasetStyle(ds Dataset) chart.Style {
	col := pngColor(ds.Color)
	if ds.Mode == ModeMarkers {
		width := 4.0
		if ds.MarkerSize > 0 {
			width = float64(ds.MarkerSize) / 2
		}
		return chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    width,
			DotColor:    col,
		}
	}
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
	}
}

// axisRange returns a descending range for reversed axes. go-chart fills in
// the bounds from the data because Min and Max are left at zero.
func axisRange(a Axis) chart.Range {
	if !a.Reversed {
		return nil
	}
	return &chart.ContinuousRange{Descending: true}
}

func pngColor(name string) drawing.Color {
	if hex, ok := pngColors[name]; ok {
		return drawing.ColorFromHex(hex)
	}
	return drawing.ColorFromHex(strings.TrimPrefix(name, "#"))
}
