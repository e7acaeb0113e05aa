// internal/charts/chart.go
// Package charts turns analysis series into declarative chart descriptions and
// renders them either as Chart.js fragments for HTML pages or as PNG images.
package charts

import (
	"errors"
	"fmt"
)

// Kind is the overall layout of a chart.
type Kind string

const (
	KindLine     Kind = "line"
	KindScatter  Kind = "scatter"
	KindDualAxis Kind = "dual-axis"
)

// Mode controls how a dataset is drawn.
type Mode string

const (
	ModeLines   Mode = "lines"
	ModeMarkers Mode = "markers"
)

// AxisID selects the y axis a dataset is plotted against.
type AxisID string

const (
	AxisY  AxisID = "y"
	AxisY2 AxisID = "y2"
)

// Named colours used by the builders. Values are CSS colour names; the PNG
// renderer maps them to RGB.
const (
	ColorBlue   = "blue"
	ColorRed    = "red"
	ColorPurple = "purple"
	ColorGreen  = "green"
	ColorOrange = "orange"
)

// Axis describes one chart axis.
type Axis struct {
	Label    string `json:"label"`
	Reversed bool   `json:"reversed,omitempty"`
}

// Dataset is one plotted series.
type Dataset struct {
	Label      string    `json:"label"`
	Color      string    `json:"color"`
	Mode       Mode      `json:"mode"`
	Axis       AxisID    `json:"axis"`
	MarkerSize int       `json:"markerSize,omitempty"`
	X          []float64 `json:"x"`
	Y          []float64 `json:"y"`
}

// Chart is a toolkit-independent description of a plot.
type Chart struct {
	Kind     Kind      `json:"kind"`
	Title    string    `json:"title"`
	XAxis    Axis      `json:"xAxis"`
	YAxis    Axis      `json:"yAxis"`
	Y2Axis   *Axis     `json:"y2Axis,omitempty"`
	Datasets []Dataset `json:"datasets"`
	ShowGrid bool      `json:"showGrid"`
	// Trend adds a least-squares line over the first dataset where the
	// renderer supports it.
	Trend bool `json:"trend,omitempty"`
}

// ErrNoDatasets is returned when a chart has nothing to draw.
var ErrNoDatasets = errors.New("chart has no datasets")

// Validate checks that every dataset has matching x and y lengths and that
// secondary-axis datasets have an axis to attach to.
func (c *Chart) Validate() error {
	if c == nil || len(c.Datasets) == 0 {
		return ErrNoDatasets
	}
	for _, ds := range c.Datasets {
		if len(ds.X) != len(ds.Y) {
			return fmt.Errorf("chart %q dataset %q: %d x values but %d y values", c.Title, ds.Label, len(ds.X), len(ds.Y))
		}
		if ds.Axis == AxisY2 && c.Y2Axis == nil {
			return fmt.Errorf("chart %q dataset %q: secondary axis not defined", c.Title, ds.Label)
		}
	}
	return nil
}

// Points returns the number of points across all datasets.
func (c *Chart) Points() int {
	n := 0
	for _, ds := range c.Datasets {
		n += len(ds.X)
	}
	return n
}
