// internal/charts/html.go
package charts

import (
	"bytes"
	"encoding/json"
	"html/template"
)

// ChartJSScriptURL is the Chart.js build the HTML fragments expect on the page.
const ChartJSScriptURL = "https://cdn.jsdelivr.net/npm/chart.js@4.4.2/dist/chart.umd.min.js"

var cssColors = map[string]string{
	ColorBlue:   "#0000ff",
	ColorRed:    "#ff0000",
	ColorPurple: "#800080",
	ColorGreen:  "#008000",
	ColorOrange: "#ffa500",
}

type fragmentData struct {
	ID     string
	Config template.JS
}

var fragmentTemplate = template.Must(template.New("chart-fragment").Parse(`<div class="chart-canvas"><canvas id="{{ .ID }}"></canvas></div>
<script>new Chart(document.getElementById({{ .ID }}), {{ .Config }});</script>`))

// HTMLRenderer emits Chart.js canvases. The page must load ChartJSScriptURL.
type HTMLRenderer struct{}

// Render returns a canvas and script fragment drawing c into element id.
func (HTMLRenderer) Render(id string, c *Chart) (template.HTML, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	config, err := json.Marshal(chartJSConfig(c))
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := fragmentTemplate.Execute(&buf, fragmentData{ID: id, Config: template.JS(config)}); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

type jsPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type jsDataset struct {
	Label           string    `json:"label"`
	Data            []jsPoint `json:"data"`
	BorderColor     string    `json:"borderColor"`
	BackgroundColor string    `json:"backgroundColor"`
	ShowLine        bool      `json:"showLine"`
	PointRadius     float64   `json:"pointRadius"`
	BorderWidth     float64   `json:"borderWidth"`
	YAxisID         string    `json:"yAxisID"`
}

type jsTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

type jsGrid struct {
	Display bool `json:"display"`
}

type jsScale struct {
	Type     string  `json:"type"`
	Position string  `json:"position,omitempty"`
	Reverse  bool    `json:"reverse,omitempty"`
	Title    jsTitle `json:"title"`
	Grid     jsGrid  `json:"grid"`
}

func chartJSConfig(c *Chart) map[string]any {
	datasets := make([]jsDataset, 0, len(c.Datasets))
	for _, ds := range c.Datasets {
		points := make([]jsPoint, len(ds.X))
		for i := range ds.X {
			points[i] = jsPoint{X: ds.X[i], Y: ds.Y[i]}
		}
		color := cssColor(ds.Color)
		d := jsDataset{
			Label:           ds.Label,
			Data:            points,
			BorderColor:     color,
			BackgroundColor: color,
			YAxisID:         string(ds.Axis),
		}
		if d.YAxisID == "" {
			d.YAxisID = string(AxisY)
		}
		switch ds.Mode {
		case ModeLines:
			d.ShowLine = true
			d.BorderWidth = 2
		default:
			d.PointRadius = 3
			if ds.MarkerSize > 0 {
				d.PointRadius = float64(ds.MarkerSize) / 2
			}
		}
		datasets = append(datasets, d)
	}

	scales := map[string]jsScale{
		"x": {
			Type:    "linear",
			Reverse: c.XAxis.Reversed,
			Title:   jsTitle{Display: true, Text: c.XAxis.Label},
			Grid:    jsGrid{Display: c.ShowGrid},
		},
		"y": {
			Type:     "linear",
			Position: "left",
			Reverse:  c.YAxis.Reversed,
			Title:    jsTitle{Display: true, Text: c.YAxis.Label},
			Grid:     jsGrid{Display: c.ShowGrid},
		},
	}
	if c.Y2Axis != nil {
		scales["y2"] = jsScale{
			Type:     "linear",
			Position: "right",
			Reverse:  c.Y2Axis.Reversed,
			Title:    jsTitle{Display: true, Text: c.Y2Axis.Label},
			Grid:     jsGrid{Display: false},
		}
	}

	return map[string]any{
		"type": "scatter",
		"data": map[string]any{"datasets": datasets},
		"options": map[string]any{
			"responsive":          true,
			"maintainAspectRatio": false,
			"animation":           false,
			"plugins": map[string]any{
				"title": jsTitle{Display: c.Title != "", Text: c.Title},
			},
			"scales": scales,
		},
	}
}

func cssColor(name string) string {
	if hex, ok := cssColors[name]; ok {
		return hex
	}
	return name
}
