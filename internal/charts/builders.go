// internal/charts/builders.go
package charts

import "github.com/mwiater/matscope/internal/analysis"

// Axis labels shared by the builders.
const (
	labelTwoTheta    = "2θ (degrees)"
	labelIntensity   = "Intensity (a.u.)"
	labelWavenumber  = "Wavenumber (cm-1)"
	labelAbsorbance  = "Absorbance (a.u.)"
	labelRelPressure = "P/P₀"
	labelBET         = "1 / [Vₐ(P₀/P - 1)]"
	labelTemperature = "Temperature (°C)"
	labelWeight      = "Weight (%)"
	labelDTG         = "DTG (d(%) / d(°C))"
)

const peakMarkerSize = 8

func lineDataset(label, color string, s analysis.Series, xField, yField string) Dataset {
	return Dataset{Label: label, Color: color, Mode: ModeLines, Axis: AxisY, X: s.Column(xField), Y: s.Column(yField)}
}

func markerDataset(label, color string, size int, s analysis.Series, xField, yField string) Dataset {
	return Dataset{Label: label, Color: color, Mode: ModeMarkers, Axis: AxisY, MarkerSize: size, X: s.Column(xField), Y: s.Column(yField)}
}

// XRD plots a diffraction scan with its identified peaks.
func XRD(title string, full, peaks analysis.Series) *Chart {
	return &Chart{
		Kind:  KindLine,
		Title: title,
		XAxis: Axis{Label: labelTwoTheta},
		YAxis: Axis{Label: labelIntensity},
		Datasets: []Dataset{
			lineDataset("Full Scan", ColorBlue, full, analysis.FieldPos, analysis.FieldIobs),
			markerDataset("Identified Peaks", ColorRed, peakMarkerSize, peaks, analysis.FieldPos, analysis.FieldIobs),
		},
		ShowGrid: true,
	}
}

// IR plots an infrared spectrum with the wavenumber axis reversed.
func IR(title string, full, peaks analysis.Series) *Chart {
	return &Chart{
		Kind:  KindLine,
		Title: title,
		XAxis: Axis{Label: labelWavenumber, Reversed: true},
		YAxis: Axis{Label: labelAbsorbance},
		Datasets: []Dataset{
			lineDataset("Full Scan", ColorPurple, full, analysis.FieldWavenumber, analysis.FieldAbsorbance),
			markerDataset("Identified Peaks", ColorRed, peakMarkerSize, peaks, analysis.FieldWavenumber, analysis.FieldAbsorbance),
		},
		ShowGrid: true,
	}
}

// BET plots the linearised isotherm as points with a regression trend.
func BET(title string, full analysis.Series) *Chart {
	return &Chart{
		Kind:  KindScatter,
		Title: title,
		XAxis: Axis{Label: labelRelPressure},
		YAxis: Axis{Label: labelBET},
		Datasets: []Dataset{
			markerDataset("Data Points", ColorGreen, 0, full, analysis.FieldRelativePressure, analysis.FieldBETPlot),
		},
		ShowGrid: true,
		Trend:    true,
	}
}

// TGA plots weight and its derivative against temperature on two y axes.
func TGA(title string, samples analysis.Series) *Chart {
	temps := samples.Column(analysis.FieldTemp)
	return &Chart{
		Kind:   KindDualAxis,
		Title:  title,
		XAxis:  Axis{Label: labelTemperature},
		YAxis:  Axis{Label: labelWeight},
		Y2Axis: &Axis{Label: labelDTG},
		Datasets: []Dataset{
			{Label: labelWeight, Color: ColorOrange, Mode: ModeLines, Axis: AxisY, X: temps, Y: samples.Column(analysis.FieldWeight)},
			{Label: labelDTG, Color: ColorRed, Mode: ModeLines, Axis: AxisY2, X: temps, Y: samples.Column(analysis.FieldDTG)},
		},
		ShowGrid: false,
	}
}

// CombinedXRD overlays original and modified diffraction scans.
func CombinedXRD(original, modified analysis.Series) *Chart {
	return &Chart{
		Kind:  KindLine,
		Title: "Combined XRD Analysis",
		XAxis: Axis{Label: labelTwoTheta},
		YAxis: Axis{Label: labelIntensity},
		Datasets: []Dataset{
			lineDataset("Original", ColorBlue, original, analysis.FieldPos, analysis.FieldIobs),
			lineDataset("Modified", ColorRed, modified, analysis.FieldPos, analysis.FieldIobs),
		},
		ShowGrid: true,
	}
}

// CombinedIR overlays original and modified spectra.
func CombinedIR(original, modified analysis.Series) *Chart {
	return &Chart{
		Kind:  KindLine,
		Title: "Combined IR Analysis",
		XAxis: Axis{Label: labelWavenumber, Reversed: true},
		YAxis: Axis{Label: labelAbsorbance},
		Datasets: []Dataset{
			lineDataset("Original", ColorPurple, original, analysis.FieldWavenumber, analysis.FieldAbsorbance),
			lineDataset("Modified", ColorRed, modified, analysis.FieldWavenumber, analysis.FieldAbsorbance),
		},
		ShowGrid: true,
	}
}

// CombinedBET overlays original and modified isotherm points.
func CombinedBET(original, modified analysis.Series) *Chart {
	return &Chart{
		Kind:  KindScatter,
		Title: "Combined BET Analysis",
		XAxis: Axis{Label: labelRelPressure},
		YAxis: Axis{Label: labelBET},
		Datasets: []Dataset{
			markerDataset("Original", ColorGreen, 0, original, analysis.FieldRelativePressure, analysis.FieldBETPlot),
			markerDataset("Modified", ColorRed, 0, modified, analysis.FieldRelativePressure, analysis.FieldBETPlot),
		},
		ShowGrid: true,
	}
}
