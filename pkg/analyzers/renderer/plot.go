package renderer

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/yuv008/ASTra/pkg/analyzers/analyze"
)

const (
	topFilesLimit = 20
	chartWidth    = "900px"
	chartHeight   = "500px"
	pieWidth      = "600px"
	pieHeight     = "400px"
	pieRadius     = "60%"
	xAxisRotate   = 45

	plotColorBlue   = "#5470c6"
	plotColorGreen  = "#91cc75"
	plotColorYellow = "#fac858"
	plotColorRed    = "#ee6666"
	plotColorCyan   = "#73c0de"

	complexityYellowLine = 5.0
	complexityRedLine    = 10.0
)

// renderPlot writes a self-contained HTML page with a severity pie, a bar
// chart of the most complex files and a bar chart of the files with the
// lowest maintainability.
func renderPlot(result *analyze.ProjectResult, w io.Writer) error {
	page := components.NewPage()
	page.PageTitle = "astra analysis"
	page.SetLayout(components.PageCenterLayout)

	page.AddCharts(
		severityPie(analyze.CountSeverities(result.Findings)),
		complexityBar(result.Files),
		maintainabilityBar(result.Files),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("plot render: %w", err)
	}

	return nil
}

func severityPie(counts analyze.SeverityCounts) *charts.Pie {
	pie := charts.NewPie()

	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: pieWidth, Height: pieHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Findings by Severity"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)

	pieData := []opts.PieData{
		{Name: "Errors", Value: counts.Errors, ItemStyle: &opts.ItemStyle{Color: plotColorRed}},
		{Name: "Warnings", Value: counts.Warnings, ItemStyle: &opts.ItemStyle{Color: plotColorYellow}},
		{Name: "Infos", Value: counts.Infos, ItemStyle: &opts.ItemStyle{Color: plotColorCyan}},
	}

	pie.AddSeries("Severity", pieData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}: {c} ({d}%)",
			}),
			charts.WithPieChartOpts(opts.PieChart{Radius: pieRadius}),
		)

	return pie
}

func complexityBar(files []*analyze.FileResult) *charts.Bar {
	sorted := sortFiles(files, func(a, b *analyze.FileResult) bool {
		return a.Metrics.Complexity > b.Metrics.Complexity
	})

	bar := newFileBar("Most Complex Files", "Complexity")
	bar.SetXAxis(fileLabels(sorted))

	data := make([]opts.BarData, len(sorted))
	for i, file := range sorted {
		data[i] = opts.BarData{
			Value:     file.Metrics.Complexity,
			ItemStyle: &opts.ItemStyle{Color: complexityColor(file.Metrics.Complexity)},
		}
	}

	bar.AddSeries("Complexity", data)

	return bar
}

func maintainabilityBar(files []*analyze.FileResult) *charts.Bar {
	sorted := sortFiles(files, func(a, b *analyze.FileResult) bool {
		return a.Metrics.Maintainability < b.Metrics.Maintainability
	})

	bar := newFileBar("Lowest Maintainability Files", "Maintainability")
	bar.SetXAxis(fileLabels(sorted))

	data := make([]opts.BarData, len(sorted))
	for i, file := range sorted {
		data[i] = opts.BarData{Value: file.Metrics.Maintainability}
	}

	bar.AddSeries("Maintainability", data, charts.WithItemStyleOpts(opts.ItemStyle{Color: plotColorBlue}))

	return bar
}

func newFileBar(title, yAxisName string) *charts.Bar {
	bar := charts.NewBar()

	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithGridOpts(opts.Grid{
			Bottom:       "15%",
			ContainLabel: opts.Bool(true),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Rotate: xAxisRotate, Interval: "0"},
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: yAxisName}),
	)

	return bar
}

// sortFiles returns the top files under the given order without mutating
// the input slice.
func sortFiles(files []*analyze.FileResult, less func(a, b *analyze.FileResult) bool) []*analyze.FileResult {
	sorted := make([]*analyze.FileResult, len(files))
	copy(sorted, files)

	sort.Slice(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})

	if len(sorted) > topFilesLimit {
		sorted = sorted[:topFilesLimit]
	}

	return sorted
}

func fileLabels(files []*analyze.FileResult) []string {
	labels := make([]string, len(files))
	for i, file := range files {
		labels[i] = file.File.Path
	}

	return labels
}

func complexityColor(complexity float64) string {
	switch {
	case complexity <= complexityYellowLine:
		return plotColorGreen
	case complexity <= complexityRedLine:
		return plotColorYellow
	default:
		return plotColorRed
	}
}
