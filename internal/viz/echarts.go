package viz

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/activity.report/internal/activity"
	"github.com/banshee-data/activity.report/internal/summary"
)

// RenderHTML renders the genotype grid as a single interactive HTML page.
func RenderHTML(w io.Writer, t *activity.Table, o Options) error {
	genotypes := t.Genotypes()
	colors, err := Palette(genotypes)
	if err != nil {
		return err
	}

	nights := NightSpans(t)
	yMax := maxActivity(t)
	yLabel := o.yLabel(t)
	width, height := o.dims()

	page := components.NewPage()
	if o.Title != "" {
		page.PageTitle = o.Title
	}
	page.SetLayout(components.PageFlexLayout)

	for _, gen := range genotypes {
		sub := subTable(t, gen)
		line, err := genotypeChart(sub, gen, colors[gen], nights, yMax, yLabel, o, width, height)
		if err != nil {
			return err
		}
		page.AddCharts(line)
	}

	return page.Render(w)
}

// WriteHTML renders the genotype grid to an HTML file.
func WriteHTML(path string, t *activity.Table, o Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	if err := RenderHTML(f, t, o); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// genotypeChart builds one genotype's chart: a thin faint line per fish, the
// strong summary overlay, and the shared night shading.
func genotypeChart(sub *activity.Table, gen string, pair Pair, nights []Span,
	yMax float64, yLabel string, o Options, width, height int) (*charts.Line, error) {

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: o.Title,
			Width:     strconv.Itoa(width) + "px",
			Height:    strconv.Itoa(height) + "px",
		}),
		charts.WithTitleOpts(opts.Title{Title: gen, Subtitle: o.Subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "time (hours)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: yLabel, Max: yMax}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside", XAxisIndex: []int{0}}),
	)

	line.SetXAxis(timeAxis(sub, gen))

	// Night shading rides on the first series as mark areas spanning the
	// full activity range.
	var markAreas []charts.SeriesOpts
	for _, n := range nights {
		markAreas = append(markAreas, charts.WithMarkAreaNameCoordItemOpts(opts.MarkAreaNameCoordItem{
			Name:        "night",
			Coordinate0: []interface{}{n.Left, 0.0},
			Coordinate1: []interface{}{n.Right, yMax},
			ItemStyle:   &opts.ItemStyle{Color: "#808080", Opacity: opts.Float(0.3)},
		}))
	}

	for i, fish := range sub.FishIDs() {
		obs := sub.Series(fish)
		data := make([]opts.LineData, len(obs))
		for j, ob := range obs {
			data[j] = opts.LineData{Value: ob.Activity}
		}
		seriesOpts := []charts.SeriesOpts{
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: pair.Faint, Width: 0.8, Opacity: opts.Float(0.75)}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: pair.Faint}),
		}
		if i == 0 {
			seriesOpts = append(seriesOpts, markAreas...)
		}
		line.AddSeries(fmt.Sprintf("fish %d", fish), data, seriesOpts...)
	}

	if !o.Summary.IsNone() {
		trace := summary.Trace(sub, o.Summary)
		data := make([]opts.LineData, len(trace))
		for j, v := range trace {
			data[j] = opts.LineData{Value: v}
		}
		line.AddSeries(o.Summary.String(), data,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: pair.Strong, Width: 3}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: pair.Strong}),
		)
	}

	return line, nil
}
