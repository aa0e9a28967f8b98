// Package viz renders the tidy activity table as a grid of per-genotype
// time-series charts: thin traces for individual fish, a thick summary
// overlay, and grey shading over the dark phases. The same grid is
// available as an interactive HTML page (go-echarts) or as static PNGs
// (gonum/plot).
//
// The package consumes only the tidy table; it neither knows nor cares
// which loader produced it.
package viz

import (
	"fmt"

	"github.com/banshee-data/activity.report/internal/activity"
	"github.com/banshee-data/activity.report/internal/summary"
)

// Options configures chart rendering.
type Options struct {
	// Title is the page title; Subtitle is shown under each chart title
	// (typically the run ID).
	Title    string
	Subtitle string

	// YLabel is the activity-axis label. When empty it is derived from the
	// table's sampling interval, see IntervalLabel.
	YLabel string

	// Summary selects the overlay statistic. The zero value suppresses the
	// overlay.
	Summary summary.Statistic

	// Width and Height are per-chart pixel dimensions for HTML output.
	// Zero values fall back to 900x260.
	Width  int
	Height int
}

func (o Options) yLabel(t *activity.Table) string {
	if o.YLabel != "" {
		return o.YLabel
	}
	return IntervalLabel(t)
}

func (o Options) dims() (w, h int) {
	w, h = o.Width, o.Height
	if w <= 0 {
		w = 900
	}
	if h <= 0 {
		h = 260
	}
	return w, h
}

// Span is a shaded x-axis interval, in Zeitgeber hours.
type Span struct {
	Left  float64
	Right float64
}

// NightSpans extracts the dark intervals from the reference (lowest-ID)
// fish's series. A night still running at the end of the recording is
// closed at the final time point.
func NightSpans(t *activity.Table) []Span {
	ids := t.FishIDs()
	if len(ids) == 0 {
		return nil
	}
	obs := t.Series(ids[0])

	var spans []Span
	open := false
	var left float64
	for i, o := range obs {
		switch {
		case i == 0 && !o.Light:
			open, left = true, o.Zeit
		case i > 0 && !o.Light && obs[i-1].Light:
			open, left = true, obs[i-1].Zeit
		case i > 0 && o.Light && !obs[i-1].Light && open:
			spans = append(spans, Span{Left: left, Right: obs[i-1].Zeit})
			open = false
		}
	}
	if open && len(obs) > 0 {
		spans = append(spans, Span{Left: left, Right: obs[len(obs)-1].Zeit})
	}
	return spans
}

// IntervalLabel derives the activity-axis label from the mean sampling
// interval of the reference fish's series, e.g. "sec. of act. in 10.0 min.".
func IntervalLabel(t *activity.Table) string {
	ids := t.FishIDs()
	if len(ids) == 0 {
		return "sec. of activity"
	}
	obs := t.Series(ids[0])
	if len(obs) < 2 {
		return "sec. of activity"
	}
	dt := (obs[len(obs)-1].Zeit - obs[0].Zeit) / float64(len(obs)-1)
	return fmt.Sprintf("sec. of act. in %.1f min.", dt*60)
}

// timeAxis returns the zeit values of the reference fish within one
// genotype's rows; every fish in the table shares the same grid.
func timeAxis(t *activity.Table, genotype string) []float64 {
	for _, fish := range t.FishIDs() {
		obs := t.Series(fish)
		if len(obs) == 0 || obs[0].Genotype != genotype {
			continue
		}
		zeit := make([]float64, len(obs))
		for i, o := range obs {
			zeit[i] = o.Zeit
		}
		return zeit
	}
	return nil
}

// subTable returns a fresh table holding only one genotype's rows.
func subTable(t *activity.Table, genotype string) *activity.Table {
	out := &activity.Table{HasTime: t.HasTime}
	for _, o := range t.Obs {
		if o.Genotype == genotype {
			out.Obs = append(out.Obs, o)
		}
	}
	return out
}

// maxActivity returns the largest activity value, used to size the night
// shading rectangles.
func maxActivity(t *activity.Table) float64 {
	m := 0.0
	for _, o := range t.Obs {
		if o.Activity > m {
			m = o.Activity
		}
	}
	return m
}
