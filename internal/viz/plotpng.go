package viz

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/activity.report/internal/activity"
	"github.com/banshee-data/activity.report/internal/summary"
)

// WritePNGs renders one PNG per genotype into dir and returns the number of
// files written.
func WritePNGs(dir string, t *activity.Table, o Options) (int, error) {
	genotypes := t.Genotypes()
	colors, err := Palette(genotypes)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("create plot dir: %w", err)
	}

	nights := NightSpans(t)
	yMax := maxActivity(t)
	yLabel := o.yLabel(t)

	count := 0
	for _, gen := range genotypes {
		sub := subTable(t, gen)
		file := filepath.Join(dir, "genotype_"+sanitize(gen)+".png")
		if err := writeGenotypePNG(file, sub, gen, colors[gen], nights, yMax, yLabel, o); err != nil {
			return count, fmt.Errorf("genotype %q: %w", gen, err)
		}
		count++
	}
	return count, nil
}

func writeGenotypePNG(file string, sub *activity.Table, gen string, pair Pair,
	nights []Span, yMax float64, yLabel string, o Options) error {

	p := plot.New()
	p.Title.Text = gen
	if o.Subtitle != "" {
		p.Title.Text = gen + " / " + o.Subtitle
	}
	p.X.Label.Text = "time (hours)"
	p.Y.Label.Text = yLabel
	p.Y.Max = yMax

	// Night shading first so the traces draw on top.
	grey, err := parseHex("#808080", 80)
	if err != nil {
		return err
	}
	for _, n := range nights {
		rect, err := plotter.NewPolygon(plotter.XYs{
			{X: n.Left, Y: 0}, {X: n.Right, Y: 0},
			{X: n.Right, Y: yMax}, {X: n.Left, Y: yMax},
		})
		if err != nil {
			return err
		}
		rect.Color = grey
		rect.LineStyle.Width = 0
		p.Add(rect)
	}

	faint, err := parseHex(pair.Faint, 190)
	if err != nil {
		return err
	}
	for _, fish := range sub.FishIDs() {
		obs := sub.Series(fish)
		pts := make(plotter.XYs, len(obs))
		for i, ob := range obs {
			pts[i] = plotter.XY{X: ob.Zeit, Y: ob.Activity}
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		l.Color = faint
		l.Width = vg.Points(0.5)
		p.Add(l)
	}

	if !o.Summary.IsNone() {
		strong, err := parseHex(pair.Strong, 255)
		if err != nil {
			return err
		}
		trace := summary.Trace(sub, o.Summary)
		zeit := timeAxis(sub, gen)
		pts := make(plotter.XYs, 0, len(trace))
		for i, v := range trace {
			if i < len(zeit) {
				pts = append(pts, plotter.XY{X: zeit[i], Y: v})
			}
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		l.Color = strong
		l.Width = vg.Points(2)
		p.Add(l)
		p.Legend.Add(o.Summary.String(), l)
		p.Legend.Top = true
	}

	return p.Save(10*vg.Inch, 3*vg.Inch, file)
}

// sanitize makes a genotype label safe for use in a filename.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
