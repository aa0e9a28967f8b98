// Package summary computes the per-time-index statistics drawn as the thick
// overlay trace on activity charts.
package summary

import (
	"fmt"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/activity.report/internal/activity"
)

// Named statistics. A quantile in (0,1) is selected with Quantile instead.
const (
	Mean   = "mean"
	Median = "median"
	Min    = "min"
	Max    = "max"
	None   = "none"
)

// Statistic selects the aggregate applied across fish at each time index.
type Statistic struct {
	name string
	q    float64
}

// Named returns the Statistic for one of the named aggregates, or a
// quantile when the name parses as a float in (0,1).
func Named(name string) (Statistic, error) {
	switch name {
	case Mean, Median, Min, Max, None:
		return Statistic{name: name}, nil
	}
	if q, err := strconv.ParseFloat(name, 64); err == nil {
		return Quantile(q)
	}
	return Statistic{}, fmt.Errorf("%w: unknown summary statistic %q", activity.ErrInvalidConfig, name)
}

// Quantile returns the Statistic for the q-th quantile, 0 < q < 1.
func Quantile(q float64) (Statistic, error) {
	if q <= 0 || q >= 1 {
		return Statistic{}, fmt.Errorf("%w: summary quantile %g out of range (0, 1)", activity.ErrInvalidConfig, q)
	}
	return Statistic{name: "quantile", q: q}, nil
}

// IsNone reports whether the statistic suppresses the overlay entirely.
func (s Statistic) IsNone() bool { return s.name == None || s.name == "" }

func (s Statistic) String() string {
	if s.name == "quantile" {
		return fmt.Sprintf("q%g", s.q)
	}
	return s.name
}

// apply reduces one time index's activity values. xs is scratch and may be
// reordered.
func (s Statistic) apply(xs []float64) float64 {
	switch s.name {
	case Mean:
		return stat.Mean(xs, nil)
	case Min:
		m := xs[0]
		for _, v := range xs[1:] {
			if v < m {
				m = v
			}
		}
		return m
	case Max:
		m := xs[0]
		for _, v := range xs[1:] {
			if v > m {
				m = v
			}
		}
		return m
	case Median:
		sort.Float64s(xs)
		return stat.Quantile(0.5, stat.Empirical, xs, nil)
	default: // quantile
		sort.Float64s(xs)
		return stat.Quantile(s.q, stat.Empirical, xs, nil)
	}
}

// Trace groups the table's activity by time index and reduces each group
// with the statistic, returning one value per index from 0 upward. The
// trace stops at the first index with no observations, so ragged grids
// never produce gaps or NaNs.
func Trace(t *activity.Table, s Statistic) []float64 {
	if s.IsNone() || t.Len() == 0 {
		return nil
	}

	groups := make(map[int][]float64)
	maxInd := 0
	for _, o := range t.Obs {
		groups[o.ZeitInd] = append(groups[o.ZeitInd], o.Activity)
		if o.ZeitInd > maxInd {
			maxInd = o.ZeitInd
		}
	}

	out := make([]float64, 0, maxInd+1)
	for i := 0; i <= maxInd; i++ {
		xs := groups[i]
		if len(xs) == 0 {
			break
		}
		out = append(out, s.apply(xs))
	}
	return out
}
