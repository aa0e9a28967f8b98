// Package activity turns raw locomotor-activity recordings into the tidy
// time-series table consumed by the resampler and the presentation layer.
//
// Two raw input formats are supported: the per-timepoint monitor export
// (one row per fish per time bin) and the pre-processed wide export (one
// row per time bin, one column per fish). Both converge on the same Table
// shape, so downstream code never depends on which loader produced it.
package activity

import (
	"sort"
	"time"
)

// Observation is one (fish, time bin) measurement in the tidy table.
type Observation struct {
	// Fish is the integer well/fish identifier.
	Fish int

	// Genotype is the label joined in from the genotype table.
	Genotype string

	// Time is the absolute timestamp. Only the monitor format carries one;
	// Table.HasTime reports whether it is populated.
	Time time.Time

	// Zeit is the Zeitgeber time in hours since the experiment zero point.
	Zeit float64

	// ZeitInd is the 0-based position of this observation within its own
	// fish's series. It is re-derived after resampling and is not
	// comparable across fish unless their grids are identical.
	ZeitInd int

	// Day is the experimental day number.
	Day int

	// Light reports whether the observation falls in the lights-on window.
	Light bool

	// Activity is the measured activity (seconds of movement per bin).
	Activity float64

	// Extras holds raw passthrough values for the table's extra columns,
	// parallel to Table.ExtraNames.
	Extras []string
}

// Table is the tidy activity table: one Observation per (fish, time bin).
// Each pipeline stage consumes one Table and produces a fresh one; tables
// are never mutated across stage boundaries.
type Table struct {
	Obs []Observation

	// ExtraNames lists caller-requested passthrough columns, in output
	// order and after any renames.
	ExtraNames []string

	// HasTime reports whether Observation.Time is populated.
	HasTime bool
}

// Len returns the number of observations.
func (t *Table) Len() int { return len(t.Obs) }

// FishIDs returns the distinct fish IDs in ascending order.
func (t *Table) FishIDs() []int {
	seen := make(map[int]bool)
	var ids []int
	for _, o := range t.Obs {
		if !seen[o.Fish] {
			seen[o.Fish] = true
			ids = append(ids, o.Fish)
		}
	}
	sort.Ints(ids)
	return ids
}

// Genotypes returns the distinct genotype labels in first-appearance order.
func (t *Table) Genotypes() []string {
	seen := make(map[string]bool)
	var out []string
	for _, o := range t.Obs {
		if !seen[o.Genotype] {
			seen[o.Genotype] = true
			out = append(out, o.Genotype)
		}
	}
	return out
}

// Series returns the observations for one fish ordered by ZeitInd.
func (t *Table) Series(fish int) []Observation {
	var out []Observation
	for _, o := range t.Obs {
		if o.Fish == fish {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZeitInd < out[j].ZeitInd })
	return out
}

// sortedClone returns a deep copy of the table sorted by (fish, zeit).
func (t *Table) sortedClone() *Table {
	out := &Table{
		ExtraNames: append([]string(nil), t.ExtraNames...),
		HasTime:    t.HasTime,
		Obs:        make([]Observation, len(t.Obs)),
	}
	for i, o := range t.Obs {
		o.Extras = append([]string(nil), o.Extras...)
		out.Obs[i] = o
	}
	sort.SliceStable(out.Obs, func(i, j int) bool {
		if out.Obs[i].Fish != out.Obs[j].Fish {
			return out.Obs[i].Fish < out.Obs[j].Fish
		}
		return out.Obs[i].Zeit < out.Obs[j].Zeit
	})
	return out
}

// reindex rewrites ZeitInd as 0..n-1 within each fish's run of rows. The
// table must already be sorted by (fish, zeit).
func (t *Table) reindex() {
	idx := 0
	for i := range t.Obs {
		if i > 0 && t.Obs[i].Fish != t.Obs[i-1].Fish {
			idx = 0
		}
		t.Obs[i].ZeitInd = idx
		idx++
	}
}
