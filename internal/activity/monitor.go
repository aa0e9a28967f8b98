package activity

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/banshee-data/activity.report/internal/genotype"
)

// monitor export column names
const (
	colLocation = "location"
	colDate     = "stdate"
	colTime     = "sttime"
	colMeasure  = "middur"
)

// timestampLayout combines the monitor export's stdate and sttime fields
// (day-first dates).
const timestampLayout = "02/01/2006 15:04:05"

// wellID extracts the numeric fish ID embedded in a well label like "c42".
var wellID = regexp.MustCompile(`\d+`)

// MonitorOptions configures LoadMonitor.
type MonitorOptions struct {
	// LightsOn and LightsOff bound the light phase of each day. The
	// interval must not wrap midnight: LightsOff at or before LightsOn is
	// rejected.
	LightsOn  ClockTime
	LightsOff ClockTime

	// DayInTheLife is the fish's age in days on the first experimental day.
	DayInTheLife int

	// ExtraColumns lists additional raw columns to carry through to the
	// tidy table unchanged.
	ExtraColumns []string

	// Rename maps raw column names to tidy output names. The entry whose
	// value is "activity" selects the measure column; by default the
	// "middur" column is the activity measure.
	Rename map[string]string
}

// measureColumn returns the raw column holding the activity measure.
func (o MonitorOptions) measureColumn() string {
	for src, dst := range o.Rename {
		if dst == "activity" {
			return src
		}
	}
	return colMeasure
}

// outputName returns the tidy-table name for a raw extra column.
func (o MonitorOptions) outputName(raw string) string {
	if dst, ok := o.Rename[raw]; ok {
		return dst
	}
	return raw
}

// LoadMonitor reads a monitor-format activity file (one row per fish per
// time bin) and joins it against the genotype table, producing the tidy
// activity table. Rows for fish absent from the genotype table are dropped;
// that is how unassigned wells are excluded, not an error.
func LoadMonitor(path string, gt *genotype.Table, opts MonitorOptions) (*Table, error) {
	if opts.LightsOff.SecondsOfDay() <= opts.LightsOn.SecondsOfDay() {
		return nil, fmt.Errorf("%w: lights-off %s must be after lights-on %s (intervals wrapping midnight are unsupported)",
			ErrInvalidConfig, opts.LightsOff, opts.LightsOn)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open activity file: %w", err)
	}
	defer f.Close()

	t, err := loadMonitor(f, gt, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func loadMonitor(r io.Reader, gt *genotype.Table, opts MonitorOptions) (*Table, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read header: %v", ErrSchemaMismatch, err)
	}
	byName := make(map[string]int, len(header))
	for i, name := range header {
		byName[name] = i
	}

	measure := opts.measureColumn()

	// Project down to the columns we actually need; everything else in the
	// file is ignored to keep memory bounded on large exports.
	need := []string{colLocation, colDate, colTime, measure}
	need = append(need, opts.ExtraColumns...)
	for _, c := range need {
		if _, ok := byName[c]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrSchemaMismatch, c)
		}
	}

	t := &Table{HasTime: true}
	for _, c := range opts.ExtraColumns {
		t.ExtraNames = append(t.ExtraNames, opts.outputName(c))
	}

	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read activity file: %w", err)
		}
		line++

		// Well labels embed the fish ID behind a non-numeric prefix ("c3").
		digits := wellID.FindString(rec[byName[colLocation]])
		if digits == "" {
			return nil, fmt.Errorf("%w: line %d: well %q has no numeric ID", genotype.ErrInvalidFishID, line, rec[byName[colLocation]])
		}
		fish, err := strconv.Atoi(digits)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: well %q: %v", genotype.ErrInvalidFishID, line, rec[byName[colLocation]], err)
		}

		// Inner join against the genotype table.
		gen, ok := gt.Genotype(fish)
		if !ok {
			continue
		}

		stamp, err := time.Parse(timestampLayout, rec[byName[colDate]]+" "+rec[byName[colTime]])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %q %q: %v", ErrTimestampParse, line, rec[byName[colDate]], rec[byName[colTime]], err)
		}

		act, err := strconv.ParseFloat(rec[byName[measure]], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid %s value %q: %w", line, measure, rec[byName[measure]], err)
		}

		obs := Observation{Fish: fish, Genotype: gen, Time: stamp, Activity: act}
		for _, c := range opts.ExtraColumns {
			obs.Extras = append(obs.Extras, rec[byName[c]])
		}
		t.Obs = append(t.Obs, obs)
	}

	if len(t.Obs) == 0 {
		return nil, fmt.Errorf("%w: genotype table has %d fish", ErrUnresolvedFish, gt.Len())
	}

	annotateMonitor(t, opts)
	return t, nil
}

// annotateMonitor derives zeit, light, day and the per-fish index from the
// parsed timestamps.
func annotateMonitor(t *Table, opts MonitorOptions) {
	// Zeitgeber zero is the single earliest timestamp across the whole
	// table, not per fish.
	tMin := t.Obs[0].Time
	for _, o := range t.Obs[1:] {
		if o.Time.Before(tMin) {
			tMin = o.Time
		}
	}

	// Day boundaries anchor to lights-on on the first observed date, not to
	// midnight. The anchor keeps only day granularity, so a lights-on near
	// midnight can miscount by one; this mirrors the monitor format's
	// established convention and is deliberately not generalised.
	anchor := opts.LightsOn.On(tMin)

	on := opts.LightsOn.SecondsOfDay()
	off := opts.LightsOff.SecondsOfDay()

	for i := range t.Obs {
		o := &t.Obs[i]
		o.Zeit = o.Time.Sub(tMin).Hours()
		clock := secondsOfDay(o.Time)
		o.Light = clock >= on && clock < off
		o.Day = int(math.Floor(o.Time.Sub(anchor).Hours()/24)) + opts.DayInTheLife
	}

	sort.SliceStable(t.Obs, func(i, j int) bool {
		if t.Obs[i].Fish != t.Obs[j].Fish {
			return t.Obs[i].Fish < t.Obs[j].Fish
		}
		return t.Obs[i].Zeit < t.Obs[j].Zeit
	})
	t.reindex()
}
