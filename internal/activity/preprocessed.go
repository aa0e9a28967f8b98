package activity

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/banshee-data/activity.report/internal/genotype"
)

// preprocessed export conventions
const (
	fishColPrefix = "FISH"
	clockCol      = "CLOCK"

	// preprocessedLightsOut is the clock hour at which the lights go out in
	// the pre-processed export. The threshold is baked into that pipeline's
	// clock encoding and is intentionally not configurable here.
	preprocessedLightsOut = 14.0
)

// LoadPreprocessed reads a pre-processed activity file: tab-delimited with
// `#` comments, one row per time bin and one FISH<n> column per fish, plus a
// CLOCK column and start/end bookkeeping columns. It reshapes the wide
// layout into the same tidy table LoadMonitor produces.
//
// Unlike the monitor format there are no absolute timestamps; day numbers
// are counted from detected dark-to-light transitions and Zeitgeber time is
// 24*day + clock hour.
func LoadPreprocessed(path string, gt *genotype.Table) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open activity file: %w", err)
	}
	defer f.Close()

	t, err := loadPreprocessed(f, gt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func loadPreprocessed(r io.Reader, gt *genotype.Table) (*Table, error) {
	var rows [][]string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, strings.Split(line, "\t"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read activity file: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: need two header rows, got %d", ErrSchemaMismatch, len(rows))
	}

	names := flattenHeader(rows[0], rows[1])
	body := rows[2:]

	// Resolve the columns we keep: CLOCK plus every FISH column with a
	// genotype. Bookkeeping columns (start/end markers, unnamed index
	// artefacts) are required to be present and then discarded.
	clockIdx := -1
	sawStart, sawEnd := false, false
	type fishCol struct {
		idx      int
		fish     int
		genotype string
	}
	var fishCols []fishCol

	for i, name := range names {
		switch {
		case name == clockCol:
			clockIdx = i
		case name == "start":
			sawStart = true
		case name == "end":
			sawEnd = true
		case name == "" || strings.Contains(name, "Unnamed"):
			// index artefact, drop
		case strings.HasPrefix(name, fishColPrefix):
			id, err := strconv.Atoi(strings.TrimLeft(name, fishColPrefix))
			if err != nil {
				return nil, fmt.Errorf("%w: column %q", genotype.ErrInvalidFishID, name)
			}
			gen, ok := gt.Genotype(id)
			if !ok {
				// fish without an assigned genotype, drop
				continue
			}
			fishCols = append(fishCols, fishCol{idx: i, fish: id, genotype: gen})
		}
	}

	if clockIdx < 0 {
		return nil, fmt.Errorf("%w: missing %s column", ErrSchemaMismatch, clockCol)
	}
	if !sawStart || !sawEnd {
		return nil, fmt.Errorf("%w: missing start/end bookkeeping columns", ErrSchemaMismatch)
	}
	if len(fishCols) == 0 {
		return nil, fmt.Errorf("%w: genotype table has %d fish", ErrUnresolvedFish, gt.Len())
	}

	// Parse the time axis and derive light, day and zeit for each bin.
	clock := make([]float64, len(body))
	for i, row := range body {
		if clockIdx >= len(row) {
			return nil, fmt.Errorf("%w: row %d has %d cells, want at least %d", ErrSchemaMismatch, i+1, len(row), clockIdx+1)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[clockIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid %s value %q: %w", i+1, clockCol, row[clockIdx], err)
		}
		clock[i] = v
	}

	light := make([]bool, len(clock))
	for i, c := range clock {
		light[i] = c < preprocessedLightsOut
	}

	// Day numbers count dark-to-light transitions: a bin's day is the number
	// of rising edges strictly before it, starting at 0.
	day := make([]int, len(light))
	n := 0
	for i := 1; i < len(light); i++ {
		if light[i] && !light[i-1] {
			n++
		}
		day[i] = n
	}

	zeit := make([]float64, len(clock))
	for i := range clock {
		zeit[i] = 24*float64(day[i]) + clock[i]
	}

	// Melt wide to long, one fish column at a time so the output is grouped
	// by fish in file order. Rows within a fish are already in time order,
	// so the bin index doubles as the per-fish zeit index.
	t := &Table{}
	for _, fc := range fishCols {
		for i, row := range body {
			if fc.idx >= len(row) {
				return nil, fmt.Errorf("%w: row %d has %d cells, want at least %d", ErrSchemaMismatch, i+1, len(row), fc.idx+1)
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(row[fc.idx]), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: fish %d: invalid activity %q: %w", i+1, fc.fish, row[fc.idx], err)
			}
			t.Obs = append(t.Obs, Observation{
				Fish:     fc.fish,
				Genotype: fc.genotype,
				Zeit:     zeit[i],
				ZeitInd:  i,
				Day:      day[i],
				Light:    light[i],
				Activity: v,
			})
		}
	}

	return t, nil
}

// flattenHeader resolves the export's inconsistent two-level header: the
// first two columns are labelled on the second row, the remaining columns on
// the first.
func flattenHeader(first, second []string) []string {
	width := len(first)
	if len(second) > width {
		width = len(second)
	}
	names := make([]string, width)
	for i := range names {
		switch {
		case i < 2 && i < len(second):
			names[i] = strings.TrimSpace(second[i])
		case i < len(first):
			names[i] = strings.TrimSpace(first[i])
		}
	}
	return names
}
