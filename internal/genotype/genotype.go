// Package genotype loads the genotype assignment file that maps each fish
// (well) to its genotype label.
//
// The file is tab-delimited with `#` comment lines and two header rows: a
// group label row followed by the per-group genotype labels. Body cells list
// the fish IDs belonging to each genotype column; columns may be ragged, with
// short columns padded by blanks.
package genotype

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrMalformedFile indicates the genotype file does not have the
	// expected two header rows.
	ErrMalformedFile = errors.New("malformed genotype file")

	// ErrInvalidFishID indicates a fish identifier could not be parsed as an
	// integer.
	ErrInvalidFishID = errors.New("invalid fish ID")
)

// Assignment is one (fish, genotype) pair.
type Assignment struct {
	Fish     int
	Genotype string
}

// Table is the flattened genotype map. It is built once per run and
// read-only thereafter.
type Table struct {
	order  []Assignment
	byFish map[int]string
}

// Load reads a genotype file from disk. See the package comment for the
// expected layout.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open genotype file: %w", err)
	}
	defer f.Close()

	rows, err := readRows(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t, err := parse(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// readRows scans the file into tab-split rows, dropping comment and blank
// lines.
func readRows(f *os.File) ([][]string, error) {
	var rows [][]string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, strings.Split(line, "\t"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read genotype file: %w", err)
	}
	return rows, nil
}

// parse flattens the wide layout into (fish, genotype) pairs. A fish listed
// under more than one genotype column keeps its first assignment; later
// duplicates are ignored so a fish can never resolve to two genotypes.
func parse(rows [][]string) (*Table, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: need a group row and a label row, got %d header rows", ErrMalformedFile, len(rows))
	}

	// The second header row carries the genotype labels; the group row above
	// it is discarded. Labels often carry an occupancy suffix ("wildtype
	// n=24") which is trimmed at the last space.
	labels := make([]string, len(rows[1]))
	for i, col := range rows[1] {
		labels[i] = trimCount(col)
	}

	t := &Table{byFish: make(map[int]string)}

	// Melt column by column so the table keeps the same ordering the wide
	// layout implies: every fish of the first genotype, then the next.
	for col, label := range labels {
		if label == "" {
			continue
		}
		for _, row := range rows[2:] {
			if col >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[col])
			if cell == "" {
				continue
			}
			fish, err := strconv.Atoi(cell)
			if err != nil {
				return nil, fmt.Errorf("%w: genotype %q has non-integer cell %q", ErrInvalidFishID, label, cell)
			}
			if _, dup := t.byFish[fish]; dup {
				continue
			}
			t.byFish[fish] = label
			t.order = append(t.order, Assignment{Fish: fish, Genotype: label})
		}
	}

	return t, nil
}

// trimCount strips a trailing " n=<count>" style annotation by cutting the
// label at its last space.
func trimCount(label string) string {
	if i := strings.LastIndex(label, " "); i > 0 {
		return label[:i]
	}
	return label
}

// Genotype returns the genotype assigned to fish.
func (t *Table) Genotype(fish int) (string, bool) {
	g, ok := t.byFish[fish]
	return g, ok
}

// Has reports whether fish appears in the table.
func (t *Table) Has(fish int) bool {
	_, ok := t.byFish[fish]
	return ok
}

// Len returns the number of assigned fish.
func (t *Table) Len() int { return len(t.order) }

// Fish returns all assigned fish IDs in table order.
func (t *Table) Fish() []int {
	ids := make([]int, len(t.order))
	for i, a := range t.order {
		ids[i] = a.Fish
	}
	return ids
}

// Genotypes returns the distinct genotype labels in first-appearance order.
func (t *Table) Genotypes() []string {
	var out []string
	seen := make(map[string]bool)
	for _, a := range t.order {
		if !seen[a.Genotype] {
			seen[a.Genotype] = true
			out = append(out, a.Genotype)
		}
	}
	return out
}

// Assignments returns the (fish, genotype) pairs in table order.
func (t *Table) Assignments() []Assignment {
	out := make([]Assignment, len(t.order))
	copy(out, t.order)
	return out
}
