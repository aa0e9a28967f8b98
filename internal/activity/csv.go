package activity

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// csvTimeLayout is the absolute-timestamp format in tidy output files.
const csvTimeLayout = "2006-01-02 15:04:05"

// fixed tidy columns, in output order. The time column is present only when
// the table carries absolute timestamps.
var tidyColumns = []string{"fish", "genotype", "time", "zeit", "zeit_ind", "day", "light", "activity"}

// WriteCSV writes the table as a comma-delimited tidy file: one header row,
// one row per observation.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(tidyColumns)+len(t.ExtraNames))
	for _, c := range tidyColumns {
		if c == "time" && !t.HasTime {
			continue
		}
		header = append(header, c)
	}
	header = append(header, t.ExtraNames...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write tidy header: %w", err)
	}

	row := make([]string, 0, len(header))
	for _, o := range t.Obs {
		row = row[:0]
		row = append(row, strconv.Itoa(o.Fish), o.Genotype)
		if t.HasTime {
			row = append(row, o.Time.Format(csvTimeLayout))
		}
		row = append(row,
			strconv.FormatFloat(o.Zeit, 'g', -1, 64),
			strconv.Itoa(o.ZeitInd),
			strconv.Itoa(o.Day),
			strconv.FormatBool(o.Light),
			strconv.FormatFloat(o.Activity, 'g', -1, 64),
		)
		row = append(row, o.Extras...)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write tidy row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes the table to path. The file is written to a temporary
// sibling and renamed into place so a failed run leaves no partial output.
func WriteFile(path string, t *Table) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create tidy output: %w", err)
	}
	if err := WriteCSV(tmp, t); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close tidy output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename tidy output: %w", err)
	}
	return nil
}

// ReadCSV loads a previously written tidy file. Columns beyond the fixed
// tidy set are carried as extra passthrough columns.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read tidy header: %v", ErrSchemaMismatch, err)
	}

	fixed := make(map[string]int)
	for _, c := range tidyColumns {
		fixed[c] = -1
	}
	t := &Table{}
	var extraIdx []int
	for i, name := range header {
		if _, ok := fixed[name]; ok {
			fixed[name] = i
		} else {
			t.ExtraNames = append(t.ExtraNames, name)
			extraIdx = append(extraIdx, i)
		}
	}
	for _, c := range tidyColumns {
		if c == "time" {
			continue
		}
		if fixed[c] < 0 {
			return nil, fmt.Errorf("%w: tidy file missing column %q", ErrSchemaMismatch, c)
		}
	}
	t.HasTime = fixed["time"] >= 0

	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read tidy file: %w", err)
		}
		line++

		var o Observation
		if o.Fish, err = strconv.Atoi(rec[fixed["fish"]]); err != nil {
			return nil, fmt.Errorf("line %d: fish: %w", line, err)
		}
		o.Genotype = rec[fixed["genotype"]]
		if t.HasTime {
			if o.Time, err = time.Parse(csvTimeLayout, rec[fixed["time"]]); err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrTimestampParse, line, err)
			}
		}
		if o.Zeit, err = strconv.ParseFloat(rec[fixed["zeit"]], 64); err != nil {
			return nil, fmt.Errorf("line %d: zeit: %w", line, err)
		}
		if o.ZeitInd, err = strconv.Atoi(rec[fixed["zeit_ind"]]); err != nil {
			return nil, fmt.Errorf("line %d: zeit_ind: %w", line, err)
		}
		if o.Day, err = strconv.Atoi(rec[fixed["day"]]); err != nil {
			return nil, fmt.Errorf("line %d: day: %w", line, err)
		}
		// Accept both Go and Python boolean spellings.
		if o.Light, err = strconv.ParseBool(strings.ToLower(rec[fixed["light"]])); err != nil {
			return nil, fmt.Errorf("line %d: light: %w", line, err)
		}
		if o.Activity, err = strconv.ParseFloat(rec[fixed["activity"]], 64); err != nil {
			return nil, fmt.Errorf("line %d: activity: %w", line, err)
		}
		for _, i := range extraIdx {
			o.Extras = append(o.Extras, rec[i])
		}
		t.Obs = append(t.Obs, o)
	}

	return t, nil
}

// ReadFile loads a tidy file from disk.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tidy file: %w", err)
	}
	defer f.Close()

	t, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
