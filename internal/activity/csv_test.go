package activity

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/banshee-data/activity.report/internal/testutil"
)

func tidyFixtureTable() *Table {
	t0 := time.Date(2016, 1, 1, 9, 0, 0, 0, time.UTC)
	return &Table{
		HasTime:    true,
		ExtraNames: []string{"fraction"},
		Obs: []Observation{
			{Fish: 1, Genotype: "wildtype", Time: t0, Zeit: 0, ZeitInd: 0, Day: 5, Light: true, Activity: 0.5, Extras: []string{"0.1"}},
			{Fish: 1, Genotype: "wildtype", Time: t0.Add(time.Minute), Zeit: 1.0 / 60, ZeitInd: 1, Day: 5, Light: true, Activity: 0.7, Extras: []string{"0.4"}},
			{Fish: 3, Genotype: "mutant", Time: t0, Zeit: 0, ZeitInd: 0, Day: 5, Light: true, Activity: 1.5, Extras: []string{"0.2"}},
		},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	in := tidyFixtureTable()

	var buf bytes.Buffer
	testutil.AssertNoError(t, WriteCSV(&buf, in))

	out, err := ReadCSV(&buf)
	testutil.AssertNoError(t, err)

	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip mismatch (-wrote +read):\n%s", diff)
	}
}

func TestWriteOmitsTimeColumnWithoutTimestamps(t *testing.T) {
	in := tidyFixtureTable()
	in.HasTime = false

	var buf bytes.Buffer
	testutil.AssertNoError(t, WriteCSV(&buf, in))

	header, _, _ := strings.Cut(buf.String(), "\n")
	if strings.Contains(header, "time,") {
		t.Errorf("header %q contains a time column", header)
	}

	out, err := ReadCSV(strings.NewReader(buf.String()))
	testutil.AssertNoError(t, err)
	if out.HasTime {
		t.Error("read table claims timestamps that were never written")
	}
}

func TestReadAcceptsPythonBooleans(t *testing.T) {
	csv := `fish,genotype,zeit,zeit_ind,day,light,activity
1,wildtype,0,0,5,True,0.5
1,wildtype,1,1,5,False,0.7
`
	out, err := ReadCSV(strings.NewReader(csv))
	testutil.AssertNoError(t, err)

	if !out.Obs[0].Light || out.Obs[1].Light {
		t.Errorf("light = [%v %v], want [true false]", out.Obs[0].Light, out.Obs[1].Light)
	}
}

func TestReadUnknownColumnsBecomeExtras(t *testing.T) {
	csv := `fish,genotype,zeit,zeit_ind,day,light,activity,frect
1,wildtype,0,0,5,true,0.5,0.25
`
	out, err := ReadCSV(strings.NewReader(csv))
	testutil.AssertNoError(t, err)

	if len(out.ExtraNames) != 1 || out.ExtraNames[0] != "frect" {
		t.Fatalf("ExtraNames = %v, want [frect]", out.ExtraNames)
	}
	if got := out.Obs[0].Extras; len(got) != 1 || got[0] != "0.25" {
		t.Errorf("extras = %v, want [0.25]", got)
	}
}

func TestReadMissingFixedColumn(t *testing.T) {
	csv := "fish,genotype,zeit,zeit_ind,day,light\n1,wildtype,0,0,5,true\n"
	_, err := ReadCSV(strings.NewReader(csv))
	testutil.AssertErrorIs(t, err, ErrSchemaMismatch)
}

func TestReadBadTimestamp(t *testing.T) {
	csv := "fish,genotype,time,zeit,zeit_ind,day,light,activity\n1,wildtype,yesterday,0,0,5,true,0.5\n"
	_, err := ReadCSV(strings.NewReader(csv))
	testutil.AssertErrorIs(t, err, ErrTimestampParse)
}

func TestWriteFileRenamesIntoPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tidy.csv")

	testutil.AssertNoError(t, WriteFile(path, tidyFixtureTable()))

	out, err := ReadFile(path)
	testutil.AssertNoError(t, err)
	if out.Len() != 3 {
		t.Errorf("Len() = %d, want 3", out.Len())
	}

	// No temporary files left behind.
	entries, err := os.ReadDir(dir)
	testutil.AssertNoError(t, err)
	if len(entries) != 1 {
		t.Errorf("output dir holds %d entries, want only the tidy file", len(entries))
	}
}
