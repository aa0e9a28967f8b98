package summary

import (
	"testing"

	"github.com/banshee-data/activity.report/internal/activity"
	"github.com/banshee-data/activity.report/internal/testutil"
)

// traceTable has three fish sharing indices 0..2 with activities chosen so
// mean, median, min and max all differ.
func traceTable() *activity.Table {
	t := &activity.Table{}
	activities := map[int][]float64{
		1: {1, 10, 2},
		2: {2, 20, 4},
		3: {6, 30, 6},
	}
	for fish, xs := range activities {
		for i, a := range xs {
			t.Obs = append(t.Obs, activity.Observation{
				Fish: fish, Genotype: "wildtype",
				Zeit: float64(i), ZeitInd: i, Activity: a,
			})
		}
	}
	return t
}

func TestNamed(t *testing.T) {
	for _, name := range []string{Mean, Median, Min, Max, None} {
		s, err := Named(name)
		testutil.AssertNoError(t, err)
		if s.String() != name {
			t.Errorf("Named(%q).String() = %q", name, s.String())
		}
	}

	s, err := Named("0.75")
	testutil.AssertNoError(t, err)
	if s.String() != "q0.75" {
		t.Errorf("Named(0.75).String() = %q, want q0.75", s.String())
	}

	_, err = Named("average")
	testutil.AssertErrorIs(t, err, activity.ErrInvalidConfig)
	_, err = Named("1.5")
	testutil.AssertErrorIs(t, err, activity.ErrInvalidConfig)
}

func TestQuantileRange(t *testing.T) {
	for _, q := range []float64{0, 1, -0.1, 2} {
		_, err := Quantile(q)
		testutil.AssertErrorIs(t, err, activity.ErrInvalidConfig)
	}
	if _, err := Quantile(0.5); err != nil {
		t.Errorf("Quantile(0.5): %v", err)
	}
}

func TestIsNone(t *testing.T) {
	s, err := Named(None)
	testutil.AssertNoError(t, err)
	if !s.IsNone() {
		t.Error("Named(none).IsNone() = false")
	}
	var zero Statistic
	if !zero.IsNone() {
		t.Error("zero Statistic must suppress the overlay")
	}
	if m, _ := Named(Mean); m.IsNone() {
		t.Error("Named(mean).IsNone() = true")
	}
}

func TestTraceStatistics(t *testing.T) {
	tbl := traceTable()

	cases := []struct {
		name string
		want []float64
	}{
		{Mean, []float64{3, 20, 4}},
		{Median, []float64{2, 20, 4}},
		{Min, []float64{1, 10, 2}},
		{Max, []float64{6, 30, 6}},
	}
	for _, c := range cases {
		s, err := Named(c.name)
		testutil.AssertNoError(t, err)
		got := Trace(tbl, s)
		if len(got) != len(c.want) {
			t.Fatalf("%s: trace length %d, want %d", c.name, len(got), len(c.want))
		}
		for i := range c.want {
			if got[i] != c.want[i] {
				t.Errorf("%s: trace[%d] = %g, want %g", c.name, i, got[i], c.want[i])
			}
		}
	}
}

func TestTraceQuantile(t *testing.T) {
	tbl := traceTable()
	s, err := Quantile(0.25)
	testutil.AssertNoError(t, err)

	// Empirical quantile of three values at q=0.25 is the smallest one.
	got := Trace(tbl, s)
	want := []float64{1, 10, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("trace[%d] = %g, want %g", i, got[i], want[i])
		}
	}
}

func TestTraceNone(t *testing.T) {
	s, err := Named(None)
	testutil.AssertNoError(t, err)
	if got := Trace(traceTable(), s); got != nil {
		t.Errorf("Trace with none = %v, want nil", got)
	}
}

func TestTraceStopsAtGap(t *testing.T) {
	tbl := &activity.Table{Obs: []activity.Observation{
		{Fish: 1, ZeitInd: 0, Activity: 1},
		{Fish: 1, ZeitInd: 2, Activity: 3},
	}}
	s, err := Named(Mean)
	testutil.AssertNoError(t, err)

	got := Trace(tbl, s)
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("Trace = %v, want [1] (stops at missing index 1)", got)
	}
}

func TestTraceEmptyTable(t *testing.T) {
	s, err := Named(Mean)
	testutil.AssertNoError(t, err)
	if got := Trace(&activity.Table{}, s); got != nil {
		t.Errorf("Trace of empty table = %v, want nil", got)
	}
}
