package activity

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/banshee-data/activity.report/internal/testutil"
)

// syntheticSeries builds one fish's series of n one-point bins with a single
// dark-to-light transition after index flip (light is false up to and
// including flip, true after).
func syntheticSeries(fish int, genotype string, n, flip int) []Observation {
	obs := make([]Observation, n)
	for i := range obs {
		day := 0
		if i > flip {
			day = 1
		}
		obs[i] = Observation{
			Fish:     fish,
			Genotype: genotype,
			Zeit:     float64(i) / 6, // 10-minute bins
			ZeitInd:  i,
			Day:      day,
			Light:    i > flip,
			Activity: float64(i + 1),
		}
	}
	return obs
}

func TestResampleWindowOneIsPassThrough(t *testing.T) {
	in := &Table{Obs: syntheticSeries(1, "wildtype", 10, 3)}

	out, err := Resample(in, 1)
	testutil.AssertNoError(t, err)

	if diff := cmp.Diff(in.Obs, out.Obs); diff != "" {
		t.Errorf("window=1 changed the table (-in +out):\n%s", diff)
	}

	// And resampling the result again is a no-op.
	again, err := Resample(out, 1)
	testutil.AssertNoError(t, err)
	if diff := cmp.Diff(out.Obs, again.Obs); diff != "" {
		t.Errorf("window=1 not idempotent (-first +second):\n%s", diff)
	}
}

func TestResampleWindowOneDoesNotAliasInput(t *testing.T) {
	in := &Table{Obs: syntheticSeries(1, "wildtype", 10, 3)}

	out, err := Resample(in, 1)
	testutil.AssertNoError(t, err)

	out.Obs[0].Activity = -1
	if in.Obs[0].Activity == -1 {
		t.Fatal("resampled table aliases the input table")
	}
}

// The single-fish example: 10 one-point bins, window 5, transition at index
// 3. The first retained right edge is 5 + 3%5 = 8, the next (13) is past the
// series, so exactly one aggregate row remains, summing source rows 4..8.
func TestResampleAlignmentExample(t *testing.T) {
	in := &Table{Obs: syntheticSeries(1, "wildtype", 10, 3)}

	out, err := Resample(in, 5)
	testutil.AssertNoError(t, err)

	if out.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", out.Len())
	}
	got := out.Obs[0]
	// Activities are i+1, so rows 4..8 sum to 5+6+7+8+9.
	if want := 35.0; got.Activity != want {
		t.Errorf("activity = %g, want %g", got.Activity, want)
	}
	if got.ZeitInd != 0 {
		t.Errorf("zeit_ind = %d, want 0", got.ZeitInd)
	}
	// The retained row carries its source row's annotations.
	src := in.Obs[8]
	if got.Zeit != src.Zeit || got.Day != src.Day || got.Light != src.Light || got.Genotype != src.Genotype {
		t.Errorf("carried columns = %+v, want those of source row %+v", got, src)
	}
}

func TestResampleAlignsAllFishToSameBoundaries(t *testing.T) {
	// Three fish on an identical 30-point grid with a transition at index 7.
	var obs []Observation
	for _, fish := range []int{2, 5, 9} {
		obs = append(obs, syntheticSeries(fish, "wildtype", 30, 7)...)
	}
	in := &Table{Obs: obs}

	out, err := Resample(in, 4)
	testutil.AssertNoError(t, err)

	// startOffset = 4 + 7%4 = 7, edges at 7, 11, 15, 19, 23, 27.
	wantZeit := []float64{7.0 / 6, 11.0 / 6, 15.0 / 6, 19.0 / 6, 23.0 / 6, 27.0 / 6}

	for _, fish := range out.FishIDs() {
		series := out.Series(fish)
		if len(series) != len(wantZeit) {
			t.Fatalf("fish %d: %d rows, want %d", fish, len(series), len(wantZeit))
		}
		var indices []int
		for i, o := range series {
			if o.Zeit != wantZeit[i] {
				t.Errorf("fish %d row %d: zeit = %g, want %g", fish, i, o.Zeit, wantZeit[i])
			}
			indices = append(indices, o.ZeitInd)
		}
		testutil.AssertContiguousIndices(t, indices)
	}

	// Every fish's light flips sit at the same position relative to the
	// window grid.
	var flipAt []int
	for _, fish := range out.FishIDs() {
		series := out.Series(fish)
		for i := 1; i < len(series); i++ {
			if series[i].Light != series[i-1].Light {
				flipAt = append(flipAt, i)
			}
		}
	}
	for i := 1; i < len(flipAt); i++ {
		if flipAt[i] != flipAt[0] {
			t.Fatalf("light flip positions differ across fish: %v", flipAt)
		}
	}
}

func TestResampleSumsWindows(t *testing.T) {
	in := &Table{Obs: syntheticSeries(1, "wildtype", 30, 7)}

	out, err := Resample(in, 4)
	testutil.AssertNoError(t, err)

	for _, o := range out.Series(1) {
		// The right edge p has activity p+1; the window sums p-3..p.
		p := int(o.Zeit*6 + 0.5)
		want := float64((p + 1) + p + (p - 1) + (p - 2))
		if o.Activity != want {
			t.Errorf("edge %d: activity = %g, want %g", p, o.Activity, want)
		}
	}
}

func TestResampleErrors(t *testing.T) {
	in := &Table{Obs: syntheticSeries(1, "wildtype", 10, 3)}

	_, err := Resample(in, 0)
	testutil.AssertErrorIs(t, err, ErrInvalidConfig)

	_, err = Resample(in, -2)
	testutil.AssertErrorIs(t, err, ErrInvalidConfig)

	_, err = Resample(in, 11)
	testutil.AssertErrorIs(t, err, ErrInsufficientData)

	// All-light series has no boundary to align to.
	flat := &Table{Obs: syntheticSeries(1, "wildtype", 10, -1)}
	_, err = Resample(flat, 5)
	testutil.AssertErrorIs(t, err, ErrNoTransition)
}
