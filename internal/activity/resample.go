package activity

import (
	"fmt"
	"time"
)

// Resample coarsens the tidy table's time axis by summing activity over
// consecutive windows of window original time points, per fish. The input
// table is not modified; the result is a fresh table.
//
// Window boundaries are aligned to the light/dark transitions rather than to
// wherever the recording happened to start: the first retained window's
// right edge sits at a multiple of window from the first transition in the
// reference (lowest-ID) fish's series. Without this, windows would cut
// across day/night boundaries differently depending on recording start,
// corrupting any day-versus-night comparison downstream.
func Resample(t *Table, window int) (*Table, error) {
	if window <= 0 {
		return nil, fmt.Errorf("%w: window must be positive, got %d", ErrInvalidConfig, window)
	}

	sorted := t.sortedClone()

	if window == 1 {
		// Pass-through: only the per-fish index is re-derived.
		sorted.reindex()
		return sorted, nil
	}

	// Per-fish runs of rows in the sorted table.
	type run struct{ start, end int } // [start, end)
	var runs []run
	for i := 0; i < len(sorted.Obs); {
		j := i
		for j < len(sorted.Obs) && sorted.Obs[j].Fish == sorted.Obs[i].Fish {
			j++
		}
		runs = append(runs, run{i, j})
		i = j
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("%w: empty table", ErrInsufficientData)
	}

	for _, r := range runs {
		if n := r.end - r.start; n < window {
			return nil, fmt.Errorf("%w: fish %d has %d points, window is %d",
				ErrInsufficientData, sorted.Obs[r.start].Fish, n, window)
		}
	}

	// Offset of the first retained window's right edge, computed from the
	// reference fish's first light flip.
	ref := sorted.Obs[runs[0].start:runs[0].end]
	flip := -1
	for i := 0; i+1 < len(ref); i++ {
		if ref[i].Light != ref[i+1].Light {
			flip = i
			break
		}
	}
	if flip < 0 {
		return nil, fmt.Errorf("%w: fish %d never changes light state", ErrNoTransition, ref[0].Fish)
	}
	startOffset := window + flip%window

	out := &Table{}
	for _, r := range runs {
		obs := sorted.Obs[r.start:r.end]

		// Prefix sums give each trailing-window rolling sum in O(1).
		prefix := make([]float64, len(obs)+1)
		for i, o := range obs {
			prefix[i+1] = prefix[i] + o.Activity
		}

		// Stride through the aligned right edges. The final row is never a
		// retained edge (the stride stops short of it), matching the
		// upstream tool's behaviour.
		for p := startOffset; p < len(obs)-1; p += window {
			o := obs[p]
			o.Activity = prefix[p+1] - prefix[p+1-window]
			o.Time, o.Extras = time.Time{}, nil
			out.Obs = append(out.Obs, o)
		}
	}

	out.reindex()
	return out, nil
}
