package prep

import (
	"sort"

	"github.com/jfwalther/screwdata/pkg/core"
)

// Transform mutates a series in place. The pipeline applies transforms in
// a fixed order; a transform returning an error leaves the series in an
// undefined state.
type Transform interface {
	Apply(s *core.Series) error
}

// DefaultInterval is the sampling interval of the tightening control, in
// seconds.
const DefaultInterval = 0.0012

// TrailingPolicy decides what happens when the run duration is not an
// exact multiple of the sampling interval.
type TrailingPolicy string

const (
	// TrailingExtend appends one grid point past the last sample, so the
	// full duration is always covered.
	TrailingExtend = TrailingPolicy("extend")
	// TrailingDrop ends the grid at the last point at or before the last
	// sample, discarding the partial interval.
	TrailingDrop = TrailingPolicy("drop")
)

// gridTolerance absorbs float noise when deciding whether a grid point
// still falls on the last sample.
const gridTolerance = 1e-9

// Equidistance resamples a series onto a uniform time grid by linear
// interpolation. Duplicate timestamps keep their first value; timestamps
// need not arrive sorted (steps restart their clock, the grid is built
// over the sorted distinct times).
func Equidistance(interval float64, trailing TrailingPolicy) Transform {
	return &equidistancer{interval: interval, trailing: trailing}
}

type equidistancer struct {
	interval float64
	trailing TrailingPolicy
}

func (e *equidistancer) Apply(s *core.Series) error {
	times, picks := distinctSorted(s.Time)
	if len(times) < 2 {
		return &core.InsufficientDataError{ID: s.ID, Samples: len(times)}
	}

	grid := e.grid(times[0], times[len(times)-1])

	for i := range s.Values {
		ordered := make([]float64, len(picks))
		for j, p := range picks {
			ordered[j] = s.Values[i][p]
		}
		s.Values[i] = interp(grid, times, ordered)
	}
	s.Time = grid

	return nil
}

func (e *equidistancer) grid(t0, tmax float64) []float64 {
	n := int((tmax-t0)/e.interval+gridTolerance) + 1
	last := t0 + float64(n-1)*e.interval
	if e.trailing == TrailingExtend && last < tmax-gridTolerance {
		n++
	}

	grid := make([]float64, n)
	for k := range grid {
		grid[k] = t0 + float64(k)*e.interval
	}
	return grid
}

// distinctSorted returns the distinct timestamps in ascending order along
// with the index of the first occurrence of each.
func distinctSorted(times []float64) ([]float64, []int) {
	order := make([]int, len(times))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return times[order[a]] < times[order[b]]
	})

	distinct := make([]float64, 0, len(times))
	picks := make([]int, 0, len(times))
	for _, idx := range order {
		if len(distinct) > 0 && times[idx] == distinct[len(distinct)-1] {
			continue
		}
		distinct = append(distinct, times[idx])
		picks = append(picks, idx)
	}
	return distinct, picks
}

// interp evaluates the piecewise linear function through (xs, ys) at every
// point of x. Points outside [xs[0], xs[len-1]] clamp to the end values.
// xs must be sorted ascending with at least 2 entries.
func interp(x, xs, ys []float64) []float64 {
	out := make([]float64, len(x))
	seg := 0
	for i, xi := range x {
		switch {
		case xi <= xs[0]:
			out[i] = ys[0]
			continue
		case xi >= xs[len(xs)-1]:
			out[i] = ys[len(ys)-1]
			continue
		}

		for xs[seg+1] < xi {
			seg++
		}
		t := (xi - xs[seg]) / (xs[seg+1] - xs[seg])
		out[i] = ys[seg] + t*(ys[seg+1]-ys[seg])
	}
	return out
}
