package prep

import "github.com/jfwalther/screwdata/pkg/core"

// Side selects which end of a series padding or truncating works on.
type Side string

const (
	SidePre  = Side("pre")
	SidePost = Side("post")
)

// NormalizeLength forces every series to exactly target samples. Short
// series are padded with padValue (pre prepends, post appends), long ones
// are truncated (pre keeps the last target samples, post the first).
// Series already at the target length pass through unchanged. The time
// axis is rewritten to 0, interval, ..., (target-1)*interval afterwards,
// since padded samples have no timestamps of their own.
func NormalizeLength(target int, padValue float64, padSide, truncSide Side, interval float64) Transform {
	return &lengthNormalizer{
		target:    target,
		padValue:  padValue,
		padSide:   padSide,
		truncSide: truncSide,
		interval:  interval,
	}
}

type lengthNormalizer struct {
	target    int
	padValue  float64
	padSide   Side
	truncSide Side
	interval  float64
}

func (l *lengthNormalizer) Apply(s *core.Series) error {
	n := s.Len()
	switch {
	case n > l.target:
		for i := range s.Values {
			s.Values[i] = truncate(s.Values[i], l.target, l.truncSide)
		}
	case n < l.target:
		for i := range s.Values {
			s.Values[i] = pad(s.Values[i], l.target, l.padValue, l.padSide)
		}
	}

	s.Time = make([]float64, l.target)
	for k := range s.Time {
		s.Time[k] = float64(k) * l.interval
	}

	return nil
}

func truncate(seq []float64, target int, side Side) []float64 {
	if side == SidePre {
		return seq[len(seq)-target:]
	}
	return seq[:target]
}

func pad(seq []float64, target int, value float64, side Side) []float64 {
	out := make([]float64, target)
	fill := out[len(seq):]
	copied := out[:len(seq)]
	if side == SidePre {
		fill = out[:target-len(seq)]
		copied = out[target-len(seq):]
	}
	copy(copied, seq)
	for i := range fill {
		fill[i] = value
	}
	return out
}
