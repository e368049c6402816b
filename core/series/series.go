package series

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/roadcast/core/model"
)

// Range bounds a time window in epoch milliseconds. Nil bounds are open.
type Range struct {
	From *int64
	To   *int64
}

// Contains reports whether ts lies in the inclusive range.
func (r Range) Contains(ts int64) bool {
	if r.From != nil && ts < *r.From {
		return false
	}
	if r.To != nil && ts > *r.To {
		return false
	}
	return true
}

// Open reports whether neither bound is set.
func (r Range) Open() bool { return r.From == nil && r.To == nil }

// Between is a convenience constructor for a closed range.
func Between(from, to int64) Range { return Range{From: &from, To: &to} }

func valid(speed float64) bool { return speed > 0 && !math.IsNaN(speed) }

// Positive returns the points with a usable (> 0) speed.
func Positive(s model.Series) model.Series {
	out := make(model.Series, 0, len(s))
	for _, p := range s {
		if valid(p.Speed) {
			out = append(out, p)
		}
	}
	return out
}

// Window returns the points whose timestamp falls inside r.
func Window(s model.Series, r Range) model.Series {
	if r.Open() {
		return s.Clone()
	}
	out := make(model.Series, 0, len(s))
	for _, p := range s {
		if r.Contains(p.Timestamp) {
			out = append(out, p)
		}
	}
	return out
}

// Last returns the final n points of s, or all of them when s is shorter.
func Last(s model.Series, n int) model.Series {
	if n <= 0 {
		return model.Series{}
	}
	if n > len(s) {
		n = len(s)
	}
	return s[len(s)-n:].Clone()
}

// Mean returns the arithmetic mean of the speeds, 0 for an empty series.
func Mean(s model.Series) float64 {
	if len(s) == 0 {
		return 0
	}
	return stat.Mean(s.Speeds(), nil)
}
