package series

import (
	"math"

	"github.com/kilianp07/roadcast/core/model"
)

// Interpolate fills interior gaps (speed <= 0 or NaN) with the mean of the
// immediate neighbours when both are valid. It is a single pass over the input
// values: a gap next to another gap stays unfilled.
func Interpolate(s model.Series) model.Series {
	out := s.Clone()
	if len(s) < 2 {
		return out
	}
	for i := 1; i < len(s)-1; i++ {
		if valid(s[i].Speed) {
			continue
		}
		prev, next := s[i-1].Speed, s[i+1].Speed
		if valid(prev) && valid(next) {
			out[i].Speed = (prev + next) / 2.0
		}
	}
	return out
}

// MarkGaps returns a copy of s with a NaN placeholder inserted wherever exactly
// one step is missing between consecutive points. Only such single gaps can be
// filled by Interpolate, so wider holes are left as they are.
func MarkGaps(s model.Series, step int64) model.Series {
	if len(s) < 2 || step <= 0 {
		return s.Clone()
	}
	out := make(model.Series, 0, len(s))
	out = append(out, s[0])
	for i := 1; i < len(s); i++ {
		if s[i].Timestamp-s[i-1].Timestamp == 2*step {
			out = append(out, model.SpeedPoint{Timestamp: s[i-1].Timestamp + step, Speed: math.NaN()})
		}
		out = append(out, s[i])
	}
	return out
}
