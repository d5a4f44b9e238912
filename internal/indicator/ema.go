package indicator

import (
	"math"

	"github.com/amirphl/simple-indicators/internal/series"
)

// EMA is the exponential moving average. Exactly one of Alpha or Span may be
// set; when neither is, Span defaults to the series length. The recurrence
// is unadjusted: ema[0] = s[0], ema[i] = alpha*s[i] + (1-alpha)*ema[i-1].
type EMA struct {
	Alpha float64
	Span  float64
}

func (EMA) Name() string { return "EMA" }

func (e EMA) Compute(s series.Series, opts Options) (*Result, error) {
	label := ewmLabel("EMA", e.Alpha, e.Span, s.Len())
	return computeSingle(label, s, opts, func(v series.Series) (series.Series, error) {
		alpha, err := resolveAlpha(e.Alpha, e.Span, v.Len())
		if err != nil {
			return series.Series{}, err
		}
		return ewma(v, alpha), nil
	})
}

// ewma runs the exponential recurrence. The output has the same index as the
// input: the seed is the first finite value, leading NaN values stay NaN
// (RSI feeds a differenced series whose first entry is undefined), and a NaN
// after seeding carries the previous smoothed value forward.
func ewma(s series.Series, alpha float64) series.Series {
	out := s.Clone()
	seeded := false
	var prev float64
	for i := range out.Points {
		v := out.Points[i].Value
		if !seeded {
			if math.IsNaN(v) {
				continue
			}
			prev = v
			seeded = true
			continue
		}
		if math.IsNaN(v) {
			out.Points[i].Value = prev
			continue
		}
		prev = alpha*v + (1-alpha)*prev
		out.Points[i].Value = prev
	}
	return out
}
