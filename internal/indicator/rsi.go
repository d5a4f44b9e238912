package indicator

import (
	"fmt"
	"math"

	"github.com/amirphl/simple-indicators/internal/series"
)

// RSI is the n-period smoothed relative strength index, expressed as a ratio
// in [0, 1]: EMA of gains over the EMA of gains plus the EMA of losses.
//
// The first point of the differenced series has no prior value, so the first
// RSI value is NaN. It is emitted (not dropped and not coerced to zero) so
// the output keeps the full input index.
type RSI struct {
	N int
}

// NewRSI returns an RSI with the conventional 14-period window.
func NewRSI() RSI {
	return RSI{N: 14}
}

func (RSI) Name() string { return "RSI" }

func (r RSI) Compute(s series.Series, opts Options) (*Result, error) {
	label := fmt.Sprintf("RSI (n=%d)", r.N)
	return computeSingle(label, s, opts, func(v series.Series) (series.Series, error) {
		if r.N < 1 {
			return series.Series{}, fmt.Errorf("%w: RSI period must be at least 1, got %d", ErrInvalidParameter, r.N)
		}
		up := v.Clone()
		down := v.Clone()
		for i := range v.Points {
			if i == 0 {
				up.Points[i].Value = math.NaN()
				down.Points[i].Value = math.NaN()
				continue
			}
			d := v.Points[i].Value - v.Points[i-1].Value
			if d > 0 {
				up.Points[i].Value = d
				down.Points[i].Value = 0
			} else {
				up.Points[i].Value = 0
				down.Points[i].Value = -d
			}
		}
		alpha := 2 / (float64(r.N) + 1)
		upEWM := ewma(up, alpha)
		downEWM := ewma(down, alpha)
		return series.Div(upEWM, series.Add(upEWM, downEWM)), nil
	})
}
