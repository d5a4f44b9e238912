package indicator

import (
	"fmt"
	"math"

	"github.com/amirphl/simple-indicators/internal/series"
)

// KER is the Kaufman Efficiency Ratio: net directional movement over a
// window divided by total movement in the same window. Values lie in [0, 1];
// a flat window (zero volatility) yields NaN, which propagates downstream.
type KER struct {
	N int
}

func (KER) Name() string { return "KER" }

func (k KER) Compute(s series.Series, opts Options) (*Result, error) {
	label := fmt.Sprintf("KER (n=%d)", k.N)
	return computeSingle(label, s, opts, func(v series.Series) (series.Series, error) {
		return kerCore(v, k.N)
	})
}

// kerCore computes trend[i] = |s[i]-s[i-n]| over
// volatility[i] = sum of |one-step diffs| in (i-n, i]. The trend needs an
// n-lag and the volatility window needs n one-step diffs, so the output is
// defined from position n onward.
func kerCore(s series.Series, n int) (series.Series, error) {
	if n < 1 {
		return series.Series{}, fmt.Errorf("%w: KER window must be at least 1, got %d", ErrInvalidParameter, n)
	}
	out := series.Series{Name: s.Name}
	if s.Len() <= n {
		return out, nil
	}
	diffs := make([]float64, s.Len())
	for i := 1; i < s.Len(); i++ {
		diffs[i] = math.Abs(s.Points[i].Value - s.Points[i-1].Value)
	}
	volatility := 0.0
	for i := 1; i <= n; i++ {
		volatility += diffs[i]
	}
	for i := n; i < s.Len(); i++ {
		if i > n {
			volatility += diffs[i] - diffs[i-n]
		}
		trend := math.Abs(s.Points[i].Value - s.Points[i-n].Value)
		out.Points = append(out.Points, series.Point{
			Time:  s.Points[i].Time,
			Value: trend / volatility,
		})
	}
	return out, nil
}
