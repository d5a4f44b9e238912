package indicator

import (
	"fmt"

	"github.com/amirphl/simple-indicators/internal/series"
)

// WMA is the weighted moving average: linearly decreasing integer weights
// n..1 normalized to sum to 1, with the most recent value weighted heaviest.
type WMA struct {
	N int
}

func (WMA) Name() string { return "WMA" }

func (m WMA) Compute(s series.Series, opts Options) (*Result, error) {
	label := fmt.Sprintf("WMA (n=%d)", m.N)
	return computeSingle(label, s, opts, func(v series.Series) (series.Series, error) {
		return wmaCore(v, m.N)
	})
}

// wmaCore is a sliding dot product: output[i] = sum of the n most recent
// values weighted (1..n)/norm, oldest to newest. Positions before n-1 are
// absent from the output.
func wmaCore(s series.Series, n int) (series.Series, error) {
	if n < 1 {
		return series.Series{}, fmt.Errorf("%w: WMA window must be at least 1, got %d", ErrInvalidParameter, n)
	}
	out := series.Series{Name: s.Name}
	if s.Len() < n {
		return out, nil
	}
	norm := float64(n*(n+1)) / 2
	for i := n - 1; i < s.Len(); i++ {
		sum := 0.0
		for j := 0; j < n; j++ {
			sum += s.Points[i-n+1+j].Value * float64(j+1)
		}
		out.Points = append(out.Points, series.Point{Time: s.Points[i].Time, Value: sum / norm})
	}
	return out, nil
}
