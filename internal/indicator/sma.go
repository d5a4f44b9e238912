package indicator

import (
	"fmt"

	"github.com/amirphl/simple-indicators/internal/series"
)

// SMA is the simple moving average over a window of N periods.
type SMA struct {
	N int
}

func (SMA) Name() string { return "SMA" }

func (m SMA) Compute(s series.Series, opts Options) (*Result, error) {
	label := fmt.Sprintf("SMA (n=%d)", m.N)
	return computeSingle(label, s, opts, func(v series.Series) (series.Series, error) {
		return smaCore(v, m.N)
	})
}

// smaCore computes the rolling mean. The first n-1 positions have no full
// window and are absent from the output; a window longer than the series
// yields an empty output.
func smaCore(s series.Series, n int) (series.Series, error) {
	if n < 1 {
		return series.Series{}, fmt.Errorf("%w: SMA window must be at least 1, got %d", ErrInvalidParameter, n)
	}
	out := series.Series{Name: s.Name}
	if s.Len() < n {
		return out, nil
	}
	sum := 0.0
	for i, p := range s.Points {
		sum += p.Value
		if i >= n {
			sum -= s.Points[i-n].Value
		}
		if i >= n-1 {
			out.Points = append(out.Points, series.Point{Time: p.Time, Value: sum / float64(n)})
		}
	}
	return out, nil
}
