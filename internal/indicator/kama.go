package indicator

import (
	"fmt"

	"github.com/amirphl/simple-indicators/internal/series"
)

// KAMA is the Kaufman adaptive moving average. The efficiency ratio over ER
// periods adapts the smoothing constant between the fast and slow EMA
// constants; the first value is seeded from SMA(N) and the rest follow an
// inherently sequential recurrence in timestamp order.
// See: https://school.stockcharts.com/doku.php?id=technical_indicators:kaufman_s_adaptive_moving_average
type KAMA struct {
	ER      int // efficiency-ratio window
	EMAFast int // periods for the fast smoothing constant
	EMASlow int // periods for the slow smoothing constant
	N       int // SMA window seeding the first value; must satisfy N >= ER
}

// NewKAMA returns a KAMA with the conventional defaults.
func NewKAMA() KAMA {
	return KAMA{ER: 10, EMAFast: 2, EMASlow: 30, N: 20}
}

func (KAMA) Name() string { return "KAMA" }

func (k KAMA) Compute(s series.Series, opts Options) (*Result, error) {
	label := fmt.Sprintf("KAMA (er=%d, ema_fast=%d, ema_slow=%d, n=%d)", k.ER, k.EMAFast, k.EMASlow, k.N)
	return computeSingle(label, s, opts, func(v series.Series) (series.Series, error) {
		return k.apply(v)
	})
}

func (k KAMA) apply(s series.Series) (series.Series, error) {
	if k.ER < 1 || k.EMAFast < 1 || k.EMASlow < 1 {
		return series.Series{}, fmt.Errorf("%w: KAMA windows must be at least 1", ErrInvalidParameter)
	}
	if k.N < k.ER {
		return series.Series{}, fmt.Errorf("%w: KAMA seed window n=%d must be >= er=%d", ErrInvalidParameter, k.N, k.ER)
	}

	eRatio, err := kerCore(s, k.ER)
	if err != nil {
		return series.Series{}, err
	}
	fastC := 2 / (float64(k.EMAFast) + 1)
	slowC := 2 / (float64(k.EMASlow) + 1)

	sma, err := smaCore(s, k.N)
	if err != nil {
		return series.Series{}, err
	}
	out := series.Series{Name: s.Name}
	if sma.Len() == 0 {
		return out, nil
	}

	// Seed at the first valid SMA position (index n-1), then fold forward.
	// Since n >= er, every later position has a defined efficiency ratio.
	prior := sma.Points[0].Value
	out.Points = append(out.Points, series.Point{Time: sma.Points[0].Time, Value: prior})
	for i := k.N; i < s.Len(); i++ {
		er := eRatio.Points[i-k.ER].Value
		sc := er*(fastC-slowC) + slowC
		sc *= sc
		prior += sc * (s.Points[i].Value - prior)
		out.Points = append(out.Points, series.Point{Time: s.Points[i].Time, Value: prior})
	}
	return out, nil
}
