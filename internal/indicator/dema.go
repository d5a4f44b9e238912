package indicator

import "github.com/amirphl/simple-indicators/internal/series"

// DEMA is the double exponential moving average:
// DEMA = 2*EMA(s) - EMA(EMA(s)), with EMA's alpha/span parameterization.
type DEMA struct {
	Alpha float64
	Span  float64
}

func (DEMA) Name() string { return "DEMA" }

func (d DEMA) Compute(s series.Series, opts Options) (*Result, error) {
	label := ewmLabel("DEMA", d.Alpha, d.Span, s.Len())
	return computeSingle(label, s, opts, func(v series.Series) (series.Series, error) {
		alpha, err := resolveAlpha(d.Alpha, d.Span, v.Len())
		if err != nil {
			return series.Series{}, err
		}
		e1 := ewma(v, alpha)
		e2 := ewma(e1, alpha)
		return series.Sub(series.Scale(e1, 2), e2), nil
	})
}
