package indicator

import "github.com/amirphl/simple-indicators/internal/series"

// TEMA is the triple exponential moving average:
// TEMA = 3*EMA(s) - 3*EMA(EMA(s)) + EMA(EMA(EMA(s))).
type TEMA struct {
	Alpha float64
	Span  float64
}

func (TEMA) Name() string { return "TEMA" }

func (t TEMA) Compute(s series.Series, opts Options) (*Result, error) {
	label := ewmLabel("TEMA", t.Alpha, t.Span, s.Len())
	return computeSingle(label, s, opts, func(v series.Series) (series.Series, error) {
		alpha, err := resolveAlpha(t.Alpha, t.Span, v.Len())
		if err != nil {
			return series.Series{}, err
		}
		e1 := ewma(v, alpha)
		e2 := ewma(e1, alpha)
		e3 := ewma(e2, alpha)
		out := series.Sub(series.Scale(e1, 3), series.Scale(e2, 3))
		return series.Add(out, e3), nil
	})
}
