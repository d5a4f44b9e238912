package indicator

import (
	"fmt"

	"github.com/amirphl/simple-indicators/internal/series"
)

// MACD is the moving average convergence-divergence: the spread between a
// fast and a slow EMA, plus a signal line smoothing that spread. Both output
// series share the full input index, since EMA never drops points.
type MACD struct {
	PFast  int
	PSlow  int
	Signal int
}

// NewMACD returns a MACD with the conventional 12/26/9 parameters.
func NewMACD() MACD {
	return MACD{PFast: 12, PSlow: 26, Signal: 9}
}

func (MACD) Name() string { return "MACD" }

func (m MACD) Compute(s series.Series, opts Options) (*Result, error) {
	if m.PFast < 1 || m.PSlow < 1 || m.Signal < 1 {
		return nil, fmt.Errorf("%w: MACD spans must be at least 1 (p_fast=%d, p_slow=%d, signal=%d)",
			ErrInvalidParameter, m.PFast, m.PSlow, m.Signal)
	}
	if !opts.SkipValidate {
		var err error
		s, err = series.Validate(s)
		if err != nil {
			return nil, err
		}
	}

	emaFast := ewma(s, 2/(float64(m.PFast)+1))
	emaSlow := ewma(s, 2/(float64(m.PSlow)+1))
	macd := series.Sub(emaFast, emaSlow)
	signal := ewma(macd, 2/(float64(m.Signal)+1))

	macd = transform(s, macd, opts)
	signal = transform(s, signal, opts)
	macd.Name = joinName(s.Name, fmt.Sprintf("MACD (p_fast=%d, p_slow=%d)", m.PFast, m.PSlow))
	signal.Name = joinName(s.Name, fmt.Sprintf("MACD_signal (p_fast=%d, p_slow=%d, signal=%d)", m.PFast, m.PSlow, m.Signal))

	label := fmt.Sprintf("MACD (p_fast=%d, p_slow=%d, signal=%d)", m.PFast, m.PSlow, m.Signal)
	return &Result{Label: label, Series: []series.Series{macd, signal}}, nil
}
