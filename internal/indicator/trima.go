package indicator

import (
	"fmt"

	"github.com/amirphl/simple-indicators/internal/series"
)

// TRIMA is the triangular moving average: an SMA applied twice, with the
// first pass's warm-up gap dropped before the second pass. The combined
// warm-up loss is 2n-2 points.
type TRIMA struct {
	N int
}

func (TRIMA) Name() string { return "TRIMA" }

func (m TRIMA) Compute(s series.Series, opts Options) (*Result, error) {
	label := fmt.Sprintf("TRIMA (n=%d)", m.N)
	return computeSingle(label, s, opts, func(v series.Series) (series.Series, error) {
		first, err := smaCore(v, m.N)
		if err != nil {
			return series.Series{}, err
		}
		return smaCore(first, m.N)
	})
}
