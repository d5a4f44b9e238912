package indicator

import (
	"time"

	"github.com/amirphl/simple-indicators/internal/series"
)

// specCloses is a small run of daily closes reused across tests.
var specCloses = []float64{100, 101, 99, 102, 103, 101, 104, 106, 105, 107}

func day(i int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
}

func daily(values ...float64) series.Series {
	times := make([]time.Time, len(values))
	for i := range values {
		times[i] = day(i)
	}
	return series.New("close", times, values)
}
