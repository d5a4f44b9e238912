package sweep

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirphl/simple-indicators/internal/indicator"
	"github.com/amirphl/simple-indicators/internal/series"
)

func daily(values ...float64) series.Series {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	times := make([]time.Time, len(values))
	for i := range values {
		times[i] = base.AddDate(0, 0, i)
	}
	return series.New("close", times, values)
}

func smaEntry(t *testing.T) indicator.Entry {
	t.Helper()
	e, err := indicator.Lookup("SMA")
	require.NoError(t, err)
	return e
}

func TestGridJobsExpandsEveryPoint(t *testing.T) {
	e := smaEntry(t)
	jobs := GridJobs([]indicator.Entry{e})
	assert.Len(t, jobs, len(e.Grid))
}

func TestRunComputesAllJobs(t *testing.T) {
	s := daily(100, 101, 99, 102, 103, 101, 104, 106, 105, 107)
	jobs := []Job{
		{Entry: smaEntry(t), Params: indicator.Params{"n": 2}},
		{Entry: smaEntry(t), Params: indicator.Params{"n": 3}},
		{Entry: smaEntry(t), Params: indicator.Params{"n": 5}},
	}

	outcomes, err := Run(context.Background(), s, jobs, 4, indicator.Options{})
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	// Results arrive in job order regardless of worker scheduling.
	assert.Equal(t, "SMA (n=2)", outcomes[0].Label)
	assert.Equal(t, "SMA (n=3)", outcomes[1].Label)
	assert.Equal(t, "SMA (n=5)", outcomes[2].Label)
	assert.Equal(t, s.Len()-1, outcomes[0].Series[0].Len())
	assert.Equal(t, s.Len()-4, outcomes[2].Series[0].Len())
}

func TestRunValidatesBaseOnce(t *testing.T) {
	s := daily(100, math.NaN(), 99)
	_, err := Run(context.Background(), s, GridJobs([]indicator.Entry{smaEntry(t)}), 2, indicator.Options{})
	assert.ErrorIs(t, err, series.ErrMissingValues)
}

func TestRunOversizedWindowYieldsEmptyOutcome(t *testing.T) {
	s := daily(100, 101, 99)
	jobs := []Job{{Entry: smaEntry(t), Params: indicator.Params{"n": 1000}}}

	outcomes, err := Run(context.Background(), s, jobs, 1, indicator.Options{})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, 0, outcomes[0].Series[0].Len())
}

func TestRunFullRegistry(t *testing.T) {
	s := daily(100, 101, 99, 102, 103, 101, 104, 106, 105, 107,
		108, 107, 109, 111, 110, 112, 113, 111, 114, 116)

	outcomes, err := Run(context.Background(), s, GridJobs(indicator.Registry()), 8, indicator.Options{})
	require.NoError(t, err)

	want := 0
	for _, e := range indicator.Registry() {
		want += len(e.Grid)
	}
	assert.Len(t, outcomes, want)
	for _, o := range outcomes {
		assert.NotEmpty(t, o.Label)
		assert.NotEmpty(t, o.Indicator)
	}
}

func TestRunHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := daily(100, 101, 99, 102)
	_, err := Run(ctx, s, GridJobs([]indicator.Entry{smaEntry(t)}), 2, indicator.Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
