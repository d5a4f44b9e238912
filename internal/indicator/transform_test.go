package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentDiffTransform(t *testing.T) {
	s := daily(specCloses...)

	raw, err := SMA{N: 3}.Compute(s, Options{})
	require.NoError(t, err)
	pct, err := SMA{N: 3}.Compute(s, Options{PercentDiff: true})
	require.NoError(t, err)

	out := pct.Series[0]
	require.Equal(t, raw.Series[0].Len(), out.Len())
	for i, p := range out.Points {
		in := specCloses[i+2] // SMA(3) output starts at index 2
		want := (raw.Series[0].Points[i].Value - in) / in
		assert.InDelta(t, want, p.Value, 1e-12, "i=%d", i)
	}
}

func TestRatioTransform(t *testing.T) {
	s := daily(specCloses...)

	raw, err := EMA{Alpha: 0.5}.Compute(s, Options{})
	require.NoError(t, err)
	ratio, err := EMA{Alpha: 0.5}.Compute(s, Options{AsRatio: true})
	require.NoError(t, err)

	out := ratio.Series[0]
	require.Equal(t, s.Len(), out.Len())
	for i, p := range out.Points {
		assert.InDelta(t, raw.Series[0].Points[i].Value/specCloses[i], p.Value, 1e-12, "i=%d", i)
	}
}

func TestPercentDiffWinsOverRatio(t *testing.T) {
	s := daily(specCloses...)

	both, err := SMA{N: 3}.Compute(s, Options{PercentDiff: true, AsRatio: true})
	require.NoError(t, err)
	pct, err := SMA{N: 3}.Compute(s, Options{PercentDiff: true})
	require.NoError(t, err)

	assert.Equal(t, pct.Series[0].Values(), both.Series[0].Values())
}

func TestTransformAppliesToAllMACDColumns(t *testing.T) {
	s := daily(specCloses...)

	raw, err := NewMACD().Compute(s, Options{})
	require.NoError(t, err)
	pct, err := NewMACD().Compute(s, Options{PercentDiff: true})
	require.NoError(t, err)

	for col := range raw.Series {
		for i := range raw.Series[col].Points {
			in := specCloses[i]
			want := (raw.Series[col].Points[i].Value - in) / in
			assert.InDelta(t, want, pct.Series[col].Points[i].Value, 1e-12, "col=%d i=%d", col, i)
		}
	}
}
