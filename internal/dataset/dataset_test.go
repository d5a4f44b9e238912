package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadSymbolsCleansAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "ACME.csv",
		"DATETIME,SYMBOL,OPEN,HIGH,LOW,CLOSE,RAW_CLOSE,VOLUME,REQUEST_TIME\n"+
			"2024_01_02,ACME,10,12,9,11,11,100,2024_01_03 00;00;00\n"+
			"2024_01_01,ACME,9,10,8,10,10,90,2024_01_02 00;00;00\n")

	rows, err := NewLoader(dir).LoadSymbols("acme")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), rows[0].DateTime)
	assert.Equal(t, "ACME", rows[0].Symbol)
	assert.Equal(t, 10.0, rows[0].Close)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), rows[1].DateTime)
}

func TestLoadSymbolsMissingFile(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "ACME.csv",
		"DATETIME,OPEN,HIGH,LOW,CLOSE,VOLUME\n"+
			"2024_01_01,9,10,8,10,90\n")

	// A missing symbol is skipped, not fatal.
	rows, err := NewLoader(dir).LoadSymbols("ACME", "NOPE")
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	// All symbols missing is an error.
	_, err = NewLoader(dir).LoadSymbols("NOPE")
	assert.Error(t, err)
}

func TestLoadDedupesByRequestTime(t *testing.T) {
	dir := t.TempDir()
	// Same period scraped twice; the later scrape wins.
	writeCSV(t, dir, "ACME.csv",
		"DATETIME,OPEN,HIGH,LOW,CLOSE,VOLUME,REQUEST_TIME\n"+
			"2024_01_01,9,10,8,10,90,2024_01_01 10;00;00\n"+
			"2024_01_01,9,10,8,10.5,95,2024_01_02 10;00;00\n")

	rows, err := NewLoader(dir).LoadSymbols("ACME")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 10.5, rows[0].Close)
}

func TestLoadMissingRequestTimeLosesToAnyScrape(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "ACME.csv",
		"DATETIME,OPEN,HIGH,LOW,CLOSE,VOLUME,REQUEST_TIME\n"+
			"2024_01_01,9,10,8,11,90,2024_01_01 10;00;00\n"+
			"2024_01_01,9,10,8,10,90,\n")

	rows, err := NewLoader(dir).LoadSymbols("ACME")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 11.0, rows[0].Close)
}

func TestLoadMergesDuplicateColumns(t *testing.T) {
	dir := t.TempDir()
	// Two CLOSE columns; the first wins, the second only fills gaps.
	writeCSV(t, dir, "ACME.csv",
		"DATETIME,OPEN,HIGH,LOW,CLOSE,CLOSE,VOLUME\n"+
			"2024_01_01,9,10,8,10,99,90\n"+
			"2024_01_02,10,12,9,,13,100\n")

	rows, err := NewLoader(dir).LoadSymbols("ACME")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 10.0, rows[0].Close)
	assert.Equal(t, 13.0, rows[1].Close)
}

func TestLoadRoundsToPrecision(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "ACME.csv",
		"DATETIME,OPEN,HIGH,LOW,CLOSE,VOLUME\n"+
			"2024_01_01,9,10,8,10.123456789,90\n")

	l := NewLoader(dir)
	l.Precision = 3
	rows, err := l.LoadSymbols("ACME")
	require.NoError(t, err)
	assert.Equal(t, 10.123, rows[0].Close)
}

func TestLoadCustomFieldmap(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "ACME.csv",
		"ts,o,h,l,c,vol\n"+
			"2024_01_01,9,10,8,10,90\n")

	l := NewLoader(dir)
	l.Fieldmap = map[string]string{
		"datetime": "ts", "open": "o", "high": "h", "low": "l", "close": "c", "volume": "vol",
	}
	rows, err := l.LoadSymbols("ACME")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 10.0, rows[0].Close)
	// Without a raw close column the close doubles as raw close.
	assert.Equal(t, 10.0, rows[0].RawClose)
}

func TestAdjustPrices(t *testing.T) {
	rows := []Row{{
		DateTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Symbol:   "ACME",
		Open:     10, High: 12, Low: 8, Close: 5, RawClose: 10, Volume: 1,
	}}
	adj := AdjustPrices(rows)

	// factor = close/raw_close = 0.5
	assert.Equal(t, 5.0, adj[0].OpenAdjusted)
	assert.Equal(t, 6.0, adj[0].HighAdjusted)
	assert.Equal(t, 4.0, adj[0].LowAdjusted)
	// Input untouched.
	assert.Equal(t, 0.0, rows[0].OpenAdjusted)
}

func TestFieldSeries(t *testing.T) {
	d1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)
	rows := []Row{
		{DateTime: d1, Symbol: "ACME", Close: 10},
		{DateTime: d1, Symbol: "OTHER", Close: 99},
		{DateTime: d2, Symbol: "ACME", Close: 11},
	}

	s := CloseSeries(rows, "acme")
	require.Equal(t, 2, s.Len())
	assert.Equal(t, "ACME close", s.Name)
	assert.Equal(t, []float64{10, 11}, s.Values())

	_, err := FieldSeries(rows, "ACME", "bogus")
	assert.Error(t, err)
}
