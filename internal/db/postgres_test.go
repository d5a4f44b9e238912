package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirphl/simple-indicators/internal/dataset"
	"github.com/amirphl/simple-indicators/internal/db/conf"
)

func testRow(symbol string, day int, close float64) dataset.Row {
	dt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day)
	return dataset.Row{
		DateTime: dt,
		Symbol:   symbol,
		Open:     close - 1,
		High:     close + 1,
		Low:      close - 2,
		Close:    close,
		RawClose: close,
		Volume:   100,
		// Scraped the day after the period.
		RequestTime: dt.AddDate(0, 0, 1),
	}
}

func TestSaveAndGetRows(t *testing.T) {
	cfg, cleanup := conf.NewTestConfig(t)
	defer cleanup()

	storage, err := New(*cfg)
	require.NoError(t, err)
	ctx := context.Background()

	rows := []dataset.Row{testRow("ACME", 0, 10), testRow("ACME", 1, 11), testRow("OTHER", 0, 50)}
	require.NoError(t, storage.SaveRows(ctx, rows))

	got, err := storage.GetRows(ctx, "ACME",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 10.0, got[0].Close)
	assert.Equal(t, 11.0, got[1].Close)
	assert.True(t, got[0].DateTime.Before(got[1].DateTime))
}

func TestSaveRowsUpsertsOnRescrape(t *testing.T) {
	cfg, cleanup := conf.NewTestConfig(t)
	defer cleanup()

	storage, err := New(*cfg)
	require.NoError(t, err)
	ctx := context.Background()

	first := testRow("ACME", 0, 10)
	require.NoError(t, storage.SaveRows(ctx, []dataset.Row{first}))

	rescrape := first
	rescrape.Close = 10.5
	rescrape.RawClose = 10.5
	rescrape.RequestTime = first.RequestTime.Add(time.Hour)
	require.NoError(t, storage.SaveRows(ctx, []dataset.Row{rescrape}))

	latest, err := storage.GetLatestRow(ctx, "ACME")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 10.5, latest.Close)
}

func TestGetLatestRowEmpty(t *testing.T) {
	cfg, cleanup := conf.NewTestConfig(t)
	defer cleanup()

	storage, err := New(*cfg)
	require.NoError(t, err)

	latest, err := storage.GetLatestRow(context.Background(), "NONE")
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestSaveRowsRejectsInvalid(t *testing.T) {
	cfg, cleanup := conf.NewTestConfig(t)
	defer cleanup()

	storage, err := New(*cfg)
	require.NoError(t, err)

	bad := testRow("ACME", 0, 10)
	bad.High = bad.Low - 1
	assert.Error(t, storage.SaveRows(context.Background(), []dataset.Row{bad}))
}

func TestDeleteRows(t *testing.T) {
	cfg, cleanup := conf.NewTestConfig(t)
	defer cleanup()

	storage, err := New(*cfg)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, storage.SaveRows(ctx, []dataset.Row{testRow("ACME", 0, 10), testRow("ACME", 10, 11)}))
	require.NoError(t, storage.DeleteRows(ctx, "ACME", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)))

	got, err := storage.GetRows(ctx, "ACME",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 11.0, got[0].Close)
}
