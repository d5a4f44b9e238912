package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/amirphl/simple-indicators/internal/config"
	"github.com/amirphl/simple-indicators/internal/dataset"
	"github.com/amirphl/simple-indicators/internal/db"
	"github.com/amirphl/simple-indicators/internal/db/conf"
	"github.com/amirphl/simple-indicators/internal/exchange"
	"github.com/amirphl/simple-indicators/internal/indicator"
	"github.com/amirphl/simple-indicators/internal/series"
	"github.com/amirphl/simple-indicators/internal/sweep"
)

func main() {
	cfg := config.MustLoadConfig()
	log.Println("Starting Simple Indicators in mode:", cfg.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cfg.Mode {
	case "compute":
		err = runCompute(cfg)
	case "sweep":
		err = runSweep(ctx, cfg)
	case "fetch":
		err = runFetch(ctx, cfg)
	default:
		log.Fatalf("Unknown mode: %s", cfg.Mode)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", cfg.Mode, err)
	}
}

// loadSeries loads and cleans the configured symbols and extracts the price
// series the indicators run on.
func loadSeries(cfg config.Config) (series.Series, error) {
	if len(cfg.Symbols) == 0 {
		return series.Series{}, fmt.Errorf("no symbols configured")
	}

	loader := dataset.NewLoader(cfg.DataDir)
	loader.Precision = cfg.Precision
	if len(cfg.Fieldmap) > 0 {
		loader.Fieldmap = cfg.Fieldmap
	}

	rows, err := loader.LoadSymbols(cfg.Symbols...)
	if err != nil {
		return series.Series{}, err
	}
	if strings.HasSuffix(cfg.Field, "_adjusted") {
		rows = dataset.AdjustPrices(rows)
	}
	return dataset.FieldSeries(rows, cfg.Symbols[0], cfg.Field)
}

func runCompute(cfg config.Config) error {
	s, err := loadSeries(cfg)
	if err != nil {
		return err
	}

	entry, err := indicator.Lookup(cfg.Indicator)
	if err != nil {
		return err
	}
	ind := entry.Build(cfg.Params)

	res, err := ind.Compute(s, indicator.Options{
		PercentDiff: cfg.PercentDiff,
		AsRatio:     cfg.AsRatio,
	})
	if err != nil {
		return err
	}

	log.Printf("Computed %s over %d input points", res.Label, s.Len())
	return writeSeriesCSV(cfg.Output, res.Series)
}

func runSweep(ctx context.Context, cfg config.Config) error {
	s, err := loadSeries(cfg)
	if err != nil {
		return err
	}

	var entries []indicator.Entry
	if strings.EqualFold(cfg.Indicator, "all") {
		entries = indicator.Registry()
	} else {
		entry, err := indicator.Lookup(cfg.Indicator)
		if err != nil {
			return err
		}
		entries = []indicator.Entry{entry}
	}

	jobs := sweep.GridJobs(entries)
	log.Printf("Sweeping %d parameter sets with %d workers", len(jobs), cfg.Workers)

	outcomes, err := sweep.Run(ctx, s, jobs, cfg.Workers, indicator.Options{
		PercentDiff: cfg.PercentDiff,
		AsRatio:     cfg.AsRatio,
	})
	if err != nil {
		return err
	}
	return writeOutcomesCSV(cfg.Output, outcomes)
}

func runFetch(ctx context.Context, cfg config.Config) error {
	if cfg.WallexAPIKey == "" {
		log.Println("WALLEX_API_KEY not set; fetching public candle data")
	}
	ex := exchange.NewWallexExchange(cfg.WallexAPIKey)

	var storage db.Storage
	if cfg.DBConnStr != "" {
		sqlDB, err := sql.Open("postgres", cfg.DBConnStr)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer sqlDB.Close()
		storage, err = db.New(conf.Config{DB: sqlDB, ConnStr: cfg.DBConnStr})
		if err != nil {
			return err
		}
	}

	for _, symbol := range cfg.Symbols {
		rows, err := ex.FetchCandles(ctx, symbol, cfg.Timeframe, cfg.From, cfg.To)
		if err != nil {
			return fmt.Errorf("fetching %s: %w", symbol, err)
		}
		log.Printf("Fetched %d rows for %s", len(rows), symbol)

		if storage != nil {
			if err := storage.SaveRows(ctx, rows); err != nil {
				return fmt.Errorf("saving %s: %w", symbol, err)
			}
			continue
		}

		// No database configured; write scraped-style CSVs the loader can
		// read back in compute mode.
		fp := filepath.Join(cfg.DataDir, exchange.NormalizeSymbol(symbol)+".csv")
		if err := writeRowsCSV(fp, rows); err != nil {
			return fmt.Errorf("writing %s: %w", fp, err)
		}
	}
	return nil
}

func openOutput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

// writeSeriesCSV writes series sharing an index as a wide CSV: datetime
// first, one column per series.
func writeSeriesCSV(path string, cols []series.Series) error {
	f, done, err := openOutput(path)
	if err != nil {
		return err
	}
	defer done()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"datetime"}
	for _, c := range cols {
		header = append(header, c.Name)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	if len(cols) == 0 {
		return nil
	}
	for i, p := range cols[0].Points {
		rec := []string{p.Time.Format(dataset.SecondFormat)}
		for _, c := range cols {
			rec = append(rec, strconv.FormatFloat(c.Points[i].Value, 'f', -1, 64))
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Error()
}

// writeOutcomesCSV writes sweep results in long form, one line per
// (label, datetime, value), since grid points produce outputs of varying
// length.
func writeOutcomesCSV(path string, outcomes []sweep.Outcome) error {
	f, done, err := openOutput(path)
	if err != nil {
		return err
	}
	defer done()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"label", "series", "datetime", "value"}); err != nil {
		return err
	}
	for _, o := range outcomes {
		for _, s := range o.Series {
			for _, p := range s.Points {
				rec := []string{
					o.Label,
					s.Name,
					p.Time.Format(dataset.SecondFormat),
					strconv.FormatFloat(p.Value, 'f', -1, 64),
				}
				if err := w.Write(rec); err != nil {
					return err
				}
			}
		}
	}
	return w.Error()
}

// writeRowsCSV writes canonical rows in the scraped-CSV schema.
func writeRowsCSV(path string, rows []dataset.Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"DATETIME", "SYMBOL", "OPEN", "HIGH", "LOW", "CLOSE", "RAW_CLOSE", "VOLUME", "REQUEST_TIME"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.DateTime.Format(dataset.SecondFormat),
			r.Symbol,
			strconv.FormatFloat(r.Open, 'f', -1, 64),
			strconv.FormatFloat(r.High, 'f', -1, 64),
			strconv.FormatFloat(r.Low, 'f', -1, 64),
			strconv.FormatFloat(r.Close, 'f', -1, 64),
			strconv.FormatFloat(r.RawClose, 'f', -1, 64),
			strconv.FormatFloat(r.Volume, 'f', -1, 64),
			r.RequestTime.Format(dataset.SecondFormat),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Error()
}
