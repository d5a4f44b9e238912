package dataset

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Loader reads per-symbol CSV files from a scrape directory and cleans them
// into canonical rows.
type Loader struct {
	Dir       string
	Fieldmap  map[string]string // canonical field -> source column
	Precision int               // decimal places prices are rounded to
}

// NewLoader builds a loader with the default fieldmap and 5-digit precision.
func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir, Fieldmap: DefaultFieldmap(), Precision: 5}
}

// LoadSymbols loads and cleans the CSV files for the given symbols
// (<SYMBOL>.csv inside the loader's directory). Symbols without a file are
// logged and skipped; an error is returned only when nothing could be
// loaded. Rows are exact-duplicate-filtered, deduplicated by latest scrape
// per period, and returned sorted by symbol then datetime.
func (l *Loader) LoadSymbols(symbols ...string) ([]Row, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no symbols given")
	}

	var rows []Row
	var missing []string
	for _, sym := range symbols {
		sym = strings.ToUpper(sym)
		fp := filepath.Join(l.Dir, sym+".csv")
		loaded, err := l.loadFile(fp, sym)
		if err != nil {
			if os.IsNotExist(err) {
				missing = append(missing, sym)
				continue
			}
			return nil, fmt.Errorf("loading %s: %w", fp, err)
		}
		rows = append(rows, loaded...)
	}
	if len(missing) > 0 {
		log.Printf("Dataset | no data available for symbols: %s", strings.Join(missing, ", "))
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data loaded for symbols: %s", strings.Join(symbols, ", "))
	}

	rows = dropExactDuplicates(rows)
	rows = DedupeByRequestTime(rows)
	return rows, nil
}

func (l *Loader) loadFile(fp, symbol string) ([]Row, error) {
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	header, body := mergeDupeColumns(records[0], records[1:])
	cols := l.columnIndex(header)

	var rows []Row
	for i, rec := range body {
		row, err := l.parseRow(rec, cols, symbol)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// columnIndex resolves canonical fields to column positions. A column
// matches either the canonical name itself or the source name from the
// fieldmap; when both appear the canonical one wins (the scraper
// occasionally saved a mixture of the two).
func (l *Loader) columnIndex(header []string) map[string]int {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.ToLower(strings.TrimSpace(h))] = i
	}
	cols := make(map[string]int)
	for field, source := range l.Fieldmap {
		if i, ok := byName[field]; ok {
			cols[field] = i
		} else if i, ok := byName[strings.ToLower(source)]; ok {
			cols[field] = i
		}
	}
	return cols
}

func (l *Loader) parseRow(rec []string, cols map[string]int, symbol string) (Row, error) {
	get := func(field string) string {
		i, ok := cols[field]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	dt, err := parseDatetime(get("datetime"))
	if err != nil {
		return Row{}, err
	}
	row := Row{DateTime: dt, Symbol: symbol}
	if s := get("symbol"); s != "" {
		row.Symbol = strings.ToUpper(s)
	}

	floats := []struct {
		field string
		dst   *float64
	}{
		{"open", &row.Open},
		{"high", &row.High},
		{"low", &row.Low},
		{"close", &row.Close},
		{"raw_close", &row.RawClose},
		{"volume", &row.Volume},
	}
	for _, fc := range floats {
		raw := get(fc.field)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Row{}, fmt.Errorf("parsing %s %q: %w", fc.field, raw, err)
		}
		*fc.dst = roundTo(v, l.Precision)
	}
	// A source without a separate raw close reports an already-raw close.
	if row.RawClose == 0 {
		row.RawClose = row.Close
	}

	if raw := get("request_time"); raw != "" {
		rt, err := parseDatetime(raw)
		if err != nil {
			return Row{}, fmt.Errorf("parsing request_time %q: %w", raw, err)
		}
		row.RequestTime = rt
	} else {
		row.RequestTime = minRequestTime
	}
	return row, nil
}

func parseDatetime(raw string) (time.Time, error) {
	for _, layout := range []string{SecondFormat, DateFormat, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized datetime: %q", raw)
}

// mergeDupeColumns collapses duplicate header names: the first occurrence
// wins, later occurrences only fill cells the first left empty.
func mergeDupeColumns(header []string, body [][]string) ([]string, [][]string) {
	first := make(map[string]int)
	keep := make([]int, 0, len(header))
	dupes := make(map[int]int) // duplicate column -> first column
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if j, seen := first[key]; seen {
			dupes[i] = j
			continue
		}
		first[key] = i
		keep = append(keep, i)
	}
	if len(dupes) == 0 {
		return header, body
	}

	for _, rec := range body {
		for dup, orig := range dupes {
			if dup < len(rec) && orig < len(rec) && rec[orig] == "" {
				rec[orig] = rec[dup]
			}
		}
	}
	outHeader := make([]string, len(keep))
	outBody := make([][]string, len(body))
	for n, i := range keep {
		outHeader[n] = header[i]
	}
	for r, rec := range body {
		out := make([]string, len(keep))
		for n, i := range keep {
			if i < len(rec) {
				out[n] = rec[i]
			}
		}
		outBody[r] = out
	}
	return outHeader, outBody
}

func dropExactDuplicates(rows []Row) []Row {
	seen := make(map[Row]struct{}, len(rows))
	out := rows[:0:0]
	for _, r := range rows {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
