// Package config
package config

import (
	"flag"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

/*
YAML config example:
data_dir: "data/scraped"
symbols: ["ACME", "GLOBEX"]
field: "close"
mode: "compute"
indicator: "sma"
params: { n: 5 }
percent_diff: false
as_ratio: false
output: "out.csv"
workers: 8
precision: 5
db_conn_str: "..."
wallex_api_key: "..."
timeframe: "1h"
fieldmap:
  datetime: "DATETIME"
  close: "CLOSE"
  raw_close: "RAW_CLOSE"
*/

type Config struct {
	Mode        string             `yaml:"mode"`
	DataDir     string             `yaml:"data_dir"`
	Symbols     []string           `yaml:"symbols"`
	Field       string             `yaml:"field"`
	Indicator   string             `yaml:"indicator"`
	Params      map[string]float64 `yaml:"params"`
	PercentDiff bool               `yaml:"percent_diff"`
	AsRatio     bool               `yaml:"as_ratio"`
	Output      string             `yaml:"output"`
	Workers     int                `yaml:"workers"`
	Precision   int                `yaml:"precision"`
	Fieldmap    map[string]string  `yaml:"fieldmap"`

	// fetch mode
	WallexAPIKey string    `yaml:"wallex_api_key"`
	DBConnStr    string    `yaml:"db_conn_str"`
	Timeframe    string    `yaml:"timeframe"`
	From         time.Time `yaml:"from"`
	To           time.Time `yaml:"to"`
}

// MustLoadConfig loads configuration from flags, falling back to environment
// variables for credentials; a YAML config file, when given, replaces the
// flag values entirely.
func MustLoadConfig() Config {
	mode := flag.String("mode", "compute", "Mode: compute or sweep or fetch")
	dataDir := flag.String("data-dir", "data", "Directory of scraped <SYMBOL>.csv files")
	symbolsFlag := flag.String("symbols", "", "Comma-separated list of symbols")
	field := flag.String("field", "close", "Price field to compute on (open, high, low, close, ...)")
	indicatorName := flag.String("indicator", "sma", "Indicator: sma, ema, wma, dema, tema, trima, ker, kama, macd, rsi")
	paramsFlag := flag.String("params", "", "Comma-separated name=value indicator parameters (e.g. n=5 or alpha=0.5)")
	percentDiff := flag.Bool("percent-diff", false, "Convert output to percent difference from input")
	asRatio := flag.Bool("as-ratio", false, "Convert output to ratio of input")
	output := flag.String("output", "", "Output CSV path (default stdout)")
	workers := flag.Int("workers", 4, "Worker goroutines for sweep mode")
	precision := flag.Int("precision", 5, "Decimal places prices are rounded to")
	timeframe := flag.String("timeframe", "1d", "Candle timeframe for fetch mode")
	from := flag.String("from", time.Now().AddDate(-2, 0, 0).Format("2006-01-02"), "Fetch start date (YYYY-MM-DD)")
	to := flag.String("to", time.Now().Format("2006-01-02"), "Fetch end date (YYYY-MM-DD)")
	configFile := flag.String("config", "", "Path to YAML config file")
	flag.Parse()

	if *configFile != "" {
		data, err := os.ReadFile(*configFile)
		if err != nil {
			log.Fatalf("Failed to read config file: %v", err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			log.Fatalf("Failed to parse config file: %v", err)
		}
		return fileCfg
	}

	fromTime, _ := time.Parse("2006-01-02", *from)
	toTime, _ := time.Parse("2006-01-02", *to)

	var symbols []string
	if *symbolsFlag != "" {
		symbols = strings.Split(*symbolsFlag, ",")
	}

	return Config{
		Mode:         *mode,
		DataDir:      *dataDir,
		Symbols:      symbols,
		Field:        *field,
		Indicator:    *indicatorName,
		Params:       parseParams(*paramsFlag),
		PercentDiff:  *percentDiff,
		AsRatio:      *asRatio,
		Output:       *output,
		Workers:      *workers,
		Precision:    *precision,
		WallexAPIKey: os.Getenv("WALLEX_API_KEY"),
		DBConnStr:    os.Getenv("DB_CONN_STR"),
		Timeframe:    *timeframe,
		From:         fromTime,
		To:           toTime,
	}
}

// parseParams parses comma-separated name=value pairs into a parameter set.
func parseParams(raw string) map[string]float64 {
	params := make(map[string]float64)
	if raw == "" {
		return params
	}
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			log.Fatalf("Invalid parameter %q: %v", pair, err)
		}
		params[strings.TrimSpace(parts[0])] = v
	}
	return params
}
