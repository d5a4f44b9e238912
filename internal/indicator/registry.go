package indicator

import (
	"fmt"
	"strings"
)

// Params is a named numeric parameter set, the currency of the registry and
// of parameter sweeps.
type Params map[string]float64

func (p Params) get(key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// Entry describes one registered indicator: how to build an instance from a
// parameter set, and the typical grid external tooling sweeps over.
type Entry struct {
	Name  string
	Build func(Params) Indicator
	Grid  []Params
}

func windowGrid() []Params {
	var grid []Params
	for _, n := range TypicalWindows() {
		grid = append(grid, Params{"n": float64(n)})
	}
	return grid
}

func alphaGrid() []Params {
	var grid []Params
	for _, a := range TypicalAlphas() {
		grid = append(grid, Params{"alpha": a})
	}
	return grid
}

// Registry lists every indicator with its typical parameter space.
func Registry() []Entry {
	return []Entry{
		{
			Name:  "SMA",
			Build: func(p Params) Indicator { return SMA{N: int(p.get("n", 5))} },
			Grid:  windowGrid(),
		},
		{
			Name:  "EMA",
			Build: func(p Params) Indicator { return EMA{Alpha: p.get("alpha", 0), Span: p.get("span", 0)} },
			Grid:  alphaGrid(),
		},
		{
			Name:  "WMA",
			Build: func(p Params) Indicator { return WMA{N: int(p.get("n", 5))} },
			Grid:  windowGrid(),
		},
		{
			Name:  "DEMA",
			Build: func(p Params) Indicator { return DEMA{Alpha: p.get("alpha", 0), Span: p.get("span", 0)} },
			Grid:  alphaGrid(),
		},
		{
			Name:  "TEMA",
			Build: func(p Params) Indicator { return TEMA{Alpha: p.get("alpha", 0), Span: p.get("span", 0)} },
			Grid:  alphaGrid(),
		},
		{
			Name:  "TRIMA",
			Build: func(p Params) Indicator { return TRIMA{N: int(p.get("n", 5))} },
			Grid:  windowGrid(),
		},
		{
			Name:  "KER",
			Build: func(p Params) Indicator { return KER{N: int(p.get("n", 5))} },
			Grid:  windowGrid(),
		},
		{
			Name: "KAMA",
			Build: func(p Params) Indicator {
				d := NewKAMA()
				return KAMA{
					ER:      int(p.get("er", float64(d.ER))),
					EMAFast: int(p.get("ema_fast", float64(d.EMAFast))),
					EMASlow: int(p.get("ema_slow", float64(d.EMASlow))),
					N:       int(p.get("n", float64(d.N))),
				}
			},
			Grid: []Params{{"er": 10, "ema_fast": 2, "ema_slow": 30, "n": 20}},
		},
		{
			Name: "MACD",
			Build: func(p Params) Indicator {
				d := NewMACD()
				return MACD{
					PFast:  int(p.get("p_fast", float64(d.PFast))),
					PSlow:  int(p.get("p_slow", float64(d.PSlow))),
					Signal: int(p.get("signal", float64(d.Signal))),
				}
			},
			Grid: []Params{{"p_fast": 12, "p_slow": 26, "signal": 9}},
		},
		{
			Name:  "RSI",
			Build: func(p Params) Indicator { return RSI{N: int(p.get("n", 14))} },
			Grid:  windowGrid(),
		},
	}
}

// Lookup finds a registry entry by name, case-insensitively.
func Lookup(name string) (Entry, error) {
	for _, e := range Registry() {
		if strings.EqualFold(e.Name, name) {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("unknown indicator: %s", name)
}
