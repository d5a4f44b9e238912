// Package indicator provides technical analysis indicators computed from a
// single time-ordered series of price data.
package indicator

import (
	"errors"
	"strings"

	"github.com/amirphl/simple-indicators/internal/series"
)

// ErrInvalidParameter is returned when an indicator is constructed with
// parameters outside its valid range (e.g. a KAMA seed window shorter than
// its efficiency-ratio window).
var ErrInvalidParameter = errors.New("invalid indicator parameter")

// Options controls validation and output post-processing shared by all
// indicators. The zero value validates the input and returns the raw output.
type Options struct {
	// SkipValidate bypasses input validation. Composite indicators set it on
	// their internal sub-computations, which operate on series already known
	// to be sorted and gap-free.
	SkipValidate bool

	// PercentDiff converts the output to (output-input)/input on the aligned
	// index. Takes precedence over AsRatio when both are set.
	PercentDiff bool

	// AsRatio converts the output to output/input on the aligned index.
	AsRatio bool
}

// Result holds one or more named output series plus the label identifying
// the indicator and its parameters.
type Result struct {
	Label  string
	Series []series.Series
}

// Indicator is the interface for all technical indicators.
type Indicator interface {
	Name() string
	Compute(s series.Series, opts Options) (*Result, error)
}

// joinName builds an output series name from the input name and the
// indicator label, skipping empty parts.
func joinName(parts ...string) string {
	nonEmpty := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " - ")
}

// transform applies the requested output transform. Percent-difference wins
// when both are requested.
func transform(input, output series.Series, opts Options) series.Series {
	switch {
	case opts.PercentDiff:
		return series.PercentDiff(input, output)
	case opts.AsRatio:
		return series.Ratio(input, output)
	default:
		return output
	}
}

// computeSingle is the shared pipeline for indicators producing one output
// series: validate, apply, post-process, name.
func computeSingle(label string, s series.Series, opts Options, apply func(series.Series) (series.Series, error)) (*Result, error) {
	if !opts.SkipValidate {
		var err error
		s, err = series.Validate(s)
		if err != nil {
			return nil, err
		}
	}
	out, err := apply(s)
	if err != nil {
		return nil, err
	}
	out = transform(s, out, opts)
	out.Name = joinName(s.Name, label)
	return &Result{Label: label, Series: []series.Series{out}}, nil
}
