// Package series
package series

import (
	"errors"
	"math"
	"sort"
	"time"
)

var (
	// ErrInvalidIndex is returned when a series carries timestamps that
	// cannot form a chronological index (zero time values).
	ErrInvalidIndex = errors.New("series index must consist of valid timestamps")

	// ErrMissingValues is returned when a series contains NaN or infinite
	// values. Indicators require a gap-free input.
	ErrMissingValues = errors.New("series cannot contain missing values")
)

// Point is a single observation: a timestamp and a price value.
type Point struct {
	Time  time.Time
	Value float64
}

// Series is an ordered, time-indexed sequence of float values. Indicators
// never mutate a series they receive; every operation derives a new one.
type Series struct {
	Name   string
	Points []Point
}

// New builds a series from parallel timestamp/value slices.
func New(name string, times []time.Time, values []float64) Series {
	n := len(times)
	if len(values) < n {
		n = len(values)
	}
	pts := make([]Point, n)
	for i := 0; i < n; i++ {
		pts[i] = Point{Time: times[i], Value: values[i]}
	}
	return Series{Name: name, Points: pts}
}

// Len returns the number of points in the series.
func (s Series) Len() int { return len(s.Points) }

// Values returns a copy of the series values in index order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

// Times returns a copy of the series timestamps in index order.
func (s Series) Times() []time.Time {
	out := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Time
	}
	return out
}

// Clone returns a deep copy of the series.
func (s Series) Clone() Series {
	pts := make([]Point, len(s.Points))
	copy(pts, s.Points)
	return Series{Name: s.Name, Points: pts}
}

// Rename returns a copy of the series with a new name.
func (s Series) Rename(name string) Series {
	out := s.Clone()
	out.Name = name
	return out
}

// Validate checks an input price series and returns a sorted copy of it.
// Timestamps must be real (non-zero) time values; the sort is stable, so
// duplicate timestamps keep their original relative order (deduplication is
// the dataset layer's job, not the validator's). Any NaN or infinite value
// fails the check: indicators require a gap-free series.
func Validate(s Series) (Series, error) {
	for _, p := range s.Points {
		if p.Time.IsZero() {
			return Series{}, ErrInvalidIndex
		}
	}
	out := s.Clone()
	sort.SliceStable(out.Points, func(i, j int) bool {
		return out.Points[i].Time.Before(out.Points[j].Time)
	})
	for _, p := range out.Points {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			return Series{}, ErrMissingValues
		}
	}
	return out, nil
}

// zip joins two sorted series on timestamp and applies f to each aligned
// pair. Points present in only one of the two series are dropped.
func zip(a, b Series, f func(av, bv float64) float64) Series {
	out := Series{Name: a.Name}
	i, j := 0, 0
	for i < len(a.Points) && j < len(b.Points) {
		ta, tb := a.Points[i].Time, b.Points[j].Time
		switch {
		case ta.Before(tb):
			i++
		case tb.Before(ta):
			j++
		default:
			out.Points = append(out.Points, Point{
				Time:  ta,
				Value: f(a.Points[i].Value, b.Points[j].Value),
			})
			i++
			j++
		}
	}
	return out
}

// Sub subtracts b from a on the aligned timestamp index.
func Sub(a, b Series) Series {
	return zip(a, b, func(av, bv float64) float64 { return av - bv })
}

// Add adds two series on the aligned timestamp index.
func Add(a, b Series) Series {
	return zip(a, b, func(av, bv float64) float64 { return av + bv })
}

// Div divides a by b on the aligned timestamp index.
func Div(a, b Series) Series {
	return zip(a, b, func(av, bv float64) float64 { return av / bv })
}

// Scale multiplies every value of s by k.
func Scale(s Series, k float64) Series {
	out := s.Clone()
	for i := range out.Points {
		out.Points[i].Value *= k
	}
	return out
}

// PercentDiff converts an indicator output into its percent difference from
// the input price, (output - input) / input, joined on timestamp. Input
// points absent from the output's index are ignored by the join. Useful for
// feature generation so a learner does not see the raw price level.
func PercentDiff(input, output Series) Series {
	res := zip(output, input, func(out, in float64) float64 { return (out - in) / in })
	res.Name = output.Name
	return res
}

// Ratio converts an indicator output into a ratio of the input price,
// output / input, joined on timestamp.
func Ratio(input, output Series) Series {
	res := zip(output, input, func(out, in float64) float64 { return out / in })
	res.Name = output.Name
	return res
}
