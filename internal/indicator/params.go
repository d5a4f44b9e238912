package indicator

import "fmt"

// TypicalWindows is the usual parameter sweep for window-based indicators:
// {2..10} plus {20,40,60,80} plus {100,200,...,1000}.
func TypicalWindows() []int {
	var out []int
	for n := 2; n <= 10; n++ {
		out = append(out, n)
	}
	for n := 20; n <= 80; n += 20 {
		out = append(out, n)
	}
	for n := 100; n <= 1000; n += 100 {
		out = append(out, n)
	}
	return out
}

// TypicalAlphas is the usual parameter sweep for the EMA family:
// {0.05, 0.10, ..., 0.95}.
func TypicalAlphas() []float64 {
	var out []float64
	for i := 1; i <= 19; i++ {
		out = append(out, float64(i)*0.05)
	}
	return out
}

// resolveAlpha centralizes the alpha/span dispatch shared by the EMA family.
// Exactly one of alpha (0 < alpha <= 1) or span (>= 1) may be given; when
// neither is, span defaults to the series length n. The returned smoothing
// constant is alpha, or 2/(span+1) for a span parameterization.
func resolveAlpha(alpha, span float64, n int) (float64, error) {
	switch {
	case alpha != 0 && span != 0:
		return 0, fmt.Errorf("%w: alpha and span are mutually exclusive", ErrInvalidParameter)
	case alpha != 0:
		if alpha < 0 || alpha > 1 {
			return 0, fmt.Errorf("%w: alpha must be in (0, 1], got %v", ErrInvalidParameter, alpha)
		}
		return alpha, nil
	case span != 0:
		if span < 1 {
			return 0, fmt.Errorf("%w: span must be at least 1, got %v", ErrInvalidParameter, span)
		}
		return 2 / (span + 1), nil
	default:
		if n < 1 {
			return 0, fmt.Errorf("%w: cannot default span on an empty series", ErrInvalidParameter)
		}
		return 2 / (float64(n) + 1), nil
	}
}

// ewmLabel renders the label for an EMA-family indicator, naming whichever
// of alpha/span was given (or the defaulted span).
func ewmLabel(name string, alpha, span float64, n int) string {
	switch {
	case alpha != 0:
		return fmt.Sprintf("%s (alpha=%v)", name, alpha)
	case span != 0:
		return fmt.Sprintf("%s (span=%v)", name, span)
	default:
		return fmt.Sprintf("%s (span=%d)", name, n)
	}
}
