package math

import "golang.org/x/exp/constraints"

func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// Lerp moves a toward b by fraction t.
func Lerp[T constraints.Float](a, b, t T) T {
	return a + (b-a)*t
}
