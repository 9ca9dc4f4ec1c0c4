package pixels

import "golang.org/x/exp/constraints"

// Min returns the smallest of the provided values.
func Min[T constraints.Ordered](values ...T) T {
	acc := values[0]

	for _, v := range values {
		if v < acc {
			acc = v
		}
	}
	return acc
}

// Max returns the biggest of the provided values.
func Max[T constraints.Ordered](values ...T) T {
	acc := values[0]

	for _, v := range values {
		if v > acc {
			acc = v
		}
	}
	return acc
}

// Clamp limits v to the closed range [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	return Max(lo, Min(hi, v))
}
