package mathx

import "golang.org/x/exp/constraints"

// Clamp pins v inside the closed range [lo, hi]. Swapped bounds are
// accepted and treated as [hi, lo], so angle ranges can be given in
// either direction.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}

// Between reports whether v already lies inside [lo, hi], with the same
// bound handling as Clamp. Pin and angle range checks use it.
func Between[T constraints.Ordered](v, lo, hi T) bool {
	return Clamp(v, lo, hi) == v
}

// Abs returns the magnitude of v. Angle deltas use it to size sweeps.
func Abs[T constraints.Signed](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

// Min returns the smaller of a and b.
func Min[T constraints.Ordered](a, b T) T {
	if b < a {
		return b
	}
	return a
}

// Max returns the larger of a and b.
func Max[T constraints.Ordered](a, b T) T {
	if b > a {
		return b
	}
	return a
}
