// internal/sliceutil.go
//
// Generic slice helpers shared by the statement scanner and the CLI.
//
//   • Pure – no side effects.
//   • Safe – never modify the input slice in-place.
//   • Generic – work with any comparable / ordered type.
// ----------------------------------------------------------------------------

package internal

import "golang.org/x/exp/constraints"

// ---------------------------------------------------------------------
// Basic predicates / membership
// ---------------------------------------------------------------------

// Contains reports whether v is in xs (O(n)).
func Contains[T comparable](xs []T, v T) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

// Any returns true if at least one element satisfies pred.
func Any[T any](xs []T, pred func(T) bool) bool {
	for _, x := range xs {
		if pred(x) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------
// Transformations
// ---------------------------------------------------------------------

// Map applies f to each element and returns a new slice.
func Map[A any, B any](xs []A, f func(A) B) []B {
	out := make([]B, len(xs))
	for i, x := range xs {
		out[i] = f(x)
	}
	return out
}

// Filter keeps values where pred(x) == true.
func Filter[T any](xs []T, pred func(T) bool) []T {
	out := make([]T, 0, len(xs))
	for _, x := range xs {
		if pred(x) {
			out = append(out, x)
		}
	}
	return out
}

// Unique dedups while preserving first-seen order.
func Unique[T comparable](xs []T) []T {
	seen := make(map[T]struct{}, len(xs))
	out := make([]T, 0, len(xs))
	for _, x := range xs {
		if _, ok := seen[x]; !ok {
			seen[x] = struct{}{}
			out = append(out, x)
		}
	}
	return out
}

// ---------------------------------------------------------------------
// Ordered helpers (ints, floats, strings, …)
// ---------------------------------------------------------------------

// Max returns the largest element. Panics on empty slice.
func Max[T constraints.Ordered](xs []T) T {
	if len(xs) == 0 {
		panic("sliceutil.Max: empty slice")
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}
