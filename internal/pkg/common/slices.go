package common

import (
	"fmt"
	"strings"
)

func Map[I, O any](p func(I) O, xs []I) []O {
	result := make([]O, len(xs))
	for i, x := range xs {
		result[i] = p(x)
	}
	return result
}

func MapError[I, O any](p func(I) (O, error), xs []I) ([]O, error) {
	result := make([]O, len(xs))
	for i, x := range xs {
		r, err := p(x)
		if err != nil {
			return nil, err
		}
		result[i] = r
	}
	return result, nil
}

func All[T any](p func(T) bool, xs []T) bool {
	for _, x := range xs {
		if !p(x) {
			return false
		}
	}
	return true
}

func Join[T fmt.Stringer](xs []T, sep string) string {
	return strings.Join(Map(func(x T) string { return x.String() }, xs), sep)
}

// Splice replaces xs[at] with ys without touching xs.
func Splice[T any](xs []T, at int, ys []T) []T {
	result := make([]T, 0, len(xs)-1+len(ys))
	result = append(result, xs[:at]...)
	result = append(result, ys...)
	return append(result, xs[at+1:]...)
}
