package stats

import (
	"slices"

	"github.com/pkg/errors"
)

// Names accepted by SortStrategyByName.
const (
	DefaultSortName = "default"
	RadixSortName   = "radix"
)

// SortStrategy reorders a slice of differences in place so that it is
// ascending by absolute value. Stability is not required, ties are resolved
// explicitly by TieResolver afterwards.
type SortStrategy[T Number] interface {
	Sort(deltas []T)
}

// SortFunc adapts an ordinary function to the SortStrategy interface.
type SortFunc[T Number] func(deltas []T)

// Sort implements SortStrategy.
func (f SortFunc[T]) Sort(deltas []T) {
	f(deltas)
}

// DefaultSort returns an unstable comparison sort keyed on CompareAbs. It
// works for every Number kind.
func DefaultSort[T Number]() SortStrategy[T] {
	return SortFunc[T](func(deltas []T) {
		slices.SortFunc(deltas, CompareAbs[T])
	})
}

// RadixSort returns a linear time LSD radix sort keyed on the absolute value.
// It is only available for the fixed width kinds in Radixable.
func RadixSort[T Radixable]() SortStrategy[T] {
	return SortFunc[T](radixSortAbs[T])
}

// SortStrategyByName resolves one of DefaultSortName or RadixSortName. The
// empty string selects the default strategy.
func SortStrategyByName[T Radixable](name string) (SortStrategy[T], error) {
	switch name {
	case "", DefaultSortName:
		return DefaultSort[T](), nil
	case RadixSortName:
		return RadixSort[T](), nil
	}
	return nil, errors.Errorf("unknown sort strategy %q, want one of %q or %q", name, DefaultSortName, RadixSortName)
}
