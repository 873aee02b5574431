package stats

import "iter"

// TieResolver assigns fractional ranks to a slice that is already sorted
// ascending by absolute value.
//
// Members of a tie group, a maximal run of equal absolute values occupying
// the 1-indexed positions [p, p+t-1], all receive the rank p + (t-1)/2. Each
// group adds t^3 - t to the tie correction, so groups of one add nothing.
//
// A TieResolver is a single pass iterator: once exhausted it yields nothing
// more, and TieCorrection is only complete after exhaustion.
type TieResolver[T Number] struct {
	sorted []T

	// pos is the 0-indexed position of the next value to yield.
	pos int

	// groupEnd is the exclusive end of the tie group containing pos.
	groupEnd int

	// groupRank is the rank shared by every member of the current group.
	groupRank float64

	tieCorrection float64
}

// NewTieResolver returns a TieResolver over sorted, which must be ordered
// ascending by absolute value, e.g. by a SortStrategy.
func NewTieResolver[T Number](sorted []T) *TieResolver[T] {
	return &TieResolver[T]{
		sorted: sorted,
	}
}

// Next returns the rank and value of the next difference. ok is false once
// every difference has been returned.
func (r *TieResolver[T]) Next() (rank float64, delta T, ok bool) {
	if r.pos >= len(r.sorted) {
		return 0, delta, false
	}
	if r.pos == r.groupEnd {
		r.openGroup()
	}
	delta = r.sorted[r.pos]
	r.pos++
	return r.groupRank, delta, true
}

// openGroup finds the extent of the tie group starting at r.pos, computes its
// shared rank and accumulates its tie correction.
func (r *TieResolver[T]) openGroup() {
	end := r.pos + 1
	for end < len(r.sorted) && CompareAbs(r.sorted[end], r.sorted[r.pos]) == 0 {
		end++
	}
	// The group spans 1-indexed positions r.pos+1 through end.
	first, last := float64(r.pos+1), float64(end)
	r.groupRank = (first + last) / 2

	t := float64(end - r.pos)
	r.tieCorrection += t*t*t - t
	r.groupEnd = end
}

// All returns an iterator over the remaining (rank, delta) pairs. It shares
// state with Next, so ranging over it consumes the resolver.
func (r *TieResolver[T]) All() iter.Seq2[float64, T] {
	return func(yield func(float64, T) bool) {
		for {
			rank, delta, ok := r.Next()
			if !ok || !yield(rank, delta) {
				return
			}
		}
	}
}

// TieCorrection returns the sum of t^3 - t over every tie group seen so far.
// It is zero when all absolute values are distinct.
func (r *TieResolver[T]) TieCorrection() float64 {
	return r.tieCorrection
}
