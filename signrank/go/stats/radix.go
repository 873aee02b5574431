package stats

import "math"

// Radixable is the set of fixed width kinds RadixSort supports. The platform
// dependent int is not a member.
type Radixable interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// radixEntry carries a value alongside its sort key. Sorting a copy of the
// values in these entries stands in for reinterpreting the slice in place.
type radixEntry[T Radixable] struct {
	key   uint64
	value T
}

// isFloat reports whether T is a floating point kind.
func isFloat[T Radixable]() bool {
	var one T = 1
	return one/2 != 0
}

// radixKey maps v to an unsigned key whose natural order is the order of |v|.
//
// Integers use their magnitude, computed so the minimum value does not
// overflow. Floats use the IEEE-754 bits of |v|, which sort like the values
// themselves as long as they are not NaN. float32 widens to float64 exactly.
func radixKey[T Radixable](v T, float bool) uint64 {
	if float {
		// Abs keeps the sign of -0, so clear the sign bit as well.
		return math.Float64bits(float64(Abs(v))) &^ (1 << 63)
	}
	if v < 0 {
		return uint64(-(v + 1)) + 1
	}
	return uint64(v)
}

// radixSortAbs sorts deltas ascending by absolute value, one byte of the key
// per pass, least significant byte first. Bytes that are identical across
// every key are skipped.
func radixSortAbs[T Radixable](deltas []T) {
	if len(deltas) < 2 {
		return
	}
	float := isFloat[T]()

	entries := make([]radixEntry[T], len(deltas))
	for i, v := range deltas {
		entries[i] = radixEntry[T]{key: radixKey(v, float), value: v}
	}

	// varying has a bit set wherever at least two keys differ.
	var varying uint64
	for _, e := range entries {
		varying |= e.key ^ entries[0].key
	}

	scratch := make([]radixEntry[T], len(entries))
	for shift := 0; shift < 64; shift += 8 {
		if (varying>>shift)&0xff == 0 {
			continue
		}
		var offsets [256]int
		for _, e := range entries {
			offsets[(e.key>>shift)&0xff]++
		}
		total := 0
		for b, count := range offsets {
			offsets[b] = total
			total += count
		}
		for _, e := range entries {
			b := (e.key >> shift) & 0xff
			scratch[offsets[b]] = e
			offsets[b]++
		}
		entries, scratch = scratch, entries
	}

	for i, e := range entries {
		deltas[i] = e.value
	}
}
