package samplestats

import (
	"cmp"
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Order compares two rows, returning a negative number when a sorts before b.
type Order func(a, b Row) int

// ByName orders rows by trace name.
func ByName(a, b Row) int {
	return strings.Compare(a.Name, b.Name)
}

// ByDelta orders rows by Delta, with rows that have no Delta last, then by
// name.
func ByDelta(a, b Row) int {
	aNaN, bNaN := math.IsNaN(a.Delta), math.IsNaN(b.Delta)
	switch {
	case aNaN && !bNaN:
		return 1
	case !aNaN && bNaN:
		return -1
	case !aNaN && !bNaN:
		if c := cmp.Compare(a.Delta, b.Delta); c != 0 {
			return c
		}
	}
	return ByName(a, b)
}

// ByP orders rows by p-value, then by name.
func ByP(a, b Row) int {
	if c := cmp.Compare(a.P, b.P); c != 0 {
		return c
	}
	return ByName(a, b)
}

// Reverse reverses the given Order.
func Reverse(order Order) Order {
	return func(a, b Row) int {
		return order(b, a)
	}
}

var orderNames = map[string]Order{
	"name":  ByName,
	"delta": ByDelta,
	"p":     ByP,
}

// OrderByName parses names of the form "[-]name", "[-]delta" or "[-]p". A
// leading "-" reverses the order. The empty string means "name".
func OrderByName(name string) (Order, error) {
	if name == "" {
		return ByName, nil
	}
	reverse := strings.HasPrefix(name, "-")
	order, ok := orderNames[strings.TrimPrefix(name, "-")]
	if !ok {
		return nil, errors.Errorf("unknown sort order %q, want [-]name, [-]delta or [-]p", name)
	}
	if reverse {
		order = Reverse(order)
	}
	return order, nil
}
