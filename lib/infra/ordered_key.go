package infra

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer is a constraint that permits any integer type.
type Integer interface {
	Signed | Unsigned
}

// Float is a constraint that permits any floating-point type.
type Float interface {
	~float32 | ~float64
}

// OrderedKey
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// OrderedKeyComparator
// Assume i is the new key.
//  1. i == j (i-j == 0, return 0)
//  2. i > j (i-j > 0, return 1), turn to right part.
//  3. i < j (i-j < 0, return -1), turn to left part.
type OrderedKeyComparator[K any] func(i, j K) int64

// LessFunc is a strict weak order over K.
// Two keys are equivalent iff !less(a, b) && !less(b, a).
type LessFunc[K any] func(a, b K) bool

func OrderedLess[K OrderedKey](a, b K) bool {
	return a < b
}

func OrderedCompare[K OrderedKey](i, j K) int64 {
	if i == j {
		return 0
	} else if i < j {
		return -1
	}
	return 1
}

// ComparatorToLess adapts a three-way comparator into a strict weak order.
func ComparatorToLess[K any](cmp OrderedKeyComparator[K]) LessFunc[K] {
	if cmp == nil {
		return nil
	}
	return func(a, b K) bool {
		return cmp(a, b) < 0
	}
}

// ReverseLess flips the order, keeping the equivalence classes.
func ReverseLess[K any](less LessFunc[K]) LessFunc[K] {
	if less == nil {
		return nil
	}
	return func(a, b K) bool {
		return less(b, a)
	}
}

// Equivalent reports whether a and b belong to the same equivalence class of less.
func Equivalent[K any](less LessFunc[K], a, b K) bool {
	return !less(a, b) && !less(b, a)
}
