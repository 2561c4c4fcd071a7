package tree

// Identity is the key extractor of set-like trees.
func Identity[K any](val K) K {
	return val
}

type Pair[K, V any] struct {
	Key K
	Val V
}

func NewPair[K, V any](key K, val V) Pair[K, V] {
	return Pair[K, V]{Key: key, Val: val}
}

// PairKey is the key extractor of map-like trees.
func PairKey[K, V any](p Pair[K, V]) K {
	return p.Key
}
