package tree

import "errors"

type RBColor uint8

const (
	Black RBColor = iota
	Red
)

func (c RBColor) String() string {
	switch c {
	case Black:
		return "Black"
	case Red:
		return "Red"
	default:
	}
	return "RBColor(unknown)"
}

var (
	ErrRBTreeOutOfMemory    = errors.New("[rbtree] node allocator out of memory")
	ErrRBTreeRedViolation   = errors.New("[rbtree] red violation")
	ErrRBTreeBlackViolation = errors.New("[rbtree] black violation")
	ErrRBTreeOrderViolation = errors.New("[rbtree] in-order sequence is decreasing")
	ErrRBTreeRootViolation  = errors.New("[rbtree] root is not black")
	ErrRBTreeHeaderCorrupt  = errors.New("[rbtree] header leftmost or rightmost is stale")
	ErrRBTreeSizeMismatch   = errors.New("[rbtree] node count mismatch")
	ErrRBTreeLinkCorrupt    = errors.New("[rbtree] parent link mismatch")
	ErrRBTreeUnknownImpl    = errors.New("[rbtree] unknown tree implementation")
)

// NodeAllocator provides storage for tree nodes. Node references stay stable
// until the node is deallocated, the returned *Node is only valid until the
// next AllocateNode call.
type NodeAllocator[V any] interface {
	// AllocateNode returns ErrRBTreeOutOfMemory (possibly wrapped) on exhaustion.
	AllocateNode() (NodeRef, error)
	Construct(ref NodeRef, val V)
	Destroy(ref NodeRef)
	DeallocateNode(ref NodeRef)
	Node(ref NodeRef) *Node[V]
}

// KeyExtractor maps a stored value to its ordering key.
type KeyExtractor[K, V any] func(val V) K

type RBTree[K, V any] interface {
	Len() int64
	IsEmpty() bool
	Begin() RBIterator[K, V]
	End() RBIterator[K, V]
	// InsertUnique rejects values whose key is equivalent to an existing one,
	// returning the iterator to the existing element and false.
	InsertUnique(val V) (RBIterator[K, V], bool, error)
	// InsertEqual places equivalent keys after all existing equivalent keys.
	InsertEqual(val V) (RBIterator[K, V], error)
	InsertUniqueHint(hint RBIterator[K, V], val V) (RBIterator[K, V], bool, error)
	InsertEqualHint(hint RBIterator[K, V], val V) (RBIterator[K, V], error)
	// Erase removes the element at it and returns the iterator to its successor.
	Erase(it RBIterator[K, V]) RBIterator[K, V]
	EraseRange(first, last RBIterator[K, V]) RBIterator[K, V]
	EraseKey(key K) int64
	Find(key K) RBIterator[K, V]
	Contains(key K) bool
	Count(key K) int64
	LowerBound(key K) RBIterator[K, V]
	UpperBound(key K) RBIterator[K, V]
	EqualRange(key K) (RBIterator[K, V], RBIterator[K, V])
	Foreach(action func(idx int64, color RBColor, val V) bool)
	Clear()
}
