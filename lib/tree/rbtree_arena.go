package tree

import (
	"fmt"
	"math"
)

// NodeRef addresses a node inside its allocator. The zero value is the
// absent marker: a missing child, the parent of the root and the end position.
type NodeRef uint32

const (
	nilRef     NodeRef = 0
	maxNodeRef         = math.MaxInt32 // 2^31 - 1 nodes
)

type Node[V any] struct {
	parent NodeRef
	left   NodeRef
	right  NodeRef
	color  RBColor
	val    V
}

func (node *Node[V]) Color() RBColor { return node.color }
func (node *Node[V]) Value() V       { return node.val }

var _ NodeAllocator[struct{}] = (*Arena[struct{}])(nil)

// Arena is a slab of nodes addressed by index. Slot 0 is reserved so that
// NodeRef(0) never names a real node. Freed slots are reused LIFO.
type Arena[V any] struct {
	storage []Node[V]
	free    []NodeRef
	limit   int
}

// NewArena creates an arena holding at most limit live nodes, limit <= 0
// means bounded only by the NodeRef range.
func NewArena[V any](limit int) *Arena[V] {
	if limit <= 0 || limit > maxNodeRef {
		limit = maxNodeRef
	}
	return &Arena[V]{
		storage: make([]Node[V], 1, 64),
		free:    make([]NodeRef, 0, 16),
		limit:   limit,
	}
}

// Used returns the number of live nodes.
func (arena *Arena[V]) Used() int {
	return len(arena.storage) - 1 - len(arena.free)
}

// Size returns the number of slots ever handed out, live or freed.
func (arena *Arena[V]) Size() int {
	return len(arena.storage) - 1
}

func (arena *Arena[V]) Limit() int {
	return arena.limit
}

func (arena *Arena[V]) AllocateNode() (NodeRef, error) {
	if arena.Used() >= arena.limit {
		return nilRef, fmt.Errorf("arena limit %d reached: %w", arena.limit, ErrRBTreeOutOfMemory)
	}
	if n := len(arena.free); n > 0 {
		ref := arena.free[n-1]
		arena.free = arena.free[:n-1]
		return ref, nil
	}
	arena.storage = append(arena.storage, Node[V]{})
	return NodeRef(len(arena.storage) - 1), nil
}

func (arena *Arena[V]) Construct(ref NodeRef, val V) {
	arena.storage[ref] = Node[V]{
		color: Red,
		val:   val,
	}
}

// Destroy drops the payload so the GC may reclaim whatever it references.
func (arena *Arena[V]) Destroy(ref NodeRef) {
	var zero V
	arena.storage[ref].val = zero
}

func (arena *Arena[V]) DeallocateNode(ref NodeRef) {
	if ref == nilRef {
		panic( /* debug assertion */ "[rbtree] arena slot 0 is reserved")
	}
	arena.storage[ref] = Node[V]{}
	arena.free = append(arena.free, ref)
}

func (arena *Arena[V]) Node(ref NodeRef) *Node[V] {
	return &arena.storage[ref]
}

// Reset forgets every node. Only safe when no tree references the arena anymore.
func (arena *Arena[V]) Reset() {
	clear(arena.storage)
	arena.storage = arena.storage[:1]
	arena.free = arena.free[:0]
}
