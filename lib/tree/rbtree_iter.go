package tree

// RBIterator points at an element of a tree or at its end position.
//
// Iterator invalidation rule is the same as C++ std::map<>'s. Erasing the
// element an iterator points to invalidates that iterator only, every other
// iterator keeps traversing correctly. Copying an iterator is cheap.
type RBIterator[K, V any] struct {
	tree *rbTree[K, V]
	ref  NodeRef
}

func (it RBIterator[K, V]) IsEnd() bool {
	return it.ref == nilRef
}

func (it RBIterator[K, V]) mustDeref() *Node[V] {
	if it.ref == nilRef {
		panic( /* debug assertion */ "[rbtree] dereference the end iterator")
	}
	return it.tree.node(it.ref)
}

func (it RBIterator[K, V]) Value() V {
	return it.mustDeref().val
}

// ValuePtr allows mutating the stored value in place. Changing the part of
// the value the key is extracted from breaks the ordering.
func (it RBIterator[K, V]) ValuePtr() *V {
	return &it.mustDeref().val
}

func (it RBIterator[K, V]) Key() K {
	return it.tree.keyOf(it.mustDeref().val)
}

func (it RBIterator[K, V]) Color() RBColor {
	return it.mustDeref().color
}

// Next moves to the successor. Next of the maximum is End().
func (it RBIterator[K, V]) Next() RBIterator[K, V] {
	if it.ref == nilRef {
		panic( /* debug assertion */ "[rbtree] increment the end iterator")
	}
	return RBIterator[K, V]{tree: it.tree, ref: it.tree.successor(it.ref)}
}

// Prev moves to the predecessor. Prev of End() is the maximum and Prev of
// the minimum is End(), which allows walking backwards until IsEnd.
func (it RBIterator[K, V]) Prev() RBIterator[K, V] {
	return RBIterator[K, V]{tree: it.tree, ref: it.tree.predecessor(it.ref)}
}

func (it RBIterator[K, V]) Equal(other RBIterator[K, V]) bool {
	return it.tree == other.tree && it.ref == other.ref
}
