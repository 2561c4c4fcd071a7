package tree

import (
	"fmt"

	"go.uber.org/multierr"
)

// rbtree rule validation utilities.

// References:
// https://github1s.com/minghu6/rust-minghu6/blob/master/coll_st/src/bst/rb.rs

func asImpl[K, V any](tree RBTree[K, V]) (*rbTree[K, V], error) {
	impl, ok := tree.(*rbTree[K, V])
	if !ok || impl == nil {
		return nil, ErrRBTreeUnknownImpl
	}
	return impl, nil
}

// RedViolationValidate checks that the root is black and no red node has a
// red child, walking in order by successor steps.
func RedViolationValidate[K, V any](tree RBTree[K, V]) error {
	impl, err := asImpl(tree)
	if err != nil {
		return err
	}
	if impl.header.root == nilRef {
		return nil
	}
	if impl.isRed(impl.header.root) {
		return ErrRBTreeRootViolation
	}
	for ref := impl.header.leftmost; ref != nilRef; ref = impl.successor(ref) {
		n := impl.node(ref)
		if n.color == Red && (impl.isRed(n.left) || impl.isRed(n.right)) {
			return fmt.Errorf("node %d: %w", ref, ErrRBTreeRedViolation)
		}
	}
	return nil
}

func blackDepthTo[K, V any](impl *rbTree[K, V], ref NodeRef) int {
	depth := 0
	for aux := ref; aux != nilRef; aux = impl.node(aux).parent {
		if impl.isBlack(aux) {
			depth++
		}
	}
	return depth
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            [16]

Each node missing a child sits right above a NIL leaf, so comparing their
black depth to the root covers every root-to-NIL path.
*/
func BlackViolationValidate[K, V any](tree RBTree[K, V]) error {
	impl, err := asImpl(tree)
	if err != nil {
		return err
	}
	expected := -1
	for ref := impl.header.leftmost; ref != nilRef; ref = impl.successor(ref) {
		n := impl.node(ref)
		if n.left != nilRef && n.right != nilRef {
			continue
		}
		depth := blackDepthTo(impl, ref)
		if expected < 0 {
			expected = depth
		} else if depth != expected {
			return fmt.Errorf("node %d black depth %d, expected %d: %w", ref, depth, expected, ErrRBTreeBlackViolation)
		}
	}
	return nil
}

// OrderViolationValidate checks that the in-order sequence never decreases
// and that every child points back to its parent.
func OrderViolationValidate[K, V any](tree RBTree[K, V]) error {
	impl, err := asImpl(tree)
	if err != nil {
		return err
	}
	if impl.header.root != nilRef && impl.node(impl.header.root).parent != nilRef {
		return fmt.Errorf("root %d: %w", impl.header.root, ErrRBTreeLinkCorrupt)
	}
	prev := nilRef
	for ref := impl.header.leftmost; ref != nilRef; ref = impl.successor(ref) {
		n := impl.node(ref)
		if n.left != nilRef && impl.node(n.left).parent != ref ||
			n.right != nilRef && impl.node(n.right).parent != ref {
			return fmt.Errorf("node %d: %w", ref, ErrRBTreeLinkCorrupt)
		}
		if prev != nilRef && impl.less(impl.key(ref), impl.key(prev)) {
			return fmt.Errorf("node %d after node %d: %w", ref, prev, ErrRBTreeOrderViolation)
		}
		prev = ref
	}
	return nil
}

// HeaderViolationValidate checks the cached minimum and maximum.
func HeaderViolationValidate[K, V any](tree RBTree[K, V]) error {
	impl, err := asImpl(tree)
	if err != nil {
		return err
	}
	h := impl.header
	if h.root == nilRef {
		if h.leftmost != nilRef || h.rightmost != nilRef {
			return ErrRBTreeHeaderCorrupt
		}
		return nil
	}
	if h.leftmost != impl.minimum(h.root) || h.rightmost != impl.maximum(h.root) {
		return ErrRBTreeHeaderCorrupt
	}
	return nil
}

// SizeViolationValidate compares Len with the number of nodes reached by a
// full in-order traversal.
func SizeViolationValidate[K, V any](tree RBTree[K, V]) error {
	impl, err := asImpl(tree)
	if err != nil {
		return err
	}
	visited := int64(0)
	for ref := impl.header.leftmost; ref != nilRef; ref = impl.successor(ref) {
		visited++
	}
	if visited != impl.count {
		return fmt.Errorf("visited %d, len %d: %w", visited, impl.count, ErrRBTreeSizeMismatch)
	}
	return nil
}

// Validate runs every validation and reports all failures together.
func Validate[K, V any](tree RBTree[K, V]) error {
	if _, err := asImpl(tree); err != nil {
		return err
	}
	return multierr.Combine(
		RedViolationValidate(tree),
		BlackViolationValidate(tree),
		OrderViolationValidate(tree),
		HeaderViolationValidate(tree),
		SizeViolationValidate(tree),
	)
}
