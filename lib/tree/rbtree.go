package tree

import (
	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/infra"
)

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// https://gcc.gnu.org/onlinedocs/libstdc++/libstdc++-html-USERS-4.4/a01067.html (stl_tree.cc)
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// (Conclusion) If a node X has exactly one child, it must be a red child,
//   because if it were black, its NIL descendants would sit at a different
//   black depth than X's NIL child, violating p4.

// rbHeader replaces the classic header node. An empty tree has all three
// fields set to nilRef.
type rbHeader struct {
	root      NodeRef
	leftmost  NodeRef
	rightmost NodeRef
}

type insertPos struct {
	parent NodeRef
	left   bool
}

var _ RBTree[int, int] = (*rbTree[int, int])(nil)

type rbTree[K, V any] struct {
	alloc      NodeAllocator[V]
	keyOf      KeyExtractor[K, V]
	less       infra.LessFunc[K]
	logger     *zap.Logger
	stats      *rbTreeStats
	header     rbHeader
	count      int64
	arenaLimit int
	statsName  string
	isDesc     bool
	isStats    bool
}

func (tree *rbTree[K, V]) node(ref NodeRef) *Node[V] {
	return tree.alloc.Node(ref)
}

func (tree *rbTree[K, V]) key(ref NodeRef) K {
	return tree.keyOf(tree.alloc.Node(ref).val)
}

func (tree *rbTree[K, V]) isBlack(ref NodeRef) bool {
	return ref == nilRef || tree.node(ref).color == Black
}

func (tree *rbTree[K, V]) isRed(ref NodeRef) bool {
	return !tree.isBlack(ref)
}

func (tree *rbTree[K, V]) minimum(ref NodeRef) NodeRef {
	for l := tree.node(ref).left; l != nilRef; l = tree.node(ref).left {
		ref = l
	}
	return ref
}

func (tree *rbTree[K, V]) maximum(ref NodeRef) NodeRef {
	for r := tree.node(ref).right; r != nilRef; r = tree.node(ref).right {
		ref = r
	}
	return ref
}

func (tree *rbTree[K, V]) Len() int64 {
	return tree.count
}

func (tree *rbTree[K, V]) IsEmpty() bool {
	return tree.count == 0
}

func (tree *rbTree[K, V]) Begin() RBIterator[K, V] {
	return RBIterator[K, V]{tree: tree, ref: tree.header.leftmost}
}

func (tree *rbTree[K, V]) End() RBIterator[K, V] {
	return RBIterator[K, V]{tree: tree, ref: nilRef}
}

func (tree *rbTree[K, V]) iter(ref NodeRef) RBIterator[K, V] {
	return RBIterator[K, V]{tree: tree, ref: ref}
}

func (tree *rbTree[K, V]) mustOwn(it RBIterator[K, V]) {
	if it.tree != tree {
		panic( /* debug assertion */ "[rbtree] iterator belongs to another tree")
	}
}

// replaceChild points old's parent (or the root slot) at newRef.
func (tree *rbTree[K, V]) replaceChild(parent, old, newRef NodeRef) {
	if parent == nilRef {
		tree.header.root = newRef
		return
	}
	pn := tree.node(parent)
	if pn.left == old {
		pn.left = newRef
	} else {
		pn.right = newRef
	}
}

/*
		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (tree *rbTree[K, V]) leftRotate(x NodeRef) {
	xn := tree.node(x)
	y := xn.right
	if y == nilRef {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] left rotate node x.right is nil")
	}

	yn := tree.node(y)
	xn.right = yn.left
	if yn.left != nilRef {
		tree.node(yn.left).parent = x
	}
	yn.parent = xn.parent
	tree.replaceChild(xn.parent, x, y)
	yn.left = x
	xn.parent = y
	tree.stats.RecordRotation(true)
}

/*
			 |                         |
			 X                         S
			/ \     rightRotate(S)    / \
	       L   S    <============    X   R
			  / \                   / \
			Sc   Sd               Sc   Sd
*/
func (tree *rbTree[K, V]) rightRotate(x NodeRef) {
	xn := tree.node(x)
	y := xn.left
	if y == nilRef {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] right rotate node x.left is nil")
	}

	yn := tree.node(y)
	xn.left = yn.right
	if yn.right != nilRef {
		tree.node(yn.right).parent = x
	}
	yn.parent = xn.parent
	tree.replaceChild(xn.parent, x, y)
	yn.right = x
	xn.parent = y
	tree.stats.RecordRotation(false)
}

// uniquePos descends from the root. The last branch taken tells whether the
// neighbour to check for an equivalent key is the parent or its predecessor.
func (tree *rbTree[K, V]) uniquePos(key K) (insertPos, NodeRef, bool) {
	x, y := tree.header.root, nilRef
	goLeft := true
	for x != nilRef {
		y = x
		goLeft = tree.less(key, tree.key(x))
		if goLeft {
			x = tree.node(x).left
		} else {
			x = tree.node(x).right
		}
	}

	j := y
	if goLeft {
		if j == tree.header.leftmost {
			return insertPos{parent: y, left: true}, nilRef, true
		}
		j = tree.predecessor(j)
	}
	if tree.less(tree.key(j), key) {
		return insertPos{parent: y, left: goLeft}, nilRef, true
	}
	return insertPos{}, j, false
}

// equalPos never rejects. Equivalent keys route right so that a new value
// lands after every equivalent value met during the descent.
func (tree *rbTree[K, V]) equalPos(key K) insertPos {
	x, y := tree.header.root, nilRef
	goLeft := true
	for x != nilRef {
		y = x
		goLeft = tree.less(key, tree.key(x))
		if goLeft {
			x = tree.node(x).left
		} else {
			x = tree.node(x).right
		}
	}
	return insertPos{parent: y, left: goLeft}
}

func (tree *rbTree[K, V]) hintUniquePos(hint NodeRef, key K) (insertPos, NodeRef, bool) {
	if hint == nilRef {
		if tree.count > 0 && tree.less(tree.key(tree.header.rightmost), key) {
			return insertPos{parent: tree.header.rightmost}, nilRef, true
		}
		return tree.uniquePos(key)
	}

	if tree.less(key, tree.key(hint)) {
		if hint == tree.header.leftmost {
			return insertPos{parent: hint, left: true}, nilRef, true
		}
		before := tree.predecessor(hint)
		if tree.less(tree.key(before), key) {
			if tree.node(before).right == nilRef {
				return insertPos{parent: before}, nilRef, true
			}
			return insertPos{parent: hint, left: true}, nilRef, true
		}
		return tree.uniquePos(key)
	}

	if tree.less(tree.key(hint), key) {
		if hint == tree.header.rightmost {
			return insertPos{parent: hint}, nilRef, true
		}
		after := tree.successor(hint)
		if tree.less(key, tree.key(after)) {
			if tree.node(hint).right == nilRef {
				return insertPos{parent: hint}, nilRef, true
			}
			return insertPos{parent: after, left: true}, nilRef, true
		}
		return tree.uniquePos(key)
	}
	// Equivalent to the hint.
	return insertPos{}, hint, false
}

func (tree *rbTree[K, V]) hintEqualPos(hint NodeRef, key K) insertPos {
	if hint == nilRef {
		if tree.count > 0 && !tree.less(key, tree.key(tree.header.rightmost)) {
			return insertPos{parent: tree.header.rightmost}
		}
		return tree.equalPos(key)
	}

	if /* key <= hint */ !tree.less(tree.key(hint), key) {
		if hint == tree.header.leftmost {
			return insertPos{parent: hint, left: true}
		}
		before := tree.predecessor(hint)
		if /* before <= key */ !tree.less(key, tree.key(before)) {
			if tree.node(before).right == nilRef {
				return insertPos{parent: before}
			}
			return insertPos{parent: hint, left: true}
		}
		return tree.equalPos(key)
	}

	if hint == tree.header.rightmost {
		return insertPos{parent: hint}
	}
	after := tree.successor(hint)
	if /* key <= after */ !tree.less(tree.key(after), key) {
		if tree.node(hint).right == nilRef {
			return insertPos{parent: hint}
		}
		return insertPos{parent: after, left: true}
	}
	return tree.equalPos(key)
}

// insertAt allocates before touching any link, so a failed allocation
// leaves the tree exactly as it was.
func (tree *rbTree[K, V]) insertAt(pos insertPos, val V) (NodeRef, error) {
	z, err := tree.alloc.AllocateNode()
	if err != nil {
		tree.stats.RecordAllocFailure()
		tree.logger.Warn("[rbtree] node allocation failed",
			zap.Int64("len", tree.count),
			zap.Error(err),
		)
		return nilRef, err
	}
	tree.alloc.Construct(z, val)

	zn := tree.node(z)
	zn.parent, zn.left, zn.right, zn.color = pos.parent, nilRef, nilRef, Red
	if pos.parent == nilRef {
		tree.header = rbHeader{root: z, leftmost: z, rightmost: z}
	} else if pos.left {
		tree.node(pos.parent).left = z
		if pos.parent == tree.header.leftmost {
			tree.header.leftmost = z
		}
	} else {
		tree.node(pos.parent).right = z
		if pos.parent == tree.header.rightmost {
			tree.header.rightmost = z
		}
	}

	tree.insertRebalance(z)
	tree.count++
	tree.stats.RecordInsert()
	return z, nil
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

im1: Current node X's parent P is black or X is root, nothing to fix except
the root color.

im2: If both the parent P and the uncle U are red, grandpa G is black.
(red-violation)
After repainted G into red may be still red-violation.
Loop to fix grandpa.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im3: The parent P is red but the uncle U is black. (red-violation)
X is opposite direction to P (inner). Rotate P to opposite direction.
Here must enter im4 to fix.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im4: X is the same direction as parent (outer). Repaint then rotate G.

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]
*/
func (tree *rbTree[K, V]) insertRebalance(x NodeRef) {
	done := false
	for !done && /* im1 */ x != tree.header.root && tree.isRed(tree.node(x).parent) {
		p := tree.node(x).parent
		g := tree.node(p).parent
		if p == tree.node(g).left {
			u := tree.node(g).right
			if /* im2 */ tree.isRed(u) {
				tree.node(p).color = Black
				tree.node(u).color = Black
				tree.node(g).color = Red
				x = g
				continue
			}
			if /* im3 */ x == tree.node(p).right {
				x = p
				tree.leftRotate(x)
				p = tree.node(x).parent
			}
			/* im4 */
			tree.node(p).color = Black
			tree.node(g).color = Red
			tree.rightRotate(g)
			done = true
		} else {
			u := tree.node(g).left
			if /* im2 */ tree.isRed(u) {
				tree.node(p).color = Black
				tree.node(u).color = Black
				tree.node(g).color = Red
				x = g
				continue
			}
			if /* im3 */ x == tree.node(p).left {
				x = p
				tree.rightRotate(x)
				p = tree.node(x).parent
			}
			/* im4 */
			tree.node(p).color = Black
			tree.node(g).color = Red
			tree.leftRotate(g)
			done = true
		}
	}
	tree.node(tree.header.root).color = Black
}

func (tree *rbTree[K, V]) InsertUnique(val V) (RBIterator[K, V], bool, error) {
	pos, existing, ok := tree.uniquePos(tree.keyOf(val))
	if !ok {
		tree.stats.RecordDuplicate()
		return tree.iter(existing), false, nil
	}
	z, err := tree.insertAt(pos, val)
	if err != nil {
		return tree.End(), false, err
	}
	return tree.iter(z), true, nil
}

func (tree *rbTree[K, V]) InsertEqual(val V) (RBIterator[K, V], error) {
	z, err := tree.insertAt(tree.equalPos(tree.keyOf(val)), val)
	if err != nil {
		return tree.End(), err
	}
	return tree.iter(z), nil
}

// InsertUniqueHint behaves like InsertUnique. It is amortized O(1) when the
// value belongs right before or right after hint.
func (tree *rbTree[K, V]) InsertUniqueHint(hint RBIterator[K, V], val V) (RBIterator[K, V], bool, error) {
	tree.mustOwn(hint)
	pos, existing, ok := tree.hintUniquePos(hint.ref, tree.keyOf(val))
	if !ok {
		tree.stats.RecordDuplicate()
		return tree.iter(existing), false, nil
	}
	z, err := tree.insertAt(pos, val)
	if err != nil {
		return tree.End(), false, err
	}
	return tree.iter(z), true, nil
}

// InsertEqualHint places the value as close as possible before hint.
func (tree *rbTree[K, V]) InsertEqualHint(hint RBIterator[K, V], val V) (RBIterator[K, V], error) {
	tree.mustOwn(hint)
	z, err := tree.insertAt(tree.hintEqualPos(hint.ref, tree.keyOf(val)), val)
	if err != nil {
		return tree.End(), err
	}
	return tree.iter(z), nil
}

/*
Z is the node to erase. If Z has two children, its successor Y (the minimum of
Z's right subtree, without left child) is relinked into Z's position and takes
Z's color, so the node leaving the tree is always Z. X is the child taking the
spliced position, X may be NIL so its parent is tracked as xParent.

Find succ:

	  |                    |
	  Z                    Y
	 / \                  / \
	L  ..   relink(Y)    L  ..
		|   =========>       |
		P                    P
	   / \                  / \
	  Y  ..                X  ..
	   \
	    X
*/
func (tree *rbTree[K, V]) eraseNode(z NodeRef) {
	zn := tree.node(z)
	y, x, xParent := z, nilRef, nilRef
	if zn.left == nilRef {
		x = zn.right
	} else if zn.right == nilRef {
		x = zn.left
	} else {
		y = tree.minimum(zn.right)
		x = tree.node(y).right
	}

	var removed RBColor
	if y != z {
		yn := tree.node(y)
		tree.node(zn.left).parent = y
		yn.left = zn.left
		if y != zn.right {
			xParent = yn.parent
			if x != nilRef {
				tree.node(x).parent = yn.parent
			}
			tree.node(yn.parent).left = x
			yn.right = zn.right
			tree.node(zn.right).parent = y
		} else {
			xParent = y
		}
		tree.replaceChild(zn.parent, z, y)
		yn.parent = zn.parent
		yn.color, zn.color = zn.color, yn.color
		removed = zn.color
	} else {
		xParent = zn.parent
		if x != nilRef {
			tree.node(x).parent = zn.parent
		}
		tree.replaceChild(zn.parent, z, x)
		if tree.header.leftmost == z {
			if zn.right == nilRef {
				tree.header.leftmost = zn.parent
			} else {
				tree.header.leftmost = tree.minimum(x)
			}
		}
		if tree.header.rightmost == z {
			if zn.left == nilRef {
				tree.header.rightmost = zn.parent
			} else {
				tree.header.rightmost = tree.maximum(x)
			}
		}
		removed = zn.color
	}

	if removed == Black {
		tree.removeRebalance(x, xParent)
	}

	tree.alloc.Destroy(z)
	tree.alloc.DeallocateNode(z)
	tree.count--
	tree.stats.RecordErase()
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

X carries an extra black. Sc is the sibling's child on X's side, Sd the one
on the opposite side.

rm1: Sibling S is red, so P, Sc and Sd are black. Repaint S black and P red,
rotate P towards X. X gets a black sibling, enter rm2-rm4.

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [Sd]  ======>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm2: Sibling S and both nephews are black. Repaint S red, the extra black
moves up to P. Loop on P (a red P stops the loop and is painted black).

	  {P}             {P}
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm3: Sibling S is black, Sc is red and Sd is black. Rotate S away from X,
repaint so that Sd becomes red, enter rm4.

	  {P}                    {P}
	  / \     r-rotate(S)    / \
	[X] [S]   ==========>  [X] [Sc]
	    / \                      \
	  <Sc> [Sd]                  <S>
	                               \
	                               [Sd]

rm4: Sibling S is black and Sd is red. S takes P's color, P and Sd are
painted black, rotate P towards X. Done.

	  {P}                   {S}
	  / \    l-rotate(P)    / \
	[X] [S]  ==========>  [P] [Sd]
	    / \               / \
	 {Sc} <Sd>          [X] {Sc}
*/
func (tree *rbTree[K, V]) removeRebalance(x, xParent NodeRef) {
	done := false
	for !done && x != tree.header.root && tree.isBlack(x) {
		pn := tree.node(xParent)
		if x == pn.left {
			w := pn.right
			if /* rm1 */ tree.isRed(w) {
				tree.node(w).color = Black
				pn.color = Red
				tree.leftRotate(xParent)
				w = pn.right
			}
			wn := tree.node(w)
			if /* rm2 */ tree.isBlack(wn.left) && tree.isBlack(wn.right) {
				wn.color = Red
				x = xParent
				xParent = pn.parent
				continue
			}
			if /* rm3 */ tree.isBlack(wn.right) {
				tree.node(wn.left).color = Black
				wn.color = Red
				tree.rightRotate(w)
				w = pn.right
				wn = tree.node(w)
			}
			/* rm4 */
			wn.color = pn.color
			pn.color = Black
			if wn.right != nilRef {
				tree.node(wn.right).color = Black
			}
			tree.leftRotate(xParent)
			done = true
		} else {
			w := pn.left
			if /* rm1 */ tree.isRed(w) {
				tree.node(w).color = Black
				pn.color = Red
				tree.rightRotate(xParent)
				w = pn.left
			}
			wn := tree.node(w)
			if /* rm2 */ tree.isBlack(wn.right) && tree.isBlack(wn.left) {
				wn.color = Red
				x = xParent
				xParent = pn.parent
				continue
			}
			if /* rm3 */ tree.isBlack(wn.left) {
				tree.node(wn.right).color = Black
				wn.color = Red
				tree.leftRotate(w)
				w = pn.left
				wn = tree.node(w)
			}
			/* rm4 */
			wn.color = pn.color
			pn.color = Black
			if wn.left != nilRef {
				tree.node(wn.left).color = Black
			}
			tree.rightRotate(xParent)
			done = true
		}
	}
	if x != nilRef {
		tree.node(x).color = Black
	}
}

func (tree *rbTree[K, V]) Erase(it RBIterator[K, V]) RBIterator[K, V] {
	tree.mustOwn(it)
	if it.ref == nilRef {
		panic( /* debug assertion */ "[rbtree] erase the end iterator")
	}
	next := tree.successor(it.ref)
	tree.eraseNode(it.ref)
	return tree.iter(next)
}

// EraseRange removes [first, last) and returns last.
func (tree *rbTree[K, V]) EraseRange(first, last RBIterator[K, V]) RBIterator[K, V] {
	tree.mustOwn(first)
	tree.mustOwn(last)
	if first.ref == tree.header.leftmost && last.ref == nilRef {
		tree.Clear()
		return tree.End()
	}
	for first.ref != last.ref {
		first = tree.Erase(first)
	}
	return last
}

func (tree *rbTree[K, V]) EraseKey(key K) int64 {
	first, last := tree.EqualRange(key)
	before := tree.count
	tree.EraseRange(first, last)
	return before - tree.count
}

// The succ node of the current node is its next node in sorted order.
// nilRef means the end of the sequence.
func (tree *rbTree[K, V]) successor(ref NodeRef) NodeRef {
	n := tree.node(ref)
	if n.right != nilRef {
		return tree.minimum(n.right)
	}
	// Backtrack to the first ancestor reached from its left subtree.
	p := n.parent
	for p != nilRef && ref == tree.node(p).right {
		ref = p
		p = tree.node(p).parent
	}
	return p
}

// The pred node of the current node is its previous node in sorted order.
// The pred of the end position is the maximum.
func (tree *rbTree[K, V]) predecessor(ref NodeRef) NodeRef {
	if ref == nilRef {
		return tree.header.rightmost
	}
	n := tree.node(ref)
	if n.left != nilRef {
		return tree.maximum(n.left)
	}
	p := n.parent
	for p != nilRef && ref == tree.node(p).left {
		ref = p
		p = tree.node(p).parent
	}
	return p
}

// lowerBound keeps the best candidate >= key seen so far.
func (tree *rbTree[K, V]) lowerBound(key K) NodeRef {
	x, y := tree.header.root, nilRef
	for x != nilRef {
		if !tree.less(tree.key(x), key) {
			y = x
			x = tree.node(x).left
		} else {
			x = tree.node(x).right
		}
	}
	return y
}

// upperBound keeps the best candidate > key seen so far.
func (tree *rbTree[K, V]) upperBound(key K) NodeRef {
	x, y := tree.header.root, nilRef
	for x != nilRef {
		if tree.less(key, tree.key(x)) {
			y = x
			x = tree.node(x).left
		} else {
			x = tree.node(x).right
		}
	}
	return y
}

// Find returns the first element equivalent to key or End().
func (tree *rbTree[K, V]) Find(key K) RBIterator[K, V] {
	j := tree.lowerBound(key)
	if j == nilRef || tree.less(key, tree.key(j)) {
		return tree.End()
	}
	return tree.iter(j)
}

func (tree *rbTree[K, V]) Contains(key K) bool {
	return !tree.Find(key).IsEnd()
}

func (tree *rbTree[K, V]) Count(key K) int64 {
	first, last := tree.lowerBound(key), tree.upperBound(key)
	n := int64(0)
	for ref := first; ref != last; ref = tree.successor(ref) {
		n++
	}
	return n
}

func (tree *rbTree[K, V]) LowerBound(key K) RBIterator[K, V] {
	return tree.iter(tree.lowerBound(key))
}

func (tree *rbTree[K, V]) UpperBound(key K) RBIterator[K, V] {
	return tree.iter(tree.upperBound(key))
}

func (tree *rbTree[K, V]) EqualRange(key K) (RBIterator[K, V], RBIterator[K, V]) {
	return tree.iter(tree.lowerBound(key)), tree.iter(tree.upperBound(key))
}

// Foreach visits the elements in order. The tree must not be mutated
// inside action.
func (tree *rbTree[K, V]) Foreach(action func(idx int64, color RBColor, val V) bool) {
	idx := int64(0)
	for ref := tree.header.leftmost; ref != nilRef; ref = tree.successor(ref) {
		n := tree.node(ref)
		if !action(idx, n.color, n.val) {
			return
		}
		idx++
	}
}

// Clear destroys every node exactly once, children before their parent,
// walking the parent links instead of a stack.
func (tree *rbTree[K, V]) Clear() {
	released := tree.count
	x := tree.header.root
	for x != nilRef {
		n := tree.node(x)
		if n.left != nilRef {
			x = n.left
			continue
		}
		if n.right != nilRef {
			x = n.right
			continue
		}
		p := n.parent
		if p != nilRef {
			pn := tree.node(p)
			if pn.left == x {
				pn.left = nilRef
			} else {
				pn.right = nilRef
			}
		}
		tree.alloc.Destroy(x)
		tree.alloc.DeallocateNode(x)
		x = p
	}
	tree.header = rbHeader{}
	tree.count = 0
	tree.stats.RecordClear(released)
	tree.logger.Debug("[rbtree] cleared", zap.Int64("released", released))
}

type RBTreeOpt[K, V any] func(*rbTree[K, V])

// WithRBTreeAllocator shares or customizes node storage. The allocator
// must not be used by goroutines other than the tree's mutator.
func WithRBTreeAllocator[K, V any](alloc NodeAllocator[V]) RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.alloc = alloc
	}
}

// WithRBTreeArenaLimit bounds the default arena, ignored with a custom allocator.
func WithRBTreeArenaLimit[K, V any](limit int) RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.arenaLimit = limit
	}
}

func WithRBTreeDesc[K, V any]() RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.isDesc = true
	}
}

func WithRBTreeLogger[K, V any](logger *zap.Logger) RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		if logger != nil {
			tree.logger = logger.Named("rbtree")
		}
	}
}

func WithRBTreeStats[K, V any](name string) RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.isStats = true
		tree.statsName = name
	}
}

func NewRBTree[K, V any](keyOf KeyExtractor[K, V], less infra.LessFunc[K], opts ...RBTreeOpt[K, V]) RBTree[K, V] {
	if keyOf == nil || less == nil {
		panic( /* debug assertion */ "[rbtree] key extractor and less function are required")
	}
	tree := &rbTree[K, V]{
		keyOf:  keyOf,
		less:   less,
		logger: zap.NewNop(),
	}

	for _, o := range opts {
		o(tree)
	}

	if tree.isDesc {
		tree.less = infra.ReverseLess(tree.less)
	}
	if tree.alloc == nil {
		tree.alloc = NewArena[V](tree.arenaLimit)
	}
	if tree.isStats {
		tree.stats = newRBTreeStats(tree.statsName)
	}
	return tree
}

// NewOrderedSetTree keeps keys in natural order, the stored value is the key.
func NewOrderedSetTree[K infra.OrderedKey](opts ...RBTreeOpt[K, K]) RBTree[K, K] {
	return NewRBTree[K, K](Identity[K], infra.OrderedLess[K], opts...)
}

// NewOrderedMapTree stores key-value pairs ordered by their key.
func NewOrderedMapTree[K infra.OrderedKey, V any](opts ...RBTreeOpt[K, Pair[K, V]]) RBTree[K, Pair[K, V]] {
	return NewRBTree[K, Pair[K, V]](PairKey[K, V], infra.OrderedLess[K], opts...)
}
