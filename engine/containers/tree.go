package containers

import (
	"errors"
	"iter"
	"sync"
	"sync/atomic"
	"weak"
)

var (
	// ErrSameNode is returned when a node is reparented onto itself.
	ErrSameNode = errors.New("node cannot be its own parent")
	// ErrCycleDetected is returned when the target of a reparent is a
	// descendant of the node being moved.
	ErrCycleDetected = errors.New("reparent would create a cycle")
)

// node ids are process wide and never reused, across every tree.
var nodeIDs atomic.Uint64

func nextNodeID() uint64 {
	return nodeIDs.Add(1)
}

// Node is an element of a parent/child tree. A node strongly owns its
// children; the parent is only weakly referenced, so dropping the last
// reference to a subtree root releases the whole subtree.
type Node[T any] struct {
	id uint64

	mu       sync.Mutex
	parent   weak.Pointer[Node[T]]
	children []*Node[T]
	payload  T
}

// NewNode allocates a node with a fresh id and, when parent is not nil,
// appends it to parent's children.
func NewNode[T any](payload T, parent *Node[T]) *Node[T] {
	n := &Node[T]{
		id:      nextNodeID(),
		payload: payload,
	}
	if parent != nil {
		parent.addChild(n)
	}
	return n
}

func (n *Node[T]) ID() uint64 {
	return n.id
}

func (n *Node[T]) Payload() T {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.payload
}

func (n *Node[T]) SetPayload(payload T) {
	n.mu.Lock()
	n.payload = payload
	n.mu.Unlock()
}

// Parent returns the parent node, or nil for a root (or when the parent has
// already been released).
func (n *Node[T]) Parent() *Node[T] {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.parent.Value()
}

// Root walks the parent chain up to the topmost node.
func (n *Node[T]) Root() *Node[T] {
	root := n
	for p := root.Parent(); p != nil; p = root.Parent() {
		root = p
	}
	return root
}

// IsChildOf reports whether ancestor appears anywhere above n.
func (n *Node[T]) IsChildOf(ancestor *Node[T]) bool {
	if ancestor == nil {
		return false
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.id == ancestor.id {
			return true
		}
	}
	return false
}

// Children returns a snapshot of the direct children in insertion order.
func (n *Node[T]) Children() []*Node[T] {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]*Node[T], len(n.children))
	copy(out, n.children)
	return out
}

// WithChildren runs fn while holding n exclusively. fn must not call back
// into n.
func (n *Node[T]) WithChildren(fn func(children []*Node[T])) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fn(n.children)
}

func (n *Node[T]) IsLeaf() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.children) == 0
}

// FindChild looks for id among the direct children only.
func (n *Node[T]) FindChild(id uint64) *Node[T] {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, c := range n.children {
		if c.id == id {
			return c
		}
	}
	return nil
}

// Siblings returns the other children of n's parent. The second value is
// false for a root.
func (n *Node[T]) Siblings() ([]*Node[T], bool) {
	p := n.Parent()
	if p == nil {
		return nil, false
	}
	all := p.Children()
	out := make([]*Node[T], 0, len(all))
	for _, c := range all {
		if c.id != n.id {
			out = append(out, c)
		}
	}
	return out, true
}

// RemoveChild detaches the first child whose id matches child's. A child
// that is not present is ignored.
func (n *Node[T]) RemoveChild(child *Node[T]) {
	if child == nil {
		return
	}
	n.mu.Lock()
	idx := -1
	for i, c := range n.children {
		if c.id == child.id {
			idx = i
			break
		}
	}
	if idx < 0 {
		n.mu.Unlock()
		return
	}
	removed := n.children[idx]
	copy(n.children[idx:], n.children[idx+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
	n.mu.Unlock()

	removed.mu.Lock()
	if p := removed.parent.Value(); p != nil && p.id == n.id {
		removed.parent = weak.Pointer[Node[T]]{}
	}
	removed.mu.Unlock()
}

// Detach removes n from its parent, turning it into a root.
func (n *Node[T]) Detach() {
	if p := n.Parent(); p != nil {
		p.RemoveChild(n)
	}
}

// addChild appends child and points it back at n. Adding a node to itself
// is rejected.
func (n *Node[T]) addChild(child *Node[T]) bool {
	if child == nil || child.id == n.id {
		return false
	}
	n.mu.Lock()
	n.children = append(n.children, child)
	n.mu.Unlock()

	child.mu.Lock()
	child.parent = weak.Make(n)
	child.mu.Unlock()
	return true
}

// Reparent moves child under target. It fails with ErrSameNode when both
// are the same node and with ErrCycleDetected when target lives inside
// child's subtree. Moving a node to its current parent changes nothing.
func Reparent[T any](child, target *Node[T]) error {
	if child.id == target.id {
		return ErrSameNode
	}
	if target.IsChildOf(child) {
		return ErrCycleDetected
	}
	old := child.Parent()
	if old != nil {
		if old.id == target.id {
			return nil
		}
		old.RemoveChild(child)
	}
	target.addChild(child)
	return nil
}

// BFS lazily walks the tree below root breadth first, root included.
// Within a level nodes come in insertion order.
func BFS[T any](root *Node[T]) iter.Seq2[uint64, *Node[T]] {
	return func(yield func(uint64, *Node[T]) bool) {
		if root == nil {
			return
		}
		queue := []*Node[T]{root}
		for len(queue) > 0 {
			n := queue[0]
			queue[0] = nil
			queue = queue[1:]
			if !yield(n.id, n) {
				return
			}
			queue = append(queue, n.Children()...)
		}
	}
}

// Walk is BFS anchored on n.
func (n *Node[T]) Walk() iter.Seq2[uint64, *Node[T]] {
	return BFS(n)
}
