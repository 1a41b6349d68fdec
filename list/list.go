// Package list implements a generic intrusive doubly linked list, available
// to applications built on the reactor package for unordered collections:
// pending replies, client registries, and the like. The reactor package
// itself does not use it; its timer store is a separate chain.
//
// Every operation on a List is O(1) except Release, Dup, Index and
// SearchKey, which walk the list.
package list

// Node is one element of a List. Its Value is opaque to the list itself;
// the list's optional hooks (dup, free, match) are the only code that
// interprets it.
type Node[T any] struct {
	prev, next *Node[T]
	Value      T
}

// Next returns the node following n, or nil if n is the tail.
func (n *Node[T]) Next() *Node[T] { return n.next }

// Prev returns the node preceding n, or nil if n is the head.
func (n *Node[T]) Prev() *Node[T] { return n.prev }

// List is a generic doubly linked list with optional dup/free/match hooks.
//
// The zero value is an empty, usable list with no hooks installed. A List
// must not be copied after first use.
type List[T any] struct {
	head, tail *Node[T]
	length     int

	// DupFunc, if set, is used by Dup to deep-copy each value into the new
	// list. If nil, Dup shares values by assignment.
	DupFunc func(T) T

	// Free, if set, is invoked on a value by Release and DeleteNode just
	// before the node holding it is discarded.
	Free func(T)

	// Match, if set, is used by SearchKey to compare a node's value
	// against a caller-supplied key. If nil, SearchKey falls back to
	// comparing the value against the key using Go's == operator, which
	// requires T to be comparable at the call site (a panic results
	// otherwise); installing Match avoids that requirement.
	Match func(value T, key any) bool
}

// New returns an empty list with the given optional hooks. Passing nil for
// any hook leaves that hook unset, per the zero-value semantics above.
func New[T any](dup func(T) T, free func(T), match func(T, any) bool) *List[T] {
	return &List[T]{DupFunc: dup, Free: free, Match: match}
}

// Len returns the number of nodes currently in the list.
func (l *List[T]) Len() int { return l.length }

// Head returns the first node, or nil if the list is empty.
func (l *List[T]) Head() *Node[T] { return l.head }

// Tail returns the last node, or nil if the list is empty.
func (l *List[T]) Tail() *Node[T] { return l.tail }

// PushHead allocates a new node holding value and splices it in as the new
// head. It cannot fail: allocation failure is not a representable condition
// in Go the way it is for the C realization this type is modeled on, so the
// "unwind on allocation failure" clause of the original operation is
// vacuous here.
func (l *List[T]) PushHead(value T) *Node[T] {
	n := &Node[T]{Value: value}
	if l.head == nil {
		l.head, l.tail = n, n
	} else {
		n.next = l.head
		l.head.prev = n
		l.head = n
	}
	l.length++
	return n
}

// PushTail allocates a new node holding value and splices it in as the new
// tail.
func (l *List[T]) PushTail(value T) *Node[T] {
	n := &Node[T]{Value: value}
	if l.tail == nil {
		l.head, l.tail = n, n
	} else {
		n.prev = l.tail
		l.tail.next = n
		l.tail = n
	}
	l.length++
	return n
}

// Direction selects which side of an anchor node InsertNode splices into,
// or which way an Iterator advances.
type Direction int

const (
	// Head, as a Direction for InsertNode, inserts before the anchor;
	// as an iterator Direction, it walks from head to tail.
	Head Direction = 0
	// Tail, as a Direction for InsertNode, inserts after the anchor;
	// as an iterator Direction, it walks from tail to head.
	Tail Direction = 1
)

// InsertNode allocates a new node holding value, and splices it in next to
// anchor: before anchor if dir is Head, after anchor if dir is Tail. anchor
// must belong to l.
func (l *List[T]) InsertNode(anchor *Node[T], value T, dir Direction) *Node[T] {
	n := &Node[T]{Value: value}
	if dir == Head {
		n.prev = anchor.prev
		n.next = anchor
		if anchor.prev != nil {
			anchor.prev.next = n
		} else {
			l.head = n
		}
		anchor.prev = n
	} else {
		n.next = anchor.next
		n.prev = anchor
		if anchor.next != nil {
			anchor.next.prev = n
		} else {
			l.tail = n
		}
		anchor.next = n
	}
	l.length++
	return n
}

// DeleteNode unlinks n from l, invoking Free on its value if installed.
// n must belong to l. DeleteNode cannot fail.
func (l *List[T]) DeleteNode(n *Node[T]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	if l.Free != nil {
		l.Free(n.Value)
	}
	n.prev, n.next = nil, nil
	l.length--
}

// Release empties l, invoking Free (if installed) on every value in
// traversal order.
func (l *List[T]) Release() {
	for n := l.head; n != nil; {
		next := n.next
		if l.Free != nil {
			l.Free(n.Value)
		}
		n.prev, n.next = nil, nil
		n = next
	}
	l.head, l.tail = nil, nil
	l.length = 0
}

// Dup returns a new list with the same hooks as l. If DupFunc is installed
// on l, each value is deep-copied via that hook; otherwise values are shared
// by assignment. The returned list's nodes are entirely independent of l's.
func (l *List[T]) Dup() *List[T] {
	out := &List[T]{DupFunc: l.DupFunc, Free: l.Free, Match: l.Match}
	for n := l.head; n != nil; n = n.next {
		v := n.Value
		if out.DupFunc != nil {
			v = out.DupFunc(v)
		}
		out.PushTail(v)
	}
	return out
}

// SearchKey scans from the head and returns the first node whose value
// matches key. If Match is installed it is used for comparison; otherwise
// the value, converted to any, is compared against key with Go's ==
// operator, which panics if both hold the same non-comparable type.
// SearchKey returns nil if no node matches.
func (l *List[T]) SearchKey(key any) *Node[T] {
	for n := l.head; n != nil; n = n.next {
		if l.Match != nil {
			if l.Match(n.Value, key) {
				return n
			}
			continue
		}
		if any(n.Value) == key {
			return n
		}
	}
	return nil
}

// Index returns the node at position i: nonnegative indices count from the
// head (0 is the head), negative indices count from the tail (-1 is the
// tail). Index returns nil if i is out of range.
func (l *List[T]) Index(i int) *Node[T] {
	if i >= 0 {
		n := l.head
		for ; i > 0 && n != nil; i-- {
			n = n.next
		}
		return n
	}
	n := l.tail
	for i = -i - 1; i > 0 && n != nil; i-- {
		n = n.prev
	}
	return n
}

// Rotate moves the current tail to the head position. It is a no-op when
// the list has fewer than two elements.
func (l *List[T]) Rotate() {
	if l.length <= 1 {
		return
	}
	old := l.tail
	l.tail = old.prev
	l.tail.next = nil

	old.prev = nil
	old.next = l.head
	l.head.prev = old
	l.head = old
}

// Iterator walks a List in one direction. Advancing returns the current
// node and steps to the next one before returning, so callers may safely
// call DeleteNode on the node just returned without invalidating the
// iterator; deleting any other node during iteration is undefined, per the
// list's general contract.
type Iterator[T any] struct {
	list *List[T]
	next *Node[T]
	dir  Direction
}

// NewIterator returns an iterator over l starting at the end indicated by
// dir (Head walks head-to-tail, Tail walks tail-to-head).
func (l *List[T]) NewIterator(dir Direction) *Iterator[T] {
	it := &Iterator[T]{list: l, dir: dir}
	it.Rewind()
	return it
}

// Rewind resets it to the end its direction starts from (the head for a
// Head iterator, the tail for a Tail iterator), without changing direction.
func (it *Iterator[T]) Rewind() {
	if it.dir == Head {
		it.next = it.list.head
	} else {
		it.next = it.list.tail
	}
}

// RewindTail resets it to the end opposite the one Rewind uses (the tail
// for a Head iterator, the head for a Tail iterator), without changing
// direction, so the next call to Next returns that node and then nil.
func (it *Iterator[T]) RewindTail() {
	if it.dir == Head {
		it.next = it.list.tail
	} else {
		it.next = it.list.head
	}
}

// Next returns the current node and advances the iterator, or returns nil
// once the far end has been consumed.
func (it *Iterator[T]) Next() *Node[T] {
	cur := it.next
	if cur != nil {
		if it.dir == Head {
			it.next = cur.next
		} else {
			it.next = cur.prev
		}
	}
	return cur
}
