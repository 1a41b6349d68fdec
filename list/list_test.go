package list

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildIntList(t *testing.T) *List[int] {
	t.Helper()
	l := New[int](nil, nil, nil)
	for i := 0; i < 10; i++ {
		l.PushTail(i)
	}
	require.Equal(t, 10, l.Len())
	return l
}

func collect(l *List[int]) []int {
	out := make([]int, 0, l.Len())
	for n := l.Head(); n != nil; n = n.Next() {
		out = append(out, n.Value)
	}
	return out
}

// S6 list round-trip.
func TestRotateAndDup(t *testing.T) {
	l := buildIntList(t)

	l.Rotate()
	assert.Equal(t, []int{9, 0, 1, 2, 3, 4, 5, 6, 7, 8}, collect(l))

	dup := l.Dup()
	assert.Equal(t, collect(l), collect(dup))
	assert.Equal(t, l.Len(), dup.Len())

	// independent storage: mutating the dup must not affect the original.
	dup.PushTail(100)
	assert.NotEqual(t, l.Len(), dup.Len())
	assert.Equal(t, []int{9, 0, 1, 2, 3, 4, 5, 6, 7, 8}, collect(l))
}

// Invariant #8: rotate on length <= 1 is a no-op.
func TestRotateShortLists(t *testing.T) {
	empty := New[int](nil, nil, nil)
	empty.Rotate()
	assert.Equal(t, 0, empty.Len())

	single := New[int](nil, nil, nil)
	single.PushTail(42)
	single.Rotate()
	assert.Equal(t, []int{42}, collect(single))
}

// Invariant #9: iterating and deleting each returned node drains the list
// to empty in Len() steps, and never revisits freed state.
func TestIteratorDrainsViaDeleteNode(t *testing.T) {
	l := buildIntList(t)
	it := l.NewIterator(Head)

	var seen []int
	steps := 0
	for n := it.Next(); n != nil; n = it.Next() {
		seen = append(seen, n.Value)
		l.DeleteNode(n)
		steps++
	}

	assert.Equal(t, 10, steps)
	assert.Equal(t, 0, l.Len())
	assert.Nil(t, l.Head())
	assert.Nil(t, l.Tail())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, seen)
}

func TestIteratorTailDirection(t *testing.T) {
	l := buildIntList(t)
	it := l.NewIterator(Tail)

	var seen []int
	for n := it.Next(); n != nil; n = it.Next() {
		seen = append(seen, n.Value)
	}
	assert.Equal(t, []int{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}, seen)
}

// Invariant #10: Index(i) == Index(i - Len) for valid positive i.
func TestIndexPositiveNegativeAgree(t *testing.T) {
	l := buildIntList(t)
	n := l.Len()
	for i := 0; i < n; i++ {
		pos := l.Index(i)
		neg := l.Index(i - n)
		require.NotNil(t, pos)
		require.NotNil(t, neg)
		assert.Same(t, pos, neg)
	}
	assert.Nil(t, l.Index(n))
	assert.Nil(t, l.Index(-n-1))
}

func TestSearchKeyWithMatch(t *testing.T) {
	l := New[string](nil, nil, func(value string, key any) bool {
		return value == key
	})
	l.PushTail("a")
	l.PushTail("b")
	l.PushTail("c")

	n := l.SearchKey("b")
	require.NotNil(t, n)
	assert.Equal(t, "b", n.Value)

	assert.Nil(t, l.SearchKey("z"))
}

func TestFreeHookInvokedOnDeleteAndRelease(t *testing.T) {
	var freed []int
	l := New[int](nil, func(v int) { freed = append(freed, v) }, nil)
	l.PushTail(1)
	l.PushTail(2)
	l.PushTail(3)

	l.DeleteNode(l.Head())
	assert.Equal(t, []int{1}, freed)

	l.Release()
	assert.Equal(t, []int{1, 2, 3}, freed)
	assert.Equal(t, 0, l.Len())
}

func TestInsertNodeBeforeAndAfter(t *testing.T) {
	l := New[int](nil, nil, nil)
	anchor := l.PushTail(1)
	l.InsertNode(anchor, 0, Head)
	l.InsertNode(anchor, 2, Tail)
	assert.Equal(t, []int{0, 1, 2}, collect(l))
}
