package reactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoop(t *testing.T, setsize int) *Loop {
	t.Helper()
	l, err := New(setsize)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func noopProc(*Loop, int, any, FileEvent) {}

// Invariant #4: AddFile is additive across non-overlapping masks.
func TestAddFileIsAdditive(t *testing.T) {
	l := newTestLoop(t, 16)
	r, w, err := pipeFDs(t)
	require.NoError(t, err)

	require.NoError(t, l.AddFile(r, Readable, noopProc, "read"))
	require.NoError(t, l.AddFile(r, Writable, noopProc, "read")) // not actually writable on a read-only pipe end, but registration itself must succeed

	assert.Equal(t, Readable|Writable, l.FileEvents(r))
	_ = w
}

// Invariant #1 and #2: maxfd bookkeeping, including downward rescan.
func TestMaxFDBookkeeping(t *testing.T) {
	l := newTestLoop(t, 16)
	r1, w1, err := pipeFDs(t)
	require.NoError(t, err)
	r2, w2, err := pipeFDs(t)
	require.NoError(t, err)

	require.NoError(t, l.AddFile(r1, Readable, noopProc, nil))
	require.NoError(t, l.AddFile(r2, Readable, noopProc, nil))

	bigger := r1
	if r2 > bigger {
		bigger = r2
	}
	assert.Equal(t, bigger, l.MaxFD())

	l.DelFile(bigger, Readable)
	assert.Equal(t, None, l.FileEvents(bigger))
	assert.NotEqual(t, bigger, l.MaxFD())
	assert.LessOrEqual(t, l.MaxFD(), bigger)

	for _, fd := range []int{r1, r2} {
		if l.FileEvents(fd) != None {
			assert.Equal(t, fd, l.MaxFD())
		}
	}

	_ = w1
	_ = w2
}

func TestAddFileRangeError(t *testing.T) {
	l := newTestLoop(t, 4)
	err := l.AddFile(4, Readable, noopProc, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRange)
}

// S5 resize.
func TestResizeScenario(t *testing.T) {
	l := newTestLoop(t, 16)
	r, _, err := pipeFDs(t)
	require.NoError(t, err)

	// fd=15 from the prose scenario is not guaranteed to be an open
	// descriptor, so register the pipe's real read end and assert purely
	// on the resize semantics.
	require.NoError(t, l.AddFile(r, Readable, noopProc, nil))

	require.NoError(t, l.Resize(16)) // same size: OK
	err = l.Resize(0)                // below maxfd: ERR
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRange)

	require.NoError(t, l.Resize(64))
	assert.Equal(t, Readable, l.FileEvents(r))
	assert.Equal(t, 64, l.SetSize())
}

func TestDelFileNoopOnUnregistered(t *testing.T) {
	l := newTestLoop(t, 16)
	l.DelFile(5, Readable) // must not panic
	assert.Equal(t, None, l.FileEvents(5))
	assert.Equal(t, -1, l.MaxFD())
}
