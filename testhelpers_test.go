package reactor

import (
	"os"
	"sync"
	"testing"
	"time"
)

// pipeFDs returns the raw read/write descriptors of an os.Pipe, arranging
// for both ends to be closed at test cleanup. The returned descriptors
// remain valid (the *os.File values are kept alive) for the duration of
// the test.
func pipeFDs(t *testing.T) (r, w int, err error) {
	t.Helper()
	rf, wf, err := os.Pipe()
	if err != nil {
		return 0, 0, err
	}
	t.Cleanup(func() {
		_ = rf.Close()
		_ = wf.Close()
	})
	return int(rf.Fd()), int(wf.Fd()), nil
}

// fakeClock is a Clock whose Now() is fully controlled by the test,
// letting S3 (periodic firing count) and S4 (backwards clock skew) be
// exercised deterministically instead of racing the real clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
