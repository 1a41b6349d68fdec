package reactor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wait is loop-independent: it must report readiness without a Loop
// instance at all.
func TestWaitReportsReadability(t *testing.T) {
	r, w, err := pipeFDs(t)
	require.NoError(t, err)

	_, err = writeFD(w, []byte{'A'})
	require.NoError(t, err)

	mask, err := Wait(r, Readable, time.Second)
	require.NoError(t, err)
	assert.Equal(t, Readable, mask)
}

func TestWaitTimesOutWithNoneReady(t *testing.T) {
	r, _, err := pipeFDs(t)
	require.NoError(t, err)

	mask, err := Wait(r, Readable, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, None, mask)
}
