//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd || solaris || illumos

package reactor

import (
	"time"

	"golang.org/x/sys/unix"
)

// Wait is a standalone, loop-independent primitive that blocks the
// calling goroutine's thread on one descriptor for up to timeout,
// reporting which of Readable/Writable became available. Error and
// hangup conditions surface as Writable, matching the backend shim's
// coalescing rule (§4.2). A negative timeout blocks indefinitely.
//
// Grounded on the original aeWait, realized here with unix.Poll since a
// single-descriptor poll(2) call needs no per-backend specialization.
func Wait(fd int, mask FileEvent, timeout time.Duration) (FileEvent, error) {
	var events int16
	if mask&Readable != 0 {
		events |= unix.POLLIN
	}
	if mask&Writable != 0 {
		events |= unix.POLLOUT
	}

	fds := []unix.PollFd{{Fd: int32(fd), Events: events}}

	ms := -1
	if timeout >= 0 {
		ms = int(timeout / time.Millisecond)
	}

	for {
		n, err := unix.Poll(fds, ms)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return None, err
		}
		if n == 0 {
			return None, nil
		}
		break
	}

	var result FileEvent
	revents := fds[0].Revents
	if revents&unix.POLLIN != 0 {
		result |= Readable
	}
	if revents&unix.POLLOUT != 0 {
		result |= Writable
	}
	if revents&(unix.POLLERR|unix.POLLHUP) != 0 {
		result |= Writable
	}
	return result, nil
}
