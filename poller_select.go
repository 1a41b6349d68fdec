//go:build unix && !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd && !solaris && !illumos

package reactor

import (
	"sort"
	"time"

	"golang.org/x/sys/unix"
)

// backendName identifies the backend compiled into this binary.
const backendName = "select"

// selectPoller is the universal fallback backend, used whenever none of
// the three native readiness primitives apply (§4.2: "select" is the
// lowest-priority, always-available backend). No repository in the
// example pack implements a select(2) loop directly; this is built from
// golang.org/x/sys/unix's documented FdSet/Select signature, following the
// same "kernel handle (here, none) plus reusable scratch state" shape as
// the other three backends.
//
// select's FdSet has a fixed capacity (FD_SETSIZE, conventionally 1024),
// which is an intrinsic limitation of this backend relative to the other
// three; it is accepted here as the documented cost of universality.
type selectPoller struct {
	readFDs, writeFDs unix.FdSet
	subscribed        map[int]FileEvent
}

func newPoller(setsize int) (poller, error) {
	return &selectPoller{
		subscribed: make(map[int]FileEvent),
	}, nil
}

func fdSetBit(set *unix.FdSet, fd int, on bool) {
	idx := fd / 64
	bit := uint(fd % 64)
	if idx < 0 || idx >= len(set.Bits) {
		return
	}
	if on {
		set.Bits[idx] |= 1 << bit
	} else {
		set.Bits[idx] &^= 1 << bit
	}
}

func fdSetIsSet(set *unix.FdSet, fd int) bool {
	idx := fd / 64
	bit := uint(fd % 64)
	if idx < 0 || idx >= len(set.Bits) {
		return false
	}
	return set.Bits[idx]&(1<<bit) != 0
}

func (p *selectPoller) add(fd int, mask FileEvent) error {
	fdSetBit(&p.readFDs, fd, mask&Readable != 0)
	fdSetBit(&p.writeFDs, fd, mask&Writable != 0)
	p.subscribed[fd] = mask
	return nil
}

func (p *selectPoller) del(fd int, removed, remaining FileEvent) error {
	if remaining == None {
		delete(p.subscribed, fd)
	} else {
		p.subscribed[fd] = remaining
	}
	fdSetBit(&p.readFDs, fd, remaining&Readable != 0)
	fdSetBit(&p.writeFDs, fd, remaining&Writable != 0)
	return nil
}

func (p *selectPoller) poll(timeout time.Duration, fired []firedEvent) (int, error) {
	var maxFD int
	for fd := range p.subscribed {
		if fd > maxFD {
			maxFD = fd
		}
	}

	// unix.Select mutates its fd_set arguments in place, so work on
	// scratch copies and leave p.readFDs/p.writeFDs holding the
	// persistent subscription.
	rfds, wfds := p.readFDs, p.writeFDs

	var tv *unix.Timeval
	if timeout >= 0 {
		t := unix.NsecToTimeval(timeout.Nanoseconds())
		tv = &t
	}

	n, err := unix.Select(maxFD+1, &rfds, &wfds, nil, tv)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, err
	}
	if n <= 0 {
		return 0, nil
	}

	// Deterministic order is not required by the contract (§4.2:
	// "arbitrary order"), but iterating a map directly would make test
	// output nondeterministic for no benefit; a sorted fd scan is
	// cheap at select's own FD_SETSIZE scale.
	fds := make([]int, 0, len(p.subscribed))
	for fd := range p.subscribed {
		fds = append(fds, fd)
	}
	sort.Ints(fds)

	count := 0
	for _, fd := range fds {
		if count >= len(fired) {
			break
		}
		var mask FileEvent
		if fdSetIsSet(&rfds, fd) {
			mask |= Readable
		}
		if fdSetIsSet(&wfds, fd) {
			mask |= Writable
		}
		if mask != None {
			fired[count] = firedEvent{fd: fd, mask: mask}
			count++
		}
	}
	return count, nil
}

func (p *selectPoller) resize(setsize int) error {
	return nil
}

func (p *selectPoller) close() error {
	return nil
}

func (p *selectPoller) name() string { return backendName }
