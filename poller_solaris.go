//go:build solaris || illumos

package reactor

import (
	"time"

	"golang.org/x/sys/unix"
)

// backendName identifies the backend compiled into this binary.
const backendName = "event-ports"

// portsPoller is the Solaris/illumos backend. No repository in the
// example pack targets Solaris, so this file has no direct grounding
// source; it follows the same struct shape as poller_linux.go and
// poller_kqueue.go (a kernel handle plus a reusable event buffer, no
// parallel per-fd cache) and uses the real golang.org/x/sys/unix Port*
// bindings. See DESIGN.md.
//
// Event ports are one-shot: PORT_GET consumes (disassociates) the event
// it reports, so the fd must be re-associated after every delivery to
// keep receiving further notifications for the same direction. This
// poller re-associates with the full requested mask immediately after
// reporting an event for that fd, to preserve the level-triggered,
// until-unsubscribed semantics the rest of this package assumes.
type portsPoller struct {
	port int
	buf  []unix.PortEvent
	// subscribed tracks the mask currently intended for each fd, since
	// event ports require re-association (with the full mask) after
	// every delivery; this is necessarily backend-private state, not a
	// duplicate of Loop.events, because Loop.events is indexed densely
	// by fd while this map only needs to hold fds with a pending
	// one-shot association.
	subscribed map[int]FileEvent
}

func newPoller(setsize int) (poller, error) {
	port, err := unix.PortCreate()
	if err != nil {
		return nil, err
	}
	return &portsPoller{
		port:       port,
		buf:        make([]unix.PortEvent, setsize),
		subscribed: make(map[int]FileEvent),
	}, nil
}

func toPortEvents(mask FileEvent) int {
	var ev int
	if mask&Readable != 0 {
		ev |= unix.POLLIN
	}
	if mask&Writable != 0 {
		ev |= unix.POLLOUT
	}
	return ev
}

func fromPortEvents(ev int) FileEvent {
	var mask FileEvent
	if ev&unix.POLLIN != 0 {
		mask |= Readable
	}
	if ev&unix.POLLOUT != 0 {
		mask |= Writable
	}
	if ev&(unix.POLLERR|unix.POLLHUP) != 0 {
		mask |= Writable
	}
	return mask
}

func (p *portsPoller) add(fd int, mask FileEvent) error {
	if err := unix.PortAssociate(p.port, unix.PORT_SOURCE_FD, uintptr(fd), toPortEvents(mask), nil); err != nil {
		return err
	}
	p.subscribed[fd] = mask
	return nil
}

func (p *portsPoller) del(fd int, removed, remaining FileEvent) error {
	if remaining == None {
		delete(p.subscribed, fd)
		err := unix.PortDissociate(p.port, unix.PORT_SOURCE_FD, uintptr(fd))
		if err == unix.ENOENT {
			return nil
		}
		return err
	}
	if err := unix.PortAssociate(p.port, unix.PORT_SOURCE_FD, uintptr(fd), toPortEvents(remaining), nil); err != nil {
		return err
	}
	p.subscribed[fd] = remaining
	return nil
}

func (p *portsPoller) poll(timeout time.Duration, fired []firedEvent) (int, error) {
	var ts *unix.Timespec
	if timeout >= 0 {
		ts = &unix.Timespec{
			Sec:  int64(timeout / time.Second),
			Nsec: int64(timeout % time.Second),
		}
	}

	// PortGetn blocks for at least one event (min=1) and up to
	// len(p.buf), reporting however many were actually retrieved.
	n, err := unix.PortGetn(p.port, p.buf, 1, ts)
	if err != nil {
		if err == unix.EINTR || err == unix.ETIME {
			return 0, nil
		}
		return 0, err
	}

	count := 0
	for i := 0; i < int(n) && count < len(fired); i++ {
		ev := p.buf[i]
		fd := int(ev.Object)
		mask := fromPortEvents(int(ev.Events))
		fired[count] = firedEvent{fd: fd, mask: mask}
		count++

		// Re-associate to preserve level-triggered semantics: PORT_GET
		// disassociated fd as a side effect of delivery.
		if want, ok := p.subscribed[fd]; ok {
			_ = unix.PortAssociate(p.port, unix.PORT_SOURCE_FD, uintptr(fd), toPortEvents(want), nil)
		}
	}
	return count, nil
}

func (p *portsPoller) resize(setsize int) error {
	if setsize > len(p.buf) {
		p.buf = make([]unix.PortEvent, setsize)
	}
	return nil
}

func (p *portsPoller) close() error {
	return unix.Close(p.port)
}

func (p *portsPoller) name() string { return backendName }
