//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package reactor

import (
	"time"

	"golang.org/x/sys/unix"
)

// backendName identifies the backend compiled into this binary.
const backendName = "kqueue"

// kqueuePoller is the Darwin/BSD backend, grounded on the reference
// module's poller_darwin.go fastPoller, trimmed the same way as
// epollPoller (see poller_linux.go and DESIGN.md): no concurrency
// machinery, no parallel per-fd cache, since Loop.events already owns
// registration state and the loop is single-threaded.
//
// Unlike epoll, kqueue registers read and write readiness as two
// independent filters (EVFILT_READ, EVFILT_WRITE) rather than one
// combined subscription, so add and del operate per-filter rather than
// needing ADD/MOD fallback logic.
type kqueuePoller struct {
	kq  int
	buf []unix.Kevent_t
}

func newPoller(setsize int) (poller, error) {
	kq, err := unix.Kqueue()
	if err != nil {
		return nil, err
	}
	unix.CloseOnExec(kq)
	return &kqueuePoller{
		kq:  kq,
		buf: make([]unix.Kevent_t, setsize),
	}, nil
}

func (p *kqueuePoller) changeOne(fd int, filter int16, flags uint16) error {
	ev := unix.Kevent_t{
		Ident:  uint64(fd),
		Filter: filter,
		Flags:  flags,
	}
	_, err := unix.Kevent(p.kq, []unix.Kevent_t{ev}, nil, nil)
	return err
}

// add receives the full resulting subscription mask; EV_ADD is idempotent
// per filter, so each requested direction is simply (re-)added.
func (p *kqueuePoller) add(fd int, mask FileEvent) error {
	if mask&Readable != 0 {
		if err := p.changeOne(fd, unix.EVFILT_READ, unix.EV_ADD); err != nil {
			return err
		}
	}
	if mask&Writable != 0 {
		if err := p.changeOne(fd, unix.EVFILT_WRITE, unix.EV_ADD); err != nil {
			return err
		}
	}
	return nil
}

// del drops exactly the filters named in removed; remaining is not needed
// since kqueue filters are removed individually, unlike epoll's
// wholesale-replace MOD.
func (p *kqueuePoller) del(fd int, removed, remaining FileEvent) error {
	if removed&Readable != 0 {
		if err := p.changeOne(fd, unix.EVFILT_READ, unix.EV_DELETE); err != nil && err != unix.ENOENT {
			return err
		}
	}
	if removed&Writable != 0 {
		if err := p.changeOne(fd, unix.EVFILT_WRITE, unix.EV_DELETE); err != nil && err != unix.ENOENT {
			return err
		}
	}
	return nil
}

func (p *kqueuePoller) poll(timeout time.Duration, fired []firedEvent) (int, error) {
	var ts *unix.Timespec
	if timeout >= 0 {
		ts = &unix.Timespec{
			Sec:  int64(timeout / time.Second),
			Nsec: int64(timeout % time.Second),
		}
	}

	n, err := unix.Kevent(p.kq, nil, p.buf, ts)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, err
	}

	count := 0
	for i := 0; i < n && count < len(fired); i++ {
		ev := p.buf[i]
		var mask FileEvent
		switch ev.Filter {
		case unix.EVFILT_READ:
			mask = Readable
		case unix.EVFILT_WRITE:
			mask = Writable
		}
		// Coalesce error/EOF readiness into Writable, per §4.2.
		if ev.Flags&(unix.EV_ERROR|unix.EV_EOF) != 0 {
			mask |= Writable
		}
		fired[count] = firedEvent{fd: int(ev.Ident), mask: mask}
		count++
	}
	return count, nil
}

func (p *kqueuePoller) resize(setsize int) error {
	if setsize > len(p.buf) {
		p.buf = make([]unix.Kevent_t, setsize)
	}
	return nil
}

func (p *kqueuePoller) close() error {
	return unix.Close(p.kq)
}

func (p *kqueuePoller) name() string { return backendName }
