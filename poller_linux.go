//go:build linux

package reactor

import (
	"time"

	"golang.org/x/sys/unix"
)

// backendName identifies the backend compiled into this binary.
const backendName = "epoll"

// epollPoller is the Linux backend, grounded on the reference module's
// poller_linux.go FastPoller, trimmed of its concurrency machinery
// (sync.RWMutex, atomic.Bool, dynamic per-fd growth): this package's Loop
// is single-threaded, and Loop.events already holds per-fd registration
// state (§4.4), so the backend itself needs only the kernel handle and a
// reusable event buffer, matching the original's aeApiState.
type epollPoller struct {
	epfd int
	buf  []unix.EpollEvent
}

func newPoller(setsize int) (poller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &epollPoller{
		epfd: epfd,
		buf:  make([]unix.EpollEvent, setsize),
	}, nil
}

func toEpollEvents(mask FileEvent) uint32 {
	var ev uint32
	if mask&Readable != 0 {
		ev |= unix.EPOLLIN
	}
	if mask&Writable != 0 {
		ev |= unix.EPOLLOUT
	}
	return ev
}

func fromEpollEvents(ev uint32) FileEvent {
	var mask FileEvent
	if ev&unix.EPOLLIN != 0 {
		mask |= Readable
	}
	if ev&unix.EPOLLOUT != 0 {
		mask |= Writable
	}
	// Coalesce error/hangup readiness into Writable, per §4.2, so a
	// write callback (or a duplex callback) observes the condition.
	if ev&(unix.EPOLLERR|unix.EPOLLHUP) != 0 {
		mask |= Writable
	}
	return mask
}

// add receives the full resulting subscription mask for fd (the union of
// whatever was already subscribed and the newly requested directions, per
// Loop.AddFile). epoll itself has no additive update, only ADD (fails if
// already present) and MOD (replaces wholesale), so add always passes the
// full mask and falls back from ADD to MOD on EEXIST.
func (p *epollPoller) add(fd int, mask FileEvent) error {
	ev := &unix.EpollEvent{Events: toEpollEvents(mask), Fd: int32(fd)}
	err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, ev)
	if err == unix.EEXIST {
		err = unix.EpollCtl(p.epfd, unix.EPOLL_CTL_MOD, fd, ev)
	}
	return err
}

// del receives the mask remaining after this removal; if nothing remains,
// the descriptor is fully dropped, otherwise epoll is updated to the
// remaining mask via MOD.
func (p *epollPoller) del(fd int, removed, remaining FileEvent) error {
	if remaining == None {
		err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil)
		if err == unix.ENOENT {
			return nil
		}
		return err
	}
	ev := &unix.EpollEvent{Events: toEpollEvents(remaining), Fd: int32(fd)}
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_MOD, fd, ev)
}

func (p *epollPoller) poll(timeout time.Duration, fired []firedEvent) (int, error) {
	ms := -1
	if timeout >= 0 {
		ms = int(timeout / time.Millisecond)
	}

	n, err := unix.EpollWait(p.epfd, p.buf, ms)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, err
	}

	count := 0
	for i := 0; i < n && count < len(fired); i++ {
		fired[count] = firedEvent{
			fd:   int(p.buf[i].Fd),
			mask: fromEpollEvents(p.buf[i].Events),
		}
		count++
	}
	return count, nil
}

func (p *epollPoller) resize(setsize int) error {
	if setsize > len(p.buf) {
		p.buf = make([]unix.EpollEvent, setsize)
	}
	return nil
}

func (p *epollPoller) close() error {
	return unix.Close(p.epfd)
}

func (p *epollPoller) name() string { return backendName }
