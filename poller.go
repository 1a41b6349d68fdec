package reactor

// The backend shim is selected at compile time in priority order: event
// ports (Solaris/illumos), epoll (Linux), kqueue (Darwin/BSD), select
// (every other unix target). See poller_solaris.go, poller_linux.go,
// poller_kqueue.go, and poller_select.go respectively.
//
// Each backend implements the poller interface below with identical
// observable semantics: add is cumulative, poll reports only currently
// subscribed descriptors, a zero timeout returns immediately, and a
// negative timeout blocks indefinitely. Error readiness (HUP, ERR) is
// coalesced into Writable so a write callback can observe it.

import "time"

// firedEvent is one (fd, mask) pair produced by a poll call. It is valid
// only from the return of one poll to the start of the next, matching the
// backing array's reuse across ticks.
type firedEvent struct {
	fd   int
	mask FileEvent
}

// poller is the backend shim's interface. Exactly one implementation is
// compiled into any given binary, selected by build constraints.
type poller interface {
	// add subscribes fd to the full resulting mask (the union of
	// whatever was already subscribed and any newly requested
	// directions). Implementations must treat this as idempotent:
	// calling add again with a direction already subscribed leaves it
	// subscribed, not duplicated.
	add(fd int, mask FileEvent) error

	// del removes the directions in removed from fd's subscription.
	// remaining is the full mask that should still be subscribed
	// afterward (None if the descriptor should be fully dropped).
	del(fd int, removed, remaining FileEvent) error

	// poll blocks until at least one subscribed descriptor is ready or
	// timeout elapses (a negative timeout blocks indefinitely; a zero
	// timeout returns immediately), writing ready (fd, mask) pairs into
	// fired and returning the count written.
	poll(timeout time.Duration, fired []firedEvent) (int, error)

	// resize adjusts any internal buffers sized by descriptor capacity.
	resize(setsize int) error

	// close releases the backend's kernel resources.
	close() error

	// name identifies the backend, e.g. "epoll", "kqueue".
	name() string
}

// APIName reports the readiness backend compiled into this binary for the
// current GOOS, without requiring a Loop instance.
func APIName() string {
	return backendName
}

// APIName reports the readiness backend this Loop was constructed with.
func (l *Loop) APIName() string {
	return l.poller.name()
}
