package reactor

import "reflect"

// fileProcHandle wraps a FileProc so that two registrations can be compared
// for identity with ==. Go function values are not comparable, so the
// duplicate-suppression rule in ProcessEvents (invoke a callback installed
// for both directions of a ready descriptor only once) compares these
// pointers rather than the FileProc values themselves.
type fileProcHandle struct {
	fn FileProc
}

// sameFunc reports whether a and b share the same underlying code pointer,
// which is the closest Go equivalent of C's function-pointer equality used
// by the original driver to detect a single rfileProc/wfileProc registered
// for both directions of a descriptor.
func sameFunc(a, b FileProc) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

// fileEvent is one slot of the descriptor-indexed registration table. A
// slot is registered iff mask != None.
type fileEvent struct {
	mask       FileEvent
	read       *fileProcHandle
	write      *fileProcHandle
	clientData any
}

// SetSize returns the loop's current descriptor table capacity. Registered
// descriptors must be strictly less than this value.
func (l *Loop) SetSize() int {
	return len(l.events)
}

// Resize changes the loop's descriptor table capacity to n. It is a no-op
// if n already equals the current setsize. It fails with an error
// satisfying errors.Is(err, ErrRange) if n <= maxfd, since shrinking below
// a registered descriptor would strand that registration. On success, the
// existing slots are preserved and new slots are initialized to None.
func (l *Loop) Resize(n int) error {
	if n == len(l.events) {
		return nil
	}
	if n <= l.maxfd {
		return rangeErrorf("reactor: cannot resize to %d with maxfd %d registered", n, l.maxfd)
	}

	events := make([]fileEvent, n)
	copy(events, l.events)

	if err := l.poller.resize(n); err != nil {
		return allocationErrorf("reactor: backend resize to %d failed: %v", n, err)
	}

	l.events = events
	l.fired = make([]firedEvent, n)
	return nil
}

// AddFile registers fd for the directions in mask, installing fn as the
// callback for each direction in mask and clientData as the slot's opaque
// payload. Repeated calls are additive: a direction not named in mask keeps
// its subscription and existing callback, so a caller may add Readable and
// Writable in two separate calls, each with its own callback, and both
// remain installed. Naming a direction that is already subscribed replaces
// its callback, and every call replaces the slot's clientData.
//
// AddFile fails with an error satisfying errors.Is(err, ErrRange) if fd is
// not less than the loop's setsize, with an error satisfying
// errors.Is(err, ErrBackend) if the backend refuses the subscription, and
// with an error satisfying errors.Is(err, ErrClosed) if the loop has
// already been closed; in all three cases the loop is left unchanged.
// AddFile panics if mask is None or fn is nil, since those are programmer
// errors, not runtime conditions.
func (l *Loop) AddFile(fd int, mask FileEvent, fn FileProc, clientData any) error {
	if mask == None {
		panic("reactor: AddFile requires a non-None mask")
	}
	if fn == nil {
		panic("reactor: AddFile requires a non-nil FileProc")
	}
	if l.closed {
		return closedErrorf("reactor: AddFile called on a closed loop")
	}
	if fd < 0 || fd >= len(l.events) {
		return rangeErrorf("reactor: fd %d out of range [0, %d)", fd, len(l.events))
	}

	slot := &l.events[fd]
	merged := slot.mask | mask
	if merged != slot.mask {
		if err := l.poller.add(fd, merged); err != nil {
			return backendErrorf("add", err)
		}
	}

	// If the other direction is already registered with a function value
	// identical to fn, share its handle rather than minting a new one, so
	// that the dispatch-time duplicate-suppression check (which compares
	// handle pointers) recognizes this as the same callback registered
	// for both directions (scenario S8), even when the two directions
	// were added in separate AddFile calls.
	handle := &fileProcHandle{fn: fn}
	switch {
	case mask&Readable != 0 && mask&Writable != 0:
		slot.read = handle
		slot.write = handle
	case mask&Readable != 0:
		if slot.write != nil && sameFunc(slot.write.fn, fn) {
			handle = slot.write
		}
		slot.read = handle
	case mask&Writable != 0:
		if slot.read != nil && sameFunc(slot.read.fn, fn) {
			handle = slot.read
		}
		slot.write = handle
	}
	slot.mask |= mask
	slot.clientData = clientData

	if fd > l.maxfd {
		l.maxfd = fd
	}
	return nil
}

// DelFile unregisters the directions in mask for fd. It is a no-op if fd
// is out of range or the slot is already None. If, after clearing mask,
// the slot's mask becomes None and fd equals the loop's maxfd, maxfd is
// recomputed by scanning downward for the next registered descriptor.
func (l *Loop) DelFile(fd int, mask FileEvent) {
	if fd < 0 || fd >= len(l.events) {
		return
	}
	slot := &l.events[fd]
	if slot.mask == None {
		return
	}

	toDel := mask & slot.mask
	if toDel != None {
		_ = l.poller.del(fd, toDel, slot.mask&^mask)
	}

	slot.mask &^= mask
	if mask&Readable != 0 {
		slot.read = nil
	}
	if mask&Writable != 0 {
		slot.write = nil
	}

	if slot.mask == None {
		slot.clientData = nil
		if fd == l.maxfd {
			l.recomputeMaxFD()
		}
	}
}

// recomputeMaxFD scans downward from the current maxfd for the next
// registered descriptor, or sets maxfd to -1 if none remain.
func (l *Loop) recomputeMaxFD() {
	for fd := l.maxfd - 1; fd >= 0; fd-- {
		if l.events[fd].mask != None {
			l.maxfd = fd
			return
		}
	}
	l.maxfd = -1
}

// FileEvents returns fd's current subscription mask, or None if fd is out
// of range or unregistered.
func (l *Loop) FileEvents(fd int) FileEvent {
	if fd < 0 || fd >= len(l.events) {
		return None
	}
	return l.events[fd].mask
}

// MaxFD returns the largest currently registered descriptor, or -1 if none
// are registered.
func (l *Loop) MaxFD() int {
	return l.maxfd
}
