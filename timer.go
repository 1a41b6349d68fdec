package reactor

import "time"

// timerEvent is one record in the loop's unsorted, singly linked timer
// chain. New timers are prepended, giving O(1) creation at the cost of an
// O(n) nearest-timer scan, matching the original design this package is
// grounded on: an unsorted list is acceptable because timer populations in
// the intended use case are small, and the interface hides the
// representation, so a future revision could substitute a heap without
// observable change (see DESIGN.md).
type timerEvent struct {
	id         TimerID
	when       time.Time
	fn         TimeProc
	finalizer  FinalizerProc
	clientData any
	next       *timerEvent
}

// AddTimer schedules fn to run after d, relative to the loop's clock at
// the time of this call. clientData is passed back to fn and finalizer
// unchanged. finalizer, if non-nil, runs when the timer is removed either
// because fn returned NoMore or because DelTimer was called; it does not
// run if the timer is still pending when the Loop is closed.
//
// Timer identifiers are assigned densely and strictly increasing within
// the loop's lifetime; none is ever reused.
//
// AddTimer fails with an error satisfying errors.Is(err, ErrClosed) if the
// loop has already been closed.
func (l *Loop) AddTimer(d time.Duration, fn TimeProc, clientData any, finalizer FinalizerProc) (TimerID, error) {
	if fn == nil {
		panic("reactor: AddTimer requires a non-nil TimeProc")
	}
	if l.closed {
		return 0, closedErrorf("reactor: AddTimer called on a closed loop")
	}

	id := l.nextTimerID
	l.nextTimerID++

	t := &timerEvent{
		id:         id,
		when:       l.clock.Now().Add(d),
		fn:         fn,
		finalizer:  finalizer,
		clientData: clientData,
		next:       l.timers,
	}
	l.timers = t

	return id, nil
}

// DelTimer cancels the timer identified by id, invoking its finalizer if
// one was installed. It returns an error satisfying errors.Is(err,
// ErrNotFound) if no pending timer has that id.
func (l *Loop) DelTimer(id TimerID) error {
	var prev *timerEvent
	for t := l.timers; t != nil; prev, t = t, t.next {
		if t.id != id {
			continue
		}
		if prev == nil {
			l.timers = t.next
		} else {
			prev.next = t.next
		}
		if t.finalizer != nil {
			t.finalizer(l, t.clientData)
		}
		return nil
	}
	return notFoundErrorf("reactor: timer %d not found", id)
}

// nearestTimer performs the O(n) linear scan for the timer with the
// earliest absolute fire time, returning nil if no timer is pending.
func (l *Loop) nearestTimer() *timerEvent {
	var nearest *timerEvent
	for t := l.timers; t != nil; t = t.next {
		if nearest == nil || t.when.Before(nearest.when) {
			nearest = t
		}
	}
	return nearest
}

// processTimers runs one firing pass over the timer chain, returning the
// number of timers that fired. See DESIGN.md for the firing discipline
// this implements: the maxId guard,
// clock-skew zeroing, and restart-from-head after every firing.
func (l *Loop) processTimers() int {
	now := l.clock.Now()

	// Wall-clock skew detection: if now is behind the last observed time,
	// the clock has jumped backwards. Zero every pending timer's fire
	// time so that all of them are ripe in the comparison below; this
	// favors early firing over indefinite stalling.
	if !l.lastTime.IsZero() && now.Before(l.lastTime) {
		epoch := time.Unix(0, 0)
		for t := l.timers; t != nil; t = t.next {
			t.when = epoch
		}
	}
	l.lastTime = now

	// maxId bounds this pass to timers that existed when the pass began:
	// a callback that schedules a new timer must not have that timer
	// fire in the same pass, which would otherwise allow an unbounded
	// firing loop (a timer that reschedules itself for "now").
	maxID := l.nextTimerID - 1

	fired := 0
restart:
	for t := l.timers; t != nil; t = t.next {
		if t.id > maxID {
			continue
		}
		if t.when.After(now) {
			continue
		}

		next := t.fn(l, t.id, t.clientData)
		fired++

		if next == NoMore {
			_ = l.DelTimer(t.id)
		} else {
			t.when = now.Add(next)
		}

		// The callback may have mutated the chain (deleted timers,
		// added timers, deleted itself); restart from the head, since
		// t.next may no longer be valid or may skip timers added
		// ahead of t.
		goto restart
	}

	return fired
}
