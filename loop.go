package reactor

import (
	"context"
	"time"
)

// Loop is a single-threaded reactor: it owns a descriptor-indexed
// file-event table, a timer chain, and a backend-private readiness
// handle, and drives callbacks from ProcessEvents/Run. A Loop must be
// driven from a single goroutine; see the package documentation for the
// concurrency model.
type Loop struct {
	events []fileEvent
	fired  []firedEvent
	maxfd  int

	timers      *timerEvent
	nextTimerID TimerID
	lastTime    time.Time

	poller poller
	logger Logger
	clock  Clock

	beforeSleep BeforeSleepFunc
	stopped     bool
	closed      bool

	metrics loopMetrics
}

// New constructs a Loop with a file-event table sized for setsize
// descriptors (valid fd values are [0, setsize)). On any failure the
// partial construction is unwound and an error satisfying
// errors.Is(err, ErrAllocation) is returned.
func New(setsize int, opts ...LoopOption) (*Loop, error) {
	if setsize <= 0 {
		return nil, allocationErrorf("reactor: setsize must be positive, got %d", setsize)
	}

	cfg, err := resolveLoopOptions(opts)
	if err != nil {
		return nil, allocationErrorf("reactor: resolving options: %v", err)
	}

	p, err := newPoller(setsize)
	if err != nil {
		return nil, allocationErrorf("reactor: creating %s backend: %v", backendName, err)
	}

	l := &Loop{
		events:      make([]fileEvent, setsize),
		fired:       make([]firedEvent, setsize),
		maxfd:       -1,
		nextTimerID: 1,
		poller:      p,
		logger:      cfg.logger,
		clock:       cfg.clock,
		beforeSleep: cfg.beforeSleep,
	}
	l.metrics.enabled = cfg.metricsEnabled

	l.logger.Log(LevelInfo, "reactor: loop created", F("backend", p.name()), F("setsize", setsize))
	return l, nil
}

// Close releases the loop's backend resources. It does not invoke timer
// finalizers for any timers still pending; callers that need cleanup
// semantics for outstanding timers should drain them with DelTimer before
// calling Close. Close is idempotent: calling it again returns nil without
// touching the backend a second time. After Close returns, ProcessEvents,
// Run, AddFile, and AddTimer all fail with an error satisfying
// errors.Is(err, ErrClosed).
func (l *Loop) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	l.logger.Log(LevelInfo, "reactor: loop closed")
	return l.poller.close()
}

// SetBeforeSleep installs (or clears, if fn is nil) the hook invoked at
// the top of every Run iteration, before that iteration's ProcessEvents
// call.
func (l *Loop) SetBeforeSleep(fn BeforeSleepFunc) {
	l.beforeSleep = fn
}

// Stop requests that Run return after completing its current iteration.
// It has no effect on a direct caller of ProcessEvents.
func (l *Loop) Stop() {
	l.stopped = true
}

// ProcessEvents is the single dispatch primitive: it polls the backend (if
// any descriptor is registered, or Time is requested without DontWait) for
// at most the computed timeout, dispatches ready descriptors
// read-before-write with duplicate suppression, and then, if Time is
// requested, runs one timer firing pass. It returns the number of
// callbacks invoked (file callbacks plus timer callbacks) across both
// phases.
//
// If neither File nor Time is set in flags, ProcessEvents returns 0
// immediately.
func (l *Loop) ProcessEvents(flags ProcessFlag) (int, error) {
	if l.closed {
		return 0, closedErrorf("reactor: ProcessEvents called on a closed loop")
	}
	if flags&(File|Time) == 0 {
		return 0, nil
	}

	processed := 0

	// The backend is entered whenever any descriptor is registered, or
	// whenever timers are being processed without DontWait (in which
	// case entering the backend with a computed timeout is how the loop
	// actually sleeps until the nearest timer is due). This matches the
	// original driver's condition precisely: it is not simply "File was
	// requested", since a loop with zero registered descriptors but a
	// pending timer must still block in poll to wait out the delta.
	if l.maxfd != -1 || (flags&Time != 0 && flags&DontWait == 0) {
		timeout := l.computeTimeout(flags)

		n, err := l.poller.poll(timeout, l.fired)
		if err != nil {
			if l.metrics.enabled {
				l.metrics.backendErrors.Add(1)
			}
			l.logger.Log(LevelError, "reactor: backend poll failed", F("error", err))
			return processed, backendErrorf("poll", err)
		}

		if flags&File != 0 {
			processed += l.dispatchFileEvents(n)
		}
	}

	if flags&Time != 0 {
		fired := l.processTimers()
		processed += fired
		if l.metrics.enabled {
			l.metrics.timersFired.Add(uint64(fired))
		}
	}

	if l.metrics.enabled {
		l.metrics.ticks.Add(1)
	}

	return processed, nil
}

// computeTimeout determines the duration to pass to the backend's poll:
// the delta to the nearest timer if TIME is requested without DontWait
// and a timer is pending; zero if DontWait is set; negative (block
// indefinitely) otherwise. A negative delta (clock skew, or a timer
// already ripe) is clamped to zero.
func (l *Loop) computeTimeout(flags ProcessFlag) time.Duration {
	if flags&DontWait != 0 {
		return 0
	}
	if flags&Time == 0 {
		return -1
	}
	nearest := l.nearestTimer()
	if nearest == nil {
		return -1
	}
	delta := nearest.when.Sub(l.clock.Now())
	if delta < 0 {
		return 0
	}
	return delta
}

// dispatchFileEvents invokes callbacks for the first n entries of
// l.fired, implementing the read-before-write, duplicate-suppressing
// dispatch rule of §4.5.
func (l *Loop) dispatchFileEvents(n int) int {
	processed := 0
	for i := 0; i < n; i++ {
		fe := l.fired[i]
		if fe.fd < 0 || fe.fd >= len(l.events) {
			continue
		}
		slot := &l.events[fe.fd]

		// Re-check the slot's live mask against the fired mask: an
		// earlier callback in this same batch may have deleted or
		// reconfigured this descriptor.
		active := slot.mask & fe.mask

		var readRan bool
		if active&Readable != 0 && slot.read != nil {
			slot.read.fn(l, fe.fd, slot.clientData, fe.mask)
			readRan = true
			if l.metrics.enabled {
				l.metrics.filesReady.Add(1)
			}
			processed++
		}

		// Re-read the slot: the read callback may have unregistered
		// or reconfigured it.
		slot = &l.events[fe.fd]
		active = slot.mask & fe.mask
		if active&Writable != 0 && slot.write != nil {
			if !readRan || slot.write != slot.read {
				slot.write.fn(l, fe.fd, slot.clientData, fe.mask)
				if l.metrics.enabled {
					l.metrics.filesReady.Add(1)
				}
				processed++
			}
		}
	}
	return processed
}

// Run drives the loop until ctx is cancelled or Stop is called. It clears
// the stop flag on entry, then repeatedly invokes the before-sleep hook
// (if installed) followed by ProcessEvents(All), until stopped. Context
// cancellation is observed at the top of each iteration, with the same
// "takes effect after the current iteration completes" semantics as Stop.
func (l *Loop) Run(ctx context.Context) error {
	l.stopped = false
	l.logger.Log(LevelInfo, "reactor: loop starting", F("backend", l.poller.name()))

	for !l.stopped {
		select {
		case <-ctx.Done():
			l.logger.Log(LevelInfo, "reactor: loop stopping on context cancellation")
			return ctx.Err()
		default:
		}

		if l.beforeSleep != nil {
			l.beforeSleep(l)
		}

		if _, err := l.ProcessEvents(All); err != nil {
			return err
		}
	}

	l.logger.Log(LevelInfo, "reactor: loop stopped")
	return nil
}
