package reactor

import "sync/atomic"

// loopMetrics holds the atomic counters gathered when WithMetrics(true) is
// passed to New. Updating these is a handful of atomic adds per tick;
// disabled by default to keep the hot path identical to a build without
// any observability at all.
type loopMetrics struct {
	enabled       bool
	ticks         atomic.Uint64
	filesReady    atomic.Uint64
	timersFired   atomic.Uint64
	backendErrors atomic.Uint64
}

// Metrics is a point-in-time snapshot of a Loop's counters.
type Metrics struct {
	// Ticks is the number of completed ProcessEvents calls.
	Ticks uint64
	// FilesReady is the cumulative number of file callback invocations
	// (read and write counted separately) across all ticks.
	FilesReady uint64
	// TimersFired is the cumulative number of timer callback
	// invocations across all ticks.
	TimersFired uint64
	// BackendErrors is the cumulative number of backend poll errors
	// returned by ProcessEvents (EINTR is absorbed by the backend and not
	// counted).
	BackendErrors uint64
}

// Metrics returns a snapshot of the loop's counters. It returns the zero
// Metrics if the loop was constructed without WithMetrics(true).
func (l *Loop) Metrics() Metrics {
	if !l.metrics.enabled {
		return Metrics{}
	}
	return Metrics{
		Ticks:         l.metrics.ticks.Load(),
		FilesReady:    l.metrics.filesReady.Load(),
		TimersFired:   l.metrics.timersFired.Load(),
		BackendErrors: l.metrics.backendErrors.Load(),
	}
}
