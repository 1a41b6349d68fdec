// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package reactor

// loopOptions holds configuration resolved from LoopOption values passed
// to New.
type loopOptions struct {
	beforeSleep    BeforeSleepFunc
	logger         Logger
	clock          Clock
	metricsEnabled bool
}

// LoopOption configures a Loop instance constructed by New.
type LoopOption interface {
	applyLoop(*loopOptions) error
}

// loopOptionImpl implements LoopOption.
type loopOptionImpl struct {
	applyLoopFunc func(*loopOptions) error
}

func (o *loopOptionImpl) applyLoop(opts *loopOptions) error {
	return o.applyLoopFunc(opts)
}

// WithBeforeSleep installs a hook invoked at the top of every Run
// iteration, before that iteration's ProcessEvents call. Equivalent to
// calling Loop.SetBeforeSleep immediately after New.
func WithBeforeSleep(fn BeforeSleepFunc) LoopOption {
	return &loopOptionImpl{func(opts *loopOptions) error {
		opts.beforeSleep = fn
		return nil
	}}
}

// WithLogger installs a structured logger for loop lifecycle and error
// events. If unset, the loop uses the package-level default logger (see
// SetDefaultLogger), which is a no-op unless configured.
func WithLogger(logger Logger) LoopOption {
	return &loopOptionImpl{func(opts *loopOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithClock installs a Clock used for all wall-clock reads the loop
// performs: timer scheduling, nearest-timer timeout computation, and
// clock-skew detection. Intended for deterministic testing of S3
// (periodic timers) and S4 (clock skew) without depending on real elapsed
// time or the ability to change the system clock.
func WithClock(clock Clock) LoopOption {
	return &loopOptionImpl{func(opts *loopOptions) error {
		opts.clock = clock
		return nil
	}}
}

// WithMetrics enables the loop's atomic tick/timer/error counters,
// retrievable via Loop.Metrics. Disabled by default; the counters are
// cheap, but this keeps the hot path identical to a build with no
// observability at all when unused, matching the reference module's
// enable-by-option metrics design.
func WithMetrics(enabled bool) LoopOption {
	return &loopOptionImpl{func(opts *loopOptions) error {
		opts.metricsEnabled = enabled
		return nil
	}}
}

// resolveLoopOptions applies opts in order over a freshly defaulted
// loopOptions, skipping nil entries.
func resolveLoopOptions(opts []LoopOption) (*loopOptions, error) {
	cfg := &loopOptions{
		logger: defaultLogger(),
		clock:  realClock{},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyLoop(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
