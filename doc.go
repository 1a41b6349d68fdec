// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package reactor implements a single-threaded, reactor-style event
// dispatcher: a library that multiplexes I/O readiness over a set of kernel
// file descriptors together with user-scheduled timers, invoking
// user-supplied callbacks when either a descriptor becomes ready or a timer
// expires.
//
// # Architecture
//
// A [Loop] owns a descriptor-indexed file-event table (see AddFile,
// DelFile, FileEvents), a singly linked timer store (see AddTimer,
// DelTimer), and a backend-private handle over the host's readiness
// primitive. [Loop.Run] drives the main loop: on each iteration it invokes
// the before-sleep hook if one is installed, computes a sleep bound from the
// nearest pending timer, blocks in the backend's poll for at most that
// bound, dispatches ready descriptors, and then fires ripe timers.
//
// # Platform support
//
// The readiness backend is chosen at compile time, in priority order event
// ports, epoll, kqueue, select:
//   - Solaris/illumos: event ports (poller_solaris.go)
//   - Linux: epoll (poller_linux.go)
//   - Darwin/BSD: kqueue (poller_kqueue.go)
//   - every other unix target: select (poller_select.go)
//
// [APIName] reports which backend was compiled into the running binary.
//
// # Concurrency
//
// The loop is single-threaded and cooperative: every callback runs on the
// goroutine that calls [Loop.Run] or [Loop.ProcessEvents], between backend
// polls, and may freely mutate the loop (register, unregister, resize,
// schedule or cancel timers, stop the loop). No internal locking is
// performed. A Loop must not be driven, nor have its registration methods
// called, from more than one goroutine; cross-goroutine wakeups are the
// application's responsibility, typically via a self-pipe registered as a
// file event.
//
// # Usage
//
//	loop, err := reactor.New(64, reactor.WithBeforeSleep(func(l *reactor.Loop) {
//	    log.Println("about to sleep")
//	}))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer loop.Close()
//
//	if _, err := loop.AddTimer(50*time.Millisecond, func(l *reactor.Loop, id reactor.TimerID, clientData any) time.Duration {
//	    fmt.Println("fired")
//	    return reactor.NoMore
//	}, nil, nil); err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := loop.Run(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
package reactor
